package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"simongame/internal/config"
	"simongame/internal/db"
)

const (
	outcomeFlushEvery = 500 * time.Millisecond
	outcomeBatchSize  = 50
)

func Run() error {
	appCfg, err := config.Load()
	zerolog.SetGlobalLevel(appCfg.LogLevel)
	if err != nil {
		log.Warn().Err(err).Msg("tuning file ignored")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional database connection
	var database *db.DB
	writerDone := make(chan struct{})
	if appCfg.DatabaseURL != "" {
		database, err = db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Error().Str("component", "db").Err(err).Msg("failed to connect, running without database")
			database = nil
		} else if err := database.Migrate(); err != nil {
			log.Error().Str("component", "db").Err(err).Msg("migration failed")
		}
	} else {
		log.Info().Str("component", "db").Msg("DATABASE_URL not set, running without database")
	}

	srv := New(appCfg, database, nil)
	if database != nil {
		defer database.Close()
		go func() {
			outcomeBatchWriter(ctx, database, srv.Outcomes)
			close(writerDone)
		}()
	} else {
		close(writerDone)
	}

	httpSrv := &http.Server{
		Addr:              "0.0.0.0:" + appCfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", appCfg.Port).Str("mode", string(appCfg.Mode)).Msg("server listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		srv.Close()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = httpSrv.Shutdown(shutdownCtx)
	srv.Close()
	<-writerDone
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// outcomeBatchWriter drains finished rounds into the database in batches.
// It flushes what it holds when ctx ends.
func outcomeBatchWriter(ctx context.Context, database *db.DB, buffer <-chan db.Outcome) {
	ticker := time.NewTicker(outcomeFlushEvery)
	defer ticker.Stop()

	batch := make([]db.Outcome, 0, outcomeBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.BatchRecordOutcomes(writeCtx, batch); err != nil {
			log.Error().Str("component", "db").Err(err).Int("outcomes", len(batch)).Msg("BatchRecordOutcomes failed")
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case o := <-buffer:
					batch = append(batch, o)
				default:
					flush()
					return
				}
			}
		case o := <-buffer:
			batch = append(batch, o)
			if len(batch) >= outcomeBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
