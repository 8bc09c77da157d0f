package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"simongame/internal/clock"
	"simongame/internal/config"
	"simongame/internal/db"
	"simongame/internal/events"
	"simongame/internal/game"
	"simongame/internal/metrics"
	"simongame/internal/sessions"
	"simongame/internal/tone"
)

const sessionCookie = "simon_session"

type Server struct {
	Sessions *sessions.Store
	Metrics  *metrics.Metrics
	Tones    *tone.Library
	DB       *db.DB          // nil if no database configured
	Outcomes chan db.Outcome // nil if no database configured

	mode game.Mode
}

// New wires a server around a fresh session store. A nil clk means the real
// clock; tests pass a fake one to drive engine timers by hand.
func New(cfg config.Config, database *db.DB, clk clock.Clock) *Server {
	s := &Server{
		Metrics: metrics.New(),
		Tones:   tone.NewLibrary(),
		DB:      database,
		mode:    cfg.Mode,
	}
	if database != nil {
		s.Outcomes = make(chan db.Outcome, 1000)
	}
	s.Sessions = sessions.NewStore(cfg.GameConfig(), cfg.SessionTTL, clk, sessions.Hooks{
		Observe: s.observe,
		Created: s.sessionCreated,
		Removed: s.sessionRemoved,
	})
	return s
}

func (s *Server) Close() {
	s.Sessions.Close()
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.Metrics.Handler())
	r.Get("/tones/{signal}.wav", s.handleTone)

	r.Route("/session", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/state", s.handleState)
		r.Post("/start", s.handleStart)
		r.Post("/select/{signal}", s.handleSelect)
		r.Get("/events", s.handleEvents)
		r.Get("/ws", s.handleWS)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// observe runs on each session's broadcaster goroutine.
func (s *Server) observe(sessionID string, ev events.Event) {
	s.Metrics.Observe(ev)
	if ev.Kind != events.KindRoundOver || s.Outcomes == nil {
		return
	}
	o := db.Outcome{
		SessionID:   sessionID,
		RoundNumber: ev.RoundNumber,
		Score:       ev.Score,
		Won:         ev.Won,
		FinishedAt:  time.Now(),
	}
	select {
	case s.Outcomes <- o:
	default:
		// Batch writer is behind; write this one directly.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.DB.RecordOutcome(ctx, o); err != nil {
			log.Error().Str("component", "db").Str("session", sessionID).Err(err).Msg("RecordOutcome failed")
		}
	}
}

func (s *Server) sessionCreated(sess *sessions.Session) {
	s.Metrics.ActiveSessions.Inc()
	if s.DB == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.DB.CreateSession(ctx, sess.ID, string(s.mode)); err != nil {
		log.Error().Str("component", "db").Str("session", sess.ID).Err(err).Msg("CreateSession failed")
	}
}

func (s *Server) sessionRemoved(sess *sessions.Session) {
	s.Metrics.ActiveSessions.Dec()
	if s.DB == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.DB.EndSession(ctx, sess.ID, sess.Engine.Snapshot().RoundsPlayed); err != nil {
		log.Error().Str("component", "db").Str("session", sess.ID).Err(err).Msg("EndSession failed")
	}
}
