package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"simongame/internal/config"
	"simongame/internal/game"
	"simongame/internal/tui"
)

func main() {
	// The screen owns the terminal; logs go to SIMON_LOG or nowhere.
	var out io.Writer = io.Discard
	if path := os.Getenv("SIMON_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	cfg, err := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Err(err).Msg("tuning file ignored")
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "simon: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	var player game.TonePlayer = tui.ScreenBeep{Screen: screen}
	speaker := tui.NewSpeakerPlayer()
	if err := speaker.Init(); err != nil {
		log.Warn().Err(err).Msg("audio unavailable, using terminal bell")
	} else {
		defer speaker.Close()
		player = speaker
	}

	return tui.New(screen, cfg.GameConfig(), player).Run()
}
