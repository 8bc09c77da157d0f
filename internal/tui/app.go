package tui

import (
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"simongame/internal/clock"
	"simongame/internal/events"
	"simongame/internal/game"
)

// inbox queues engine events without ever blocking the engine, and wakes
// the UI loop through a one-slot notify channel.
type inbox struct {
	mu      sync.Mutex
	pending []events.Event
	notify  chan struct{}
}

func newInbox() *inbox {
	return &inbox{notify: make(chan struct{}, 1)}
}

func (in *inbox) Emit(ev events.Event) {
	in.mu.Lock()
	in.pending = append(in.pending, ev)
	in.mu.Unlock()
	select {
	case in.notify <- struct{}{}:
	default:
	}
}

func (in *inbox) drain() []events.Event {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := in.pending
	in.pending = nil
	return out
}

type action int

const (
	actionNone action = iota
	actionStart
	actionSelect
	actionQuit
)

var runeSignals = map[rune]game.Signal{
	'r': game.Red, '1': game.Red,
	'b': game.Blue, '2': game.Blue,
	'g': game.Green, '3': game.Green,
	'y': game.Yellow, '4': game.Yellow,
}

// keyAction maps a key press to what it asks the game to do.
func keyAction(key tcell.Key, r rune) (action, game.Signal) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit, ""
	case tcell.KeyEnter:
		return actionStart, ""
	case tcell.KeyRune:
	default:
		return actionNone, ""
	}
	if r == ' ' {
		return actionStart, ""
	}
	if r == 'q' || r == 'Q' {
		return actionQuit, ""
	}
	if sig, ok := runeSignals[unicode.ToLower(r)]; ok {
		return actionSelect, sig
	}
	return actionNone, ""
}

type App struct {
	screen tcell.Screen
	engine *game.Engine
	inbox  *inbox
	view   *View
}

// New builds an app drawing on screen with its own engine. tone may be nil.
func New(screen tcell.Screen, cfg game.Config, tone game.TonePlayer) *App {
	in := newInbox()
	return &App{
		screen: screen,
		engine: game.NewEngine(cfg, clock.Real(), nil, in, tone),
		inbox:  in,
		view:   NewView(),
	}
}

// Run drives the UI until the player quits or the screen stops delivering
// events. The engine is closed on return.
func (a *App) Run() error {
	defer a.engine.Close()

	keys := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(keys)
				return
			}
			keys <- ev
		}
	}()

	for {
		draw(a.screen, a.view)
		select {
		case ev, ok := <-keys:
			if !ok {
				return nil
			}
			if !a.handle(ev) {
				return nil
			}
		case <-a.inbox.notify:
			for _, ev := range a.inbox.drain() {
				a.view.Apply(ev)
			}
		}
	}
}

func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		act, sig := keyAction(ev.Key(), ev.Rune())
		switch act {
		case actionQuit:
			return false
		case actionStart:
			if !a.engine.StartRound() {
				a.screen.Beep()
			}
		case actionSelect:
			if !a.engine.PlayerSelect(sig) {
				log.Debug().Str("signal", string(sig)).Str("phase", a.engine.Phase().String()).Msg("input ignored")
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// ScreenBeep sounds the terminal bell for every tone. It stands in for the
// speaker when no audio device is available.
type ScreenBeep struct {
	Screen tcell.Screen
}

func (b ScreenBeep) PlayTone(game.Signal) {
	b.Screen.Beep()
}
