package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"simongame/internal/game"
	"simongame/internal/wshub"
)

var errNoFlusher = errors.New("streaming unsupported")

// handleEvents streams engine events as SSE. The first message is a
// "state" snapshot so a late subscriber can render the current phase.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errNoFlusher.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := sess.Broadcaster.Subscribe()
	defer sess.Broadcaster.Unsubscribe(msgChan)

	writeSSE(w, "state", sess.Engine.Snapshot())
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-msgChan:
			if !ok {
				return
			}
			writeSSE(w, string(ev.Kind), ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("marshal sse event")
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// handleWS attaches a websocket client to the session. Clients send
// {"t":"start"} and {"t":"select","s":"red"}; the server pushes engine events.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Warn().Str("component", "ws").Err(err).Msg("accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	client := wshub.NewClient(uuid.NewString(), conn)
	sess.Hub.Register(client)
	defer sess.Hub.Unregister(client.ID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go client.WritePump(ctx)

	log.Debug().Str("component", "ws").Str("session", sess.ID).Str("client", client.ID).Msg("client connected")
	err = client.ReadPump(ctx, func(msg wshub.ClientMessage) {
		switch msg.Type {
		case wshub.MsgStart:
			s.startRound(sess)
		case wshub.MsgSelect:
			sig, err := game.ParseSignal(msg.Signal)
			if err != nil {
				s.Metrics.IgnoredInputs.Inc()
				return
			}
			s.selectSignal(sess, sig)
		}
	})
	log.Debug().Str("component", "ws").Str("session", sess.ID).Str("client", client.ID).Err(err).Msg("client disconnected")
}
