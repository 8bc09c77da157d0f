package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"simongame/internal/game"
	"simongame/internal/sessions"
	"simongame/web"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// getSession resolves the caller's session from the session cookie.
func (s *Server) getSession(r *http.Request) (*sessions.Session, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, sessions.ErrNotFound
	}
	return s.Sessions.Get(cookie.Value)
}

// requireSession writes a 404 and returns nil when the caller has no live session.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) *sessions.Session {
	sess, err := s.getSession(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil
	}
	return sess
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(web.Index); err != nil {
		log.Debug().Err(err).Msg("write index")
	}
}

// handleCreateSession resumes the cookie's session when it is still live,
// otherwise starts a new one.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if sess, err := s.getSession(r); err == nil {
		writeJSON(w, http.StatusOK, map[string]any{"id": sess.ID, "resumed": true})
		return
	}

	sess := s.Sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"id": sess.ID, "resumed": false})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess.Engine.Snapshot())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"started": s.startRound(sess)})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}
	sig, err := game.ParseSignal(chi.URLParam(r, "signal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"accepted": s.selectSignal(sess, sig)})
}

func (s *Server) startRound(sess *sessions.Session) bool {
	started := sess.Engine.StartRound()
	if started {
		s.Metrics.RoundsStarted.Inc()
		log.Debug().Str("session", sess.ID).Msg("round started")
	}
	return started
}

func (s *Server) selectSignal(sess *sessions.Session, sig game.Signal) bool {
	accepted := sess.Engine.PlayerSelect(sig)
	if !accepted {
		s.Metrics.IgnoredInputs.Inc()
	}
	return accepted
}

func (s *Server) handleTone(w http.ResponseWriter, r *http.Request) {
	sig, err := game.ParseSignal(chi.URLParam(r, "signal"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	data, err := s.Tones.WAV(sig)
	if err != nil {
		log.Error().Err(err).Str("signal", string(sig)).Msg("render tone")
		writeError(w, http.StatusInternalServerError, "tone unavailable")
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.DB.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db_error", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.Sessions.Len()})
}
