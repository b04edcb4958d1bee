package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/csv2sql/internal/core"
	"github.com/JonMunkholm/csv2sql/internal/logging"
)

const (
	sessionValueKey = "sid"

	// SessionHeader lets API clients without cookies name their session.
	SessionHeader = "X-Session-ID"
)

// session resolves the caller's editing session, starting a new one when
// the request carries no live session. The returned context carries the
// session id for logging.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (context.Context, string, core.State, error) {
	if id := r.Header.Get(SessionHeader); id != "" {
		st, err := s.service.Get(id)
		if err != nil {
			return nil, "", core.State{}, err
		}
		return logging.ContextWithSessionID(r.Context(), id), id, st, nil
	}

	// A cookie that fails to decode yields a fresh session value, which is
	// what we want after a secret rotation.
	cookie, _ := s.store.Get(r, s.cfg.Session.CookieName)
	if id, ok := cookie.Values[sessionValueKey].(string); ok && id != "" {
		if st, err := s.service.Get(id); err == nil {
			return logging.ContextWithSessionID(r.Context(), id), id, st, nil
		}
	}

	id, st := s.service.NewSession()
	cookie.Values[sessionValueKey] = id
	if err := cookie.Save(r, w); err != nil {
		return nil, "", core.State{}, err
	}

	ctx := logging.ContextWithSessionID(r.Context(), id)
	logging.FromContext(ctx).Debug("session started")
	return ctx, id, st, nil
}

// clearSession expires the session cookie.
func (s *Server) clearSession(w http.ResponseWriter, r *http.Request) error {
	cookie, _ := s.store.Get(r, s.cfg.Session.CookieName)
	cookie.Options.MaxAge = -1
	return cookie.Save(r, w)
}

// clientIP returns the IP TrustedRealIP left in RemoteAddr, without port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
