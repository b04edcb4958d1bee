package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// render writes HTML fragments one after another.
func (s *Server) render(w http.ResponseWriter, r *http.Request, cs ...templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	for _, c := range cs {
		if err := c.Render(r.Context(), w); err != nil {
			slog.Error("render fragment", "path", r.URL.Path, "error", err)
			return
		}
	}
}
