package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/JonMunkholm/csv2sql/internal/core"
	"github.com/JonMunkholm/csv2sql/internal/logging"
	"github.com/JonMunkholm/csv2sql/internal/web/templates"
)

// errBadRequest marks a body or form that could not be decoded.
var errBadRequest = errors.New("invalid request")

// formOverhead covers URL-encoding growth and the other form fields.
const formOverhead = 64 * 1024

// SessionResponse is the JSON view of an editing session.
type SessionResponse struct {
	SessionID string             `json:"session_id"`
	Fields    []string           `json:"fields"`
	Configs   core.ColumnConfigs `json:"configs"`
	Preview   core.Preview       `json:"preview"`
	Delimiter string             `json:"delimiter,omitempty"`
	SQL       string             `json:"sql,omitempty"`
}

// GenerateResponse is returned by POST /api/generate.
type GenerateResponse struct {
	SessionID string   `json:"session_id"`
	SQL       string   `json:"sql"`
	Columns   []string `json:"columns"`
	Rows      int      `json:"rows"`
	Checksum  string   `json:"checksum"`
}

// VerifyResponse is returned by POST /api/verify.
type VerifyResponse struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend"`
}

type parseRequest struct {
	Input     string `json:"input"`
	Delimiter string `json:"delimiter,omitempty"`
}

type configRequest struct {
	Field   string `json:"field"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Include *bool  `json:"include,omitempty"`
}

// handleIndex renders the editor for the caller's session.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, _, st, err := s.session(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	page := templates.PageData{
		Input:         st.Input,
		Preview:       core.BuildPreview(st.Parsed, s.service.PreviewRows()),
		Fields:        st.Parsed.Fields,
		Configs:       st.Configs,
		SQL:           st.SQL,
		VerifyBackend: s.service.VerifierName(),
		Debounce:      s.cfg.Generate.Debounce,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(page).Render(ctx, w); err != nil {
		slog.Error("render page", "error", err)
	}
}

// handleHealth reports liveness plus a few gauges.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
		"verify":   s.service.VerifierName(),
	})
}

// handleGetSession returns the caller's session as JSON.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	_, id, st, err := s.session(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, s.sessionResponse(id, st))
}

// handleDeleteSession discards the caller's session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, id, _, err := s.session(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	s.service.Delete(id)
	if err := s.clearSession(w, r); err != nil {
		slog.Warn("clear session cookie", "error", err)
	}
	logging.FromContext(ctx).Info("session deleted")
	w.WriteHeader(http.StatusNoContent)
}

// handleParse replaces the session input and returns the new preview.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	ctx, id, _, err := s.session(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	var req parseRequest
	err = s.decode(w, r, &req, func(form url.Values) {
		req.Input = form.Get("input")
		req.Delimiter = form.Get("delimiter")
	})
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	delim, err := core.ParseDelimiter(req.Delimiter)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %w", errBadRequest, err), 0)
		return
	}

	st, err := s.service.UpdateInput(ctx, id, req.Input, core.ParseOptions{Delimiter: delim})
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if isHTMX(r) {
		p := core.BuildPreview(st.Parsed, s.service.PreviewRows())
		s.render(w, r, templates.Workspace(p, st.Parsed.Fields, st.Configs), templates.Reset(true))
		return
	}
	writeJSON(w, s.sessionResponse(id, st))
}

// handleConfig updates one field's configuration.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	ctx, id, _, err := s.session(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	var req configRequest
	err = s.decode(w, r, &req, func(form url.Values) {
		req.Field = form.Get("field")
		req.Name = form.Get("name")
		req.Type = form.Get("type")
		include := isChecked(form.Get("include"))
		req.Include = &include
	})
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if req.Field == "" {
		s.respondError(w, r, fmt.Errorf("%w: field is required", errBadRequest), 0)
		return
	}

	typ, err := core.ParseColumnType(req.Type)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	cfg := core.ColumnConfig{
		TargetName: strings.TrimSpace(req.Name),
		Type:       typ,
		Include:    req.Include == nil || *req.Include,
	}

	st, err := s.service.SetConfig(ctx, id, req.Field, cfg)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if isHTMX(r) {
		// The form swaps nothing; only the out-of-band reset lands.
		s.render(w, r, templates.Reset(true))
		return
	}
	writeJSON(w, s.sessionResponse(id, st))
}

// handleGenerate produces SQL from the session's current input and configs.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, id, _, err := s.session(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	st, err := s.service.Generate(ctx, id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if isHTMX(r) {
		s.render(w, r, templates.SQLOutput(st.SQL, s.service.VerifierName()), templates.Reset(false))
		return
	}

	sum := core.Checksum(st.SQL)
	etag := `"` + sum + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, GenerateResponse{
		SessionID: id,
		SQL:       st.SQL,
		Columns:   core.IncludedColumns(st.Parsed.Fields, st.Configs),
		Rows:      len(st.Parsed.Rows),
		Checksum:  sum,
	})
}

// handleVerify checks the session's last generated SQL.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx, id, _, err := s.session(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if err := s.service.Verify(ctx, id); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	backend := s.service.VerifierName()
	if isHTMX(r) {
		s.render(w, r, templates.VerifyOK(backend), templates.Reset(false))
		return
	}
	writeJSON(w, VerifyResponse{OK: true, Backend: backend})
}

func (s *Server) sessionResponse(id string, st core.State) SessionResponse {
	resp := SessionResponse{
		SessionID: id,
		Fields:    st.Parsed.Fields,
		Configs:   st.Configs,
		Preview:   core.BuildPreview(st.Parsed, s.service.PreviewRows()),
		SQL:       st.SQL,
	}
	if st.Parsed.Delimiter != 0 {
		resp.Delimiter = string(st.Parsed.Delimiter)
	}
	return resp
}

// decode reads a JSON body into v, or calls form with the parsed form.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, form func(url.Values)) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Generate.MaxInputBytes*2+formOverhead)

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return err
			}
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	form(r.PostForm)
	return nil
}

func isChecked(v string) bool {
	switch strings.ToLower(v) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}
