package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical detail and request ID, then
// mapped through core.MapError to a user message and code. HTMX requests
// receive an ErrorAlert fragment, API clients receive JSON, and everything
// else gets plain text.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/csv2sql/internal/core"
	"github.com/JonMunkholm/csv2sql/internal/logging"
	"github.com/JonMunkholm/csv2sql/internal/verify"
	"github.com/JonMunkholm/csv2sql/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Detail  string `json:"detail,omitempty"`
}

// respondError logs err and writes a user-facing error in the format the
// client asked for. A zero status is derived from err.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	if status == 0 {
		status = statusFor(err)
	}
	writeAPIError(w, r, err, status)
}

func writeAPIError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
	// Data errors name the offending row and column, which is the part the
	// user needs. Internal errors stay in the log.
	if status < http.StatusInternalServerError && core.IsUserFacing(err) {
		resp.Detail = err.Error()
	}

	switch {
	case isHTMX(r):
		renderErrorPartial(w, r, resp, status)
	case wantsJSON(r):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("json encode error", "error", err)
		}
	default:
		http.Error(w, msg.Message+" ("+msg.Code+")", status)
	}
}

// renderErrorPartial renders an HTMX error fragment into the page's alert
// area, whatever the triggering element targeted. The page's htmx-config
// lets 4xx and 5xx responses swap.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, resp ErrorResponse, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("HX-Retarget", templates.AlertTarget)
	w.Header().Set("HX-Reswap", "innerHTML")
	w.WriteHeader(status)

	action := resp.Action
	if resp.Detail != "" {
		action = resp.Detail + ". " + action
	}
	if err := templates.ErrorAlert(resp.Message, action, resp.Code).Render(r.Context(), w); err != nil {
		slog.Error("render error partial", "error", err)
	}
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	var (
		maxBytes *http.MaxBytesError
		cfgErr   *core.ConfigError
		coerce   *core.CoercionError
	)
	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInputTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrTooManyVerifications):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrVerificationDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &cfgErr), errors.As(err, &coerce),
		errors.Is(err, core.ErrUnknownColumnType),
		errors.Is(err, verify.ErrFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptyInput), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
