package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// requestError is a malformed request detected before validation, such as
// a non-numeric page_no or an undecodable JSON body.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// statusOf maps an error to its HTTP status and public error label.
func statusOf(err error) (int, string) {
	var reqErr *requestError
	var valErrs validator.ValidationErrors
	switch {
	case errors.As(err, &reqErr), errors.As(err, &valErrs), errors.Is(err, platform.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, platform.ErrNotFound):
		return http.StatusNotFound, "product not found"
	default:
		return http.StatusInternalServerError, "request failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, label := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: label, Details: details(err)})
}

func details(err error) string {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(valErrs))
	for _, fe := range valErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
