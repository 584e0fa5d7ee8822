package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/VamsiKurapati/docrender"
)

// RenderResponse is the JSON envelope of a successful render. PDF is
// base64-encoded by encoding/json.
type RenderResponse struct {
	PDF       []byte                  `json:"pdf"`
	Pages     int                     `json:"pages"`
	Degraded  []docrender.Degradation `json:"degraded"`
	RequestID string                  `json:"requestId"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "document too large",
				fmt.Errorf("limit is %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	doc, err := docrender.Parse(body)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid document", err)
		return
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "render canceled while waiting for a worker", err)
		return
	}
	res, err := s.renderer.Render(ctx, doc)
	s.limiter.Release()

	if err != nil {
		switch {
		case errors.Is(err, docrender.ErrEmptyDocument), errors.Is(err, docrender.ErrInvalidPageSize):
			s.writeError(w, r, http.StatusBadRequest, "invalid document", err)
		case errors.Is(err, docrender.ErrRenderExhausted):
			s.writeError(w, r, http.StatusInternalServerError, "PDF generation failed", err)
		default:
			s.writeError(w, r, http.StatusInternalServerError, "render failed", err)
		}
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="document.pdf"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
		w.Header().Set("X-Degraded-Elements", strconv.Itoa(len(res.Degraded)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.PDF)
		return
	}

	degraded := res.Degraded
	if degraded == nil {
		degraded = []docrender.Degradation{}
	}
	s.writeJSON(w, http.StatusOK, RenderResponse{
		PDF:       res.PDF,
		Pages:     res.Pages,
		Degraded:  degraded,
		RequestID: docrender.RequestID(ctx),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.renderer.Health(r.Context())
	status := http.StatusOK
	if !report.OK() {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, report)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, message,
		"request_id", docrender.RequestID(r.Context()),
		"status", status,
		"error", err)

	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Details = err.Error()
	}
	s.writeJSON(w, status, resp)
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestID tags every request with an ID, taken from the X-Request-ID
// header when present, echoes it back and logs the outcome.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(docrender.WithRequestID(r.Context(), id)))

		s.logger.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
