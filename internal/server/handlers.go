package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/seamcarve/pkg/buildinfo"
	errs "github.com/matzehuels/seamcarve/pkg/errors"
	"github.com/matzehuels/seamcarve/pkg/imageio"
	"github.com/matzehuels/seamcarve/pkg/observability"
	"github.com/matzehuels/seamcarve/pkg/pipeline"
)

// Response headers set on successful resizes.
const (
	HeaderCache      = "X-Cache"
	HeaderSourceSize = "X-Source-Size"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
	})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	opts, err := parseResizeQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "image exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	if len(body) == 0 {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "request body must contain an image"))
		return
	}

	res, err := s.runner.Execute(r.Context(), body, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", res.Format.ContentType())
	h.Set("Content-Length", strconv.Itoa(len(res.Image)))
	h.Set(HeaderSourceSize, fmt.Sprintf("%dx%d", res.Source.Width, res.Source.Height))
	if res.CacheHit {
		h.Set(HeaderCache, "hit")
	} else {
		h.Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Image)
}

func parseResizeQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	width, err := intParam(q.Get("width"), "width")
	if err != nil {
		return pipeline.Options{}, err
	}
	height, err := intParam(q.Get("height"), "height")
	if err != nil {
		return pipeline.Options{}, err
	}
	if err := errs.ValidateBoundedDimension("width", width, errs.MaxDimension); err != nil {
		return pipeline.Options{}, err
	}
	if err := errs.ValidateBoundedDimension("height", height, errs.MaxDimension); err != nil {
		return pipeline.Options{}, err
	}
	refresh, _ := strconv.ParseBool(q.Get("refresh"))
	return pipeline.Options{
		Width:   width,
		Height:  height,
		Format:  imageio.Format(q.Get("format")),
		Refresh: refresh,
	}, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, errs.New(errs.ErrCodeInvalidInput, "%s is required", name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	return n, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code      errs.Code `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errs.IsClientError(err):
		return http.StatusBadRequest
	case errs.Is(err, errs.ErrCodeNotFound), errs.Is(err, errs.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrCodeUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code, msg := errs.GetCode(err), errs.UserMessage(err)
	if code == "" {
		code, msg = errs.ErrCodeInternal, "internal server error"
	}
	if status >= 500 {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "err", err)
	}
	writeJSON(w, status, errorBody{
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
