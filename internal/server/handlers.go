package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/matzehuels/rcd/pkg/buildinfo"
	"github.com/matzehuels/rcd/pkg/data"
	"github.com/matzehuels/rcd/pkg/errors"
	"github.com/matzehuels/rcd/pkg/graph"
	"github.com/matzehuels/rcd/pkg/pipeline"
	"github.com/matzehuels/rcd/pkg/skeleton"
)

// SkeletonRequest is the body of POST /v1/skeleton.
type SkeletonRequest struct {
	Algorithm    string      `json:"algorithm,omitempty"`
	Alpha        float64     `json:"alpha,omitempty"`
	CliqueNumber int         `json:"clique_number,omitempty"`
	Boundary     string      `json:"boundary,omitempty"`
	Formats      []string    `json:"formats,omitempty"`
	Names        []string    `json:"names,omitempty"`
	Data         [][]float64 `json:"data"`
}

// SkeletonResponse is the reply to POST /v1/skeleton.
type SkeletonResponse struct {
	ID        uuid.UUID         `json:"id"`
	N         int               `json:"n"`
	Names     []string          `json:"names"`
	Edges     []graph.Edge      `json:"edges"`
	Stats     ResponseStats     `json:"stats"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

// ResponseStats reports CI test usage and stage timings.
type ResponseStats struct {
	Queries     int64   `json:"ci_queries"`
	Evaluations int64   `json:"ci_tests"`
	BoundaryMs  float64 `json:"boundary_ms"`
	LearnMs     float64 `json:"learn_ms"`
	Cached      bool    `json:"cached"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"algorithms": skeleton.Algorithms()})
}

func (s *Server) handleSkeleton(w http.ResponseWriter, r *http.Request) {
	limit := s.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req SkeletonRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body too large"))
			return
		}
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	m, err := data.FromRows(req.Data, req.Names)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidData, err, "invalid data"))
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Algorithm:    req.Algorithm,
		Alpha:        req.Alpha,
		CliqueNumber: req.CliqueNumber,
		Boundary:     req.Boundary,
		Formats:      req.Formats,
		Data:         m,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := SkeletonResponse{
		ID:    res.ID,
		N:     res.Skeleton.NumVars(),
		Names: res.Names,
		Edges: res.Skeleton.Edges(),
		Stats: ResponseStats{
			Queries:     res.Stats.Queries,
			Evaluations: res.Stats.Evaluations,
			BoundaryMs:  float64(res.Stats.BoundaryTime.Microseconds()) / 1000,
			LearnMs:     float64(res.Stats.LearnTime.Microseconds()) / 1000,
			Cached:      res.CacheInfo.SkeletonHit,
		},
	}
	if resp.Edges == nil {
		resp.Edges = []graph.Edge{}
	}
	// JSON is already the response body; only text formats are embedded.
	for format, raw := range res.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[format] = string(raw)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidData, errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidAlgorithm, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeCanceled:
		return 499 // client closed request
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
