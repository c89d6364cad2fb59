package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
	"github.com/randomizedcoder/go-cpusched/internal/store"
)

var errHistoryDisabled = &APIError{
	Code:    CodeHistoryDisabled,
	Message: "run history is disabled; start the server with --db",
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if s.store == nil {
		respondError(w, reqID, errHistoryDisabled)
		return
	}

	var opts store.ListOptions
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, reqID, &APIError{Code: CodeBadRequest, Field: "limit", Message: "must be an integer"})
			return
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, reqID, &APIError{Code: CodeBadRequest, Field: "offset", Message: "must be an integer"})
			return
		}
		opts.Offset = n
	}
	if v := q.Get("algorithm"); v != "" {
		alg, err := scheduler.ParseAlgorithm(v)
		if err != nil {
			respondError(w, reqID, engineError(err))
			return
		}
		opts.Algorithm = alg.String()
	}
	opts.Clamp()

	runs, total, err := s.store.ListRuns(r.Context(), opts)
	if err != nil {
		respondError(w, reqID, &APIError{Code: CodeInternal, Message: err.Error()})
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}

	respondList(w, reqID, runs, &Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+opts.Limit < total,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if s.store == nil {
		respondError(w, reqID, errHistoryDisabled)
		return
	}
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondError(w, reqID, &APIError{Code: CodeInternal, Message: err.Error()})
		return
	}
	if run == nil {
		respondError(w, reqID, &APIError{Code: CodeNotFound, Message: "run '" + id + "' not found"})
		return
	}
	respondOK(w, reqID, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if s.store == nil {
		respondError(w, reqID, errHistoryDisabled)
		return
	}
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondError(w, reqID, &APIError{Code: CodeInternal, Message: err.Error()})
		return
	}
	if run == nil {
		respondError(w, reqID, &APIError{Code: CodeNotFound, Message: "run '" + id + "' not found"})
		return
	}
	if err := s.store.DeleteRun(r.Context(), id); err != nil {
		respondError(w, reqID, &APIError{Code: CodeInternal, Message: err.Error()})
		return
	}
	s.logger.Info("run_deleted", "run_id", id)
	respondOK(w, reqID, map[string]string{"id": id})
}
