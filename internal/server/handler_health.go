package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Store     string `json:"store"`
}

func handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	storeState := "disabled"
	if s.store != nil {
		storeState = "enabled"
	}
	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   s.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Store:     storeState,
	})
}

type algorithmInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Preemptive  bool   `json:"preemptive"`
	Priorities  bool   `json:"needs_priorities"`
	Quantum     bool   `json:"needs_quantum"`
}

func (s *Server) handleListAlgorithms(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	all := scheduler.All()
	data := make([]algorithmInfo, len(all))
	for i, alg := range all {
		data[i] = algorithmInfo{
			Name:        alg.String(),
			Description: alg.Description(),
			Preemptive:  alg.Preemptive(),
			Priorities:  alg.NeedsPriorities(),
			Quantum:     alg.NeedsQuantum(),
		}
	}
	respondOK(w, reqID, data)
}
