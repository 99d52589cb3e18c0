package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gfpop-go/gfpop/internal/storage"
	"github.com/gfpop-go/gfpop/pkg/gfpop"
	"github.com/gfpop-go/gfpop/pkg/responseformat"
)

// Handlers implements the job API's HTTP endpoints.
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance bound to ctrl.
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{controller: ctrl, formatter: responseformat.NewFormatter()}
}

// SubmitJob handles POST /jobs: runs the engine synchronously and persists
// the result before responding.
func (h *Handlers) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var data gfpop.Data
	if len(req.Weights) > 0 {
		data = gfpop.NewWeightedData(req.Values, req.Weights)
	} else {
		data = gfpop.NewData(req.Values)
	}

	engine, err := gfpop.New(req.Graph, req.Bound.toBound(), req.Robust.toParams())
	if err != nil {
		http.Error(w, "invalid graph/bound: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := engine.Run(data)
	if err != nil {
		http.Error(w, "segmentation failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	id, err := h.controller.store.SaveRun(graphDigest(req.Graph), engine.Bound.M, engine.Bound.MM, res)
	if err != nil {
		http.Error(w, "failed to persist result: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.formatter.WriteResponse(w, r, JobResponse{ID: id, Result: res}, nil)
}

// GetJob handles GET /jobs/{id}: fetches a previously persisted result.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	res, err := h.controller.store.GetRun(id)
	if err != nil {
		if err == storage.ErrRunNotFound {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch result: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.formatter.WriteResponse(w, r, JobResponse{ID: id, Result: res}, nil)
}

// graphDigest is a stable fingerprint of a graph's shape, stored alongside
// a run so stored runs can be matched by the graph they were segmented
// under without re-serializing the whole Graph value.
func graphDigest(g gfpop.Graph) string {
	h := uint32(2166136261) // fnv-1a offset basis
	mix := func(x int) {
		h ^= uint32(x)
		h *= 16777619
	}
	mix(g.NStates)
	for _, e := range g.Edges {
		mix(e.From)
		mix(e.To)
		mix(int(e.Kind))
	}
	return fmt.Sprintf("%08x", h)
}
