// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// WaveDependencies defines the interface for wave configuration.
type WaveDependencies interface {
	// SetWaves validates and stores the full configuration set.
	SetWaves(ctx context.Context, configs []WaveConfig) error
	// Waves returns the stored configuration set.
	Waves(ctx context.Context) []WaveConfig
	// SortOptions reports the sort and tie-break criteria the uploaded
	// data can back.
	SortOptions(ctx context.Context) SortOptions
}

// WavesHandler handles wave configuration requests.
type WavesHandler struct {
	deps WaveDependencies
}

// NewWavesHandler creates a new waves handler.
func NewWavesHandler(deps WaveDependencies) *WavesHandler {
	return &WavesHandler{deps: deps}
}

// HandleWaves handles PUT /waves and GET /waves requests. PUT replaces the
// whole configuration set; partial updates are not a thing.
func (h *WavesHandler) HandleWaves(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.handleSetWaves(w, r)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Waves(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

// HandleOptions handles GET /waves/options. Options backed by a field no
// uploaded file resolved are withheld from the response.
func (h *WavesHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.SortOptions(r.Context()))
}

func (h *WavesHandler) handleSetWaves(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_waves"
	var configs []WaveConfig
	if err := json.NewDecoder(r.Body).Decode(&configs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SetWaves(r.Context(), configs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_waves", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "configured"})
}
