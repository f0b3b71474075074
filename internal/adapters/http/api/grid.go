// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// GridDependencies defines the interface for grid construction and reads.
type GridDependencies interface {
	// BuildGrid realizes the grid from the stored waves and roster.
	BuildGrid(ctx context.Context) (Grid, error)
	// Grid returns the current working grid.
	Grid(ctx context.Context) (Grid, error)
	// ExportGrid flattens the working grid into slotted export rows.
	ExportGrid(ctx context.Context) ([]ExportRow, error)
}

// GridHandler handles grid build, read and export requests.
type GridHandler struct {
	deps GridDependencies
}

// NewGridHandler creates a new grid handler.
func NewGridHandler(deps GridDependencies) *GridHandler {
	return &GridHandler{deps: deps}
}

// HandleGrid handles POST /grid builds and GET /grid reads.
func (h *GridHandler) HandleGrid(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleBuild(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleBuild realizes a fresh grid. A session with no results, no waves or
// no qualifying entries cannot build; that is a state conflict, not a bad
// request.
func (h *GridHandler) handleBuild(w http.ResponseWriter, r *http.Request) {
	const op = "api.build_grid"
	g, err := h.deps.BuildGrid(r.Context())
	if err != nil {
		writeError(w, http.StatusConflict, "build_rejected", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GridHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_grid"
	g, err := h.deps.Grid(r.Context())
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleExport handles GET /grid/export requests.
func (h *GridHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_grid"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rows, err := h.deps.ExportGrid(r.Context())
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
