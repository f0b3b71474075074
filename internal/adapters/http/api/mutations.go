// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// MutationDependencies defines the interface for grid mutations. Wave and
// index arguments are zero-based. Mutations report applied=false instead
// of failing for out-of-range or guard-dropped requests.
type MutationDependencies interface {
	MoveEntry(ctx context.Context, fromWave, fromIndex, toWave, toIndex int) (bool, error)
	MoveToWaveStart(ctx context.Context, wave, index int) (bool, error)
	MoveToWaveEnd(ctx context.Context, wave, index int) (bool, error)
	MoveToClassEnd(ctx context.Context, wave, index int) (bool, error)
	MoveClass(ctx context.Context, wave int, class, direction string) (bool, error)
	MergeClass(ctx context.Context, wave int, class string) (bool, error)
	CombineWave(ctx context.Context, wave int) (bool, error)
	ResetWave(ctx context.Context, wave int) (bool, error)
	ResetGrid(ctx context.Context) error
}

// MutationsHandler handles grid mutation requests.
type MutationsHandler struct {
	deps MutationDependencies
}

// NewMutationsHandler creates a new mutations handler.
func NewMutationsHandler(deps MutationDependencies) *MutationsHandler {
	return &MutationsHandler{deps: deps}
}

// entryMoveRequest mirrors the OpenAPI schema for POST /grid/entry-move.
// Wave numbers are one-based on the wire; indices are zero-based slots
// within a wave, and an index of len(entries) is a valid insertion point.
type entryMoveRequest struct {
	FromWave  int `json:"from_wave"`
	FromIndex int `json:"from_index"`
	ToWave    int `json:"to_wave"`
	ToIndex   int `json:"to_index"`
}

func (m entryMoveRequest) validate() error {
	switch {
	case m.FromWave < 1:
		return errors.New("from_wave must be at least 1")
	case m.ToWave < 1:
		return errors.New("to_wave must be at least 1")
	case m.FromIndex < 0:
		return errors.New("from_index must not be negative")
	case m.ToIndex < 0:
		return errors.New("to_index must not be negative")
	}
	return nil
}

// entryRequest targets one entry by one-based wave and zero-based index.
type entryRequest struct {
	Wave  int `json:"wave"`
	Index int `json:"index"`
}

func (m entryRequest) validate() error {
	switch {
	case m.Wave < 1:
		return errors.New("wave must be at least 1")
	case m.Index < 0:
		return errors.New("index must not be negative")
	}
	return nil
}

// classMoveRequest mirrors the OpenAPI schema for POST /grid/class-move.
type classMoveRequest struct {
	Wave      int    `json:"wave"`
	Class     string `json:"class"`
	Direction string `json:"direction"`
}

func (m classMoveRequest) validate() error {
	switch {
	case m.Wave < 1:
		return errors.New("wave must be at least 1")
	case strings.TrimSpace(m.Class) == "":
		return errors.New("missing class")
	case m.Direction != "up" && m.Direction != "down":
		return errors.New("direction must be up or down")
	}
	return nil
}

// classMergeRequest mirrors the OpenAPI schema for POST /grid/class-merge.
type classMergeRequest struct {
	Wave  int    `json:"wave"`
	Class string `json:"class"`
}

func (m classMergeRequest) validate() error {
	switch {
	case m.Wave < 1:
		return errors.New("wave must be at least 1")
	case strings.TrimSpace(m.Class) == "":
		return errors.New("missing class")
	}
	return nil
}

// waveRequest targets a whole wave by one-based number.
type waveRequest struct {
	Wave int `json:"wave"`
}

func (m waveRequest) validate() error {
	if m.Wave < 1 {
		return errors.New("wave must be at least 1")
	}
	return nil
}

type validatable interface {
	validate() error
}

// decodeBody decodes the JSON request body into req and validates it.
func decodeBody(r *http.Request, req validatable) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return err
	}
	return req.validate()
}

// HandleEntryMove handles POST /grid/entry-move requests.
func (h *MutationsHandler) HandleEntryMove(w http.ResponseWriter, r *http.Request) {
	const op = "api.entry_move"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req entryMoveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	applied, err := h.deps.MoveEntry(r.Context(), req.FromWave-1, req.FromIndex, req.ToWave-1, req.ToIndex)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Applied: applied})
}

// HandleEntryToStart handles POST /grid/entry-to-start requests.
func (h *MutationsHandler) HandleEntryToStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.entry_to_start"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	applied, err := h.deps.MoveToWaveStart(r.Context(), req.Wave-1, req.Index)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Applied: applied})
}

// HandleEntryToEnd handles POST /grid/entry-to-end requests.
func (h *MutationsHandler) HandleEntryToEnd(w http.ResponseWriter, r *http.Request) {
	const op = "api.entry_to_end"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	applied, err := h.deps.MoveToWaveEnd(r.Context(), req.Wave-1, req.Index)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Applied: applied})
}

// HandleEntryToClassEnd handles POST /grid/entry-to-class-end requests.
func (h *MutationsHandler) HandleEntryToClassEnd(w http.ResponseWriter, r *http.Request) {
	const op = "api.entry_to_class_end"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	applied, err := h.deps.MoveToClassEnd(r.Context(), req.Wave-1, req.Index)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Applied: applied})
}

// HandleClassMove handles POST /grid/class-move requests. A request the
// guard drops is acknowledged with 202 and applied=false rather than
// failed; the caller already holds a fresher grid than this move assumed.
func (h *MutationsHandler) HandleClassMove(w http.ResponseWriter, r *http.Request) {
	const op = "api.class_move"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req classMoveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	applied, err := h.deps.MoveClass(r.Context(), req.Wave-1, req.Class, req.Direction)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	status := http.StatusOK
	if !applied {
		status = http.StatusAccepted
	}
	writeJSON(w, status, mutationResponse{Applied: applied})
}

// HandleClassMerge handles POST /grid/class-merge requests.
func (h *MutationsHandler) HandleClassMerge(w http.ResponseWriter, r *http.Request) {
	const op = "api.class_merge"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req classMergeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	applied, err := h.deps.MergeClass(r.Context(), req.Wave-1, req.Class)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Applied: applied})
}

// HandleWaveCombine handles POST /grid/wave-combine requests.
func (h *MutationsHandler) HandleWaveCombine(w http.ResponseWriter, r *http.Request) {
	const op = "api.wave_combine"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req waveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	applied, err := h.deps.CombineWave(r.Context(), req.Wave-1)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Applied: applied})
}

// HandleWaveReset handles POST /grid/wave-reset requests.
func (h *MutationsHandler) HandleWaveReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.wave_reset"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req waveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	applied, err := h.deps.ResetWave(r.Context(), req.Wave-1)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Applied: applied})
}

// HandleGridReset handles POST /grid/reset requests.
func (h *MutationsHandler) HandleGridReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.grid_reset"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.ResetGrid(r.Context()); err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Applied: true})
}
