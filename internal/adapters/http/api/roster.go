// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// RosterDependencies defines the interface for roster reads.
type RosterDependencies interface {
	// Roster returns consolidated driver records in first-seen order.
	Roster(ctx context.Context) []DriverRecord
	// Classes returns distinct roster classes in first-seen order.
	Classes(ctx context.Context) []string
}

// RosterHandler handles roster and class requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandleGetRoster handles GET /roster requests.
func (h *RosterHandler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Roster(r.Context()))
}

// HandleGetClasses handles GET /classes requests.
func (h *RosterHandler) HandleGetClasses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Classes(r.Context()))
}
