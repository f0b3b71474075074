// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/adapters/repository"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/types"
)

// Wire shape aliases keep handler signatures short.
type (
	// FileInfo mirrors the read shape of one uploaded results file.
	FileInfo = types.FileInfo
	// DriverRecord mirrors the consolidated roster read shape.
	DriverRecord = types.DriverRecord
	// WaveConfig mirrors the wave configuration wire shape.
	WaveConfig = types.WaveConfig
	// SortOptions mirrors the supported sort criteria read shape.
	SortOptions = types.SortOptions
	// Grid mirrors the realized grid read shape.
	Grid = types.Grid
	// ExportRow mirrors one flattened export line.
	ExportRow = types.ExportRow
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
// Wave and index arguments are zero-based; handlers translate the wire's
// one-based wave numbers before calling in.
type Dependencies interface {
	FileDependencies
	RosterDependencies
	WaveDependencies
	GridDependencies
	MutationDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	filesHandler     *FilesHandler
	rosterHandler    *RosterHandler
	wavesHandler     *WavesHandler
	gridHandler      *GridHandler
	mutationsHandler *MutationsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		filesHandler:     NewFilesHandler(deps, maxUploadBytes),
		rosterHandler:    NewRosterHandler(deps),
		wavesHandler:     NewWavesHandler(deps),
		gridHandler:      NewGridHandler(deps),
		mutationsHandler: NewMutationsHandler(deps),
	}
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(ctx context.Context, r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.HandleFunc("/files", MetricsMiddleware(s.filesHandler.HandleFiles, "files"))
	r.HandleFunc("/files/{id}", MetricsMiddleware(s.filesHandler.HandleFileByID, "file_by_id"))
	r.HandleFunc("/roster", MetricsMiddleware(s.rosterHandler.HandleGetRoster, "roster"))
	r.HandleFunc("/classes", MetricsMiddleware(s.rosterHandler.HandleGetClasses, "classes"))
	r.HandleFunc("/waves", MetricsMiddleware(s.wavesHandler.HandleWaves, "waves"))
	r.HandleFunc("/waves/options", MetricsMiddleware(s.wavesHandler.HandleOptions, "wave_options"))

	r.HandleFunc("/grid", MetricsMiddleware(s.gridHandler.HandleGrid, "grid"))
	r.HandleFunc("/grid/export", MetricsMiddleware(s.gridHandler.HandleExport, "grid_export"))

	r.HandleFunc("/grid/entry-move", MetricsMiddleware(s.mutationsHandler.HandleEntryMove, "entry_move"))
	r.HandleFunc("/grid/entry-to-start", MetricsMiddleware(s.mutationsHandler.HandleEntryToStart, "entry_to_start"))
	r.HandleFunc("/grid/entry-to-end", MetricsMiddleware(s.mutationsHandler.HandleEntryToEnd, "entry_to_end"))
	r.HandleFunc("/grid/entry-to-class-end", MetricsMiddleware(s.mutationsHandler.HandleEntryToClassEnd, "entry_to_class_end"))
	r.HandleFunc("/grid/class-move", MetricsMiddleware(s.mutationsHandler.HandleClassMove, "class_move"))
	r.HandleFunc("/grid/class-merge", MetricsMiddleware(s.mutationsHandler.HandleClassMerge, "class_merge"))
	r.HandleFunc("/grid/wave-combine", MetricsMiddleware(s.mutationsHandler.HandleWaveCombine, "wave_combine"))
	r.HandleFunc("/grid/wave-reset", MetricsMiddleware(s.mutationsHandler.HandleWaveReset, "wave_reset"))
	r.HandleFunc("/grid/reset", MetricsMiddleware(s.mutationsHandler.HandleGridReset, "grid_reset"))
}

// statusResponse acknowledges an operation with no payload of its own.
type statusResponse struct {
	Status string `json:"status"`
}

// mutationResponse reports whether a grid mutation changed anything.
// Boundary no-ops and guard-dropped requests report applied=false.
type mutationResponse struct {
	Applied bool `json:"applied"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStoreError translates session store errors to HTTP responses. A grid
// that has not been built and an unknown file id both surface as 404.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNoGrid),
		errors.Is(err, repository.ErrFileNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
