// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/adapters/ingest"
	repository "github.com/David-MyRaceDay/grid-builder-sub000/internal/adapters/repository"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/types"
	"github.com/David-MyRaceDay/grid-builder-sub000/pkg/logger"
)

// Service implements the API dependencies for the grid builder.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store

	// Configuration
	guardWindow time.Duration
	maxWaves    int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGuardWindow sets the class move guard window.
func WithGuardWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.guardWindow = window
		}
	}
}

// WithMaxWaves caps the accepted wave configuration set size.
func WithMaxWaves(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxWaves = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		guardWindow: 750 * time.Millisecond, // Default class move guard window
		maxWaves:    16,                     // Default wave configuration cap
		logger:      nil,                    // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting grid session service...")

	s.store = repository.NewSessionStore(
		repository.WithGuardWindow(s.guardWindow),
		repository.WithMaxWaves(s.maxWaves),
	)

	s.started = true
	s.logger.Info(ctx, "grid session service started",
		logger.Duration("guardWindow", s.guardWindow),
		logger.Int("maxWaves", s.maxWaves),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping grid session service...")

	s.started = false
	s.logger.Info(context.Background(), "grid session service stopped")
}

// session returns the live store, or nil before Start and after Stop.
// Every session operation goes through it so a caller that skipped Start
// gets ErrNotStarted instead of a nil dereference.
func (s *Service) session() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil
	}
	return s.store
}

// UploadFile parses one uploaded results file and folds it into the
// session. The file is rejected whole on any parse error; a partial
// batch never reaches the roster.
func (s *Service) UploadFile(ctx context.Context, name string, data []byte) (types.FileInfo, error) {
	store := s.session()
	if store == nil {
		return types.FileInfo{}, ErrNotStarted
	}

	id := uuid.NewString()

	batch, err := ingest.Parse(id, name, data)
	if err != nil {
		s.logger.Warn(ctx, "upload rejected",
			logger.String("file", name),
			logger.Error(err),
		)
		return types.FileInfo{}, err
	}

	if err := store.AddFile(ctx, batch); err != nil {
		return types.FileInfo{}, err
	}

	s.logger.Info(ctx, "file uploaded",
		logger.String("fileID", id),
		logger.String("file", name),
		logger.Int("rows", len(batch.Entries)),
	)
	return types.FileInfo{ID: id, Name: name, Rows: len(batch.Entries)}, nil
}

// RemoveFile drops an uploaded file and reconsolidates the roster.
func (s *Service) RemoveFile(ctx context.Context, id string) error {
	store := s.session()
	if store == nil {
		return ErrNotStarted
	}

	if err := store.RemoveFile(ctx, id); err != nil {
		return err
	}

	s.logger.Info(ctx, "file removed", logger.String("fileID", id))
	return nil
}

// Files lists the uploaded files in upload order.
func (s *Service) Files(ctx context.Context) []types.FileInfo {
	store := s.session()
	if store == nil {
		return nil
	}

	infos := store.Files(ctx)

	out := make([]types.FileInfo, len(infos))
	for i, f := range infos {
		out[i] = types.FileInfo{ID: f.ID, Name: f.Name, Rows: f.Rows}
	}
	return out
}

// Roster returns the consolidated driver records in first-seen order.
func (s *Service) Roster(ctx context.Context) []types.DriverRecord {
	store := s.session()
	if store == nil {
		return nil
	}

	records := store.Roster(ctx)

	out := make([]types.DriverRecord, len(records))
	for i, rec := range records {
		out[i] = types.DriverRecordFromModel(rec)
	}
	return out
}

// Classes returns the distinct roster classes in first-seen order.
func (s *Service) Classes(ctx context.Context) []string {
	store := s.session()
	if store == nil {
		return nil
	}
	return store.Classes(ctx)
}

// SetWaves validates and stores the full wave configuration set.
func (s *Service) SetWaves(ctx context.Context, configs []types.WaveConfig) error {
	store := s.session()
	if store == nil {
		return ErrNotStarted
	}

	models := make([]model.WaveConfig, len(configs))
	for i, c := range configs {
		models[i] = c.Model()
	}

	if err := store.SetWaves(ctx, models); err != nil {
		return err
	}

	s.logger.Info(ctx, "waves configured", logger.Int("waves", len(models)))
	return nil
}

// Waves returns the stored wave configuration set.
func (s *Service) Waves(ctx context.Context) []types.WaveConfig {
	store := s.session()
	if store == nil {
		return nil
	}

	configs := store.Waves(ctx)

	out := make([]types.WaveConfig, len(configs))
	for i, c := range configs {
		out[i] = types.WaveConfigFromModel(c)
	}
	return out
}

// SortOptions reports the sort and tie-break criteria the uploaded data
// can back. An option whose field no file resolved is withheld until an
// upload supplies it.
func (s *Service) SortOptions(ctx context.Context) types.SortOptions {
	store := s.session()
	if store == nil {
		return types.SortOptions{}
	}
	return types.SortOptionsFromSupport(store.Support(ctx))
}

// BuildGrid realizes the grid from the stored waves and roster and
// captures the reset snapshot.
func (s *Service) BuildGrid(ctx context.Context) (types.Grid, error) {
	store := s.session()
	if store == nil {
		return types.Grid{}, ErrNotStarted
	}

	g, err := store.BuildGrid(ctx)
	if err != nil {
		s.logger.Warn(ctx, "grid build rejected", logger.Error(err))
		return types.Grid{}, err
	}

	entries := 0
	for i := range g.Waves {
		entries += len(g.Waves[i].Entries)
	}
	s.logger.Info(ctx, "grid built",
		logger.Int("waves", len(g.Waves)),
		logger.Int("entries", entries),
	)

	return gridView(ctx, store, g)
}

// Grid returns the current working grid.
func (s *Service) Grid(ctx context.Context) (types.Grid, error) {
	store := s.session()
	if store == nil {
		return types.Grid{}, ErrNotStarted
	}

	g, err := store.Grid(ctx)
	if err != nil {
		return types.Grid{}, err
	}

	return gridView(ctx, store, g)
}

// ExportGrid flattens the working grid into ordered export rows.
func (s *Service) ExportGrid(ctx context.Context) ([]types.ExportRow, error) {
	store := s.session()
	if store == nil {
		return nil, ErrNotStarted
	}

	g, err := store.Grid(ctx)
	if err != nil {
		return nil, err
	}

	return types.ExportFromModel(g), nil
}

// gridView pairs a grid with the per-wave modification flags derived
// from the build-time snapshot.
func gridView(ctx context.Context, store repository.Store, g *model.Grid) (types.Grid, error) {
	modified := make([]bool, len(g.Waves))
	for i := range g.Waves {
		m, err := store.WaveModified(ctx, i)
		if err != nil {
			return types.Grid{}, err
		}
		modified[i] = m
	}
	return types.GridFromModel(g, modified), nil
}

// MoveEntry moves one entry to a target wave and slot.
func (s *Service) MoveEntry(ctx context.Context, fromWave, fromIndex, toWave, toIndex int) (bool, error) {
	store := s.session()
	if store == nil {
		return false, ErrNotStarted
	}
	return store.MoveEntry(ctx, fromWave, fromIndex, toWave, toIndex)
}

// MoveToWaveStart moves one entry to the front of its wave.
func (s *Service) MoveToWaveStart(ctx context.Context, wave, index int) (bool, error) {
	store := s.session()
	if store == nil {
		return false, ErrNotStarted
	}
	return store.MoveToWaveStart(ctx, wave, index)
}

// MoveToWaveEnd moves one entry to the back of its wave.
func (s *Service) MoveToWaveEnd(ctx context.Context, wave, index int) (bool, error) {
	store := s.session()
	if store == nil {
		return false, ErrNotStarted
	}
	return store.MoveToWaveEnd(ctx, wave, index)
}

// MoveToClassEnd moves one entry behind the last entry of its class.
func (s *Service) MoveToClassEnd(ctx context.Context, wave, index int) (bool, error) {
	store := s.session()
	if store == nil {
		return false, ErrNotStarted
	}
	return store.MoveToClassEnd(ctx, wave, index)
}

// MoveClass shifts a contiguous class block up or down within a wave.
// Repeated requests inside the guard window are dropped, not queued.
func (s *Service) MoveClass(ctx context.Context, wave int, class, direction string) (bool, error) {
	store := s.session()
	if store == nil {
		return false, ErrNotStarted
	}

	applied, err := store.MoveClass(ctx, wave, class, direction)
	if err == nil && !applied {
		s.logger.Debug(ctx, "class move not applied",
			logger.Int("wave", wave),
			logger.String("class", class),
			logger.String("direction", direction),
		)
	}
	return applied, err
}

// MergeClass merges a class into the one directly above it.
func (s *Service) MergeClass(ctx context.Context, wave int, class string) (bool, error) {
	store := s.session()
	if store == nil {
		return false, ErrNotStarted
	}
	return store.MergeClass(ctx, wave, class)
}

// CombineWave folds a wave into its predecessor.
func (s *Service) CombineWave(ctx context.Context, wave int) (bool, error) {
	store := s.session()
	if store == nil {
		return false, ErrNotStarted
	}
	return store.CombineWave(ctx, wave)
}

// ResetWave restores one wave from the build-time snapshot.
func (s *Service) ResetWave(ctx context.Context, wave int) (bool, error) {
	store := s.session()
	if store == nil {
		return false, ErrNotStarted
	}
	return store.ResetWave(ctx, wave)
}

// ResetGrid restores the whole grid from the build-time snapshot.
func (s *Service) ResetGrid(ctx context.Context) error {
	store := s.session()
	if store == nil {
		return ErrNotStarted
	}

	if err := store.ResetGrid(ctx); err != nil {
		return err
	}

	s.logger.Info(ctx, "grid reset")
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"maxWaves":      s.maxWaves,
		"guardWindowMs": int(s.guardWindow / time.Millisecond),
	}

	if s.started {
		counts := s.store.Counts(context.Background())

		stats["uploadedFiles"] = counts.Files
		stats["resultRows"] = counts.Rows
		stats["rosterDrivers"] = counts.Drivers
		stats["classes"] = counts.Classes
		stats["configuredWaves"] = counts.Waves
		stats["gridBuilt"] = counts.GridBuilt
	}

	return stats
}
