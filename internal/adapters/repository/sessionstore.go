package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/consolidate"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/grid"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/guard"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
	"github.com/David-MyRaceDay/grid-builder-sub000/pkg/metrics"
)

// SessionStore is the single-writer, in-memory Store implementation.
//
// One mutex serializes every mutation; reads take the shared side and
// return deep copies. The build-time snapshot stays private and is only
// ever read through clones, so nothing outside the store can touch it.
type SessionStore struct {
	mu       sync.RWMutex
	batches  []model.Batch
	roster   []*model.DriverRecord
	support  model.FieldSupport
	waves    []model.WaveConfig
	grid     *model.Grid
	original *model.Grid

	tokens   guard.Guard
	maxWaves int
}

// NewSessionStore constructs an empty session with configuration options.
func NewSessionStore(opts ...Option) *SessionStore {
	s := &SessionStore{
		maxWaves: defaultMaxWaves,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tokens == nil {
		s.tokens = guard.NewTimedGuard()
	}
	return s
}

// AddFile stores a parsed batch and reconsolidates the roster.
func (s *SessionStore) AddFile(_ context.Context, batch model.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.batches {
		if b.FileID == batch.FileID {
			metrics.RecordErrorByComponent("repository", "duplicate_file")
			return fmt.Errorf("%w: %s", ErrDuplicateFile, batch.FileID)
		}
	}
	s.batches = append(s.batches, batch)
	s.reconsolidate()
	return nil
}

// RemoveFile drops an uploaded file and reconsolidates.
func (s *SessionStore) RemoveFile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.batches {
		if s.batches[i].FileID == id {
			s.batches = append(s.batches[:i], s.batches[i+1:]...)
			s.reconsolidate()
			return nil
		}
	}
	metrics.RecordErrorByComponent("repository", "file_not_found")
	return fmt.Errorf("%w: %s", ErrFileNotFound, id)
}

// Files lists uploads in upload order.
func (s *SessionStore) Files(_ context.Context) []FileInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FileInfo, 0, len(s.batches))
	for i := range s.batches {
		b := &s.batches[i]
		out = append(out, FileInfo{ID: b.FileID, Name: b.FileName, Rows: len(b.Entries)})
	}
	return out
}

// Roster returns deep copies of the consolidated records.
func (s *SessionStore) Roster(_ context.Context) []*model.DriverRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.DriverRecord, 0, len(s.roster))
	for _, rec := range s.roster {
		out = append(out, rec.Clone())
	}
	return out
}

// Classes returns the distinct roster classes in first-seen order.
func (s *SessionStore) Classes(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, rec := range s.roster {
		if rec.Class == "" {
			continue
		}
		if _, dup := seen[rec.Class]; dup {
			continue
		}
		seen[rec.Class] = struct{}{}
		out = append(out, rec.Class)
	}
	return out
}

// Support reports the unioned field support across uploads.
func (s *SessionStore) Support(_ context.Context) model.FieldSupport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.support
}

// SetWaves validates and stores the configuration set. The working grid is
// discarded; it no longer matches the configuration that produced it.
func (s *SessionStore) SetWaves(_ context.Context, configs []model.WaveConfig) error {
	if err := grid.ValidateConfigs(configs); err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_waves")
		return err
	}
	if s.maxWaves > 0 && len(configs) > s.maxWaves {
		metrics.RecordErrorByComponent("repository", "too_many_waves")
		return fmt.Errorf("%w: %d configured, %d allowed", ErrTooManyWaves, len(configs), s.maxWaves)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.waves = make([]model.WaveConfig, 0, len(configs))
	for _, cfg := range configs {
		s.waves = append(s.waves, cfg.Clone())
	}
	s.grid, s.original = nil, nil
	metrics.UpdateConfiguredWaves(len(s.waves))
	return nil
}

// Waves returns copies of the stored configuration set.
func (s *SessionStore) Waves(_ context.Context) []model.WaveConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.WaveConfig, 0, len(s.waves))
	for _, cfg := range s.waves {
		out = append(out, cfg.Clone())
	}
	return out
}

// BuildGrid realizes the grid and captures the reset snapshot.
func (s *SessionStore) BuildGrid(_ context.Context) (*model.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	g, err := grid.Build(s.waves, s.roster)
	if err != nil {
		metrics.RecordGridBuildFailure(buildFailureKind(err))
		return nil, err
	}

	s.grid = g
	s.original = g.Clone()

	metrics.RecordGridBuild(float64(time.Since(start).Milliseconds()))
	metrics.UpdateGridWaves(len(g.Waves))
	metrics.UpdateGridEntries(countEntries(g))
	return g.Clone(), nil
}

// Grid returns a copy of the working grid.
func (s *SessionStore) Grid(_ context.Context) (*model.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.grid == nil {
		return nil, ErrNoGrid
	}
	return s.grid.Clone(), nil
}

// WaveModified reports whether the wave drifted from the snapshot: a
// different entry count, or a different (number, driver) pair at any slot.
func (s *SessionStore) WaveModified(_ context.Context, wave int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.grid == nil {
		return false, ErrNoGrid
	}
	if wave < 0 || wave >= len(s.grid.Waves) || wave >= len(s.original.Waves) {
		return false, nil
	}

	cur, orig := &s.grid.Waves[wave], &s.original.Waves[wave]
	if len(cur.Entries) != len(orig.Entries) {
		return true, nil
	}
	for i := range cur.Entries {
		if cur.Entries[i].Number != orig.Entries[i].Number ||
			cur.Entries[i].Driver != orig.Entries[i].Driver {
			return true, nil
		}
	}
	return false, nil
}

// MoveEntry relocates one entry within or across waves.
func (s *SessionStore) MoveEntry(_ context.Context, fromWave, fromIndex, toWave, toIndex int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return false, ErrNoGrid
	}
	applied := grid.MoveEntry(s.grid, fromWave, fromIndex, toWave, toIndex)
	s.finishMutation("entry_move", applied)
	return applied, nil
}

// MoveToWaveStart lifts an entry to the head of its wave.
func (s *SessionStore) MoveToWaveStart(_ context.Context, wave, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return false, ErrNoGrid
	}
	applied := grid.MoveToWaveStart(s.grid, wave, index)
	s.finishMutation("entry_to_start", applied)
	return applied, nil
}

// MoveToWaveEnd drops an entry to the tail of its wave.
func (s *SessionStore) MoveToWaveEnd(_ context.Context, wave, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return false, ErrNoGrid
	}
	applied := grid.MoveToWaveEnd(s.grid, wave, index)
	s.finishMutation("entry_to_end", applied)
	return applied, nil
}

// MoveToClassEnd places an entry behind the last entry of its class.
func (s *SessionStore) MoveToClassEnd(_ context.Context, wave, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return false, ErrNoGrid
	}
	applied := grid.MoveToClassEnd(s.grid, wave, index)
	s.finishMutation("entry_to_class_end", applied)
	return applied, nil
}

// MoveClass swaps a class bucket with its neighbor, guarded by the class
// move token. The token outlives the operation and frees itself after the
// guard window, so rapid repeats and competing moves are dropped.
func (s *SessionStore) MoveClass(ctx context.Context, wave int, class, direction string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return false, ErrNoGrid
	}
	if !s.tokens.TryAcquire(ctx, guard.Key(wave, class, direction)) {
		metrics.RecordGuardDrop("class_move")
		metrics.RecordGridMutation("class_move", false)
		return false, nil
	}

	applied := grid.MoveClassBlock(s.grid, wave, class, direction)
	s.finishMutation("class_move", applied)
	return applied, nil
}

// MergeClass folds a class into the one before it.
func (s *SessionStore) MergeClass(_ context.Context, wave int, class string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return false, ErrNoGrid
	}
	applied := grid.MergeClassWithPrevious(s.grid, wave, class)
	s.finishMutation("class_merge", applied)
	return applied, nil
}

// CombineWave folds a wave into its predecessor. The snapshot receives the
// same structural change as a fresh value, so later resets restore the
// combined shape instead of resurrecting the removed wave.
func (s *SessionStore) CombineWave(_ context.Context, wave int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return false, ErrNoGrid
	}
	if !grid.CombineWaveWithPrevious(s.grid, wave) {
		metrics.RecordGridMutation("wave_combine", false)
		return false, nil
	}

	next := s.original.Clone()
	grid.CombineWaveWithPrevious(next, wave)
	s.original = next

	s.finishMutation("wave_combine", true)
	return true, nil
}

// ResetWave restores one wave from the snapshot.
func (s *SessionStore) ResetWave(_ context.Context, wave int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return false, ErrNoGrid
	}
	if wave < 0 || wave >= len(s.grid.Waves) || wave >= len(s.original.Waves) {
		return false, nil
	}

	s.grid.Waves[wave] = s.original.Waves[wave].Clone()
	grid.MarkTies(&s.grid.Waves[wave])
	metrics.RecordGridReset("wave")
	return true, nil
}

// ResetGrid restores the whole grid from the snapshot.
func (s *SessionStore) ResetGrid(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return ErrNoGrid
	}
	s.grid = s.original.Clone()
	grid.MarkAllTies(s.grid)
	metrics.RecordGridReset("grid")
	return nil
}

// Counts reports session totals.
func (s *SessionStore) Counts(_ context.Context) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := 0
	for i := range s.batches {
		rows += len(s.batches[i].Entries)
	}
	classes := make(map[string]struct{})
	for _, rec := range s.roster {
		if rec.Class != "" {
			classes[rec.Class] = struct{}{}
		}
	}
	return Counts{
		Files:     len(s.batches),
		Rows:      rows,
		Drivers:   len(s.roster),
		Classes:   len(classes),
		Waves:     len(s.waves),
		GridBuilt: s.grid != nil,
	}
}

// reconsolidate recomputes the roster from scratch and drops any built
// grid; the caller holds the write lock.
func (s *SessionStore) reconsolidate() {
	start := time.Now()
	s.roster = consolidate.Consolidate(s.batches)
	s.support = model.FieldSupport{}
	for i := range s.batches {
		s.support = s.support.Union(s.batches[i].Support)
	}
	s.grid, s.original = nil, nil

	metrics.RecordConsolidationRun(float64(time.Since(start).Milliseconds()))
	metrics.UpdateRosterDrivers(len(s.roster))
	metrics.UpdateUploadedFiles(len(s.batches))
}

// finishMutation refreshes tie annotations and records the outcome; the
// caller holds the write lock.
func (s *SessionStore) finishMutation(op string, applied bool) {
	if applied {
		grid.MarkAllTies(s.grid)
	}
	metrics.RecordGridMutation(op, applied)
}

func buildFailureKind(err error) string {
	switch {
	case errors.Is(err, grid.ErrNoRecords):
		return "no_records"
	case errors.Is(err, grid.ErrNoQualifyingEntries):
		return "no_qualifying_entries"
	case errors.Is(err, grid.ErrNoWaves):
		return "no_waves"
	default:
		return "invalid_config"
	}
}

func countEntries(g *model.Grid) int {
	n := 0
	for i := range g.Waves {
		n += len(g.Waves[i].Entries)
	}
	return n
}
