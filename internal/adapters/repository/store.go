// Package repository holds the in-memory session state: uploaded result
// files, the consolidated driver roster, the wave configuration and the
// working grid with its build-time snapshot.
package repository

import (
	"context"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
)

// FileInfo describes one uploaded results file.
type FileInfo struct {
	ID   string
	Name string
	Rows int
}

// Counts summarizes the session state.
type Counts struct {
	Files     int
	Rows      int
	Drivers   int
	Classes   int
	Waves     int
	GridBuilt bool
}

// Store provides read/write access to the grid session.
//
// Every mutation is serialized through one writer; reads hand back deep
// copies so callers can never alias internal state. Mutating operations
// report applied=false for out-of-range or guarded requests instead of
// failing.
type Store interface {
	// AddFile stores a parsed batch and reconsolidates the roster.
	// Any built grid is discarded; build again once uploads settle.
	AddFile(ctx context.Context, batch model.Batch) error
	// RemoveFile drops an uploaded file by id and reconsolidates.
	// Returns ErrFileNotFound for unknown ids.
	RemoveFile(ctx context.Context, id string) error
	// Files lists uploads in upload order.
	Files(ctx context.Context) []FileInfo

	// Roster returns the consolidated driver records in first-seen order.
	Roster(ctx context.Context) []*model.DriverRecord
	// Classes returns the distinct roster classes in first-seen order.
	Classes(ctx context.Context) []string
	// Support reports which optional result fields the uploads resolved,
	// unioned across every stored file.
	Support(ctx context.Context) model.FieldSupport

	// SetWaves validates and stores the full wave configuration set.
	SetWaves(ctx context.Context, configs []model.WaveConfig) error
	// Waves returns the stored wave configuration set.
	Waves(ctx context.Context) []model.WaveConfig

	// BuildGrid realizes the grid from the stored waves and roster and
	// captures the reset snapshot. Returns the realized grid.
	BuildGrid(ctx context.Context) (*model.Grid, error)
	// Grid returns the current working grid, or ErrNoGrid before a build.
	Grid(ctx context.Context) (*model.Grid, error)
	// WaveModified reports whether a wave has drifted from the snapshot.
	WaveModified(ctx context.Context, wave int) (bool, error)

	// Entry and class mutations; wave arguments are zero-based indices.
	MoveEntry(ctx context.Context, fromWave, fromIndex, toWave, toIndex int) (bool, error)
	MoveToWaveStart(ctx context.Context, wave, index int) (bool, error)
	MoveToWaveEnd(ctx context.Context, wave, index int) (bool, error)
	MoveToClassEnd(ctx context.Context, wave, index int) (bool, error)
	// MoveClass is guarded: while a class move token is live, repeated and
	// competing requests return applied=false.
	MoveClass(ctx context.Context, wave int, class, direction string) (bool, error)
	MergeClass(ctx context.Context, wave int, class string) (bool, error)
	// CombineWave folds a wave into its predecessor on both the working
	// grid and the snapshot, keeping resets coherent.
	CombineWave(ctx context.Context, wave int) (bool, error)

	// ResetWave restores one wave from the snapshot.
	ResetWave(ctx context.Context, wave int) (bool, error)
	// ResetGrid restores the whole grid from the snapshot.
	ResetGrid(ctx context.Context) error

	// Counts reports session totals for stats endpoints.
	Counts(ctx context.Context) Counts
}
