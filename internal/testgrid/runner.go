package testgrid

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/David-MyRaceDay/grid-builder-sub000/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	fixturePermission   = 0600
)

// Run executes the complete grid exercise against a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting grid builder test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("drivers", config.Drivers),
		logger.Int("classes", config.Classes),
		logger.Int("laps", config.Laps),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate the synthetic field
	f, err := generateField(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("field generation failed: %w", err)
	}

	heat := f.heatCSV()
	practice := f.practiceLog()

	// Step 3: Optionally save the fixtures before uploading them
	if config.KeepFiles {
		if err := saveFixtures(ctx, config, heat, practice); err != nil {
			logger.Get().Warn(ctx, "failed to save fixtures", logger.Error(err))
		}
	}

	// Step 4: Upload both session files
	heatInfo, err := uploadFile(ctx, client, config.BaseURL, "heat_results.csv", heat, stats)
	if err != nil {
		return fmt.Errorf("heat upload failed: %w", err)
	}
	practiceInfo, err := uploadFile(ctx, client, config.BaseURL, "practice_laps.txt", practice, stats)
	if err != nil {
		return fmt.Errorf("practice upload failed: %w", err)
	}
	logger.Get().Info(ctx, "uploaded session files",
		logger.String("heat", heatInfo.ID),
		logger.String("practice", practiceInfo.ID),
		logger.Int("rows", stats.RowsAccepted))

	// Step 5: Read and verify the consolidated roster
	roster, err := fetchRoster(ctx, client, config.BaseURL)
	if err != nil {
		return fmt.Errorf("roster retrieval failed: %w", err)
	}
	if err := verifyRoster(ctx, config, f, roster, stats); err != nil {
		return fmt.Errorf("roster verification failed: %w", err)
	}

	// Step 6: Configure waves and build the grid
	waves := waveSplit(f.classes)
	if err := configureWaves(ctx, client, config.BaseURL, waves); err != nil {
		return fmt.Errorf("wave configuration failed: %w", err)
	}
	grid, err := buildGrid(ctx, client, config.BaseURL)
	if err != nil {
		return fmt.Errorf("grid build failed: %w", err)
	}
	if err := verifyGrid(ctx, config, waves, grid, stats); err != nil {
		return fmt.Errorf("grid verification failed: %w", err)
	}

	// Step 7: Exercise mutations and the reset path
	if err := exerciseMutations(ctx, client, config, grid, stats); err != nil {
		return fmt.Errorf("mutation exercise failed: %w", err)
	}

	// Step 8: Read the export rows
	rows, err := fetchExport(ctx, client, config.BaseURL)
	if err != nil {
		return fmt.Errorf("export retrieval failed: %w", err)
	}
	if err := verifyExport(ctx, grid, rows, stats); err != nil {
		return fmt.Errorf("export verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.ChecksFailed > 0 {
		return fmt.Errorf("%d of %d checks failed", stats.ChecksFailed, stats.ChecksRun)
	}
	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// exerciseMutations applies a representative set of grid mutations, checks
// each acknowledgement and finishes with a full reset so the grid matches
// its snapshot again.
func exerciseMutations(ctx context.Context, client *HTTPClient, config *Config, built Grid, stats *Stats) error {
	base := config.BaseURL
	logger.Get().Info(ctx, "exercising grid mutations")

	if len(built.Waves) == 0 || len(built.Waves[0].Entries) < 2 {
		logger.Get().Warn(ctx, "grid too small for mutation exercise; skipping")
		return nil
	}

	// Pull the second entry to the front of wave 1.
	applied, err := postMutation(ctx, client, base+"/grid/entry-to-start", EntryTarget{Wave: 1, Index: 1})
	if err != nil {
		return err
	}
	check(ctx, stats, "entry-to-start applies", applied)

	// The wave must now differ from its snapshot.
	current, err := fetchGrid(ctx, client, base)
	if err != nil {
		return err
	}
	check(ctx, stats, "wave 1 reports modified after a move",
		len(current.Waves) > 0 && current.Waves[0].Modified)

	// Fire the same class move twice back to back; the guard must drop the
	// repeat inside its window.
	if len(built.Waves[0].Config.Classes) > 1 {
		move := ClassMoveRequest{Wave: 1, Class: built.Waves[0].Config.Classes[0], Direction: "down"}
		first, err := postMutation(ctx, client, base+"/grid/class-move", move)
		if err != nil {
			return err
		}
		second, err := postMutation(ctx, client, base+"/grid/class-move", move)
		if err != nil {
			return err
		}
		check(ctx, stats, "first class move applies", first)
		check(ctx, stats, "repeated class move is dropped by the guard", !second)
	}

	// Out-of-range targets must acknowledge without applying.
	applied, err = postMutation(ctx, client, base+"/grid/entry-to-end", EntryTarget{Wave: 1, Index: 100000})
	if err != nil {
		return err
	}
	check(ctx, stats, "out-of-range move is a no-op", !applied)

	// Reset everything and compare against the freshly built grid.
	if _, err := postMutation(ctx, client, base+"/grid/reset", nil); err != nil {
		return err
	}
	restored, err := fetchGrid(ctx, client, base)
	if err != nil {
		return err
	}
	check(ctx, stats, "reset restores the built order", sameOrder(built, restored))
	for i := range restored.Waves {
		check(ctx, stats, fmt.Sprintf("wave %d reports unmodified after reset", i+1),
			!restored.Waves[i].Modified)
	}
	return nil
}

// saveFixtures writes the generated session files into the output directory.
func saveFixtures(ctx context.Context, config *Config, heat, practice []byte) error {
	dir := config.OutputDir
	if dir == "" {
		dir = "."
	}
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	timestamp := time.Now().Format("20060102_150405")
	heatPath := filepath.Join(dir, "heat_results_"+timestamp+".csv")
	practicePath := filepath.Join(dir, "practice_laps_"+timestamp+".txt")

	if err := os.WriteFile(heatPath, heat, fixturePermission); err != nil {
		return fmt.Errorf("failed to write heat fixture: %w", err)
	}
	if err := os.WriteFile(practicePath, practice, fixturePermission); err != nil {
		return fmt.Errorf("failed to write practice fixture: %w", err)
	}

	logger.Get().Info(ctx, "fixtures saved",
		logger.String("heat", heatPath),
		logger.String("practice", practicePath))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var passRate float64
	if stats.ChecksRun > 0 {
		passRate = float64(stats.ChecksPassed) / float64(stats.ChecksRun) * PercentageMultiplier
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("driversGenerated", stats.DriversGenerated),
		logger.Int("filesUploaded", stats.FilesUploaded),
		logger.Int("rowsAccepted", stats.RowsAccepted),
		logger.Int("checksRun", stats.ChecksRun),
		logger.Int("checksPassed", stats.ChecksPassed),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("passRate", passRate))
}
