package testgrid

import (
	"context"
	"fmt"

	"github.com/David-MyRaceDay/grid-builder-sub000/pkg/logger"
)

// check records one verification outcome.
func check(ctx context.Context, stats *Stats, name string, ok bool) {
	stats.ChecksRun++
	if ok {
		stats.ChecksPassed++
		logger.Get().Info(ctx, "check passed", logger.String("check", name))
		return
	}
	stats.ChecksFailed++
	logger.Get().Error(ctx, "check failed", logger.String("check", name))
}

// verifyRoster checks the consolidated roster against the generated field:
// one record per entrant, two contributions each, and an ordered best /
// second-best pair.
func verifyRoster(ctx context.Context, config *Config, f *field, roster []DriverRecord, stats *Stats) error {
	logger.Get().Info(ctx, "verifying roster", logger.Int("records", len(roster)))

	if len(roster) == 0 {
		return fmt.Errorf("no roster records to verify")
	}

	check(ctx, stats, "one record per generated driver", len(roster) == len(f.entrants))

	byName := make(map[string]*DriverRecord, len(roster))
	for i := range roster {
		byName[roster[i].Name] = &roster[i]
	}

	contributions := true
	ordered := true
	for i := range f.entrants {
		rec, ok := byName[f.entrants[i].name]
		if !ok {
			contributions = false
			continue
		}
		if rec.Contributions != 2 {
			contributions = false
		}
		if rec.BestOverallTime == nil {
			ordered = false
			continue
		}
		if rec.SecondBestOverallTime != nil &&
			rec.BestOverallTime.Seconds > rec.SecondBestOverallTime.Seconds {
			ordered = false
		}
	}
	check(ctx, stats, "every driver consolidated both sessions", contributions)
	check(ctx, stats, "best time never exceeds second best", ordered)

	if config.Verbose {
		shown := len(roster)
		if shown > frontRowsShown {
			shown = frontRowsShown
		}
		for i := 0; i < shown; i++ {
			rec := &roster[i]
			best := ""
			if rec.BestOverallTime != nil {
				best = rec.BestOverallTime.Display
			}
			logger.Get().Info(ctx, "roster record",
				logger.String("driver", rec.Name),
				logger.String("class", rec.Class),
				logger.String("best", best))
		}
	}
	return nil
}

// verifyGrid checks the realized grid: wave count, class placement per the
// configuration, and ascending best times within each wave's class blocks.
func verifyGrid(ctx context.Context, config *Config, waves []WaveConfig, grid Grid, stats *Stats) error {
	logger.Get().Info(ctx, "verifying grid", logger.Int("waves", len(grid.Waves)))

	if len(grid.Waves) == 0 {
		return fmt.Errorf("no grid waves to verify")
	}

	check(ctx, stats, "one realized wave per configured wave", len(grid.Waves) == len(waves))

	placement := true
	ascending := true
	for i := range grid.Waves {
		w := &grid.Waves[i]
		assigned := make(map[string]bool, len(w.Config.Classes))
		for _, c := range w.Config.Classes {
			assigned[c] = true
		}
		perClassLast := make(map[string]float64)
		for j := range w.Entries {
			e := &w.Entries[j]
			if !assigned[e.Class] {
				placement = false
			}
			if e.BestTime == nil {
				continue
			}
			if last, seen := perClassLast[e.Class]; seen && e.BestTime.Seconds < last {
				ascending = false
			}
			perClassLast[e.Class] = e.BestTime.Seconds
		}
	}
	check(ctx, stats, "entries land in their assigned wave", placement)
	check(ctx, stats, "class blocks keep ascending best times", ascending)

	displayFrontRows(ctx, grid, config.Verbose)
	return nil
}

// verifyExport checks the flattened rows against the built grid: same entry
// count and strictly increasing slot numbers.
func verifyExport(ctx context.Context, built Grid, rows []ExportRow, stats *Stats) error {
	logger.Get().Info(ctx, "verifying export", logger.Int("rows", len(rows)))

	total := 0
	for i := range built.Waves {
		total += len(built.Waves[i].Entries)
	}
	check(ctx, stats, "export carries every grid entry", len(rows) == total)

	increasing := true
	for i := 1; i < len(rows); i++ {
		if rows[i].Slot <= rows[i-1].Slot {
			increasing = false
			break
		}
	}
	check(ctx, stats, "export slots strictly increase", increasing)
	return nil
}

// sameOrder reports whether two grids carry the same (number, driver)
// sequence per wave, which is the service's own modified predicate.
func sameOrder(a, b Grid) bool {
	if len(a.Waves) != len(b.Waves) {
		return false
	}
	for i := range a.Waves {
		if len(a.Waves[i].Entries) != len(b.Waves[i].Entries) {
			return false
		}
		for j := range a.Waves[i].Entries {
			ea, eb := &a.Waves[i].Entries[j], &b.Waves[i].Entries[j]
			if ea.Number != eb.Number || ea.Driver != eb.Driver {
				return false
			}
		}
	}
	return true
}

// displayFrontRows logs the head of each wave.
func displayFrontRows(ctx context.Context, grid Grid, verbose bool) {
	if !verbose {
		return
	}
	for i := range grid.Waves {
		w := &grid.Waves[i]
		shown := len(w.Entries)
		if shown > frontRowsShown {
			shown = frontRowsShown
		}
		for j := 0; j < shown; j++ {
			e := &w.Entries[j]
			best := ""
			if e.BestTime != nil {
				best = e.BestTime.Display
			}
			logger.Get().Info(ctx, "grid slot",
				logger.Int("wave", w.Config.WaveNumber),
				logger.Int("slot", e.Slot),
				logger.String("driver", e.Driver),
				logger.String("class", e.Class),
				logger.String("best", best))
		}
	}
}
