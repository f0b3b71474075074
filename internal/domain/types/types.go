// Package types contains the wire shapes shared across the application
// and their conversions from the domain model.
package types

import (
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/grid"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/laptime"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
)

// FileInfo describes one uploaded results file.
type FileInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// TimedValue is a lap time on the wire: normalized seconds, the text it was
// parsed from and the upload it came from.
type TimedValue struct {
	Seconds float64 `json:"seconds"`
	Display string  `json:"display"`
	Source  string  `json:"source"`
}

// DriverRecord is the consolidated read shape of one driver.
type DriverRecord struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	Number        string `json:"number"`
	Class         string `json:"class"`
	Contributions int    `json:"contributions"`

	BestOverallTime        *TimedValue `json:"best_overall_time,omitempty"`
	SecondBestOverallTime  *TimedValue `json:"second_best_overall_time,omitempty"`
	TotalPoints            *float64    `json:"total_points,omitempty"`
	AveragePoints          *float64    `json:"average_points,omitempty"`
	BestPosition           *int        `json:"best_position,omitempty"`
	AveragePosition        *float64    `json:"average_position,omitempty"`
	BestPositionInClass    *int        `json:"best_position_in_class,omitempty"`
	AveragePositionInClass *float64    `json:"average_position_in_class,omitempty"`
}

// WaveConfig is the wire shape of one wave's configuration.
type WaveConfig struct {
	WaveNumber     int      `json:"wave_number"`
	StartType      string   `json:"start_type"`
	Classes        []string `json:"classes"`
	SortBy         string   `json:"sort_by"`
	TieBreakers    []string `json:"tie_breakers,omitempty"`
	GroupByClass   bool     `json:"group_by_class,omitempty"`
	GroupDirection string   `json:"group_direction,omitempty"`
	InvertAll      bool     `json:"invert_all,omitempty"`
	InvertCount    int      `json:"invert_count,omitempty"`
	EmptyPositions int      `json:"empty_positions,omitempty"`
}

// SortOptions lists the wave orderings and tie-breakers the uploaded data
// can back. An option is withheld while no file resolved its field.
type SortOptions struct {
	SortBy      []string `json:"sort_by"`
	TieBreakers []string `json:"tie_breakers"`
}

// SortOptionsFromSupport derives the offered options from field support.
func SortOptionsFromSupport(f model.FieldSupport) SortOptions {
	var out SortOptions
	for _, c := range model.SupportedSortCriteria(f) {
		out.SortBy = append(out.SortBy, string(c))
	}
	for _, b := range model.SupportedTieBreakers(f) {
		out.TieBreakers = append(out.TieBreakers, string(b))
	}
	return out
}

// ClassMerge records which class was folded into which.
type ClassMerge struct {
	From string `json:"from"`
	Into string `json:"into"`
}

// GridEntry is one slotted entry of a realized wave.
type GridEntry struct {
	Slot            int         `json:"slot"`
	Number          string      `json:"number"`
	Driver          string      `json:"driver"`
	Class           string      `json:"class"`
	BestTime        *TimedValue `json:"best_time,omitempty"`
	SecondBest      *TimedValue `json:"second_best,omitempty"`
	Points          *float64    `json:"points,omitempty"`
	Position        *int        `json:"position,omitempty"`
	PositionInClass *int        `json:"position_in_class,omitempty"`
	Tied            bool        `json:"tied,omitempty"`
}

// GridWave is one wave of the realized grid.
type GridWave struct {
	Config   WaveConfig   `json:"config"`
	Entries  []GridEntry  `json:"entries"`
	Merges   []ClassMerge `json:"merges,omitempty"`
	Modified bool         `json:"modified"`
}

// Grid is the realized starting grid.
type Grid struct {
	Waves []GridWave `json:"waves"`
}

// ExportRow is one flattened line of the grid for export collaborators.
// Times are rendered in the normalized M:SS.mmm form.
type ExportRow struct {
	Slot       int      `json:"slot"`
	Wave       int      `json:"wave"`
	Number     string   `json:"number"`
	Driver     string   `json:"driver"`
	Class      string   `json:"class"`
	BestTime   string   `json:"best_time,omitempty"`
	SecondBest string   `json:"second_best,omitempty"`
	Points     *float64 `json:"points,omitempty"`
}

// DriverRecordFromModel converts a consolidated record to its wire shape.
func DriverRecordFromModel(rec *model.DriverRecord) DriverRecord {
	return DriverRecord{
		Key:                    rec.Key,
		Name:                   rec.Name,
		Number:                 rec.Number,
		Class:                  rec.Class,
		Contributions:          len(rec.Contributions),
		BestOverallTime:        timedValue(rec.BestOverallTime),
		SecondBestOverallTime:  timedValue(rec.SecondBestOverallTime),
		TotalPoints:            rec.TotalPoints,
		AveragePoints:          rec.AveragePoints,
		BestPosition:           rec.BestPosition,
		AveragePosition:        rec.AveragePosition,
		BestPositionInClass:    rec.BestPositionInClass,
		AveragePositionInClass: rec.AveragePositionInClass,
	}
}

// WaveConfigFromModel converts a stored wave configuration to wire form.
func WaveConfigFromModel(cfg model.WaveConfig) WaveConfig {
	out := WaveConfig{
		WaveNumber:     cfg.WaveNumber,
		StartType:      string(cfg.StartType),
		Classes:        append([]string(nil), cfg.Classes...),
		SortBy:         string(cfg.SortBy),
		GroupByClass:   cfg.GroupByClass,
		GroupDirection: string(cfg.GroupDirection),
		InvertAll:      cfg.InvertAll,
		InvertCount:    cfg.InvertCount,
		EmptyPositions: cfg.EmptyPositions,
	}
	for _, br := range cfg.TieBreakers {
		out.TieBreakers = append(out.TieBreakers, string(br))
	}
	return out
}

// Model converts the wire configuration back to the domain shape.
// Validation happens where the configuration is stored.
func (w WaveConfig) Model() model.WaveConfig {
	out := model.WaveConfig{
		WaveNumber:     w.WaveNumber,
		StartType:      model.StartType(w.StartType),
		Classes:        append([]string(nil), w.Classes...),
		SortBy:         model.SortCriterion(w.SortBy),
		GroupByClass:   w.GroupByClass,
		GroupDirection: model.GroupDirection(w.GroupDirection),
		InvertAll:      w.InvertAll,
		InvertCount:    w.InvertCount,
		EmptyPositions: w.EmptyPositions,
	}
	for _, br := range w.TieBreakers {
		out.TieBreakers = append(out.TieBreakers, model.TieBreaker(br))
	}
	return out
}

// GridFromModel converts a realized grid to wire form, numbering starting
// slots across waves and annotating per-wave modified flags.
func GridFromModel(g *model.Grid, modified []bool) Grid {
	if g == nil {
		return Grid{}
	}
	slots := grid.SlotNumbers(g)

	out := Grid{Waves: make([]GridWave, 0, len(g.Waves))}
	for i := range g.Waves {
		w := &g.Waves[i]
		wave := GridWave{
			Config:  WaveConfigFromModel(w.Config),
			Entries: make([]GridEntry, 0, len(w.Entries)),
		}
		if i < len(modified) {
			wave.Modified = modified[i]
		}
		for _, m := range w.Merges {
			wave.Merges = append(wave.Merges, ClassMerge{From: m.From, Into: m.Into})
		}
		for j := range w.Entries {
			wave.Entries = append(wave.Entries, entryFromModel(&w.Entries[j], slots[i][j]))
		}
		out.Waves = append(out.Waves, wave)
	}
	return out
}

// ExportFromModel flattens a realized grid into slotted export rows.
func ExportFromModel(g *model.Grid) []ExportRow {
	if g == nil {
		return nil
	}
	slots := grid.SlotNumbers(g)

	var rows []ExportRow
	for i := range g.Waves {
		w := &g.Waves[i]
		for j := range w.Entries {
			e := &w.Entries[j]
			row := ExportRow{
				Slot:   slots[i][j],
				Wave:   w.Config.WaveNumber,
				Number: e.Number,
				Driver: e.Driver,
				Class:  e.Class,
				Points: e.Points,
			}
			if e.BestTime != nil {
				row.BestTime = laptime.Format(e.BestTime.Seconds)
			}
			if e.SecondBest != nil {
				row.SecondBest = laptime.Format(e.SecondBest.Seconds)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func entryFromModel(e *model.GridEntry, slot int) GridEntry {
	return GridEntry{
		Slot:            slot,
		Number:          e.Number,
		Driver:          e.Driver,
		Class:           e.Class,
		BestTime:        timedValue(e.BestTime),
		SecondBest:      timedValue(e.SecondBest),
		Points:          e.Points,
		Position:        e.Position,
		PositionInClass: e.PositionInClass,
		Tied:            e.Tied,
	}
}

func timedValue(t *model.TimedValue) *TimedValue {
	if t == nil {
		return nil
	}
	return &TimedValue{Seconds: t.Seconds, Display: t.Display, Source: t.Source}
}
