// Package grid realizes starting grids from wave configurations and the
// consolidated driver roster, and carries the pure mutation primitives the
// session store applies afterwards.
//
// Realization is deterministic: filter by assigned classes, order by the
// wave's primary criterion with missing data keyed to the lap time sentinel
// (so it always lands last), break points ties through the configured
// cascade, then apply class grouping and inversion. Every entry keeps the
// primary sort key it was ordered by, which is what tie detection groups on.
package grid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/laptime"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
)

// Build realizes a grid from the wave configs and the roster. The config
// set must be valid; an empty roster or a grid without a single qualifying
// entry is an error rather than an empty grid.
func Build(configs []model.WaveConfig, records []*model.DriverRecord) (*model.Grid, error) {
	if err := ValidateConfigs(configs); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	g := &model.Grid{Waves: make([]model.GridWave, 0, len(configs))}
	total := 0
	for _, cfg := range configs {
		wave := buildWave(cfg, records)
		total += len(wave.Entries)
		g.Waves = append(g.Waves, wave)
	}
	if total == 0 {
		return nil, ErrNoQualifyingEntries
	}

	for i := range g.Waves {
		MarkTies(&g.Waves[i])
	}
	return g, nil
}

// ValidateConfigs checks the cross-wave invariants of a config set.
func ValidateConfigs(configs []model.WaveConfig) error {
	if len(configs) == 0 {
		return ErrNoWaves
	}

	standing := false
	classWave := make(map[string]int)
	for i := range configs {
		cfg := &configs[i]
		if cfg.WaveNumber != i+1 {
			return fmt.Errorf("%w: wave at position %d is numbered %d", ErrWaveNumbering, i+1, cfg.WaveNumber)
		}
		if !cfg.StartType.Valid() {
			return fmt.Errorf("%w: wave %d start type %q", ErrInvalidConfig, cfg.WaveNumber, cfg.StartType)
		}
		if standing && cfg.StartType != model.StartStanding {
			return fmt.Errorf("%w: wave %d", ErrStartTypeOrder, cfg.WaveNumber)
		}
		if cfg.StartType == model.StartStanding {
			standing = true
		}
		if !cfg.SortBy.Valid() {
			return fmt.Errorf("%w: wave %d sort criterion %q", ErrInvalidConfig, cfg.WaveNumber, cfg.SortBy)
		}
		if len(cfg.TieBreakers) > model.MaxTieBreakers {
			return fmt.Errorf("%w: wave %d configures %d tie breakers", ErrInvalidConfig, cfg.WaveNumber, len(cfg.TieBreakers))
		}
		for _, br := range cfg.TieBreakers {
			if !br.Valid() {
				return fmt.Errorf("%w: wave %d tie breaker %q", ErrInvalidConfig, cfg.WaveNumber, br)
			}
		}
		if cfg.GroupByClass && cfg.GroupDirection != "" && !cfg.GroupDirection.Valid() {
			return fmt.Errorf("%w: wave %d group direction %q", ErrInvalidConfig, cfg.WaveNumber, cfg.GroupDirection)
		}
		if cfg.InvertCount < 0 {
			return fmt.Errorf("%w: wave %d invert count %d", ErrInvalidConfig, cfg.WaveNumber, cfg.InvertCount)
		}
		if cfg.EmptyPositions < 0 {
			return fmt.Errorf("%w: wave %d empty positions %d", ErrInvalidConfig, cfg.WaveNumber, cfg.EmptyPositions)
		}
		for _, class := range cfg.Classes {
			if prev, dup := classWave[class]; dup {
				return fmt.Errorf("%w: class %q in waves %d and %d", ErrClassOverlap, class, prev, cfg.WaveNumber)
			}
			classWave[class] = cfg.WaveNumber
		}
	}
	return nil
}

func buildWave(cfg model.WaveConfig, records []*model.DriverRecord) model.GridWave {
	wave := model.GridWave{Config: cfg.Clone()}

	var entries []model.GridEntry
	for _, rec := range records {
		if cfg.HasClass(rec.Class) {
			entries = append(entries, newEntry(rec, cfg.SortBy))
		}
	}
	if len(entries) == 0 {
		return wave
	}

	sortEntries(entries, &cfg)
	if cfg.GroupByClass {
		entries = regroupByClass(entries, cfg.GroupDirection)
	}
	applyInversion(entries, &cfg)

	wave.Entries = entries
	return wave
}

func newEntry(rec *model.DriverRecord, sortBy model.SortCriterion) model.GridEntry {
	e := model.GridEntry{
		Key:        rec.Key,
		Number:     rec.Number,
		Driver:     rec.Name,
		Class:      rec.Class,
		BestTime:   rec.BestOverallTime.Clone(),
		SecondBest: rec.SecondBestOverallTime.Clone(),
		SortValue:  sortValue(rec, sortBy),
	}
	if rec.TotalPoints != nil {
		v := *rec.TotalPoints
		e.Points = &v
	}
	if rec.BestPosition != nil {
		v := *rec.BestPosition
		e.Position = &v
	}
	if rec.BestPositionInClass != nil {
		v := *rec.BestPositionInClass
		e.PositionInClass = &v
	}
	return e
}

// sortValue maps a record onto an ascending key for the criterion. Points
// criteria negate so that more points rank earlier; missing data keys to
// the sentinel and therefore always ranks last.
func sortValue(rec *model.DriverRecord, by model.SortCriterion) float64 {
	switch by {
	case model.SortPosition:
		if rec.BestPosition != nil {
			return float64(*rec.BestPosition)
		}
	case model.SortBestTime:
		if rec.BestOverallTime != nil {
			return rec.BestOverallTime.Seconds
		}
	case model.SortSecondBestTime:
		if rec.SecondBestOverallTime != nil {
			return rec.SecondBestOverallTime.Seconds
		}
	case model.SortBestSecondBest:
		if st := rec.BestSecondTime(); st != nil {
			return st.Seconds
		}
	case model.SortTotalPoints:
		if rec.TotalPoints != nil {
			return -*rec.TotalPoints
		}
	case model.SortAveragePoints:
		if rec.AveragePoints != nil {
			return -*rec.AveragePoints
		}
	}
	return laptime.Infinite
}

// sortEntries orders by the primary key, falling through the tie-breaker
// cascade only when the criterion is points based. Equal entries keep their
// roster order.
func sortEntries(entries []model.GridEntry, cfg *model.WaveConfig) {
	breakers := cfg.TieBreakers
	if len(breakers) > model.MaxTieBreakers {
		breakers = breakers[:model.MaxTieBreakers]
	}
	pointsBased := cfg.SortBy.PointsBased()

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := &entries[i], &entries[j]
		if a.SortValue != b.SortValue {
			return a.SortValue < b.SortValue
		}
		if !pointsBased {
			return false
		}
		for _, br := range breakers {
			if c := compareBreaker(a, b, br); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func compareBreaker(a, b *model.GridEntry, br model.TieBreaker) int {
	switch br {
	case model.BreakBestTime:
		return compareFloat(timeSeconds(a.BestTime), timeSeconds(b.BestTime))
	case model.BreakSecondBestTime:
		return compareFloat(timeSeconds(a.SecondBest), timeSeconds(b.SecondBest))
	case model.BreakBestPositionInClass:
		return compareFloat(intOrSentinel(a.PositionInClass), intOrSentinel(b.PositionInClass))
	case model.BreakBestPosition:
		return compareFloat(intOrSentinel(a.Position), intOrSentinel(b.Position))
	case model.BreakAlphabetical:
		return strings.Compare(strings.ToLower(a.Driver), strings.ToLower(b.Driver))
	case model.BreakManual:
		// Resolved by hand on the realized grid; contributes nothing here.
		return 0
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func timeSeconds(t *model.TimedValue) float64 {
	if t == nil {
		return laptime.Infinite
	}
	return t.Seconds
}

func intOrSentinel(v *int) float64 {
	if v == nil {
		return laptime.Infinite
	}
	return float64(*v)
}

// classBucket is one slot of the explicit grouping structure rebuilt on
// every recompute and spliced by the class reorder operations.
type classBucket struct {
	class   string
	rep     float64 // fastest best time among members, sentinel when none
	entries []model.GridEntry
}

// buckets splits entries into class buckets in first-seen order.
func buckets(entries []model.GridEntry) []*classBucket {
	var order []*classBucket
	index := make(map[string]*classBucket)
	for i := range entries {
		e := &entries[i]
		b, ok := index[e.Class]
		if !ok {
			b = &classBucket{class: e.Class, rep: laptime.Infinite}
			index[e.Class] = b
			order = append(order, b)
		}
		if e.BestTime != nil && e.BestTime.Seconds < b.rep {
			b.rep = e.BestTime.Seconds
		}
		b.entries = append(b.entries, *e)
	}
	return order
}

func flatten(bs []*classBucket, into []model.GridEntry) []model.GridEntry {
	out := into[:0]
	for _, b := range bs {
		out = append(out, b.entries...)
	}
	return out
}

// regroupByClass orders class buckets by their representative time and
// concatenates them, keeping each bucket's internal order.
func regroupByClass(entries []model.GridEntry, dir model.GroupDirection) []model.GridEntry {
	bs := buckets(entries)
	sort.SliceStable(bs, func(i, j int) bool {
		if dir == model.SlowestFirst {
			return bs[i].rep > bs[j].rep
		}
		return bs[i].rep < bs[j].rep
	})
	return flatten(bs, entries)
}

// applyInversion reverses the whole wave, or just its head when only
// InvertCount is set. Counts beyond the wave clamp to a full reversal.
func applyInversion(entries []model.GridEntry, cfg *model.WaveConfig) {
	if cfg.InvertAll {
		reverseEntries(entries)
		return
	}
	n := cfg.InvertCount
	if n <= 1 {
		return
	}
	if n > len(entries) {
		n = len(entries)
	}
	reverseEntries(entries[:n])
}

func reverseEntries(entries []model.GridEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
