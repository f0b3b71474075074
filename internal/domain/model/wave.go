package model

// StartType is how a wave is released onto the track.
type StartType string

const (
	StartFlying   StartType = "flying"
	StartStanding StartType = "standing"
)

// Valid reports whether the start type is a known value.
func (s StartType) Valid() bool {
	return s == StartFlying || s == StartStanding
}

// SortCriterion is the primary ordering applied to a wave.
type SortCriterion string

const (
	SortPosition       SortCriterion = "position"
	SortBestTime       SortCriterion = "bestTime"
	SortSecondBestTime SortCriterion = "secondBestTime"
	SortBestSecondBest SortCriterion = "bestSecondBest"
	SortTotalPoints    SortCriterion = "totalPoints"
	SortAveragePoints  SortCriterion = "averagePoints"
)

// Valid reports whether the criterion is a known value.
func (s SortCriterion) Valid() bool {
	switch s {
	case SortPosition, SortBestTime, SortSecondBestTime, SortBestSecondBest,
		SortTotalPoints, SortAveragePoints:
		return true
	}
	return false
}

// PointsBased reports whether the criterion orders by championship points,
// which is what arms the tie-breaker cascade.
func (s SortCriterion) PointsBased() bool {
	return s == SortTotalPoints || s == SortAveragePoints
}

// Descending reports whether larger values rank earlier for this criterion.
func (s SortCriterion) Descending() bool {
	return s.PointsBased()
}

// TieBreaker resolves equal primary sort values, in configured order.
type TieBreaker string

const (
	BreakBestTime            TieBreaker = "bestTime"
	BreakSecondBestTime      TieBreaker = "secondBestTime"
	BreakBestPositionInClass TieBreaker = "bestPositionInClass"
	BreakBestPosition        TieBreaker = "bestPosition"
	BreakAlphabetical        TieBreaker = "alphabetical"
	BreakManual              TieBreaker = "manual"
)

// Valid reports whether the tie-breaker is a known value.
func (b TieBreaker) Valid() bool {
	switch b {
	case BreakBestTime, BreakSecondBestTime, BreakBestPositionInClass,
		BreakBestPosition, BreakAlphabetical, BreakManual:
		return true
	}
	return false
}

// SupportedSortCriteria lists the orderings the resolved fields can back,
// in declaration order.
func SupportedSortCriteria(f FieldSupport) []SortCriterion {
	var out []SortCriterion
	if f.Position {
		out = append(out, SortPosition)
	}
	if f.BestTime {
		out = append(out, SortBestTime)
	}
	if f.SecondBest {
		out = append(out, SortSecondBestTime, SortBestSecondBest)
	}
	if f.Points {
		out = append(out, SortTotalPoints, SortAveragePoints)
	}
	return out
}

// SupportedTieBreakers lists the tie-breakers the resolved fields can back.
// Alphabetical and manual need no result data and are always offered.
func SupportedTieBreakers(f FieldSupport) []TieBreaker {
	var out []TieBreaker
	if f.BestTime {
		out = append(out, BreakBestTime)
	}
	if f.SecondBest {
		out = append(out, BreakSecondBestTime)
	}
	if f.PositionInClass {
		out = append(out, BreakBestPositionInClass)
	}
	if f.Position {
		out = append(out, BreakBestPosition)
	}
	return append(out, BreakAlphabetical, BreakManual)
}

// GroupDirection orders class groups within a wave.
type GroupDirection string

const (
	FastestFirst GroupDirection = "fastestFirst"
	SlowestFirst GroupDirection = "slowestFirst"
)

// Valid reports whether the direction is a known value.
func (d GroupDirection) Valid() bool {
	return d == FastestFirst || d == SlowestFirst
}

// MaxTieBreakers is the longest tie-breaker cascade a wave may configure.
const MaxTieBreakers = 3

// WaveConfig describes one wave of the starting grid.
type WaveConfig struct {
	WaveNumber     int       // 1-based, contiguous across the config set
	StartType      StartType // once a wave is standing, all later waves are
	Classes        []string  // classes assigned to this wave; disjoint across waves
	SortBy         SortCriterion
	TieBreakers    []TieBreaker // applied only for points-based SortBy, at most MaxTieBreakers
	GroupByClass   bool
	GroupDirection GroupDirection // used when GroupByClass is set
	InvertAll      bool           // reverse the whole wave after sorting
	InvertCount    int            // reverse the first N entries; 0 means none
	EmptyPositions int            // trailing empty slots, for numbering only
}

// HasClass reports whether the wave is assigned the given class.
func (w *WaveConfig) HasClass(class string) bool {
	for _, c := range w.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (w WaveConfig) Clone() WaveConfig {
	out := w
	out.Classes = append([]string(nil), w.Classes...)
	out.TieBreakers = append([]TieBreaker(nil), w.TieBreakers...)
	return out
}
