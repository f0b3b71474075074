package model

// GridEntry is one realized starting slot within a wave.
type GridEntry struct {
	Key    string // driver record identity key
	Number string
	Driver string
	Class  string

	BestTime        *TimedValue
	SecondBest      *TimedValue
	Points          *float64
	Position        *int
	PositionInClass *int

	// SortValue is the primary sort key the entry was ordered by; equal
	// values across entries mark a tie group.
	SortValue float64
	Tied      bool
}

// Clone returns an independent copy.
func (e GridEntry) Clone() GridEntry {
	out := e
	out.BestTime = e.BestTime.Clone()
	out.SecondBest = e.SecondBest.Clone()
	out.Points = clonePtr(e.Points)
	out.Position = clonePtr(e.Position)
	out.PositionInClass = clonePtr(e.PositionInClass)
	return out
}

// ClassMerge records that one class label was folded into another.
type ClassMerge struct {
	From string
	Into string
}

// GridWave is a realized wave: its configuration and ordered entries.
type GridWave struct {
	Config  WaveConfig
	Entries []GridEntry
	Merges  []ClassMerge // class merges applied to this wave, in order
}

// Clone returns an independent deep copy.
func (w GridWave) Clone() GridWave {
	out := w
	out.Config = w.Config.Clone()
	out.Entries = make([]GridEntry, len(w.Entries))
	for i := range w.Entries {
		out.Entries[i] = w.Entries[i].Clone()
	}
	out.Merges = append([]ClassMerge(nil), w.Merges...)
	return out
}

// Grid is the full realized starting grid.
type Grid struct {
	Waves []GridWave
}

// Clone returns an independent deep copy, or nil for a nil grid.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	out := &Grid{Waves: make([]GridWave, len(g.Waves))}
	for i := range g.Waves {
		out.Waves[i] = g.Waves[i].Clone()
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
