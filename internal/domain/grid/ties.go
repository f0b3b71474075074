package grid

import "github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"

// MarkTies flags every entry whose primary sort value is shared with at
// least one other entry in the wave. It is a display annotation only and
// never reorders; tie-breakers already had their say during the sort.
func MarkTies(w *model.GridWave) {
	counts := make(map[float64]int, len(w.Entries))
	for i := range w.Entries {
		counts[w.Entries[i].SortValue]++
	}
	for i := range w.Entries {
		e := &w.Entries[i]
		e.Tied = counts[e.SortValue] >= 2
	}
}

// MarkAllTies refreshes tie annotations on every wave.
func MarkAllTies(g *model.Grid) {
	if g == nil {
		return
	}
	for i := range g.Waves {
		MarkTies(&g.Waves[i])
	}
}
