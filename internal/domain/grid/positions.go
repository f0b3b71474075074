package grid

import "github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"

// SlotNumbers assigns the numbered starting slot for every entry, wave by
// wave. A wave begins after the previous wave's entries plus its trailing
// empty positions.
func SlotNumbers(g *model.Grid) [][]int {
	if g == nil {
		return nil
	}
	out := make([][]int, len(g.Waves))
	next := 1
	for i := range g.Waves {
		w := &g.Waves[i]
		nums := make([]int, len(w.Entries))
		for j := range w.Entries {
			nums[j] = next
			next++
		}
		out[i] = nums
		next += w.Config.EmptyPositions
	}
	return out
}
