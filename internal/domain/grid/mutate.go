package grid

import "github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"

// Mutation primitives operate on a realized grid in place and report
// whether they changed anything. Out-of-range indices and unknown classes
// are no-ops, never errors; the caller decides what "not applied" means.
// Wave arguments are zero-based indices into g.Waves.

// MoveEntry relocates one entry, within a wave or across waves. toIndex is
// the insertion point after removal, so len(destination) appends.
func MoveEntry(g *model.Grid, fromWave, fromIndex, toWave, toIndex int) bool {
	if g == nil || !validWave(g, fromWave) || !validWave(g, toWave) {
		return false
	}
	src := &g.Waves[fromWave]
	if fromIndex < 0 || fromIndex >= len(src.Entries) {
		return false
	}
	dst := &g.Waves[toWave]
	limit := len(dst.Entries)
	if fromWave == toWave {
		limit--
	}
	if toIndex < 0 || toIndex > limit {
		return false
	}
	if fromWave == toWave && toIndex == fromIndex {
		return false
	}

	entry := src.Entries[fromIndex]
	src.Entries = append(src.Entries[:fromIndex], src.Entries[fromIndex+1:]...)
	dst.Entries = append(dst.Entries, model.GridEntry{})
	copy(dst.Entries[toIndex+1:], dst.Entries[toIndex:])
	dst.Entries[toIndex] = entry
	return true
}

// MoveToWaveStart lifts the entry to the head of its wave.
func MoveToWaveStart(g *model.Grid, wave, index int) bool {
	return MoveEntry(g, wave, index, wave, 0)
}

// MoveToWaveEnd drops the entry to the tail of its wave.
func MoveToWaveEnd(g *model.Grid, wave, index int) bool {
	if g == nil || !validWave(g, wave) {
		return false
	}
	return MoveEntry(g, wave, index, wave, len(g.Waves[wave].Entries)-1)
}

// MoveToClassEnd places the entry directly behind the last entry of its own
// class within the wave. An entry already in that spot stays put.
func MoveToClassEnd(g *model.Grid, wave, index int) bool {
	if g == nil || !validWave(g, wave) {
		return false
	}
	w := &g.Waves[wave]
	if index < 0 || index >= len(w.Entries) {
		return false
	}

	class := w.Entries[index].Class
	last := index
	for i := range w.Entries {
		if w.Entries[i].Class == class && i > last {
			last = i
		}
	}
	if last == index {
		return false
	}
	// After removal the last same-class entry shifts to last-1; inserting at
	// last lands directly behind it.
	return MoveEntry(g, wave, index, wave, last)
}

// MoveClassBlock swaps a class bucket with its neighbor in the named
// direction ("up" toward the wave head). Buckets are rebuilt from the
// current entries in first-seen order, so the wave comes back regrouped by
// class.
func MoveClassBlock(g *model.Grid, wave int, class, direction string) bool {
	if g == nil || !validWave(g, wave) {
		return false
	}
	w := &g.Waves[wave]

	bs := buckets(w.Entries)
	pos := -1
	for i, b := range bs {
		if b.class == class {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}

	var target int
	switch direction {
	case "up":
		target = pos - 1
	case "down":
		target = pos + 1
	default:
		return false
	}
	if target < 0 || target >= len(bs) {
		return false
	}

	bs[pos], bs[target] = bs[target], bs[pos]
	w.Entries = flatten(bs, w.Entries)
	return true
}

// MergeClassWithPrevious relabels every entry of class to the class bucket
// directly before it and folds the entries into that bucket. The merge is
// recorded on the wave for provenance.
func MergeClassWithPrevious(g *model.Grid, wave int, class string) bool {
	if g == nil || !validWave(g, wave) {
		return false
	}
	w := &g.Waves[wave]

	bs := buckets(w.Entries)
	pos := -1
	for i, b := range bs {
		if b.class == class {
			pos = i
			break
		}
	}
	if pos <= 0 {
		return false
	}
	into := bs[pos-1].class

	for i := range w.Entries {
		if w.Entries[i].Class == class {
			w.Entries[i].Class = into
		}
	}
	w.Entries = flatten(buckets(w.Entries), w.Entries)
	w.Merges = append(w.Merges, model.ClassMerge{From: class, Into: into})
	return true
}

// CombineWaveWithPrevious appends the wave's entries to the one before it,
// removes the wave and renumbers the remainder to stay contiguous. The
// combined wave keeps the earlier wave's configuration except for the
// trailing empty positions, which the later wave supplied.
func CombineWaveWithPrevious(g *model.Grid, wave int) bool {
	if g == nil || wave <= 0 || wave >= len(g.Waves) {
		return false
	}
	prev, cur := &g.Waves[wave-1], &g.Waves[wave]

	prev.Entries = append(prev.Entries, cur.Entries...)
	prev.Config.Classes = append(prev.Config.Classes, cur.Config.Classes...)
	prev.Config.EmptyPositions = cur.Config.EmptyPositions
	prev.Merges = append(prev.Merges, cur.Merges...)

	g.Waves = append(g.Waves[:wave], g.Waves[wave+1:]...)
	Renumber(g)
	return true
}

// Renumber rewrites wave numbers to 1..n in order.
func Renumber(g *model.Grid) {
	for i := range g.Waves {
		g.Waves[i].Config.WaveNumber = i + 1
	}
}

func validWave(g *model.Grid, wave int) bool {
	return wave >= 0 && wave < len(g.Waves)
}
