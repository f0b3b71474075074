// Package consolidate merges the raw entries of every uploaded file into a
// single roster of driver records.
//
// Identity is resolved per row: the trimmed, case-folded driver name when
// present, else a number-derived key, else a generated one so rows that
// cannot be identified never collide. Every call is a full recompute over
// all batches; feeding it the same batches twice yields the same roster.
package consolidate

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/laptime"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
)

// Consolidate builds the driver roster from all uploaded batches, in upload
// order. Records are returned in first-seen order.
func Consolidate(batches []model.Batch) []*model.DriverRecord {
	byKey := make(map[string]*model.DriverRecord)
	var roster []*model.DriverRecord

	for _, batch := range batches {
		for i := range batch.Entries {
			entry := &batch.Entries[i]
			key := identityKey(entry)

			rec, ok := byKey[key]
			if !ok {
				rec = &model.DriverRecord{Key: key}
				byKey[key] = rec
				roster = append(roster, rec)
			}
			fillIdentity(rec, entry)
			rec.Contributions = append(rec.Contributions, contribution(entry))
		}
	}

	for _, rec := range roster {
		aggregate(rec)
	}
	return roster
}

// identityKey derives the roster key for a raw entry. Unidentifiable rows
// get a generated key so they never merge with each other.
func identityKey(e *model.RawEntry) string {
	if e.Driver != nil {
		if name := strings.TrimSpace(*e.Driver); name != "" {
			return strings.ToLower(name)
		}
	}
	if e.Number != nil {
		if num := strings.TrimSpace(*e.Number); num != "" {
			return "#" + strings.ToLower(num)
		}
	}
	return "anon-" + uuid.NewString()
}

// fillIdentity sets name, number and class from the first entry that
// supplies them; later files never overwrite.
func fillIdentity(rec *model.DriverRecord, e *model.RawEntry) {
	if rec.Name == "" && e.Driver != nil {
		rec.Name = strings.TrimSpace(*e.Driver)
	}
	if rec.Number == "" && e.Number != nil {
		rec.Number = strings.TrimSpace(*e.Number)
	}
	if rec.Class == "" && e.Class != nil {
		rec.Class = strings.TrimSpace(*e.Class)
	}
}

func contribution(e *model.RawEntry) model.Contribution {
	c := model.Contribution{Source: e.SourceFile}

	if e.BestTime != nil {
		if sec, ok := laptime.ParseValue(*e.BestTime); ok {
			c.BestTime = &model.TimedValue{
				Seconds: sec,
				Display: strings.TrimSpace(*e.BestTime),
				Source:  e.SourceFile,
			}
		}
	}
	if e.SecondBest != nil {
		if sec, ok := laptime.ParseValue(*e.SecondBest); ok {
			c.SecondTime = &model.TimedValue{
				Seconds: sec,
				Display: strings.TrimSpace(*e.SecondBest),
				Source:  e.SourceFile,
			}
		}
	}
	if e.BestSpeed != nil {
		v := *e.BestSpeed
		c.BestSpeed = &v
	}
	if e.SecondSpeed != nil {
		v := *e.SecondSpeed
		c.SecondSpeed = &v
	}
	c.Points = parseFloat(e.Points)
	c.Position = parseInt(e.Position)
	c.PositionInClass = parseInt(e.PositionInClass)
	return c
}

// aggregate recomputes every derived field on the record from its
// contributions.
func aggregate(rec *model.DriverRecord) {
	// Pool every recorded time, keep contribution order among equals.
	var pool []*model.TimedValue
	for i := range rec.Contributions {
		if bt := rec.Contributions[i].BestTime; bt != nil {
			pool = append(pool, bt)
		}
		if st := rec.Contributions[i].SecondTime; st != nil {
			pool = append(pool, st)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Seconds < pool[j].Seconds })

	rec.BestOverallTime, rec.SecondBestOverallTime = nil, nil
	if len(pool) > 0 {
		rec.BestOverallTime = pool[0].Clone()
		for _, t := range pool[1:] {
			// Second best is the next distinct value, not a repeat of the best.
			if t.Seconds > pool[0].Seconds {
				rec.SecondBestOverallTime = t.Clone()
				break
			}
		}
	}

	rec.TotalPoints, rec.AveragePoints = nil, nil
	if rec.HasPoints() {
		total := 0.0
		for i := range rec.Contributions {
			if p := rec.Contributions[i].Points; p != nil {
				total += *p
			}
		}
		avg := total / float64(len(rec.Contributions))
		rec.TotalPoints, rec.AveragePoints = &total, &avg
	}

	rec.BestPosition, rec.AveragePosition = positionAggregate(rec.Contributions,
		func(c *model.Contribution) *int { return c.Position })
	rec.BestPositionInClass, rec.AveragePositionInClass = positionAggregate(rec.Contributions,
		func(c *model.Contribution) *int { return c.PositionInClass })
}

// positionAggregate returns the minimum and the two-decimal mean of the
// recorded values, or nils when none were recorded.
func positionAggregate(contribs []model.Contribution, get func(*model.Contribution) *int) (*int, *float64) {
	var best *int
	sum, n := 0, 0
	for i := range contribs {
		p := get(&contribs[i])
		if p == nil {
			continue
		}
		if best == nil || *p < *best {
			v := *p
			best = &v
		}
		sum += *p
		n++
	}
	if best == nil {
		return nil, nil
	}
	avg := math.Round(float64(sum)/float64(n)*100) / 100
	return best, &avg
}

func parseFloat(s *string) *float64 {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s *string) *int {
	if s == nil {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &v
}
