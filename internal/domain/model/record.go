// Package model contains the grid-builder domain types passed between layers.
package model

// RawEntry is one normalized row from an uploaded results file.
// Pointer fields distinguish "column absent" (nil) from "present but empty";
// values keep the verbatim cell text so downstream parsing owns interpretation.
type RawEntry struct {
	Class           *string
	Number          *string
	Driver          *string
	Position        *string
	BestTime        *string
	SecondBest      *string
	Points          *string
	PositionInClass *string

	// Speeds are distilled from lap-by-driver logs only.
	BestSpeed   *float64
	SecondSpeed *float64

	SourceFile string // id of the upload this row came from
}

// FieldSupport records which optional result fields at least one row of a
// batch resolved. Unioned across uploads it decides which sort and
// tie-break options the session can offer.
type FieldSupport struct {
	Position        bool
	BestTime        bool
	SecondBest      bool
	Points          bool
	PositionInClass bool
}

// Union folds another batch's support into this one.
func (f FieldSupport) Union(o FieldSupport) FieldSupport {
	return FieldSupport{
		Position:        f.Position || o.Position,
		BestTime:        f.BestTime || o.BestTime,
		SecondBest:      f.SecondBest || o.SecondBest,
		Points:          f.Points || o.Points,
		PositionInClass: f.PositionInClass || o.PositionInClass,
	}
}

// Batch is the parsed content of one uploaded file.
type Batch struct {
	FileID   string
	FileName string
	Entries  []RawEntry
	Support  FieldSupport
}

// TimedValue is a lap time with its normalized seconds, the text it was
// parsed from, and the upload it came from.
type TimedValue struct {
	Seconds float64
	Display string
	Source  string
}

// Clone returns an independent copy.
func (t *TimedValue) Clone() *TimedValue {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Contribution is what a single file contributed to a driver record.
type Contribution struct {
	BestTime        *TimedValue
	SecondTime      *TimedValue
	BestSpeed       *float64
	SecondSpeed     *float64
	Points          *float64
	Position        *int
	PositionInClass *int
	Source          string
}

// DriverRecord is the consolidated identity of one driver across all
// uploaded files, with per-file contributions and derived aggregates.
type DriverRecord struct {
	Key    string // identity key; see consolidate
	Name   string
	Number string
	Class  string

	Contributions []Contribution

	BestOverallTime        *TimedValue
	SecondBestOverallTime  *TimedValue
	TotalPoints            *float64
	AveragePoints          *float64
	BestPosition           *int
	AveragePosition        *float64
	BestPositionInClass    *int
	AveragePositionInClass *float64
}

// Clone returns an independent deep copy of the record.
func (d *DriverRecord) Clone() *DriverRecord {
	if d == nil {
		return nil
	}
	out := *d
	out.Contributions = make([]Contribution, len(d.Contributions))
	for i := range d.Contributions {
		out.Contributions[i] = d.Contributions[i].clone()
	}
	out.BestOverallTime = d.BestOverallTime.Clone()
	out.SecondBestOverallTime = d.SecondBestOverallTime.Clone()
	out.TotalPoints = clonePtr(d.TotalPoints)
	out.AveragePoints = clonePtr(d.AveragePoints)
	out.BestPosition = clonePtr(d.BestPosition)
	out.AveragePosition = clonePtr(d.AveragePosition)
	out.BestPositionInClass = clonePtr(d.BestPositionInClass)
	out.AveragePositionInClass = clonePtr(d.AveragePositionInClass)
	return &out
}

func (c Contribution) clone() Contribution {
	out := c
	out.BestTime = c.BestTime.Clone()
	out.SecondTime = c.SecondTime.Clone()
	out.BestSpeed = clonePtr(c.BestSpeed)
	out.SecondSpeed = clonePtr(c.SecondSpeed)
	out.Points = clonePtr(c.Points)
	out.Position = clonePtr(c.Position)
	out.PositionInClass = clonePtr(c.PositionInClass)
	return out
}

// BestSecondTime returns the fastest per-file second-best time, or nil when
// no contribution recorded one.
func (d *DriverRecord) BestSecondTime() *TimedValue {
	var best *TimedValue
	for i := range d.Contributions {
		st := d.Contributions[i].SecondTime
		if st == nil {
			continue
		}
		if best == nil || st.Seconds < best.Seconds {
			best = st
		}
	}
	return best
}

// HasPoints reports whether any contribution carries a points value.
func (d *DriverRecord) HasPoints() bool {
	for i := range d.Contributions {
		if d.Contributions[i].Points != nil {
			return true
		}
	}
	return false
}
