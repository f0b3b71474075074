// Package normalize maps the column-name dialects of results exports onto
// canonical record fields.
//
// Different timing systems label the same column differently ("Best Tm",
// "Best Time", "Best Lap", ...). Each canonical field carries an ordered
// variant list; for a given row the first variant holding a non-empty value
// wins. Absent fields stay nil so callers can tell "no column" from "empty
// cell".
package normalize

import (
	"strings"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
)

// Canonical identifies a normalized record field.
type Canonical string

const (
	Class           Canonical = "class"
	Number          Canonical = "number"
	Driver          Canonical = "driver"
	Position        Canonical = "position"
	BestTime        Canonical = "bestTime"
	SecondBest      Canonical = "secondBest"
	Points          Canonical = "points"
	PositionInClass Canonical = "positionInClass"
)

// Canonicals lists every canonical field in a stable order.
var Canonicals = []Canonical{
	Class, Number, Driver, Position, BestTime, SecondBest, Points, PositionInClass,
}

// variants are matched in priority order against normalized header names.
var variants = map[Canonical][]string{
	Class: {
		"class", "car class", "carclass", "division", "group", "category", "cls",
	},
	Number: {
		"number", "no", "no.", "num", "car number", "carnumber", "car no",
		"car #", "car", "#",
	},
	Driver: {
		"driver", "name", "driver name", "drivername", "pilot", "competitor",
	},
	Position: {
		"position", "pos", "pos.", "finish position", "finish pos", "finish",
		"overall position", "place",
	},
	BestTime: {
		"best tm", "best time", "besttime", "best lap", "bestlap",
		"best lap tm", "fast time", "fastest time", "best",
	},
	SecondBest: {
		"2nd best", "second best", "secondbest", "2nd tm", "2nd best tm",
		"second tm", "2nd time",
	},
	Points: {
		"points", "pts", "score",
	},
	PositionInClass: {
		"pic", "pos in class", "position in class", "positioninclass",
		"class position", "class pos", "in class",
	},
}

// Row is one data row keyed by normalized header name.
type Row map[string]string

// Key normalizes a header cell for matching.
func Key(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// NewRow pairs header cells with data cells. Surplus cells on either side
// are ignored; on duplicate headers the first column wins.
func NewRow(headers, cells []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		if i >= len(cells) {
			break
		}
		k := Key(h)
		if k == "" {
			continue
		}
		if _, dup := row[k]; dup {
			continue
		}
		row[k] = cells[i]
	}
	return row
}

// Field resolves a canonical field against the row, returning the first
// variant's value that is present and non-empty, or nil.
func Field(row Row, c Canonical) *string {
	for _, v := range variants[c] {
		cell, ok := row[v]
		if !ok {
			continue
		}
		if strings.TrimSpace(cell) == "" {
			continue
		}
		value := cell
		return &value
	}
	return nil
}

// Entry assembles a raw entry from a row, tagged with its source file.
func Entry(row Row, sourceFile string) model.RawEntry {
	return model.RawEntry{
		Class:           Field(row, Class),
		Number:          Field(row, Number),
		Driver:          Field(row, Driver),
		Position:        Field(row, Position),
		BestTime:        Field(row, BestTime),
		SecondBest:      Field(row, SecondBest),
		Points:          Field(row, Points),
		PositionInClass: Field(row, PositionInClass),
		SourceFile:      sourceFile,
	}
}

// Available reports whether any row resolves the canonical field. Sorting
// and tie-breaking options that depend on a field are withheld when their
// data never showed up.
func Available(rows []Row, c Canonical) bool {
	for _, row := range rows {
		if Field(row, c) != nil {
			return true
		}
	}
	return false
}
