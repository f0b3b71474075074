package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/laptime"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
)

// sectionRE matches a driver section header: "Number - Name - Class".
var sectionRE = regexp.MustCompile(`^(\S+)\s*-\s*(.+?)\s*-\s*(.+)$`)

// parseLapLog reads a lap-by-driver log. Each section header opens one
// driver's lap rows; every row contributes a lap time and optionally the
// speed that follows it. The section distills into a best and second-best
// lap: a lap faster than the current best demotes it to second-best, a lap
// faster than only the second-best replaces it, everything else is
// discarded.
func parseLapLog(data []byte, source string) ([]model.RawEntry, model.FieldSupport, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))

	var entries []model.RawEntry
	var cur *lapSection
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if m := sectionRE.FindStringSubmatch(text); m != nil {
			if cur != nil {
				entries = append(entries, cur.entry(source))
			}
			cur = &lapSection{
				number: m[1],
				name:   strings.TrimSpace(m[2]),
				class:  strings.TrimSpace(m[3]),
			}
			continue
		}
		if cur == nil {
			return nil, model.FieldSupport{}, fmt.Errorf("%w: line %d precedes any driver header", ErrMalformedRow, line)
		}
		if !cur.addLap(text) {
			return nil, model.FieldSupport{}, fmt.Errorf("%w: line %d has no lap time", ErrMalformedRow, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, model.FieldSupport{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	if cur == nil {
		return nil, model.FieldSupport{}, ErrEmptyFile
	}
	entries = append(entries, cur.entry(source))
	return entries, lapSupport(entries), nil
}

// lapSupport reports the fields a distilled lap log can back: lap logs
// carry times only, never positions or points.
func lapSupport(entries []model.RawEntry) model.FieldSupport {
	var sup model.FieldSupport
	for i := range entries {
		if entries[i].BestTime != nil {
			sup.BestTime = true
		}
		if entries[i].SecondBest != nil {
			sup.SecondBest = true
		}
	}
	return sup
}

// lapSection accumulates one driver's laps and keeps only the two fastest.
type lapSection struct {
	number string
	name   string
	class  string

	bestText    string
	bestSeconds float64
	bestSpeed   *float64

	secondText    string
	secondSeconds float64
	secondSpeed   *float64
}

// addLap extracts the lap time (the first cell that parses as a time and
// carries a separator) and the speed that follows it, then folds them into
// the best/second-best pair. A row without a lap time is malformed.
func (s *lapSection) addLap(row string) bool {
	cells := splitCells(row)

	timeIdx := -1
	var seconds float64
	var text string
	for i, c := range cells {
		if !strings.ContainsAny(c, ":.") {
			continue
		}
		if v, ok := laptime.ParseValue(c); ok {
			timeIdx, seconds, text = i, v, c
			break
		}
	}
	if timeIdx < 0 {
		return false
	}

	var speed *float64
	for _, c := range cells[timeIdx+1:] {
		if v, err := strconv.ParseFloat(c, 64); err == nil {
			speed = &v
			break
		}
	}

	s.record(seconds, text, speed)
	return true
}

func (s *lapSection) record(seconds float64, text string, speed *float64) {
	switch {
	case s.bestText == "":
		s.bestSeconds, s.bestText, s.bestSpeed = seconds, text, speed
	case seconds < s.bestSeconds:
		s.secondSeconds, s.secondText, s.secondSpeed = s.bestSeconds, s.bestText, s.bestSpeed
		s.bestSeconds, s.bestText, s.bestSpeed = seconds, text, speed
	case s.secondText == "" || seconds < s.secondSeconds:
		s.secondSeconds, s.secondText, s.secondSpeed = seconds, text, speed
	}
}

// entry renders the distilled section as a raw entry. A section with no
// laps still identifies the driver; its time fields stay nil.
func (s *lapSection) entry(source string) model.RawEntry {
	number, name, class := s.number, s.name, s.class
	e := model.RawEntry{
		Number:     &number,
		Driver:     &name,
		Class:      &class,
		SourceFile: source,
	}
	if s.bestText != "" {
		best := s.bestText
		e.BestTime = &best
		e.BestSpeed = s.bestSpeed
	}
	if s.secondText != "" {
		second := s.secondText
		e.SecondBest = &second
		e.SecondSpeed = s.secondSpeed
	}
	return e
}

// splitCells breaks a lap row on whitespace and the usual delimiters.
func splitCells(row string) []string {
	return strings.FieldsFunc(row, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
}
