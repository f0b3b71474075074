// Package laptime normalizes lap time text into comparable seconds.
//
// Results exports write times in a handful of shapes: "MM:SS.mmm",
// "MM:SS:mmm", "SS.mmm" or a plain numeric seconds value. Everything else,
// including the usual no-time markers (DNF, DNS, ...), maps to a fixed
// Infinite sentinel so missing times keep a stable place at the end of any
// ascending sort.
package laptime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Infinite is the sentinel seconds value for missing or unparseable times.
const Infinite = 999999.0

// no-time markers, matched case-insensitively after trimming.
var noTime = map[string]struct{}{
	"":    {},
	"dnf": {},
	"dns": {},
	"dsq": {},
	"dnq": {},
	"-":   {},
}

// Parse converts a lap time string to seconds, yielding Infinite for
// anything it cannot interpret.
func Parse(s string) float64 {
	v, _ := ParseValue(s)
	return v
}

// ParseValue is Parse with an explicit flag; ok is false when the sentinel
// was produced.
func ParseValue(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	if _, skip := noTime[strings.ToLower(t)]; skip {
		return Infinite, false
	}

	// Plain numeric seconds take precedence over separator splitting.
	if v, err := strconv.ParseFloat(t, 64); err == nil {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Infinite, false
		}
		return v, true
	}

	parts := strings.FieldsFunc(t, func(r rune) bool { return r == ':' || r == '.' })
	switch len(parts) {
	case 3: // minutes, seconds, milliseconds
		min, okM := parseUint(parts[0])
		sec, okS := parseUint(parts[1])
		ms, okF := parseMillis(parts[2])
		if !okM || !okS || !okF {
			return Infinite, false
		}
		return float64(min)*60 + float64(sec) + float64(ms)/1000, true
	case 2: // seconds, milliseconds
		sec, okS := parseUint(parts[0])
		ms, okF := parseMillis(parts[1])
		if !okS || !okF {
			return Infinite, false
		}
		return float64(sec) + float64(ms)/1000, true
	}
	return Infinite, false
}

// IsInfinite reports whether v is the missing-time sentinel.
func IsInfinite(v float64) bool {
	return v >= Infinite
}

// Format renders seconds as "M:SS.mmm", dropping the minutes part below one
// minute. Sentinel values render empty.
func Format(seconds float64) string {
	if IsInfinite(seconds) || seconds < 0 {
		return ""
	}
	totalMS := int(math.Round(seconds * 1000))
	min := totalMS / 60000
	rest := float64(totalMS%60000) / 1000
	if min == 0 {
		return strconv.FormatFloat(rest, 'f', 3, 64)
	}
	return fmt.Sprintf("%d:%06.3f", min, rest)
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseMillis reads a millisecond fragment, right-padding short fragments
// with zeros and truncating long ones to three digits, so "4" means 400ms
// and "4567" means 456ms.
func parseMillis(s string) (int, bool) {
	for len(s) < 3 {
		s += "0"
	}
	return parseUint(s[:3])
}
