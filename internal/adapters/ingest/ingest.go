// Package ingest parses uploaded result files into raw entry batches.
//
// Three shapes are recognized: a delimited tabular export with one row per
// driver, an HTML page carrying a results table, and a lap-by-driver log in
// which a "Number - Name - Class" header precedes each driver's lap rows.
// A file that cannot be parsed in full is rejected whole; a partial batch
// never reaches the roster.
package ingest

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/normalize"
	"github.com/David-MyRaceDay/grid-builder-sub000/pkg/metrics"
)

// Format identifies the recognized shape of an uploaded file.
type Format string

const (
	FormatTabular Format = "tabular"
	FormatLapLog  Format = "laplog"
	FormatHTML    Format = "html"
)

// Parse detects the shape of an uploaded file and parses it into a batch
// stamped with the upload id and name. The error wraps one of the package
// sentinels and carries enough detail for a user-facing rejection message.
func Parse(fileID, fileName string, data []byte) (model.Batch, error) {
	start := time.Now()
	format := DetectFormat(fileName, data)

	var (
		entries []model.RawEntry
		support model.FieldSupport
		err     error
	)
	switch format {
	case FormatHTML:
		entries, support, err = parseHTML(data, fileID)
	case FormatLapLog:
		entries, support, err = parseLapLog(data, fileID)
	default:
		entries, support, err = parseTabular(data, fileID)
	}
	if err != nil {
		metrics.RecordFileRejected(string(format), rejectionKind(err))
		return model.Batch{}, err
	}

	metrics.RecordFileParsed(string(format))
	metrics.RecordParseLatency(string(format), float64(time.Since(start).Milliseconds()))
	return model.Batch{FileID: fileID, FileName: fileName, Entries: entries, Support: support}, nil
}

// rowSupport reports which optional fields the parsed rows resolved.
func rowSupport(rows []normalize.Row) model.FieldSupport {
	return model.FieldSupport{
		Position:        normalize.Available(rows, normalize.Position),
		BestTime:        normalize.Available(rows, normalize.BestTime),
		SecondBest:      normalize.Available(rows, normalize.SecondBest),
		Points:          normalize.Available(rows, normalize.Points),
		PositionInClass: normalize.Available(rows, normalize.PositionInClass),
	}
}

// DetectFormat classifies content by file extension and shape. Markup is
// HTML, a leading driver section header is a lap log, everything else is
// treated as a tabular export.
func DetectFormat(fileName string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".html", ".htm":
		return FormatHTML
	}
	trimmed := bytes.TrimLeftFunc(data, unicode.IsSpace)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return FormatHTML
	}
	if line, ok := firstLine(data); ok && sectionRE.MatchString(line) {
		return FormatLapLog
	}
	return FormatTabular
}

// firstLine returns the first non-blank line, trimmed.
func firstLine(data []byte) (string, bool) {
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		if s := strings.TrimSpace(string(line)); s != "" {
			return s, true
		}
	}
	return "", false
}

// hasIdentity reports whether the header resolves a driver or number
// column. Files without either cannot contribute to the roster.
func hasIdentity(header []string) bool {
	probe := make(normalize.Row, len(header))
	for _, h := range header {
		if k := normalize.Key(h); k != "" {
			probe[k] = "x"
		}
	}
	return normalize.Field(probe, normalize.Driver) != nil ||
		normalize.Field(probe, normalize.Number) != nil
}

func rejectionKind(err error) string {
	switch {
	case errors.Is(err, ErrEmptyFile):
		return "empty_file"
	case errors.Is(err, ErrMissingIdentity):
		return "missing_identity"
	case errors.Is(err, ErrNoTable):
		return "no_table"
	default:
		return "malformed_row"
	}
}
