package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/normalize"
)

// parseTabular reads a delimited export: one header row naming the columns,
// one data row per driver. The delimiter is sniffed from the header line.
// Any unreadable row rejects the whole file.
func parseTabular(data []byte, source string) ([]model.RawEntry, model.FieldSupport, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, model.FieldSupport{}, ErrEmptyFile
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, model.FieldSupport{}, ErrEmptyFile
	}
	if err != nil {
		return nil, model.FieldSupport{}, fmt.Errorf("%w: header: %v", ErrMalformedRow, err)
	}
	if !hasIdentity(header) {
		return nil, model.FieldSupport{}, ErrMissingIdentity
	}

	var entries []model.RawEntry
	var rows []normalize.Row
	row := 1
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, model.FieldSupport{}, fmt.Errorf("%w: row %d: %v", ErrMalformedRow, row, err)
		}
		nr := normalize.NewRow(header, cells)
		rows = append(rows, nr)
		entries = append(entries, normalize.Entry(nr, source))
	}
	if len(entries) == 0 {
		return nil, model.FieldSupport{}, ErrEmptyFile
	}
	return entries, rowSupport(rows), nil
}

// sniffDelimiter picks the most frequent candidate delimiter on the header
// line, defaulting to a comma.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	delim, best := ',', bytes.Count(line, []byte(","))
	if n := bytes.Count(line, []byte(";")); n > best {
		delim, best = ';', n
	}
	if n := bytes.Count(line, []byte("\t")); n > best {
		delim = '\t'
	}
	return delim
}
