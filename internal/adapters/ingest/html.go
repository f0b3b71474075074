package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/model"
	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/normalize"
)

// parseHTML extracts the first table of a results page. The first row with
// cells is the header; every later row becomes an entry. Header matching is
// the same variant table the tabular path uses.
func parseHTML(data []byte, source string) ([]model.RawEntry, model.FieldSupport, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, model.FieldSupport{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, model.FieldSupport{}, ErrNoTable
	}

	var header []string
	var entries []model.RawEntry
	var rows []normalize.Row
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) == 0 {
			return
		}
		if header == nil {
			header = cells
			return
		}
		nr := normalize.NewRow(header, cells)
		rows = append(rows, nr)
		entries = append(entries, normalize.Entry(nr, source))
	})

	if header == nil {
		return nil, model.FieldSupport{}, ErrNoTable
	}
	if !hasIdentity(header) {
		return nil, model.FieldSupport{}, ErrMissingIdentity
	}
	if len(entries) == 0 {
		return nil, model.FieldSupport{}, ErrEmptyFile
	}
	return entries, rowSupport(rows), nil
}
