// Package importer provides functions to import references from external formats.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/refkit/refdup/internal/reference"
)

// ParseCSV parses a CSV export with a header row and returns references.
// Recognized columns (case-insensitive): id, title, year, doi, pmid, venue,
// authors. Unknown columns are ignored; rows that fail to convert are
// reported individually and skipped.
func ParseCSV(data []byte) ([]reference.Reference, []error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // tolerate ragged rows
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("reading CSV header: %w", err)}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["title"]; !ok {
		if _, doi := cols["doi"]; !doi {
			if _, pmid := cols["pmid"]; !pmid {
				return nil, []error{fmt.Errorf("CSV header has none of title, doi, pmid columns")}
			}
		}
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var refs []reference.Reference
	var errs []error

	rowNum := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", rowNum, err))
			continue
		}

		ref := reference.Reference{
			ID:     field(row, "id"),
			Title:  field(row, "title"),
			DOI:    field(row, "doi"),
			PMID:   field(row, "pmid"),
			Venue:  field(row, "venue"),
			Source: reference.ImportSource{Type: "csv", ID: field(row, "id")},
		}

		if yearStr := field(row, "year"); yearStr != "" {
			year, err := strconv.Atoi(yearStr)
			if err != nil {
				errs = append(errs, fmt.Errorf("row %d: invalid year %q", rowNum, yearStr))
				continue
			}
			ref.Year = &year
		}

		ref.Authors = parseAuthors(field(row, "authors"))

		if ref.Title == "" && ref.DOI == "" && ref.PMID == "" {
			errs = append(errs, fmt.Errorf("row %d: no title or identifier", rowNum))
			continue
		}
		if ref.ID == "" {
			ref.ID = uuid.NewString()
		}

		refs = append(refs, ref)
	}

	return refs, errs
}

// parseAuthors splits a semicolon-separated author list. Each entry is either
// "Last, First" or "First Last".
func parseAuthors(s string) []reference.Author {
	if s == "" {
		return nil
	}

	var authors []reference.Author
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if comma := strings.Index(entry, ","); comma >= 0 {
			authors = append(authors, reference.Author{
				Last:  strings.TrimSpace(entry[:comma]),
				First: strings.TrimSpace(entry[comma+1:]),
			})
			continue
		}
		if space := strings.LastIndex(entry, " "); space >= 0 {
			authors = append(authors, reference.Author{
				First: strings.TrimSpace(entry[:space]),
				Last:  strings.TrimSpace(entry[space+1:]),
			})
			continue
		}
		authors = append(authors, reference.Author{Last: entry})
	}
	return authors
}
