package importer

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/refkit/refdup/internal/reference"
)

// risEntry accumulates tag values for one RIS record.
type risEntry struct {
	id      string
	title   string
	year    string
	doi     string
	pmid    string
	venue   string
	authors []string
	line    int // line the record started on, for error reporting
}

// ParseRIS parses an RIS export and returns references. Records start at a
// TY tag and end at ER; tags are the standard two-letter codes followed by
// "  - ". Records that fail to convert are reported individually and skipped.
func ParseRIS(data []byte) ([]reference.Reference, []error) {
	var refs []reference.Reference
	var errs []error

	var entry *risEntry
	flush := func() {
		if entry == nil {
			return
		}
		ref, err := entry.toReference()
		if err != nil {
			errs = append(errs, fmt.Errorf("record at line %d: %w", entry.line, err))
		} else {
			refs = append(refs, ref)
		}
		entry = nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) < 2 {
			continue
		}

		tag, value, ok := splitRISLine(line)
		if !ok {
			continue
		}

		if tag == "TY" {
			flush() // unterminated previous record
			entry = &risEntry{line: lineNum}
			continue
		}
		if entry == nil {
			continue
		}

		switch tag {
		case "ER":
			flush()
		case "TI", "T1":
			if entry.title == "" {
				entry.title = value
			}
		case "PY", "Y1":
			if entry.year == "" {
				entry.year = value
			}
		case "DO":
			entry.doi = value
		case "AN":
			entry.pmid = value
		case "ID":
			entry.id = value
		case "JO", "JF", "T2":
			if entry.venue == "" {
				entry.venue = value
			}
		case "AU", "A1":
			entry.authors = append(entry.authors, value)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("reading RIS data: %w", err))
	}

	return refs, errs
}

// splitRISLine splits "TI  - Some title" into tag and value.
func splitRISLine(line string) (tag, value string, ok bool) {
	if len(line) < 2 {
		return "", "", false
	}
	tag = line[:2]
	if tag != strings.ToUpper(tag) {
		return "", "", false
	}
	rest := line[2:]
	if rest == "" || strings.TrimSpace(rest) == "" {
		return tag, "", true // bare tags like "ER  -"
	}
	idx := strings.Index(rest, "- ")
	if idx < 0 {
		idx = strings.Index(rest, "-")
		if idx < 0 {
			return "", "", false
		}
		return tag, strings.TrimSpace(rest[idx+1:]), true
	}
	return tag, strings.TrimSpace(rest[idx+2:]), true
}

func (e *risEntry) toReference() (reference.Reference, error) {
	if e.title == "" && e.doi == "" && e.pmid == "" {
		return reference.Reference{}, fmt.Errorf("no title or identifier")
	}

	ref := reference.Reference{
		ID:     e.id,
		Title:  e.title,
		DOI:    e.doi,
		PMID:   e.pmid,
		Venue:  e.venue,
		Source: reference.ImportSource{Type: "ris", ID: e.id},
	}
	if ref.ID == "" {
		ref.ID = uuid.NewString()
	}

	if e.year != "" {
		// RIS years come as "2021" or "2021/05/01"; take the leading part.
		yearStr := e.year
		if slash := strings.Index(yearStr, "/"); slash >= 0 {
			yearStr = yearStr[:slash]
		}
		year, err := strconv.Atoi(strings.TrimSpace(yearStr))
		if err != nil {
			return reference.Reference{}, fmt.Errorf("invalid year %q", e.year)
		}
		ref.Year = &year
	}

	for _, name := range e.authors {
		// RIS authors are "Last, First".
		if comma := strings.Index(name, ","); comma >= 0 {
			ref.Authors = append(ref.Authors, reference.Author{
				Last:  strings.TrimSpace(name[:comma]),
				First: strings.TrimSpace(name[comma+1:]),
			})
		} else {
			ref.Authors = append(ref.Authors, reference.Author{Last: strings.TrimSpace(name)})
		}
	}

	return ref, nil
}
