// Package reference defines the core domain types for bibliographic records.
package reference

// Reference represents one imported bibliographic record. The deduplication
// engine treats references as read-only input.
type Reference struct {
	// Identity
	ID string `json:"id"` // Internal stable identifier

	// Metadata
	Title   string   `json:"title"`          // May be empty; such records are skipped by title matching
	Year    *int     `json:"year,omitempty"` // Publication year, nil when the source had none
	Venue   string   `json:"venue,omitempty"`
	Authors []Author `json:"authors,omitempty"`

	// External identifiers (strong duplicate signals when present)
	DOI  string `json:"doi,omitempty"`
	PMID string `json:"pmid,omitempty"`

	// Import tracking
	Source ImportSource `json:"source"`
}

// Author represents an author with optional ORCID identifier.
type Author struct {
	First string `json:"first,omitempty"` // First/given name(s)
	Last  string `json:"last"`            // Last/family name
	ORCID string `json:"orcid,omitempty"` // ORCID identifier (without URL prefix)
}

// ImportSource tracks where a reference was imported from.
type ImportSource struct {
	Type string `json:"type"` // csv, ris, manual
	ID   string `json:"id"`   // Original ID from the source file, if any
}

// YearOf returns a pointer to y, for building references with a known year.
func YearOf(y int) *int {
	return &y
}
