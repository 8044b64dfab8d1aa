package storage

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/refkit/refdup/internal/reference"
)

func testRefs() []reference.Reference {
	return []reference.Reference{
		{
			ID:    "Smith2021-ab",
			Title: "Machine Learning in Biology",
			Year:  reference.YearOf(2021),
			DOI:   "10.1234/smith",
			Venue: "Nature",
			Authors: []reference.Author{
				{First: "John", Last: "Smith", ORCID: "0000-0001-2345-6789"},
				{First: "Jane", Last: "Doe"},
			},
			Source: reference.ImportSource{Type: "csv", ID: "row-1"},
		},
		{
			ID:    "Jones2020-cd",
			Title: "Deep Learning for Protein Structure",
			Year:  reference.YearOf(2020),
			PMID:  "12345678",
			Authors: []reference.Author{
				{First: "Alice", Last: "Jones"},
			},
			Source: reference.ImportSource{Type: "ris", ID: "jones-1"},
		},
		{
			ID:     "Brown-undated",
			Title:  "Statistical Methods in Genomics",
			Source: reference.ImportSource{Type: "manual"},
		},
	}
}

func TestReadAll_MissingFile(t *testing.T) {
	refs, err := ReadAll(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if refs != nil {
		t.Errorf("ReadAll() = %v, want nil for missing file", refs)
	}
}

func TestWriteAllReadAll_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.jsonl")
	want := testRefs()

	if err := WriteAll(path, want); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %v\nwant %v", got, want)
	}

	// Optional year survives: present on the first record, absent on the last.
	if got[0].Year == nil || *got[0].Year != 2021 {
		t.Errorf("got[0].Year = %v, want 2021", got[0].Year)
	}
	if got[2].Year != nil {
		t.Errorf("got[2].Year = %v, want nil", *got[2].Year)
	}
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.jsonl")
	refs := testRefs()

	for _, ref := range refs {
		if err := Append(path, ref); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != len(refs) {
		t.Errorf("got %d references, want %d", len(got), len(refs))
	}
}
