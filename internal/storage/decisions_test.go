package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestAppendDecision_CanonicalizesPair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")

	d := Decision{
		PrimaryID:   "zzz",
		DuplicateID: "aaa",
		Verdict:     VerdictDuplicate,
		Note:        "same preprint",
		DecidedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := AppendDecision(path, d); err != nil {
		t.Fatalf("AppendDecision() error = %v", err)
	}

	got, err := ReadAllDecisions(path)
	if err != nil {
		t.Fatalf("ReadAllDecisions() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d decisions, want 1", len(got))
	}
	if got[0].PrimaryID != "aaa" || got[0].DuplicateID != "zzz" {
		t.Errorf("pair = (%s, %s), want canonical (aaa, zzz)", got[0].PrimaryID, got[0].DuplicateID)
	}
	if got[0].Verdict != VerdictDuplicate {
		t.Errorf("verdict = %q, want %q", got[0].Verdict, VerdictDuplicate)
	}
}

func TestReadAllDecisions_MissingFile(t *testing.T) {
	got, err := ReadAllDecisions(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("ReadAllDecisions() error = %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil for missing file", got)
	}
}

func TestAppendDecision_Multiple(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")

	decisions := []Decision{
		{PrimaryID: "a", DuplicateID: "b", Verdict: VerdictDuplicate, DecidedAt: time.Now().UTC()},
		{PrimaryID: "a", DuplicateID: "c", Verdict: VerdictDistinct, DecidedAt: time.Now().UTC()},
	}
	for _, d := range decisions {
		if err := AppendDecision(path, d); err != nil {
			t.Fatalf("AppendDecision() error = %v", err)
		}
	}

	got, err := ReadAllDecisions(path)
	if err != nil {
		t.Fatalf("ReadAllDecisions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d decisions, want 2", len(got))
	}
	if got[1].Verdict != VerdictDistinct {
		t.Errorf("second verdict = %q, want %q", got[1].Verdict, VerdictDistinct)
	}
}
