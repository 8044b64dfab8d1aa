package dedup

import (
	"reflect"
	"testing"
)

func TestAggregate_CanonicalizesAndMerges(t *testing.T) {
	evidence := []pairEvidence{
		{idA: "B", idB: "A", reason: ReasonDOI},
		{idA: "A", idB: "B", reason: ReasonTitleYear, similarity: 0.9, scored: true},
		{idA: "B", idB: "A", reason: ReasonTitleYear, similarity: 0.95, scored: true},
		{idA: "A", idB: "B", reason: ReasonDOI}, // repeat signal collapses
	}

	matches := aggregate(evidence)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	m := matches[0]
	if m.PrimaryID != "A" || m.DuplicateID != "B" {
		t.Errorf("pair = (%s, %s), want (A, B)", m.PrimaryID, m.DuplicateID)
	}
	if want := []Reason{ReasonDOI, ReasonTitleYear}; !reflect.DeepEqual(m.Reasons, want) {
		t.Errorf("reasons = %v, want %v", m.Reasons, want)
	}
	if m.TitleSimilarity == nil || *m.TitleSimilarity != 0.95 {
		t.Errorf("title similarity = %v, want max 0.95", m.TitleSimilarity)
	}
}

func TestAggregate_DropsSelfPairs(t *testing.T) {
	matches := aggregate([]pairEvidence{{idA: "A", idB: "A", reason: ReasonDOI}})
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}

func TestAggregate_NoSimilarityWithoutTitleSignal(t *testing.T) {
	matches := aggregate([]pairEvidence{{idA: "A", idB: "B", reason: ReasonPMID}})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].TitleSimilarity != nil {
		t.Errorf("title similarity = %v, want nil", *matches[0].TitleSimilarity)
	}
}

func TestAggregate_SortedOutput(t *testing.T) {
	evidence := []pairEvidence{
		{idA: "C", idB: "B", reason: ReasonDOI},
		{idA: "A", idB: "C", reason: ReasonDOI},
		{idA: "B", idB: "A", reason: ReasonDOI},
	}

	matches := aggregate(evidence)
	wantPairs := [][2]string{{"A", "B"}, {"A", "C"}, {"B", "C"}}
	if len(matches) != len(wantPairs) {
		t.Fatalf("got %d matches, want %d", len(matches), len(wantPairs))
	}
	for i, m := range matches {
		if m.PrimaryID != wantPairs[i][0] || m.DuplicateID != wantPairs[i][1] {
			t.Errorf("match %d = (%s, %s), want (%s, %s)",
				i, m.PrimaryID, m.DuplicateID, wantPairs[i][0], wantPairs[i][1])
		}
	}
}
