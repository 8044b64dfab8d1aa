package dedup

import (
	"math"
	"testing"

	"github.com/refkit/refdup/internal/reference"
)

func mustSignature(t *testing.T, id, title string) *titleSignature {
	t.Helper()
	sig, ok := buildSignature(reference.Reference{ID: id, Title: title}, true)
	if !ok {
		t.Fatalf("buildSignature(%q) ok = false", title)
	}
	return sig
}

func TestTokenJaccard(t *testing.T) {
	set := func(words ...string) map[string]struct{} {
		s := make(map[string]struct{}, len(words))
		for _, w := range words {
			s[w] = struct{}{}
		}
		return s
	}

	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{name: "both empty", a: set(), b: set(), want: 0},
		{name: "one empty", a: set("protein"), b: set(), want: 0},
		{name: "identical", a: set("protein", "folding"), b: set("protein", "folding"), want: 1},
		{name: "disjoint", a: set("protein"), b: set("folding"), want: 0},
		{name: "half overlap", a: set("protein", "folding"), b: set("protein", "dynamics"), want: 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenJaccard(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("tokenJaccard() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBigramDice(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "protein", b: "protein", want: 1},
		{name: "empty side", a: "protein", b: "", want: 0},
		{name: "single rune has no bigrams", a: "protein", b: "p", want: 0},
		{name: "disjoint", a: "abab", b: "cdcd", want: 0},
		// "night" and "nacht": bigrams {ni,ig,gh,ht} vs {na,ac,ch,ht},
		// one shared bigram out of 4+4.
		{name: "partial overlap", a: "night", b: "nacht", want: 2.0 / 8.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bigramDice(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("bigramDice(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestBigramDice_Multiset(t *testing.T) {
	// "aaa" has bigram aa twice, "aa" once: Dice = 2*1/(2+1).
	if got, want := bigramDice("aaa", "aa"), 2.0/3.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("bigramDice(\"aaa\", \"aa\") = %v, want %v", got, want)
	}
}

func TestSimilarity_IdenticalTitles(t *testing.T) {
	a := mustSignature(t, "a", "Deep learning for protein structure prediction")
	b := mustSignature(t, "b", "Deep learning for protein structure prediction")
	if got := similarity(a, b, DefaultSubtitleRescoreThreshold); got != 1 {
		t.Errorf("similarity(identical) = %v, want 1", got)
	}
}

func TestSimilarity_Range(t *testing.T) {
	titles := []string{
		"Deep learning for protein structure prediction",
		"Protein structure prediction with deep learning",
		"A survey of reinforcement learning",
		"Cats",
	}
	for _, ta := range titles {
		for _, tb := range titles {
			a := mustSignature(t, "a", ta)
			b := mustSignature(t, "b", tb)
			got := similarity(a, b, DefaultSubtitleRescoreThreshold)
			if got < 0 || got > 1 {
				t.Errorf("similarity(%q, %q) = %v, outside [0,1]", ta, tb, got)
			}
		}
	}
}

func TestSimilarity_SubtitleRescore(t *testing.T) {
	// The full-title scores differ only by a dropped article, putting them
	// above the activation threshold; the pre-colon fragments are identical,
	// so the re-score lifts the result to 1.
	a := mustSignature(t, "a", "Protein structure prediction: a comprehensive survey")
	b := mustSignature(t, "b", "Protein structure prediction: comprehensive survey")

	full := blended(a.tokens, b.tokens, a.compact, b.compact)
	if full <= DefaultSubtitleRescoreThreshold {
		t.Fatalf("fixture full-title score %v does not exceed activation threshold", full)
	}
	if got := similarity(a, b, DefaultSubtitleRescoreThreshold); got != 1 {
		t.Errorf("similarity() = %v, want 1 from fragment re-score", got)
	}
}

func TestSimilarity_RescoreInactiveBelowThreshold(t *testing.T) {
	// Same pre-colon fragment but very different subtitles: the full score
	// stays below the activation threshold, so the fragment score must not
	// be consulted.
	a := mustSignature(t, "a", "Protein folding: molecular dynamics simulations at scale")
	b := mustSignature(t, "b", "Protein folding: clinical outcomes in elderly patients")

	full := blended(a.tokens, b.tokens, a.compact, b.compact)
	if full > DefaultSubtitleRescoreThreshold {
		t.Fatalf("fixture full-title score %v unexpectedly exceeds activation threshold", full)
	}
	if got := similarity(a, b, DefaultSubtitleRescoreThreshold); got != full {
		t.Errorf("similarity() = %v, want full-title score %v", got, full)
	}
}
