// Package dedup implements duplicate detection over bibliographic references:
// identifier normalization, title-similarity scoring, and pairwise candidate
// generation bounded by identifier and year grouping.
//
// The engine is a pure, synchronous computation over an in-memory snapshot. It
// proposes candidate pairs with evidence; resolving or merging them is the
// caller's business.
package dedup

import (
	"github.com/refkit/refdup/internal/reference"
)

// Tuned constants, validated against a labeled duplicate corpus. Keep as-is
// unless re-validated against an equivalent dataset.
const (
	// DefaultTitleSimilarityThreshold is the minimum blended similarity for a
	// title/year candidate pair.
	DefaultTitleSimilarityThreshold = 0.86

	// DefaultSubtitleRescoreThreshold is the full-title score above which the
	// pre-subtitle fragments are re-scored and the maximum taken.
	DefaultSubtitleRescoreThreshold = 0.95
)

// Options control a single deduplication run. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// TitleSimilarityThreshold is the minimum blended similarity, in [0,1],
	// for two titles to be flagged.
	TitleSimilarityThreshold float64

	// RequireYearMatch excludes references without a year from title matching.
	// When false, undated references are compared against everything.
	RequireYearMatch bool

	// YearTolerance is the maximum absolute year difference, in years, for
	// two dated references to be considered comparable.
	YearTolerance int

	// NormalizeSpelling rewrites British spelling variants to American ones
	// before comparison.
	NormalizeSpelling bool

	// SubtitleRescoreThreshold overrides DefaultSubtitleRescoreThreshold.
	// Zero or negative values fall back to the default.
	SubtitleRescoreThreshold float64
}

// DefaultOptions returns the standard run configuration.
func DefaultOptions() Options {
	return Options{
		TitleSimilarityThreshold: DefaultTitleSimilarityThreshold,
		RequireYearMatch:         true,
		YearTolerance:            0,
		NormalizeSpelling:        true,
		SubtitleRescoreThreshold: DefaultSubtitleRescoreThreshold,
	}
}

// clamped returns a defensively corrected copy of o. Out-of-range values are
// expected to be rejected at the configuration boundary; clamping here keeps
// the engine total on whatever slips through.
func (o Options) clamped() Options {
	if o.TitleSimilarityThreshold < 0 {
		o.TitleSimilarityThreshold = 0
	}
	if o.TitleSimilarityThreshold > 1 {
		o.TitleSimilarityThreshold = 1
	}
	if o.YearTolerance < 0 {
		o.YearTolerance = 0
	}
	if o.SubtitleRescoreThreshold <= 0 {
		o.SubtitleRescoreThreshold = DefaultSubtitleRescoreThreshold
	}
	return o
}

// Reason identifies the signal that flagged a candidate pair.
type Reason string

// Candidate pair reasons.
const (
	ReasonDOI       Reason = "doi"
	ReasonPMID      Reason = "pmid"
	ReasonTitleYear Reason = "title_year"
)

// Match is one proposed duplicate pair, canonicalized so that
// PrimaryID <= DuplicateID. Reasons holds every independent signal that
// flagged the pair; TitleSimilarity is set iff a title/year signal
// contributed, and holds the maximum similarity observed.
type Match struct {
	PrimaryID       string   `json:"primary_id"`
	DuplicateID     string   `json:"duplicate_id"`
	Reasons         []Reason `json:"reasons"`
	TitleSimilarity *float64 `json:"title_similarity,omitempty"`
}

// Run scans refs for likely duplicates and returns one match per unordered
// pair, sorted ascending by (primary, duplicate) id. The input is never
// mutated, and identical input produces identical output. An empty result is
// a normal outcome, not an error.
func Run(refs []reference.Reference, opts Options) []Match {
	opts = opts.clamped()

	var evidence []pairEvidence
	evidence = append(evidence, identifierPairs(refs, ReasonDOI,
		func(r reference.Reference) string { return r.DOI }, NormalizeDOI)...)
	evidence = append(evidence, identifierPairs(refs, ReasonPMID,
		func(r reference.Reference) string { return r.PMID }, NormalizePMID)...)
	evidence = append(evidence, titleYearPairs(refs, opts)...)

	return aggregate(evidence)
}
