package dedup

import (
	"sort"

	"github.com/refkit/refdup/internal/reference"
)

// pairEvidence is one raw signal that two references may be duplicates.
// Pairs are not yet canonicalized here; the aggregator owns that.
type pairEvidence struct {
	idA, idB   string
	reason     Reason
	similarity float64
	scored     bool // true when similarity carries a title score
}

// identifierPairs groups references by their normalized identifier value and
// emits every unordered pair within each group of two or more. Grouping is
// O(n); the per-group pair scan is quadratic but identifier collisions keep
// groups small.
func identifierPairs(refs []reference.Reference, reason Reason,
	value func(reference.Reference) string, normalize func(string) (string, bool)) []pairEvidence {

	groups := make(map[string][]string)
	for _, ref := range refs {
		raw := value(ref)
		if raw == "" {
			continue
		}
		key, ok := normalize(raw)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], ref.ID)
	}

	var pairs []pairEvidence
	for _, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if ids[i] == ids[j] {
					continue
				}
				pairs = append(pairs, pairEvidence{idA: ids[i], idB: ids[j], reason: reason})
			}
		}
	}
	return pairs
}

// titleYearPairs builds a signature per titled reference, buckets signatures
// by year to bound the quadratic comparison, and emits a scored pair for
// every comparable combination whose similarity clears the threshold.
//
// Exact-year buckets are a grouping optimization, not a tolerance boundary:
// with a nonzero tolerance, buckets within range of each other are compared
// too, otherwise the tolerance setting would never fire across years.
func titleYearPairs(refs []reference.Reference, opts Options) []pairEvidence {
	buckets := make(map[int][]*titleSignature)
	var undated []*titleSignature
	for _, ref := range refs {
		sig, ok := buildSignature(ref, opts.NormalizeSpelling)
		if !ok {
			continue
		}
		if ref.Year == nil {
			if !opts.RequireYearMatch {
				undated = append(undated, sig)
			}
			continue
		}
		buckets[*ref.Year] = append(buckets[*ref.Year], sig)
	}

	years := make([]int, 0, len(buckets))
	for y := range buckets {
		years = append(years, y)
	}
	sort.Ints(years)

	var pairs []pairEvidence
	emit := func(a, b *titleSignature) {
		if a.ref.ID == b.ref.ID {
			return
		}
		if !isYearMatch(a.ref.Year, b.ref.Year, opts) {
			return
		}
		score := similarity(a, b, opts.SubtitleRescoreThreshold)
		if score < opts.TitleSimilarityThreshold {
			return
		}
		pairs = append(pairs, pairEvidence{
			idA:        a.ref.ID,
			idB:        b.ref.ID,
			reason:     ReasonTitleYear,
			similarity: score,
			scored:     true,
		})
	}

	for i, year := range years {
		sigs := buckets[year]
		for a := 0; a < len(sigs); a++ {
			for b := a + 1; b < len(sigs); b++ {
				emit(sigs[a], sigs[b])
			}
		}
		for j := i + 1; j < len(years) && years[j]-year <= opts.YearTolerance; j++ {
			for _, sa := range sigs {
				for _, sb := range buckets[years[j]] {
					emit(sa, sb)
				}
			}
		}
	}

	// Undated signatures are only collected when year matching is not
	// required; they compare against each other and every dated bucket.
	for a := 0; a < len(undated); a++ {
		for b := a + 1; b < len(undated); b++ {
			emit(undated[a], undated[b])
		}
		for _, year := range years {
			for _, sb := range buckets[year] {
				emit(undated[a], sb)
			}
		}
	}

	return pairs
}

// isYearMatch reports whether two optional years are close enough to compare.
// Both present: within tolerance. Either missing: only when year matching is
// not required.
func isYearMatch(a, b *int, opts Options) bool {
	if a != nil && b != nil {
		diff := *a - *b
		if diff < 0 {
			diff = -diff
		}
		return diff <= opts.YearTolerance
	}
	return !opts.RequireYearMatch
}
