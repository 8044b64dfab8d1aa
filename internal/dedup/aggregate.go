package dedup

import "sort"

// pairKey is a canonical unordered id pair: primary <= duplicate.
type pairKey struct {
	primary, duplicate string
}

// reasonRank fixes the display order of reasons within a match.
var reasonRank = map[Reason]int{
	ReasonDOI:       0,
	ReasonPMID:      1,
	ReasonTitleYear: 2,
}

// aggregate folds raw pair evidence into one match per canonical id pair.
// Reasons accumulate as a set; the stored similarity is the maximum seen.
// Self-pairs are dropped. The result is sorted ascending by
// (primary, duplicate) so output is deterministic regardless of evidence
// order.
func aggregate(evidence []pairEvidence) []Match {
	merged := make(map[pairKey]*Match)
	for _, ev := range evidence {
		if ev.idA == ev.idB {
			continue
		}
		key := pairKey{primary: ev.idA, duplicate: ev.idB}
		if key.duplicate < key.primary {
			key.primary, key.duplicate = key.duplicate, key.primary
		}

		m := merged[key]
		if m == nil {
			m = &Match{PrimaryID: key.primary, DuplicateID: key.duplicate}
			merged[key] = m
		}
		if !hasReason(m.Reasons, ev.reason) {
			m.Reasons = append(m.Reasons, ev.reason)
		}
		if ev.scored && (m.TitleSimilarity == nil || ev.similarity > *m.TitleSimilarity) {
			score := ev.similarity
			m.TitleSimilarity = &score
		}
	}

	matches := make([]Match, 0, len(merged))
	for _, m := range merged {
		sort.Slice(m.Reasons, func(i, j int) bool {
			return reasonRank[m.Reasons[i]] < reasonRank[m.Reasons[j]]
		})
		matches = append(matches, *m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].PrimaryID != matches[j].PrimaryID {
			return matches[i].PrimaryID < matches[j].PrimaryID
		}
		return matches[i].DuplicateID < matches[j].DuplicateID
	})
	return matches
}

func hasReason(reasons []Reason, r Reason) bool {
	for _, existing := range reasons {
		if existing == r {
			return true
		}
	}
	return false
}
