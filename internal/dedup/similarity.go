package dedup

// Blend weights for the similarity score. Tuned together with the thresholds
// in dedup.go; shared-vocabulary overlap dominates, character overlap breaks
// near-ties between similarly worded titles.
const (
	jaccardWeight = 0.6
	diceWeight    = 0.4
)

// similarity returns the blended similarity of two title signatures in [0,1].
// When the full-title score exceeds subtitleRescore, the pre-colon fragments
// are scored as well and the maximum is returned, recovering pairs where one
// side was truncated before a colon-delimited subtitle.
func similarity(a, b *titleSignature, subtitleRescore float64) float64 {
	full := blended(a.tokens, b.tokens, a.compact, b.compact)
	if full <= subtitleRescore {
		return full
	}
	if frag := blended(a.fragTokens, b.fragTokens, a.fragCompact, b.fragCompact); frag > full {
		return frag
	}
	return full
}

func blended(tokensA, tokensB map[string]struct{}, compactA, compactB string) float64 {
	return jaccardWeight*tokenJaccard(tokensA, tokensB) + diceWeight*bigramDice(compactA, compactB)
}

// tokenJaccard is intersection over union of the token sets, 0 when both are
// empty.
func tokenJaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// bigramDice is the Dice coefficient over the multisets of character bigrams
// of the two compact titles, 0 when either side is too short to have bigrams.
func bigramDice(a, b string) float64 {
	bigramsA := bigrams(a)
	bigramsB := bigrams(b)
	if len(bigramsA) == 0 || len(bigramsB) == 0 {
		return 0
	}

	totalA, totalB, intersection := 0, 0, 0
	for _, n := range bigramsA {
		totalA += n
	}
	for gram, n := range bigramsB {
		totalB += n
		if m := bigramsA[gram]; m > 0 {
			if m < n {
				intersection += m
			} else {
				intersection += n
			}
		}
	}

	return 2 * float64(intersection) / float64(totalA+totalB)
}

// bigrams returns the multiset of contiguous 2-rune substrings of s.
func bigrams(s string) map[string]int {
	rs := []rune(s)
	if len(rs) < 2 {
		return nil
	}
	grams := make(map[string]int, len(rs)-1)
	for i := 0; i+1 < len(rs); i++ {
		grams[string(rs[i:i+2])]++
	}
	return grams
}
