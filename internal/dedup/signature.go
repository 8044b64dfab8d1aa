package dedup

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/refkit/refdup/internal/reference"
)

// stopWords are dropped from token sets before comparison: articles,
// conjunctions, common prepositions and forms of "to be". Two-letter words
// never reach this set because of the length filter.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "nor": {}, "but": {}, "yet": {},
	"with": {}, "from": {}, "into": {}, "onto": {}, "upon": {}, "over": {},
	"under": {}, "about": {}, "after": {}, "before": {}, "between": {},
	"among": {}, "during": {}, "through": {}, "via": {},
	"are": {}, "was": {}, "were": {}, "been": {}, "being": {},
}

// spellingVariants maps British academic/medical spellings to American ones.
// Applied as ordered substring rewrites on the lowercased title, so entries
// also cover their inflections (behaviour -> behavior covers behavioural).
// Entries must not overlap each other.
var spellingVariants = [][2]string{
	{"anaemia", "anemia"},
	{"anaesthe", "anesthe"},
	{"analyse", "analyze"},
	{"behaviour", "behavior"},
	{"catalogue", "catalog"},
	{"categoris", "categoriz"},
	{"centre", "center"},
	{"characteris", "characteriz"},
	{"colour", "color"},
	{"counselling", "counseling"},
	{"diarrhoea", "diarrhea"},
	{"favour", "favor"},
	{"foetal", "fetal"},
	{"generalis", "generaliz"},
	{"gynaecolog", "gynecolog"},
	{"haemoglobin", "hemoglobin"},
	{"haemorrhag", "hemorrhag"},
	{"hospitalis", "hospitaliz"},
	{"immunis", "immuniz"},
	{"labelling", "labeling"},
	{"labour", "labor"},
	{"leukaemia", "leukemia"},
	{"litre", "liter"},
	{"localis", "localiz"},
	{"metre", "meter"},
	{"minimis", "minimiz"},
	{"modelling", "modeling"},
	{"oedema", "edema"},
	{"oesophag", "esophag"},
	{"optimis", "optimiz"},
	{"organis", "organiz"},
	{"orthopaedic", "orthopedic"},
	{"paediatric", "pediatric"},
	{"programme", "program"},
	{"randomis", "randomiz"},
	{"signalling", "signaling"},
	{"standardis", "standardiz"},
	{"tumour", "tumor"},
	{"utilis", "utiliz"},
}

// diacriticFolder decomposes to NFD and strips combining marks, folding
// accented Latin letters to their base letter (é -> e) before tokenization.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// titleSignature is the derived comparison form of one reference title.
// Built once per reference per run; never exposed outside the engine.
type titleSignature struct {
	ref        reference.Reference
	normalized string              // lowercased, punctuation collapsed to spaces
	tokens     map[string]struct{} // significant tokens (len > 2, stop words removed)
	compact    string              // normalized title with spaces stripped, for bigrams

	// Pre-colon fragment forms of the original title, used for the
	// subtitle-aware re-score. Identical to the full forms when the title has
	// no colon.
	fragTokens  map[string]struct{}
	fragCompact string
}

// buildSignature derives a title signature for ref. Returns false for
// empty/whitespace titles, which are excluded from title matching but remain
// eligible for identifier-based pairing.
func buildSignature(ref reference.Reference, normalizeSpelling bool) (*titleSignature, bool) {
	title := strings.TrimSpace(ref.Title)
	if title == "" {
		return nil, false
	}

	normalized, tokens, compact := normalizeTitle(title, normalizeSpelling)
	sig := &titleSignature{
		ref:         ref,
		normalized:  normalized,
		tokens:      tokens,
		compact:     compact,
		fragTokens:  tokens,
		fragCompact: compact,
	}

	if idx := strings.Index(title, ":"); idx > 0 {
		_, fragTokens, fragCompact := normalizeTitle(title[:idx], normalizeSpelling)
		sig.fragTokens = fragTokens
		sig.fragCompact = fragCompact
	}

	return sig, true
}

// normalizeTitle runs the full normalization pipeline on a raw title or title
// fragment: case fold, optional spelling rewrite, diacritic fold, punctuation
// collapse, tokenization, compaction.
func normalizeTitle(title string, normalizeSpelling bool) (normalized string, tokens map[string]struct{}, compact string) {
	s := strings.ToLower(title)

	if normalizeSpelling {
		for _, pair := range spellingVariants {
			s = strings.ReplaceAll(s, pair[0], pair[1])
		}
	}

	s = foldDiacritics(s)

	// Replace every non-alphanumeric run with a single space and trim.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	normalized = strings.Join(fields, " ")

	tokens = make(map[string]struct{})
	for _, tok := range fields {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens[tok] = struct{}{}
	}

	compact = strings.Join(fields, "")
	return normalized, tokens, compact
}

func foldDiacritics(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return folded
}
