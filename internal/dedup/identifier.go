package dedup

import "strings"

// URL prefixes stripped from DOI strings, matched case-insensitively after
// lowercasing.
var doiURLPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
}

// NormalizeDOI canonicalizes a raw DOI string into a comparison key.
// "DOI:10.1234/X", "https://doi.org/10.1234/x" and " 10.1234/x. " all
// normalize to "10.1234/x". Returns false when nothing usable remains.
func NormalizeDOI(raw string) (string, bool) {
	doi := strings.ToLower(strings.TrimSpace(raw))
	doi = strings.TrimPrefix(doi, "doi:")
	doi = strings.TrimSpace(doi)
	for _, prefix := range doiURLPrefixes {
		if strings.HasPrefix(doi, prefix) {
			doi = doi[len(prefix):]
			break
		}
	}
	doi = strings.TrimRight(doi, ".,")
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return "", false
	}
	return doi, true
}

// NormalizePMID canonicalizes a raw PMID string by keeping only its decimal
// digits, so "PMID: 123", "pmid:123" and "  123  " normalize identically.
// Returns false when the string contains no digits.
func NormalizePMID(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}
