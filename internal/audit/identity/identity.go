package identity

import "strings"

// NoKey is the sentinel produced for empty or missing identifiers.
// Rows carrying it never match anything in a join; the consolidator
// excludes them from enrichment sources so they surface unmatched on
// the driver side only.
const NoKey = "SINNIF"

// keyLength is the length of a standard national identifier
// (8 digits + control letter).
const keyLength = 9

// Normalize canonicalizes a raw identifier into the unified join key:
// every non-alphanumeric character is stripped, the rest uppercased and
// only the last 9 characters kept, so "016.095.080-w" and "16095080W"
// produce the same key. Normalizing an already-normalized key returns
// it unchanged.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	s := strings.ToUpper(b.String())
	if s == "" {
		return NoKey
	}
	if len(s) > keyLength {
		s = s[len(s)-keyLength:]
	}
	return s
}
