// Package textmatch turns free-text descriptions into comparable token sets
// and measures their overlap.
package textmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLen is the shortest token kept; shorter tokens are noise.
const minTokenLen = 3

// stopWords are articles, prepositions and payment jargon that carry no identity.
// Entries are stored already folded (lowercase, no accents).
var stopWords = map[string]struct{}{
	// English
	"the": {}, "and": {}, "for": {}, "from": {}, "with": {}, "via": {},
	"payment": {}, "invoice": {}, "transfer": {}, "reference": {}, "ref": {},
	"number": {}, "num": {},
	// Italian
	"del": {}, "dei": {}, "della": {}, "delle": {}, "dello": {}, "degli": {},
	"per": {}, "con": {}, "una": {}, "uno": {}, "gli": {}, "nel": {}, "nella": {},
	"pagamento": {}, "fattura": {}, "bonifico": {}, "rif": {}, "riferimento": {},
	"saldo": {}, "acconto": {},
}

// TokenSet is an unordered set of normalized tokens.
type TokenSet map[string]struct{}

// Has reports whether tok is in the set.
func (s TokenSet) Has(tok string) bool {
	_, ok := s[tok]
	return ok
}

// Tokens normalizes s into a set of comparable tokens: accents are folded,
// text is lowercased, punctuation becomes whitespace, and short tokens and
// stop words are dropped. An empty string yields an empty set.
func Tokens(s string) TokenSet {
	set := make(TokenSet)

	folded := fold(s)
	if folded == "" {
		return set
	}

	for _, tok := range strings.Fields(folded) {
		if utf8.RuneCountInString(tok) < minTokenLen {
			continue
		}

		if _, stop := stopWords[tok]; stop {
			continue
		}

		set[tok] = struct{}{}
	}

	return set
}

// fold lowercases s, strips diacritics and replaces every rune that is not a
// letter or digit with a space.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}

		return ' '
	}, out)
}
