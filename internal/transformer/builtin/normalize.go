package builtin

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"census/pkg/records"
)

// Normalize cleans display text in place: NFKC folding (which also turns
// non-breaking spaces into plain ones), whitespace trimming, and optionally
// title-casing. Only string values are touched; nil stays nil.
//
// Title case capitalizes every cased letter that follows an uncased rune and
// lowercases the rest, so initials and particles keep their capitals:
// "y.s.r." becomes "Y.S.R.", "o'brien" becomes "O'Brien" and "StateA"
// becomes "Statea".
type Normalize struct {
	Fields []string
	Title  bool
}

func (n Normalize) Apply(in []records.Record) ([]records.Record, error) {
	// cases.Caser keeps state between calls and is not safe for concurrent use.
	var caser cases.Caser
	if n.Title {
		caser = cases.Title(language.Und)
	}
	for _, r := range in {
		for _, f := range n.Fields {
			s, ok := r[f].(string)
			if !ok {
				continue
			}
			r[f] = n.clean(s, caser)
		}
	}
	return in, nil
}

func (n Normalize) clean(s string, caser cases.Caser) string {
	s = strings.TrimSpace(norm.NFKC.String(s))
	if n.Title {
		s = wordStarts(caser.String(s))
	}
	return s
}

// wordStarts upper-cases each cased letter whose predecessor is uncased and
// lower-cases the others. The caser alone keeps letters after an apostrophe
// or a period lower case.
func wordStarts(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		switch {
		case cased && !prevCased:
			r = unicode.ToTitle(r)
		case cased:
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
		prevCased = cased
	}
	return b.String()
}

// TitleText is the single-value form of Normalize{Title: true}.
func TitleText(s string) string {
	return Normalize{Title: true}.clean(s, cases.Title(language.Und))
}
