package timetable

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Abbreviate shortens a lesson name for tight layouts. Names with an
// explicit abbreviation use it; names longer than three words collapse to
// their upper-cased initials; anything else is returned unchanged.
func (t *Timetable) Abbreviate(name string) string {
	if name == "" {
		return ""
	}
	if abbr, ok := t.Abbreviations[name]; ok {
		return abbr
	}

	words := strings.Split(name, " ")
	if len(words) <= 3 {
		return name
	}

	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
