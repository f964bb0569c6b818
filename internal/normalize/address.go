package normalize

import (
	"regexp"
	"strings"
)

// addressSub is one whole-word substitution pass. Patterns are compiled once
// and match full words only, so the passes are disjoint and their order does
// not change the result.
type addressSub struct {
	re     *regexp.Regexp
	abbrev string
}

var addressSubs = buildAddressSubs(map[string][]string{
	"St":   {"street", "st"},
	"Ave":  {"avenue", "ave"},
	"Blvd": {"boulevard", "blvd"},
	"Dr":   {"drive", "dr"},
	"Ln":   {"lane", "ln"},
	"Rd":   {"road", "rd"},
	"Ct":   {"court", "ct"},
	"Cir":  {"circle", "cir"},
	"Pl":   {"place", "pl"},
	"Ter":  {"terrace", "ter"},
	"Pkwy": {"parkway", "pkwy"},
	"Hwy":  {"highway", "hwy"},
	"Apt":  {"apartment", "apt"},
	"Ste":  {"suite", "ste"},
	"N":    {"north"},
	"S":    {"south"},
	"E":    {"east"},
	"W":    {"west"},
	"NE":   {"northeast"},
	"NW":   {"northwest"},
	"SE":   {"southeast"},
	"SW":   {"southwest"},
})

// A trailing period on an alias is consumed by the pattern.
func buildAddressSubs(table map[string][]string) []addressSub {
	subs := make([]addressSub, 0, len(table))
	for abbrev, aliases := range table {
		pattern := `(?i)\b(?:` + strings.Join(aliases, "|") + `)\b\.?`
		subs = append(subs, addressSub{
			re:     regexp.MustCompile(pattern),
			abbrev: abbrev,
		})
	}
	return subs
}

// Address trims the input and replaces whole-word street designators and
// directionals with their standard abbreviations. Best-effort: adversarial
// street names that collide with designator words are not special-cased.
func Address(raw string) string {
	addr := whitespaceRe.ReplaceAllString(strings.TrimSpace(raw), " ")
	for _, sub := range addressSubs {
		addr = sub.re.ReplaceAllString(addr, sub.abbrev)
	}
	return addr
}
