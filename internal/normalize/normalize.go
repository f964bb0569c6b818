// Package normalize canonicalizes raw import cell values. Every function is
// total: malformed input produces a documented fallback or an empty result,
// never an error, so a single bad cell cannot abort an import batch.
// Data-quality reporting belongs to the validation layer, not here.
package normalize

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonDigitRe    = regexp.MustCompile(`\D`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	currencyRunes = strings.NewReplacer("$", "", ",", "", " ", "", "\t", "")
)

// Phone strips formatting and returns an E.164-style number.
// Ten digits get a "+1" prefix, eleven digits starting with 1 get "+",
// any other non-empty digit string gets "+". Empty input returns "".
func Phone(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	default:
		return "+" + digits
	}
}

// Email trims, lowercases and validates the address. Invalid input returns "".
func Email(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ""
	}
	return email
}

// Name title-cases each whitespace-separated token and rejoins with single spaces.
func Name(raw string) string {
	tokens := strings.Fields(strings.TrimSpace(raw))
	for i, token := range tokens {
		tokens[i] = titleCase(token)
	}
	return strings.Join(tokens, " ")
}

func titleCase(token string) string {
	if token == "" {
		return token
	}
	runes := []rune(strings.ToLower(token))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}

// ZipCode keeps 5-digit zips as-is, formats 9-digit zips as ZIP+4 and
// passes anything else through trimmed.
func ZipCode(raw string) string {
	trimmed := strings.TrimSpace(raw)
	digits := nonDigitRe.ReplaceAllString(trimmed, "")
	switch len(digits) {
	case 5:
		return digits
	case 9:
		return digits[:5] + "-" + digits[5:]
	default:
		return trimmed
	}
}

// Currency strips "$", "," and whitespace then parses a float.
// The second return is false when the input is unparseable.
func Currency(raw string) (float64, bool) {
	cleaned := currencyRunes.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Date parses common date formats and returns an RFC 3339 string.
// The second return is false when no layout matches.
func Date(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC().Format(time.RFC3339), true
		}
	}
	return "", false
}

var truthy = map[string]struct{}{
	"true":    {},
	"yes":     {},
	"y":       {},
	"1":       {},
	"active":  {},
	"enabled": {},
}

// Boolean treats a fixed set of affirmative tokens as true; everything else,
// including empty input, is false.
func Boolean(raw string) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}
