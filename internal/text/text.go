// Package text holds the name normalization and money/date formatting rules
// shared by the command interpreter, the event lifecycle and the settlement
// report. Everything here is a pure function of its input.
package text

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidAmount = errors.New("invalid amount format")
	ErrInvalidDate   = errors.New("invalid date format, expected dd/mm/yy")
)

// đ/Đ carry no combining mark, so NFD alone leaves them behind.
var foldDStroke = runes.Map(func(r rune) rune {
	switch r {
	case 'đ':
		return 'd'
	case 'Đ':
		return 'D'
	}
	return r
})

var stripDiacritics = transform.Chain(norm.NFD, foldDStroke, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName canonicalizes a free-text player name into the key used for
// attendee matching: trimmed, single-spaced, lowercased, diacritics stripped,
// anything outside [a-z0-9 ] removed. Idempotent.
func NormalizeName(name string) string {
	s := strings.ToLower(collapseWhitespace(name))
	s, _, _ = transform.String(stripDiacritics, s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return collapseWhitespace(b.String())
}

// Slugify renders a name for use inside event identifiers. Never use it for
// attendee matching; that is what NormalizeName is for.
func Slugify(name string) string {
	return strings.ReplaceAll(NormalizeName(name), " ", "-")
}

// CeilToThousand rounds up to the nearest 1000. Prepaid amounts are always
// recorded as multiples of 1000 đồng.
func CeilToThousand(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return (amount + 999) / 1000 * 1000
}

var amountPattern = regexp.MustCompile(`^([0-9]+)(k)?$`)

var amountSuffixes = strings.NewReplacer("vnđ", "", "vnd", "", "đ", "", "d", "")

// ParseAmount parses a currency token like "150000", "1.500.000", "200k" or
// "35k vnđ" into đồng. The result is ceiled to the nearest 1000.
func ParseAmount(token string) (int64, error) {
	cleaned := strings.ToLower(strings.TrimSpace(token))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.TrimSpace(amountSuffixes.Replace(cleaned))

	m := amountPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, ErrInvalidAmount
	}

	base, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if m[2] == "k" {
		base, err = mulThousand(base)
		if err != nil {
			return 0, ErrInvalidAmount
		}
	}
	// The ceiling adds up to 999 đồng; a base that close to the int64
	// ceiling is garbage input, not money.
	if base > math.MaxInt64-999 {
		return 0, ErrInvalidAmount
	}
	return CeilToThousand(base), nil
}

func mulThousand(base int64) (int64, error) {
	if base > math.MaxInt64/1000 {
		return 0, ErrInvalidAmount
	}
	return base * 1000, nil
}

var currencyPrinter = message.NewPrinter(language.Vietnamese)

// FormatCurrency renders an amount with Vietnamese digit grouping and the đ
// suffix, e.g. 150000 -> "150.000 đ".
func FormatCurrency(amount int64) string {
	return currencyPrinter.Sprintf("%d đ", amount)
}

// ParseCommandDate parses a dd/mm/yy date in the group's local calendar.
// The result carries no time component beyond midnight in loc.
func ParseCommandDate(input string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2/1/06", strings.TrimSpace(input), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// FormatEventLabel renders the human-facing event label, e.g. "Hải Nam-003".
func FormatEventLabel(ownerName string, sequence int) string {
	return fmt.Sprintf("%s-%03d", ownerName, sequence)
}
