package printing

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/garage/invoicer/internal/domain/listing"
)

// InvalidDate is returned by FormatDate for unparsable input
const InvalidDate = "Invalid Date"

// dateLayouts are the timestamp shapes accepted from the listings API
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var lowerCaser = cases.Lower(language.AmericanEnglish)

// FormatCurrency renders amount as US dollars with comma grouping and exactly
// decimals fraction digits. Rounding is half away from zero.
func FormatCurrency(amount decimal.Decimal, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	fixed := amount.Abs().StringFixed(int32(decimals))
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.Round(int32(decimals)).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	b.WriteString(groupThousands(intPart))
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatCurrencyDefault renders amount with two fraction digits
func FormatCurrencyDefault(amount decimal.Decimal) string {
	return FormatCurrency(amount, 2)
}

// groupThousands inserts commas into a string of ASCII digits
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseTimestamp parses a listing timestamp. Values without an offset are
// taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an ISO timestamp as "Jan 2, 2006" in UTC
func FormatDate(iso string) string {
	t, ok := ParseTimestamp(iso)
	if !ok {
		return InvalidDate
	}
	return t.Format("Jan 2, 2006")
}

// FormatDeliveryMethod turns an upper snake case delivery code into display
// text. Short segments are treated as acronyms and kept as written:
// "GROUND_LTL" becomes "Ground (LTL)", "FOB" stays "FOB" and "PICKUP"
// becomes "Pickup". Segments after the second are ignored.
func FormatDeliveryMethod(code string) string {
	if code == "" {
		return ""
	}
	parts := strings.Split(code, "_")
	if len(parts) == 1 {
		if utf8.RuneCountInString(code) <= 3 {
			return code
		}
		return capitalizeFirst(code)
	}
	first := capitalizeFirst(parts[0])
	second := parts[1]
	if utf8.RuneCountInString(second) <= 3 {
		return first + " (" + second + ")"
	}
	return first + " " + second
}

// capitalizeFirst keeps the first rune and lower-cases the rest
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 0 {
		return ""
	}
	return s[:size] + lowerCaser.String(s[size:])
}

// FormatWeight renders a weight in pounds with grouping and at most three
// fraction digits, e.g. "1,234.5 lbs"
func FormatWeight(lbs float64) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprint(number.Decimal(lbs, number.MaxFractionDigits(3))) + " lbs"
}

// FormatDimensions joins the present dimensions as `10" L x 5" W x 2" H`.
// Zero is a present value.
func FormatDimensions(length, width, height *float64) string {
	parts := make([]string, 0, 3)
	if length != nil {
		parts = append(parts, listing.FormatNumber(*length)+`" L`)
	}
	if width != nil {
		parts = append(parts, listing.FormatNumber(*width)+`" W`)
	}
	if height != nil {
		parts = append(parts, listing.FormatNumber(*height)+`" H`)
	}
	return strings.Join(parts, " x ")
}
