package statement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var amountTokenPattern = regexp.MustCompile(`^[-+]?\d[\d.,]*\d-?$|^[-+]?\d-?$`)

// IsAmountToken reports whether tok looks like a monetary amount. Pure digit runs
// are treated as reference numbers, so a separator is required.
func IsAmountToken(tok string) bool {
	return strings.ContainsAny(tok, ".,") && amountTokenPattern.MatchString(tok)
}

// NormalizeAmount converts a monetary token with locale-ambiguous separators into
// a decimal.
//
//   - more than one period: periods are thousands separators, comma is decimal
//   - more than one comma: commas are thousands separators, period is decimal
//   - one of each: whichever appears last is the decimal separator
//   - one comma and no period: comma is decimal
//   - anything else is parsed as is
func NormalizeAmount(token string) (decimal.Decimal, error) {
	s := strings.TrimSpace(token)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "RP")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasSuffix(s, "-"):
		negative, s = true, s[:len(s)-1]
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount %q", token)
	}

	periods := strings.Count(s, ".")
	commas := strings.Count(s, ",")
	switch {
	case periods > 1:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case periods == 1 && commas == 1:
		if strings.Index(s, ".") < strings.Index(s, ",") {
			s = strings.Replace(strings.Replace(s, ".", "", 1), ",", ".", 1)
		} else {
			s = strings.Replace(s, ",", "", 1)
		}
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", token, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
