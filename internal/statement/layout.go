package statement

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var monthNames = map[string]time.Month{
	"JANUARI": time.January, "JANUARY": time.January, "JAN": time.January,
	"FEBRUARI": time.February, "FEBRUARY": time.February, "FEB": time.February, "PEB": time.February,
	"MARET": time.March, "MARCH": time.March, "MAR": time.March,
	"APRIL": time.April, "APR": time.April,
	"MEI": time.May, "MAY": time.May,
	"JUNI": time.June, "JUNE": time.June, "JUN": time.June,
	"JULI": time.July, "JULY": time.July, "JUL": time.July,
	"AGUSTUS": time.August, "AUGUST": time.August, "AGU": time.August, "AGT": time.August, "AUG": time.August,
	"SEPTEMBER": time.September, "SEPT": time.September, "SEP": time.September,
	"OKTOBER": time.October, "OCTOBER": time.October, "OKT": time.October, "OCT": time.October,
	"NOVEMBER": time.November, "NOPEMBER": time.November, "NOV": time.November, "NOP": time.November,
	"DESEMBER": time.December, "DECEMBER": time.December, "DES": time.December, "DEC": time.December,
}

var (
	periodPattern   = buildPeriodPattern()
	currencyPattern = regexp.MustCompile(`\b(IDR|USD|SGD|EUR)\b`)
	dateTokenRe     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
)

func buildPeriodPattern() *regexp.Regexp {
	names := make([]string, 0, len(monthNames))
	for name := range monthNames {
		names = append(names, name)
	}
	// longest first so JANUARI wins over JAN
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return regexp.MustCompile(`\b(` + strings.Join(names, "|") + `)\.?\s+(\d{4})\b`)
}

// layout is a vocabulary-driven statement format. The built-in formats differ
// only in their vocabulary.
type layout struct {
	name            string
	detectPhrases   []string
	openingLabels   []string
	closingLabels   []string
	footerPhrases   [][]string
	noiseTokens     map[string]bool
	creditMarkers   map[string]bool
	debitMarkers    map[string]bool
	descriptionMax  int
	openingPatterns []*regexp.Regexp
	closingPatterns []*regexp.Regexp
}

func newLayout(l layout) *layout {
	l.openingPatterns = labelPatterns(l.openingLabels)
	l.closingPatterns = labelPatterns(l.closingLabels)
	for _, phrase := range append(append([]string{}, l.closingLabels...), l.openingLabels...) {
		l.footerPhrases = append(l.footerPhrases, strings.Fields(phrase))
	}
	return &l
}

func labelPatterns(labels []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(labels))
	for _, label := range labels {
		words := strings.Fields(regexp.QuoteMeta(label))
		out = append(out, regexp.MustCompile(strings.Join(words, `\s+`)+
			`\s*:?\s*(?:RP\.?|IDR|USD|SGD|EUR)?\s*([-+]?\d[\d.,]*\d-?)`))
	}
	return out
}

func (l *layout) Name() string { return l.name }

func (l *layout) Detect(text string) bool {
	up := strings.ToUpper(text)
	for _, p := range l.detectPhrases {
		if strings.Contains(up, p) {
			return true
		}
	}
	return false
}

func (l *layout) ParseHeader(text string) Header {
	up := strings.Join(strings.Fields(strings.ToUpper(text)), " ")
	var h Header

	if m := periodPattern.FindStringSubmatch(up); m != nil {
		year, _ := strconv.Atoi(m[2])
		h.Month = monthNames[m[1]]
		h.Year = year
		h.PeriodLabel = m[1] + " " + m[2]
	}
	h.OpeningBalance = firstLabelledAmount(up, l.openingPatterns)
	h.ClosingBalance = firstLabelledAmount(up, l.closingPatterns)
	if m := currencyPattern.FindStringSubmatch(up); m != nil {
		h.Currency = m[1]
	}
	return h
}

func firstLabelledAmount(text string, patterns []*regexp.Regexp) *decimal.Decimal {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := NormalizeAmount(m[1]); err == nil {
			return &v
		}
	}
	return nil
}

func (l *layout) CountDateTokens(text string) int {
	n := 0
	for _, tok := range strings.Fields(text) {
		if _, _, ok := parseDateToken(tok); ok {
			n++
		}
	}
	return n
}

// parseDateToken accepts DD/MM with a day that exists in that month of a leap year.
func parseDateToken(tok string) (day int, month time.Month, ok bool) {
	m := dateTokenRe.FindStringSubmatch(tok)
	if m == nil {
		return 0, 0, false
	}
	d, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return 0, 0, false
	}
	if d > daysIn(time.Month(mo), 2024) {
		return 0, 0, false
	}
	return d, time.Month(mo), true
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (l *layout) ParseTransactions(text string, header Header) []Transaction {
	tokens := strings.Fields(text)
	var out []Transaction
	balance := header.OpeningBalance

	for i := 0; i < len(tokens); {
		day, month, ok := parseDateToken(tokens[i])
		if !ok {
			i++
			continue
		}
		end := i + 1
		for end < len(tokens) {
			if _, _, next := parseDateToken(tokens[end]); next {
				break
			}
			if l.footerAt(tokens, end) {
				break
			}
			end++
		}

		if tx, ok := l.parseSpan(tokens[i:end], day, month, header, balance); ok {
			out = append(out, tx)
			balance = nextBalance(balance, tx)
		}
		i = end
		if i < len(tokens) && l.footerAt(tokens, i) {
			// skip to the next date token after a footer phrase
			i++
		}
	}
	return out
}

func (l *layout) footerAt(tokens []string, i int) bool {
	for _, phrase := range l.footerPhrases {
		if i+len(phrase) > len(tokens) {
			continue
		}
		match := true
		for j, w := range phrase {
			if strings.ToUpper(tokens[i+j]) != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// nextBalance carries the running balance forward; it is unknown once a line
// without a balance follows an unknown balance.
func nextBalance(prev *decimal.Decimal, tx Transaction) *decimal.Decimal {
	if tx.RunningBalance != nil {
		return tx.RunningBalance
	}
	if prev == nil {
		return nil
	}
	next := prev.Add(tx.signed())
	return &next
}

func (l *layout) parseSpan(span []string, day int, month time.Month, header Header, prev *decimal.Decimal) (Transaction, bool) {
	year := header.Year
	if header.Month != 0 && month > header.Month {
		year--
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return Transaction{}, false
	}

	body := span[1:]
	var (
		amountIdx    []int
		indicatorIdx = -1
		credit       bool
	)
	for i, tok := range body {
		up := strings.ToUpper(tok)
		switch {
		case IsAmountToken(tok) && len(amountIdx) < 2:
			amountIdx = append(amountIdx, i)
		case indicatorIdx < 0 && l.creditMarkers[up]:
			indicatorIdx, credit = i, true
		case indicatorIdx < 0 && l.debitMarkers[up]:
			indicatorIdx = i
		}
	}
	if len(amountIdx) == 0 {
		return Transaction{}, false
	}

	amount, err := NormalizeAmount(body[amountIdx[0]])
	if err != nil || amount.IsZero() {
		return Transaction{}, false
	}
	// a signed amount without a marker is a debit
	amount = amount.Abs()

	tx := Transaction{Date: date, Amount: amount, Credit: credit}
	if len(amountIdx) > 1 {
		running, err := NormalizeAmount(body[amountIdx[1]])
		if err == nil && isRunningBalance(body[amountIdx[0]], body[amountIdx[1]], running, prev, tx) {
			tx.RunningBalance = &running
		}
	}

	consumed := map[int]bool{indicatorIdx: true}
	for _, idx := range amountIdx {
		consumed[idx] = true
	}
	words := make([]string, 0, len(body))
	for i, tok := range body {
		if consumed[i] || l.noiseTokens[strings.ToUpper(tok)] {
			continue
		}
		words = append(words, tok)
	}
	desc := strings.TrimSpace(strings.Join(words, " "))
	if utf8.RuneCountInString(desc) < 3 {
		desc = strings.Join(span, " ")
	}
	tx.Description = truncate(desc, l.descriptionMax)
	return tx, true
}

// isRunningBalance decides whether the second amount on a line is the balance.
// A token repeating the amount verbatim is usually the amount printed twice by
// the extractor, so it only counts when it continues the known balance.
func isRunningBalance(amountTok, balanceTok string, running decimal.Decimal, prev *decimal.Decimal, tx Transaction) bool {
	if amountTok != balanceTok {
		return true
	}
	return prev != nil && prev.Add(tx.signed()).Equal(running)
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
