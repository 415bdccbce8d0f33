package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Code is an ISO 4217 currency code as written to the ledger tables.
type Code string

const (
	EUR Code = "EUR"
	CHF Code = "CHF"
	SEK Code = "SEK"
)

// Defaults is the enumerated set of codes a ledger may carry unless configured otherwise.
var Defaults = []Code{EUR, CHF, SEK}

// Set is the enumerated set of currency codes allowed in a ledger.
type Set struct {
	codes map[Code]struct{}
}

// NewSet builds a Set. Every code must be known to go-money.
func NewSet(codes ...Code) (Set, error) {
	s := Set{codes: make(map[Code]struct{}, len(codes))}
	for _, c := range codes {
		c = Code(strings.ToUpper(strings.TrimSpace(string(c))))
		if money.GetCurrency(string(c)) == nil {
			return Set{}, fmt.Errorf("unknown currency code %q", c)
		}
		s.codes[c] = struct{}{}
	}
	return s, nil
}

// MustSet is NewSet for static code lists. Panics on unknown codes.
func MustSet(codes ...Code) Set {
	s, err := NewSet(codes...)
	if err != nil {
		panic(err)
	}
	return s
}

// Contains reports whether c is part of the set.
func (s Set) Contains(c Code) bool {
	_, ok := s.codes[c]
	return ok
}

// Codes returns the codes in the set, sorted.
func (s Set) Codes() []Code {
	out := make([]Code, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of codes in the set.
func (s Set) Len() int { return len(s.codes) }

// Format renders an amount with the currency's own grapheme and separators,
// e.g. "€1,234.56". Amounts are rounded to the currency's minor unit.
func Format(amount decimal.Decimal, c Code) string {
	cur := money.GetCurrency(string(c))
	if cur == nil {
		return amount.StringFixed(2) + " " + string(c)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
