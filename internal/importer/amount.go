package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/partida-dev/partida/internal/currency"
)

var (
	// ErrMalformedAmount means the numeric part of an amount cell is not a
	// positive decimal after normalization.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrUnknownCurrency means the currency token is missing or has no entry
	// in the symbol table.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrMalformedDate means no configured date format matches the date cell.
	ErrMalformedDate = errors.New("malformed date")
)

// ParseAmount splits a composite cell like "1.234,56 €" on its first space
// into a number and a currency token, and normalizes the number: every '.'
// is a thousands separator and the first ',' is the decimal point.
func ParseAmount(text string, symbols *currency.Table) (decimal.Decimal, currency.Code, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\u00a0", " "))
	number, token, found := strings.Cut(text, " ")
	if !found || strings.TrimSpace(token) == "" {
		return decimal.Decimal{}, "", fmt.Errorf("%w: no currency in %q", ErrUnknownCurrency, text)
	}

	normalized := strings.Replace(strings.ReplaceAll(number, ".", ""), ",", ".", 1)
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, "", fmt.Errorf("%w: %q", ErrMalformedAmount, number)
	}
	if !value.IsPositive() {
		return decimal.Decimal{}, "", fmt.Errorf("%w: %q is not positive", ErrMalformedAmount, number)
	}

	code, ok := symbols.Lookup(token)
	if !ok {
		return decimal.Decimal{}, "", fmt.Errorf("%w: %q", ErrUnknownCurrency, strings.TrimSpace(token))
	}
	return value, code, nil
}
