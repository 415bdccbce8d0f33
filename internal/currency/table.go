package currency

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// Table maps the currency tokens found in bank exports ("€", "SEK", "kr")
// to canonical codes. Lookups never fall back to a default code.
type Table struct {
	symbols map[string]Code
}

// NewTable builds a Table from symbol→code pairs. Every target code must be
// in allowed.
func NewTable(symbols map[string]Code, allowed Set) (*Table, error) {
	t := &Table{symbols: make(map[string]Code, len(symbols))}
	for sym, code := range symbols {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			return nil, fmt.Errorf("empty currency symbol for %s", code)
		}
		if !allowed.Contains(code) {
			return nil, fmt.Errorf("symbol %q maps to %s, which is not an allowed currency", sym, code)
		}
		t.symbols[sym] = code
	}
	return t, nil
}

// DefaultSymbols returns, for every allowed code, the code itself and its
// go-money grapheme ("€" for EUR). A grapheme shared by two allowed codes is
// ambiguous and left out.
func DefaultSymbols(allowed Set) map[string]Code {
	out := make(map[string]Code)
	seen := make(map[string]int)
	for _, c := range allowed.Codes() {
		out[string(c)] = c
		if cur := money.GetCurrency(string(c)); cur != nil && cur.Grapheme != "" && cur.Grapheme != string(c) {
			seen[cur.Grapheme]++
		}
	}
	for _, c := range allowed.Codes() {
		cur := money.GetCurrency(string(c))
		if cur == nil || cur.Grapheme == "" || cur.Grapheme == string(c) {
			continue
		}
		if seen[cur.Grapheme] == 1 {
			if _, taken := out[cur.Grapheme]; !taken {
				out[cur.Grapheme] = c
			}
		}
	}
	return out
}

// Lookup returns the code for an export token.
func (t *Table) Lookup(symbol string) (Code, bool) {
	c, ok := t.symbols[strings.TrimSpace(symbol)]
	return c, ok
}
