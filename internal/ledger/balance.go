package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/partida-dev/partida/internal/currency"
)

// balanceTolerance is one cent.
var balanceTolerance = decimal.New(1, -2)

// Imbalance is a party whose events and fund movements do not offset in one currency.
type Imbalance struct {
	PartyID  int
	Currency currency.Code
	Residual decimal.Decimal // income - expenses - fund movements
}

// Unbalanced applies the party balance rule: for every party and currency,
// income minus expenses must equal the net fund movement to within a cent.
// A 50 EUR grocery expense balances a -50 EUR debit; a salary income balances
// a credit of the same amount.
func Unbalanced(t Tables) []Imbalance {
	type key struct {
		party int
		cur   currency.Code
	}
	sums := make(map[key]decimal.Decimal)
	bump := func(party int, cur currency.Code, v decimal.Decimal) {
		k := key{party, cur}
		sums[k] = sums[k].Add(v)
	}

	for _, in := range t.Incomes {
		bump(in.PartyID, in.Currency, in.Value)
	}
	for _, ex := range t.Expenses {
		bump(ex.PartyID, ex.Currency, ex.Value.Neg())
	}
	for _, m := range t.FundMovements {
		bump(m.PartyID, m.Currency, m.Value.Neg())
	}

	var out []Imbalance
	for k, v := range sums {
		if v.Abs().GreaterThanOrEqual(balanceTolerance) {
			out = append(out, Imbalance{PartyID: k.party, Currency: k.cur, Residual: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PartyID != out[j].PartyID {
			return out[i].PartyID < out[j].PartyID
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}
