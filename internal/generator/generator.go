// Package generator synthesizes a year of reproducible ledger rows.
package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/partida-dev/partida/internal/currency"
	"github.com/partida-dev/partida/internal/id"
	"github.com/partida-dev/partida/internal/ledger"
	"github.com/partida-dev/partida/internal/model"
)

// Options controls one generation run. Every field is required; see
// FromConfig for the reference values.
type Options struct {
	Seed          int64
	ReferenceDate time.Time

	Periods         int
	FirstOffsetDays int
	PeriodDays      int

	Salary            decimal.Decimal
	SalaryCategory    string
	SalarySubcategory string
	Rent              decimal.Decimal
	RentCategory      string

	Discretionary    int
	MaxDiscretionary decimal.Decimal
	HorizonDays      int
	Categories       []string
	Currencies       []currency.Code

	EntityID  int
	AccountID int
	Entities  []model.Entity
	Accounts  []model.Account
}

// minCeiling is the smallest MaxDiscretionary that leaves a cent value strictly
// between zero and the ceiling.
var minCeiling = decimal.New(2, -2)

func (o Options) validate() error {
	switch {
	case o.ReferenceDate.IsZero():
		return errors.New("reference date is required")
	case o.Periods < 0 || o.Discretionary < 0:
		return errors.New("event counts must be non-negative")
	case o.PeriodDays <= 0 || o.HorizonDays <= 0:
		return errors.New("period and horizon must be positive")
	case !o.Salary.IsPositive() || !o.Rent.IsPositive() || !o.MaxDiscretionary.IsPositive():
		return errors.New("salary, rent and max discretionary value must be positive")
	case o.MaxDiscretionary.LessThan(minCeiling):
		return fmt.Errorf("max discretionary value must be at least %s, got %s", minCeiling, o.MaxDiscretionary)
	case len(o.Currencies) == 0:
		return errors.New("no currencies to draw from")
	case o.Discretionary > 0 && len(o.Categories) == 0:
		return errors.New("no categories to draw from")
	}
	return nil
}

// generator holds the state of one run: the random source and the key
// sequences of the tables it appends to.
type generator struct {
	opts     Options
	rng      *rand.Rand
	out      ledger.Tables
	parties  *id.Sequence
	incomes  *id.Sequence
	expenses *id.Sequence
	moves    *id.Sequence
}

// Generate produces all six tables. The same Options always yield the same
// rows.
func Generate(opts Options) (ledger.Tables, error) {
	if err := opts.validate(); err != nil {
		return ledger.Tables{}, fmt.Errorf("generator options: %w", err)
	}
	if err := ledger.RequireSeeds(opts.Entities, opts.Accounts, opts.EntityID, opts.AccountID); err != nil {
		return ledger.Tables{}, err
	}

	g := &generator{
		opts: opts,
		rng:  rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)^0x9e3779b97f4a7c15)),
		out: ledger.Tables{
			Entities: append([]model.Entity(nil), opts.Entities...),
			Accounts: append([]model.Account(nil), opts.Accounts...),
		},
		parties:  new(id.Sequence),
		incomes:  new(id.Sequence),
		expenses: new(id.Sequence),
		moves:    new(id.Sequence),
	}

	for i := range opts.Periods {
		g.salary(g.periodDate(i))
	}
	for i := range opts.Periods {
		g.rent(g.periodDate(i))
	}
	for range opts.Discretionary {
		g.discretionary()
	}
	return g.out, nil
}

// periodDate is the date of the i-th salary or rent event. Periods are a
// fixed number of days apart, not calendar months.
func (g *generator) periodDate(i int) time.Time {
	return g.opts.ReferenceDate.AddDate(0, 0, g.opts.FirstOffsetDays+g.opts.PeriodDays*i)
}

func (g *generator) salary(date time.Time) {
	party := g.party(date)
	flow := model.Flow{
		Value:       g.opts.Salary,
		Currency:    g.currency(),
		Date:        date,
		Category:    g.opts.SalaryCategory,
		Subcategory: g.opts.SalarySubcategory,
		EntityID:    g.opts.EntityID,
		PartyID:     party,
	}
	g.out.Incomes = append(g.out.Incomes, model.Income{ID: g.incomes.Next(), Flow: flow})
	g.move(model.Credit, flow)
}

// rent mints no fund movement, so rent parties never balance.
func (g *generator) rent(date time.Time) {
	party := g.party(date)
	flow := model.Flow{
		Value:    g.opts.Rent,
		Currency: g.currency(),
		Date:     date,
		Category: g.opts.RentCategory,
		EntityID: g.opts.EntityID,
		PartyID:  party,
	}
	g.out.Expenses = append(g.out.Expenses, model.Expense{ID: g.expenses.Next(), Flow: flow})
}

func (g *generator) discretionary() {
	// Draw order is part of the reproducibility contract.
	cur := g.currency()
	value := g.value()
	date := g.opts.ReferenceDate.AddDate(0, 0, int(float64(g.opts.HorizonDays)*g.rng.Float64()))
	category := g.opts.Categories[g.rng.IntN(len(g.opts.Categories))]

	flow := model.Flow{
		Value:    value,
		Currency: cur,
		Date:     date,
		Category: category,
		EntityID: g.opts.EntityID,
		PartyID:  g.party(date),
	}
	g.out.Expenses = append(g.out.Expenses, model.Expense{ID: g.expenses.Next(), Flow: flow})
	g.move(model.Debit, flow)
}

// value draws uniformly from (0, MaxDiscretionary), rounded to cents.
// A draw that rounds to zero is drawn again.
func (g *generator) value() decimal.Decimal {
	for {
		v := decimal.NewFromFloat(g.rng.Float64()).Mul(g.opts.MaxDiscretionary).Round(2)
		if v.IsPositive() && v.LessThan(g.opts.MaxDiscretionary) {
			return v
		}
	}
}

func (g *generator) currency() currency.Code {
	return g.opts.Currencies[g.rng.IntN(len(g.opts.Currencies))]
}

func (g *generator) party(date time.Time) int {
	p := model.Party{ID: g.parties.Next(), CreationDate: date}
	g.out.Parties = append(g.out.Parties, p)
	return p.ID
}

func (g *generator) move(typ model.FundMovementType, flow model.Flow) {
	m := model.NewFundMovement(typ, flow.Value)
	m.ID = g.moves.Next()
	m.Currency = flow.Currency
	m.Date = flow.Date
	m.AccountID = g.opts.AccountID
	m.PartyID = flow.PartyID
	g.out.FundMovements = append(g.out.FundMovements, m)
}
