package ledger

import (
	"fmt"

	"github.com/partida-dev/partida/internal/currency"
	"github.com/partida-dev/partida/internal/model"
)

// PartyPolicy selects how strictly income/expense rows are tied to parties.
type PartyPolicy int

const (
	// PartyPerEvent: each party backs at most one income-or-expense row, and
	// its creation date is not before that row's date.
	PartyPerEvent PartyPolicy = iota
	// SharedParty: rows may share a party and the party date is not compared.
	// Imported ledgers attribute every row to one default party.
	SharedParty
)

// Options parameterizes Validate.
type Options struct {
	Currencies currency.Set
	Parties    PartyPolicy
}

// eventRef is the income or expense row that first claimed a party.
type eventRef struct {
	table Table
	key   int
}

// Validate enforces the seven ledger invariants over one snapshot and returns
// every violation found. It has no side effects.
func Validate(t Tables, opts Options) []Violation {
	var errs []Violation
	add := func(table Table, key, invariant int, format string, args ...any) {
		errs = append(errs, Violation{Table: table, Key: key, Invariant: invariant, Description: fmt.Sprintf(format, args...)})
	}

	// Invariant 1: keys unique and non-negative, per table.
	errs = append(errs, checkKeys(PartyTable, partyKeys(t.Parties))...)
	errs = append(errs, checkKeys(EntityTable, entityKeys(t.Entities))...)
	errs = append(errs, checkKeys(AccountTable, accountKeys(t.Accounts))...)
	errs = append(errs, checkKeys(IncomeTable, incomeKeys(t.Incomes))...)
	errs = append(errs, checkKeys(ExpenseTable, expenseKeys(t.Expenses))...)
	errs = append(errs, checkKeys(FundMovementTable, fundKeys(t.FundMovements))...)

	parties := make(map[int]model.Party, len(t.Parties))
	for _, p := range t.Parties {
		if _, dup := parties[p.ID]; !dup {
			parties[p.ID] = p
		}
		if p.CreationDate.IsZero() {
			add(PartyTable, p.ID, 7, "missing creation_date")
		}
	}

	entities := make(map[int]bool, len(t.Entities))
	for _, e := range t.Entities {
		entities[e.ID] = true
		if e.CreationDate.IsZero() {
			add(EntityTable, e.ID, 7, "missing creation_date")
		}
	}

	accounts := make(map[int]bool, len(t.Accounts))
	for _, a := range t.Accounts {
		accounts[a.ID] = true
		if !opts.Currencies.Contains(a.Currency) {
			add(AccountTable, a.ID, 5, "unknown currency %q", a.Currency)
		}
		if a.CreationDate.IsZero() {
			add(AccountTable, a.ID, 7, "missing creation_date")
		}
	}

	claimed := make(map[int]eventRef)
	checkFlow := func(table Table, key int, f model.Flow) {
		// Invariant 2: entity reference.
		if !entities[f.EntityID] {
			add(table, key, 2, "unknown entity %d", f.EntityID)
		}

		// Invariant 4: party reference, one event per party.
		party, ok := parties[f.PartyID]
		if !ok {
			add(table, key, 4, "unknown party %d", f.PartyID)
		} else if opts.Parties == PartyPerEvent {
			if prev, taken := claimed[f.PartyID]; taken {
				add(table, key, 4, "party %d already backs %s %d", f.PartyID, prev.table, prev.key)
			} else {
				claimed[f.PartyID] = eventRef{table: table, key: key}
			}
		}

		// Invariant 5: enumerated currency.
		if !opts.Currencies.Contains(f.Currency) {
			add(table, key, 5, "unknown currency %q", f.Currency)
		}

		// Invariant 6: strictly positive value.
		if !f.Value.IsPositive() {
			add(table, key, 6, "value %s is not positive", f.Value)
		}

		// Invariant 7: valid date, party not created before its event.
		if f.Date.IsZero() {
			add(table, key, 7, "missing date")
		} else if ok && opts.Parties == PartyPerEvent && party.CreationDate.Before(f.Date) {
			add(table, key, 7, "party %d created %s, before event date %s",
				f.PartyID, party.CreationDate.Format(DateFormat), f.Date.Format(DateFormat))
		}
	}

	for _, in := range t.Incomes {
		checkFlow(IncomeTable, in.ID, in.Flow)
	}
	for _, ex := range t.Expenses {
		checkFlow(ExpenseTable, ex.ID, ex.Flow)
	}

	for _, m := range t.FundMovements {
		// Invariant 3: account reference.
		if !accounts[m.AccountID] {
			add(FundMovementTable, m.ID, 3, "unknown account %d", m.AccountID)
		}
		if _, ok := parties[m.PartyID]; !ok {
			add(FundMovementTable, m.ID, 4, "unknown party %d", m.PartyID)
		}
		if !opts.Currencies.Contains(m.Currency) {
			add(FundMovementTable, m.ID, 5, "unknown currency %q", m.Currency)
		}
		if !m.SignMatches() {
			add(FundMovementTable, m.ID, 6, "%s movement has value %s", m.Type, m.Value)
		}
		if m.Date.IsZero() {
			add(FundMovementTable, m.ID, 7, "missing date")
		}
	}

	return errs
}

func checkKeys(table Table, keys []int) []Violation {
	var errs []Violation
	seen := make(map[int]bool, len(keys))
	for _, k := range keys {
		if k < 0 {
			errs = append(errs, Violation{Table: table, Key: k, Invariant: 1, Description: "negative key"})
		}
		if seen[k] {
			errs = append(errs, Violation{Table: table, Key: k, Invariant: 1, Description: "duplicate key"})
		}
		seen[k] = true
	}
	return errs
}

func partyKeys(rows []model.Party) []int {
	keys := make([]int, len(rows))
	for i, r := range rows {
		keys[i] = r.ID
	}
	return keys
}

func entityKeys(rows []model.Entity) []int {
	keys := make([]int, len(rows))
	for i, r := range rows {
		keys[i] = r.ID
	}
	return keys
}

func accountKeys(rows []model.Account) []int {
	keys := make([]int, len(rows))
	for i, r := range rows {
		keys[i] = r.ID
	}
	return keys
}

func incomeKeys(rows []model.Income) []int {
	keys := make([]int, len(rows))
	for i, r := range rows {
		keys[i] = r.ID
	}
	return keys
}

func expenseKeys(rows []model.Expense) []int {
	keys := make([]int, len(rows))
	for i, r := range rows {
		keys[i] = r.ID
	}
	return keys
}

func fundKeys(rows []model.FundMovement) []int {
	keys := make([]int, len(rows))
	for i, r := range rows {
		keys[i] = r.ID
	}
	return keys
}

// ByTable groups violations by the table they were reported against.
func ByTable(errs []Violation) map[Table][]Violation {
	out := make(map[Table][]Violation)
	for _, v := range errs {
		out[v.Table] = append(out[v.Table], v)
	}
	return out
}
