package generator

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partida-dev/partida/internal/config"
	"github.com/partida-dev/partida/internal/currency"
	"github.com/partida-dev/partida/internal/ledger"
	"github.com/partida-dev/partida/internal/model"
	"github.com/partida-dev/partida/internal/seed"
)

var strict = ledger.Options{Currencies: currency.MustSet(currency.Defaults...), Parties: ledger.PartyPerEvent}

func defaultOptions(t *testing.T, rngSeed int64) Options {
	t.Helper()
	cfg := config.Default()
	rows, err := seed.Defaults(cfg.Seed)
	require.NoError(t, err)
	opts, err := FromConfig(cfg.Generator, cfg.Seed, rows, rngSeed)
	require.NoError(t, err)
	return opts
}

func generate(t *testing.T, rngSeed int64) ledger.Tables {
	t.Helper()
	tables, err := Generate(defaultOptions(t, rngSeed))
	require.NoError(t, err)
	return tables
}

func TestGenerate_Counts(t *testing.T) {
	tables := generate(t, 1)

	assert.Len(t, tables.Parties, 12+12+250)
	assert.Len(t, tables.Incomes, 12)
	assert.Len(t, tables.Expenses, 12+250)
	assert.Len(t, tables.FundMovements, 12+250)
	assert.Len(t, tables.Entities, 1)
	assert.Len(t, tables.Accounts, 1)
}

func TestGenerate_SalaryAndRentOnDefaultEntity(t *testing.T) {
	tables := generate(t, 2)

	var n int
	for _, in := range tables.Incomes {
		if in.Category == "Salary" && in.EntityID == 0 {
			n++
		}
	}
	for _, ex := range tables.Expenses {
		if ex.Category == "Rent" && ex.EntityID == 0 {
			n++
		}
	}
	assert.Equal(t, 24, n)
}

func TestGenerate_ValidatesClean(t *testing.T) {
	for _, s := range []int64{0, 1, 7, 42, 1 << 40} {
		assert.Empty(t, ledger.Validate(generate(t, s), strict), "seed %d", s)
	}
}

func TestGenerate_MovementSigns(t *testing.T) {
	tables := generate(t, 3)
	for _, m := range tables.FundMovements {
		switch m.Type {
		case model.Credit:
			assert.True(t, m.Value.IsPositive(), "movement %d", m.ID)
		case model.Debit:
			assert.True(t, m.Value.IsNegative(), "movement %d", m.ID)
		default:
			t.Fatalf("movement %d has type %q", m.ID, m.Type)
		}
		assert.Equal(t, 0, m.AccountID)
	}
	for _, in := range tables.Incomes {
		assert.True(t, in.Value.IsPositive())
	}
	for _, ex := range tables.Expenses {
		assert.True(t, ex.Value.IsPositive())
	}
}

func TestGenerate_SameSeedSameBytes(t *testing.T) {
	write := func(tables ledger.Tables) string {
		dir := t.TempDir()
		_, err := ledger.NewStore(dir, strict).Write(tables)
		require.NoError(t, err)
		var all bytes.Buffer
		for _, table := range ledger.AllTables {
			data, err := os.ReadFile(filepath.Join(dir, table.FileName()))
			require.NoError(t, err)
			all.Write(data)
		}
		return all.String()
	}

	first := write(generate(t, 99))
	second := write(generate(t, 99))
	assert.Equal(t, first, second)

	other := write(generate(t, 100))
	assert.NotEqual(t, first, other)
}

func TestGenerate_RentMintsNoMovement(t *testing.T) {
	tables := generate(t, 4)

	moved := make(map[int]bool)
	for _, m := range tables.FundMovements {
		moved[m.PartyID] = true
	}
	var rentParties []int
	for _, ex := range tables.Expenses {
		if ex.Category == "Rent" {
			assert.False(t, moved[ex.PartyID], "rent expense %d has a fund movement", ex.ID)
			rentParties = append(rentParties, ex.PartyID)
		}
	}
	require.Len(t, rentParties, 12)

	imbalances := ledger.Unbalanced(tables)
	require.Len(t, imbalances, 12)
	for _, im := range imbalances {
		assert.Contains(t, rentParties, im.PartyID)
		assert.True(t, im.Residual.Equal(decimal.NewFromInt(-1150)), "party %d residual %s", im.PartyID, im.Residual)
	}
}

func TestGenerate_PeriodSpacing(t *testing.T) {
	tables := generate(t, 5)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, in := range tables.Incomes {
		assert.Equal(t, t0.AddDate(0, 0, 25+30*i), in.Date, "salary %d", i)
	}
	// Periods are 30 days apart, so the last one lands on day 355.
	assert.Equal(t, time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), tables.Incomes[11].Date)
	assert.Equal(t, tables.Incomes[11].Date, tables.Expenses[11].Date)
}

func TestGenerate_DiscretionaryDraws(t *testing.T) {
	tables := generate(t, 6)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limit := t0.AddDate(0, 0, 365)
	ceiling := decimal.NewFromInt(150)
	categories := []string{"Groceries", "Utilities", "Culture", "Presents"}

	for _, ex := range tables.Expenses[12:] {
		assert.Contains(t, categories, ex.Category)
		assert.Contains(t, []currency.Code{currency.EUR, currency.CHF}, ex.Currency)
		assert.True(t, ex.Value.IsPositive())
		assert.True(t, ex.Value.LessThan(ceiling))
		assert.True(t, ex.Value.Equal(ex.Value.Round(2)), "value %s has more than two decimals", ex.Value)
		assert.False(t, ex.Date.Before(t0))
		assert.True(t, ex.Date.Before(limit))
	}
}

func TestGenerate_PartiesShareEventDate(t *testing.T) {
	tables := generate(t, 8)
	byID := make(map[int]time.Time, len(tables.Parties))
	for _, p := range tables.Parties {
		byID[p.ID] = p.CreationDate
	}
	for _, in := range tables.Incomes {
		assert.Equal(t, in.Date, byID[in.PartyID])
	}
	for _, ex := range tables.Expenses {
		assert.Equal(t, ex.Date, byID[ex.PartyID])
	}
}

func TestGenerate_SequentialKeys(t *testing.T) {
	tables := generate(t, 9)
	for i, p := range tables.Parties {
		assert.Equal(t, i, p.ID)
	}
	for i, ex := range tables.Expenses {
		assert.Equal(t, i, ex.ID)
	}
	for i, m := range tables.FundMovements {
		assert.Equal(t, i, m.ID)
	}
	assert.True(t, slices.IsSortedFunc(tables.Incomes, func(a, b model.Income) int { return a.ID - b.ID }))
}

func TestGenerate_MissingSeedRows(t *testing.T) {
	opts := defaultOptions(t, 1)
	opts.Accounts = nil
	_, err := Generate(opts)

	var serr *ledger.StructuralError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ledger.AccountTable, serr.Table)

	opts = defaultOptions(t, 1)
	opts.EntityID = 5
	_, err = Generate(opts)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ledger.EntityTable, serr.Table)
}

func TestGenerate_InvalidOptions(t *testing.T) {
	opts := defaultOptions(t, 1)
	opts.Currencies = nil
	_, err := Generate(opts)
	assert.ErrorContains(t, err, "no currencies")

	opts = defaultOptions(t, 1)
	opts.PeriodDays = 0
	_, err = Generate(opts)
	assert.Error(t, err)

	for _, ceiling := range []string{"0.01", "0.015"} {
		opts = defaultOptions(t, 1)
		opts.MaxDiscretionary = decimal.RequireFromString(ceiling)
		_, err = Generate(opts)
		assert.ErrorContains(t, err, "at least 0.02", "ceiling %s", ceiling)
	}
}

func TestGenerate_SmallestCeiling(t *testing.T) {
	opts := defaultOptions(t, 1)
	opts.MaxDiscretionary = decimal.RequireFromString("0.02")
	tables, err := Generate(opts)
	require.NoError(t, err)
	for _, ex := range tables.Expenses[12:] {
		assert.True(t, ex.Value.Equal(decimal.RequireFromString("0.01")), "expense %d: %s", ex.ID, ex.Value)
	}
}

func TestGenerate_ZeroDiscretionary(t *testing.T) {
	opts := defaultOptions(t, 1)
	opts.Discretionary = 0
	tables, err := Generate(opts)
	require.NoError(t, err)
	assert.Len(t, tables.Parties, 24)
	assert.Len(t, tables.FundMovements, 12)
}
