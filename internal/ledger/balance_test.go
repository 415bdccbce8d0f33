package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partida-dev/partida/internal/currency"
	"github.com/partida-dev/partida/internal/model"
)

func TestUnbalanced_Balanced(t *testing.T) {
	assert.Empty(t, Unbalanced(sampleTables()))
}

func TestUnbalanced_MissingMovement(t *testing.T) {
	tables := sampleTables()
	tables.FundMovements = tables.FundMovements[:1]

	got := Unbalanced(tables)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].PartyID)
	assert.Equal(t, currency.CHF, got[0].Currency)
	assert.Equal(t, "-42.17", got[0].Residual.String())
}

func TestUnbalanced_WithinOneCent(t *testing.T) {
	tables := sampleTables()
	tables.FundMovements[1].Value = dec("-42.175")
	assert.Empty(t, Unbalanced(tables))

	tables.FundMovements[1].Value = dec("-42.18")
	assert.Len(t, Unbalanced(tables), 1)
}

func TestUnbalanced_SplitAcrossCurrencies(t *testing.T) {
	// An EUR income paid out partly as a SEK expense: each currency must offset on its own.
	tables := Tables{
		Incomes: []model.Income{
			{ID: 0, Flow: model.Flow{Value: dec("120"), Currency: currency.EUR, PartyID: 3}},
		},
		Expenses: []model.Expense{
			{ID: 0, Flow: model.Flow{Value: dec("100"), Currency: currency.SEK, PartyID: 3}},
		},
		FundMovements: []model.FundMovement{
			{ID: 0, Type: model.Credit, Value: dec("120"), Currency: currency.EUR, PartyID: 3},
			{ID: 1, Type: model.Debit, Value: dec("-100"), Currency: currency.SEK, PartyID: 3},
		},
	}
	assert.Empty(t, Unbalanced(tables))

	tables.FundMovements[1].Currency = currency.EUR
	got := Unbalanced(tables)
	require.Len(t, got, 2)
	assert.Equal(t, currency.EUR, got[0].Currency)
	assert.Equal(t, currency.SEK, got[1].Currency)
}
