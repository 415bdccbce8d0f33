package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partida-dev/partida/internal/config"
)

func TestLayoutFromConfig_Default(t *testing.T) {
	l, err := LayoutFromConfig(DefaultRegistry(), config.Default().Importer)
	require.NoError(t, err)
	assert.Equal(t, MonthlyBudget, l)
}

func TestLayoutFromConfig_Overrides(t *testing.T) {
	skip := 0
	cfg := config.ImporterConfig{
		Layout:         "monthly-budget",
		SkipRows:       &skip,
		ExpenseColumns: []int{0, 1, 2, 3},
		IncomeColumns:  []int{5, 6, 7, 8},
		DateFormats:    []string{"02/01/2006"},
	}
	l, err := LayoutFromConfig(DefaultRegistry(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, l.SkipRows)
	assert.Equal(t, Columns{Date: 0, Amount: 1, Description: 2, Category: 3}, l.Expense)
	assert.Equal(t, 5, l.Income.Date)
	assert.Equal(t, []string{"02/01/2006"}, l.DateFormats)
	assert.Equal(t, 3, MonthlyBudget.SkipRows, "registered layout is not mutated")
}

func TestLayoutFromConfig_Errors(t *testing.T) {
	_, err := LayoutFromConfig(DefaultRegistry(), config.ImporterConfig{Layout: "bank"})
	assert.ErrorContains(t, err, "monthly-budget")

	_, err = LayoutFromConfig(DefaultRegistry(), config.ImporterConfig{Layout: "monthly-budget", IncomeColumns: []int{1}})
	assert.ErrorContains(t, err, "income_columns")

	neg := -2
	_, err = LayoutFromConfig(DefaultRegistry(), config.ImporterConfig{Layout: "monthly-budget", SkipRows: &neg})
	assert.Error(t, err)
}
