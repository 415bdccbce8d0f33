package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partida-dev/partida/internal/currency"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	seed := int64(42)
	cfg.Generator.Seed = &seed
	cfg.Symbols = map[string]currency.Code{"€": currency.EUR, "SEK": currency.SEK}
	skip := 2
	cfg.Importer.SkipRows = &skip

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Currencies, got.Currencies)
	assert.Equal(t, cfg.Symbols, got.Symbols)
	assert.Equal(t, cfg.Paths, got.Paths)
	assert.Equal(t, cfg.Seed, got.Seed)
	require.NotNil(t, got.Generator.Seed)
	assert.Equal(t, int64(42), *got.Generator.Seed)
	assert.Equal(t, cfg.Generator.Salary, got.Generator.Salary)
	assert.Equal(t, cfg.Generator.Categories, got.Generator.Categories)
	require.NotNil(t, got.Importer.SkipRows)
	assert.Equal(t, 2, *got.Importer.SkipRows)
	assert.Equal(t, cfg.Git, got.Git)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []currency.Code{currency.EUR, currency.CHF, currency.SEK}, cfg.Currencies)
	assert.Equal(t, "data", cfg.Paths.Data)
	assert.Equal(t, "2024-01-01", cfg.Generator.ReferenceDate)
	assert.Equal(t, 12, cfg.Generator.Periods)
	assert.Equal(t, 25, cfg.Generator.FirstOffsetDays)
	assert.Equal(t, 30, cfg.Generator.PeriodDays)
	assert.Equal(t, "34094.2", cfg.Generator.Salary)
	assert.Equal(t, "1150", cfg.Generator.Rent)
	assert.Equal(t, 250, cfg.Generator.Discretionary)
	assert.Equal(t, []currency.Code{currency.EUR, currency.CHF}, cfg.Generator.Currencies)
	assert.Nil(t, cfg.Generator.Seed)
	assert.Equal(t, "monthly-budget", cfg.Importer.Layout)
	assert.False(t, cfg.Git.AutoCommit)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("generator:\n  discretionary: 10\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Generator.Discretionary)
	assert.Equal(t, 12, cfg.Generator.Periods)
	assert.Equal(t, "34094.2", cfg.Generator.Salary)
}

func TestLoad_UnknownCurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("currencies: [EUR, QQQ]\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QQQ")
}

func TestValidate_GeneratorCurrencyOutsideSet(t *testing.T) {
	cfg := Default()
	cfg.Currencies = []currency.Code{currency.EUR, currency.SEK}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator currency CHF")
}

func TestValidate_BadAmount(t *testing.T) {
	cfg := Default()
	cfg.Generator.Rent = "1.150,00"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator.rent")
}

func TestValidate_MaxDiscretionaryTooSmall(t *testing.T) {
	cfg := Default()
	cfg.Generator.MaxDiscretionary = "0.01"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator.max_discretionary")

	cfg.Generator.MaxDiscretionary = "0.02"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_BadDate(t *testing.T) {
	cfg := Default()
	cfg.Generator.ReferenceDate = "01/01/2024"
	assert.Error(t, cfg.Validate())
}

func TestSymbolTable_Explicit(t *testing.T) {
	cfg := Default()
	cfg.Symbols = map[string]currency.Code{"€": currency.EUR, "SEK": currency.SEK}
	table, err := cfg.SymbolTable()
	require.NoError(t, err)

	_, ok := table.Lookup("CHF")
	assert.False(t, ok, "explicit symbols replace the derived ones")
	code, ok := table.Lookup("€")
	assert.True(t, ok)
	assert.Equal(t, currency.EUR, code)
}

func TestSymbolTable_Derived(t *testing.T) {
	table, err := Default().SymbolTable()
	require.NoError(t, err)
	for _, sym := range []string{"EUR", "CHF", "SEK", "€"} {
		_, ok := table.Lookup(sym)
		assert.True(t, ok, "symbol %q", sym)
	}
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "reference_date: \"2024-01-01\"")
	assert.Contains(t, contents, "layout: monthly-budget")
	assert.Contains(t, contents, "discretionary: 250")
	assert.NotContains(t, contents, "symbols:")
}
