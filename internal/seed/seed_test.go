package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partida-dev/partida/internal/config"
	"github.com/partida-dev/partida/internal/currency"
	"github.com/partida-dev/partida/internal/ledger"
	"github.com/partida-dev/partida/internal/model"
)

func TestDefaults(t *testing.T) {
	rows, err := Defaults(config.Default().Seed)
	require.NoError(t, err)
	require.Len(t, rows.Entities, 1)
	require.Len(t, rows.Accounts, 1)

	ent := rows.Entities[0]
	assert.Equal(t, 0, ent.ID)
	assert.Equal(t, model.EntityTypeFirm, ent.Type)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ent.CreationDate)

	acct := rows.Accounts[0]
	assert.Equal(t, 0, acct.ID)
	assert.Equal(t, currency.EUR, acct.Currency)
	assert.Equal(t, model.AccountTypeDeposit, acct.Type)
	assert.True(t, acct.InitialBalance.IsZero())
}

func TestDefaults_Validates(t *testing.T) {
	rows, err := Defaults(config.Default().Seed)
	require.NoError(t, err)
	tables := ledger.Tables{Entities: rows.Entities, Accounts: rows.Accounts}
	opts := ledger.Options{Currencies: currency.MustSet(currency.Defaults...)}
	assert.Empty(t, ledger.Validate(tables, opts))
}

func TestDefaults_UnknownType(t *testing.T) {
	cfg := config.Default().Seed
	cfg.EntityType = "Cooperative"
	_, err := Defaults(cfg)
	assert.ErrorContains(t, err, "Cooperative")

	cfg = config.Default().Seed
	cfg.AccountType = "Crypto"
	_, err = Defaults(cfg)
	assert.ErrorContains(t, err, "Crypto")
}

func TestDefaults_BadBalance(t *testing.T) {
	cfg := config.Default().Seed
	cfg.InitialBalance = "lots"
	_, err := Defaults(cfg)
	assert.Error(t, err)
}

func TestResolve_PrefersExisting(t *testing.T) {
	existing := ledger.Tables{
		Entities: []model.Entity{
			{ID: 0, Name: "Household", Type: model.EntityTypeHuman},
			{ID: 1, Name: "Landlord", Type: model.EntityTypeFirm},
		},
	}
	rows, err := Resolve(existing, []ledger.Table{ledger.EntityTable}, config.Default().Seed)
	require.NoError(t, err)
	assert.Len(t, rows.Entities, 2)
	assert.Equal(t, "Household", rows.Entities[0].Name)
	require.Len(t, rows.Accounts, 1, "missing account table falls back to the default")
	assert.Equal(t, currency.EUR, rows.Accounts[0].Currency)
}

func TestResolve_NothingOnDisk(t *testing.T) {
	rows, err := Resolve(ledger.Tables{}, nil, config.Default().Seed)
	require.NoError(t, err)
	assert.Len(t, rows.Entities, 1)
	assert.Len(t, rows.Accounts, 1)
}
