// Package seed builds the entity and account rows every ledger starts with.
package seed

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/partida-dev/partida/internal/config"
	"github.com/partida-dev/partida/internal/currency"
	"github.com/partida-dev/partida/internal/ledger"
	"github.com/partida-dev/partida/internal/model"
)

// Rows holds the reference tables generated and imported rows point at.
type Rows struct {
	Entities []model.Entity
	Accounts []model.Account
}

// Defaults returns the single entity and account described by the config.
func Defaults(cfg config.SeedConfig) (Rows, error) {
	created, err := config.ParseDate(cfg.CreationDate)
	if err != nil {
		return Rows{}, fmt.Errorf("seed creation date: %w", err)
	}
	balance, err := decimal.NewFromString(cfg.InitialBalance)
	if err != nil {
		return Rows{}, fmt.Errorf("seed initial balance %q: %w", cfg.InitialBalance, err)
	}

	entityType := model.EntityType(cfg.EntityType)
	if !slices.Contains(EntityTypes, entityType) {
		return Rows{}, fmt.Errorf("unknown entity type %q", cfg.EntityType)
	}
	accountType := model.AccountType(cfg.AccountType)
	if !slices.Contains(AccountTypes, accountType) {
		return Rows{}, fmt.Errorf("unknown account type %q", cfg.AccountType)
	}

	return Rows{
		Entities: []model.Entity{{
			ID:           cfg.EntityID,
			Name:         cfg.EntityName,
			Country:      cfg.EntityCountry,
			Type:         entityType,
			CreationDate: created,
		}},
		Accounts: []model.Account{{
			ID:             cfg.AccountID,
			Name:           cfg.AccountName,
			Country:        cfg.AccountCountry,
			Currency:       currency.Code(cfg.AccountCurrency),
			Type:           accountType,
			InitialBalance: balance,
			CreationDate:   created,
		}},
	}, nil
}

// Resolve prefers the entity and account tables already on disk and falls
// back to the configured defaults for whichever one is absent.
func Resolve(existing ledger.Tables, present []ledger.Table, cfg config.SeedConfig) (Rows, error) {
	defaults, err := Defaults(cfg)
	if err != nil {
		return Rows{}, err
	}
	rows := defaults
	if slices.Contains(present, ledger.EntityTable) {
		rows.Entities = existing.Entities
	}
	if slices.Contains(present, ledger.AccountTable) {
		rows.Accounts = existing.Accounts
	}
	return rows, nil
}

// EntityTypes lists the recognised entity classifications.
var EntityTypes = []model.EntityType{
	model.EntityTypeFirm,
	model.EntityTypeHuman,
	model.EntityTypeState,
	model.EntityTypeNGO,
}

// AccountTypes lists the recognised account classifications.
var AccountTypes = []model.AccountType{
	model.AccountTypeDeposit,
	model.AccountTypeInvestment,
	model.AccountTypeCash,
}
