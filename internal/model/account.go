package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/partida-dev/partida/internal/currency"
)

// AccountType classifies where funds are held.
type AccountType string

const (
	AccountTypeDeposit    AccountType = "Deposit"
	AccountTypeInvestment AccountType = "Investment"
	AccountTypeCash       AccountType = "Cash"
)

// Account represents a row in account_table.csv.
type Account struct {
	ID             int
	Name           string
	Country        string
	Currency       currency.Code
	Type           AccountType
	InitialBalance decimal.Decimal
	CreationDate   time.Time
}

// EntityType classifies the reporting organization or person.
type EntityType string

const (
	EntityTypeFirm  EntityType = "Firm"
	EntityTypeHuman EntityType = "Human"
	EntityTypeState EntityType = "State"
	EntityTypeNGO   EntityType = "NGO"
)

// Entity represents a row in entity_table.csv.
type Entity struct {
	ID           int
	Name         string
	Country      string
	Type         EntityType
	Subtype      string // supermarket, pharmacy, ...
	CreationDate time.Time
}

// Party is the counterpart identity of one economic event.
type Party struct {
	ID           int
	CreationDate time.Time
}
