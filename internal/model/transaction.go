package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/partida-dev/partida/internal/currency"
)

// Flow is the part shared by income and expense rows. Value is always stored
// positive; the direction comes from the table the row lives in.
type Flow struct {
	Value       decimal.Decimal
	Currency    currency.Code
	Date        time.Time
	Category    string // salary, rent, groceries
	Subcategory string // regular salary, train, hairdresser
	Description string
	EntityID    int
	PartyID     int
}

// Income represents a row in income_table.csv.
type Income struct {
	ID int
	Flow
}

// Expense represents a row in expense_table.csv.
type Expense struct {
	ID int
	Flow
}

// FundMovementType is the direction of a posting against an account.
type FundMovementType string

const (
	Credit FundMovementType = "Credit"
	Debit  FundMovementType = "Debit"
)

// FundMovement represents a row in fund_movement_table.csv.
// Value is signed: positive for Credit, negative for Debit.
type FundMovement struct {
	ID        int
	Type      FundMovementType
	Value     decimal.Decimal
	Currency  currency.Code
	Date      time.Time
	AccountID int
	PartyID   int
}

// NewFundMovement signs amount according to typ. amount is taken as a magnitude.
func NewFundMovement(typ FundMovementType, amount decimal.Decimal) FundMovement {
	v := amount.Abs()
	if typ == Debit {
		v = v.Neg()
	}
	return FundMovement{Type: typ, Value: v}
}

// SignMatches reports whether the value's sign agrees with the movement type.
func (m FundMovement) SignMatches() bool {
	switch m.Type {
	case Credit:
		return m.Value.IsPositive()
	case Debit:
		return m.Value.IsNegative()
	default:
		return false
	}
}
