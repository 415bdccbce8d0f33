package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewFundMovement(t *testing.T) {
	tests := []struct {
		typ    FundMovementType
		amount string
		want   string
	}{
		{Credit, "34094.2", "34094.2"},
		{Credit, "-10", "10"},
		{Debit, "12.5", "-12.5"},
		{Debit, "-12.5", "-12.5"},
	}
	for _, tt := range tests {
		m := NewFundMovement(tt.typ, decimal.RequireFromString(tt.amount))
		assert.Equal(t, tt.typ, m.Type)
		assert.Equal(t, tt.want, m.Value.String(), "NewFundMovement(%s, %s)", tt.typ, tt.amount)
		assert.True(t, m.SignMatches())
	}
}

func TestFundMovementSignMatches(t *testing.T) {
	tests := []struct {
		typ   FundMovementType
		value string
		want  bool
	}{
		{Credit, "1", true},
		{Credit, "-1", false},
		{Credit, "0", false},
		{Debit, "-1", true},
		{Debit, "1", false},
		{Debit, "0", false},
		{"Transfer", "1", false},
	}
	for _, tt := range tests {
		m := FundMovement{Type: tt.typ, Value: decimal.RequireFromString(tt.value)}
		assert.Equal(t, tt.want, m.SignMatches(), "%s %s", tt.typ, tt.value)
	}
}
