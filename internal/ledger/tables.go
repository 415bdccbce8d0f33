package ledger

import (
	"strings"

	"github.com/partida-dev/partida/internal/model"
)

// Table names one of the six ledger tables.
type Table string

const (
	PartyTable        Table = "party"
	EntityTable       Table = "entity"
	AccountTable      Table = "account"
	IncomeTable       Table = "income"
	ExpenseTable      Table = "expense"
	FundMovementTable Table = "fund_movement"
)

// AllTables lists every table in write order.
var AllTables = []Table{EntityTable, AccountTable, PartyTable, IncomeTable, ExpenseTable, FundMovementTable}

// Column lists, in file order.
const (
	PartyHeader        = "party_id,creation_date"
	EntityHeader       = "entity_id,name,country,entity_type,entity_subtype,creation_date"
	AccountHeader      = "account_id,name,country,currency,account_type,initial_balance,creation_date"
	IncomeHeader       = "income_id,value,currency,date,category,subcategory,description,entity_id,party_id"
	ExpenseHeader      = "expense_id,value,currency,date,category,subcategory,description,entity_id,party_id"
	FundMovementHeader = "fund_movement_id,fund_movement_type,value,currency,date,account_id,party_id"
)

// FileName returns the CSV file name, e.g. "fund_movement_table.csv".
func (t Table) FileName() string { return string(t) + "_table.csv" }

// Header returns the exact header line of the table's CSV file.
func (t Table) Header() string {
	switch t {
	case PartyTable:
		return PartyHeader
	case EntityTable:
		return EntityHeader
	case AccountTable:
		return AccountHeader
	case IncomeTable:
		return IncomeHeader
	case ExpenseTable:
		return ExpenseHeader
	case FundMovementTable:
		return FundMovementHeader
	}
	return ""
}

// Columns returns the header split into column names.
func (t Table) Columns() []string { return strings.Split(t.Header(), ",") }

// Tables is one in-memory snapshot of the ledger.
type Tables struct {
	Parties       []model.Party
	Entities      []model.Entity
	Accounts      []model.Account
	Incomes       []model.Income
	Expenses      []model.Expense
	FundMovements []model.FundMovement
}

// Len returns the row count of one table.
func (t Tables) Len(table Table) int {
	switch table {
	case PartyTable:
		return len(t.Parties)
	case EntityTable:
		return len(t.Entities)
	case AccountTable:
		return len(t.Accounts)
	case IncomeTable:
		return len(t.Incomes)
	case ExpenseTable:
		return len(t.Expenses)
	case FundMovementTable:
		return len(t.FundMovements)
	}
	return 0
}
