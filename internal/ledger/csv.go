package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/partida-dev/partida/internal/currency"
	"github.com/partida-dev/partida/internal/model"
)

// DateFormat is the on-disk format of every date column.
const DateFormat = "2006-01-02"

const (
	partyFields    = 2
	partyColID     = 0
	partyColCreate = 1
)

const (
	entityFields     = 6
	entityColID      = 0
	entityColName    = 1
	entityColCountry = 2
	entityColType    = 3
	entityColSubtype = 4
	entityColCreate  = 5
)

const (
	accountFields      = 7
	accountColID       = 0
	accountColName     = 1
	accountColCountry  = 2
	accountColCurrency = 3
	accountColType     = 4
	accountColBalance  = 5
	accountColCreate   = 6
)

// Income and expense rows share one layout; only the key column name differs.
const (
	flowFields      = 9
	flowColID       = 0
	flowColValue    = 1
	flowColCurrency = 2
	flowColDate     = 3
	flowColCategory = 4
	flowColSubcat   = 5
	flowColDesc     = 6
	flowColEntity   = 7
	flowColParty    = 8
)

const (
	fundFields      = 7
	fundColID       = 0
	fundColType     = 1
	fundColValue    = 2
	fundColCurrency = 3
	fundColDate     = 4
	fundColAccount  = 5
	fundColParty    = 6
)

// MarshalParty converts a Party to a CSV row.
func MarshalParty(p model.Party) []string {
	row := make([]string, partyFields)
	row[partyColID] = strconv.Itoa(p.ID)
	row[partyColCreate] = p.CreationDate.Format(DateFormat)
	return row
}

// UnmarshalParty converts a CSV row to a Party.
func UnmarshalParty(record []string) (model.Party, error) {
	if len(record) != partyFields {
		return model.Party{}, fmt.Errorf("expected %d fields, got %d", partyFields, len(record))
	}
	id, err := parseKey(record[partyColID], "party_id")
	if err != nil {
		return model.Party{}, err
	}
	created, err := parseDate(record[partyColCreate], "creation_date")
	if err != nil {
		return model.Party{}, err
	}
	return model.Party{ID: id, CreationDate: created}, nil
}

// MarshalEntity converts an Entity to a CSV row.
func MarshalEntity(e model.Entity) []string {
	row := make([]string, entityFields)
	row[entityColID] = strconv.Itoa(e.ID)
	row[entityColName] = e.Name
	row[entityColCountry] = e.Country
	row[entityColType] = string(e.Type)
	row[entityColSubtype] = e.Subtype
	row[entityColCreate] = e.CreationDate.Format(DateFormat)
	return row
}

// UnmarshalEntity converts a CSV row to an Entity.
func UnmarshalEntity(record []string) (model.Entity, error) {
	if len(record) != entityFields {
		return model.Entity{}, fmt.Errorf("expected %d fields, got %d", entityFields, len(record))
	}
	id, err := parseKey(record[entityColID], "entity_id")
	if err != nil {
		return model.Entity{}, err
	}
	created, err := parseDate(record[entityColCreate], "creation_date")
	if err != nil {
		return model.Entity{}, err
	}
	return model.Entity{
		ID:           id,
		Name:         record[entityColName],
		Country:      record[entityColCountry],
		Type:         model.EntityType(record[entityColType]),
		Subtype:      record[entityColSubtype],
		CreationDate: created,
	}, nil
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, accountFields)
	row[accountColID] = strconv.Itoa(a.ID)
	row[accountColName] = a.Name
	row[accountColCountry] = a.Country
	row[accountColCurrency] = string(a.Currency)
	row[accountColType] = string(a.Type)
	row[accountColBalance] = a.InitialBalance.String()
	row[accountColCreate] = a.CreationDate.Format(DateFormat)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != accountFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", accountFields, len(record))
	}
	id, err := parseKey(record[accountColID], "account_id")
	if err != nil {
		return model.Account{}, err
	}
	balance, err := parseValue(record[accountColBalance], "initial_balance")
	if err != nil {
		return model.Account{}, err
	}
	created, err := parseDate(record[accountColCreate], "creation_date")
	if err != nil {
		return model.Account{}, err
	}
	return model.Account{
		ID:             id,
		Name:           record[accountColName],
		Country:        record[accountColCountry],
		Currency:       currency.Code(record[accountColCurrency]),
		Type:           model.AccountType(record[accountColType]),
		InitialBalance: balance,
		CreationDate:   created,
	}, nil
}

// MarshalIncome converts an Income to a CSV row.
func MarshalIncome(in model.Income) []string { return marshalFlow(in.ID, in.Flow) }

// UnmarshalIncome converts a CSV row to an Income.
func UnmarshalIncome(record []string) (model.Income, error) {
	key, flow, err := unmarshalFlow(record, "income_id")
	if err != nil {
		return model.Income{}, err
	}
	return model.Income{ID: key, Flow: flow}, nil
}

// MarshalExpense converts an Expense to a CSV row.
func MarshalExpense(ex model.Expense) []string { return marshalFlow(ex.ID, ex.Flow) }

// UnmarshalExpense converts a CSV row to an Expense.
func UnmarshalExpense(record []string) (model.Expense, error) {
	key, flow, err := unmarshalFlow(record, "expense_id")
	if err != nil {
		return model.Expense{}, err
	}
	return model.Expense{ID: key, Flow: flow}, nil
}

func marshalFlow(key int, f model.Flow) []string {
	row := make([]string, flowFields)
	row[flowColID] = strconv.Itoa(key)
	row[flowColValue] = f.Value.String()
	row[flowColCurrency] = string(f.Currency)
	row[flowColDate] = f.Date.Format(DateFormat)
	row[flowColCategory] = f.Category
	row[flowColSubcat] = f.Subcategory
	row[flowColDesc] = f.Description
	row[flowColEntity] = strconv.Itoa(f.EntityID)
	row[flowColParty] = strconv.Itoa(f.PartyID)
	return row
}

func unmarshalFlow(record []string, keyColumn string) (int, model.Flow, error) {
	if len(record) != flowFields {
		return 0, model.Flow{}, fmt.Errorf("expected %d fields, got %d", flowFields, len(record))
	}
	key, err := parseKey(record[flowColID], keyColumn)
	if err != nil {
		return 0, model.Flow{}, err
	}
	value, err := parseValue(record[flowColValue], "value")
	if err != nil {
		return 0, model.Flow{}, err
	}
	date, err := parseDate(record[flowColDate], "date")
	if err != nil {
		return 0, model.Flow{}, err
	}
	entityID, err := parseKey(record[flowColEntity], "entity_id")
	if err != nil {
		return 0, model.Flow{}, err
	}
	partyID, err := parseKey(record[flowColParty], "party_id")
	if err != nil {
		return 0, model.Flow{}, err
	}
	return key, model.Flow{
		Value:       value,
		Currency:    currency.Code(record[flowColCurrency]),
		Date:        date,
		Category:    record[flowColCategory],
		Subcategory: record[flowColSubcat],
		Description: record[flowColDesc],
		EntityID:    entityID,
		PartyID:     partyID,
	}, nil
}

// MarshalFundMovement converts a FundMovement to a CSV row.
func MarshalFundMovement(m model.FundMovement) []string {
	row := make([]string, fundFields)
	row[fundColID] = strconv.Itoa(m.ID)
	row[fundColType] = string(m.Type)
	row[fundColValue] = m.Value.String()
	row[fundColCurrency] = string(m.Currency)
	row[fundColDate] = m.Date.Format(DateFormat)
	row[fundColAccount] = strconv.Itoa(m.AccountID)
	row[fundColParty] = strconv.Itoa(m.PartyID)
	return row
}

// UnmarshalFundMovement converts a CSV row to a FundMovement.
func UnmarshalFundMovement(record []string) (model.FundMovement, error) {
	if len(record) != fundFields {
		return model.FundMovement{}, fmt.Errorf("expected %d fields, got %d", fundFields, len(record))
	}
	key, err := parseKey(record[fundColID], "fund_movement_id")
	if err != nil {
		return model.FundMovement{}, err
	}
	value, err := parseValue(record[fundColValue], "value")
	if err != nil {
		return model.FundMovement{}, err
	}
	date, err := parseDate(record[fundColDate], "date")
	if err != nil {
		return model.FundMovement{}, err
	}
	accountID, err := parseKey(record[fundColAccount], "account_id")
	if err != nil {
		return model.FundMovement{}, err
	}
	partyID, err := parseKey(record[fundColParty], "party_id")
	if err != nil {
		return model.FundMovement{}, err
	}
	return model.FundMovement{
		ID:        key,
		Type:      model.FundMovementType(record[fundColType]),
		Value:     value,
		Currency:  currency.Code(record[fundColCurrency]),
		Date:      date,
		AccountID: accountID,
		PartyID:   partyID,
	}, nil
}

// ReadParties reads party_table.csv.
func ReadParties(r io.Reader) ([]model.Party, error) {
	return readTable(r, PartyTable, UnmarshalParty)
}

// WriteParties writes party_table.csv (including header).
func WriteParties(w io.Writer, rows []model.Party) error {
	return writeTable(w, PartyTable, rows, MarshalParty)
}

// ReadEntities reads entity_table.csv.
func ReadEntities(r io.Reader) ([]model.Entity, error) {
	return readTable(r, EntityTable, UnmarshalEntity)
}

// WriteEntities writes entity_table.csv (including header).
func WriteEntities(w io.Writer, rows []model.Entity) error {
	return writeTable(w, EntityTable, rows, MarshalEntity)
}

// ReadAccounts reads account_table.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	return readTable(r, AccountTable, UnmarshalAccount)
}

// WriteAccounts writes account_table.csv (including header).
func WriteAccounts(w io.Writer, rows []model.Account) error {
	return writeTable(w, AccountTable, rows, MarshalAccount)
}

// ReadIncomes reads income_table.csv.
func ReadIncomes(r io.Reader) ([]model.Income, error) {
	return readTable(r, IncomeTable, UnmarshalIncome)
}

// WriteIncomes writes income_table.csv (including header).
func WriteIncomes(w io.Writer, rows []model.Income) error {
	return writeTable(w, IncomeTable, rows, MarshalIncome)
}

// ReadExpenses reads expense_table.csv.
func ReadExpenses(r io.Reader) ([]model.Expense, error) {
	return readTable(r, ExpenseTable, UnmarshalExpense)
}

// WriteExpenses writes expense_table.csv (including header).
func WriteExpenses(w io.Writer, rows []model.Expense) error {
	return writeTable(w, ExpenseTable, rows, MarshalExpense)
}

// ReadFundMovements reads fund_movement_table.csv.
func ReadFundMovements(r io.Reader) ([]model.FundMovement, error) {
	return readTable(r, FundMovementTable, UnmarshalFundMovement)
}

// WriteFundMovements writes fund_movement_table.csv (including header).
func WriteFundMovements(w io.Writer, rows []model.FundMovement) error {
	return writeTable(w, FundMovementTable, rows, MarshalFundMovement)
}

// readTable checks the header against the table's declared columns before
// decoding any row. A mismatch is a StructuralError; columns are never
// matched by name or reordered.
func readTable[T any](r io.Reader, table Table, unmarshal func([]string) (T, error)) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", table, err)
	}
	if len(records) == 0 {
		return nil, &StructuralError{Table: table, Reason: "missing header row"}
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if got := strings.Join(header, ","); got != table.Header() {
		return nil, &StructuralError{Table: table, Reason: fmt.Sprintf("header %q does not match %q", got, table.Header())}
	}

	want := len(table.Columns())
	var rows []T
	for i, rec := range records[1:] {
		if len(rec) != want {
			return nil, &StructuralError{Table: table, Reason: fmt.Sprintf("row %d: expected %d fields, got %d", i+2, want, len(rec))}
		}
		row, err := unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", table, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeTable[T any](w io.Writer, table Table, rows []T, marshal func(T) []string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(table.Columns()); err != nil {
		return fmt.Errorf("writing %s header: %w", table, err)
	}
	for i, row := range rows {
		if err := cw.Write(marshal(row)); err != nil {
			return fmt.Errorf("writing %s row %d: %w", table, i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseKey(s, column string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", column, s, err)
	}
	return n, nil
}

func parseValue(s, column string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s %q: %w", column, s, err)
	}
	return d, nil
}

func parseDate(s, column string) (time.Time, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", column, s, err)
	}
	return t, nil
}
