// Package importer normalizes a spreadsheet export into income, expense and
// party rows.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/partida-dev/partida/internal/currency"
	"github.com/partida-dev/partida/internal/id"
	"github.com/partida-dev/partida/internal/ledger"
	"github.com/partida-dev/partida/internal/model"
)

// RowError reports one source row rejected from one section. The row is left
// out of the result; the rest of the batch is kept.
type RowError struct {
	Row     int // 1-based record number in the source file
	Section Section
	Value   string
	Err     error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Row, e.Section, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Result is the outcome of one import.
type Result struct {
	Incomes   []model.Income
	Expenses  []model.Expense
	Parties   []model.Party
	Processed int // section rows that carried data, accepted or not
	Rejected  []*RowError
}

// Tables returns the imported rows as a ledger snapshot.
func (r Result) Tables() ledger.Tables {
	return ledger.Tables{Incomes: r.Incomes, Expenses: r.Expenses, Parties: r.Parties}
}

// Importer converts export rows using one layout and one symbol table.
type Importer struct {
	layout   Layout
	symbols  *currency.Table
	now      func() time.Time
	entityID int
	partyID  int
}

// Option configures an Importer.
type Option func(*Importer)

// WithClock replaces time.Now as the source of the party creation date.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

// WithEntity attributes every imported row to entityID instead of 0.
func WithEntity(entityID int) Option {
	return func(im *Importer) { im.entityID = entityID }
}

// New creates an Importer.
func New(layout Layout, symbols *currency.Table, opts ...Option) *Importer {
	im := &Importer{layout: layout, symbols: symbols, now: time.Now}
	for _, o := range opts {
		o(im)
	}
	return im
}

// ImportFile reads and imports one export file.
func (im *Importer) ImportFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return Result{}, err
	}
	return im.Import(rows)
}

// ReadRows reads every record of an export. Rows may differ in length.
func ReadRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading export CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// Import converts rows into income, expense and party tables. Only a
// structural problem with the export returns an error; bad rows are collected
// in Result.Rejected.
//
// Every row is attributed to the same entity and to a single party created
// today, so one party backs many events.
func (im *Importer) Import(rows [][]string) (Result, error) {
	if len(rows) <= im.layout.SkipRows {
		return Result{}, &ledger.StructuralError{
			Reason: fmt.Sprintf("export has %d rows, expected a header after %d preamble rows", len(rows), im.layout.SkipRows),
		}
	}
	header := rows[im.layout.SkipRows]
	for _, s := range []Section{ExpenseSection, IncomeSection} {
		if err := checkHeader(header, s, im.layout.columns(s)); err != nil {
			return Result{}, err
		}
	}

	var (
		res      Result
		incomes  id.Sequence
		expenses id.Sequence
	)
	for i, row := range rows[im.layout.SkipRows+1:] {
		line := im.layout.SkipRows + 2 + i
		for _, s := range []Section{ExpenseSection, IncomeSection} {
			cells := sectionCells(row, im.layout.columns(s))
			if blank(cells) {
				continue
			}
			res.Processed++

			flow, rerr := im.parse(cells)
			if rerr != nil {
				rerr.Row = line
				rerr.Section = s
				res.Rejected = append(res.Rejected, rerr)
				continue
			}
			if s == IncomeSection {
				res.Incomes = append(res.Incomes, model.Income{ID: incomes.Next(), Flow: flow})
			} else {
				res.Expenses = append(res.Expenses, model.Expense{ID: expenses.Next(), Flow: flow})
			}
		}
	}

	y, m, d := im.now().Date()
	res.Parties = []model.Party{{ID: im.partyID, CreationDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}}
	return res, nil
}

func (im *Importer) parse(cells []string) (model.Flow, *RowError) {
	date, err := im.parseDate(cells[0])
	if err != nil {
		return model.Flow{}, &RowError{Value: cells[0], Err: err}
	}
	value, code, err := ParseAmount(cells[1], im.symbols)
	if err != nil {
		return model.Flow{}, &RowError{Value: cells[1], Err: err}
	}
	return model.Flow{
		Value:       value,
		Currency:    code,
		Date:        date,
		Category:    cells[3],
		Description: cells[2],
		EntityID:    im.entityID,
		PartyID:     im.partyID,
	}, nil
}

func (im *Importer) parseDate(s string) (time.Time, error) {
	for _, layout := range im.layout.DateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
}

func checkHeader(header []string, s Section, c Columns) error {
	table := ledger.ExpenseTable
	if s == IncomeSection {
		table = ledger.IncomeTable
	}
	if len(header) < c.width() {
		return &ledger.StructuralError{
			Table:  table,
			Reason: fmt.Sprintf("header has %d columns, %s section needs %d", len(header), s, c.width()),
		}
	}
	for i, off := range c.offsets() {
		got := strings.TrimSpace(header[off])
		if !strings.EqualFold(got, HeaderNames[i]) {
			return &ledger.StructuralError{
				Table:  table,
				Reason: fmt.Sprintf("header column %d is %q, want %q", off, got, HeaderNames[i]),
			}
		}
	}
	return nil
}

// sectionCells returns the trimmed date, amount, description and category
// cells. Cells beyond the end of a short row read as blank.
func sectionCells(row []string, c Columns) []string {
	out := make([]string, 0, len(HeaderNames))
	for _, off := range c.offsets() {
		var cell string
		if off < len(row) {
			cell = strings.TrimSpace(row[off])
		}
		out = append(out, cell)
	}
	return out
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
