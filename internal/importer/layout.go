package importer

import (
	"fmt"
	"slices"
	"strings"
)

// Section is one side of an export: the expense block or the income block.
type Section string

const (
	ExpenseSection Section = "expense"
	IncomeSection  Section = "income"
)

// HeaderNames are the header cells every section must carry, in column order.
var HeaderNames = []string{"Date", "Amount", "Description", "Category"}

// Columns holds the zero-based source offsets of one section's four cells.
type Columns struct {
	Date        int
	Amount      int
	Description int
	Category    int
}

// ColumnsOf builds Columns from offsets listed in HeaderNames order.
func ColumnsOf(offsets []int) (Columns, error) {
	if len(offsets) != len(HeaderNames) {
		return Columns{}, fmt.Errorf("expected %d column offsets, got %d", len(HeaderNames), len(offsets))
	}
	for _, o := range offsets {
		if o < 0 {
			return Columns{}, fmt.Errorf("negative column offset %d", o)
		}
	}
	return Columns{Date: offsets[0], Amount: offsets[1], Description: offsets[2], Category: offsets[3]}, nil
}

func (c Columns) offsets() []int { return []int{c.Date, c.Amount, c.Description, c.Category} }

func (c Columns) width() int { return slices.Max(c.offsets()) + 1 }

// Layout describes where the data sits in one kind of export.
type Layout struct {
	Name        string
	SkipRows    int // preamble rows before the header row
	Expense     Columns
	Income      Columns
	DateFormats []string // tried in order
}

func (l Layout) columns(s Section) Columns {
	if s == IncomeSection {
		return l.Income
	}
	return l.Expense
}

// MonthlyBudget is the spreadsheet export with expenses on the left and
// income on the right, below a three-row title block.
var MonthlyBudget = Layout{
	Name:        "monthly-budget",
	SkipRows:    3,
	Expense:     Columns{Date: 1, Amount: 2, Description: 3, Category: 4},
	Income:      Columns{Date: 6, Amount: 7, Description: 8, Category: 9},
	DateFormats: []string{"2006-01-02", "2/1/2006", "2.1.2006", "2-1-2006"},
}

// Registry holds named layouts.
type Registry struct {
	layouts map[string]Layout
}

// NewRegistry creates an empty layout registry.
func NewRegistry() *Registry {
	return &Registry{layouts: make(map[string]Layout)}
}

// Register adds a layout. Panics on duplicate name.
func (r *Registry) Register(l Layout) {
	key := strings.ToLower(l.Name)
	if _, ok := r.layouts[key]; ok {
		panic("duplicate layout: " + key)
	}
	r.layouts[key] = l
}

// Get returns the layout registered under name.
func (r *Registry) Get(name string) (Layout, bool) {
	l, ok := r.layouts[strings.ToLower(name)]
	return l, ok
}

// Names returns the registered layout names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.layouts))
	for k := range r.layouts {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry returns a registry with all built-in layouts.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(MonthlyBudget)
	return r
}
