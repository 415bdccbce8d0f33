package importer

import (
	"fmt"
	"strings"

	"github.com/partida-dev/partida/internal/config"
)

// LayoutFromConfig looks up the configured layout and applies any overrides.
func LayoutFromConfig(reg *Registry, cfg config.ImporterConfig) (Layout, error) {
	l, ok := reg.Get(cfg.Layout)
	if !ok {
		return Layout{}, fmt.Errorf("unknown import layout %q (known: %s)", cfg.Layout, strings.Join(reg.Names(), ", "))
	}
	if cfg.SkipRows != nil {
		if *cfg.SkipRows < 0 {
			return Layout{}, fmt.Errorf("skip_rows must be non-negative, got %d", *cfg.SkipRows)
		}
		l.SkipRows = *cfg.SkipRows
	}
	if len(cfg.ExpenseColumns) > 0 {
		c, err := ColumnsOf(cfg.ExpenseColumns)
		if err != nil {
			return Layout{}, fmt.Errorf("expense_columns: %w", err)
		}
		l.Expense = c
	}
	if len(cfg.IncomeColumns) > 0 {
		c, err := ColumnsOf(cfg.IncomeColumns)
		if err != nil {
			return Layout{}, fmt.Errorf("income_columns: %w", err)
		}
		l.Income = c
	}
	if len(cfg.DateFormats) > 0 {
		l.DateFormats = cfg.DateFormats
	}
	return l, nil
}
