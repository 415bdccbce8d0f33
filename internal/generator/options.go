package generator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/partida-dev/partida/internal/config"
	"github.com/partida-dev/partida/internal/seed"
)

// FromConfig builds Options from partida.yaml settings and the reference rows
// generated events point at.
func FromConfig(cfg config.GeneratorConfig, seedCfg config.SeedConfig, rows seed.Rows, rngSeed int64) (Options, error) {
	ref, err := config.ParseDate(cfg.ReferenceDate)
	if err != nil {
		return Options{}, fmt.Errorf("reference date: %w", err)
	}
	amounts := make(map[string]decimal.Decimal, 3)
	for name, s := range map[string]string{
		"salary":            cfg.Salary,
		"rent":              cfg.Rent,
		"max_discretionary": cfg.MaxDiscretionary,
	} {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Options{}, fmt.Errorf("%s %q: %w", name, s, err)
		}
		amounts[name] = d
	}

	return Options{
		Seed:              rngSeed,
		ReferenceDate:     ref,
		Periods:           cfg.Periods,
		FirstOffsetDays:   cfg.FirstOffsetDays,
		PeriodDays:        cfg.PeriodDays,
		Salary:            amounts["salary"],
		SalaryCategory:    cfg.SalaryCategory,
		SalarySubcategory: cfg.SalarySubcategory,
		Rent:              amounts["rent"],
		RentCategory:      cfg.RentCategory,
		Discretionary:     cfg.Discretionary,
		MaxDiscretionary:  amounts["max_discretionary"],
		HorizonDays:       cfg.HorizonDays,
		Categories:        cfg.Categories,
		Currencies:        cfg.Currencies,
		EntityID:          seedCfg.EntityID,
		AccountID:         seedCfg.AccountID,
		Entities:          rows.Entities,
		Accounts:          rows.Accounts,
	}, nil
}
