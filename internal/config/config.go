package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/partida-dev/partida/internal/currency"
)

// FileName is the project config file name.
const FileName = "partida.yaml"

// dateFormat is used for every date in the config file.
const dateFormat = "2006-01-02"

// minMaxDiscretionary is the smallest ceiling that still admits a cent value below it.
var minMaxDiscretionary = decimal.New(2, -2)

// Config represents the top-level partida.yaml configuration.
type Config struct {
	Currencies []currency.Code          `yaml:"currencies"`
	Symbols    map[string]currency.Code `yaml:"symbols,omitempty"` // export token -> code; derived when empty
	Paths      PathsConfig              `yaml:"paths"`
	Seed       SeedConfig               `yaml:"seed"`
	Generator  GeneratorConfig          `yaml:"generator"`
	Importer   ImporterConfig           `yaml:"importer"`
	Git        GitConfig                `yaml:"git"`
}

// PathsConfig locates output directories, relative to the project root.
type PathsConfig struct {
	Data string `yaml:"data"`
	Logs string `yaml:"logs"`
}

// SeedConfig describes the default entity and account rows every ledger starts with.
type SeedConfig struct {
	CreationDate    string `yaml:"creation_date"`
	EntityID        int    `yaml:"entity_id"`
	EntityName      string `yaml:"entity_name"`
	EntityCountry   string `yaml:"entity_country"`
	EntityType      string `yaml:"entity_type"`
	AccountID       int    `yaml:"account_id"`
	AccountName     string `yaml:"account_name"`
	AccountCountry  string `yaml:"account_country"`
	AccountCurrency string `yaml:"account_currency"`
	AccountType     string `yaml:"account_type"`
	InitialBalance  string `yaml:"initial_balance"`
}

// GeneratorConfig holds the synthetic ledger parameters.
type GeneratorConfig struct {
	Seed              *int64          `yaml:"seed,omitempty"` // unset = time-based
	ReferenceDate     string          `yaml:"reference_date"`
	Periods           int             `yaml:"periods"`
	FirstOffsetDays   int             `yaml:"first_offset_days"`
	PeriodDays        int             `yaml:"period_days"`
	Salary            string          `yaml:"salary"`
	SalaryCategory    string          `yaml:"salary_category"`
	SalarySubcategory string          `yaml:"salary_subcategory"`
	Rent              string          `yaml:"rent"`
	RentCategory      string          `yaml:"rent_category"`
	Discretionary     int             `yaml:"discretionary"`
	MaxDiscretionary  string          `yaml:"max_discretionary"`
	HorizonDays       int             `yaml:"horizon_days"`
	Categories        []string        `yaml:"categories"`
	Currencies        []currency.Code `yaml:"currencies"`
}

// ImporterConfig selects the export layout. Non-zero fields override the layout.
type ImporterConfig struct {
	Layout         string   `yaml:"layout"`
	SkipRows       *int     `yaml:"skip_rows,omitempty"`
	ExpenseColumns []int    `yaml:"expense_columns,omitempty"`
	IncomeColumns  []int    `yaml:"income_columns,omitempty"`
	DateFormats    []string `yaml:"date_formats,omitempty"`
}

// GitConfig controls snapshot commits.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a partida.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config reproducing the reference ledger.
func Default() *Config {
	return &Config{
		Currencies: []currency.Code{currency.EUR, currency.CHF, currency.SEK},
		Paths: PathsConfig{
			Data: "data",
			Logs: "logs",
		},
		Seed: SeedConfig{
			CreationDate:    "2024-01-01",
			EntityID:        0,
			EntityType:      "Firm",
			AccountID:       0,
			AccountCurrency: "EUR",
			AccountType:     "Deposit",
			InitialBalance:  "0",
		},
		Generator: GeneratorConfig{
			ReferenceDate:     "2024-01-01",
			Periods:           12,
			FirstOffsetDays:   25,
			PeriodDays:        30,
			Salary:            "34094.2",
			SalaryCategory:    "Salary",
			SalarySubcategory: "Regular salary",
			Rent:              "1150",
			RentCategory:      "Rent",
			Discretionary:     250,
			MaxDiscretionary:  "150",
			HorizonDays:       365,
			Categories:        []string{"Groceries", "Utilities", "Culture", "Presents"},
			Currencies:        []currency.Code{currency.EUR, currency.CHF},
		},
		Importer: ImporterConfig{
			Layout: "monthly-budget",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Partida",
			AuthorEmail: "partida@localhost",
		},
	}
}

// Validate checks cross-field consistency: known currency codes, parseable
// dates and amounts, generator currencies within the allowed set.
func (c *Config) Validate() error {
	allowed, err := c.CurrencySet()
	if err != nil {
		return err
	}
	if _, err := c.SymbolTable(); err != nil {
		return err
	}
	for _, code := range c.Generator.Currencies {
		if !allowed.Contains(code) {
			return fmt.Errorf("generator currency %s is not in currencies", code)
		}
	}
	if !allowed.Contains(currency.Code(c.Seed.AccountCurrency)) {
		return fmt.Errorf("seed account currency %q is not in currencies", c.Seed.AccountCurrency)
	}
	for name, s := range map[string]string{
		"seed.creation_date":       c.Seed.CreationDate,
		"generator.reference_date": c.Generator.ReferenceDate,
	} {
		if _, err := ParseDate(s); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for name, s := range map[string]string{
		"seed.initial_balance":        c.Seed.InitialBalance,
		"generator.salary":            c.Generator.Salary,
		"generator.rent":              c.Generator.Rent,
		"generator.max_discretionary": c.Generator.MaxDiscretionary,
	} {
		if _, err := decimal.NewFromString(s); err != nil {
			return fmt.Errorf("%s: parsing %q: %w", name, s, err)
		}
	}
	if decimal.RequireFromString(c.Generator.MaxDiscretionary).LessThan(minMaxDiscretionary) {
		return fmt.Errorf("generator.max_discretionary: must be at least %s, got %s", minMaxDiscretionary, c.Generator.MaxDiscretionary)
	}
	return nil
}

// CurrencySet returns the enumerated set of codes a ledger may carry.
func (c *Config) CurrencySet() (currency.Set, error) {
	if len(c.Currencies) == 0 {
		return currency.Set{}, errors.New("no currencies configured")
	}
	return currency.NewSet(c.Currencies...)
}

// SymbolTable returns the export token lookup. Without explicit symbols, each
// allowed code maps to itself and to its grapheme.
func (c *Config) SymbolTable() (*currency.Table, error) {
	allowed, err := c.CurrencySet()
	if err != nil {
		return nil, err
	}
	symbols := c.Symbols
	if len(symbols) == 0 {
		symbols = currency.DefaultSymbols(allowed)
	}
	return currency.NewTable(symbols, allowed)
}

// ParseDate parses a YYYY-MM-DD config date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
