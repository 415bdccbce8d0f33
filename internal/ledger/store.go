package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is a directory holding one CSV file per table.
type Store struct {
	dir  string
	opts Options
}

// NewStore creates a Store rooted at dir. opts is used to validate every write.
func NewStore(dir string, opts Options) *Store {
	return &Store{dir: dir, opts: opts}
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path of one table.
func (s *Store) Path(table Table) string {
	return filepath.Join(s.dir, table.FileName())
}

// Write validates the snapshot and replaces the files of the named tables
// (all six when none are named). A table with violations is left untouched on
// disk; the others are still written. Each file is encoded in memory first
// and swapped in with a rename, so readers never observe a partial file.
// Returns the tables written and, if any table was held back, an *InvariantError.
func (s *Store) Write(t Tables, tables ...Table) ([]Table, error) {
	if len(tables) == 0 {
		tables = AllTables
	}

	failing := ByTable(Validate(t, s.opts))

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	var written []Table
	var held []Violation
	for _, table := range tables {
		if v := failing[table]; len(v) > 0 {
			held = append(held, v...)
			continue
		}

		var buf bytes.Buffer
		if err := encode(&buf, t, table); err != nil {
			return written, err
		}
		if err := replaceFile(s.Path(table), buf.Bytes()); err != nil {
			return written, fmt.Errorf("writing %s: %w", table.FileName(), err)
		}
		written = append(written, table)
	}

	if len(held) > 0 {
		return written, &InvariantError{Violations: held}
	}
	return written, nil
}

// Read loads the named tables (all six when none are named) from the files
// present in the store. Tables without a file are left empty and are not
// listed in the returned slice.
func (s *Store) Read(tables ...Table) (Tables, []Table, error) {
	if len(tables) == 0 {
		tables = AllTables
	}
	var t Tables
	var present []Table
	for _, table := range tables {
		f, err := os.Open(s.Path(table))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Tables{}, nil, fmt.Errorf("opening %s: %w", table.FileName(), err)
		}
		err = decode(f, &t, table)
		f.Close()
		if err != nil {
			return Tables{}, nil, fmt.Errorf("reading %s: %w", table.FileName(), err)
		}
		present = append(present, table)
	}
	return t, present, nil
}

func encode(w io.Writer, t Tables, table Table) error {
	switch table {
	case PartyTable:
		return WriteParties(w, t.Parties)
	case EntityTable:
		return WriteEntities(w, t.Entities)
	case AccountTable:
		return WriteAccounts(w, t.Accounts)
	case IncomeTable:
		return WriteIncomes(w, t.Incomes)
	case ExpenseTable:
		return WriteExpenses(w, t.Expenses)
	case FundMovementTable:
		return WriteFundMovements(w, t.FundMovements)
	}
	return fmt.Errorf("unknown table %q", table)
}

func decode(r io.Reader, t *Tables, table Table) error {
	var err error
	switch table {
	case PartyTable:
		t.Parties, err = ReadParties(r)
	case EntityTable:
		t.Entities, err = ReadEntities(r)
	case AccountTable:
		t.Accounts, err = ReadAccounts(r)
	case IncomeTable:
		t.Incomes, err = ReadIncomes(r)
	case ExpenseTable:
		t.Expenses, err = ReadExpenses(r)
	case FundMovementTable:
		t.FundMovements, err = ReadFundMovements(r)
	default:
		err = fmt.Errorf("unknown table %q", table)
	}
	return err
}

// replaceFile writes data to a temp file next to path and renames it over path.
func replaceFile(path string, data []byte) error {
	dir, base := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
