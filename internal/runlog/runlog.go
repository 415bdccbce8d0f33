// Package runlog records one summary row per generate or import run.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Pipeline  string
	Processed int
	Rejected  int
	Tables    []string // tables written, in write order
	Details   string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,pipeline,processed,rejected,tables,details"

// FileName is the run log file name inside the logs directory.
const FileName = "run-log.csv"

const (
	numFields    = 7
	colTimestamp = 0
	colRunID     = 1
	colPipeline  = 2
	colProcessed = 3
	colRejected  = 4
	colTables    = 5
	colDetails   = 6
)

// NewRunID returns a fresh random run identifier.
func NewRunID() string { return uuid.NewString() }

// MarshalEntry converts an Entry to a CSV row. Tables are joined with ';'.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colPipeline] = e.Pipeline
	row[colProcessed] = strconv.Itoa(e.Processed)
	row[colRejected] = strconv.Itoa(e.Rejected)
	row[colTables] = strings.Join(e.Tables, ";")
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	if _, err := uuid.Parse(record[colRunID]); err != nil {
		return Entry{}, fmt.Errorf("parsing run_id %q: %w", record[colRunID], err)
	}
	processed, err := strconv.Atoi(record[colProcessed])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing processed %q: %w", record[colProcessed], err)
	}
	rejected, err := strconv.Atoi(record[colRejected])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rejected %q: %w", record[colRejected], err)
	}

	var tables []string
	if record[colTables] != "" {
		tables = strings.Split(record[colTables], ";")
	}
	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Pipeline:  record[colPipeline],
		Processed: processed,
		Rejected:  rejected,
		Tables:    tables,
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <logDir>/run-log.csv, creating the file and header if needed.
func Append(logDir string, entries []Entry) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(logDir, FileName)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <logDir>/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(logDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(logDir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
