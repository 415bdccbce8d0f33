package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/partida-dev/partida/internal/currency"
	"github.com/partida-dev/partida/internal/ledger"
	"github.com/partida-dev/partida/internal/logger"
	"github.com/partida-dev/partida/internal/runlog"
)

// summary describes the outcome of one generate or import run.
type summary struct {
	runID     string
	pipeline  string
	processed int
	rejected  []string
	written   []ledger.Table
	heldBack  []ledger.Table
	incomes   map[currency.Code]decimal.Decimal
	expenses  map[currency.Code]decimal.Decimal
}

func newSummary(pipeline string) *summary {
	return &summary{runID: runlog.NewRunID(), pipeline: pipeline}
}

func (s *summary) addTotals(t ledger.Tables) {
	s.incomes = make(map[currency.Code]decimal.Decimal)
	for _, in := range t.Incomes {
		s.incomes[in.Currency] = s.incomes[in.Currency].Add(in.Value)
	}
	s.expenses = make(map[currency.Code]decimal.Decimal)
	for _, ex := range t.Expenses {
		s.expenses[ex.Currency] = s.expenses[ex.Currency].Add(ex.Value)
	}
}

func (s *summary) addWrite(written []ledger.Table, err error) {
	s.written = written
	var ierr *ledger.InvariantError
	if errors.As(err, &ierr) {
		s.heldBack = ierr.Tables()
	}
}

func (s *summary) details() string {
	parts := append([]string(nil), s.rejected...)
	if len(s.heldBack) > 0 {
		parts = append(parts, "held back: "+joinTables(s.heldBack))
	}
	return strings.Join(parts, "; ")
}

func (s *summary) print(w io.Writer) {
	fmt.Fprintf(w, "%s run %s: %d rows processed, %d rejected\n", s.pipeline, s.runID, s.processed, len(s.rejected))
	if len(s.written) > 0 {
		fmt.Fprintf(w, "  wrote: %s\n", joinTables(s.written))
	}
	if len(s.heldBack) > 0 {
		fmt.Fprintf(w, "  held back: %s\n", joinTables(s.heldBack))
	}
	printTotals(w, "income", s.incomes)
	printTotals(w, "expense", s.expenses)
	for _, r := range s.rejected {
		fmt.Fprintf(w, "  rejected %s\n", r)
	}
}

func printTotals(w io.Writer, label string, totals map[currency.Code]decimal.Decimal) {
	codes := make([]currency.Code, 0, len(totals))
	for c := range totals {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	for _, c := range codes {
		fmt.Fprintf(w, "  %-8s %s\n", label, currency.Format(totals[c], c))
	}
}

// scope adds the run fields to log.
func (s *summary) scope(log zerolog.Logger) zerolog.Logger {
	return logger.WithFields(log, map[string]any{"run_id": s.runID, "pipeline": s.pipeline})
}

func (s *summary) log(log zerolog.Logger) {
	ev := log.Info()
	if len(s.rejected) > 0 || len(s.heldBack) > 0 {
		ev = log.Warn()
	}
	ev.Int("processed", s.processed).
		Int("rejected", len(s.rejected)).
		Strs("tables", tableStrings(s.written)).
		Msg("run finished")
}

func (s *summary) record(logDir string, now time.Time) error {
	return runlog.Append(logDir, []runlog.Entry{{
		Timestamp: now,
		RunID:     s.runID,
		Pipeline:  s.pipeline,
		Processed: s.processed,
		Rejected:  len(s.rejected),
		Tables:    tableStrings(s.written),
		Details:   s.details(),
	}})
}

func tableStrings(tables []ledger.Table) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = string(t)
	}
	return out
}

func joinTables(tables []ledger.Table) string {
	return strings.Join(tableStrings(tables), ", ")
}

func flowCount(t ledger.Tables) int {
	return len(t.Incomes) + len(t.Expenses)
}
