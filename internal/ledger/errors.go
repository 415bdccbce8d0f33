package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/partida-dev/partida/internal/model"
)

// StructuralError reports input whose shape is wrong: a header that does not
// match the declared columns, a short row, a missing seed row. It is fatal for
// the run.
type StructuralError struct {
	Table  Table
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Table == "" {
		return "structural error: " + e.Reason
	}
	return fmt.Sprintf("structural error in %s table: %s", e.Table, e.Reason)
}

// Violation describes one row failing one numbered invariant.
type Violation struct {
	Table       Table
	Key         int
	Invariant   int
	Description string
}

func (v Violation) Error() string {
	return fmt.Sprintf("invariant %d [%s %d]: %s", v.Invariant, v.Table, v.Key, v.Description)
}

// InvariantError is returned when tables could not be written because they
// fail validation.
type InvariantError struct {
	Violations []Violation
}

func (e *InvariantError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("validation failed for %s: %s", strings.Join(tableNames(e.Tables()), ", "), strings.Join(msgs, "; "))
}

// Tables returns the distinct tables named by the violations, sorted.
func (e *InvariantError) Tables() []Table {
	seen := make(map[Table]bool)
	var out []Table
	for _, v := range e.Violations {
		if !seen[v.Table] {
			seen[v.Table] = true
			out = append(out, v.Table)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func tableNames(tables []Table) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = string(t)
	}
	return out
}

// RequireSeeds fails with a StructuralError unless the entity and account
// that every generated row points at are present.
func RequireSeeds(entities []model.Entity, accounts []model.Account, entityID, accountID int) error {
	if !containsEntity(entities, entityID) {
		return &StructuralError{Table: EntityTable, Reason: fmt.Sprintf("seed entity %d is missing", entityID)}
	}
	if !containsAccount(accounts, accountID) {
		return &StructuralError{Table: AccountTable, Reason: fmt.Sprintf("seed account %d is missing", accountID)}
	}
	return nil
}

// RequireEntity is RequireSeeds for pipelines that never touch accounts.
func RequireEntity(entities []model.Entity, entityID int) error {
	if !containsEntity(entities, entityID) {
		return &StructuralError{Table: EntityTable, Reason: fmt.Sprintf("seed entity %d is missing", entityID)}
	}
	return nil
}

func containsEntity(entities []model.Entity, id int) bool {
	for _, e := range entities {
		if e.ID == id {
			return true
		}
	}
	return false
}

func containsAccount(accounts []model.Account, id int) bool {
	for _, a := range accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}
