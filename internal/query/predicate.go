// Package query composes the relational queries answering an archive
// inquiry. A filter spec is translated into per-table predicate conjunctions
// and then into a Plan, the intermediate representation rendered to SQL text
// for the execution layer.
package query

import (
	"errors"
	"strings"
)

// ErrNoQueryProduced is returned when neither a predicate nor a table
// selection could be derived. The engine never emits an unbounded
// full-table scan over tile rows.
var ErrNoQueryProduced = errors.New("no query produced")

// Kind is the semantic class of a predicate fragment.
type Kind int

const (
	KindEquality Kind = iota
	KindRange
	KindSetMembership
	KindSubstringMatch
	KindSpatialIntersect
)

// Predicate is one rendered filter fragment bound to a single table.
// Fragments never span two tables.
type Predicate struct {
	Table string
	Kind  Kind
	SQL   string
}

// PredicateSet accumulates predicates per table. Fragments of the same table
// combine with AND in insertion order; the order carries no meaning but is
// kept deterministic.
type PredicateSet struct {
	preds []Predicate
}

// Add appends a predicate.
func (s *PredicateSet) Add(p Predicate) {
	s.preds = append(s.preds, p)
}

// Has reports whether any predicate binds to the table.
func (s *PredicateSet) Has(table string) bool {
	for _, p := range s.preds {
		if p.Table == table {
			return true
		}
	}
	return false
}

// Where returns the AND-conjunction of all fragments bound to the table, or
// the empty string when none exist.
func (s *PredicateSet) Where(table string) string {
	var parts []string
	for _, p := range s.preds {
		if p.Table == table {
			parts = append(parts, p.SQL)
		}
	}
	return strings.Join(parts, " AND ")
}

// Empty reports whether the set holds no predicate at all.
func (s *PredicateSet) Empty() bool { return len(s.preds) == 0 }

// All returns every predicate in insertion order.
func (s *PredicateSet) All() []Predicate { return s.preds }

// quote renders a SQL string literal with single quotes doubled.
func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
