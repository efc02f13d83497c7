// Package query projects in-memory collections for list views: case-insensitive search,
// categorical and date filters, and a stable sort whose comparison depends on the field's
// kind. Projections never modify their input.
package query

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	Text Kind = iota
	Numeric
	Date
)

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection accepts "ascending"/"asc" and "descending"/"desc". Anything else is
// ascending.
func ParseDirection(value string) Direction {
	switch strings.ToLower(value) {
	case "descending", "desc":
		return Descending
	default:
		return Ascending
	}
}

// SortState is the key and direction currently selected by a list view.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle returns the state after the user selects key: the same key flips the direction,
// any other key starts ascending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// Field knows how to compare two elements on one attribute. Missing values compare lower
// than any present value.
type Field[T any] struct {
	kind Kind
	cmp  func(a, b T) int
}

func (f Field[T]) Kind() Kind { return f.kind }

// FieldSet maps sort keys to fields.
type FieldSet[T any] map[string]Field[T]

func missing(aok, bok bool) (int, bool) {
	switch {
	case !aok && !bok:
		return 0, true
	case !aok:
		return -1, true
	case !bok:
		return 1, true
	}
	return 0, false
}

// TextField compares lexicographically. The empty string counts as missing.
func TextField[T any](get func(T) string) Field[T] {
	return Field[T]{kind: Text, cmp: func(a, b T) int {
		av, bv := get(a), get(b)
		if c, done := missing(av != "", bv != ""); done {
			return c
		}
		return strings.Compare(av, bv)
	}}
}

// NumberField compares as decimals.
func NumberField[T any](get func(T) (decimal.Decimal, bool)) Field[T] {
	return Field[T]{kind: Numeric, cmp: func(a, b T) int {
		av, aok := get(a)
		bv, bok := get(b)
		if c, done := missing(aok, bok); done {
			return c
		}
		return av.Cmp(bv)
	}}
}

// DateField compares as instants. The zero time counts as missing.
func DateField[T any](get func(T) time.Time) Field[T] {
	return Field[T]{kind: Date, cmp: func(a, b T) int {
		av, bv := get(a), get(b)
		if c, done := missing(!av.IsZero(), !bv.IsZero()); done {
			return c
		}
		return av.Compare(bv)
	}}
}

// Predicate keeps an element when it returns true. A nil predicate keeps everything.
type Predicate[T any] func(T) bool

// Equals matches a categorical field exactly. The empty value and "All" disable the
// filter.
func Equals[T any](get func(T) string, value string) Predicate[T] {
	if value == "" || value == "All" {
		return nil
	}
	return func(item T) bool { return get(item) == value }
}

// Between keeps elements dated within [from, to].
func Between[T any](get func(T) time.Time, from, to time.Time) Predicate[T] {
	return func(item T) bool {
		d := get(item)
		return !d.Before(from) && !d.After(to)
	}
}

// Spec describes one projection.
type Spec[T any] struct {
	Search       string
	SearchFields func(T) []string
	Filters      []Predicate[T]
	Sort         SortState
	Fields       FieldSet[T]
}

// Project returns the elements of items that match the search text and every filter,
// ordered by the selected sort. Elements with equal sort keys keep their relative order,
// so projecting an already projected slice again gives the same result. An unknown sort
// key keeps the input order.
func Project[T any](items []T, spec Spec[T]) []T {
	needle := strings.ToLower(spec.Search)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle != "" && !matches(spec.SearchFields, item, needle) {
			continue
		}
		if !keep(spec.Filters, item) {
			continue
		}
		out = append(out, item)
	}

	field, ok := spec.Fields[spec.Sort.Key]
	if !ok {
		return out
	}
	cmp := field.cmp
	if spec.Sort.Direction == Descending {
		cmp = func(a, b T) int { return field.cmp(b, a) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func matches[T any](fields func(T) []string, item T, needle string) bool {
	if fields == nil {
		return false
	}
	for _, text := range fields(item) {
		if strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}
	return false
}

func keep[T any](filters []Predicate[T], item T) bool {
	for _, filter := range filters {
		if filter != nil && !filter(item) {
			return false
		}
	}
	return true
}
