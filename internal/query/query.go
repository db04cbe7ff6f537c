// Package query filters loaded collections with a conjunction of typed,
// optional predicates. Absent parameters produce nil predicates, which
// place no constraint.
package query

import (
	"cmp"
	"iter"
	"slices"
	"strings"
	"time"
)

// Predicate reports whether a record matches.
type Predicate[T any] func(T) bool

// Filter returns the records matching every non-nil predicate, in their
// original order. Records are tested as the sequence is consumed.
func Filter[T any](records []T, preds ...Predicate[T]) iter.Seq[T] {
	active := slices.DeleteFunc(slices.Clone(preds), func(p Predicate[T]) bool { return p == nil })
	return func(yield func(T) bool) {
		for _, r := range records {
			if matchAll(r, active) && !yield(r) {
				return
			}
		}
	}
}

func matchAll[T any](r T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// Equal matches when the field equals want.
func Equal[T any, V comparable](field func(T) V, want *V) Predicate[T] {
	if want == nil {
		return nil
	}
	w := *want
	return func(r T) bool { return field(r) == w }
}

// ContainsFold matches when the field contains sub, ignoring case.
func ContainsFold[T any](field func(T) string, sub *string) Predicate[T] {
	if sub == nil {
		return nil
	}
	s := strings.ToLower(*sub)
	return func(r T) bool { return strings.Contains(strings.ToLower(field(r)), s) }
}

// AnyEqualFold matches when one element of the list field equals want,
// ignoring case.
func AnyEqualFold[T any](field func(T) []string, want *string) Predicate[T] {
	if want == nil {
		return nil
	}
	w := *want
	return func(r T) bool {
		return slices.ContainsFunc(field(r), func(v string) bool { return strings.EqualFold(v, w) })
	}
}

// AnyEqual matches when one element of the list field equals want
// exactly.
func AnyEqual[T any](field func(T) []string, want *string) Predicate[T] {
	if want == nil {
		return nil
	}
	w := *want
	return func(r T) bool { return slices.Contains(field(r), w) }
}

// Range matches min <= field <= max. Either bound may be nil.
func Range[T any, V cmp.Ordered](field func(T) V, minV, maxV *V) Predicate[T] {
	if minV == nil && maxV == nil {
		return nil
	}
	return func(r T) bool {
		v := field(r)
		if minV != nil && v < *minV {
			return false
		}
		return maxV == nil || v <= *maxV
	}
}

// TimeRange matches from <= field <= to. Either bound may be nil.
func TimeRange[T any](field func(T) time.Time, from, to *time.Time) Predicate[T] {
	if from == nil && to == nil {
		return nil
	}
	return func(r T) bool {
		v := field(r)
		if from != nil && v.Before(*from) {
			return false
		}
		return to == nil || !v.After(*to)
	}
}
