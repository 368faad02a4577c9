package specifications

import (
	"sort"
	"strings"

	"cosmic-backend/domain/core/entities"
)

// Specification encapsulates a selection rule over candidates of type T
type Specification[T any] interface {
	IsSatisfiedBy(candidate T) bool
}

// SpecificationFunc adapts a plain function to Specification
type SpecificationFunc[T any] func(T) bool

// IsSatisfiedBy implements Specification
func (f SpecificationFunc[T]) IsSatisfiedBy(candidate T) bool {
	return f(candidate)
}

// AndSpecification is satisfied when every member is
type AndSpecification[T any] []Specification[T]

// IsSatisfiedBy implements Specification
func (s AndSpecification[T]) IsSatisfiedBy(candidate T) bool {
	for _, spec := range s {
		if !spec.IsSatisfiedBy(candidate) {
			return false
		}
	}
	return true
}

// Condition is a single case-insensitive substring match on one field
type Condition struct {
	Field  string
	Needle string // lower-cased
}

// EventFilter maps event field names to raw substring filter values
type EventFilter map[string]string

// Conditions returns one condition per non-empty filter value, ordered by
// field name so stores build identical queries for identical filters.
func (f EventFilter) Conditions() []Condition {
	conditions := make([]Condition, 0, len(f))
	for field, value := range f {
		if value == "" {
			continue
		}
		conditions = append(conditions, Condition{Field: field, Needle: strings.ToLower(value)})
	}
	sort.Slice(conditions, func(i, j int) bool {
		return conditions[i].Field < conditions[j].Field
	})
	return conditions
}

// HasUnknownField reports whether a condition names a field outside the
// event schema; such a filter can match nothing.
func (f EventFilter) HasUnknownField() bool {
	for _, c := range f.Conditions() {
		if !entities.IsSearchableField(c.Field) {
			return true
		}
	}
	return false
}

// Specification combines every condition with logical AND. An empty filter
// is satisfied by every record.
func (f EventFilter) Specification() Specification[*entities.EventRecord] {
	conditions := f.Conditions()
	spec := make(AndSpecification[*entities.EventRecord], 0, len(conditions))
	for _, c := range conditions {
		spec = append(spec, fieldContains(c))
	}
	return spec
}

func fieldContains(c Condition) Specification[*entities.EventRecord] {
	return SpecificationFunc[*entities.EventRecord](func(record *entities.EventRecord) bool {
		values, known := record.FieldValues(c.Field)
		if !known {
			return false
		}
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), c.Needle) {
				return true
			}
		}
		return false
	})
}
