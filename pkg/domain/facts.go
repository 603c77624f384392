package domain

import (
	"sort"
	"time"
)

// FactKind identifies the value type stored under a fact name.
type FactKind int

const (
	KindBool FactKind = iota
	KindNumber
	KindCategory
	KindDate
)

func (k FactKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindCategory:
		return "category"
	case KindDate:
		return "date"
	}
	return "unknown"
}

// Fact is a single typed value. Only the field matching Kind is meaningful.
type Fact struct {
	Kind     FactKind
	Bool     bool
	Number   float64
	Category string
	Date     time.Time
}

// FactSet is the case-specific input for one evaluation.
// It is populated by the caller before evaluation and only read afterwards;
// the engine never writes to it.
type FactSet struct {
	facts map[string]Fact
}

// NewFactSet creates an empty fact set.
func NewFactSet() *FactSet {
	return &FactSet{facts: make(map[string]Fact)}
}

// SetBool stores a boolean fact. Returns the set for chaining.
func (f *FactSet) SetBool(name string, v bool) *FactSet {
	f.facts[name] = Fact{Kind: KindBool, Bool: v}
	return f
}

// SetNumber stores a numeric fact.
func (f *FactSet) SetNumber(name string, v float64) *FactSet {
	f.facts[name] = Fact{Kind: KindNumber, Number: v}
	return f
}

// SetCategory stores an enumerated/string fact.
func (f *FactSet) SetCategory(name, v string) *FactSet {
	f.facts[name] = Fact{Kind: KindCategory, Category: v}
	return f
}

// SetDate stores a date fact.
func (f *FactSet) SetDate(name string, v time.Time) *FactSet {
	f.facts[name] = Fact{Kind: KindDate, Date: v}
	return f
}

// Has reports whether a fact exists under the given name.
func (f *FactSet) Has(name string) bool {
	_, ok := f.facts[name]
	return ok
}

// Names returns all fact names in sorted order.
func (f *FactSet) Names() []string {
	names := make([]string, 0, len(f.facts))
	for name := range f.facts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the raw fact, failing with MissingFactError if absent.
func (f *FactSet) Get(name string) (Fact, error) {
	fact, ok := f.facts[name]
	if !ok {
		return Fact{}, &MissingFactError{Field: name}
	}
	return fact, nil
}

// Bool returns a boolean fact.
func (f *FactSet) Bool(name string) (bool, error) {
	fact, err := f.Get(name)
	if err != nil {
		return false, err
	}
	if fact.Kind != KindBool {
		return false, &TypeMismatchError{Field: name, Want: KindBool, Got: fact.Kind}
	}
	return fact.Bool, nil
}

// Number returns a numeric fact.
func (f *FactSet) Number(name string) (float64, error) {
	fact, err := f.Get(name)
	if err != nil {
		return 0, err
	}
	if fact.Kind != KindNumber {
		return 0, &TypeMismatchError{Field: name, Want: KindNumber, Got: fact.Kind}
	}
	return fact.Number, nil
}

// Category returns an enumerated fact.
func (f *FactSet) Category(name string) (string, error) {
	fact, err := f.Get(name)
	if err != nil {
		return "", err
	}
	if fact.Kind != KindCategory {
		return "", &TypeMismatchError{Field: name, Want: KindCategory, Got: fact.Kind}
	}
	return fact.Category, nil
}

// Date returns a date fact.
func (f *FactSet) Date(name string) (time.Time, error) {
	fact, err := f.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	if fact.Kind != KindDate {
		return time.Time{}, &TypeMismatchError{Field: name, Want: KindDate, Got: fact.Kind}
	}
	return fact.Date, nil
}

// FactsFromMap builds a fact set from loosely-typed input (JSON bodies, YAML
// fact files). Booleans and numbers map directly; strings that parse as an
// ISO date (2006-01-02) become date facts, all other strings become
// categories.
func FactsFromMap(data map[string]any) (*FactSet, error) {
	fs := NewFactSet()
	for name, raw := range data {
		switch v := raw.(type) {
		case bool:
			fs.SetBool(name, v)
		case float64:
			fs.SetNumber(name, v)
		case float32:
			fs.SetNumber(name, float64(v))
		case int:
			fs.SetNumber(name, float64(v))
		case int64:
			fs.SetNumber(name, float64(v))
		case string:
			if d, err := time.Parse("2006-01-02", v); err == nil {
				fs.SetDate(name, d)
			} else {
				fs.SetCategory(name, v)
			}
		case time.Time:
			fs.SetDate(name, v)
		default:
			return nil, &TypeMismatchError{Field: name, Want: KindCategory, Got: -1}
		}
	}
	return fs, nil
}
