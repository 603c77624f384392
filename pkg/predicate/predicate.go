// Package predicate implements the condition evaluator: a registry of named,
// parameterized yes/no predicates evaluated against a fact set.
//
// Every evaluation returns a rationale string alongside the boolean, e.g.
// "gross_income 4200 >= threshold 4700: false", so the trace can show its
// work without the presentation layer knowing predicate internals.
package predicate

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"lattice/pkg/domain"
)

// Params is the raw parameter map attached to a condition. Implementations
// decode it into a typed struct with DecodeParams.
type Params map[string]any

// Func is a single predicate implementation. It must be pure: same params
// and facts, same answer.
type Func func(p Params, facts *domain.FactSet) (bool, string, error)

// Evaluator resolves condition descriptors to registered predicate functions.
// The zero value is unusable; construct with NewEvaluator, which installs the
// built-in predicates.
type Evaluator struct {
	funcs map[string]Func
}

// NewEvaluator creates an evaluator with all built-in predicates registered.
func NewEvaluator() *Evaluator {
	e := &Evaluator{funcs: make(map[string]Func)}
	registerBuiltins(e)
	return e
}

// Register installs a custom predicate. Registering over an existing name is
// an error; tree content should pick distinct names.
func (e *Evaluator) Register(name string, fn Func) error {
	if _, ok := e.funcs[name]; ok {
		return fmt.Errorf("predicate %q already registered", name)
	}
	e.funcs[name] = fn
	return nil
}

// Evaluate runs the condition's predicate against the facts.
func (e *Evaluator) Evaluate(cond domain.Condition, facts *domain.FactSet) (bool, string, error) {
	fn, ok := e.funcs[cond.Predicate]
	if !ok {
		return false, "", fmt.Errorf("unknown predicate %q", cond.Predicate)
	}
	return fn(Params(cond.Params), facts)
}

// DecodeParams decodes a raw parameter map into a typed struct. Decoding is
// weakly typed so YAML/JSON integers satisfy float64 fields.
func DecodeParams(p Params, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(p)); err != nil {
		return fmt.Errorf("bad predicate params: %w", err)
	}
	return nil
}
