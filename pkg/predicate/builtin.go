package predicate

import (
	"fmt"
	"strings"
	"time"

	"lattice/pkg/domain"
)

// Built-in predicate names. Tree content references these from condition
// descriptors; custom predicates extend the set via Register.
const (
	FactTrue       = "fact_true"
	NumberCompare  = "number_cmp"
	NumberBetween  = "number_between"
	CategoryIs     = "category_is"
	CategoryIn     = "category_in"
	DateOnOrBefore = "date_on_or_before"
)

func registerBuiltins(e *Evaluator) {
	e.funcs[FactTrue] = factTrue
	e.funcs[NumberCompare] = numberCompare
	e.funcs[NumberBetween] = numberBetween
	e.funcs[CategoryIs] = categoryIs
	e.funcs[CategoryIn] = categoryIn
	e.funcs[DateOnOrBefore] = dateOnOrBefore
}

type factParams struct {
	Fact string `mapstructure:"fact"`
}

// factTrue answers the boolean fact itself.
func factTrue(p Params, facts *domain.FactSet) (bool, string, error) {
	var args factParams
	if err := DecodeParams(p, &args); err != nil {
		return false, "", err
	}
	v, err := facts.Bool(args.Fact)
	if err != nil {
		return false, "", err
	}
	return v, fmt.Sprintf("%s: %t", args.Fact, v), nil
}

type cmpParams struct {
	Fact  string  `mapstructure:"fact"`
	Op    string  `mapstructure:"op"`
	Value float64 `mapstructure:"value"`
	// Other names a second numeric fact to compare against instead of Value.
	Other string `mapstructure:"other"`
	// Label names the threshold in the rationale ("threshold", "limit").
	Label string `mapstructure:"label"`
}

// numberCompare compares a numeric fact against a fixed parameter, or
// against another numeric fact when "other" is set.
func numberCompare(p Params, facts *domain.FactSet) (bool, string, error) {
	var args cmpParams
	if err := DecodeParams(p, &args); err != nil {
		return false, "", err
	}
	v, err := facts.Number(args.Fact)
	if err != nil {
		return false, "", err
	}

	target := args.Value
	label := args.Label
	if args.Other != "" {
		target, err = facts.Number(args.Other)
		if err != nil {
			return false, "", err
		}
		if label == "" {
			label = args.Other
		}
	}
	if label == "" {
		label = "threshold"
	}

	ok, err := compare(args.Op, v, target)
	if err != nil {
		return false, "", err
	}
	rationale := fmt.Sprintf("%s %v %s %s %v: %t", args.Fact, v, opSymbol(args.Op), label, target, ok)
	return ok, rationale, nil
}

type betweenParams struct {
	Fact string  `mapstructure:"fact"`
	Min  float64 `mapstructure:"min"`
	Max  float64 `mapstructure:"max"`
}

// numberBetween checks Min <= fact < Max.
func numberBetween(p Params, facts *domain.FactSet) (bool, string, error) {
	var args betweenParams
	if err := DecodeParams(p, &args); err != nil {
		return false, "", err
	}
	v, err := facts.Number(args.Fact)
	if err != nil {
		return false, "", err
	}
	ok := v >= args.Min && v < args.Max
	return ok, fmt.Sprintf("%v <= %s %v < %v: %t", args.Min, args.Fact, v, args.Max, ok), nil
}

type categoryParams struct {
	Fact   string   `mapstructure:"fact"`
	Value  string   `mapstructure:"value"`
	Values []string `mapstructure:"values"`
}

// categoryIs checks a category fact for exact equality.
func categoryIs(p Params, facts *domain.FactSet) (bool, string, error) {
	var args categoryParams
	if err := DecodeParams(p, &args); err != nil {
		return false, "", err
	}
	v, err := facts.Category(args.Fact)
	if err != nil {
		return false, "", err
	}
	ok := v == args.Value
	return ok, fmt.Sprintf("%s %q == %q: %t", args.Fact, v, args.Value, ok), nil
}

// categoryIn checks membership of a category fact in a fixed set.
func categoryIn(p Params, facts *domain.FactSet) (bool, string, error) {
	var args categoryParams
	if err := DecodeParams(p, &args); err != nil {
		return false, "", err
	}
	v, err := facts.Category(args.Fact)
	if err != nil {
		return false, "", err
	}
	ok := false
	for _, candidate := range args.Values {
		if v == candidate {
			ok = true
			break
		}
	}
	return ok, fmt.Sprintf("%s %q in {%s}: %t", args.Fact, v, strings.Join(args.Values, ", "), ok), nil
}

type dateParams struct {
	Fact string `mapstructure:"fact"`
	Date string `mapstructure:"date"`
}

// dateOnOrBefore checks a date fact against a fixed ISO date, inclusive.
func dateOnOrBefore(p Params, facts *domain.FactSet) (bool, string, error) {
	var args dateParams
	if err := DecodeParams(p, &args); err != nil {
		return false, "", err
	}
	limit, err := time.Parse("2006-01-02", args.Date)
	if err != nil {
		return false, "", fmt.Errorf("bad date param %q: %w", args.Date, err)
	}
	v, err := facts.Date(args.Fact)
	if err != nil {
		return false, "", err
	}
	ok := !v.After(limit)
	return ok, fmt.Sprintf("%s %s on or before %s: %t",
		args.Fact, v.Format("2006-01-02"), args.Date, ok), nil
}

func compare(op string, a, b float64) (bool, error) {
	switch op {
	case "eq":
		return a == b, nil
	case "ne":
		return a != b, nil
	case "lt":
		return a < b, nil
	case "lte":
		return a <= b, nil
	case "gt":
		return a > b, nil
	case "gte":
		return a >= b, nil
	}
	return false, fmt.Errorf("unknown comparison op %q", op)
}

func opSymbol(op string) string {
	switch op {
	case "eq":
		return "=="
	case "ne":
		return "!="
	case "lt":
		return "<"
	case "lte":
		return "<="
	case "gt":
		return ">"
	case "gte":
		return ">="
	}
	return op
}
