// Package catalog holds the built-in determination trees: gross income
// inclusion, the dependent tests (qualifying child, qualifying relative),
// and the head of household filing status check. Each tree is plain data
// built through the dsl package; NewLoader bundles them behind the
// TreeLoader port.
package catalog

import (
	"lattice/pkg/domain"
	"lattice/pkg/dsl"
	"lattice/pkg/predicate"
)

// IncomeInclusion returns the tree deciding whether one line item counts
// toward gross income for the dependent tests. Rental income counts in full,
// business revenue is offset by cost of goods sold only, tax-exempt interest
// and social security benefits stay out.
func IncomeInclusion() *domain.Tree {
	b := dsl.New("income_inclusion")

	b.Root("is_income").
		Describe("Is it income? (if no, it is treated as an expense)").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "amount", "op": "gt", "value": 0, "label": "zero",
		}).
		Yes("is_tax_exempt").No("is_cogs")

	// Expenses: only cost of goods sold offsets gross income.
	b.Add("is_cogs").
		Describe("Is the expense a cost of goods sold for a trade or business?").
		Ask(predicate.CategoryIs, map[string]any{"fact": "category", "value": "cogs"}).
		Yes("include").No("dont_include")

	b.Add("is_tax_exempt").
		Describe("Is it tax exempt income (e.g. a municipal bond)?").
		Ask(predicate.CategoryIs, map[string]any{"fact": "category", "value": "tax_exempt"}).
		Yes("dont_include").No("is_social_security")

	b.Add("is_social_security").
		Describe("Is it a social security benefit?").
		Ask(predicate.CategoryIs, map[string]any{"fact": "category", "value": "social_security"}).
		Yes("dont_include").No("include")

	b.Add("include").Describe("Include in gross income").Outcome(OutcomeInclude)
	b.Add("dont_include").Describe("Do not include in gross income").Outcome(OutcomeExclude)

	return mustBuild(b)
}

func mustBuild(b *dsl.Builder) *domain.Tree {
	tree, err := b.Build()
	if err != nil {
		// Catalog trees are static content; a build failure is a programming
		// error caught by the package tests.
		panic(err)
	}
	return tree
}
