package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/internal/runtime"
	"lattice/pkg/catalog"
	"lattice/pkg/domain"
	"lattice/pkg/worksheet"
)

func evaluate(t *testing.T, tree *domain.Tree, facts *domain.FactSet) *domain.Evaluation {
	t.Helper()
	eval, err := runtime.NewEngine().Evaluate(tree, facts)
	require.NoError(t, err)
	return eval
}

func TestNewLoader(t *testing.T) {
	loader, err := catalog.NewLoader(worksheet.DefaultTable())
	require.NoError(t, err)

	ids, err := loader.ListTrees()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"dependent",
		"dependent_eligibility",
		"head_of_household",
		"income_inclusion",
		"qualifying_child",
		"qualifying_relative",
	}, ids)
}

func TestIncomeInclusion(t *testing.T) {
	tree := catalog.IncomeInclusion()

	cases := []struct {
		name     string
		amount   float64
		category string
		want     domain.Outcome
	}{
		{"rental income counts", 1200, "rental", catalog.OutcomeInclude},
		{"municipal bond interest excluded", 300, "tax_exempt", catalog.OutcomeExclude},
		{"social security excluded", 900, "social_security", catalog.OutcomeExclude},
		{"cogs offsets revenue", -400, "cogs", catalog.OutcomeInclude},
		{"other expenses ignored", -250, "utilities", catalog.OutcomeExclude},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facts := domain.NewFactSet().
				SetNumber("amount", tc.amount).
				SetCategory("category", tc.category)
			eval := evaluate(t, tree, facts)
			assert.Equal(t, tc.want, eval.Outcome)
		})
	}
}

// childFacts is a baseline fact set for a person who passes every
// qualifying child test.
func childFacts() *domain.FactSet {
	return domain.NewFactSet().
		SetCategory("relationship", "child").
		SetNumber("age", 12).
		SetNumber("months_enrolled_at_school", 10).
		SetNumber("residence_share", 1.0).
		SetNumber("own_support_share", 0).
		SetBool("has_tin", true).
		SetCategory("nationality", "US").
		SetCategory("residency", "US").
		SetBool("files_jointly", false)
}

func TestQualifyingChild(t *testing.T) {
	tree := catalog.QualifyingChild()

	t.Run("young child qualifies", func(t *testing.T) {
		eval := evaluate(t, tree, childFacts())
		assert.Equal(t, catalog.OutcomeQualifyingChild, eval.Outcome)
	})

	t.Run("student aged 21 qualifies", func(t *testing.T) {
		facts := childFacts().SetNumber("age", 21)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeQualifyingChild, eval.Outcome)
	})

	t.Run("non-student aged 21 fails", func(t *testing.T) {
		facts := childFacts().SetNumber("age", 21).SetNumber("months_enrolled_at_school", 3)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotQualifyingChild, eval.Outcome)
	})

	t.Run("aged 24 fails", func(t *testing.T) {
		facts := childFacts().SetNumber("age", 24)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotQualifyingChild, eval.Outcome)
	})

	t.Run("self-supporting child fails", func(t *testing.T) {
		facts := childFacts().SetNumber("own_support_share", 0.6)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotQualifyingChild, eval.Outcome)
	})

	t.Run("no TIN fails via delegated eligibility", func(t *testing.T) {
		facts := childFacts().SetBool("has_tin", false)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotQualifyingChild, eval.Outcome)

		// The eligibility sub-tree's entries are spliced into the trace.
		var sawSubTree bool
		for _, e := range eval.Trace {
			if e.TreeID == "dependent_eligibility" {
				sawSubTree = true
			}
		}
		assert.True(t, sawSubTree)
	})
}

// relativeFacts is a baseline fact set for a parent supported by the filer.
func relativeFacts() *domain.FactSet {
	return childFacts().
		SetCategory("relationship", "parent").
		SetNumber("age", 70).
		SetNumber("gross_income", 3200).
		SetNumber("support_share", 0.8)
}

func TestQualifyingRelative(t *testing.T) {
	tree := catalog.QualifyingRelative(4700)

	t.Run("supported parent qualifies", func(t *testing.T) {
		eval := evaluate(t, tree, relativeFacts())
		assert.Equal(t, catalog.OutcomeQualifyingRelative, eval.Outcome)
	})

	t.Run("gross income at limit fails", func(t *testing.T) {
		facts := relativeFacts().SetNumber("gross_income", 4700)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotQualifyingRelative, eval.Outcome)
	})

	t.Run("unrelated housemate qualifies with full-year residence", func(t *testing.T) {
		facts := relativeFacts().SetCategory("relationship", "unrelated")
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeQualifyingRelative, eval.Outcome)
	})

	t.Run("unrelated part-year housemate fails", func(t *testing.T) {
		facts := relativeFacts().
			SetCategory("relationship", "unrelated").
			SetNumber("residence_share", 0.7)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotQualifyingRelative, eval.Outcome)
	})

	t.Run("insufficient support fails", func(t *testing.T) {
		facts := relativeFacts().SetNumber("support_share", 0.5)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotQualifyingRelative, eval.Outcome)
	})
}

func TestDependent(t *testing.T) {
	tree := catalog.Dependent(4700)

	t.Run("qualifying child is dependent", func(t *testing.T) {
		eval := evaluate(t, tree, childFacts())
		assert.Equal(t, catalog.OutcomeDependent, eval.Outcome)
	})

	t.Run("supported parent is dependent via relative test", func(t *testing.T) {
		eval := evaluate(t, tree, relativeFacts())
		assert.Equal(t, catalog.OutcomeDependent, eval.Outcome)
	})

	t.Run("high-income relative is not dependent", func(t *testing.T) {
		facts := relativeFacts().SetNumber("gross_income", 52000)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotDependent, eval.Outcome)
	})
}

func TestHeadOfHousehold(t *testing.T) {
	tree := catalog.HeadOfHousehold(4700)

	base := func() *domain.FactSet {
		return relativeFacts().
			SetBool("is_married_eoy", false).
			SetNumber("household_cost_share", 0.9)
	}

	t.Run("unmarried filer supporting a dependent parent", func(t *testing.T) {
		eval := evaluate(t, tree, base())
		assert.Equal(t, catalog.OutcomeHeadOfHousehold, eval.Outcome)
	})

	t.Run("unmarried child need not be a dependent", func(t *testing.T) {
		// High-income unmarried child: fails the dependent tests but still
		// qualifies the filer for head of household.
		facts := base().
			SetCategory("relationship", "child").
			SetNumber("age", 30).
			SetNumber("gross_income", 52000).
			SetBool("qualifying_person_married", false)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeHeadOfHousehold, eval.Outcome)
	})

	t.Run("household not maintained fails", func(t *testing.T) {
		facts := base().SetNumber("household_cost_share", 0.4)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotHeadOfHousehold, eval.Outcome)
	})

	t.Run("married with separate returns and separation", func(t *testing.T) {
		facts := base().
			SetBool("is_married_eoy", true).
			SetBool("spouse_nonresident_alien", false).
			SetBool("separated_six_months", true).
			SetBool("files_separately", true)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeHeadOfHousehold, eval.Outcome)
	})

	t.Run("married without separation fails", func(t *testing.T) {
		facts := base().
			SetBool("is_married_eoy", true).
			SetBool("spouse_nonresident_alien", false).
			SetBool("separated_six_months", false)
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotHeadOfHousehold, eval.Outcome)
	})

	t.Run("unrelated housemate cannot qualify the filer", func(t *testing.T) {
		facts := base().SetCategory("relationship", "unrelated")
		eval := evaluate(t, tree, facts)
		assert.Equal(t, catalog.OutcomeNotHeadOfHousehold, eval.Outcome)
	})
}
