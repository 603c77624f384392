package catalog

import (
	"lattice/pkg/domain"
	"lattice/pkg/dsl"
	"lattice/pkg/predicate"
)

// Head of household outcomes.
const (
	OutcomeHeadOfHousehold    = domain.Outcome("head_of_household")
	OutcomeNotHeadOfHousehold = domain.Outcome("not_head_of_household")
)

// HeadOfHousehold returns the head of household filing status check. A
// married filer must first be treated as unmarried (nonresident alien
// spouse, or six months separated with separate returns plus the household
// tests); either way the filer must maintain the household and the
// qualifying person must pass rules that differ for parents, children, and
// other relatives. The dependent determination is delegated to the
// dependent tree.
func HeadOfHousehold(grossIncomeLimit float64) *domain.Tree {
	dependent := Dependent(grossIncomeLimit)
	b := dsl.New("head_of_household")

	b.Root("married_eoy").
		Describe("Are you legally married on the final day of the tax year?").
		Ask(predicate.FactTrue, map[string]any{"fact": "is_married_eoy"}).
		Yes("spouse_nra").No("household_maintained")

	// A nonresident alien spouse makes you unmarried for this purpose.
	b.Add("spouse_nra").
		Describe("Is your spouse a nonresident alien?").
		Ask(predicate.FactTrue, map[string]any{"fact": "spouse_nonresident_alien"}).
		Yes("household_maintained").No("separated")

	b.Add("separated").
		Describe("Have you been separated from your spouse for at least 6 months?").
		Ask(predicate.FactTrue, map[string]any{"fact": "separated_six_months"}).
		Yes("files_separately").No("not_hh")

	b.Add("files_separately").
		Describe("Do you and your spouse file separate returns?").
		Ask(predicate.FactTrue, map[string]any{"fact": "files_separately"}).
		Yes("married_residence").No("not_hh")

	b.Add("married_residence").
		Describe("Is your home the qualifying person's principal residence for over half the year?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "residence_share", "op": "gt", "value": 0.5, "label": "half",
		}).
		Yes("household_maintained").No("not_hh")

	b.Add("household_maintained").
		Describe("Do you provide over half the cost of running the household?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "household_cost_share", "op": "gt", "value": 0.5, "label": "half",
		}).
		Yes("is_parent").No("not_hh")

	// Qualifying person rules differ by who they are. A parent need not live
	// with you but must be your dependent.
	b.Add("is_parent").
		Describe("Is the qualifying person your parent?").
		Ask(predicate.CategoryIs, map[string]any{"fact": "relationship", "value": "parent"}).
		Yes("parent_dependent").No("is_child")

	b.Add("parent_dependent").
		Describe("Is your parent your dependent?").
		Delegate(dependent, OutcomeDependent).
		Yes("hh").No("not_hh")

	// An unmarried child qualifies without being your dependent; a married
	// one must be.
	b.Add("is_child").
		Describe("Is the qualifying person your child?").
		Ask(predicate.CategoryIs, map[string]any{"fact": "relationship", "value": "child"}).
		Yes("child_married").No("other_residence")

	b.Add("child_married").
		Describe("Is your child married?").
		Ask(predicate.FactTrue, map[string]any{"fact": "qualifying_person_married"}).
		Yes("child_dependent").No("hh")

	b.Add("child_dependent").
		Describe("Is your married child your dependent?").
		Delegate(dependent, OutcomeDependent).
		Yes("hh").No("not_hh")

	// Everyone else: must live with you, be related, and be your dependent.
	b.Add("other_residence").
		Describe("Is their principal residence the same as yours for over half the year?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "residence_share", "op": "gt", "value": 0.5, "label": "half",
		}).
		Yes("is_relative").No("not_hh")

	b.Add("is_relative").
		Describe("Is the qualifying person related to you?").
		Ask(predicate.CategoryIn, map[string]any{
			"fact": "relationship", "values": []string{"spouse", "cousin", "unrelated"},
		}).
		Yes("not_hh").No("other_dependent")

	b.Add("other_dependent").
		Describe("Is the qualifying person your dependent?").
		Delegate(dependent, OutcomeDependent).
		Yes("hh").No("not_hh")

	b.Add("hh").Describe("You can file as head of household").Outcome(OutcomeHeadOfHousehold)
	b.Add("not_hh").Describe("Cannot file as head of household").Outcome(OutcomeNotHeadOfHousehold)

	return mustBuild(b)
}
