package catalog

import (
	"lattice/pkg/domain"
	"lattice/pkg/dsl"
	"lattice/pkg/predicate"
)

// Outcomes shared across the catalog trees.
const (
	OutcomeInclude = domain.Outcome("include")
	OutcomeExclude = domain.Outcome("exclude")

	OutcomeEligible    = domain.Outcome("eligible")
	OutcomeNotEligible = domain.Outcome("not_eligible")

	OutcomeQualifyingChild       = domain.Outcome("qualifying_child")
	OutcomeNotQualifyingChild    = domain.Outcome("not_qualifying_child")
	OutcomeQualifyingRelative    = domain.Outcome("qualifying_relative")
	OutcomeNotQualifyingRelative = domain.Outcome("not_qualifying_relative")

	OutcomeDependent    = domain.Outcome("dependent")
	OutcomeNotDependent = domain.Outcome("not_dependent")
)

// childRelationships are the relationships that can make someone a
// qualifying child: children, siblings, and their descendants. The
// relationship survives divorce or the death of a spouse.
var childRelationships = []string{
	"child", "stepchild", "adopted_child", "foster_child",
	"sibling", "stepsibling", "adopted_sibling", "foster_sibling",
	"niece", "nephew", "grand_niece", "grand_nephew", "grandchild",
}

// DependentEligibility returns the baseline checks every dependent must
// pass regardless of which test qualifies them: a taxpayer identification
// number, citizenship or residency in the US, Mexico, or Canada, and no
// joint return (unless filed only to claim a refund).
func DependentEligibility() *domain.Tree {
	b := dsl.New("dependent_eligibility")

	b.Root("has_tin").
		Describe("Does the person have a TIN, SSN, or other tax identification number?").
		Ask(predicate.FactTrue, map[string]any{"fact": "has_tin"}).
		Yes("nationality").No("not_eligible")

	b.Add("nationality").
		Describe("Is the person a citizen or national of the US, Mexico, or Canada?").
		Ask(predicate.CategoryIn, map[string]any{
			"fact": "nationality", "values": []string{"US", "Mexico", "Canada"},
		}).
		Yes("files_jointly").No("residency")

	b.Add("residency").
		Describe("Is the person a resident of the US, Mexico, or Canada?").
		Ask(predicate.CategoryIn, map[string]any{
			"fact": "residency", "values": []string{"US", "Mexico", "Canada"},
		}).
		Yes("files_jointly").No("not_eligible")

	b.Add("files_jointly").
		Describe("Does the person file a joint return with a spouse?").
		Ask(predicate.FactTrue, map[string]any{"fact": "files_jointly"}).
		Yes("refund_only").No("eligible")

	b.Add("refund_only").
		Describe("Is the joint return filed only to claim a refund?").
		Ask(predicate.FactTrue, map[string]any{"fact": "files_jointly_only_for_refund"}).
		Yes("eligible").No("not_eligible")

	b.Add("eligible").Outcome(OutcomeEligible)
	b.Add("not_eligible").Outcome(OutcomeNotEligible)

	return mustBuild(b)
}

// QualifyingChild returns the qualifying child test: relationship, age
// (under 24, with a student requirement from 19), principal residence for
// over half the year, not self-supporting, and the baseline eligibility
// checks.
func QualifyingChild() *domain.Tree {
	eligibility := DependentEligibility()
	b := dsl.New("qualifying_child")

	b.Root("relationship").
		Describe("Is the person your child, sibling, or a descendant of either?").
		Ask(predicate.CategoryIn, map[string]any{
			"fact": "relationship", "values": childRelationships,
		}).
		Yes("under_24").No("no")

	b.Add("under_24").
		Describe("Is the person under 24 at the end of the tax year?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "age", "op": "lt", "value": 24, "label": "age limit",
		}).
		Yes("under_19").No("no")

	b.Add("under_19").
		Describe("Is the person under 19?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "age", "op": "lt", "value": 19, "label": "student age limit",
		}).
		Yes("residence").No("enrolled")

	// 19 through 23 requires school or farm training program enrollment for
	// at least 5 months of the year.
	b.Add("enrolled").
		Describe("Was the person enrolled at school for at least 5 months?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "months_enrolled_at_school", "op": "gte", "value": 5, "label": "months",
		}).
		Yes("residence").No("no")

	b.Add("residence").
		Describe("Did the person share your principal residence for over half the year?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "residence_share", "op": "gt", "value": 0.5, "label": "half",
		}).
		Yes("self_support").No("no")

	b.Add("self_support").
		Describe("Did the person provide over half of their own support?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "own_support_share", "op": "gt", "value": 0.5, "label": "half",
		}).
		Yes("no").No("eligibility")

	b.Add("eligibility").
		Describe("Does the person pass the baseline dependent checks?").
		Delegate(eligibility, OutcomeEligible).
		Yes("yes").No("no")

	b.Add("yes").Outcome(OutcomeQualifyingChild)
	b.Add("no").Outcome(OutcomeNotQualifyingChild)

	return mustBuild(b)
}

// QualifyingRelative returns the qualifying relative test. grossIncomeLimit
// is the year's dependent gross income ceiling from the threshold table.
// The person must not be a qualifying child, must satisfy relationship or
// full-year residence, stay under the gross income limit, and receive over
// half their support from you.
func QualifyingRelative(grossIncomeLimit float64) *domain.Tree {
	child := QualifyingChild()
	eligibility := DependentEligibility()
	b := dsl.New("qualifying_relative")

	b.Root("is_child").
		Describe("Is the person your qualifying child?").
		Delegate(child, OutcomeQualifyingChild).
		Yes("no").No("is_spouse")

	b.Add("is_spouse").
		Describe("Is the person your spouse?").
		Ask(predicate.CategoryIs, map[string]any{"fact": "relationship", "value": "spouse"}).
		Yes("no").No("unrelated")

	// Relationship OR residence: unrelated persons can still qualify by
	// living with you the entire year.
	b.Add("unrelated").
		Describe("Is the person unrelated to you (or a cousin)?").
		Ask(predicate.CategoryIn, map[string]any{
			"fact": "relationship", "values": []string{"unrelated", "cousin"},
		}).
		Yes("full_year_residence").No("gross_income")

	b.Add("full_year_residence").
		Describe("Did the person live with you for the entire year?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "residence_share", "op": "gte", "value": 1, "label": "full year",
		}).
		Yes("gross_income").No("no")

	b.Add("gross_income").
		Describe("Is the person's gross income under the annual limit?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "gross_income", "op": "lt", "value": grossIncomeLimit, "label": "threshold",
		}).
		Yes("support").No("no")

	b.Add("support").
		Describe("Did you provide over half of the person's support?").
		Ask(predicate.NumberCompare, map[string]any{
			"fact": "support_share", "op": "gt", "value": 0.5, "label": "half",
		}).
		Yes("eligibility").No("no")

	b.Add("eligibility").
		Describe("Does the person pass the baseline dependent checks?").
		Delegate(eligibility, OutcomeEligible).
		Yes("yes").No("no")

	b.Add("yes").Outcome(OutcomeQualifyingRelative)
	b.Add("no").Outcome(OutcomeNotQualifyingRelative)

	return mustBuild(b)
}

// Dependent returns the combined dependent determination: a person is a
// dependent if they are a qualifying child or, failing that, a qualifying
// relative.
func Dependent(grossIncomeLimit float64) *domain.Tree {
	b := dsl.New("dependent")

	b.Root("child").
		Describe("Is the person your qualifying child?").
		Delegate(QualifyingChild(), OutcomeQualifyingChild).
		Yes("yes").No("relative")

	b.Add("relative").
		Describe("Is the person your qualifying relative?").
		Delegate(QualifyingRelative(grossIncomeLimit), OutcomeQualifyingRelative).
		Yes("yes").No("no")

	b.Add("yes").Outcome(OutcomeDependent)
	b.Add("no").Outcome(OutcomeNotDependent)

	return mustBuild(b)
}
