package worksheet

import (
	"math"

	"lattice/pkg/domain"
)

// SSAThresholds is the pair of statutory base amounts for one filing status:
// combined income up to Base is untaxed, the next Tier1Width is included at
// up to 50%, and everything beyond at up to 85%.
type SSAThresholds struct {
	Base       float64 `json:"base" yaml:"base"`
	Tier1Width float64 `json:"tier1_width" yaml:"tier1_width"`
}

// SSAInput carries the figures for one taxable-benefits computation.
// NonSSAAGI is AGI computed without any social security benefits in it.
type SSAInput struct {
	Benefits              float64 `json:"benefits" yaml:"benefits"`
	NonSSAAGI             float64 `json:"non_ssa_agi" yaml:"non_ssa_agi"`
	TaxExemptInterest     float64 `json:"tax_exempt_interest" yaml:"tax_exempt_interest"`
	ExcludedForeignIncome float64 `json:"excluded_foreign_income" yaml:"excluded_foreign_income"`
	AdoptionBenefits      float64 `json:"adoption_benefits" yaml:"adoption_benefits"`
	AdjustmentsForAGI     float64 `json:"adjustments_for_agi" yaml:"adjustments_for_agi"`
}

// SSATier reports how much combined income one tier absorbed and what it
// contributed to the taxable amount.
type SSATier struct {
	Cap     float64 `json:"cap"`
	Rate    float64 `json:"rate"`
	Applied float64 `json:"applied"`
	Taxable float64 `json:"taxable"`
}

// SSAResult is the taxable portion of benefits plus the tier-by-tier
// breakdown used to reach it.
type SSAResult struct {
	Taxable        float64   `json:"taxable"`
	CombinedIncome float64   `json:"combined_income"`
	Tiers          []SSATier `json:"tiers,omitempty"`
}

// ComputeTaxableSocialSecurity computes the taxable portion of social
// security benefits. Combined income (modified AGI plus half the benefits)
// is fed through three tiers: the first Base dollars at 0%, the next
// Tier1Width at 50%, the rest at 85%, with the running total capped at each
// tier's rate times total benefits. Boundaries are inclusive downward: a
// combined income exactly at Base produces 0.
func ComputeTaxableSocialSecurity(in SSAInput, th SSAThresholds) (SSAResult, error) {
	if in.Benefits < 0 {
		return SSAResult{}, &domain.NegativeInputError{Field: "benefits", Value: in.Benefits}
	}

	magiLessSSA := in.NonSSAAGI + in.TaxExemptInterest + in.ExcludedForeignIncome +
		in.AdoptionBenefits - in.AdjustmentsForAGI
	combined := magiLessSSA + 0.5*in.Benefits

	tiers := []SSATier{
		{Cap: th.Base, Rate: 0},
		{Cap: th.Tier1Width, Rate: 0.5},
		{Cap: math.Inf(1), Rate: 0.85},
	}

	result := SSAResult{CombinedIncome: combined}
	remaining := combined
	for i := range tiers {
		if remaining <= 0 {
			break
		}
		tier := &tiers[i]
		tier.Applied = math.Min(remaining, tier.Cap)
		result.Taxable += tier.Rate * tier.Applied

		// Each tier's rate also caps the cumulative total against the
		// benefits themselves.
		if limit := tier.Rate * in.Benefits; result.Taxable > limit {
			result.Taxable = limit
		}
		tier.Taxable = result.Taxable
		remaining -= tier.Applied
		result.Tiers = append(result.Tiers, *tier)
	}
	return result, nil
}
