package worksheet

import (
	"math"

	"lattice/pkg/domain"
)

// QBIPhaseOut is the phase-in window for the wage/property limitation: below
// Lower the limitation never applies, above Lower+Size it applies in full, and
// in between it phases in linearly.
type QBIPhaseOut struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Size  float64 `json:"size" yaml:"size"`
}

// Upper is the ceiling of the phase-in window.
func (p QBIPhaseOut) Upper() float64 { return p.Lower + p.Size }

// QBIInput carries the figures for one qualified business income computation.
// QualifiedIncome is the combined QBI across businesses; UBIA is the
// unadjusted basis immediately after acquisition of qualified property.
type QBIInput struct {
	QualifiedIncome       float64 `json:"qualified_income" yaml:"qualified_income"`
	ModifiedTaxableIncome float64 `json:"modified_taxable_income" yaml:"modified_taxable_income"`
	AGI                   float64 `json:"agi" yaml:"agi"`
	W2Wages               float64 `json:"w2_wages" yaml:"w2_wages"`
	UBIA                  float64 `json:"ubia" yaml:"ubia"`
}

// QBIResult is the deduction plus the three elements whose minimum produced
// it. WageProperty is +Inf when the taxpayer is below the phase-out window
// and the limitation cannot bind.
type QBIResult struct {
	Deduction       float64 `json:"deduction"`
	IncomeElement   float64 `json:"income_element"`
	QBIElement      float64 `json:"qbi_element"`
	WageProperty    float64 `json:"wage_property"`
	PhaseInFraction float64 `json:"phase_in_fraction"`
}

// ComputeQBI computes the qualified business income deduction:
//
//	deduction = 0.2 * min(MTI, QBI', 1.25 * max(2*wages, wages + 0.1*UBIA))
//
// with the 20% factored out of every element. Whether the wage/property
// element can bind depends only on AGI against the phase-out window: below
// the window the element is infinite (so never chosen), at or above the
// ceiling it binds in full, and inside the window the QBI element is reduced
// by the phased-in fraction of the gap between QBI and the limitation. The
// ceiling is inclusive: AGI exactly at Lower+Size takes the full limitation.
func ComputeQBI(in QBIInput, phase QBIPhaseOut) (QBIResult, error) {
	if in.W2Wages < 0 {
		return QBIResult{}, &domain.NegativeInputError{Field: "w2_wages", Value: in.W2Wages}
	}
	if in.UBIA < 0 {
		return QBIResult{}, &domain.NegativeInputError{Field: "ubia", Value: in.UBIA}
	}

	wageProp := 1.25 * math.Max(2*in.W2Wages, in.W2Wages+0.1*in.UBIA)

	wageElement := wageProp
	if in.AGI < phase.Upper() {
		wageElement = math.Inf(1)
	}

	// Inside the window, pull the QBI element toward the limitation in
	// proportion to how far income has advanced through it.
	var fraction float64
	if phase.Lower < in.AGI && in.AGI < phase.Upper() {
		fraction = (in.ModifiedTaxableIncome - phase.Lower) / phase.Size
	}
	qbiElement := in.QualifiedIncome - fraction*(in.QualifiedIncome-wageProp)

	result := QBIResult{
		IncomeElement:   in.ModifiedTaxableIncome,
		QBIElement:      qbiElement,
		WageProperty:    wageElement,
		PhaseInFraction: fraction,
	}
	result.Deduction = 0.2 * math.Min(result.IncomeElement, math.Min(result.QBIElement, result.WageProperty))
	return result, nil
}
