package worksheet

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"lattice/pkg/domain"
)

// Table bundles the year-specific thresholds the procedures and trees depend
// on. Tables are supplied by the caller (typically loaded from a YAML file
// published per tax year) so the algorithms themselves stay constant-free.
type Table struct {
	Year                      int                                   `yaml:"year" json:"year"`
	QBIPhaseOut               map[domain.FilingStatus]QBIPhaseOut   `yaml:"qbi_phase_out" json:"qbi_phase_out"`
	SocialSecurity            map[domain.FilingStatus]SSAThresholds `yaml:"social_security" json:"social_security"`
	DependentGrossIncomeLimit float64                               `yaml:"dependent_gross_income_limit" json:"dependent_gross_income_limit"`
}

// LoadTable reads a threshold table from YAML. Unknown fields are rejected so
// a typo in a published table fails loudly instead of silently defaulting.
func LoadTable(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding threshold table: %w", err)
	}
	return &t, nil
}

// QBIFor returns the phase-out window for a filing status.
func (t *Table) QBIFor(status domain.FilingStatus) (QBIPhaseOut, error) {
	p, ok := t.QBIPhaseOut[status]
	if !ok {
		return QBIPhaseOut{}, fmt.Errorf("table for %d has no QBI phase-out for status %q", t.Year, status)
	}
	return p, nil
}

// SSAFor returns the social security base amounts for a filing status.
func (t *Table) SSAFor(status domain.FilingStatus) (SSAThresholds, error) {
	th, ok := t.SocialSecurity[status]
	if !ok {
		return SSAThresholds{}, fmt.Errorf("table for %d has no social security thresholds for status %q", t.Year, status)
	}
	return th, nil
}

// DefaultTable returns the 2023 thresholds. It is a convenience for examples
// and the CLI; serious callers load the table for the year they need.
func DefaultTable() *Table {
	return &Table{
		Year: 2023,
		QBIPhaseOut: map[domain.FilingStatus]QBIPhaseOut{
			domain.Single:                    {Lower: 182_100, Size: 50_000},
			domain.HeadOfHousehold:           {Lower: 182_100, Size: 50_000},
			domain.MarriedFilingSeparately:   {Lower: 182_100, Size: 50_000},
			domain.MarriedFilingJointly:      {Lower: 364_200, Size: 100_000},
			domain.QualifyingSurvivingSpouse: {Lower: 364_200, Size: 100_000},
		},
		SocialSecurity: map[domain.FilingStatus]SSAThresholds{
			domain.Single:                    {Base: 25_000, Tier1Width: 9_000},
			domain.HeadOfHousehold:           {Base: 25_000, Tier1Width: 9_000},
			domain.QualifyingSurvivingSpouse: {Base: 25_000, Tier1Width: 9_000},
			domain.MarriedFilingJointly:      {Base: 32_000, Tier1Width: 12_000},
			// Zero for spouses who lived together at any point in the year;
			// see IRC 86(c)(1)(C).
			domain.MarriedFilingSeparately: {Base: 0, Tier1Width: 0},
		},
		DependentGrossIncomeLimit: 4_700,
	}
}
