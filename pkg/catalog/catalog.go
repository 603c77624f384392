package catalog

import (
	"lattice/pkg/adapters/memory"
	"lattice/pkg/worksheet"
)

// NewLoader returns a TreeLoader serving every built-in tree, with
// year-specific thresholds taken from the table.
func NewLoader(table *worksheet.Table) (*memory.Loader, error) {
	limit := table.DependentGrossIncomeLimit
	return memory.NewLoader(
		IncomeInclusion(),
		DependentEligibility(),
		QualifyingChild(),
		QualifyingRelative(limit),
		Dependent(limit),
		HeadOfHousehold(limit),
	)
}
