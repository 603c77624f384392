// Package worksheet implements the numeric aggregation procedures that sit
// alongside the decision trees: capital gain/loss netting, the qualified
// business income deduction, and the taxable portion of social security
// benefits. Each procedure is a pure function from a structured input plus an
// externally supplied threshold table to a result with its intermediate
// figures, so year-specific constants never live in the algorithms.
package worksheet
