package worksheet

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/pkg/domain"
)

// A round-number window keeps the arithmetic legible; real windows come from
// the year's threshold table.
var testPhase = QBIPhaseOut{Lower: 100_000, Size: 50_000}

func TestComputeQBI_BelowThreshold(t *testing.T) {
	in := QBIInput{
		QualifiedIncome:       100_000,
		ModifiedTaxableIncome: 95_000,
		AGI:                   90_000,
	}

	result, err := ComputeQBI(in, testPhase)
	require.NoError(t, err)

	// No wages at all, yet the limitation cannot bind below the window.
	assert.Equal(t, 19_000.0, result.Deduction) // 20% of MTI, the binding element
	assert.True(t, math.IsInf(result.WageProperty, 1))
	assert.Equal(t, 0.0, result.PhaseInFraction)
}

func TestComputeQBI_TwentyPercentOfQBI(t *testing.T) {
	in := QBIInput{
		QualifiedIncome:       100_000,
		ModifiedTaxableIncome: 980_000, // MTI far above QBI
		AGI:                   90_000,
	}

	result, err := ComputeQBI(in, testPhase)
	require.NoError(t, err)
	assert.Equal(t, 20_000.0, result.Deduction)
}

func TestComputeQBI_AboveCeiling(t *testing.T) {
	in := QBIInput{
		QualifiedIncome:       50_000,
		ModifiedTaxableIncome: 125_000,
		AGI:                   200_000,
		W2Wages:               10_000,
	}

	result, err := ComputeQBI(in, testPhase)
	require.NoError(t, err)

	// Full wage limitation: 1.25 * max(20000, 10000) = 25000 binds.
	assert.Equal(t, 25_000.0, result.WageProperty)
	assert.Equal(t, 5_000.0, result.Deduction)
}

func TestComputeQBI_CeilingBoundaryIsInclusive(t *testing.T) {
	in := QBIInput{
		QualifiedIncome:       50_000,
		ModifiedTaxableIncome: 125_000,
		AGI:                   testPhase.Upper(),
		W2Wages:               10_000,
	}

	result, err := ComputeQBI(in, testPhase)
	require.NoError(t, err)
	assert.Equal(t, 25_000.0, result.WageProperty)
	assert.Equal(t, 5_000.0, result.Deduction)
}

func TestComputeQBI_MidPhaseIn(t *testing.T) {
	// Halfway through the window: half the gap between QBI and the
	// limitation is clawed back.
	in := QBIInput{
		QualifiedIncome:       50_000,
		ModifiedTaxableIncome: 125_000,
		AGI:                   125_000,
		W2Wages:               10_000,
	}

	result, err := ComputeQBI(in, testPhase)
	require.NoError(t, err)

	assert.Equal(t, 0.5, result.PhaseInFraction)
	assert.Equal(t, 37_500.0, result.QBIElement) // 50000 - 0.5*(50000-25000)
	assert.Equal(t, 7_500.0, result.Deduction)
}

func TestComputeQBI_UBIAFavoredOverLowWages(t *testing.T) {
	in := QBIInput{
		QualifiedIncome:       100_000,
		ModifiedTaxableIncome: 300_000,
		AGI:                   300_000,
		W2Wages:               5_000,
		UBIA:                  500_000,
	}

	result, err := ComputeQBI(in, testPhase)
	require.NoError(t, err)

	// wages + 10% UBIA = 55000 beats 2*wages = 10000.
	assert.Equal(t, 1.25*55_000, result.WageProperty)
	assert.InDelta(t, 13_750.0, result.Deduction, 1e-9)
}

func TestComputeQBI_NegativeWages(t *testing.T) {
	_, err := ComputeQBI(QBIInput{W2Wages: -1}, testPhase)

	var negErr *domain.NegativeInputError
	require.True(t, errors.As(err, &negErr))
	assert.Equal(t, "w2_wages", negErr.Field)
}
