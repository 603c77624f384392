package worksheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/pkg/domain"
)

const tableYAML = `
year: 2023
dependent_gross_income_limit: 4700
qbi_phase_out:
  single:
    lower: 182100
    size: 50000
  mfj:
    lower: 364200
    size: 100000
social_security:
  single:
    base: 25000
    tier1_width: 9000
  mfj:
    base: 32000
    tier1_width: 12000
  mfs:
    base: 0
    tier1_width: 0
`

func TestLoadTable(t *testing.T) {
	table, err := LoadTable(strings.NewReader(tableYAML))
	require.NoError(t, err)

	assert.Equal(t, 2023, table.Year)
	assert.Equal(t, 4700.0, table.DependentGrossIncomeLimit)

	qbi, err := table.QBIFor(domain.MarriedFilingJointly)
	require.NoError(t, err)
	assert.Equal(t, QBIPhaseOut{Lower: 364_200, Size: 100_000}, qbi)
	assert.Equal(t, 464_200.0, qbi.Upper())

	ssa, err := table.SSAFor(domain.Single)
	require.NoError(t, err)
	assert.Equal(t, SSAThresholds{Base: 25_000, Tier1Width: 9_000}, ssa)
}

func TestLoadTable_UnknownField(t *testing.T) {
	_, err := LoadTable(strings.NewReader("year: 2023\nbogus: 1\n"))
	assert.Error(t, err)
}

func TestTable_MissingStatus(t *testing.T) {
	table, err := LoadTable(strings.NewReader(tableYAML))
	require.NoError(t, err)

	_, err = table.QBIFor(domain.HeadOfHousehold)
	assert.ErrorContains(t, err, "no QBI phase-out")

	_, err = table.SSAFor(domain.QualifyingSurvivingSpouse)
	assert.ErrorContains(t, err, "no social security thresholds")
}

func TestDefaultTable_CoversEveryStatus(t *testing.T) {
	table := DefaultTable()
	for _, status := range []domain.FilingStatus{
		domain.Single,
		domain.MarriedFilingJointly,
		domain.MarriedFilingSeparately,
		domain.HeadOfHousehold,
		domain.QualifyingSurvivingSpouse,
	} {
		_, err := table.QBIFor(status)
		assert.NoError(t, err, status)
		_, err = table.SSAFor(status)
		assert.NoError(t, err, status)
	}
}
