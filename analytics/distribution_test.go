package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

func fp(v float64) *float64 { return &v }
func up(v uint) *uint       { return &v }

func withBMIs(bmis ...*float64) []models.Student {
	out := make([]models.Student, 0, len(bmis))
	for i, b := range bmis {
		out = append(out, models.Student{ID: uint(i + 1), BMI: b})
	}
	return out
}

func TestAggregateEmpty(t *testing.T) {
	d := Aggregate(nil)
	assert.Equal(t, Distribution{}, d)
	assert.Equal(t, 0, d.Total())
}

func TestAggregateOnePerBand(t *testing.T) {
	d := Aggregate(withBMIs(fp(15), fp(17), fp(20), fp(27), fp(32)))
	assert.Equal(t, Distribution{
		SeverelyWasted: 1,
		Wasted:         1,
		Normal:         1,
		Overweight:     1,
		Obese:          1,
	}, d)
}

func TestAggregateSkipsMissingAndInvalidBMI(t *testing.T) {
	d := Aggregate(withBMIs(nil, nil, fp(0), fp(-3), fp(21)))
	assert.Equal(t, Distribution{Normal: 1}, d)
	assert.Equal(t, 1, d.Total())
}

func TestAggregateOrderIndependent(t *testing.T) {
	a := withBMIs(fp(15), fp(17), fp(20), fp(27), fp(32), nil, fp(22.5))
	b := withBMIs(fp(22.5), nil, fp(32), fp(27), fp(20), fp(17), fp(15))
	assert.Equal(t, Aggregate(a), Aggregate(b))
}

func TestAggregateTotalMatchesMeasuredCount(t *testing.T) {
	students := withBMIs(fp(14), fp(18.5), nil, fp(26), fp(0), fp(31), fp(19))
	assert.Equal(t, len(WithBMI(students)), Aggregate(students).Total())
}

func TestBeneficiariesReadsStoredFlagOnly(t *testing.T) {
	students := []models.Student{
		{ID: 1, BMI: fp(14), IsBeneficiary: false}, // unhealthy but not flagged
		{ID: 2, BMI: fp(21), IsBeneficiary: true},  // healthy but flagged
		{ID: 3, IsBeneficiary: true},
	}
	got := Beneficiaries(students)
	assert.Len(t, got, 2)
	assert.Equal(t, uint(2), got[0].ID)
	assert.Equal(t, uint(3), got[1].ID)
}

func TestAtRiskStudentsSevereBandsSorted(t *testing.T) {
	students := withBMIs(fp(31), fp(14), fp(21), fp(15.2), nil, fp(26))
	got := AtRiskStudents(students)
	assert.Len(t, got, 3)
	assert.Equal(t, 14.0, *got[0].BMI)
	assert.Equal(t, 15.2, *got[1].BMI)
	assert.Equal(t, 31.0, *got[2].BMI)
}
