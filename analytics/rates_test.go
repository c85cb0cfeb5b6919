package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

func TestRatesOnEmptyPopulation(t *testing.T) {
	var none []models.Student
	assert.Equal(t, 0.0, BeneficiaryRate(none))
	assert.Equal(t, 0.0, AtRiskRate(none))
	assert.Equal(t, 0.0, EnrollmentRatio(none))
	assert.Equal(t, 0.0, DataCompleteness(none))
}

func TestBeneficiaryRate(t *testing.T) {
	students := make([]models.Student, 0, 10)
	for i := 0; i < 10; i++ {
		students = append(students, models.Student{ID: uint(i + 1), IsBeneficiary: i < 4})
	}
	assert.Equal(t, 40.0, Round1(BeneficiaryRate(students)))
}

func TestAtRiskRateIgnoresUnmeasured(t *testing.T) {
	students := []models.Student{
		{BMI: fp(14)},   // at risk
		{BMI: fp(20)},   // normal
		{BMI: fp(27)},   // at risk
		{BMI: nil},      // unmeasured
		{BMI: fp(-1)},   // invalid
		{BMI: fp(18.5)}, // normal, boundary
	}
	// 2 of 4 measured
	assert.Equal(t, 50.0, Round1(AtRiskRate(students)))
}

func TestEnrollmentRatio(t *testing.T) {
	students := []models.Student{
		{BMI: fp(14), IsBeneficiary: true},
		{BMI: fp(26), IsBeneficiary: false},
		{BMI: fp(31), IsBeneficiary: true},
		{BMI: fp(20), IsBeneficiary: true}, // healthy: not in the denominator
	}
	// 2 of 3 at-risk enrolled
	assert.InDelta(t, 66.7, Round1(EnrollmentRatio(students)), 0.001)
}

func TestDataCompletenessAllMissing(t *testing.T) {
	students := withBMIs(nil, nil)
	assert.Equal(t, 0.0, DataCompleteness(students))
	assert.Equal(t, Distribution{}, Aggregate(students))
}

func TestBeneficiaryHealthMetrics(t *testing.T) {
	beneficiaries := []models.Student{
		{BMI: fp(20)},  // improved
		{BMI: fp(22)},  // improved
		{BMI: fp(17)},  // stable
		{BMI: fp(27)},  // stable
		{BMI: fp(14)},  // declined
		{BMI: fp(32)},  // declined
		{BMI: nil},     // unmeasured, still in the denominator
	}
	m := BeneficiaryHealthMetrics(beneficiaries)
	assert.Equal(t, 2, m.ImprovedCount)
	assert.Equal(t, 2, m.StableCount)
	assert.Equal(t, 2, m.DeclinedCount)
	assert.InDelta(t, 28.6, m.ImprovementRate, 0.001)
}

func TestScoreSchoolEmpty(t *testing.T) {
	p := ScoreSchool("Mabini Elementary", nil)
	assert.Equal(t, 0, p.StudentCount)
	assert.Equal(t, 0.0, p.Score)
}

func TestScoreSchool(t *testing.T) {
	students := []models.Student{
		{BMI: fp(20), IsBeneficiary: true},
		{BMI: fp(17), IsBeneficiary: true},
		{BMI: fp(27)},
		{BMI: nil},
	}
	p := ScoreSchool("Rizal Central", students)
	assert.Equal(t, 4, p.StudentCount)
	assert.Equal(t, 2, p.Beneficiaries)
	assert.Equal(t, 2, p.AtRisk)
	assert.Equal(t, 75.0, p.DataCompleteness)
	assert.Equal(t, 50.0, p.ImprovementRate)
	assert.Equal(t, 62.5, p.Score)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 33.3, Round1(100.0/3))
	assert.Equal(t, 66.7, Round1(200.0/3))
	assert.Equal(t, 0.0, Round1(0))
}
