package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

func registered(bmi *float64, year int, month time.Month) models.Student {
	return models.Student{
		BMI:       bmi,
		CreatedAt: time.Date(year, month, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestMonthlyDistributionsEmptyBucketFallsBackToPopulation(t *testing.T) {
	students := []models.Student{
		registered(fp(20), 2025, time.March),
		registered(fp(14), 2025, time.March),
		registered(fp(27), 2025, time.June),
	}
	buckets := MonthlyDistributions(students)
	assert.Len(t, buckets, 12)

	overall := Aggregate(students)

	mar := buckets[2]
	assert.Equal(t, "Mar", mar.Label)
	assert.Equal(t, Distribution{SeverelyWasted: 1, Normal: 1}, mar.Distribution)

	// April has no students: smoothed with the population aggregate, not zero.
	apr := buckets[3]
	assert.Equal(t, "Apr", apr.Label)
	assert.Equal(t, overall, apr.Distribution)
	assert.NotEqual(t, Distribution{}, apr.Distribution)
}

func TestMonthlyDistributionsEmptyPopulation(t *testing.T) {
	buckets := MonthlyDistributions(nil)
	assert.Len(t, buckets, 12)
	for _, b := range buckets {
		assert.Equal(t, Distribution{}, b.Distribution)
	}
}

func TestMonthlyHealthyTrendFallback(t *testing.T) {
	students := []models.Student{
		registered(fp(20), 2025, time.February), // healthy
		registered(fp(14), 2025, time.February), // at risk
	}
	series := MonthlyHealthyTrend(students)
	assert.Equal(t, 12, len(series.Labels))
	assert.Equal(t, "Feb", series.Labels[1])
	assert.Equal(t, 50.0, series.Values[1])
	// empty month carries the population share
	assert.Equal(t, 50.0, series.Values[7])
}

func TestBMIProgressUsesPopulationAverageThenHealthyDefault(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	students := []models.Student{
		registered(fp(20), 2025, time.May),
		registered(fp(22), 2025, time.May),
		registered(fp(16), 2025, time.June),
	}
	series := BMIProgress(students, now, 6)
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}, series.Labels)
	assert.Equal(t, 21.0, series.Values[4])
	assert.Equal(t, 16.0, series.Values[5])
	// January had nobody: overall average (20+22+16)/3
	assert.InDelta(t, 19.3, series.Values[0], 0.001)

	// No BMI data anywhere: flat healthy baseline.
	empty := BMIProgress(withBMIs(nil, nil), now, 6)
	for _, v := range empty.Values {
		assert.Equal(t, 18.5, v)
	}
}

func TestTrendHealthyVsAtRisk(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	students := []models.Student{
		registered(fp(20), 2025, time.June),
		registered(fp(14), 2025, time.June),
		registered(fp(27), 2025, time.June),
		registered(nil, 2025, time.June),
		registered(fp(20), 2024, time.June), // wrong year, excluded
	}
	tr := TrendHealthyVsAtRisk(students, now, 6)
	assert.Equal(t, "Jun", tr.Labels[5])
	assert.Equal(t, 1, tr.Healthy[5])
	assert.Equal(t, 2, tr.AtRisk[5])
	assert.Equal(t, 0, tr.Healthy[0])
}

func TestAnalyzeSections(t *testing.T) {
	sections := []models.Section{
		{ID: 10, Name: "Sampaguita"},
		{ID: 11, Name: "Rosal"},
	}
	students := []models.Student{
		{SectionID: up(10), BMI: fp(20), IsBeneficiary: true},
		{SectionID: up(10), BMI: nil},
		{SectionID: up(11), BMI: fp(14), IsBeneficiary: true},
	}
	a := AnalyzeSections(sections, students)
	assert.Equal(t, []string{"Sampaguita", "Rosal"}, a.Labels)
	assert.Equal(t, []int{2, 1}, a.TotalStudents)
	assert.Equal(t, []int{1, 1}, a.Beneficiaries)
	assert.Equal(t, []float64{50.0, 100.0}, a.ParticipationRate)
}

func TestSummarizeMonth(t *testing.T) {
	now := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	students := []models.Student{
		registered(fp(20), 2025, time.June),
		registered(fp(14), 2025, time.June), // severe alert
		registered(fp(31), 2025, time.May),  // severe alert, earlier month
		registered(nil, 2025, time.June),
	}
	s := SummarizeMonth(students, now)
	assert.Equal(t, "June 2025", s.CurrentMonth)
	assert.Equal(t, 3, s.NewStudents)
	assert.Equal(t, 3, s.AssessmentsCompleted)
	assert.Equal(t, 2, s.AlertsGenerated)
}
