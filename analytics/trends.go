package analytics

import (
	"time"

	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

// ChartSeries is the labels/values shape the dashboard charts consume.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// MonthBucket is one calendar month of the yearly trend view.
type MonthBucket struct {
	Label        string       `json:"label"`
	Distribution Distribution `json:"distribution"`
}

var monthAbbr = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func registeredIn(s models.Student, month time.Month) bool {
	return s.CreatedAt.Month() == month
}

// MonthlyDistributions partitions the population into the twelve calendar
// months by registration date and aggregates each bucket. A month with no
// students takes the all-population aggregate instead of zeros, so sparse
// data does not chart as an empty year.
func MonthlyDistributions(students []models.Student) []MonthBucket {
	overall := Aggregate(students)
	out := make([]MonthBucket, 0, 12)
	for m := time.January; m <= time.December; m++ {
		bucket := make([]models.Student, 0)
		for _, s := range students {
			if registeredIn(s, m) {
				bucket = append(bucket, s)
			}
		}
		d := overall
		if len(bucket) > 0 {
			d = Aggregate(bucket)
		}
		out = append(out, MonthBucket{Label: monthAbbr[m-1], Distribution: d})
	}
	return out
}

// MonthlyHealthyTrend charts, per calendar month, the percentage of measured
// students in the normal band. Empty months fall back to the population-wide
// percentage.
func MonthlyHealthyTrend(students []models.Student) ChartSeries {
	overall := healthyShare(WithBMI(students))
	series := ChartSeries{Labels: make([]string, 0, 12), Values: make([]float64, 0, 12)}
	for m := time.January; m <= time.December; m++ {
		measured := make([]models.Student, 0)
		for _, s := range students {
			if registeredIn(s, m) && hasBMI(s) {
				measured = append(measured, s)
			}
		}
		v := overall
		if len(measured) > 0 {
			v = healthyShare(measured)
		}
		series.Labels = append(series.Labels, monthAbbr[m-1])
		series.Values = append(series.Values, Round1(v))
	}
	return series
}

func healthyShare(measured []models.Student) float64 {
	healthy := 0
	for _, s := range measured {
		if Classify(*s.BMI) == Normal {
			healthy++
		}
	}
	return pct(healthy, len(measured))
}

// BMIProgress charts the average BMI of students registered in each of the
// last n months, oldest first. Months without data take the population
// average; a population with no BMI data at all charts the flat healthy
// baseline of 18.5.
func BMIProgress(students []models.Student, now time.Time, n int) ChartSeries {
	measured := WithBMI(students)
	fallback := healthyBMI
	if len(measured) > 0 {
		fallback = averageBMI(measured)
	}

	series := ChartSeries{Labels: make([]string, n), Values: make([]float64, n)}
	for i := 0; i < n; i++ {
		at := now.AddDate(0, -(n - 1 - i), 0)
		series.Labels[i] = monthAbbr[at.Month()-1]

		bucket := make([]models.Student, 0)
		for _, s := range measured {
			if s.CreatedAt.Month() == at.Month() && s.CreatedAt.Year() == at.Year() {
				bucket = append(bucket, s)
			}
		}
		v := fallback
		if len(bucket) > 0 {
			v = averageBMI(bucket)
		}
		series.Values[i] = Round1(v)
	}
	return series
}

func averageBMI(measured []models.Student) float64 {
	sum := 0.0
	for _, s := range measured {
		sum += *s.BMI
	}
	return sum / float64(len(measured))
}

// NutritionalTrends counts healthy versus at-risk students registered in
// each of the last n months, oldest first.
type NutritionalTrends struct {
	Labels  []string `json:"labels"`
	Healthy []int    `json:"healthy"`
	AtRisk  []int    `json:"at_risk"`
}

func TrendHealthyVsAtRisk(students []models.Student, now time.Time, n int) NutritionalTrends {
	t := NutritionalTrends{
		Labels:  make([]string, n),
		Healthy: make([]int, n),
		AtRisk:  make([]int, n),
	}
	for i := 0; i < n; i++ {
		at := now.AddDate(0, -(n - 1 - i), 0)
		t.Labels[i] = monthAbbr[at.Month()-1]
		for _, s := range students {
			if !hasBMI(s) || s.CreatedAt.Month() != at.Month() || s.CreatedAt.Year() != at.Year() {
				continue
			}
			if atRisk(*s.BMI) {
				t.AtRisk[i]++
			} else {
				t.Healthy[i]++
			}
		}
	}
	return t
}

// SectionAnalytics is the per-section participation chart: headcount,
// beneficiary count, and the share of students with complete health data.
type SectionAnalytics struct {
	Labels            []string  `json:"labels"`
	TotalStudents     []int     `json:"total_students"`
	Beneficiaries     []int     `json:"beneficiaries"`
	ParticipationRate []float64 `json:"participation_rate"`
}

func AnalyzeSections(sections []models.Section, students []models.Student) SectionAnalytics {
	a := SectionAnalytics{
		Labels:            make([]string, 0, len(sections)),
		TotalStudents:     make([]int, 0, len(sections)),
		Beneficiaries:     make([]int, 0, len(sections)),
		ParticipationRate: make([]float64, 0, len(sections)),
	}
	for _, sec := range sections {
		id := sec.ID
		members := Filter(students, Scope{SectionID: &id})
		a.Labels = append(a.Labels, sec.Name)
		a.TotalStudents = append(a.TotalStudents, len(members))
		a.Beneficiaries = append(a.Beneficiaries, len(Beneficiaries(members)))
		a.ParticipationRate = append(a.ParticipationRate, Round1(DataCompleteness(members)))
	}
	return a
}

// MonthlySummary is the current-month counters box on the admin dashboard.
type MonthlySummary struct {
	CurrentMonth         string `json:"current_month"`
	NewStudents          int    `json:"new_students"`
	AssessmentsCompleted int    `json:"assessments_completed"`
	AlertsGenerated      int    `json:"alerts_generated"`
}

func SummarizeMonth(students []models.Student, now time.Time) MonthlySummary {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	s := MonthlySummary{CurrentMonth: now.Format("January 2006")}
	for _, st := range students {
		if !st.CreatedAt.Before(monthStart) {
			s.NewStudents++
		}
		if hasBMI(st) {
			s.AssessmentsCompleted++
			if severe(*st.BMI) {
				s.AlertsGenerated++
			}
		}
	}
	return s
}
