package analytics

import (
	"math"

	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

// Round1 rounds a percentage to one decimal for display. Intermediate
// arithmetic always runs on the unrounded value.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// pct guards every rate against an empty denominator: 0/0 is 0 here,
// never a division fault.
func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// BeneficiaryRate is the share of the population flagged as feeding-program
// beneficiaries, in percent.
func BeneficiaryRate(students []models.Student) float64 {
	return pct(len(Beneficiaries(students)), len(students))
}

// AtRiskRate is the share of measured students whose BMI falls outside the
// normal band. Students without BMI data count toward neither side.
func AtRiskRate(students []models.Student) float64 {
	measured := 0
	risk := 0
	for _, s := range students {
		if !hasBMI(s) {
			continue
		}
		measured++
		if atRisk(*s.BMI) {
			risk++
		}
	}
	return pct(risk, measured)
}

// EnrollmentRatio is the share of at-risk students already enrolled as
// beneficiaries, the program-coverage number audited on the dashboards.
func EnrollmentRatio(students []models.Student) float64 {
	risk := 0
	enrolled := 0
	for _, s := range students {
		if !hasBMI(s) || !atRisk(*s.BMI) {
			continue
		}
		risk++
		if s.IsBeneficiary {
			enrolled++
		}
	}
	return pct(enrolled, risk)
}

// DataCompleteness is the share of the population with a usable BMI value.
func DataCompleteness(students []models.Student) float64 {
	return pct(len(WithBMI(students)), len(students))
}

// HealthMetrics summarises the current status of program beneficiaries.
type HealthMetrics struct {
	ImprovedCount   int     `json:"improved_count"` // normal band
	StableCount     int     `json:"stable_count"`   // mild bands (wasted, overweight)
	DeclinedCount   int     `json:"declined_count"` // severe bands
	ImprovementRate float64 `json:"improvement_rate"`
}

// BeneficiaryHealthMetrics buckets beneficiaries by how far their BMI sits
// from the normal band. The improvement rate is improved / all
// beneficiaries, including unmeasured ones.
func BeneficiaryHealthMetrics(beneficiaries []models.Student) HealthMetrics {
	var m HealthMetrics
	for _, s := range beneficiaries {
		if !hasBMI(s) {
			continue
		}
		switch Classify(*s.BMI) {
		case Normal:
			m.ImprovedCount++
		case Wasted, Overweight:
			m.StableCount++
		default:
			m.DeclinedCount++
		}
	}
	m.ImprovementRate = Round1(pct(m.ImprovedCount, len(beneficiaries)))
	return m
}

// SchoolPerformance scores one school for the system-wide ranking.
type SchoolPerformance struct {
	SchoolName       string  `json:"name"`
	StudentCount     int     `json:"students_count"`
	Beneficiaries    int     `json:"beneficiaries"`
	AtRisk           int     `json:"at_risk"`
	DataCompleteness float64 `json:"data_completeness"`
	ImprovementRate  float64 `json:"improvement_rate"`
	Score            float64 `json:"performance_score"`
}

// ScoreSchool combines data completeness with the share of beneficiaries
// back in the normal band. A school with no students scores zero across
// the board.
func ScoreSchool(name string, students []models.Student) SchoolPerformance {
	p := SchoolPerformance{SchoolName: name, StudentCount: len(students)}
	if len(students) == 0 {
		return p
	}
	beneficiaries := Beneficiaries(students)
	p.Beneficiaries = len(beneficiaries)
	for _, s := range students {
		if hasBMI(s) && atRisk(*s.BMI) {
			p.AtRisk++
		}
	}
	completeness := DataCompleteness(students)
	improved := 0
	for _, s := range beneficiaries {
		if hasBMI(s) && Classify(*s.BMI) == Normal {
			improved++
		}
	}
	improvement := pct(improved, len(beneficiaries))

	p.DataCompleteness = Round1(completeness)
	p.ImprovementRate = Round1(improvement)
	p.Score = Round1((completeness + improvement) / 2)
	return p
}
