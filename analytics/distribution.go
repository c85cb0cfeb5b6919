package analytics

import (
	"sort"

	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

// Distribution holds the count of students in each BMI band. All five
// fields are always present in the JSON output, zero included.
type Distribution struct {
	SeverelyWasted int `json:"severely_wasted"`
	Wasted         int `json:"wasted"`
	Normal         int `json:"normal"`
	Overweight     int `json:"overweight"`
	Obese          int `json:"obese"`
}

func (d *Distribution) add(c Category) {
	switch c {
	case SeverelyWasted:
		d.SeverelyWasted++
	case Wasted:
		d.Wasted++
	case Normal:
		d.Normal++
	case Overweight:
		d.Overweight++
	case Obese:
		d.Obese++
	}
}

// Total is the number of classified students, i.e. those with a usable BMI.
func (d Distribution) Total() int {
	return d.SeverelyWasted + d.Wasted + d.Normal + d.Overweight + d.Obese
}

// hasBMI is the single validity gate: records failing it never reach the
// classifier and count toward no denominator.
func hasBMI(s models.Student) bool {
	return s.BMI != nil && *s.BMI > 0
}

// Aggregate classifies every student with a usable BMI and counts them per
// band. Accumulation is commutative, so input order never matters; an empty
// slice yields an all-zero distribution.
func Aggregate(students []models.Student) Distribution {
	var d Distribution
	for _, s := range students {
		if hasBMI(s) {
			d.add(Classify(*s.BMI))
		}
	}
	return d
}

// WithBMI returns the subset of students carrying a usable BMI value.
func WithBMI(students []models.Student) []models.Student {
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if hasBMI(s) {
			out = append(out, s)
		}
	}
	return out
}

// Beneficiaries returns the students explicitly flagged as feeding-program
// beneficiaries. The stored flag is authoritative here; it is never
// re-derived from BMI at read time.
func Beneficiaries(students []models.Student) []models.Student {
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if s.IsBeneficiary {
			out = append(out, s)
		}
	}
	return out
}

// AtRiskStudents returns students in the severe alert bands (BMI < 16 or
// BMI >= 30), most critical first.
func AtRiskStudents(students []models.Student) []models.Student {
	out := make([]models.Student, 0)
	for _, s := range students {
		if hasBMI(s) && severe(*s.BMI) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].BMI < *out[j].BMI })
	return out
}
