// Package analytics computes the nutritional summaries shown on the
// dashboards: BMI classification, distribution counts, program rates and
// monthly trends. Every function is total: empty or incomplete input
// degrades to a zero-valued summary, never to an error. Records without a
// usable BMI are filtered once at the aggregation boundary; interior
// functions assume clean input.
package analytics

// Category is a BMI band. The order follows the thresholds, lowest first.
type Category int

const (
	SeverelyWasted Category = iota
	Wasted
	Normal
	Overweight
	Obese
)

// Cut-offs between adjacent categories, half-open with the lower bound
// inclusive: [0,16) [16,18.5) [18.5,25) [25,30) [30,∞).
const (
	thresholdWasted     = 16.0
	thresholdNormal     = 18.5
	thresholdOverweight = 25.0
	thresholdObese      = 30.0
)

func (c Category) String() string {
	switch c {
	case SeverelyWasted:
		return "severely_wasted"
	case Wasted:
		return "wasted"
	case Normal:
		return "normal"
	case Overweight:
		return "overweight"
	case Obese:
		return "obese"
	}
	return "unknown"
}

// Classify maps a BMI value to its category. Defined only for bmi > 0;
// callers must exclude absent or non-positive values before classifying.
// No rounding happens before comparison.
func Classify(bmi float64) Category {
	switch {
	case bmi < thresholdWasted:
		return SeverelyWasted
	case bmi < thresholdNormal:
		return Wasted
	case bmi < thresholdOverweight:
		return Normal
	case bmi < thresholdObese:
		return Overweight
	default:
		return Obese
	}
}

// atRisk reports whether a BMI value falls outside the normal band.
func atRisk(bmi float64) bool {
	return bmi < thresholdNormal || bmi >= thresholdOverweight
}

// severe reports whether a BMI value falls in the alert bands
// (severely wasted or obese).
func severe(bmi float64) bool {
	return bmi < thresholdWasted || bmi >= thresholdObese
}

// healthyBMI is charted when a population carries no BMI data at all, so
// trend lines stay continuous instead of dropping to zero.
const healthyBMI = thresholdNormal
