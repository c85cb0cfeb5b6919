package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		bmi  float64
		want Category
	}{
		{0.1, SeverelyWasted},
		{12.4, SeverelyWasted},
		{15.999, SeverelyWasted},
		{16, Wasted},
		{17.2, Wasted},
		{18.499, Wasted},
		{18.5, Normal},
		{21.7, Normal},
		{24.999, Normal},
		{25, Overweight},
		{29.9, Overweight},
		{30, Obese},
		{41.3, Obese},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.bmi), "bmi=%v", tc.bmi)
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "severely_wasted", SeverelyWasted.String())
	assert.Equal(t, "wasted", Wasted.String())
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "overweight", Overweight.String())
	assert.Equal(t, "obese", Obese.String())
}

func TestAtRiskBoundaries(t *testing.T) {
	assert.True(t, atRisk(18.499))
	assert.False(t, atRisk(18.5))
	assert.False(t, atRisk(24.999))
	assert.True(t, atRisk(25))
}

func TestSevereBoundaries(t *testing.T) {
	assert.True(t, severe(15.999))
	assert.False(t, severe(16))
	assert.False(t, severe(29.999))
	assert.True(t, severe(30))
}
