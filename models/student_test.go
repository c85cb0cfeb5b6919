package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fp(v float64) *float64 { return &v }

func TestRecalculateBMIDerivation(t *testing.T) {
	s := Student{Height: fp(150), Weight: fp(38)}
	s.RecalculateBMI()
	if assert.NotNil(t, s.BMI) {
		assert.InDelta(t, 16.89, *s.BMI, 0.001)
	}
	assert.True(t, s.IsBeneficiary, "wasted student enrolls automatically")

	s.Weight = fp(47)
	s.RecalculateBMI()
	assert.InDelta(t, 20.89, *s.BMI, 0.001)
	assert.False(t, s.IsBeneficiary, "normal band clears the flag")

	s.Height = nil
	s.RecalculateBMI()
	assert.Nil(t, s.BMI)
	assert.False(t, s.IsBeneficiary, "missing measurement leaves the flag untouched")
}

func TestRecalculateBMIRejectsNonPositiveMeasurements(t *testing.T) {
	s := Student{Height: fp(0), Weight: fp(40)}
	s.RecalculateBMI()
	assert.Nil(t, s.BMI)

	s = Student{Height: fp(140), Weight: fp(-1)}
	s.RecalculateBMI()
	assert.Nil(t, s.BMI)
}

func TestAge(t *testing.T) {
	unknown := Student{}
	assert.Equal(t, -1, unknown.Age())

	birth := time.Now().AddDate(-8, 0, -1)
	s := Student{BirthDate: &birth}
	assert.Equal(t, 8, s.Age())

	upcoming := time.Now().AddDate(-8, 0, 1)
	s = Student{BirthDate: &upcoming}
	assert.Equal(t, 7, s.Age())
}
