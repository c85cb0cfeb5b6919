package models

import (
	"math"
	"time"
)

type Student struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"size:120;not null"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Gender        string     `json:"gender" gorm:"size:10"` // male | female
	Height        *float64   `json:"height,omitempty"`      // cm
	Weight        *float64   `json:"weight,omitempty"`      // kg
	BMI           *float64   `json:"bmi,omitempty"`
	IsBeneficiary bool       `json:"is_beneficiary" gorm:"default:false"`
	SchoolID      *uint      `json:"school_id,omitempty" gorm:"index"`
	SectionID     *uint      `json:"section_id,omitempty" gorm:"index"`
	UserID        *uint      `json:"user_id,omitempty" gorm:"index"`
	RegisteredBy  uint       `json:"registered_by"`
	Preferences   string     `json:"preferences" gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// RecalculateBMI recomputes BMI from height (cm) and weight (kg) and derives
// the feeding-program flag from it. When either measurement is missing or
// non-positive the stored BMI is cleared and the flag is left untouched.
// Rule: a student is enrolled as a beneficiary when BMI < 18.5 or BMI >= 25.
func (s *Student) RecalculateBMI() {
	if s.Height == nil || s.Weight == nil || *s.Height <= 0 || *s.Weight <= 0 {
		s.BMI = nil
		return
	}
	hm := *s.Height / 100
	bmi := math.Round(*s.Weight/(hm*hm)*100) / 100
	s.BMI = &bmi
	s.IsBeneficiary = bmi < 18.5 || bmi >= 25
}

// Age in whole years as of now; -1 when the birth date is unknown.
func (s *Student) Age() int {
	if s.BirthDate == nil {
		return -1
	}
	now := time.Now()
	years := now.Year() - s.BirthDate.Year()
	if now.YearDay() < s.BirthDate.YearDay() {
		years--
	}
	return years
}
