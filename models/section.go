package models

import "time"

type Section struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:50;not null"`
	SchoolID     uint      `json:"school_id" gorm:"index;not null"`
	GradeLevelID uint      `json:"grade_level_id" gorm:"index;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
