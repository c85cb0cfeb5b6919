package models

import "time"

type School struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"uniqueIndex;size:120;not null"`
	Address       string    `json:"address" gorm:"size:255"`
	ContactNumber string    `json:"contact_number" gorm:"size:20"`
	Email         string    `json:"email" gorm:"size:120"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
