package models

import "time"

type UserActivity struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	ActivityType string    `json:"activity_type" gorm:"size:50;not null"` // login | create_student | delete_school | ...
	Description  string    `json:"description" gorm:"size:255"`
	IPAddress    string    `json:"ip_address" gorm:"size:45"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}
