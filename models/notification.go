package models

import "time"

const (
	NotifAccountCreated   = "account_created"
	NotifAccountUpdated   = "account_updated"
	NotifPasswordChanged  = "password_changed"
	NotifSchoolUpdated    = "school_updated"
	NotifSchoolDeleted    = "school_deleted"
	NotifStudentOperation = "student_operation"
	NotifReportGenerated  = "report_generated"
)

type Notification struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	RecipientID     uint      `json:"recipient_id" gorm:"index;not null"`
	Type            string    `json:"type" gorm:"size:50;not null"`
	Title           string    `json:"title" gorm:"size:150;not null"`
	Message         string    `json:"message" gorm:"type:text"`
	RelatedEntityID *uint     `json:"related_entity_id,omitempty"`
	IsRead          bool      `json:"is_read" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}
