package models

import "time"

const (
	ResetPending  = "pending"
	ResetApproved = "approved"
	ResetDenied   = "denied"
	ResetExpired  = "expired"
)

type PasswordResetRequest struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	Token       string    `json:"-" gorm:"uniqueIndex;size:36;not null"`
	Reason      string    `json:"reason" gorm:"size:255"`
	Status      string    `json:"status" gorm:"size:20;not null;default:pending"`
	ExpiresAt   time.Time `json:"expires_at"`
	ProcessedBy *uint     `json:"processed_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *PasswordResetRequest) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
