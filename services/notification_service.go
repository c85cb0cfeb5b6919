package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

// NotificationService persists in-app notifications. School-level events fan
// out to every admin of the school; system-level reports fan out to every
// super admin.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

func (n *NotificationService) create(recipientID uint, typ, title, message string, relatedID *uint) error {
	rec := models.Notification{
		RecipientID:     recipientID,
		Type:            typ,
		Title:           title,
		Message:         message,
		RelatedEntityID: relatedID,
	}
	return n.DB.Create(&rec).Error
}

func (n *NotificationService) schoolAdminIDs(schoolID uint) ([]uint, error) {
	var ids []uint
	err := n.DB.Model(&models.User{}).
		Where("role = ? AND school_id = ?", models.RoleAdmin, schoolID).
		Pluck("id", &ids).Error
	return ids, err
}

func (n *NotificationService) superAdminIDs() ([]uint, error) {
	var ids []uint
	err := n.DB.Model(&models.User{}).
		Where("role = ?", models.RoleSuperAdmin).
		Pluck("id", &ids).Error
	return ids, err
}

func (n *NotificationService) NotifyAccountCreated(userID uint, createdBy string) error {
	return n.create(userID, models.NotifAccountCreated,
		"Account created",
		fmt.Sprintf("Your account has been created by %s. Please change your password after your first sign-in.", createdBy),
		nil)
}

func (n *NotificationService) NotifyAccountUpdated(userID uint, updatedBy, changes string) error {
	return n.create(userID, models.NotifAccountUpdated,
		"Account updated",
		fmt.Sprintf("Your account has been updated by %s.\n%s", updatedBy, changes),
		nil)
}

func (n *NotificationService) NotifyPasswordChanged(userID uint, changedBy string) error {
	return n.create(userID, models.NotifPasswordChanged,
		"Password changed",
		fmt.Sprintf("Your password has been changed by %s. If this was not you, contact your administrator.", changedBy),
		nil)
}

// NotifySchoolUpdated tells every admin of the school what changed.
func (n *NotificationService) NotifySchoolUpdated(schoolID uint, updatedBy, changes string) error {
	ids, err := n.schoolAdminIDs(schoolID)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("School information has been updated by %s.", updatedBy)
	if changes != "" {
		msg += "\n" + changes
	}
	for _, id := range ids {
		if err := n.create(id, models.NotifSchoolUpdated, "School updated", msg, &schoolID); err != nil {
			return err
		}
	}
	return nil
}

func (n *NotificationService) NotifySchoolDeleted(recipientIDs []uint, schoolName, deletedBy string) error {
	msg := fmt.Sprintf("The school %q and all of its records have been deleted by %s.", schoolName, deletedBy)
	for _, id := range recipientIDs {
		if err := n.create(id, models.NotifSchoolDeleted, "School deleted", msg, nil); err != nil {
			return err
		}
	}
	return nil
}

// NotifyStudentOperation tells a school's admins that a student was created,
// updated or deleted on their behalf.
func (n *NotificationService) NotifyStudentOperation(schoolID uint, operation, studentName, performedBy, details string) error {
	ids, err := n.schoolAdminIDs(schoolID)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Student %q has been %s by %s.", studentName, operation, performedBy)
	if details != "" {
		msg += "\n" + details
	}
	for _, id := range ids {
		if err := n.create(id, models.NotifStudentOperation, "Student "+operation, msg, &schoolID); err != nil {
			return err
		}
	}
	return nil
}

// NotifyReportGenerated records a generated report against every super
// admin; the reports page lists these notifications.
func (n *NotificationService) NotifyReportGenerated(title, message string, schoolID *uint) error {
	ids, err := n.superAdminIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := n.create(id, models.NotifReportGenerated, title, message, schoolID); err != nil {
			return err
		}
	}
	return nil
}
