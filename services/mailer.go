package services

import "fmt"

// Mailer composes the account-lifecycle messages and hands them to the
// configured transport. Callers treat failures as best-effort: log and move
// on, never fail the request.
type Mailer struct {
	Email EmailService
}

func NewMailer(email EmailService) *Mailer { return &Mailer{Email: email} }

func (m *Mailer) SendWelcomeAdmin(name, addr, password, schoolName, createdBy string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"An administrator account has been created for you by %s.\n\n"+
			"School: %s\n"+
			"Temporary password: %s\n\n"+
			"Please sign in and change your password immediately.\n\n"+
			"Best regards,\nNutriKid Team",
		name, createdBy, schoolName, password)
	return m.Email.Send(name, addr, "Welcome to NutriKid", body)
}

func (m *Mailer) SendWelcomeSuperAdmin(name, addr, password, createdBy string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"A system administrator account has been created for you by %s.\n\n"+
			"Temporary password: %s\n\n"+
			"Please sign in and change your password immediately.\n\n"+
			"Best regards,\nNutriKid Team",
		name, createdBy, password)
	return m.Email.Send(name, addr, "Welcome to NutriKid", body)
}

func (m *Mailer) SendWelcomeStudent(name, addr, password, schoolName, createdBy string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"A student account has been created for you by %s at %s.\n\n"+
			"Temporary password: %s\n\n"+
			"Please sign in and change your password immediately.\n\n"+
			"Best regards,\nNutriKid Team",
		name, createdBy, schoolName, password)
	return m.Email.Send(name, addr, "Welcome to NutriKid", body)
}

func (m *Mailer) SendResetPending(name, addr string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your password reset request has been submitted and is pending approval "+
			"from your administrator. You will be notified once it has been processed.\n\n"+
			"If you did not request this reset, please ignore this email.\n\n"+
			"Best regards,\nNutriKid Team",
		name)
	return m.Email.Send(name, addr, "Password Reset Request - NutriKid", body)
}

func (m *Mailer) SendResetApproved(name, addr, newPassword string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your password reset request has been approved.\n\n"+
			"Temporary password: %s\n\n"+
			"Please sign in and change your password immediately.\n\n"+
			"Best regards,\nNutriKid Team",
		name, newPassword)
	return m.Email.Send(name, addr, "Password Reset Approved - NutriKid", body)
}

func (m *Mailer) SendResetDenied(name, addr, reason string) error {
	if reason == "" {
		reason = "No reason provided."
	}
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your password reset request has been denied.\n\n"+
			"Reason: %s\n\n"+
			"Please contact your administrator if you believe this is a mistake.\n\n"+
			"Best regards,\nNutriKid Team",
		name, reason)
	return m.Email.Send(name, addr, "Password Reset Denied - NutriKid", body)
}

// SendStudentUpdateNotice tells a super admin that an admin edited student
// records at their school.
func (m *Mailer) SendStudentUpdateNotice(saName, saAddr, adminName, schoolName, details string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Administrator %s of %s has updated student records.\n\n"+
			"%s\n\n"+
			"Best regards,\nNutriKid Team",
		saName, adminName, schoolName, details)
	return m.Email.Send(saName, saAddr, "Student Data Updated - NutriKid", body)
}
