package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceejaycejas/nutrikid-sbfp/config"
)

type capturedMail struct {
	toName, toAddr, subject, body string
}

type captureEmailService struct {
	sent []capturedMail
}

func (s *captureEmailService) Send(toName, toAddr, subject, body string) error {
	s.sent = append(s.sent, capturedMail{toName, toAddr, subject, body})
	return nil
}

func TestNewEmailServicePicksTransport(t *testing.T) {
	console := NewEmailService(&config.Config{})
	assert.IsType(t, &ConsoleEmailService{}, console)

	sg := NewEmailService(&config.Config{SendgridAPIKey: "SG.test"})
	assert.IsType(t, &SendgridEmailService{}, sg)
}

func TestConsoleEmailServiceNeverFails(t *testing.T) {
	var s ConsoleEmailService
	assert.NoError(t, s.Send("Ana", "ana@example.com", "Hello", "body"))
}

func TestMailerWelcomeAdmin(t *testing.T) {
	capture := &captureEmailService{}
	m := NewMailer(capture)

	require.NoError(t, m.SendWelcomeAdmin("Ana", "ana@example.com", "temp-pass", "Bagong Silang ES", "Root Admin"))
	require.Len(t, capture.sent, 1)

	mail := capture.sent[0]
	assert.Equal(t, "ana@example.com", mail.toAddr)
	assert.Contains(t, mail.body, "temp-pass")
	assert.Contains(t, mail.body, "Bagong Silang ES")
	assert.Contains(t, mail.body, "Root Admin")
}

func TestMailerWelcomeSuperAdmin(t *testing.T) {
	capture := &captureEmailService{}
	m := NewMailer(capture)

	require.NoError(t, m.SendWelcomeSuperAdmin("Root", "root@example.com", "temp-pass", "First Root"))
	require.Len(t, capture.sent, 1)
	assert.Contains(t, capture.sent[0].body, "system administrator account")
	assert.Contains(t, capture.sent[0].body, "temp-pass")
	assert.Contains(t, capture.sent[0].body, "First Root")
}

func TestMailerResetFlow(t *testing.T) {
	capture := &captureEmailService{}
	m := NewMailer(capture)

	require.NoError(t, m.SendResetPending("Ben", "ben@example.com"))
	require.NoError(t, m.SendResetApproved("Ben", "ben@example.com", "new-pass"))
	require.NoError(t, m.SendResetDenied("Ben", "ben@example.com", ""))
	require.Len(t, capture.sent, 3)

	assert.Contains(t, capture.sent[0].subject, "Password Reset Request")
	assert.Contains(t, capture.sent[1].body, "new-pass")
	// a denial without a reason still explains itself
	assert.Contains(t, capture.sent[2].body, "No reason provided.")
}

func TestMailerStudentUpdateNotice(t *testing.T) {
	capture := &captureEmailService{}
	m := NewMailer(capture)

	require.NoError(t, m.SendStudentUpdateNotice("Root", "root@example.com", "Ana", "Bagong Silang ES", "height: 121.0 cm"))
	require.Len(t, capture.sent, 1)
	assert.Contains(t, capture.sent[0].body, "Ana")
	assert.Contains(t, capture.sent[0].body, "height: 121.0 cm")
}
