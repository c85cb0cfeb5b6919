package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/middlewares"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
	"github.com/ceejaycejas/nutrikid-sbfp/services"
)

// PasswordResetHandler implements the approval-based reset flow: a user files
// a request, a super admin approves or denies it, and approval issues a
// temporary password by mail.
type PasswordResetHandler struct {
	Validate *validator.Validate
	Mailer   *services.Mailer
	Notifier *services.NotificationService
}

func NewPasswordResetHandler(mailer *services.Mailer, notifier *services.NotificationService) *PasswordResetHandler {
	return &PasswordResetHandler{
		Validate: validator.New(),
		Mailer:   mailer,
		Notifier: notifier,
	}
}

type resetRequestPayload struct {
	Email  string `json:"email" validate:"required,email"`
	Reason string `json:"reason" validate:"max=255"`
}

const resetRequestTTL = 24 * time.Hour

// POST /password-reset/request (public)
//
// Always answers with the same message so the endpoint cannot be used to
// probe which emails exist.
func (h *PasswordResetHandler) Request(c echo.Context) error {
	var p resetRequestPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Reason = strings.TrimSpace(p.Reason)
	if err := h.Validate.Struct(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": validationFields(err)})
	}

	accepted := map[string]any{"message": "If the account exists, a reset request has been filed for review."}

	var u models.User
	if err := database.DB.Where("email = ?", p.Email).First(&u).Error; err != nil {
		return c.JSON(http.StatusOK, accepted)
	}
	// super admin passwords are never reset through this flow
	if u.Role == models.RoleSuperAdmin {
		return c.JSON(http.StatusOK, accepted)
	}

	// one open request per user
	var open models.PasswordResetRequest
	if err := database.DB.
		Where("user_id = ? AND status = ? AND expires_at > ?", u.ID, models.ResetPending, time.Now()).
		First(&open).Error; err == nil {
		return c.JSON(http.StatusOK, accepted)
	}

	rec := models.PasswordResetRequest{
		UserID:    u.ID,
		Token:     uuid.NewString(),
		Reason:    p.Reason,
		Status:    models.ResetPending,
		ExpiresAt: time.Now().Add(resetRequestTTL),
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if err := h.Mailer.SendResetPending(u.Name, u.Email); err != nil {
		log.Printf("reset pending mail to %s failed: %v", u.Email, err)
	}

	return c.JSON(http.StatusOK, accepted)
}

// GET /me/password-reset-requests (authenticated)
func (h *PasswordResetHandler) MyRequests(c echo.Context) error {
	var reqs []models.PasswordResetRequest
	if err := database.DB.
		Where("user_id = ?", middlewares.CurrentUserID(c)).
		Order("created_at desc").Find(&reqs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, reqs)
}

// GET /super-admin/password-resets lists open requests awaiting review.
func (h *PasswordResetHandler) ListPending(c echo.Context) error {
	var reqs []models.PasswordResetRequest
	if err := database.DB.
		Where("status = ?", models.ResetPending).
		Order("created_at asc").Find(&reqs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	now := time.Now()
	type row struct {
		models.PasswordResetRequest
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
		UserRole  string `json:"user_role"`
	}
	out := make([]row, 0, len(reqs))
	for _, r := range reqs {
		if r.Expired(now) {
			database.DB.Model(&r).Update("status", models.ResetExpired)
			continue
		}
		item := row{PasswordResetRequest: r}
		var u models.User
		if err := database.DB.First(&u, r.UserID).Error; err == nil {
			item.UserName = u.Name
			item.UserEmail = u.Email
			item.UserRole = u.Role
		}
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PasswordResetHandler) loadPending(c echo.Context) (*models.PasswordResetRequest, *models.User, error) {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var req models.PasswordResetRequest
	if err := database.DB.First(&req, id).Error; err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "REQUEST_NOT_FOUND"})
	}
	if req.Status != models.ResetPending {
		return nil, nil, echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "REQUEST_ALREADY_PROCESSED"})
	}
	if req.Expired(time.Now()) {
		database.DB.Model(&req).Update("status", models.ResetExpired)
		return nil, nil, echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "REQUEST_EXPIRED"})
	}
	var u models.User
	if err := database.DB.First(&u, req.UserID).Error; err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}
	return &req, &u, nil
}

// PUT /super-admin/password-resets/:id/approve
func (h *PasswordResetHandler) Approve(c echo.Context) error {
	req, u, err := h.loadPending(c)
	if err != nil {
		return err
	}

	password := randomPassword(12)
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err := database.DB.Model(u).Update("password_hash", string(hash)).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	actorID := middlewares.CurrentUserID(c)
	req.Status = models.ResetApproved
	req.ProcessedBy = &actorID
	if err := database.DB.Save(req).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if err := h.Mailer.SendResetApproved(u.Name, u.Email, password); err != nil {
		log.Printf("reset approved mail to %s failed: %v", u.Email, err)
	}
	_ = h.Notifier.NotifyPasswordChanged(u.ID, middlewares.CurrentName(c))
	logActivity(c, actorID, "reset_approve", "Approved password reset for "+u.Email)

	return c.JSON(http.StatusOK, map[string]any{"message": "request approved"})
}

type resetDenyPayload struct {
	Reason string `json:"reason"`
}

// PUT /super-admin/password-resets/:id/deny
func (h *PasswordResetHandler) Deny(c echo.Context) error {
	req, u, err := h.loadPending(c)
	if err != nil {
		return err
	}

	var p resetDenyPayload
	_ = c.Bind(&p)
	p.Reason = strings.TrimSpace(p.Reason)

	actorID := middlewares.CurrentUserID(c)
	req.Status = models.ResetDenied
	req.ProcessedBy = &actorID
	if err := database.DB.Save(req).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if err := h.Mailer.SendResetDenied(u.Name, u.Email, p.Reason); err != nil {
		log.Printf("reset denied mail to %s failed: %v", u.Email, err)
	}
	logActivity(c, actorID, "reset_deny", "Denied password reset for "+u.Email)

	return c.JSON(http.StatusOK, map[string]any{"message": "request denied"})
}

// DELETE /super-admin/password-resets/expired
func (h *PasswordResetHandler) CleanupExpired(c echo.Context) error {
	res := database.DB.
		Where("status = ? OR (status = ? AND expires_at <= ?)", models.ResetExpired, models.ResetPending, time.Now()).
		Delete(&models.PasswordResetRequest{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"deleted": res.RowsAffected})
}

// DELETE /super-admin/password-resets clears processed history.
func (h *PasswordResetHandler) ClearAll(c echo.Context) error {
	res := database.DB.
		Where("status <> ?", models.ResetPending).
		Delete(&models.PasswordResetRequest{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	logActivity(c, middlewares.CurrentUserID(c), "reset_clear", "Cleared processed password reset requests")
	return c.JSON(http.StatusOK, map[string]any{"deleted": res.RowsAffected})
}
