package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/middlewares"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
	"github.com/ceejaycejas/nutrikid-sbfp/services"
)

// AdminHandler manages school administrator accounts (super admin only).
type AdminHandler struct {
	Validate *validator.Validate
	Mailer   *services.Mailer
	Notifier *services.NotificationService
}

func NewAdminHandler(mailer *services.Mailer, notifier *services.NotificationService) *AdminHandler {
	return &AdminHandler{
		Validate: validator.New(),
		Mailer:   mailer,
		Notifier: notifier,
	}
}

type adminPayload struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	SchoolID uint   `json:"school_id" validate:"required"`
}

func (p *adminPayload) normalize() {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
}

func validationFields(err error) map[string]string {
	fields := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return fields
}

// GET /super-admin/admins?school_id=&search=
func (h *AdminHandler) List(c echo.Context) error {
	q := database.DB.Where("role = ?", models.RoleAdmin)
	if sid := uintQuery(c, "school_id"); sid != nil {
		q = q.Where("school_id = ?", *sid)
	}
	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var admins []models.User
	if err := q.Order("name asc").Find(&admins).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	type row struct {
		models.User
		SchoolName string `json:"school_name"`
	}
	out := make([]row, 0, len(admins))
	for _, a := range admins {
		r := row{User: a}
		if a.SchoolID != nil {
			var s models.School
			if err := database.DB.First(&s, *a.SchoolID).Error; err == nil {
				r.SchoolName = s.Name
			}
		}
		out = append(out, r)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /super-admin/admins
func (h *AdminHandler) Create(c echo.Context) error {
	var p adminPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := h.Validate.Struct(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": validationFields(err)})
	}

	var school models.School
	if err := database.DB.First(&school, p.SchoolID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "SCHOOL_NOT_FOUND"})
	}

	var dup models.User
	if err := database.DB.Where("email = ?", p.Email).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
	}

	password := p.Password
	if password == "" {
		password = randomPassword(12)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	rec := models.User{
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		SchoolID:     &school.ID,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	actor := middlewares.CurrentName(c)
	if err := h.Mailer.SendWelcomeAdmin(rec.Name, rec.Email, password, school.Name, actor); err != nil {
		log.Printf("welcome mail to %s failed: %v", rec.Email, err)
	}
	_ = h.Notifier.NotifyAccountCreated(rec.ID, actor)
	logActivity(c, middlewares.CurrentUserID(c), "admin_create",
		fmt.Sprintf("Created admin %s for %s", rec.Name, school.Name))

	return c.JSON(http.StatusCreated, rec)
}

// PUT /super-admin/admins/:id
func (h *AdminHandler) Update(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var u models.User
	if err := database.DB.Where("role = ?", models.RoleAdmin).First(&u, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "ADMIN_NOT_FOUND"})
	}

	var p adminPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := h.Validate.Struct(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": validationFields(err)})
	}

	var school models.School
	if err := database.DB.First(&school, p.SchoolID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "SCHOOL_NOT_FOUND"})
	}

	var dup models.User
	if err := database.DB.Where("email = ? AND id <> ?", p.Email, u.ID).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
	}

	var changes []string
	if u.Name != p.Name {
		changes = append(changes, fmt.Sprintf("name: %q -> %q", u.Name, p.Name))
	}
	if u.Email != p.Email {
		changes = append(changes, "email updated")
	}
	prevSchoolID := u.SchoolID
	reassigned := prevSchoolID == nil || *prevSchoolID != school.ID
	if reassigned {
		changes = append(changes, "reassigned to "+school.Name)
	}

	u.Name = p.Name
	u.Email = p.Email
	u.SchoolID = &school.ID
	if p.Password != "" {
		hash, _ := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		u.PasswordHash = string(hash)
		changes = append(changes, "password reset")
	}
	if err := database.DB.Save(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if len(changes) > 0 {
		actor := middlewares.CurrentName(c)
		_ = h.Notifier.NotifyAccountUpdated(u.ID, actor, strings.Join(changes, "\n"))
		if reassigned {
			// admins at both schools should see the reassignment
			if prevSchoolID != nil {
				_ = h.Notifier.NotifySchoolUpdated(*prevSchoolID, actor, "Administrator "+u.Name+" left the school")
			}
			_ = h.Notifier.NotifySchoolUpdated(school.ID, actor, "Administrator "+u.Name+" joined the school")
		}
		logActivity(c, middlewares.CurrentUserID(c), "admin_update",
			"Updated admin "+u.Name+": "+strings.Join(changes, "; "))
	}

	return c.JSON(http.StatusOK, u)
}

type superAdminPayload struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

func (p *superAdminPayload) normalize() {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
}

// superAdminDeleteGuard rejects removing your own account or the last super
// admin left in the system.
func superAdminDeleteGuard(targetID, actorID uint, total int64) *echo.HTTPError {
	if targetID == actorID {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "CANNOT_DELETE_OWN_ACCOUNT"})
	}
	if total <= 1 {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "LAST_SUPER_ADMIN"})
	}
	return nil
}

// GET /super-admin/users
func (h *AdminHandler) ListSuperAdmins(c echo.Context) error {
	var users []models.User
	if err := database.DB.Where("role = ?", models.RoleSuperAdmin).
		Order("name asc").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, users)
}

// POST /super-admin/users
func (h *AdminHandler) CreateSuperAdmin(c echo.Context) error {
	var p superAdminPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := h.Validate.Struct(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": validationFields(err)})
	}

	var dup models.User
	if err := database.DB.Where("email = ?", p.Email).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
	}

	password := p.Password
	if password == "" {
		password = randomPassword(12)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	rec := models.User{
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	actor := middlewares.CurrentName(c)
	if err := h.Mailer.SendWelcomeSuperAdmin(rec.Name, rec.Email, password, actor); err != nil {
		log.Printf("welcome mail to %s failed: %v", rec.Email, err)
	}
	_ = h.Notifier.NotifyAccountCreated(rec.ID, actor)
	logActivity(c, middlewares.CurrentUserID(c), "super_admin_create", "Created super admin "+rec.Name)

	return c.JSON(http.StatusCreated, rec)
}

// PUT /super-admin/users/:id
func (h *AdminHandler) UpdateSuperAdmin(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var u models.User
	if err := database.DB.Where("role = ?", models.RoleSuperAdmin).First(&u, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}

	var p superAdminPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := h.Validate.Struct(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": validationFields(err)})
	}

	var dup models.User
	if err := database.DB.Where("email = ? AND id <> ?", p.Email, u.ID).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
	}

	var changes []string
	if u.Name != p.Name {
		changes = append(changes, fmt.Sprintf("name: %q -> %q", u.Name, p.Name))
	}
	if u.Email != p.Email {
		changes = append(changes, "email updated")
	}
	u.Name = p.Name
	u.Email = p.Email
	if p.Password != "" {
		hash, _ := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		u.PasswordHash = string(hash)
		changes = append(changes, "password reset")
	}
	if err := database.DB.Save(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if len(changes) > 0 {
		actor := middlewares.CurrentName(c)
		_ = h.Notifier.NotifyAccountUpdated(u.ID, actor, strings.Join(changes, "\n"))
		logActivity(c, middlewares.CurrentUserID(c), "super_admin_update",
			"Updated super admin "+u.Name+": "+strings.Join(changes, "; "))
	}

	return c.JSON(http.StatusOK, u)
}

// DELETE /super-admin/users/:id
func (h *AdminHandler) DeleteSuperAdmin(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var u models.User
	if err := database.DB.Where("role = ?", models.RoleSuperAdmin).First(&u, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}

	var total int64
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&total)
	if guardErr := superAdminDeleteGuard(u.ID, middlewares.CurrentUserID(c), total); guardErr != nil {
		return guardErr
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipient_id = ?", u.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.UserActivity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&u).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	logActivity(c, middlewares.CurrentUserID(c), "super_admin_delete", "Deleted super admin "+u.Name)
	return c.JSON(http.StatusOK, map[string]any{"message": "user deleted"})
}

// DELETE /super-admin/admins/:id
func (h *AdminHandler) Delete(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var u models.User
	if err := database.DB.Where("role = ?", models.RoleAdmin).First(&u, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "ADMIN_NOT_FOUND"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipient_id = ?", u.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.UserActivity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.PasswordResetRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&u).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	logActivity(c, middlewares.CurrentUserID(c), "admin_delete", "Deleted admin "+u.Name)
	return c.JSON(http.StatusOK, map[string]any{"message": "admin deleted"})
}
