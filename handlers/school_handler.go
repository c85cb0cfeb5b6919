package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/middlewares"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
	"github.com/ceejaycejas/nutrikid-sbfp/services"
)

type SchoolHandler struct {
	Notifier *services.NotificationService
}

func NewSchoolHandler(notifier *services.NotificationService) *SchoolHandler {
	return &SchoolHandler{Notifier: notifier}
}

type schoolPayload struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
}

func (p *schoolPayload) normalize() {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Address = strings.TrimSpace(p.Address)
	p.ContactNumber = strings.TrimSpace(p.ContactNumber)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
}

func validateSchool(p *schoolPayload) map[string]string {
	errs := map[string]string{}
	if p.Name == "" {
		errs["name"] = "school name is required"
	}
	if len(p.Name) > 150 {
		errs["name"] = "school name must be at most 150 characters"
	}
	return errs
}

// GET /super-admin/schools?search=&page=&limit=
func (h *SchoolHandler) List(c echo.Context) error {
	search := strings.TrimSpace(c.QueryParam("search"))
	page := atoiOr(c.QueryParam("page"), 1)
	limit := atoiOr(c.QueryParam("limit"), 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := database.DB.Model(&models.School{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR address ILIKE ?", like, like)
	}

	var total int64
	q.Count(&total)

	var schools []models.School
	if err := q.Order("name asc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&schools).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	type row struct {
		models.School
		StudentCount int64 `json:"student_count"`
		AdminCount   int64 `json:"admin_count"`
	}
	out := make([]row, 0, len(schools))
	for _, s := range schools {
		r := row{School: s}
		database.DB.Model(&models.Student{}).Where("school_id = ?", s.ID).Count(&r.StudentCount)
		database.DB.Model(&models.User{}).
			Where("school_id = ? AND role = ?", s.ID, models.RoleAdmin).Count(&r.AdminCount)
		out = append(out, r)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data":  out,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GET /super-admin/schools/:id
func (h *SchoolHandler) Get(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var s models.School
	if err := database.DB.First(&s, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "SCHOOL_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, s)
}

// POST /super-admin/schools
func (h *SchoolHandler) Create(c echo.Context) error {
	var p schoolPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateSchool(&p); len(errs) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": errs})
	}

	var dup models.School
	if err := database.DB.Where("LOWER(name) = LOWER(?)", p.Name).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "SCHOOL_NAME_EXISTS"})
	}

	rec := models.School{
		Name:          p.Name,
		Address:       p.Address,
		ContactNumber: p.ContactNumber,
		Email:         p.Email,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	logActivity(c, middlewares.CurrentUserID(c), "school_create", "Created school "+rec.Name)
	return c.JSON(http.StatusCreated, rec)
}

// PUT /super-admin/schools/:id
func (h *SchoolHandler) Update(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var s models.School
	if err := database.DB.First(&s, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "SCHOOL_NOT_FOUND"})
	}

	var p schoolPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateSchool(&p); len(errs) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": errs})
	}

	var dup models.School
	if err := database.DB.Where("LOWER(name) = LOWER(?) AND id <> ?", p.Name, s.ID).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "SCHOOL_NAME_EXISTS"})
	}

	var changes []string
	if s.Name != p.Name {
		changes = append(changes, fmt.Sprintf("name: %q -> %q", s.Name, p.Name))
	}
	if s.Address != p.Address {
		changes = append(changes, "address updated")
	}
	if s.ContactNumber != p.ContactNumber {
		changes = append(changes, "contact number updated")
	}
	if s.Email != p.Email {
		changes = append(changes, "email updated")
	}

	s.Name = p.Name
	s.Address = p.Address
	s.ContactNumber = p.ContactNumber
	s.Email = p.Email
	if err := database.DB.Save(&s).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if len(changes) > 0 {
		actor := middlewares.CurrentName(c)
		_ = h.Notifier.NotifySchoolUpdated(s.ID, actor, strings.Join(changes, "\n"))
		logActivity(c, middlewares.CurrentUserID(c), "school_update",
			"Updated school "+s.Name+": "+strings.Join(changes, "; "))
	}

	return c.JSON(http.StatusOK, s)
}

// DELETE /super-admin/schools/:id
//
// Removes the school and everything hanging off it inside one transaction:
// students, sections, grade levels, the school's users and their audit and
// notification rows.
func (h *SchoolHandler) Delete(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var s models.School
	if err := database.DB.First(&s, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "SCHOOL_NOT_FOUND"})
	}

	// the school's own admins are removed below, so the deletion notice
	// goes to the remaining super admins
	var superIDs []uint
	database.DB.Model(&models.User{}).
		Where("role = ? AND id <> ?", models.RoleSuperAdmin, middlewares.CurrentUserID(c)).
		Pluck("id", &superIDs)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var userIDs []uint
		if err := tx.Model(&models.User{}).Where("school_id = ?", s.ID).Pluck("id", &userIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("school_id = ?", s.ID).Delete(&models.Student{}).Error; err != nil {
			return err
		}
		if err := tx.Where("school_id = ?", s.ID).Delete(&models.Section{}).Error; err != nil {
			return err
		}
		if err := tx.Where("school_id = ?", s.ID).Delete(&models.GradeLevel{}).Error; err != nil {
			return err
		}
		if len(userIDs) > 0 {
			if err := tx.Where("user_id IN ?", userIDs).Delete(&models.UserActivity{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recipient_id IN ?", userIDs).Delete(&models.Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id IN ?", userIDs).Delete(&models.PasswordResetRequest{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", userIDs).Delete(&models.User{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&s).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	actor := middlewares.CurrentName(c)
	_ = h.Notifier.NotifySchoolDeleted(superIDs, s.Name, actor)
	logActivity(c, middlewares.CurrentUserID(c), "school_delete", "Deleted school "+s.Name)

	return c.JSON(http.StatusOK, map[string]any{"message": "school deleted"})
}
