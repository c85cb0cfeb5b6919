package handlers

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/middlewares"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
	"github.com/ceejaycejas/nutrikid-sbfp/services"
)

type StudentHandler struct {
	Mailer   *services.Mailer
	Notifier *services.NotificationService
}

func NewStudentHandler(mailer *services.Mailer, notifier *services.NotificationService) *StudentHandler {
	return &StudentHandler{Mailer: mailer, Notifier: notifier}
}

var (
	stuReName  = regexp.MustCompile(`^[A-Za-zÀ-ÿÑñ'\-\.\s]{1,120}$`)
	stuReEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type studentPayload struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	BirthDate   string   `json:"birth_date"` // YYYY-MM-DD or empty
	Gender      string   `json:"gender"`     // male | female
	Height      *float64 `json:"height"`     // cm
	Weight      *float64 `json:"weight"`     // kg
	SectionID   *uint    `json:"section_id"`
	SchoolID    *uint    `json:"school_id"` // super admin only; admins use their own
	Preferences string   `json:"preferences"`
}

func (p *studentPayload) normalize() {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.BirthDate = strings.TrimSpace(p.BirthDate)
	p.Gender = strings.ToLower(strings.TrimSpace(p.Gender))
	p.Preferences = strings.TrimSpace(p.Preferences)
}

func validateStudent(p *studentPayload) map[string]string {
	errs := map[string]string{}
	if p.Name == "" || !stuReName.MatchString(p.Name) {
		errs["name"] = "name must be 1-120 letters"
	}
	if p.Email != "" && !stuReEmail.MatchString(p.Email) {
		errs["email"] = "email address is not valid"
	}
	if p.BirthDate != "" {
		if _, err := parseDate(p.BirthDate); err != nil {
			errs["birth_date"] = "birth date must be YYYY-MM-DD or empty"
		}
	}
	if p.Gender != "" && p.Gender != "male" && p.Gender != "female" {
		errs["gender"] = "gender must be male or female"
	}
	if p.Height != nil && (*p.Height < 30 || *p.Height > 250) {
		errs["height"] = "height must be between 30 and 250 cm"
	}
	if p.Weight != nil && (*p.Weight < 2 || *p.Weight > 300) {
		errs["weight"] = "weight must be between 2 and 300 kg"
	}
	return errs
}

// studentScope resolves the school a student operation applies to: admins are
// pinned to their own school, super admins pick one via the payload or query.
func studentScope(c echo.Context, payloadSchoolID *uint) (uint, error) {
	if middlewares.CurrentRole(c) == models.RoleSuperAdmin {
		if payloadSchoolID != nil {
			return *payloadSchoolID, nil
		}
		if sid := uintQuery(c, "school_id"); sid != nil {
			return *sid, nil
		}
		return 0, echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "SCHOOL_ID_REQUIRED"})
	}
	sid := middlewares.CurrentSchoolID(c)
	if sid == nil {
		return 0, echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "NO_SCHOOL_ASSIGNED"})
	}
	return *sid, nil
}

// GET /admin/students?search=&section_id=&page=&limit=
func (h *StudentHandler) List(c echo.Context) error {
	schoolID, err := studentScope(c, nil)
	if err != nil {
		return err
	}
	page := atoiOr(c.QueryParam("page"), 1)
	limit := atoiOr(c.QueryParam("limit"), 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := database.DB.Model(&models.Student{}).Where("school_id = ?", schoolID)
	if sid := uintQuery(c, "section_id"); sid != nil {
		q = q.Where("section_id = ?", *sid)
	}
	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	q.Count(&total)

	var students []models.Student
	if err := q.Order("name asc").Offset((page - 1) * limit).Limit(limit).Find(&students).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data":  students,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GET /super-admin/students lists all students grouped by school.
func (h *StudentHandler) ListGrouped(c echo.Context) error {
	var schools []models.School
	if err := database.DB.Order("name asc").Find(&schools).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	type group struct {
		SchoolID   uint             `json:"school_id"`
		SchoolName string           `json:"school_name"`
		Students   []models.Student `json:"students"`
	}
	out := make([]group, 0, len(schools))
	for _, s := range schools {
		g := group{SchoolID: s.ID, SchoolName: s.Name, Students: []models.Student{}}
		if err := database.DB.Where("school_id = ?", s.ID).Order("name asc").Find(&g.Students).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
		out = append(out, g)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /admin/students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	st, err := h.loadScoped(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// loadScoped fetches a student the caller is allowed to touch.
func (h *StudentHandler) loadScoped(c echo.Context, id uint) (*models.Student, error) {
	var st models.Student
	q := database.DB
	if middlewares.CurrentRole(c) != models.RoleSuperAdmin {
		sid := middlewares.CurrentSchoolID(c)
		if sid == nil {
			return nil, echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "NO_SCHOOL_ASSIGNED"})
		}
		q = q.Where("school_id = ?", *sid)
	}
	if err := q.First(&st, id).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	return &st, nil
}

// POST /admin/students
//
// Creates the student record and, when an email is given, a linked student
// login with a temporary password delivered by mail.
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p); len(errs) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": errs})
	}

	schoolID, err := studentScope(c, p.SchoolID)
	if err != nil {
		return err
	}
	var school models.School
	if err := database.DB.First(&school, schoolID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "SCHOOL_NOT_FOUND"})
	}
	if p.SectionID != nil {
		var sec models.Section
		if err := database.DB.Where("school_id = ?", schoolID).First(&sec, *p.SectionID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "SECTION_NOT_FOUND"})
		}
	}

	birth, _ := parseDate(p.BirthDate)
	actorID := middlewares.CurrentUserID(c)
	actor := middlewares.CurrentName(c)

	st := models.Student{
		Name:         p.Name,
		BirthDate:    birth,
		Gender:       p.Gender,
		Height:       p.Height,
		Weight:       p.Weight,
		SchoolID:     &schoolID,
		SectionID:    p.SectionID,
		RegisteredBy: actorID,
		Preferences:  p.Preferences,
	}
	st.RecalculateBMI()

	var tempPassword string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if p.Email != "" {
			var dup models.User
			if err := tx.Where("email = ?", p.Email).First(&dup).Error; err == nil {
				return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
			}
			tempPassword = randomPassword(12)
			hash, _ := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
			account := models.User{
				Name:         p.Name,
				Email:        p.Email,
				PasswordHash: string(hash),
				Role:         models.RoleStudent,
				SchoolID:     &schoolID,
			}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
			st.UserID = &account.ID
		}
		return tx.Create(&st).Error
	})
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if st.UserID != nil {
		if err := h.Mailer.SendWelcomeStudent(st.Name, p.Email, tempPassword, school.Name, actor); err != nil {
			log.Printf("welcome mail to %s failed: %v", p.Email, err)
		}
		_ = h.Notifier.NotifyAccountCreated(*st.UserID, actor)
	}
	_ = h.Notifier.NotifyStudentOperation(schoolID, "registered", st.Name, actor, "")
	logActivity(c, actorID, "student_create",
		fmt.Sprintf("Registered student %s at %s", st.Name, school.Name))

	return c.JSON(http.StatusCreated, st)
}

// PUT /admin/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	st, err := h.loadScoped(c, id)
	if err != nil {
		return err
	}

	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p); len(errs) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_FAILED", "fields": errs})
	}

	if p.SectionID != nil && st.SchoolID != nil {
		var sec models.Section
		if err := database.DB.Where("school_id = ?", *st.SchoolID).First(&sec, *p.SectionID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "SECTION_NOT_FOUND"})
		}
	}

	var changes []string
	if st.Name != p.Name {
		changes = append(changes, fmt.Sprintf("name: %q -> %q", st.Name, p.Name))
	}
	if p.Height != nil && (st.Height == nil || *st.Height != *p.Height) {
		changes = append(changes, fmt.Sprintf("height: %.1f cm", *p.Height))
	}
	if p.Weight != nil && (st.Weight == nil || *st.Weight != *p.Weight) {
		changes = append(changes, fmt.Sprintf("weight: %.1f kg", *p.Weight))
	}

	birth, _ := parseDate(p.BirthDate)
	st.Name = p.Name
	if birth != nil {
		st.BirthDate = birth
	}
	if p.Gender != "" {
		st.Gender = p.Gender
	}
	if p.Height != nil {
		st.Height = p.Height
	}
	if p.Weight != nil {
		st.Weight = p.Weight
	}
	if p.SectionID != nil {
		st.SectionID = p.SectionID
	}
	if p.Preferences != "" {
		st.Preferences = p.Preferences
	}
	st.RecalculateBMI()

	if err := database.DB.Save(st).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	actorID := middlewares.CurrentUserID(c)
	actor := middlewares.CurrentName(c)
	if len(changes) > 0 && st.SchoolID != nil {
		_ = h.Notifier.NotifyStudentOperation(*st.SchoolID, "updated", st.Name, actor, strings.Join(changes, "\n"))

		// a super admin editing a school's records notifies the other
		// super admins by mail
		if middlewares.CurrentRole(c) == models.RoleSuperAdmin {
			var school models.School
			database.DB.First(&school, *st.SchoolID)
			var supers []models.User
			database.DB.Where("role = ? AND id <> ?", models.RoleSuperAdmin, actorID).Find(&supers)
			for _, sa := range supers {
				if err := h.Mailer.SendStudentUpdateNotice(sa.Name, sa.Email, actor, school.Name, strings.Join(changes, "\n")); err != nil {
					log.Printf("update notice to %s failed: %v", sa.Email, err)
				}
			}
		}
	}
	logActivity(c, actorID, "student_update", "Updated student "+st.Name)

	return c.JSON(http.StatusOK, st)
}

// DELETE /admin/students/:id
func (h *StudentHandler) Delete(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	st, err := h.loadScoped(c, id)
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if st.UserID != nil {
			if err := tx.Where("recipient_id = ?", *st.UserID).Delete(&models.Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", *st.UserID).Delete(&models.UserActivity{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", *st.UserID).Delete(&models.PasswordResetRequest{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.User{}, *st.UserID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(st).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	actor := middlewares.CurrentName(c)
	if st.SchoolID != nil {
		_ = h.Notifier.NotifyStudentOperation(*st.SchoolID, "removed", st.Name, actor, "")
	}
	logActivity(c, middlewares.CurrentUserID(c), "student_delete", "Removed student "+st.Name)

	return c.JSON(http.StatusOK, map[string]any{"message": "student deleted"})
}

// GET /me/student returns a student account's own record.
func (h *StudentHandler) MyRecord(c echo.Context) error {
	userID := middlewares.CurrentUserID(c)
	var st models.Student
	if err := database.DB.Where("user_id = ?", userID).First(&st).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, st)
}
