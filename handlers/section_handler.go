package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/middlewares"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

// SectionHandler manages a school's grade levels and class sections. Admins
// act within their own school; super admins pass school_id explicitly.
type SectionHandler struct{}

func NewSectionHandler() *SectionHandler { return &SectionHandler{} }

// scopeSchoolID resolves which school the caller operates on.
func scopeSchoolID(c echo.Context) (uint, error) {
	if middlewares.CurrentRole(c) == models.RoleSuperAdmin {
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

type gradeLevelPayload struct {
	Name string `json:"name"`
}

type sectionPayload struct {
	Name         string `json:"name"`
	GradeLevelID uint   `json:"grade_level_id"`
}

// GET /admin/grade-levels
func (h *SectionHandler) ListGradeLevels(c echo.Context) error {
	schoolID, err := scopeSchoolID(c)
	if err != nil {
		return err
	}
	var levels []models.GradeLevel
	if err := database.DB.Where("school_id = ?", schoolID).Order("name asc").Find(&levels).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, levels)
}

// POST /admin/grade-levels
func (h *SectionHandler) CreateGradeLevel(c echo.Context) error {
	schoolID, err := scopeSchoolID(c)
	if err != nil {
		return err
	}
	var p gradeLevelPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	if p.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "NAME_REQUIRED"})
	}

	var dup models.GradeLevel
	if err := database.DB.Where("school_id = ? AND LOWER(name) = LOWER(?)", schoolID, p.Name).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "GRADE_LEVEL_EXISTS"})
	}

	rec := models.GradeLevel{Name: p.Name, SchoolID: schoolID}
	if err := database.DB.Create(&rec).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// DELETE /admin/grade-levels/:id
func (h *SectionHandler) DeleteGradeLevel(c echo.Context) error {
	schoolID, err := scopeSchoolID(c)
	if err != nil {
		return err
	}
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var level models.GradeLevel
	if err := database.DB.Where("school_id = ?", schoolID).First(&level, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "GRADE_LEVEL_NOT_FOUND"})
	}

	var sections int64
	database.DB.Model(&models.Section{}).Where("grade_level_id = ?", level.ID).Count(&sections)
	if sections > 0 {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "GRADE_LEVEL_IN_USE"})
	}
	if err := database.DB.Delete(&level).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "grade level deleted"})
}

// GET /admin/sections?grade_level_id=
func (h *SectionHandler) ListSections(c echo.Context) error {
	schoolID, err := scopeSchoolID(c)
	if err != nil {
		return err
	}
	q := database.DB.Where("school_id = ?", schoolID)
	if gid := uintQuery(c, "grade_level_id"); gid != nil {
		q = q.Where("grade_level_id = ?", *gid)
	}
	var sections []models.Section
	if err := q.Order("name asc").Find(&sections).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	type row struct {
		models.Section
		StudentCount int64 `json:"student_count"`
	}
	out := make([]row, 0, len(sections))
	for _, s := range sections {
		r := row{Section: s}
		database.DB.Model(&models.Student{}).Where("section_id = ?", s.ID).Count(&r.StudentCount)
		out = append(out, r)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /admin/sections
func (h *SectionHandler) CreateSection(c echo.Context) error {
	schoolID, err := scopeSchoolID(c)
	if err != nil {
		return err
	}
	var p sectionPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	if p.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "NAME_REQUIRED"})
	}

	var level models.GradeLevel
	if err := database.DB.Where("school_id = ?", schoolID).First(&level, p.GradeLevelID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "GRADE_LEVEL_NOT_FOUND"})
	}

	var dup models.Section
	if err := database.DB.
		Where("school_id = ? AND grade_level_id = ? AND LOWER(name) = LOWER(?)", schoolID, level.ID, p.Name).
		First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "SECTION_EXISTS"})
	}

	rec := models.Section{Name: p.Name, SchoolID: schoolID, GradeLevelID: level.ID}
	if err := database.DB.Create(&rec).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /admin/sections/:id
func (h *SectionHandler) UpdateSection(c echo.Context) error {
	schoolID, err := scopeSchoolID(c)
	if err != nil {
		return err
	}
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var sec models.Section
	if err := database.DB.Where("school_id = ?", schoolID).First(&sec, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "SECTION_NOT_FOUND"})
	}

	var p sectionPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	if p.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "NAME_REQUIRED"})
	}
	if p.GradeLevelID != 0 && p.GradeLevelID != sec.GradeLevelID {
		var level models.GradeLevel
		if err := database.DB.Where("school_id = ?", schoolID).First(&level, p.GradeLevelID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "GRADE_LEVEL_NOT_FOUND"})
		}
		sec.GradeLevelID = level.ID
	}
	sec.Name = p.Name
	if err := database.DB.Save(&sec).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, sec)
}

// DELETE /admin/sections/:id
//
// Students in the section are kept but unassigned.
func (h *SectionHandler) DeleteSection(c echo.Context) error {
	schoolID, err := scopeSchoolID(c)
	if err != nil {
		return err
	}
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var sec models.Section
	if err := database.DB.Where("school_id = ?", schoolID).First(&sec, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "SECTION_NOT_FOUND"})
	}

	if err := database.DB.Model(&models.Student{}).
		Where("section_id = ?", sec.ID).
		Update("section_id", nil).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if err := database.DB.Delete(&sec).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "section deleted"})
}
