package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/ceejaycejas/nutrikid-sbfp/analytics"
	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/middlewares"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
	"github.com/ceejaycejas/nutrikid-sbfp/services"
)

type ReportHandler struct {
	Notifier *services.NotificationService
}

func NewReportHandler(notifier *services.NotificationService) *ReportHandler {
	return &ReportHandler{Notifier: notifier}
}

func (h *ReportHandler) loadSchoolStudents(c echo.Context) (*models.School, []models.Student, error) {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var school models.School
	if err := database.DB.First(&school, id).Error; err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "SCHOOL_NOT_FOUND"})
	}
	var students []models.Student
	if err := database.DB.Where("school_id = ?", school.ID).Order("name asc").Find(&students).Error; err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return &school, students, nil
}

func sectionNames(students []models.Student) map[uint]string {
	names := map[uint]string{}
	ids := make([]uint, 0)
	seen := map[uint]bool{}
	for _, s := range students {
		if s.SectionID != nil && !seen[*s.SectionID] {
			seen[*s.SectionID] = true
			ids = append(ids, *s.SectionID)
		}
	}
	if len(ids) == 0 {
		return names
	}
	var sections []models.Section
	database.DB.Where("id IN ?", ids).Find(&sections)
	for _, sec := range sections {
		names[sec.ID] = sec.Name
	}
	return names
}

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func fmtAge(s models.Student) string {
	if a := s.Age(); a >= 0 {
		return strconv.Itoa(a)
	}
	return ""
}

func fmtBirth(s models.Student) string {
	if s.BirthDate == nil {
		return ""
	}
	return s.BirthDate.Format("2006-01-02")
}

var studentReportHeaders = []string{"Name", "Section", "Gender", "Birthdate", "Age", "Height (cm)", "Weight (kg)", "BMI"}

// GET /super-admin/schools/:id/export/excel
func (h *ReportHandler) ExportSchoolExcel(c echo.Context) error {
	school, students, err := h.loadSchoolStudents(c)
	if err != nil {
		return err
	}
	sections := sectionNames(students)

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Students"
	f.SetSheetName("Sheet1", sheet)

	for i, head := range studentReportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, head)
	}
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "C", "H", 12)

	for row, s := range students {
		secName := ""
		if s.SectionID != nil {
			secName = sections[*s.SectionID]
		}
		values := []any{s.Name, secName, s.Gender, fmtBirth(s), fmtAge(s), fmtFloat(s.Height), fmtFloat(s.Weight), fmtFloat(s.BMI)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	h.recordReport(c, "Excel export", school, len(students))

	filename := fmt.Sprintf("%s-students-%s.xlsx", school.Name, time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GET /super-admin/schools/:id/export/pdf
func (h *ReportHandler) ExportSchoolPDF(c echo.Context) error {
	school, students, err := h.loadSchoolStudents(c)
	if err != nil {
		return err
	}
	sections := sectionNames(students)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Student Health Report - "+school.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{70, 40, 20, 28, 14, 26, 26, 18}
	pdf.SetFont("Helvetica", "B", 9)
	for i, head := range studentReportHeaders {
		pdf.CellFormat(widths[i], 8, head, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, s := range students {
		secName := ""
		if s.SectionID != nil {
			secName = sections[*s.SectionID]
		}
		cells := []string{s.Name, secName, s.Gender, fmtBirth(s), fmtAge(s), fmtFloat(s.Height), fmtFloat(s.Weight), fmtFloat(s.BMI)}
		for i, v := range cells {
			pdf.CellFormat(widths[i], 7, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	h.recordReport(c, "PDF export", school, len(students))

	filename := fmt.Sprintf("%s-students-%s.pdf", school.Name, time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

// GET /super-admin/reports/sbfp
//
// The feeding-program summary: per school, the beneficiary roster plus the
// headline nutrition numbers.
func (h *ReportHandler) GenerateSBFPReport(c echo.Context) error {
	var schools []models.School
	if err := database.DB.Order("name asc").Find(&schools).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, "School-Based Feeding Program Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	totalBeneficiaries := 0
	for _, school := range schools {
		var students []models.Student
		database.DB.Where("school_id = ?", school.ID).Order("name asc").Find(&students)
		beneficiaries := analytics.Beneficiaries(students)
		totalBeneficiaries += len(beneficiaries)
		dist := analytics.Aggregate(students)

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 9, school.Name, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf(
			"Students: %d   Beneficiaries: %d (%.1f%%)   Data completeness: %.1f%%",
			len(students), len(beneficiaries),
			analytics.Round1(analytics.BeneficiaryRate(students)),
			analytics.Round1(analytics.DataCompleteness(students))), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf(
			"Severely wasted: %d   Wasted: %d   Normal: %d   Overweight: %d   Obese: %d",
			dist.SeverelyWasted, dist.Wasted, dist.Normal, dist.Overweight, dist.Obese), "", 1, "L", false, 0, "")

		if len(beneficiaries) > 0 {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(90, 7, "Beneficiary", "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 7, "BMI", "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 7, "Classification", "1", 1, "C", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			for _, b := range beneficiaries {
				class := ""
				if b.BMI != nil && *b.BMI > 0 {
					class = analytics.Classify(*b.BMI).String()
				}
				pdf.CellFormat(90, 6, b.Name, "1", 0, "L", false, 0, "")
				pdf.CellFormat(25, 6, fmtFloat(b.BMI), "1", 0, "R", false, 0, "")
				pdf.CellFormat(40, 6, class, "1", 1, "L", false, 0, "")
			}
		}
		pdf.Ln(5)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total beneficiaries across %d schools: %d", len(schools), totalBeneficiaries), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	actor := middlewares.CurrentName(c)
	_ = h.Notifier.NotifyReportGenerated("SBFP report",
		fmt.Sprintf("Feeding program report generated by %s covering %d schools", actor, len(schools)), nil)
	logActivity(c, middlewares.CurrentUserID(c), "report_generate", "Generated SBFP report")

	filename := "sbfp-report-" + time.Now().Format("20060102") + ".pdf"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *ReportHandler) recordReport(c echo.Context, kind string, school *models.School, count int) {
	actor := middlewares.CurrentName(c)
	_ = h.Notifier.NotifyReportGenerated(kind+" - "+school.Name,
		fmt.Sprintf("%s of %d students generated by %s", kind, count, actor), &school.ID)
	logActivity(c, middlewares.CurrentUserID(c), "report_generate",
		fmt.Sprintf("%s for %s (%d students)", kind, school.Name, count))
}

// GET /super-admin/reports lists generated-report history, newest first.
func (h *ReportHandler) ListReports(c echo.Context) error {
	var reports []models.Notification
	if err := database.DB.
		Where("recipient_id = ? AND type = ?", middlewares.CurrentUserID(c), models.NotifReportGenerated).
		Order("created_at desc").Find(&reports).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	type row struct {
		models.Notification
		SchoolName string `json:"school_name,omitempty"`
	}
	out := make([]row, 0, len(reports))
	for _, r := range reports {
		item := row{Notification: r}
		if r.RelatedEntityID != nil {
			var s models.School
			if err := database.DB.First(&s, *r.RelatedEntityID).Error; err == nil {
				item.SchoolName = s.Name
			}
		}
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, out)
}

// PUT /super-admin/reports/:id/read
func (h *ReportHandler) MarkReportRead(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	res := database.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND type = ?", id, middlewares.CurrentUserID(c), models.NotifReportGenerated).
		Update("is_read", true)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "REPORT_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "report marked read"})
}

// DELETE /super-admin/reports/:id
func (h *ReportHandler) DeleteReport(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	res := database.DB.
		Where("id = ? AND recipient_id = ? AND type = ?", id, middlewares.CurrentUserID(c), models.NotifReportGenerated).
		Delete(&models.Notification{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "REPORT_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "report deleted"})
}
