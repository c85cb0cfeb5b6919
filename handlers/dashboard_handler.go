package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ceejaycejas/nutrikid-sbfp/analytics"
	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

// GET /admin/dashboard
//
// The school-level view: nutritional distribution, per-section participation,
// trend charts and recent account activity for the caller's school.
func (h *DashboardHandler) AdminDashboard(c echo.Context) error {
	schoolID, err := scopeSchoolID(c)
	if err != nil {
		return err
	}

	var students []models.Student
	if err := database.DB.Where("school_id = ?", schoolID).Find(&students).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	var sections []models.Section
	if err := database.DB.Where("school_id = ?", schoolID).Order("name asc").Find(&sections).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	now := time.Now()
	beneficiaries := analytics.Beneficiaries(students)
	alerts := analytics.AtRiskStudents(students)
	if len(alerts) > 10 {
		alerts = alerts[:10]
	}

	return c.JSON(http.StatusOK, map[string]any{
		"totals": map[string]any{
			"students":      len(students),
			"beneficiaries": len(beneficiaries),
			"sections":      len(sections),
			"measured":      len(analytics.WithBMI(students)),
		},
		"rates": map[string]any{
			"beneficiary_rate":  analytics.Round1(analytics.BeneficiaryRate(students)),
			"at_risk_rate":      analytics.Round1(analytics.AtRiskRate(students)),
			"enrollment_ratio":  analytics.Round1(analytics.EnrollmentRatio(students)),
			"data_completeness": analytics.Round1(analytics.DataCompleteness(students)),
		},
		"bmi_distribution":    analytics.Aggregate(students),
		"at_risk_students":    alerts,
		"section_analytics":   analytics.AnalyzeSections(sections, students),
		"bmi_progress":        analytics.BMIProgress(students, now, 6),
		"nutritional_trends":  analytics.TrendHealthyVsAtRisk(students, now, 6),
		"beneficiary_health":  analytics.BeneficiaryHealthMetrics(beneficiaries),
		"monthly_summary":     analytics.SummarizeMonth(students, now),
		"activity_statistics": h.schoolActivityStats(schoolID, now),
	})
}

// schoolActivityStats summarises recent audit rows for a school's users.
func (h *DashboardHandler) schoolActivityStats(schoolID uint, now time.Time) map[string]any {
	var userIDs []uint
	database.DB.Model(&models.User{}).Where("school_id = ?", schoolID).Pluck("id", &userIDs)
	if len(userIDs) == 0 {
		return map[string]any{
			"recent":        []models.UserActivity{},
			"last_24h":      0,
			"logins_today":  0,
			"failed_logins": 0,
		}
	}

	weekAgo := now.AddDate(0, 0, -7)
	dayAgo := now.Add(-24 * time.Hour)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var recent []models.UserActivity
	database.DB.Where("user_id IN ? AND created_at >= ?", userIDs, weekAgo).
		Order("created_at desc").Limit(15).Find(&recent)

	var last24h, loginsToday, failedToday int64
	database.DB.Model(&models.UserActivity{}).
		Where("user_id IN ? AND created_at >= ?", userIDs, dayAgo).Count(&last24h)
	database.DB.Model(&models.UserActivity{}).
		Where("user_id IN ? AND activity_type = ? AND created_at >= ?", userIDs, "login", todayStart).
		Count(&loginsToday)
	database.DB.Model(&models.UserActivity{}).
		Where("user_id IN ? AND activity_type = ? AND created_at >= ?", userIDs, "login_failed", todayStart).
		Count(&failedToday)

	return map[string]any{
		"recent":        recent,
		"last_24h":      last24h,
		"logins_today":  loginsToday,
		"failed_logins": failedToday,
	}
}

// GET /super-admin/dashboard?school_id=
//
// The system-wide view. An optional school_id narrows every block to one
// school while keeping the cross-school ranking intact.
func (h *DashboardHandler) SuperAdminDashboard(c echo.Context) error {
	var students []models.Student
	if err := database.DB.Find(&students).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	var schools []models.School
	if err := database.DB.Order("name asc").Find(&schools).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	schoolFilter := uintQuery(c, "school_id")
	scoped := analytics.Filter(students, analytics.Scope{SchoolID: schoolFilter})

	now := time.Now()
	beneficiaries := analytics.Beneficiaries(scoped)

	// user counts honor the same school filter as the student blocks
	adminQ := database.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin)
	accountQ := database.DB.Model(&models.User{}).Where("role = ?", models.RoleStudent)
	if schoolFilter != nil {
		adminQ = adminQ.Where("school_id = ?", *schoolFilter)
		accountQ = accountQ.Where("school_id = ?", *schoolFilter)
	}
	var adminCount, studentAccounts int64
	adminQ.Count(&adminCount)
	accountQ.Count(&studentAccounts)

	ranking := make([]analytics.SchoolPerformance, 0, len(schools))
	for _, s := range schools {
		id := s.ID
		members := analytics.Filter(students, analytics.Scope{SchoolID: &id})
		ranking = append(ranking, analytics.ScoreSchool(s.Name, members))
	}
	sort.Slice(ranking, func(i, j int) bool { return ranking[i].Score > ranking[j].Score })
	topSchools := ranking
	if len(topSchools) > 3 {
		topSchools = topSchools[:3]
	}

	return c.JSON(http.StatusOK, map[string]any{
		"totals": map[string]any{
			"schools":          len(schools),
			"admins":           adminCount,
			"students":         len(scoped),
			"student_accounts": studentAccounts,
			"beneficiaries":    len(beneficiaries),
		},
		"bmi_distribution":      analytics.Aggregate(scoped),
		"gender_distribution":   genderDistribution(scoped),
		"age_distribution":      ageDistribution(scoped),
		"monthly_registrations": monthlyRegistrations(scoped, now),
		"monthly_trend":         analytics.MonthlyDistributions(scoped),
		"healthy_trend":         analytics.MonthlyHealthyTrend(scoped),
		"bmi_progress":          analytics.BMIProgress(scoped, now, 6),
		"beneficiary_health":    analytics.BeneficiaryHealthMetrics(beneficiaries),
		"school_ranking":        ranking,
		"top_schools":           topSchools,
		"compliance": map[string]any{
			"data_completeness": analytics.Round1(analytics.DataCompleteness(scoped)),
			"enrollment_ratio":  analytics.Round1(analytics.EnrollmentRatio(scoped)),
			"at_risk_rate":      analytics.Round1(analytics.AtRiskRate(scoped)),
		},
		"audit_alerts": auditAlerts(schools, students),
	})
}

func genderDistribution(students []models.Student) map[string]int {
	out := map[string]int{"male": 0, "female": 0, "unspecified": 0}
	for _, s := range students {
		switch s.Gender {
		case "male":
			out["male"]++
		case "female":
			out["female"]++
		default:
			out["unspecified"]++
		}
	}
	return out
}

func ageDistribution(students []models.Student) map[string]int {
	out := map[string]int{"under_6": 0, "6_to_9": 0, "10_to_12": 0, "13_plus": 0, "unknown": 0}
	for _, s := range students {
		age := s.Age()
		switch {
		case age < 0:
			out["unknown"]++
		case age < 6:
			out["under_6"]++
		case age <= 9:
			out["6_to_9"]++
		case age <= 12:
			out["10_to_12"]++
		default:
			out["13_plus"]++
		}
	}
	return out
}

// monthlyRegistrations counts sign-ups per month over the last 12 months,
// oldest first.
func monthlyRegistrations(students []models.Student, now time.Time) analytics.ChartSeries {
	series := analytics.ChartSeries{Labels: make([]string, 12), Values: make([]float64, 12)}
	for i := 0; i < 12; i++ {
		at := now.AddDate(0, -(11 - i), 0)
		series.Labels[i] = at.Format("Jan 2006")
		count := 0
		for _, s := range students {
			if s.CreatedAt.Month() == at.Month() && s.CreatedAt.Year() == at.Year() {
				count++
			}
		}
		series.Values[i] = float64(count)
	}
	return series
}

// auditAlerts flags schools that need attention: thin health data, at-risk
// students not yet enrolled in the feeding program, or no administrator.
func auditAlerts(schools []models.School, students []models.Student) []map[string]any {
	alerts := make([]map[string]any, 0)
	for _, school := range schools {
		id := school.ID
		members := analytics.Filter(students, analytics.Scope{SchoolID: &id})

		if len(members) > 0 {
			if completeness := analytics.DataCompleteness(members); completeness < 50 {
				alerts = append(alerts, map[string]any{
					"school":   school.Name,
					"severity": "warning",
					"message":  fmt.Sprintf("Only %.1f%% of students have health measurements", completeness),
				})
			}
			unenrolled := 0
			for _, s := range analytics.WithBMI(members) {
				if analytics.Classify(*s.BMI) != analytics.Normal && !s.IsBeneficiary {
					unenrolled++
				}
			}
			if unenrolled > 0 {
				alerts = append(alerts, map[string]any{
					"school":   school.Name,
					"severity": "critical",
					"message":  fmt.Sprintf("%d at-risk students are not enrolled in the feeding program", unenrolled),
				})
			}
		}

		var admins int64
		database.DB.Model(&models.User{}).
			Where("school_id = ? AND role = ?", school.ID, models.RoleAdmin).Count(&admins)
		if admins == 0 {
			alerts = append(alerts, map[string]any{
				"school":   school.Name,
				"severity": "warning",
				"message":  "School has no administrator account",
			})
		}
	}
	return alerts
}
