package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

// atoiOr parses s, falling back to def when empty or malformed.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// uintParam reads a numeric path/query value; ok is false on garbage.
func uintParam(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// uintQuery reads an optional numeric query param as *uint.
func uintQuery(c echo.Context, name string) *uint {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	n, ok := uintParam(v)
	if !ok {
		return nil
	}
	return &n
}

// parseDate accepts YYYY-MM-DD; nil on empty.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// logActivity records an audit row. Best effort: a failed write is logged and
// never fails the request that triggered it.
func logActivity(c echo.Context, userID uint, activityType, description string) {
	rec := models.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
		IPAddress:    c.RealIP(),
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		log.Printf("activity log failed: %v", err)
	}
}

// randomPassword returns a URL-safe temporary password of roughly n chars.
func randomPassword(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; keep the flow alive
		return "ChangeMe-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:n]
}
