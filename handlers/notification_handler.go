package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/middlewares"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler { return &NotificationHandler{} }

// GET /me/notifications
func (h *NotificationHandler) List(c echo.Context) error {
	userID := middlewares.CurrentUserID(c)

	var notifications []models.Notification
	if err := database.DB.
		Where("recipient_id = ?", userID).
		Order("created_at desc").Limit(100).
		Find(&notifications).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var unread int64
	database.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", userID).Count(&unread)

	return c.JSON(http.StatusOK, map[string]any{
		"data":   notifications,
		"unread": unread,
	})
}

// PUT /me/notifications/:id/read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	res := database.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, middlewares.CurrentUserID(c)).
		Update("is_read", true)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOTIFICATION_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "notification marked read"})
}

// PUT /me/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	res := database.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", middlewares.CurrentUserID(c)).
		Update("is_read", true)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"updated": res.RowsAffected})
}

// DELETE /me/notifications/:id
func (h *NotificationHandler) Delete(c echo.Context) error {
	id, ok := uintParam(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	res := database.DB.
		Where("id = ? AND recipient_id = ?", id, middlewares.CurrentUserID(c)).
		Delete(&models.Notification{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOTIFICATION_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "notification deleted"})
}
