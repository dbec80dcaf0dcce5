package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comment-service/internal/domain"
	"comment-service/internal/service"
	"comment-service/internal/validator"
)

// NotificationHandler handles notification-related HTTP requests.
type NotificationHandler struct {
	notifications service.NotificationServiceInterface
	validator     *validator.Validator
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications service.NotificationServiceInterface, v *validator.Validator) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, validator: v}
}

// NotificationResponse represents a notification in the API response.
type NotificationResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	CommentID *string `json:"comment_id,omitempty"`
	IsRead    bool    `json:"is_read"`
	CreatedAt string  `json:"created_at"`
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		CommentID: n.CommentID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(TimeFormat),
	}
}

// ListNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	notifications, err := h.notifications.List(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		resp = append(resp, toNotificationResponse(&notifications[i]))
	}

	c.JSON(http.StatusOK, gin.H{"notifications": resp})
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.validator.ValidateID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), id, req.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllNotificationsRead handles POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllNotificationsRead(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), req.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
