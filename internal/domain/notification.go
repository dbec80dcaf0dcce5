package domain

import "time"

// NotificationTypeReply is the only notification type the service emits.
const NotificationTypeReply = "comment_reply"

// Notification represents a notification entity. Created only as a side
// effect of a reply whose parent author differs from the replier.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	CommentID   *string   `json:"comment_id,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
