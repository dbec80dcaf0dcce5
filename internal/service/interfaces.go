package service

import (
	"context"

	"comment-service/internal/domain"
)

// Notifier is the fire-and-forget notification sink. Delivery failure is
// never surfaced to the comment-mutating caller.
type Notifier interface {
	Notify(ctx context.Context, recipientID, message, relatedCommentID string) error
}

// CommentServiceInterface defines the comment lifecycle operations.
// Used for dependency injection and stubbing in handler tests.
type CommentServiceInterface interface {
	// Create posts a new comment, optionally as a reply to parentID.
	Create(ctx context.Context, content, authorID string, parentID *string) (*domain.Comment, error)
	// Edit replaces a comment's content within the edit window.
	Edit(ctx context.Context, id, newContent, requesterID string) (*domain.Comment, error)
	// SoftDelete hides a comment, starting the restore window.
	SoftDelete(ctx context.Context, id string, requester Requester) (*domain.Comment, error)
	// Restore brings a soft-deleted comment back within the restore window.
	Restore(ctx context.Context, id, requesterID string) (*domain.Comment, error)
	// HardDelete stamps a comment deleted; physical removal is the sweeper's.
	HardDelete(ctx context.Context, id, requesterID string) error
	// ListDeleted returns the requester's own soft-deleted comments.
	ListDeleted(ctx context.Context, authorID string) ([]domain.Comment, error)
	// Get retrieves a single comment with its author.
	Get(ctx context.Context, id string) (*domain.Comment, error)
	// List returns one page of root comments with their direct replies nested,
	// plus the total root count.
	List(ctx context.Context, page, limit int) ([]*CommentNode, int, error)
}

// NotificationServiceInterface defines the notification read-side operations.
type NotificationServiceInterface interface {
	// List returns the requester's notifications, newest first.
	List(ctx context.Context, recipientID string) ([]domain.Notification, error)
	// MarkRead marks one of the requester's notifications as read.
	MarkRead(ctx context.Context, id, requesterID string) error
	// MarkAllRead marks all of the requester's notifications as read.
	MarkAllRead(ctx context.Context, recipientID string) error
}
