package repository

import (
	"context"
	"errors"
	"time"

	"comment-service/internal/domain"
)

// ErrVersionConflict is returned by Save when the record was modified by a
// concurrent writer between read and write. Callers retry or give up; the
// lifecycle engine surfaces it as an infrastructure failure, not a domain one.
var ErrVersionConflict = errors.New("version conflict")

// CommentRepository defines methods for comment data access.
// Lookups return (nil, nil) when the record is absent.
type CommentRepository interface {
	// Insert persists a new comment record.
	Insert(ctx context.Context, comment *domain.Comment) error
	// Get retrieves a comment by id without relations.
	Get(ctx context.Context, id string) (*domain.Comment, error)
	// GetWithAuthor retrieves a comment by id with its author hydrated.
	GetWithAuthor(ctx context.Context, id string) (*domain.Comment, error)
	// FindByParent returns the direct replies of a comment, oldest first.
	FindByParent(ctx context.Context, parentID string) ([]domain.Comment, error)
	// FindByParents returns the direct replies of a set of comments, oldest
	// first, authors hydrated.
	FindByParents(ctx context.Context, parentIDs []string) ([]domain.Comment, error)
	// FindRootsPaged returns one page of root comments, newest first, authors
	// hydrated, together with the total root count.
	FindRootsPaged(ctx context.Context, offset, limit int) ([]domain.Comment, int, error)
	// FindByAuthorDeleted returns the author's soft-deleted comments, most
	// recently deleted first.
	FindByAuthorDeleted(ctx context.Context, authorID string) ([]domain.Comment, error)
	// FindExpiredSoftDeleted returns comments soft-deleted before the cutoff.
	FindExpiredSoftDeleted(ctx context.Context, cutoff time.Time) ([]domain.Comment, error)
	// Save writes the comment back conditioned on its version and bumps the
	// version on success. Returns ErrVersionConflict when the condition fails.
	Save(ctx context.Context, comment *domain.Comment) error
	// Remove deletes a comment row unconditionally.
	Remove(ctx context.Context, id string) error
	// RemoveIfExpired deletes a comment row only if it is still soft-deleted
	// with deletedAt before the cutoff. Reports whether a row was removed.
	RemoveIfExpired(ctx context.Context, id string, cutoff time.Time) (bool, error)
}

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Get retrieves a user by id, (nil, nil) when absent.
	Get(ctx context.Context, id string) (*domain.User, error)
	// Insert persists a new user record.
	Insert(ctx context.Context, user *domain.User) error
}

// NotificationRepository defines methods for notification data access.
type NotificationRepository interface {
	// Insert persists a new notification record.
	Insert(ctx context.Context, notification *domain.Notification) error
	// Get retrieves a notification by id, (nil, nil) when absent.
	Get(ctx context.Context, id string) (*domain.Notification, error)
	// FindByRecipient returns a recipient's notifications, newest first.
	FindByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)
	// MarkRead marks a single notification as read.
	MarkRead(ctx context.Context, id string) error
	// MarkAllRead marks all of a recipient's unread notifications as read.
	MarkAllRead(ctx context.Context, recipientID string) error
}
