package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"comment-service/internal/clock"
	"comment-service/internal/domain"
	"comment-service/internal/repository"
)

// NotificationService persists reply notifications and serves the read side
// (listing, read receipts). It implements Notifier for the lifecycle engine,
// which treats it purely as a fire-and-forget sink.
type NotificationService struct {
	notifications repository.NotificationRepository
	clock         clock.Clock
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications repository.NotificationRepository, clk clock.Clock) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		clock:         clk,
	}
}

// Notify records a reply notification for the recipient.
func (s *NotificationService) Notify(ctx context.Context, recipientID, message, relatedCommentID string) error {
	notification := &domain.Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Type:        domain.NotificationTypeReply,
		Message:     message,
		CommentID:   &relatedCommentID,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.notifications.Insert(ctx, notification); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns the requester's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	notifications, err := s.notifications.FindByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the requester's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, requesterID string) error {
	notification, err := s.notifications.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch notification: %w", err)
	}
	if notification == nil {
		return fmt.Errorf("notification: %w", ErrNotFound)
	}
	if notification.RecipientID != requesterID {
		return fmt.Errorf("not the recipient: %w", ErrForbidden)
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks all of the requester's notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	if err := s.notifications.MarkAllRead(ctx, recipientID); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}
