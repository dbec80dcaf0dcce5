package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"comment-service/internal/clock"
	"comment-service/internal/domain"
	"comment-service/internal/logger"
	"comment-service/internal/metrics"
	"comment-service/internal/repository"
	"comment-service/internal/validator"
)

// ReplyNotificationMessage is the text sent to a parent comment's author
// when someone replies.
const ReplyNotificationMessage = "Someone replied to your comment"

// Requester is the verified identity acting on a comment. Roles come from
// the auth middleware's token claims.
type Requester struct {
	ID    string
	Roles []string
}

// HasRole reports whether the requester carries the given role.
func (r Requester) HasRole(role string) bool {
	for _, have := range r.Roles {
		if have == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the requester carries the admin role.
func (r Requester) IsAdmin() bool {
	return r.HasRole("admin")
}

// CommentService enforces the comment lifecycle state machine: which
// transitions are legal, when, and what side effects they trigger. It is
// stateless between calls; all state lives in the repositories.
type CommentService struct {
	comments  repository.CommentRepository
	notifier  Notifier
	validator *validator.Validator
	clock     clock.Clock

	// window governs both the edit window (anchored to createdAt) and the
	// restore window (anchored to deletedAt).
	window        time.Duration
	notifyTimeout time.Duration
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	comments repository.CommentRepository,
	notifier Notifier,
	v *validator.Validator,
	clk clock.Clock,
	window time.Duration,
	notifyTimeout time.Duration,
) *CommentService {
	return &CommentService{
		comments:      comments,
		notifier:      notifier,
		validator:     v,
		clock:         clk,
		window:        window,
		notifyTimeout: notifyTimeout,
	}
}

// Create posts a new comment. A reply to a missing parent is rejected rather
// than silently orphaned. When the parent's author differs from the new
// comment's author, a reply notification is dispatched best-effort.
func (s *CommentService) Create(ctx context.Context, content, authorID string, parentID *string) (*domain.Comment, error) {
	if err := s.validator.ValidateContent(content); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	var parent *domain.Comment
	if parentID != nil {
		var err error
		parent, err = s.comments.Get(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("fetch parent: %w", err)
		}
		if parent == nil {
			return nil, fmt.Errorf("parent comment: %w", ErrNotFound)
		}
	}

	now := s.clock.Now()
	comment := &domain.Comment{
		ID:        uuid.New().String(),
		Content:   content,
		AuthorID:  authorID,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	metrics.CommentOperations.WithLabelValues("create", "success").Inc()

	if parent != nil && parent.AuthorID != authorID {
		s.dispatchReplyNotification(parent.AuthorID, comment.ID)
	}

	// Re-fetch so the caller sees the fully hydrated record.
	created, err := s.comments.GetWithAuthor(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("refetch comment: %w", err)
	}
	if created == nil {
		return nil, ErrNotFound
	}
	return created, nil
}

// Edit replaces a comment's content. Only the author may edit, and only while
// the edit window (anchored to createdAt, never reset) is open.
func (s *CommentService) Edit(ctx context.Context, id, newContent, requesterID string) (*domain.Comment, error) {
	if err := s.validator.ValidateContent(newContent); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch comment: %w", err)
	}
	if comment == nil {
		return nil, fmt.Errorf("comment: %w", ErrNotFound)
	}
	if comment.AuthorID != requesterID {
		return nil, fmt.Errorf("only the author can edit: %w", ErrForbidden)
	}

	now := s.clock.Now()
	if comment.IsDeleted {
		return nil, fmt.Errorf("comment is deleted: %w", ErrInvalidState)
	}
	if now.Sub(comment.CreatedAt) >= s.window {
		return nil, fmt.Errorf("edit window expired: %w", ErrInvalidState)
	}

	comment.Content = newContent
	comment.IsEdited = true
	comment.UpdatedAt = now

	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}
	metrics.CommentOperations.WithLabelValues("edit", "success").Inc()

	return s.refetch(ctx, id)
}

// SoftDelete hides a comment. The author or an admin may delete. Deleting an
// already-deleted comment re-stamps deletedAt, which re-arms the restore
// window; that is documented behavior, not defended against abuse.
func (s *CommentService) SoftDelete(ctx context.Context, id string, requester Requester) (*domain.Comment, error) {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch comment: %w", err)
	}
	if comment == nil {
		return nil, fmt.Errorf("comment: %w", ErrNotFound)
	}
	if comment.AuthorID != requester.ID && !requester.IsAdmin() {
		return nil, fmt.Errorf("only the author or an admin can delete: %w", ErrForbidden)
	}

	now := s.clock.Now()
	comment.IsDeleted = true
	comment.DeletedAt = &now
	comment.UpdatedAt = now

	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}
	metrics.CommentOperations.WithLabelValues("soft_delete", "success").Inc()

	return s.refetch(ctx, id)
}

// Restore brings a soft-deleted comment back. Author only; the admin override
// for delete is deliberately not extended to restore. Fails once the restore
// window (anchored to deletedAt) has closed.
func (s *CommentService) Restore(ctx context.Context, id, requesterID string) (*domain.Comment, error) {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch comment: %w", err)
	}
	if comment == nil {
		return nil, fmt.Errorf("comment: %w", ErrNotFound)
	}
	if comment.AuthorID != requesterID {
		return nil, fmt.Errorf("only the author can restore: %w", ErrForbidden)
	}
	if !domain.CanRestore(comment, s.clock.Now(), s.window) {
		return nil, fmt.Errorf("restore window expired: %w", ErrInvalidState)
	}

	comment.IsDeleted = false
	comment.DeletedAt = nil
	comment.UpdatedAt = s.clock.Now()

	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}
	metrics.CommentOperations.WithLabelValues("restore", "success").Inc()

	return s.refetch(ctx, id)
}

// HardDelete stamps a comment deleted. Despite the name, the row is not
// erased here; physical removal is deferred to the retention sweeper once
// the grace period lapses.
func (s *CommentService) HardDelete(ctx context.Context, id, requesterID string) error {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch comment: %w", err)
	}
	if comment == nil {
		return fmt.Errorf("comment: %w", ErrNotFound)
	}
	if comment.AuthorID != requesterID {
		return fmt.Errorf("only the author can delete: %w", ErrForbidden)
	}

	now := s.clock.Now()
	comment.IsDeleted = true
	comment.DeletedAt = &now
	comment.UpdatedAt = now

	if err := s.comments.Save(ctx, comment); err != nil {
		return fmt.Errorf("save comment: %w", err)
	}
	metrics.CommentOperations.WithLabelValues("hard_delete", "success").Inc()
	return nil
}

// ListDeleted returns the caller's own soft-deleted comments, most recently
// deleted first. There is no cross-user visibility.
func (s *CommentService) ListDeleted(ctx context.Context, authorID string) ([]domain.Comment, error) {
	comments, err := s.comments.FindByAuthorDeleted(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list deleted comments: %w", err)
	}
	return comments, nil
}

// Get retrieves a single comment with its author hydrated.
func (s *CommentService) Get(ctx context.Context, id string) (*domain.Comment, error) {
	comment, err := s.comments.GetWithAuthor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch comment: %w", err)
	}
	if comment == nil {
		return nil, fmt.Errorf("comment: %w", ErrNotFound)
	}
	return comment, nil
}

// List returns one page of root comments with their direct replies nested,
// plus the total root count for pagination.
func (s *CommentService) List(ctx context.Context, page, limit int) ([]*CommentNode, int, error) {
	offset := (page - 1) * limit
	roots, total, err := s.comments.FindRootsPaged(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list roots: %w", err)
	}
	if len(roots) == 0 {
		return []*CommentNode{}, total, nil
	}

	rootIDs := make([]string, len(roots))
	for i, c := range roots {
		rootIDs[i] = c.ID
	}

	replies, err := s.comments.FindByParents(ctx, rootIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("list replies: %w", err)
	}

	flat := make([]domain.Comment, 0, len(roots)+len(replies))
	flat = append(flat, roots...)
	flat = append(flat, replies...)

	return BuildTree(flat), total, nil
}

// dispatchReplyNotification delivers a reply event to the sink without
// blocking the caller. Failures are logged and swallowed; comment creation
// has already succeeded by the time this runs.
func (s *CommentService) dispatchReplyNotification(recipientID, commentID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		if err := s.notifier.Notify(ctx, recipientID, ReplyNotificationMessage, commentID); err != nil {
			logger.Warn("Failed to deliver reply notification",
				slog.String("recipient_id", recipientID),
				slog.String("comment_id", commentID),
				slog.String("error", err.Error()))
			metrics.NotificationsEmitted.WithLabelValues("failure").Inc()
			return
		}
		metrics.NotificationsEmitted.WithLabelValues("success").Inc()
	}()
}

func (s *CommentService) refetch(ctx context.Context, id string) (*domain.Comment, error) {
	comment, err := s.comments.GetWithAuthor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("refetch comment: %w", err)
	}
	if comment == nil {
		// Purged between write and refetch.
		return nil, fmt.Errorf("comment: %w", ErrNotFound)
	}
	return comment, nil
}
