package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"comment-service/internal/domain"
)

const commentColumns = `id, content, author_id, parent_id, is_edited, is_deleted, deleted_at, created_at, updated_at, version`

const commentWithAuthorColumns = `c.id, c.content, c.author_id, c.parent_id, c.is_edited, c.is_deleted, c.deleted_at, c.created_at, c.updated_at, c.version,
	u.id, u.username, u.avatar_url, u.role, u.created_at`

// PostgresCommentRepository implements CommentRepository using PostgreSQL.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository.
func NewPostgresCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Insert persists a new comment record.
func (r *PostgresCommentRepository) Insert(ctx context.Context, c *domain.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, content, author_id, parent_id, is_edited, is_deleted, deleted_at, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.Content, c.AuthorID, c.ParentID, c.IsEdited, c.IsDeleted, c.DeletedAt, c.CreatedAt, c.UpdatedAt, c.Version)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// Get retrieves a comment by id, (nil, nil) when absent.
func (r *PostgresCommentRepository) Get(ctx context.Context, id string) (*domain.Comment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE id = $1
	`, id)

	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// GetWithAuthor retrieves a comment by id with its author hydrated.
func (r *PostgresCommentRepository) GetWithAuthor(ctx context.Context, id string) (*domain.Comment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+commentWithAuthorColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`, id)

	c, err := scanCommentWithAuthor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment with author: %w", err)
	}
	return c, nil
}

// FindByParent returns the direct replies of a comment, oldest first.
func (r *PostgresCommentRepository) FindByParent(ctx context.Context, parentID string) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE parent_id = $1
		ORDER BY created_at ASC
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("query replies: %w", err)
	}
	defer rows.Close()

	return collectComments(rows, scanComment)
}

// FindByParents returns the direct replies of a set of comments, oldest
// first, authors hydrated.
func (r *PostgresCommentRepository) FindByParents(ctx context.Context, parentIDs []string) ([]domain.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+commentWithAuthorColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.parent_id = ANY($1)
		ORDER BY c.created_at ASC
	`, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("query replies: %w", err)
	}
	defer rows.Close()

	return collectComments(rows, scanCommentWithAuthor)
}

// FindRootsPaged returns one page of root comments, newest first, authors
// hydrated, together with the total root count.
func (r *PostgresCommentRepository) FindRootsPaged(ctx context.Context, offset, limit int) ([]domain.Comment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM comments WHERE parent_id IS NULL
	`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count roots: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+commentWithAuthorColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.parent_id IS NULL
		ORDER BY c.created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query roots: %w", err)
	}
	defer rows.Close()

	comments, err := collectComments(rows, scanCommentWithAuthor)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// FindByAuthorDeleted returns the author's soft-deleted comments, most
// recently deleted first.
func (r *PostgresCommentRepository) FindByAuthorDeleted(ctx context.Context, authorID string) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentWithAuthorColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.author_id = $1 AND c.is_deleted = TRUE
		ORDER BY c.deleted_at DESC
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("query deleted comments: %w", err)
	}
	defer rows.Close()

	return collectComments(rows, scanCommentWithAuthor)
}

// FindExpiredSoftDeleted returns comments soft-deleted before the cutoff.
func (r *PostgresCommentRepository) FindExpiredSoftDeleted(ctx context.Context, cutoff time.Time) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE is_deleted = TRUE AND deleted_at < $1
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query expired comments: %w", err)
	}
	defer rows.Close()

	return collectComments(rows, scanComment)
}

// Save writes the comment back conditioned on its version. The UPDATE matches
// the version read earlier, so two racing writers cannot both pass a window
// check and persist; the loser gets ErrVersionConflict.
func (r *PostgresCommentRepository) Save(ctx context.Context, c *domain.Comment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE comments
		SET content = $1, is_edited = $2, is_deleted = $3, deleted_at = $4, updated_at = $5, version = version + 1
		WHERE id = $6 AND version = $7
	`, c.Content, c.IsEdited, c.IsDeleted, c.DeletedAt, c.UpdatedAt, c.ID, c.Version)
	if err != nil {
		return fmt.Errorf("save comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	c.Version++
	return nil
}

// Remove deletes a comment row unconditionally.
func (r *PostgresCommentRepository) Remove(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove comment: %w", err)
	}
	return nil
}

// RemoveIfExpired deletes a comment row only if it still matches the purge
// predicate at delete time. A comment restored between the sweeper's scan and
// this delete no longer matches and survives.
func (r *PostgresCommentRepository) RemoveIfExpired(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM comments
		WHERE id = $1 AND is_deleted = TRUE AND deleted_at < $2
	`, id, cutoff)
	if err != nil {
		return false, fmt.Errorf("purge comment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.Content, &c.AuthorID, &c.ParentID, &c.IsEdited,
		&c.IsDeleted, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt, &c.Version)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCommentWithAuthor(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	var u domain.User
	err := row.Scan(&c.ID, &c.Content, &c.AuthorID, &c.ParentID, &c.IsEdited,
		&c.IsDeleted, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt, &c.Version,
		&u.ID, &u.Username, &u.AvatarURL, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Author = &u
	return &c, nil
}

func collectComments(rows pgx.Rows, scan func(pgx.Row) (*domain.Comment, error)) ([]domain.Comment, error) {
	var comments []domain.Comment
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read comments: %w", err)
	}
	return comments, nil
}
