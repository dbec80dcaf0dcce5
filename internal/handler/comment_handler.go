package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"comment-service/internal/clock"
	"comment-service/internal/domain"
	"comment-service/internal/logger"
	"comment-service/internal/middleware"
	"comment-service/internal/service"
	"comment-service/internal/validator"
)

// TimeFormat is the time format used for all API timestamps.
const TimeFormat = time.RFC3339

// CommentHandler handles comment-related HTTP requests.
type CommentHandler struct {
	comments        service.CommentServiceInterface
	validator       *validator.Validator
	clock           clock.Clock
	window          time.Duration
	defaultPageSize int
	maxPageSize     int
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments service.CommentServiceInterface, v *validator.Validator, clk clock.Clock, window time.Duration, defaultPageSize, maxPageSize int) *CommentHandler {
	return &CommentHandler{
		comments:        comments,
		validator:       v,
		clock:           clk,
		window:          window,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// AuthorResponse is the author summary embedded in comment responses.
type AuthorResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// CommentResponse represents a comment in the API response. CanEdit and
// CanRestore are computed at render time against the moderation window so
// clients do not replicate the window arithmetic.
type CommentResponse struct {
	ID         string             `json:"id"`
	Content    string             `json:"content"`
	AuthorID   string             `json:"author_id"`
	Author     *AuthorResponse    `json:"author,omitempty"`
	ParentID   *string            `json:"parent_id,omitempty"`
	IsEdited   bool               `json:"is_edited"`
	IsDeleted  bool               `json:"is_deleted"`
	DeletedAt  *string            `json:"deleted_at,omitempty"`
	CanEdit    bool               `json:"can_edit"`
	CanRestore bool               `json:"can_restore"`
	CreatedAt  string             `json:"created_at"`
	UpdatedAt  string             `json:"updated_at"`
	Replies    []*CommentResponse `json:"replies,omitempty"`
}

// ListCommentsResponse is the paged root listing.
type ListCommentsResponse struct {
	Comments []*CommentResponse `json:"comments"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
}

// CreateCommentRequest is the payload for POST /api/v1/comments.
type CreateCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id,omitempty"`
}

// EditCommentRequest is the payload for PATCH /api/v1/comments/:id.
type EditCommentRequest struct {
	Content string `json:"content"`
}

func (h *CommentHandler) toCommentResponse(c *domain.Comment) *CommentResponse {
	now := h.clock.Now()
	resp := &CommentResponse{
		ID:         c.ID,
		Content:    c.Content,
		AuthorID:   c.AuthorID,
		ParentID:   c.ParentID,
		IsEdited:   c.IsEdited,
		IsDeleted:  c.IsDeleted,
		CanEdit:    domain.CanEdit(c, now, h.window),
		CanRestore: domain.CanRestore(c, now, h.window),
		CreatedAt:  c.CreatedAt.Format(TimeFormat),
		UpdatedAt:  c.UpdatedAt.Format(TimeFormat),
	}
	if c.DeletedAt != nil {
		deletedAt := c.DeletedAt.Format(TimeFormat)
		resp.DeletedAt = &deletedAt
	}
	if c.Author != nil {
		resp.Author = &AuthorResponse{
			ID:        c.Author.ID,
			Username:  c.Author.Username,
			AvatarURL: c.Author.AvatarURL,
		}
	}
	return resp
}

func (h *CommentHandler) toNodeResponse(node *service.CommentNode) *CommentResponse {
	resp := h.toCommentResponse(&node.Comment)
	resp.Replies = make([]*CommentResponse, 0, len(node.Replies))
	for _, reply := range node.Replies {
		resp.Replies = append(resp.Replies, h.toNodeResponse(reply))
	}
	return resp
}

// respondError maps service errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Request failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// commentID checks the :id path parameter before it reaches the database.
// A malformed id can never name an existing comment, so it maps to 404
// rather than surfacing a cast error as 500.
func (h *CommentHandler) commentID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := h.validator.ValidateID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return "", false
	}
	return id, true
}

func requester(c *gin.Context) (service.Requester, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return service.Requester{}, false
	}
	return service.Requester{ID: userID, Roles: middleware.GetUserRoles(c)}, true
}

// CreateComment handles POST /api/v1/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	var body CreateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), body.Content, req.ID, body.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toCommentResponse(comment))
}

// ListComments handles GET /api/v1/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), h.defaultPageSize)
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}

	nodes, total, err := h.comments.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ListCommentsResponse{
		Comments: make([]*CommentResponse, 0, len(nodes)),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}
	for _, node := range nodes {
		resp.Comments = append(resp.Comments, h.toNodeResponse(node))
	}

	c.JSON(http.StatusOK, resp)
}

// GetComment handles GET /api/v1/comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := h.commentID(c)
	if !ok {
		return
	}

	comment, err := h.comments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toCommentResponse(comment))
}

// EditComment handles PATCH /api/v1/comments/:id
func (h *CommentHandler) EditComment(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := h.commentID(c)
	if !ok {
		return
	}

	var body EditCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.comments.Edit(c.Request.Context(), id, body.Content, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toCommentResponse(comment))
}

// SoftDeleteComment handles POST /api/v1/comments/:id/soft-delete
func (h *CommentHandler) SoftDeleteComment(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	id, ok := h.commentID(c)
	if !ok {
		return
	}

	comment, err := h.comments.SoftDelete(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toCommentResponse(comment))
}

// RestoreComment handles POST /api/v1/comments/:id/restore
func (h *CommentHandler) RestoreComment(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	id, ok := h.commentID(c)
	if !ok {
		return
	}

	comment, err := h.comments.Restore(c.Request.Context(), id, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toCommentResponse(comment))
}

// DeleteComment handles DELETE /api/v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	id, ok := h.commentID(c)
	if !ok {
		return
	}

	if err := h.comments.HardDelete(c.Request.Context(), id, req.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListDeletedComments handles GET /api/v1/comments/deleted
func (h *CommentHandler) ListDeletedComments(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	comments, err := h.comments.ListDeleted(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]*CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, h.toCommentResponse(&comments[i]))
	}

	c.JSON(http.StatusOK, gin.H{"comments": resp})
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
