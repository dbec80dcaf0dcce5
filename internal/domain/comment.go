package domain

import "time"

// Comment represents a comment entity in the system. The stored record is
// flat; the reply tree is derived on read and never persisted.
type Comment struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	AuthorID  string     `json:"author_id"`
	ParentID  *string    `json:"parent_id,omitempty"`
	IsEdited  bool       `json:"is_edited"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Version is bumped on every save and guards the read-check-write
	// sequence against concurrent writers. Never exposed to clients.
	Version int `json:"-"`

	// Author is hydrated from the users table on read.
	Author *User `json:"author,omitempty"`
}

// CanEdit reports whether the comment is still inside its edit window at the
// given instant. The window is anchored to CreatedAt and never resets.
func CanEdit(c *Comment, now time.Time, window time.Duration) bool {
	return !c.IsDeleted && now.Sub(c.CreatedAt) < window
}

// CanRestore reports whether a soft-deleted comment can still be restored at
// the given instant. The window is anchored to DeletedAt.
func CanRestore(c *Comment, now time.Time, window time.Duration) bool {
	if !c.IsDeleted || c.DeletedAt == nil {
		return false
	}
	return now.Sub(*c.DeletedAt) < window
}
