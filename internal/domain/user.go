package domain

import "time"

// User represents a user entity in the system. Credentials are owned by the
// authentication collaborator; this service only reads profile data.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidRoles contains all valid user roles.
var ValidRoles = []string{"admin", "user", "moderator"}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
