package domain

import "time"

// Role classifies a user for authorization decisions. The historical
// "approver" role was folded into admin; only the two values below are valid.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole validates a raw role string against the enum.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleMember:
		return Role(raw), nil
	default:
		return "", NewValidationError("invalid role", map[string]string{
			"role": "role must be admin or member",
		})
	}
}

// User represents a team member.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
