package handler

import (
	"time"

	"backoffice/internal/directory/models"
)

// UserResponse is the wire shape of a user. The password hash never leaves
// the service boundary.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	RoleIDs   []int64   `json:"role_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleResponse is the wire shape of a role.
type RoleResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromUser converts a domain user to its response shape.
func FromUser(user *models.User) *UserResponse {
	roleIDs := user.RoleIDs
	if roleIDs == nil {
		roleIDs = []int64{}
	}
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		RoleIDs:   roleIDs,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// FromUsers maps a user list to response shapes.
func FromUsers(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, FromUser(user))
	}
	return out
}

// FromRole converts a domain role to its response shape.
func FromRole(role *models.Role) *RoleResponse {
	permissions := role.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return &RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: permissions,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

// FromRoles maps a role list to response shapes.
func FromRoles(roles []*models.Role) []*RoleResponse {
	out := make([]*RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, FromRole(role))
	}
	return out
}
