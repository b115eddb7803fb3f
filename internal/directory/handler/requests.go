package handler

import (
	"strings"

	dErrors "backoffice/pkg/domain-errors"
)

// CreateUserRequest is the HTTP request body for POST /users.
type CreateUserRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	RoleIDs []int64 `json:"role_ids"`
}

// Validate checks required fields. Deeper validation (email shape, role
// existence) lives in the service.
func (r *CreateUserRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	for _, id := range r.RoleIDs {
		if id <= 0 {
			return dErrors.New(dErrors.CodeValidation, "role ids must be positive")
		}
	}
	return nil
}

// UpdateUserRequest is the HTTP request body for PUT /users/{id}.
type UpdateUserRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	RoleIDs []int64 `json:"role_ids"`
}

func (r *UpdateUserRequest) Validate() error {
	return (*CreateUserRequest)(r).Validate()
}

// CreateRoleRequest is the HTTP request body for POST /roles.
type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func (r *CreateRoleRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// UpdateRoleRequest is the HTTP request body for PUT /roles/{id}.
type UpdateRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func (r *UpdateRoleRequest) Validate() error {
	return (*CreateRoleRequest)(r).Validate()
}
