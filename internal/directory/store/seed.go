package store

import (
	"context"

	"backoffice/internal/authz"
	"backoffice/internal/directory/models"
	"backoffice/internal/directory/store/memory"
)

// SeedBootstrapAdmin creates an Administrator role holding the full
// permission catalog and one admin user, so a fresh in-memory deployment has
// a principal that can manage everything.
func SeedBootstrapAdmin(users *memory.UserStore, roles *memory.RoleStore) (*models.User, *models.Role) {
	ctx := context.Background()

	role := &models.Role{
		Name:        "Administrator",
		Permissions: authz.AllPermissions(),
	}
	_ = roles.Create(ctx, role)

	user := &models.User{
		Name:    "Administrator",
		Email:   "admin@example.com",
		RoleIDs: []int64{role.ID},
	}
	_ = users.Create(ctx, user)
	return user, role
}
