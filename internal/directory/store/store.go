// Package store defines the repository contracts the directory services and
// the permission resolver depend on. Implementations live in the memory and
// postgres subpackages; both report missing rows with sentinel.ErrNotFound.
package store

import (
	"context"

	"backoffice/internal/directory/models"
)

// UserStore persists user records.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) (*models.User, error)
}

// RoleStore persists role records.
type RoleStore interface {
	FindByID(ctx context.Context, id int64) (*models.Role, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	FindAll(ctx context.Context) ([]*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id int64) (*models.Role, error)
}
