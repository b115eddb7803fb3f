package service

import (
	"context"
	"errors"

	"backoffice/internal/directory/models"
	"backoffice/internal/events"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/sentinel"
)

// CreateUserInput carries the validated-at-the-edge fields for a new user.
// PasswordHash is opaque here; hashing happens upstream of this service.
type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
	RoleIDs      []int64
}

// UpdateUserInput mutates an existing user wholesale. Nil RoleIDs clears the
// assignment; partial patches are the handler's concern.
type UpdateUserInput struct {
	Name    string
	Email   string
	RoleIDs []int64
}

// CreateUser validates input, persists the user, and publishes user.created.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	roleIDs, err := s.resolveRoleIDs(ctx, in.RoleIDs)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: in.PasswordHash,
		RoleIDs:      roleIDs,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeValidation, "email already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.bus.Publish(ctx, events.UserCreated{UserID: user.ID})
	s.metrics.IncrementUsersCreated()
	s.logger.InfoContext(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// GetUser fetches one user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

// ListUsers returns every user record.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// UpdateUser validates input, persists the change, and publishes user.updated.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*models.User, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	roleIDs, err := s.resolveRoleIDs(ctx, in.RoleIDs)
	if err != nil {
		return nil, err
	}

	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	current.Name = name
	current.Email = email
	current.RoleIDs = roleIDs
	if err := s.users.Update(ctx, current); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeValidation, "email already in use")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
		}
	}

	s.bus.Publish(ctx, events.UserUpdated{UserID: current.ID})
	s.logger.InfoContext(ctx, "user updated", "user_id", current.ID)
	return current, nil
}

// DeleteUser removes the user and publishes user.removed.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
	}

	s.bus.Publish(ctx, events.UserRemoved{UserID: id})
	s.metrics.IncrementUsersDeleted()
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}
