package service

import (
	"context"
	"errors"
	"strings"

	"backoffice/internal/authz"
	"backoffice/internal/directory/models"
	"backoffice/internal/events"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/sentinel"
)

// CreateRoleInput carries the fields for a new role.
type CreateRoleInput struct {
	Name        string
	Permissions []string
}

// UpdateRoleInput replaces a role's name and permission list.
type UpdateRoleInput struct {
	Name        string
	Permissions []string
}

var knownPermissions = func() map[string]struct{} {
	out := make(map[string]struct{})
	for _, p := range authz.AllPermissions() {
		out[p] = struct{}{}
	}
	return out
}()

// normalizePermissions trims, deduplicates, and rejects permission strings
// outside the fixed vocabulary.
func normalizePermissions(permissions []string) ([]string, error) {
	seen := make(map[string]struct{}, len(permissions))
	out := make([]string, 0, len(permissions))
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := knownPermissions[p]; !ok {
			return nil, dErrors.New(dErrors.CodeValidation, "unknown permission: "+p)
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// CreateRole validates input, persists the role, and publishes role.created.
func (s *Service) CreateRole(ctx context.Context, in CreateRoleInput) (*models.Role, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	permissions, err := normalizePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}

	role := &models.Role{Name: name, Permissions: permissions}
	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeValidation, "role name already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create role")
	}

	s.bus.Publish(ctx, events.RoleCreated{})
	s.metrics.IncrementRolesCreated()
	s.logger.InfoContext(ctx, "role created", "role_id", role.ID, "name", role.Name)
	return role, nil
}

// GetRole fetches one role by id.
func (s *Service) GetRole(ctx context.Context, id int64) (*models.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "role not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load role")
	}
	return role, nil
}

// ListRoles returns every role record.
func (s *Service) ListRoles(ctx context.Context) ([]*models.Role, error) {
	roles, err := s.roles.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list roles")
	}
	return roles, nil
}

// UpdateRole validates input, persists the change, and publishes role.updated.
func (s *Service) UpdateRole(ctx context.Context, id int64, in UpdateRoleInput) (*models.Role, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	permissions, err := normalizePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}

	current, err := s.roles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "role not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load role")
	}

	current.Name = name
	current.Permissions = permissions
	if err := s.roles.Update(ctx, current); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "role not found")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeValidation, "role name already in use")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update role")
		}
	}

	s.bus.Publish(ctx, events.RoleUpdated{})
	s.logger.InfoContext(ctx, "role updated", "role_id", current.ID, "name", current.Name)
	return current, nil
}

// DeleteRole removes the role and publishes role.removed. Users keep their
// dangling role id; permission lookups simply stop matching it.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	if _, err := s.roles.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "role not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete role")
	}

	s.bus.Publish(ctx, events.RoleRemoved{})
	s.metrics.IncrementRolesDeleted()
	s.logger.InfoContext(ctx, "role deleted", "role_id", id)
	return nil
}
