// Package memory provides in-memory directory stores. They keep development
// and tests lightweight and intentionally favor clarity over performance.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"backoffice/internal/directory/models"
	"backoffice/pkg/platform/sentinel"
)

type UserStore struct {
	mu     sync.RWMutex
	users  map[int64]*models.User
	nextID int64
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (s *UserStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *UserStore) FindAll(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user.Clone())
	}
	return out, nil
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return sentinel.ErrConflict
		}
	}
	user.ID = s.nextID
	s.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user.Clone()
	return nil
}

func (s *UserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for _, other := range s.users {
		if other.ID != user.ID && strings.EqualFold(other.Email, user.Email) {
			return sentinel.ErrConflict
		}
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	s.users[user.ID] = user.Clone()
	return nil
}

func (s *UserStore) Delete(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	delete(s.users, id)
	return user, nil
}

type RoleStore struct {
	mu     sync.RWMutex
	roles  map[int64]*models.Role
	nextID int64
}

func NewRoleStore() *RoleStore {
	return &RoleStore{roles: make(map[int64]*models.Role), nextID: 1}
}

func (s *RoleStore) FindByID(_ context.Context, id int64) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if role, ok := s.roles[id]; ok {
		return role.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByIDs returns the roles that exist among ids; missing IDs are skipped,
// matching the repository boundary the resolver expects.
func (s *RoleStore) FindByIDs(_ context.Context, ids []int64) ([]*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Role, 0, len(ids))
	for _, id := range ids {
		if role, ok := s.roles[id]; ok {
			out = append(out, role.Clone())
		}
	}
	return out, nil
}

func (s *RoleStore) FindByName(_ context.Context, name string) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, role := range s.roles {
		if strings.EqualFold(role.Name, name) {
			return role.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *RoleStore) FindAll(_ context.Context) ([]*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Role, 0, len(s.roles))
	for _, role := range s.roles {
		out = append(out, role.Clone())
	}
	return out, nil
}

func (s *RoleStore) Create(_ context.Context, role *models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.roles {
		if strings.EqualFold(existing.Name, role.Name) {
			return sentinel.ErrConflict
		}
	}
	role.ID = s.nextID
	s.nextID++
	now := time.Now()
	role.CreatedAt = now
	role.UpdatedAt = now
	s.roles[role.ID] = role.Clone()
	return nil
}

func (s *RoleStore) Update(_ context.Context, role *models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.roles[role.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for _, other := range s.roles {
		if other.ID != role.ID && strings.EqualFold(other.Name, role.Name) {
			return sentinel.ErrConflict
		}
	}
	role.CreatedAt = existing.CreatedAt
	role.UpdatedAt = time.Now()
	s.roles[role.ID] = role.Clone()
	return nil
}

func (s *RoleStore) Delete(_ context.Context, id int64) (*models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.roles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	delete(s.roles, id)
	return role, nil
}
