// Package service implements the user and role business operations. Every
// successful mutation publishes exactly one domain event after the store write
// has succeeded; reads publish nothing.
package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"backoffice/internal/directory/store"
	"backoffice/internal/events"
	"backoffice/internal/platform/metrics"
	dErrors "backoffice/pkg/domain-errors"
)

const minNameLength = 2

// Good enough for back-office input screening; real deliverability is the
// mail system's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Publisher is the event-emission surface. *events.Bus is the production
// implementation; Publish never reports handler outcomes to the caller.
type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Service orchestrates user and role management over the repository boundary.
type Service struct {
	users   store.UserStore
	roles   store.RoleStore
	bus     Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service. bus must not be nil: the permission cache relies
// on these events for invalidation.
func New(users store.UserStore, roles store.RoleStore, bus Publisher, opts ...Option) *Service {
	s := &Service{
		users:  users,
		roles:  roles,
		bus:    bus,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < minNameLength {
		return "", dErrors.New(dErrors.CodeValidation, "name must be at least 2 characters")
	}
	return name, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	return email, nil
}

// resolveRoleIDs verifies every referenced role exists and returns the ids
// deduplicated, preserving first-seen order.
func (s *Service) resolveRoleIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	roles, err := s.roles.FindByIDs(ctx, unique)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load roles")
	}
	if len(roles) != len(unique) {
		found := make(map[int64]struct{}, len(roles))
		for _, r := range roles {
			found[r.ID] = struct{}{}
		}
		for _, id := range unique {
			if _, ok := found[id]; !ok {
				return nil, dErrors.New(dErrors.CodeValidation, "unknown role id")
			}
		}
	}
	return unique, nil
}
