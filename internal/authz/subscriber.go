package authz

import (
	"context"
	"log/slog"

	"backoffice/internal/events"
)

// Cache is the eviction surface the subscriber drives. *Resolver is the
// production implementation.
type Cache interface {
	EvictUser(userID int64)
	EvictAll()
}

// EventBus is the subscription surface the subscriber consumes.
type EventBus interface {
	Subscribe(name string, h events.Handler) func()
}

// Subscriber keeps the permission cache coherent with directory changes:
// user events evict that user's entry, role events evict everything, since a
// role edit can change the effective permissions of any number of users.
type Subscriber struct {
	cache        Cache
	logger       *slog.Logger
	unsubscribes []func()
}

// NewSubscriber registers the cache invalidation handlers on bus. Call Close
// to release them.
func NewSubscriber(bus EventBus, cache Cache, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Subscriber{cache: cache, logger: logger}

	for _, name := range []string{events.UserCreatedName, events.UserUpdatedName, events.UserRemovedName} {
		s.unsubscribes = append(s.unsubscribes, bus.Subscribe(name, s.onUserEvent))
	}
	for _, name := range []string{events.RoleCreatedName, events.RoleUpdatedName, events.RoleRemovedName} {
		s.unsubscribes = append(s.unsubscribes, bus.Subscribe(name, s.onRoleEvent))
	}
	return s
}

func (s *Subscriber) onUserEvent(ctx context.Context, e events.Event) error {
	var userID int64
	switch ev := e.(type) {
	case events.UserCreated:
		userID = ev.UserID
	case events.UserUpdated:
		userID = ev.UserID
	case events.UserRemoved:
		userID = ev.UserID
	default:
		s.logger.Warn("unexpected payload on user event", "event", e.Name())
		return nil
	}
	s.cache.EvictUser(userID)
	s.logger.Debug("evicted cached permissions", "event", e.Name(), "user_id", userID)
	return nil
}

func (s *Subscriber) onRoleEvent(ctx context.Context, e events.Event) error {
	s.cache.EvictAll()
	s.logger.Debug("evicted all cached permissions", "event", e.Name())
	return nil
}

// Close releases every subscription the constructor registered. Safe to call
// more than once.
func (s *Subscriber) Close() {
	for _, unsubscribe := range s.unsubscribes {
		unsubscribe()
	}
	s.unsubscribes = nil
}
