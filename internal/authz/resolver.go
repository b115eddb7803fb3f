// Package authz implements the permission-evaluation core: a per-user
// permission cache fed lazily from the directory repository and invalidated by
// domain events. Business operations never touch the cache directly; the
// Subscriber translates their events into evictions.
package authz

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"backoffice/internal/authz/metrics"
	"backoffice/internal/directory/models"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/sentinel"
)

// PermissionSet is the union of permission strings across a user's roles.
// Sets handed out by the resolver are never mutated after construction.
type PermissionSet map[string]struct{}

// Has reports membership of the exact permission string.
func (s PermissionSet) Has(permission string) bool {
	_, ok := s[permission]
	return ok
}

// UserStore is the slice of the directory repository the resolver reads.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// RoleStore resolves role IDs to role records.
type RoleStore interface {
	FindByIDs(ctx context.Context, ids []int64) ([]*models.Role, error)
}

// Resolver computes and caches per-user permission sets. It is the sole owner
// of the cache table: all mutation goes through insert-on-miss, EvictUser, and
// EvictAll.
type Resolver struct {
	users UserStore
	roles RoleStore

	logger  *slog.Logger
	metrics *metrics.Metrics

	group singleflight.Group

	mu    sync.RWMutex
	cache map[int64]PermissionSet
	// gen increments on every eviction. A load snapshots it before fetching
	// and installs its entry only if no eviction happened in between, so a
	// slow load can never resurrect a set that an event already invalidated.
	gen uint64
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics attaches cache and load metrics.
func WithMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver constructs a Resolver over the repository boundary.
func NewResolver(users UserStore, roles RoleStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		users:  users,
		roles:  roles,
		logger: slog.Default(),
		cache:  make(map[int64]PermissionSet),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HasPermission reports whether the user holds the exact permission string.
func (r *Resolver) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	set, err := r.permissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.Has(permission), nil
}

// HasAnyPermission reports whether the user holds at least one of the given
// permission strings. An empty list is never satisfied.
func (r *Resolver) HasAnyPermission(ctx context.Context, userID int64, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return false, nil
	}
	set, err := r.permissions(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, permission := range permissions {
		if set.Has(permission) {
			return true, nil
		}
	}
	return false, nil
}

// EvictUser removes a single cache entry; no-op when absent.
func (r *Resolver) EvictUser(userID int64) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.gen++
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.Evictions.WithLabelValues("user").Inc()
	}
}

// EvictAll clears every cache entry. Always safe: entries are re-derived
// lazily on next access.
func (r *Resolver) EvictAll() {
	r.mu.Lock()
	r.cache = make(map[int64]PermissionSet)
	r.gen++
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.Evictions.WithLabelValues("all").Inc()
	}
}

// permissions returns the cached set for userID, loading it from the
// repository boundary on a miss. Concurrent misses for the same user share a
// single load.
func (r *Resolver) permissions(ctx context.Context, userID int64) (PermissionSet, error) {
	r.mu.RLock()
	set, ok := r.cache[userID]
	startGen := r.gen
	r.mu.RUnlock()
	if ok {
		if r.metrics != nil {
			r.metrics.CacheHits.Inc()
		}
		return set, nil
	}

	if r.metrics != nil {
		r.metrics.CacheMisses.Inc()
	}

	// The generation is part of the flight key so a check issued after an
	// eviction never shares a load that started before it.
	key := strconv.FormatInt(userID, 10) + "@" + strconv.FormatUint(startGen, 10)
	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.load(ctx, userID, startGen)
	})
	if err != nil {
		return nil, err
	}
	return v.(PermissionSet), nil
}

// load fetches the user's roles, unions their permissions, and installs the
// entry. The entry is replaced wholesale; readers never observe a partial set.
func (r *Resolver) load(ctx context.Context, userID int64, startGen uint64) (PermissionSet, error) {
	start := time.Now()

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	roles, err := r.roles.FindByIDs(ctx, user.RoleIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load roles")
	}

	set := make(PermissionSet)
	for _, role := range roles {
		for _, permission := range role.Permissions {
			set[permission] = struct{}{}
		}
	}

	r.mu.Lock()
	if r.gen == startGen {
		r.cache[userID] = set
	}
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ObserveLoad(start)
	}
	r.logger.DebugContext(ctx, "permission set loaded",
		"user_id", userID,
		"permissions", len(set),
	)

	return set, nil
}

// CachedUsers reports the number of cached entries. Exposed for tests.
func (r *Resolver) CachedUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
