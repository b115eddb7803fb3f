package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/events"
)

type recordingCache struct {
	evictedUsers []int64
	evictAlls    int
}

func (c *recordingCache) EvictUser(userID int64) { c.evictedUsers = append(c.evictedUsers, userID) }
func (c *recordingCache) EvictAll()              { c.evictAlls++ }

func TestSubscriberUserEventsEvictOneUser(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name  string
		event events.Event
	}{
		{"created", events.UserCreated{UserID: 7}},
		{"updated", events.UserUpdated{UserID: 7}},
		{"removed", events.UserRemoved{UserID: 7}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bus := events.NewBus()
			cache := &recordingCache{}
			sub := NewSubscriber(bus, cache, nil)
			defer sub.Close()

			bus.Publish(ctx, tc.event)

			assert.Equal(t, []int64{7}, cache.evictedUsers)
			assert.Zero(t, cache.evictAlls)
		})
	}
}

func TestSubscriberRoleEventsEvictEverything(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name  string
		event events.Event
	}{
		{"created", events.RoleCreated{}},
		{"updated", events.RoleUpdated{}},
		{"removed", events.RoleRemoved{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bus := events.NewBus()
			cache := &recordingCache{}
			sub := NewSubscriber(bus, cache, nil)
			defer sub.Close()

			bus.Publish(ctx, tc.event)

			assert.Equal(t, 1, cache.evictAlls)
			assert.Empty(t, cache.evictedUsers)
		})
	}
}

func TestSubscriberCoversAllSixEvents(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	cache := &recordingCache{}
	sub := NewSubscriber(bus, cache, nil)
	defer sub.Close()

	for _, name := range []string{
		events.UserCreatedName, events.UserUpdatedName, events.UserRemovedName,
		events.RoleCreatedName, events.RoleUpdatedName, events.RoleRemovedName,
	} {
		require.Equal(t, 1, bus.SubscriberCount(name), name)
	}

	bus.Publish(ctx, events.UserCreated{UserID: 1})
	bus.Publish(ctx, events.UserUpdated{UserID: 2})
	bus.Publish(ctx, events.UserRemoved{UserID: 3})
	bus.Publish(ctx, events.RoleCreated{})
	bus.Publish(ctx, events.RoleUpdated{})
	bus.Publish(ctx, events.RoleRemoved{})

	assert.Equal(t, []int64{1, 2, 3}, cache.evictedUsers)
	assert.Equal(t, 3, cache.evictAlls)
}

func TestSubscriberCloseReleasesSubscriptions(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	cache := &recordingCache{}
	sub := NewSubscriber(bus, cache, nil)

	sub.Close()
	sub.Close() // idempotent

	for _, name := range []string{
		events.UserCreatedName, events.UserUpdatedName, events.UserRemovedName,
		events.RoleCreatedName, events.RoleUpdatedName, events.RoleRemovedName,
	} {
		assert.Equal(t, 0, bus.SubscriberCount(name), name)
	}

	bus.Publish(ctx, events.UserUpdated{UserID: 9})
	bus.Publish(ctx, events.RoleUpdated{})
	assert.Empty(t, cache.evictedUsers)
	assert.Zero(t, cache.evictAlls)
}

func TestSubscriberEndToEndWithResolver(t *testing.T) {
	ctx := context.Background()
	users, roles := newFixtureStores()
	resolver := NewResolver(users, roles)
	bus := events.NewBus()
	sub := NewSubscriber(bus, resolver, nil)
	defer sub.Close()

	ok, err := resolver.HasPermission(ctx, 2, PermUsersUpdate)
	require.NoError(t, err)
	require.False(t, ok)

	// Grant the Viewer role the update permission and announce the change.
	roles.mu.Lock()
	roles.roles[11].Permissions = append(roles.roles[11].Permissions, PermUsersUpdate)
	roles.mu.Unlock()
	bus.Publish(ctx, events.RoleUpdated{})

	ok, err = resolver.HasPermission(ctx, 2, PermUsersUpdate)
	require.NoError(t, err)
	assert.True(t, ok)
}
