// Package events implements the in-process domain event bus and the event
// kinds published by the directory services. Events are transient: they are
// never persisted and never replayed across restarts.
package events

// Event is a notification of a completed state change. Name keys dispatch on
// the bus; payloads are plain structs asserted by typed subscribers.
type Event interface {
	Name() string
}

// Event names. Subscribers key on these; publishers never construct names
// dynamically.
const (
	UserCreatedName = "user.created"
	UserUpdatedName = "user.updated"
	UserRemovedName = "user.removed"
	RoleCreatedName = "role.created"
	RoleUpdatedName = "role.updated"
	RoleRemovedName = "role.removed"
)

// UserCreated is published after a user record has been persisted.
type UserCreated struct {
	UserID int64
}

func (UserCreated) Name() string { return UserCreatedName }

// UserUpdated is published after any mutation of an existing user, including
// role assignment changes.
type UserUpdated struct {
	UserID int64
}

func (UserUpdated) Name() string { return UserUpdatedName }

// UserRemoved is published after a user record has been deleted.
type UserRemoved struct {
	UserID int64
}

func (UserRemoved) Name() string { return UserRemovedName }

// Role events carry no identifier: role-to-user fan-out is not tracked, so
// consumers treat any role change as global.
type RoleCreated struct{}

func (RoleCreated) Name() string { return RoleCreatedName }

type RoleUpdated struct{}

func (RoleUpdated) Name() string { return RoleUpdatedName }

type RoleRemoved struct{}

func (RoleRemoved) Name() string { return RoleRemovedName }
