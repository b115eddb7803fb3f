// Package models defines the user and role read models shared by the
// directory stores, services, and the permission resolver.
package models

import "time"

// User is the primary identity tracked by the back office. The password hash
// is opaque here: hashing and comparison live with the login collaborator.
type User struct {
	ID           int64
	Name         string
	Email        string
	RoleIDs      []int64
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role names a grantable bundle of permission strings. Permission order is
// irrelevant; equality of the individual strings is all that matters.
type Role struct {
	ID          int64
	Name        string
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy so callers can hand out users without aliasing
// the store's slices.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.RoleIDs = append([]int64(nil), u.RoleIDs...)
	return &out
}

// Clone returns a deep copy of the role.
func (r *Role) Clone() *Role {
	if r == nil {
		return nil
	}
	out := *r
	out.Permissions = append([]string(nil), r.Permissions...)
	return &out
}
