package authz

import (
	"context"
	"strings"

	dErrors "backoffice/pkg/domain-errors"
)

// requirementMode selects how a Requirement combines its permissions.
type requirementMode int

const (
	modeAll requirementMode = iota
	modeAny
)

// PermissionChecker answers permission questions for a user. *Resolver is the
// production implementation.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID int64, permission string) (bool, error)
	HasAnyPermission(ctx context.Context, userID int64, permissions []string) (bool, error)
}

// Requirement is a declarative access rule attached to a route: either all of
// its permissions must be held, or at least one of them.
type Requirement struct {
	mode        requirementMode
	permissions []string
}

// AllOf requires every listed permission. It panics on an empty list: a rule
// that admits everyone must be spelled out by not attaching a Requirement at
// all, not by an empty one.
func AllOf(permissions ...string) Requirement {
	if len(permissions) == 0 {
		panic("authz: AllOf requires at least one permission")
	}
	return Requirement{mode: modeAll, permissions: permissions}
}

// AnyOf requires at least one of the listed permissions. Panics on an empty
// list for the same reason as AllOf.
func AnyOf(permissions ...string) Requirement {
	if len(permissions) == 0 {
		panic("authz: AnyOf requires at least one permission")
	}
	return Requirement{mode: modeAny, permissions: permissions}
}

// Permissions returns the permissions the requirement names, in order.
func (rq Requirement) Permissions() []string {
	out := make([]string, len(rq.permissions))
	copy(out, rq.permissions)
	return out
}

// String renders the rule for logs, e.g. "all(users:read,users:update)".
func (rq Requirement) String() string {
	mode := "all"
	if rq.mode == modeAny {
		mode = "any"
	}
	return mode + "(" + strings.Join(rq.permissions, ",") + ")"
}

// Check evaluates the requirement for userID. An unmet rule yields a
// CodeForbidden error naming the first missing permission (ALL mode) or the
// whole alternative list (ANY mode); checker errors pass through unchanged.
func (rq Requirement) Check(ctx context.Context, checker PermissionChecker, userID int64) error {
	switch rq.mode {
	case modeAny:
		ok, err := checker.HasAnyPermission(ctx, userID, rq.permissions)
		if err != nil {
			return err
		}
		if !ok {
			return dErrors.New(dErrors.CodeForbidden, "requires one of: "+strings.Join(rq.permissions, ", "))
		}
		return nil
	default:
		for _, p := range rq.permissions {
			ok, err := checker.HasPermission(ctx, userID, p)
			if err != nil {
				return err
			}
			if !ok {
				return dErrors.New(dErrors.CodeForbidden, "missing permission: "+p)
			}
		}
		return nil
	}
}
