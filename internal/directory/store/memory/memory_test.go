package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/directory/models"
	"backoffice/pkg/platform/sentinel"
)

func TestUserStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	user := &models.User{Name: "Ada", Email: "ada@example.com", RoleIDs: []int64{1}}
	require.NoError(t, s.Create(ctx, user))
	assert.Equal(t, int64(1), user.ID)

	t.Run("find by id", func(t *testing.T) {
		got, err := s.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Name)
		assert.Equal(t, []int64{1}, got.RoleIDs)
	})

	t.Run("find by email is case-insensitive", func(t *testing.T) {
		got, err := s.FindByEmail(ctx, "ADA@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := s.Create(ctx, &models.User{Name: "Other", Email: "Ada@Example.com"})
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("clone isolates callers from store state", func(t *testing.T) {
		got, err := s.FindByID(ctx, user.ID)
		require.NoError(t, err)
		got.RoleIDs[0] = 99

		again, err := s.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, again.RoleIDs)
	})

	t.Run("update", func(t *testing.T) {
		got, err := s.FindByID(ctx, user.ID)
		require.NoError(t, err)
		got.RoleIDs = []int64{2, 3}
		require.NoError(t, s.Update(ctx, got))

		again, err := s.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3}, again.RoleIDs)
	})

	t.Run("update missing user", func(t *testing.T) {
		err := s.Update(ctx, &models.User{ID: 404, Email: "ghost@example.com"})
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		removed, err := s.Delete(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, removed.ID)

		_, err = s.FindByID(ctx, user.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		_, err = s.Delete(ctx, user.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestRoleStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewRoleStore()

	editor := &models.Role{Name: "Editor", Permissions: []string{"products:read", "products:update"}}
	viewer := &models.Role{Name: "Viewer", Permissions: []string{"products:read"}}
	require.NoError(t, s.Create(ctx, editor))
	require.NoError(t, s.Create(ctx, viewer))

	t.Run("duplicate name conflicts", func(t *testing.T) {
		err := s.Create(ctx, &models.Role{Name: "editor"})
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("find by ids skips missing", func(t *testing.T) {
		roles, err := s.FindByIDs(ctx, []int64{editor.ID, 404, viewer.ID})
		require.NoError(t, err)
		assert.Len(t, roles, 2)
	})

	t.Run("find by name", func(t *testing.T) {
		got, err := s.FindByName(ctx, "viewer")
		require.NoError(t, err)
		assert.Equal(t, viewer.ID, got.ID)
	})

	t.Run("rename collision on update", func(t *testing.T) {
		got, err := s.FindByID(ctx, viewer.ID)
		require.NoError(t, err)
		got.Name = "Editor"
		assert.ErrorIs(t, s.Update(ctx, got), sentinel.ErrConflict)
	})

	t.Run("delete", func(t *testing.T) {
		removed, err := s.Delete(ctx, viewer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Viewer", removed.Name)

		_, err = s.FindByID(ctx, viewer.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
