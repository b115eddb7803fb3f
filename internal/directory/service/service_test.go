package service

//go:generate mockgen -source=../store/store.go -destination=mocks/mocks.go -package=mocks UserStore,RoleStore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"backoffice/internal/authz"
	"backoffice/internal/directory/models"
	"backoffice/internal/directory/service/mocks"
	"backoffice/internal/directory/store/memory"
	"backoffice/internal/events"
	dErrors "backoffice/pkg/domain-errors"
)

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.published = append(p.published, event)
}

func (p *recordingPublisher) names() []string {
	out := make([]string, 0, len(p.published))
	for _, e := range p.published {
		out = append(out, e.Name())
	}
	return out
}

// newTestService wires memory stores with one seeded role and returns the
// seeded role id.
func newTestService(t *testing.T) (*Service, *recordingPublisher, int64) {
	t.Helper()
	users := memory.NewUserStore()
	roles := memory.NewRoleStore()
	bus := &recordingPublisher{}

	role := &models.Role{Name: "Editor", Permissions: []string{authz.PermUsersRead, authz.PermUsersUpdate}}
	require.NoError(t, roles.Create(context.Background(), role))

	return New(users, roles, bus), bus, role.ID
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and publishes", func(t *testing.T) {
		svc, bus, roleID := newTestService(t)

		user, err := svc.CreateUser(ctx, CreateUserInput{
			Name:    "  Ada Lovelace  ",
			Email:   "Ada@Example.COM",
			RoleIDs: []int64{roleID, roleID},
		})
		require.NoError(t, err)
		assert.Positive(t, user.ID)
		assert.Equal(t, "Ada Lovelace", user.Name)
		assert.Equal(t, "ada@example.com", user.Email, "emails are stored lowercased")
		assert.Equal(t, []int64{roleID}, user.RoleIDs, "duplicate role ids collapse")

		require.Len(t, bus.published, 1)
		assert.Equal(t, events.UserCreated{UserID: user.ID}, bus.published[0])
	})

	t.Run("rejects short name", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		_, err := svc.CreateUser(ctx, CreateUserInput{Name: " a ", Email: "a@example.com"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Empty(t, bus.published)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		for _, email := range []string{"", "no-at-sign", "a@b", "two@@example.com", "spaces in@example.com"} {
			_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ada", Email: email})
			require.Error(t, err, email)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), email)
		}
		assert.Empty(t, bus.published)
	})

	t.Run("rejects unknown role id", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ada", Email: "ada@example.com", RoleIDs: []int64{999}})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Empty(t, bus.published)
	})

	t.Run("rejects duplicate email regardless of case", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ada", Email: "ada@example.com"})
		require.NoError(t, err)

		_, err = svc.CreateUser(ctx, CreateUserInput{Name: "Imposter", Email: "ADA@example.com"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Len(t, bus.published, 1, "only the first create publishes")
	})

	t.Run("store failure wraps as internal and publishes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUsers := mocks.NewMockUserStore(ctrl)
		mockRoles := mocks.NewMockRoleStore(ctrl)
		bus := &recordingPublisher{}
		svc := New(mockUsers, mockRoles, bus)

		mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ada", Email: "ada@example.com"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.Empty(t, bus.published)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and publishes", func(t *testing.T) {
		svc, bus, roleID := newTestService(t)

		created, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ada", Email: "ada@example.com"})
		require.NoError(t, err)

		updated, err := svc.UpdateUser(ctx, created.ID, UpdateUserInput{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			RoleIDs: []int64{roleID},
		})
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", updated.Name)
		assert.Equal(t, []int64{roleID}, updated.RoleIDs)

		assert.Equal(t, []string{events.UserCreatedName, events.UserUpdatedName}, bus.names())
	})

	t.Run("missing user", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		_, err := svc.UpdateUser(ctx, 404, UpdateUserInput{Name: "Ada", Email: "ada@example.com"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
		assert.Empty(t, bus.published)
	})

	t.Run("email collision with another user", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ada", Email: "ada@example.com"})
		require.NoError(t, err)
		grace, err := svc.CreateUser(ctx, CreateUserInput{Name: "Grace", Email: "grace@example.com"})
		require.NoError(t, err)

		_, err = svc.UpdateUser(ctx, grace.ID, UpdateUserInput{Name: "Grace", Email: "ada@example.com"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, []string{events.UserCreatedName, events.UserCreatedName}, bus.names())
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and publishes", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		created, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ada", Email: "ada@example.com"})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteUser(ctx, created.ID))
		assert.Equal(t, events.UserRemoved{UserID: created.ID}, bus.published[len(bus.published)-1])

		_, err = svc.GetUser(ctx, created.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("missing user", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		err := svc.DeleteUser(ctx, 404)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
		assert.Empty(t, bus.published)
	})
}

func TestCreateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and publishes", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		role, err := svc.CreateRole(ctx, CreateRoleInput{
			Name:        " Auditor ",
			Permissions: []string{authz.PermUsersRead, authz.PermUsersRead, authz.PermRolesRead},
		})
		require.NoError(t, err)
		assert.Equal(t, "Auditor", role.Name)
		assert.Equal(t, []string{authz.PermUsersRead, authz.PermRolesRead}, role.Permissions)
		assert.Equal(t, []string{events.RoleCreatedName}, bus.names())
	})

	t.Run("rejects unknown permission", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		_, err := svc.CreateRole(ctx, CreateRoleInput{Name: "Auditor", Permissions: []string{"users:frobnicate"}})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Empty(t, bus.published)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		_, err := svc.CreateRole(ctx, CreateRoleInput{Name: "editor"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Empty(t, bus.published)
	})
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and publishes", func(t *testing.T) {
		svc, bus, roleID := newTestService(t)

		role, err := svc.UpdateRole(ctx, roleID, UpdateRoleInput{
			Name:        "Editor",
			Permissions: []string{authz.PermUsersRead},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{authz.PermUsersRead}, role.Permissions)
		assert.Equal(t, []string{events.RoleUpdatedName}, bus.names())
	})

	t.Run("rename onto existing role", func(t *testing.T) {
		svc, bus, roleID := newTestService(t)

		_, err := svc.CreateRole(ctx, CreateRoleInput{Name: "Auditor"})
		require.NoError(t, err)
		bus.published = nil

		_, err = svc.UpdateRole(ctx, roleID, UpdateRoleInput{Name: "AUDITOR"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Empty(t, bus.published)
	})

	t.Run("missing role", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.UpdateRole(ctx, 404, UpdateRoleInput{Name: "Ghost"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestDeleteRole(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and publishes", func(t *testing.T) {
		svc, bus, roleID := newTestService(t)

		require.NoError(t, svc.DeleteRole(ctx, roleID))
		assert.Equal(t, []string{events.RoleRemovedName}, bus.names())

		_, err := svc.GetRole(ctx, roleID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("missing role", func(t *testing.T) {
		svc, bus, _ := newTestService(t)

		err := svc.DeleteRole(ctx, 404)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
		assert.Empty(t, bus.published)
	})
}

func TestListOperations(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, CreateUserInput{Name: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	roles, err := svc.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}
