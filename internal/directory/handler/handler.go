// Package handler exposes the user and role management endpoints. Access
// rules are declared next to the routes: the guard given at construction
// turns a requirement into the middleware that enforces it.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/authz"
	"backoffice/internal/directory/models"
	"backoffice/internal/directory/service"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/requestcontext"
)

// Service defines the directory operations the handler needs.
type Service interface {
	CreateUser(ctx context.Context, in service.CreateUserInput) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, in service.UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateRole(ctx context.Context, in service.CreateRoleInput) (*models.Role, error)
	GetRole(ctx context.Context, id int64) (*models.Role, error)
	ListRoles(ctx context.Context) ([]*models.Role, error)
	UpdateRole(ctx context.Context, id int64, in service.UpdateRoleInput) (*models.Role, error)
	DeleteRole(ctx context.Context, id int64) error
}

// Guard turns an access requirement into its enforcing middleware. The router
// builds one from the permission checkpoint so this package stays free of the
// resolver wiring.
type Guard func(authz.Requirement) func(http.Handler) http.Handler

// Handler wires directory endpoints to the directory service.
type Handler struct {
	service Service
	guard   Guard
	logger  *slog.Logger
}

// New constructs a directory handler with its dependencies.
func New(service Service, guard Guard, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, guard: guard, logger: logger}
}

// Register mounts the directory endpoints. The requirement table is fixed
// here, at registration time; handlers below never re-check permissions.
func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(h.guard(authz.AllOf(authz.PermUsersRead))).Get("/", h.HandleListUsers)
		r.With(h.guard(authz.AllOf(authz.PermUsersRead))).Get("/{id}", h.HandleGetUser)
		r.With(h.guard(authz.AllOf(authz.PermUsersCreate))).Post("/", h.HandleCreateUser)
		// Editing implies seeing: update needs read as well.
		r.With(h.guard(authz.AllOf(authz.PermUsersRead, authz.PermUsersUpdate))).Put("/{id}", h.HandleUpdateUser)
		r.With(h.guard(authz.AllOf(authz.PermUsersDelete))).Delete("/{id}", h.HandleDeleteUser)
	})

	r.Route("/roles", func(r chi.Router) {
		// The role list backs both role management and the role picker on
		// the user form, so either read permission grants it.
		r.With(h.guard(authz.AnyOf(authz.PermRolesRead, authz.PermUsersRead))).Get("/", h.HandleListRoles)
		r.With(h.guard(authz.AllOf(authz.PermRolesRead))).Get("/{id}", h.HandleGetRole)
		r.With(h.guard(authz.AllOf(authz.PermRolesCreate))).Post("/", h.HandleCreateRole)
		r.With(h.guard(authz.AllOf(authz.PermRolesRead, authz.PermRolesUpdate))).Put("/{id}", h.HandleUpdateRole)
		r.With(h.guard(authz.AllOf(authz.PermRolesDelete))).Delete("/{id}", h.HandleDeleteRole)
	})

	// Authenticated-only: any valid token may ask who it belongs to.
	r.Get("/me", h.HandleMe)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid id"))
		return 0, false
	}
	return id, true
}

// HandleCreateUser handles POST /users.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.CreateUser(ctx, service.CreateUserInput{
		Name:    req.Name,
		Email:   req.Email,
		RoleIDs: req.RoleIDs,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "user created via api",
		"request_id", requestID,
		"user_id", user.ID,
		"actor_id", requestcontext.UserID(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromUser(user))
}

// HandleGetUser handles GET /users/{id}.
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromUser(user))
}

// HandleListUsers handles GET /users.
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromUsers(users))
}

// HandleUpdateUser handles PUT /users/{id}.
func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateUserRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	user, err := h.service.UpdateUser(ctx, id, service.UpdateUserInput{
		Name:    req.Name,
		Email:   req.Email,
		RoleIDs: req.RoleIDs,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromUser(user))
}

// HandleDeleteUser handles DELETE /users/{id}.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "user deleted via api",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", id,
		"actor_id", requestcontext.UserID(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateRole handles POST /roles.
func (h *Handler) HandleCreateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRoleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	role, err := h.service.CreateRole(ctx, service.CreateRoleInput{
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "role created via api",
		"request_id", requestID,
		"role_id", role.ID,
		"actor_id", requestcontext.UserID(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRole(role))
}

// HandleGetRole handles GET /roles/{id}.
func (h *Handler) HandleGetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	role, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRole(role))
}

// HandleListRoles handles GET /roles.
func (h *Handler) HandleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRoles(roles))
}

// HandleUpdateRole handles PUT /roles/{id}.
func (h *Handler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateRoleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	role, err := h.service.UpdateRole(ctx, id, service.UpdateRoleInput{
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRole(role))
}

// HandleDeleteRole handles DELETE /roles/{id}.
func (h *Handler) HandleDeleteRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRole(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "role deleted via api",
		"request_id", requestcontext.RequestID(ctx),
		"role_id", id,
		"actor_id", requestcontext.UserID(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /me: the record behind the presented token. A token
// whose user no longer exists is indistinguishable from an invalid one.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or missing token"))
		return
	}

	user, err := h.service.GetUser(ctx, userID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or missing token"))
			return
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromUser(user))
}
