package authz

// Permission vocabulary. Permissions are opaque "<entity>:<action>" strings;
// nothing below is interpreted beyond equality, but sharing one spelling
// between route tables, seeds, and the admin UI keeps typos out of grants.
const (
	PermUsersRead   = "users:read"
	PermUsersCreate = "users:create"
	PermUsersUpdate = "users:update"
	PermUsersDelete = "users:delete"

	PermRolesRead   = "roles:read"
	PermRolesCreate = "roles:create"
	PermRolesUpdate = "roles:update"
	PermRolesDelete = "roles:delete"

	PermProductsRead   = "products:read"
	PermProductsCreate = "products:create"
	PermProductsUpdate = "products:update"
	PermProductsDelete = "products:delete"

	PermCategoriesRead   = "categories:read"
	PermCategoriesCreate = "categories:create"
	PermCategoriesUpdate = "categories:update"
	PermCategoriesDelete = "categories:delete"

	PermStorageRead   = "storage:read"
	PermStorageCreate = "storage:create"
	PermStorageUpdate = "storage:update"
	PermStorageDelete = "storage:delete"

	PermTranslationsRead   = "translations:read"
	PermTranslationsCreate = "translations:create"
	PermTranslationsUpdate = "translations:update"
	PermTranslationsDelete = "translations:delete"
)

// AllPermissions returns the full catalog, for seeding administrator roles.
func AllPermissions() []string {
	return []string{
		PermUsersRead, PermUsersCreate, PermUsersUpdate, PermUsersDelete,
		PermRolesRead, PermRolesCreate, PermRolesUpdate, PermRolesDelete,
		PermProductsRead, PermProductsCreate, PermProductsUpdate, PermProductsDelete,
		PermCategoriesRead, PermCategoriesCreate, PermCategoriesUpdate, PermCategoriesDelete,
		PermStorageRead, PermStorageCreate, PermStorageUpdate, PermStorageDelete,
		PermTranslationsRead, PermTranslationsCreate, PermTranslationsUpdate, PermTranslationsDelete,
	}
}
