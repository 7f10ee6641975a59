package models

// Permission is a leaf entity with no further relationships.
type Permission struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Role groups permissions through the role_permissions association table.
type Role struct {
	ID          int64        `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Permissions []Permission `db:"-" json:"permissions"`
}

// CreateRoleRequest is the payload for role creation and replacement.
type CreateRoleRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=64"`
	PermissionIDs []int64 `json:"permission_ids" validate:"required,min=1,dive,gt=0"`
}

// CreatePermissionRequest is the payload for extending the permission
// catalog.
type CreatePermissionRequest struct {
	Name string `json:"name" validate:"required,min=2,max=64"`
}
