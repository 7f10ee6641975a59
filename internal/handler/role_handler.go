package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sienep-api/internal/models"
	"github.com/noah-isme/sienep-api/internal/service"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
	"github.com/noah-isme/sienep-api/pkg/response"
)

// RoleHandler exposes role and permission endpoints.
type RoleHandler struct {
	roles *service.RoleService
}

// NewRoleHandler constructs RoleHandler.
func NewRoleHandler(roles *service.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List godoc
// @Summary List roles with their permission sets
// @Tags Roles
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roles, nil)
}

// Get godoc
// @Summary Get a role
// @Tags Roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	role, err := h.roles.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, role, nil)
}

// Create godoc
// @Summary Create a role
// @Tags Roles
// @Accept json
// @Produce json
// @Param payload body models.CreateRoleRequest true "Role payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	role, err := h.roles.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, role)
}

// Update godoc
// @Summary Update a role and replace its permission set
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path int true "Role ID"
// @Param payload body models.CreateRoleRequest true "Role payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	role := &models.Role{ID: id, Name: req.Name}
	for _, permID := range req.PermissionIDs {
		role.Permissions = append(role.Permissions, models.Permission{ID: permID})
	}
	if err := h.roles.Update(c.Request.Context(), role); err != nil {
		response.Error(c, err)
		return
	}
	updated, err := h.roles.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Delete godoc
// @Summary Delete a role not held by any staff member
// @Tags Roles
// @Param id path int true "Role ID"
// @Success 204
// @Security BearerAuth
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.roles.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddPermission godoc
// @Summary Attach a permission to a role
// @Tags Roles
// @Param id path int true "Role ID"
// @Param permissionId path int true "Permission ID"
// @Success 204
// @Security BearerAuth
// @Router /roles/{id}/permissions/{permissionId} [put]
func (h *RoleHandler) AddPermission(c *gin.Context) {
	roleID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	permissionID, err := strconv.ParseInt(c.Param("permissionId"), 10, 64)
	if err != nil || permissionID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid permission id"))
		return
	}
	if err := h.roles.AddPermission(c.Request.Context(), roleID, permissionID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RemovePermission godoc
// @Summary Detach a permission from a role
// @Tags Roles
// @Param id path int true "Role ID"
// @Param permissionId path int true "Permission ID"
// @Success 204
// @Security BearerAuth
// @Router /roles/{id}/permissions/{permissionId} [delete]
func (h *RoleHandler) RemovePermission(c *gin.Context) {
	roleID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	permissionID, err := strconv.ParseInt(c.Param("permissionId"), 10, 64)
	if err != nil || permissionID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid permission id"))
		return
	}
	if err := h.roles.RemovePermission(c.Request.Context(), roleID, permissionID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListPermissions godoc
// @Summary List the permission catalog
// @Tags Roles
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.roles.ListPermissions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, permissions, nil)
}

// CreatePermission godoc
// @Summary Add a permission to the catalog
// @Tags Roles
// @Accept json
// @Produce json
// @Param payload body models.CreatePermissionRequest true "Permission payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /permissions [post]
func (h *RoleHandler) CreatePermission(c *gin.Context) {
	var req models.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	permission, err := h.roles.CreatePermission(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, permission)
}

// DeletePermission godoc
// @Summary Remove a permission from the catalog
// @Tags Roles
// @Param id path int true "Permission ID"
// @Success 204
// @Security BearerAuth
// @Router /permissions/{id} [delete]
func (h *RoleHandler) DeletePermission(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.roles.DeletePermission(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
