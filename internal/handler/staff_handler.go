package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sienep-api/internal/models"
	"github.com/noah-isme/sienep-api/internal/service"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
	"github.com/noah-isme/sienep-api/pkg/response"
)

// StaffHandler exposes staff endpoints.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List godoc
// @Summary List staff members
// @Tags Staff
// @Produce json
// @Param role query string false "Filter by role name"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	staff, err := h.staff.List(c.Request.Context(), c.Query("role"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff, nil)
}

// Get godoc
// @Summary Get staff detail
// @Tags Staff
// @Produce json
// @Param id path int true "Staff ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /staff/{id} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	member, err := h.staff.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Create godoc
// @Summary Register a staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body models.CreateStaffRequest true "Staff payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req models.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	member, err := h.staff.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Update godoc
// @Summary Update a staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path int true "Staff ID"
// @Param payload body models.UpdateStaffRequest true "Staff payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /staff/{id} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	member, err := h.staff.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// AssignRole godoc
// @Summary Assign a different role
// @Tags Staff
// @Accept json
// @Param id path int true "Staff ID"
// @Param payload body models.AssignRoleRequest true "Role payload"
// @Success 204
// @Security BearerAuth
// @Router /staff/{id}/role [put]
func (h *StaffHandler) AssignRole(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.staff.AssignRole(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Deactivate a staff member
// @Tags Staff
// @Param id path int true "Staff ID"
// @Success 204
// @Security BearerAuth
// @Router /staff/{id} [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.staff.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
