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

// CaseHandler exposes case tracking endpoints for both variants.
type CaseHandler struct {
	cases   *service.CaseService
	exports *service.ExportService
	metrics *service.MetricsService
}

// NewCaseHandler constructs CaseHandler.
func NewCaseHandler(cases *service.CaseService, exports *service.ExportService, metrics *service.MetricsService) *CaseHandler {
	return &CaseHandler{cases: cases, exports: exports, metrics: metrics}
}

// List godoc
// @Summary List cases
// @Tags Cases
// @Produce json
// @Param student_id query int false "Filter by student"
// @Param category_id query int false "Filter by category"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cases [get]
func (h *CaseHandler) List(c *gin.Context) {
	if studentID, err := strconv.ParseInt(c.Query("student_id"), 10, 64); err == nil && studentID > 0 {
		records, err := h.cases.ListByStudent(c.Request.Context(), studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, records, nil)
		return
	}
	if categoryID, err := strconv.ParseInt(c.Query("category_id"), 10, 64); err == nil && categoryID > 0 {
		records, err := h.cases.ListByCategory(c.Request.Context(), categoryID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, records, nil)
		return
	}

	records, err := h.cases.ListCases(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// GetByCode godoc
// @Summary Resolve a case by display code
// @Tags Cases
// @Produce json
// @Param code path string true "Case code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cases/code/{code} [get]
func (h *CaseHandler) GetByCode(c *gin.Context) {
	record, err := h.cases.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// ListCommon godoc
// @Summary List routine cases
// @Tags Cases
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cases/common [get]
func (h *CaseHandler) ListCommon(c *gin.Context) {
	cases, err := h.cases.ListCommonCases(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cases, nil)
}

// GetCommon godoc
// @Summary Get a routine case
// @Tags Cases
// @Produce json
// @Param id path int true "Case ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cases/common/{id} [get]
func (h *CaseHandler) GetCommon(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	commonCase, err := h.cases.GetCommonCase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, commonCase, nil)
}

// CreateCommon godoc
// @Summary Open a routine case
// @Tags Cases
// @Accept json
// @Produce json
// @Param payload body models.CreateCommonCaseRequest true "Case payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /cases/common [post]
func (h *CaseHandler) CreateCommon(c *gin.Context) {
	claims, err := currentClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CreateCommonCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	commonCase, err := h.cases.CreateCommonCase(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordCaseCreated(string(models.KindCommon))
	response.Created(c, commonCase)
}

// CloneCommon godoc
// @Summary Reopen a routine case under a fresh code
// @Tags Cases
// @Produce json
// @Param id path int true "Case ID"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /cases/common/{id}/clone [post]
func (h *CaseHandler) CloneCommon(c *gin.Context) {
	claims, err := currentClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	clone, err := h.cases.CloneCommonCase(c.Request.Context(), id, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordCaseCreated(string(models.KindCommon))
	response.Created(c, clone)
}

// UpdateCommon godoc
// @Summary Update a routine case
// @Tags Cases
// @Accept json
// @Produce json
// @Param id path int true "Case ID"
// @Param payload body models.UpdateCommonCaseRequest true "Case payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cases/common/{id} [put]
func (h *CaseHandler) UpdateCommon(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateCommonCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	commonCase, err := h.cases.UpdateCommonCase(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, commonCase, nil)
}

// ListIncidents godoc
// @Summary List incidents
// @Tags Cases
// @Produce json
// @Param reporter_id query int false "Filter by reporting staff member"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cases/incidents [get]
func (h *CaseHandler) ListIncidents(c *gin.Context) {
	if reporterID, err := strconv.ParseInt(c.Query("reporter_id"), 10, 64); err == nil && reporterID > 0 {
		incidents, err := h.cases.ListIncidentsByReporter(c.Request.Context(), reporterID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, incidents, nil)
		return
	}

	incidents, err := h.cases.ListIncidents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, incidents, nil)
}

// GetIncident godoc
// @Summary Get an incident
// @Tags Cases
// @Produce json
// @Param id path int true "Case ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cases/incidents/{id} [get]
func (h *CaseHandler) GetIncident(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	incident, err := h.cases.GetIncident(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, incident, nil)
}

// CreateIncident godoc
// @Summary Report an incident
// @Tags Cases
// @Accept json
// @Produce json
// @Param payload body models.CreateIncidentRequest true "Incident payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /cases/incidents [post]
func (h *CaseHandler) CreateIncident(c *gin.Context) {
	claims, err := currentClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	incident, err := h.cases.CreateIncident(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordCaseCreated(string(models.KindIncident))
	response.Created(c, incident)
}

// UpdateIncident godoc
// @Summary Update an incident
// @Tags Cases
// @Accept json
// @Produce json
// @Param id path int true "Case ID"
// @Param payload body models.UpdateIncidentRequest true "Incident payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cases/incidents/{id} [put]
func (h *CaseHandler) UpdateIncident(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	incident, err := h.cases.UpdateIncident(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, incident, nil)
}

// UpdateComment godoc
// @Summary Update the free-text comment of a case
// @Tags Cases
// @Accept json
// @Param id path int true "Case ID"
// @Param payload body models.UpdateCaseCommentRequest true "Comment payload"
// @Success 204
// @Security BearerAuth
// @Router /cases/{id}/comment [patch]
func (h *CaseHandler) UpdateComment(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateCaseCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.cases.UpdateComment(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete a case
// @Tags Cases
// @Param id path int true "Case ID"
// @Success 204
// @Security BearerAuth
// @Router /cases/{id} [delete]
func (h *CaseHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.cases.DeleteCase(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportCSV godoc
// @Summary Export the case register as CSV
// @Tags Cases
// @Produce text/csv
// @Param student_id query int false "Filter by student"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /cases/export/csv [get]
func (h *CaseHandler) ExportCSV(c *gin.Context) {
	studentID, _ := strconv.ParseInt(c.Query("student_id"), 10, 64)
	payload, err := h.exports.CasesCSV(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="cases.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

// ExportPDF godoc
// @Summary Export the case register as PDF
// @Tags Cases
// @Produce application/pdf
// @Param student_id query int false "Filter by student"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /cases/export/pdf [get]
func (h *CaseHandler) ExportPDF(c *gin.Context) {
	studentID, _ := strconv.ParseInt(c.Query("student_id"), 10, 64)
	payload, err := h.exports.CasesPDF(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="cases.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
