package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	payrollapp "github.com/hrms/backend/internal/application/payroll"
	"github.com/hrms/backend/internal/interfaces/http/middleware"
)

// PayrollHandler exposes the compensation endpoints.
type PayrollHandler struct {
	BaseHandler
	compensationService *payrollapp.CompensationService
}

func NewPayrollHandler(compensationService *payrollapp.CompensationService) *PayrollHandler {
	return &PayrollHandler{compensationService: compensationService}
}

// CompensationInputRequest is one pay component. A null amount keeps the
// stored value for an existing (employee, type) entry and means zero for a
// new one.
type CompensationInputRequest struct {
	CompensationType string           `json:"compensation_type" binding:"required,min=1,max=200"`
	Amount           *decimal.Decimal `json:"amount"`
}

type SaveCompensationsRequest struct {
	Compensations []CompensationInputRequest `json:"compensations" binding:"required,min=1,dive"`
}

// employeeID parses the :id path parameter, replying 400 on malformed input.
func (h *PayrollHandler) employeeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return uuid.Nil, false
	}
	return id, true
}

// SaveCompensations batch-upserts one employee's pay components.
func (h *PayrollHandler) SaveCompensations(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	userID, ok := h.employeeID(c)
	if !ok {
		return
	}

	var req SaveCompensationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	appReq := payrollapp.SaveCompensationsRequest{
		Compensations: make([]payrollapp.CompensationInput, 0, len(req.Compensations)),
	}
	for _, input := range req.Compensations {
		appReq.Compensations = append(appReq.Compensations, payrollapp.CompensationInput{
			CompensationType: input.CompensationType,
			Amount:           input.Amount,
		})
	}

	saved, err := h.compensationService.Save(c.Request.Context(), organizationID, userID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, saved)
}

// GetEmployeePayroll returns one employee's components, zero-filled against
// the organization's known compensation types.
func (h *PayrollHandler) GetEmployeePayroll(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	userID, ok := h.employeeID(c)
	if !ok {
		return
	}

	payroll, err := h.compensationService.GetEmployeePayroll(c.Request.Context(), organizationID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payroll)
}

// GetMatrix returns one page of the compensation matrix: a row per employee,
// a column per compensation type discovered in the data, and per-employee
// totals.
func (h *PayrollHandler) GetMatrix(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		h.BadRequest(c, "Invalid page parameter")
		return
	}

	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 {
		h.BadRequest(c, "Invalid per_page parameter")
		return
	}

	matrix, err := h.compensationService.BuildMatrix(c.Request.Context(), organizationID, page, perPage)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, matrix)
}
