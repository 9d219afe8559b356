package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	recruitmentapp "github.com/hrms/backend/internal/application/recruitment"
	"github.com/hrms/backend/internal/interfaces/http/middleware"
)

// StageHandler exposes the recruitment pipeline stage endpoints.
type StageHandler struct {
	BaseHandler
	stageService *recruitmentapp.StageService
}

func NewStageHandler(stageService *recruitmentapp.StageService) *StageHandler {
	return &StageHandler{stageService: stageService}
}

type CreateStageRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Priority int    `json:"priority" binding:"required"`
}

type RenameStageRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

type MoveStageRequest struct {
	Priority int `json:"priority" binding:"required"`
}

// stageID parses the :id path parameter, replying 400 on malformed input.
func (h *StageHandler) stageID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stage ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Create inserts a stage at the requested priority. Stages at or after that
// priority shift up by one to keep the sequence dense.
func (h *StageHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	stage, err := h.stageService.Create(c.Request.Context(), organizationID, recruitmentapp.CreateStageRequest{
		Name:     req.Name,
		Priority: req.Priority,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, stage)
}

// List returns the organization's stages ordered by priority, served from
// cache when one is warm.
func (h *StageHandler) List(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	stages, err := h.stageService.List(c.Request.Context(), organizationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stages)
}

// Rename changes a stage's name without touching its priority. The name must
// stay unique within the organization.
func (h *StageHandler) Rename(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	stageID, ok := h.stageID(c)
	if !ok {
		return
	}

	var req RenameStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	stage, err := h.stageService.Rename(c.Request.Context(), organizationID, stageID, recruitmentapp.RenameStageRequest{
		Name: req.Name,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stage)
}

// Move assigns the stage a new priority within [1, N]. Stages between the old
// and new positions shift by one so no gap opens.
func (h *StageHandler) Move(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	stageID, ok := h.stageID(c)
	if !ok {
		return
	}

	var req MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	stage, err := h.stageService.Move(c.Request.Context(), organizationID, stageID, recruitmentapp.MoveStageRequest{
		Priority: req.Priority,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stage)
}

// Delete removes a stage that has no applied candidates. Later stages close
// the gap the deletion leaves.
func (h *StageHandler) Delete(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	stageID, ok := h.stageID(c)
	if !ok {
		return
	}

	if err := h.stageService.Delete(c.Request.Context(), organizationID, stageID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
