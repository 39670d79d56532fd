package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procurementapp "github.com/openbiz/backend/internal/application/procurement"
	"github.com/openbiz/backend/internal/domain/identity"
)

// SupplierProposalService is the proposal lifecycle used by SupplierProposalHandler
type SupplierProposalService interface {
	Create(ctx context.Context, actor identity.Actor, req procurementapp.CreateSupplierProposalRequest) (*procurementapp.SupplierProposalResponse, error)
	CreateSpecimen(ctx context.Context, actor identity.Actor, supplierID uuid.UUID) (*procurementapp.SupplierProposalResponse, error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*procurementapp.SupplierProposalResponse, error)
	GetByRef(ctx context.Context, actor identity.Actor, ref string) (*procurementapp.SupplierProposalResponse, error)
	List(ctx context.Context, actor identity.Actor, f procurementapp.ListFilter) ([]procurementapp.SupplierProposalResponse, int64, error)
	AddLine(ctx context.Context, actor identity.Actor, id uuid.UUID, req procurementapp.LineRequest) (*procurementapp.LineResponse, error)
	UpdateLine(ctx context.Context, actor identity.Actor, id, lineID uuid.UUID, req procurementapp.LineRequest) (*procurementapp.SupplierProposalResponse, error)
	DeleteLine(ctx context.Context, actor identity.Actor, id, lineID uuid.UUID) (*procurementapp.SupplierProposalResponse, error)
	SetDeliveryDate(ctx context.Context, actor identity.Actor, id uuid.UUID, date *time.Time) (*procurementapp.SupplierProposalResponse, error)
	Validate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*procurementapp.SupplierProposalResponse, error)
	Reopen(ctx context.Context, actor identity.Actor, id uuid.UUID) (*procurementapp.SupplierProposalResponse, error)
	Close(ctx context.Context, actor identity.Actor, id uuid.UUID, req procurementapp.CloseRequest) (*procurementapp.SupplierProposalResponse, error)
	Classify(ctx context.Context, actor identity.Actor, id uuid.UUID) (*procurementapp.SupplierProposalResponse, error)
	Info(ctx context.Context, actor identity.Actor, id uuid.UUID) (*procurementapp.InfoResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
}

// SpecimenRequest selects the supplier shown on a specimen proposal
type SpecimenRequest struct {
	SupplierID uuid.UUID `json:"supplier_id" binding:"required"`
}

// SupplierProposalHandler handles supplier price request endpoints
type SupplierProposalHandler struct {
	BaseHandler
	service SupplierProposalService
}

// NewSupplierProposalHandler creates a new SupplierProposalHandler
func NewSupplierProposalHandler(service SupplierProposalService) *SupplierProposalHandler {
	return &SupplierProposalHandler{service: service}
}

// List returns a page of proposals.
// GET /supplier-proposals
func (h *SupplierProposalHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter procurementapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	proposals, total, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, proposals, total, filter.Page, filter.PageSize)
}

// Create creates a draft proposal.
// POST /supplier-proposals
func (h *SupplierProposalHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req procurementapp.CreateSupplierProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	proposal, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, proposal)
}

// Specimen builds an unsaved sample proposal for template previews.
// POST /supplier-proposals/specimen
func (h *SupplierProposalHandler) Specimen(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req SpecimenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	proposal, err := h.service.CreateSpecimen(c.Request.Context(), actor, req.SupplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// GetByID returns a proposal.
// GET /supplier-proposals/:id
func (h *SupplierProposalHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	proposal, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// GetByRef returns a proposal by its reference.
// GET /supplier-proposals/ref/:ref
func (h *SupplierProposalHandler) GetByRef(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	proposal, err := h.service.GetByRef(c.Request.Context(), actor, c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Info returns the audit dates and authors of a proposal.
// GET /supplier-proposals/:id/info
func (h *SupplierProposalHandler) Info(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	info, err := h.service.Info(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// AddLine appends a line to a draft.
// POST /supplier-proposals/:id/lines
func (h *SupplierProposalHandler) AddLine(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req procurementapp.LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	line, err := h.service.AddLine(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, line)
}

// UpdateLine changes a line of a draft.
// PUT /supplier-proposals/:id/lines/:line_id
func (h *SupplierProposalHandler) UpdateLine(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "line_id")
	if !ok {
		return
	}
	var req procurementapp.LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	proposal, err := h.service.UpdateLine(c.Request.Context(), actor, id, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// DeleteLine removes a line of a draft.
// DELETE /supplier-proposals/:id/lines/:line_id
func (h *SupplierProposalHandler) DeleteLine(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "line_id")
	if !ok {
		return
	}

	proposal, err := h.service.DeleteLine(c.Request.Context(), actor, id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// SetDeliveryDate sets or clears the expected delivery date.
// PUT /supplier-proposals/:id/delivery-date
func (h *SupplierProposalHandler) SetDeliveryDate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req procurementapp.DeliveryDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	proposal, err := h.service.SetDeliveryDate(c.Request.Context(), actor, id, req.DeliveryDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Validate validates a draft.
// POST /supplier-proposals/:id/validate
func (h *SupplierProposalHandler) Validate(c *gin.Context) {
	h.transition(c, h.service.Validate)
}

// Reopen brings a validated or closed proposal back.
// POST /supplier-proposals/:id/reopen
func (h *SupplierProposalHandler) Reopen(c *gin.Context) {
	h.transition(c, h.service.Reopen)
}

// Classify marks a signed proposal as billed.
// POST /supplier-proposals/:id/classify
func (h *SupplierProposalHandler) Classify(c *gin.Context) {
	h.transition(c, h.service.Classify)
}

// Close signs or refuses a validated proposal.
// POST /supplier-proposals/:id/close
func (h *SupplierProposalHandler) Close(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req procurementapp.CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	proposal, err := h.service.Close(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Delete removes a proposal.
// DELETE /supplier-proposals/:id
func (h *SupplierProposalHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *SupplierProposalHandler) transition(c *gin.Context,
	fn func(context.Context, identity.Actor, uuid.UUID) (*procurementapp.SupplierProposalResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	proposal, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}
