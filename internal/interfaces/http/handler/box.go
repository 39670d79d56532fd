package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dashboardapp "github.com/openbiz/backend/internal/application/dashboard"
	"github.com/openbiz/backend/internal/domain/identity"
)

// BoxService persists dashboard layouts for BoxHandler
type BoxService interface {
	Handle(ctx context.Context, actor identity.Actor, req dashboardapp.BoxRequest) (*dashboardapp.BoxResult, error)
	GetLayout(ctx context.Context, actor identity.Actor, zone int) (*dashboardapp.LayoutResponse, error)
}

// BoxForm holds the fields posted by the dashboard. Fields are read from the
// query string or the form body.
type BoxForm struct {
	BoxID    int64  `form:"boxid" binding:"omitempty,min=0"`
	BoxOrder string `form:"boxorder" binding:"max=4000"`
	Zone     string `form:"zone"`
	UserID   string `form:"userid"`
	Closing  bool   `form:"closing"`
}

// BoxHandler handles the dashboard box ordering endpoint
type BoxHandler struct {
	BaseHandler
	service BoxService
}

// NewBoxHandler creates a new BoxHandler
func NewBoxHandler(service BoxService) *BoxHandler {
	return &BoxHandler{service: service}
}

// Update inserts and reorders boxes of a zone.
// POST /ajax/box
func (h *BoxHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var form BoxForm
	if err := c.ShouldBind(&form); err != nil {
		h.BindError(c, err)
		return
	}

	req := dashboardapp.BoxRequest{
		BoxID:    form.BoxID,
		BoxOrder: form.BoxOrder,
		Closing:  form.Closing,
	}
	if form.Zone != "" {
		zone, err := strconv.Atoi(form.Zone)
		if err != nil {
			h.BadRequest(c, "Invalid zone")
			return
		}
		req.Zone = &zone
	}
	if form.UserID != "" {
		userID, err := uuid.Parse(form.UserID)
		if err != nil {
			h.HandleError(c, dashboardapp.ErrBadUserID)
			return
		}
		req.UserID = userID
	}

	result, err := h.service.Handle(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Layout returns the caller's saved layout of a zone.
// GET /ajax/box?zone=
func (h *BoxHandler) Layout(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	zone, err := strconv.Atoi(c.Query("zone"))
	if err != nil {
		h.BadRequest(c, "Invalid zone")
		return
	}

	layout, err := h.service.GetLayout(c.Request.Context(), actor, zone)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, layout)
}
