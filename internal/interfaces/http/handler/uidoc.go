package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openbiz/backend/internal/domain/identity"
)

// IconsRenderer renders the icon documentation page
type IconsRenderer interface {
	Render(ctx context.Context, actor identity.Actor) ([]byte, error)
}

// UIDocHandler serves the admin UI documentation pages
type UIDocHandler struct {
	BaseHandler
	icons IconsRenderer
}

// NewUIDocHandler creates a new UIDocHandler
func NewUIDocHandler(icons IconsRenderer) *UIDocHandler {
	return &UIDocHandler{icons: icons}
}

// Icons renders the icon catalog as HTML.
// GET /admin/uidoc/icons
func (h *UIDocHandler) Icons(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	page, err := h.icons.Render(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
