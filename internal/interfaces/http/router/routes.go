package router

import (
	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/interfaces/http/handler"
	"github.com/openbiz/backend/internal/interfaces/http/middleware"
)

// PublicPaths are served without a token, relative to the API prefix
var PublicPaths = []string{"/auth/login", "/system/info"}

// Handlers are the HTTP handlers mounted by APIGroups
type Handlers struct {
	Auth             *handler.AuthHandler
	SupplierProposal *handler.SupplierProposalHandler
	Box              *handler.BoxHandler
	Document         *handler.DocumentHandler
	UIDoc            *handler.UIDocHandler
	System           *handler.SystemHandler
}

// APIGroups builds the domain groups of the API. Permission checks that do
// not depend on the target record happen here; the services check the rest.
func APIGroups(h Handlers) []RouteRegistrar {
	auth := NewDomainGroup("auth", "/auth").
		POST("/login", h.Auth.Login).
		GET("/me", h.Auth.Me)

	sp := h.SupplierProposal
	procurement := NewDomainGroup("procurement", "/supplier-proposals").
		GET("", sp.List).
		POST("", sp.Create).
		POST("/specimen", sp.Specimen).
		GET("/ref/:ref", sp.GetByRef).
		GET("/:id", sp.GetByID).
		GET("/:id/info", sp.Info).
		DELETE("/:id", sp.Delete).
		PUT("/:id/delivery-date", sp.SetDeliveryDate).
		POST("/:id/validate", sp.Validate).
		POST("/:id/reopen", sp.Reopen).
		POST("/:id/close", sp.Close).
		POST("/:id/classify", sp.Classify)
	procurement.Group("procurement-lines", "/:id/lines").
		POST("", sp.AddLine).
		PUT("/:line_id", sp.UpdateLine).
		DELETE("/:line_id", sp.DeleteLine)

	dashboard := NewDomainGroup("dashboard", "/ajax").
		GET("/box", h.Box.Layout).
		POST("/box", h.Box.Update)

	documents := NewDomainGroup("documents", "/documents").
		Use(middleware.DenyExternal(), middleware.RequirePermission(identity.PermDocumentMerge)).
		POST("/merge", h.Document.Merge).
		GET("/file", h.Document.Download)

	admin := NewDomainGroup("admin", "/admin").
		Use(middleware.DenyExternal())
	admin.Group("uidoc", "/uidoc").
		GET("/icons", h.UIDoc.Icons)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.Info)

	return []RouteRegistrar{auth, procurement, dashboard, documents, admin, system}
}

// PublicURLs returns PublicPaths under the API prefix, for JWTConfig.SkipPaths
func (r *Router) PublicURLs() []string {
	out := make([]string, len(PublicPaths))
	for i, p := range PublicPaths {
		out[i] = r.Prefix() + p
	}
	return out
}
