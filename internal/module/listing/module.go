package listing

import "github.com/gin-gonic/gin"

// ListingModule wires the listing routes into the router.
type ListingModule struct {
	handler      *ListingHandler
	requireAuth  gin.HandlerFunc
	requireAdmin gin.HandlerFunc
}

// NewModule creates a ListingModule. requireAuth and requireAdmin guard the
// mutation and moderation routes respectively.
func NewModule(h *ListingHandler, requireAuth, requireAdmin gin.HandlerFunc) *ListingModule {
	if h == nil {
		panic("listing.NewModule: handler must not be nil")
	}
	if requireAuth == nil || requireAdmin == nil {
		panic("listing.NewModule: auth middleware must not be nil")
	}
	return &ListingModule{handler: h, requireAuth: requireAuth, requireAdmin: requireAdmin}
}

// RegisterRoutes registers the public feed, the listing API, and the
// moderation surface.
func (m *ListingModule) RegisterRoutes(api *gin.RouterGroup, root *gin.RouterGroup) {
	// Public surface. /products serves the same feed payload as the home page.
	root.GET("/", m.handler.Home)
	api.GET("/products", m.handler.Home)
	api.GET("/load-more", m.handler.LoadMore)
	api.GET("/products/count", m.handler.Count)
	api.GET("/products/:id", m.handler.Detail)

	// Authenticated mutations
	api.POST("/products", m.requireAuth, m.handler.Create)
	api.PUT("/products/:id", m.requireAuth, m.handler.Update)
	api.DELETE("/products/:id", m.requireAuth, m.handler.Delete)

	// Moderation
	manage := api.Group("/manage", m.requireAuth, m.requireAdmin)
	manage.GET("/products", m.handler.ManageList)
	manage.POST("/products/:id/approve", m.handler.Approve)
	manage.DELETE("/products/:id", m.handler.Delete)
}
