package taxonomy

import "github.com/gin-gonic/gin"

// TaxonomyModule wires the taxonomy routes into the router.
type TaxonomyModule struct {
	handler      *TaxonomyHandler
	requireAuth  gin.HandlerFunc
	requireAdmin gin.HandlerFunc
}

// NewModule creates a TaxonomyModule.
func NewModule(h *TaxonomyHandler, requireAuth, requireAdmin gin.HandlerFunc) *TaxonomyModule {
	if h == nil {
		panic("taxonomy.NewModule: handler must not be nil")
	}
	if requireAuth == nil || requireAdmin == nil {
		panic("taxonomy.NewModule: auth middleware must not be nil")
	}
	return &TaxonomyModule{handler: h, requireAuth: requireAuth, requireAdmin: requireAdmin}
}

// RegisterRoutes registers the public taxonomy lists and the moderator
// category mutations.
func (m *TaxonomyModule) RegisterRoutes(api *gin.RouterGroup, root *gin.RouterGroup) {
	api.GET("/categories", m.handler.Categories)
	api.GET("/cities", m.handler.Cities)
	api.GET("/tags", m.handler.Tags)

	manage := api.Group("/manage/categories", m.requireAuth, m.requireAdmin)
	manage.POST("", m.handler.CreateCategory)
	manage.PUT("/:id", m.handler.UpdateCategory)
	manage.DELETE("/:id", m.handler.DeleteCategory)
}
