package promotion

import "github.com/gin-gonic/gin"

// PromotionModule wires the promotion routes into the router.
type PromotionModule struct {
	handler      *PromotionHandler
	requireAuth  gin.HandlerFunc
	requireAdmin gin.HandlerFunc
}

// NewModule creates a PromotionModule.
func NewModule(h *PromotionHandler, requireAuth, requireAdmin gin.HandlerFunc) *PromotionModule {
	if h == nil {
		panic("promotion.NewModule: handler must not be nil")
	}
	if requireAuth == nil || requireAdmin == nil {
		panic("promotion.NewModule: auth middleware must not be nil")
	}
	return &PromotionModule{handler: h, requireAuth: requireAuth, requireAdmin: requireAdmin}
}

// RegisterRoutes registers the public and moderator promotion routes.
func (m *PromotionModule) RegisterRoutes(api *gin.RouterGroup, root *gin.RouterGroup) {
	api.GET("/promotions/current", m.handler.Current)

	manage := api.Group("/manage/promotions", m.requireAuth, m.requireAdmin)
	manage.POST("", m.handler.Create)
	manage.GET("", m.handler.List)
	manage.GET("/:id", m.handler.Get)
	manage.PUT("/:id", m.handler.Update)
	manage.DELETE("/:id", m.handler.Delete)
}
