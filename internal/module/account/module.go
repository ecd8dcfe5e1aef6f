package account

import "github.com/gin-gonic/gin"

// AccountModule wires the auth routes into the router.
type AccountModule struct {
	handler     *AccountHandler
	requireAuth gin.HandlerFunc
}

// NewModule creates an AccountModule.
func NewModule(h *AccountHandler, requireAuth gin.HandlerFunc) *AccountModule {
	if h == nil {
		panic("account.NewModule: handler must not be nil")
	}
	if requireAuth == nil {
		panic("account.NewModule: auth middleware must not be nil")
	}
	return &AccountModule{handler: h, requireAuth: requireAuth}
}

// RegisterRoutes registers the auth routes.
func (m *AccountModule) RegisterRoutes(api *gin.RouterGroup, root *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/register", m.handler.Register)
	auth.POST("/login", m.handler.Login)
	auth.GET("/me", m.requireAuth, m.handler.Me)
}
