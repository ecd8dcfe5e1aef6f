package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering business module.
// api is the versioned API group; root is the bare engine group for the few
// top-level routes (the feed at "/").
type Module interface {
	RegisterRoutes(api *gin.RouterGroup, root *gin.RouterGroup)
}
