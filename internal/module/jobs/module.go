package jobs

import "github.com/gin-gonic/gin"

// JobsModule wires the job and request routes into the router.
type JobsModule struct {
	handler     *JobsHandler
	requireAuth gin.HandlerFunc
}

// NewModule creates a JobsModule.
func NewModule(h *JobsHandler, requireAuth gin.HandlerFunc) *JobsModule {
	if h == nil {
		panic("jobs.NewModule: handler must not be nil")
	}
	if requireAuth == nil {
		panic("jobs.NewModule: auth middleware must not be nil")
	}
	return &JobsModule{handler: h, requireAuth: requireAuth}
}

// RegisterRoutes registers the job posting and wanted post routes.
func (m *JobsModule) RegisterRoutes(api *gin.RouterGroup, root *gin.RouterGroup) {
	api.GET("/jobs", m.handler.ListJobAds)
	api.GET("/jobs/:id", m.handler.GetJobAd)
	api.POST("/jobs", m.requireAuth, m.handler.CreateJobAd)
	api.DELETE("/jobs/:id", m.requireAuth, m.handler.DeleteJobAd)

	api.GET("/requests", m.handler.ListRequests)
	api.POST("/requests", m.requireAuth, m.handler.CreateRequest)
	api.DELETE("/requests/:id", m.requireAuth, m.handler.DeactivateRequest)
}
