package jobs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/middleware"
	"github.com/bazarche/bazarche/internal/pkg"
)

// JobAdRequest is the input for creating a job posting.
type JobAdRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Contact     string `json:"contact" binding:"required,max=100"`
	CityID      *uint  `json:"city_id"`
}

// WantedRequest is the input for creating a wanted post.
type WantedRequest struct {
	Text    string `json:"text" binding:"required"`
	Contact string `json:"contact" binding:"required,max=100"`
}

// JobsHandler handles job postings and wanted posts.
type JobsHandler struct {
	svc domain.JobsService
}

// NewJobsHandler creates a JobsHandler.
func NewJobsHandler(svc domain.JobsService) *JobsHandler {
	return &JobsHandler{svc: svc}
}

// CreateJobAd handles POST /api/v1/jobs.
func (h *JobsHandler) CreateJobAd(c *gin.Context) {
	var req JobAdRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	var ownerID *uint
	if id := middleware.AuthUserID(c); id != 0 {
		ownerID = &id
	}

	created, err := h.svc.CreateJobAd(c.Request.Context(), ownerID, &domain.JobAd{
		Title:       req.Title,
		Description: req.Description,
		Contact:     req.Contact,
		CityID:      req.CityID,
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    created,
	})
}

// GetJobAd handles GET /api/v1/jobs/:id.
func (h *JobsHandler) GetJobAd(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	ad, err := h.svc.GetJobAd(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, ad)
}

// ListJobAds handles GET /api/v1/jobs.
func (h *JobsHandler) ListJobAds(c *gin.Context) {
	req := pkg.ParsePageRequest(c)

	result, err := h.svc.ListJobAds(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// DeleteJobAd handles DELETE /api/v1/jobs/:id.
func (h *JobsHandler) DeleteJobAd(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	actorID := middleware.AuthUserID(c)
	if actorID == 0 {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	if err := h.svc.DeleteJobAd(c.Request.Context(), id, actorID, middleware.IsAdmin(c)); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// CreateRequest handles POST /api/v1/requests.
func (h *JobsHandler) CreateRequest(c *gin.Context) {
	var req WantedRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	var ownerID *uint
	if id := middleware.AuthUserID(c); id != 0 {
		ownerID = &id
	}

	created, err := h.svc.CreateRequest(c.Request.Context(), ownerID, &domain.Request{
		Text:    req.Text,
		Contact: req.Contact,
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    created,
	})
}

// DeactivateRequest handles DELETE /api/v1/requests/:id.
func (h *JobsHandler) DeactivateRequest(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	actorID := middleware.AuthUserID(c)
	if actorID == 0 {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	if err := h.svc.DeactivateRequest(c.Request.Context(), id, actorID, middleware.IsAdmin(c)); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// ListRequests handles GET /api/v1/requests.
func (h *JobsHandler) ListRequests(c *gin.Context) {
	req := pkg.ParsePageRequest(c)

	result, err := h.svc.ListRequests(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.NewAppError(domain.CodeValidation, "invalid id", nil)
	}
	return uint(id), nil
}
