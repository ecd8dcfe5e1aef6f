package promotion

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/pkg"
)

// PromotionHandler handles the public current-promotions endpoint and the
// moderator CRUD surface.
type PromotionHandler struct {
	svc  domain.PromotionService
	repo domain.PromotionRepository
	now  func() time.Time
}

// NewPromotionHandler creates a PromotionHandler.
func NewPromotionHandler(svc domain.PromotionService, repo domain.PromotionRepository) *PromotionHandler {
	return &PromotionHandler{svc: svc, repo: repo, now: time.Now}
}

// Current handles GET /api/v1/promotions/current. Location defaults to the
// home zone.
func (h *PromotionHandler) Current(c *gin.Context) {
	location := c.DefaultQuery("location", domain.PromotionLocationHome)

	var cityID *uint
	if raw := c.Query("city"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil && v > 0 {
			id := uint(v)
			cityID = &id
		}
	}

	promotions, err := h.repo.FindCurrent(c.Request.Context(), location, cityID, h.now())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, promotions)
}

// Create handles POST /api/v1/manage/promotions.
func (h *PromotionHandler) Create(c *gin.Context) {
	var req PromotionRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	created, err := h.svc.CreatePromotion(c.Request.Context(), req.toDomain())
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

// Get handles GET /api/v1/manage/promotions/:id.
func (h *PromotionHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	promotion, err := h.svc.GetPromotion(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, promotion)
}

// List handles GET /api/v1/manage/promotions.
func (h *PromotionHandler) List(c *gin.Context) {
	req := pkg.ParsePageRequest(c)

	result, err := h.svc.ListPromotions(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Update handles PUT /api/v1/manage/promotions/:id.
func (h *PromotionHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	var req PromotionRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	updated, err := h.svc.UpdatePromotion(c.Request.Context(), id, req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, updated)
}

// Delete handles DELETE /api/v1/manage/promotions/:id.
func (h *PromotionHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	if err := h.svc.DeletePromotion(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

var errInvalidID = domain.NewAppError(domain.CodeValidation, "invalid id", nil)
