package taxonomy

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/pkg"
)

// TaxonomyHandler handles the public taxonomy lists and the moderator
// category mutations.
type TaxonomyHandler struct {
	svc domain.TaxonomyService
}

// NewTaxonomyHandler creates a TaxonomyHandler.
func NewTaxonomyHandler(svc domain.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc}
}

// Categories handles GET /api/v1/categories.
func (h *TaxonomyHandler) Categories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, categories)
}

// Cities handles GET /api/v1/cities.
func (h *TaxonomyHandler) Cities(c *gin.Context) {
	cities, err := h.svc.Cities(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, cities)
}

// Tags handles GET /api/v1/tags.
func (h *TaxonomyHandler) Tags(c *gin.Context) {
	tags, err := h.svc.Tags(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, tags)
}

// CategoryRequest is the moderator input for creating a category.
type CategoryRequest struct {
	Name     LocalizedTextInput `json:"name"`
	ParentID *uint              `json:"parent_id"`
	Icon     string             `json:"icon" binding:"omitempty,max=50"`
	Order    int                `json:"order"`
}

// UpdateCategoryRequest is the moderator input for updating a category.
// The parent link is not updatable.
type UpdateCategoryRequest struct {
	Name  LocalizedTextInput `json:"name"`
	Icon  string             `json:"icon" binding:"omitempty,max=50"`
	Order int                `json:"order"`
}

// LocalizedTextInput mirrors domain.LocalizedText for request binding.
type LocalizedTextInput struct {
	FA string `json:"fa" binding:"omitempty,max=200"`
	PS string `json:"ps" binding:"omitempty,max=200"`
	EN string `json:"en" binding:"omitempty,max=200"`
}

func (t LocalizedTextInput) toDomain() domain.LocalizedText {
	return domain.LocalizedText{FA: t.FA, PS: t.PS, EN: t.EN}
}

// CreateCategory handles POST /api/v1/manage/categories.
func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	created, err := h.svc.CreateCategory(c.Request.Context(), &domain.Category{
		Name:     req.Name.toDomain(),
		ParentID: req.ParentID,
		Icon:     req.Icon,
		Order:    req.Order,
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

// UpdateCategory handles PUT /api/v1/manage/categories/:id.
func (h *TaxonomyHandler) UpdateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req UpdateCategoryRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	updated, err := h.svc.UpdateCategory(c.Request.Context(), id, req.Name.toDomain(), req.Icon, req.Order)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, updated)
}

// DeleteCategory handles DELETE /api/v1/manage/categories/:id.
func (h *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.NewAppError(domain.CodeValidation, "invalid id", nil)
	}
	return uint(id), nil
}
