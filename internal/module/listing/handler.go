package listing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/middleware"
	"github.com/bazarche/bazarche/internal/pkg"
)

// ListingHandler handles the public feed, listing detail, and the
// authenticated listing mutations.
type ListingHandler struct {
	feed *FeedService
	svc  domain.ListingService
}

// NewListingHandler creates a ListingHandler.
func NewListingHandler(feed *FeedService, svc domain.ListingService) *ListingHandler {
	return &ListingHandler{feed: feed, svc: svc}
}

// Home handles GET /. It serves the first (or requested) feed page.
func (h *ListingHandler) Home(c *gin.Context) {
	spec := parseFilterSpec(c)
	payload, err := h.feed.FeedJSON(c.Request.Context(), spec, requestLocale(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// LoadMore handles GET /api/v1/load-more. Unlike the other endpoints it never
// returns an error status: infinite-scroll clients treat any non-200 as a
// broken page, so failures come back as an empty page with an error field.
func (h *ListingHandler) LoadMore(c *gin.Context) {
	spec := parseFilterSpec(c)
	payload, err := h.feed.FeedJSON(c.Request.Context(), spec, requestLocale(c))
	if err != nil {
		c.JSON(http.StatusOK, FeedPage{
			Products: []any{},
			HasNext:  false,
			Error:    "failed to load products",
		})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Detail handles GET /api/v1/products/:id. Only approved listings are served.
func (h *ListingHandler) Detail(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	payload, err := h.feed.DetailJSON(c.Request.Context(), id, requestLocale(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Count handles GET /api/v1/products/count.
func (h *ListingHandler) Count(c *gin.Context) {
	total, err := h.feed.TotalApproved(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, gin.H{"total": total})
}

// Create handles POST /api/v1/products.
func (h *ListingHandler) Create(c *gin.Context) {
	var req CreateListingRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	var ownerID *uint
	if id := middleware.AuthUserID(c); id != 0 {
		ownerID = &id
	}

	created, err := h.svc.CreateListing(c.Request.Context(), ownerID, req.toInput())
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

// Update handles PUT /api/v1/products/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	var req UpdateListingRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	actorID := middleware.AuthUserID(c)
	if actorID == 0 {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	updated, err := h.svc.UpdateListing(c.Request.Context(), id, actorID, middleware.IsAdmin(c), req.toInput())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, updated)
}

// Delete handles DELETE /api/v1/products/:id.
func (h *ListingHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	actorID := middleware.AuthUserID(c)
	if actorID == 0 {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	if err := h.svc.DeleteListing(c.Request.Context(), id, actorID, middleware.IsAdmin(c)); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// ManageList handles GET /api/v1/manage/products (moderators only).
func (h *ListingHandler) ManageList(c *gin.Context) {
	req := pkg.ParsePageRequest(c)

	result, err := h.svc.ListListings(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Approve handles POST /api/v1/manage/products/:id/approve (moderators only).
func (h *ListingHandler) Approve(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	if err := h.svc.ApproveListing(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// parseFilterSpec extracts the feed query parameters. Malformed numeric
// values are treated as absent rather than erroring; the feed is a public
// surface hit by arbitrary crawlers.
func parseFilterSpec(c *gin.Context) domain.FilterSpec {
	spec := domain.FilterSpec{
		Query:      c.Query("q"),
		PriceRange: c.Query("price_range"),
		Sort:       c.Query("sort"),
		Page:       1,
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		spec.Page = page
	}
	spec.CategoryID = parseUintParam(c.Query("category"))
	// city_id is the canonical parameter; city is kept as an alias.
	spec.CityID = parseUintParam(c.Query("city_id"))
	if spec.CityID == nil {
		spec.CityID = parseUintParam(c.Query("city"))
	}
	spec.TagID = parseUintParam(c.Query("tag"))

	return spec
}

func parseUintParam(raw string) *uint {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return nil
	}
	id := uint(v)
	return &id
}

// requestLocale resolves the display language from the lang query parameter,
// falling back to the Accept-Language header's first tag.
func requestLocale(c *gin.Context) domain.Locale {
	if lang := c.Query("lang"); lang != "" {
		return domain.ParseLocale(lang)
	}
	header := c.GetHeader("Accept-Language")
	if header == "" {
		return domain.DefaultLocale
	}
	primary := header
	for i, r := range header {
		if r == ',' || r == ';' || r == '-' {
			primary = header[:i]
			break
		}
	}
	return domain.ParseLocale(primary)
}

// parseID extracts and validates the :id path parameter.
func parseID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

var errInvalidID = errors.New("invalid id")
