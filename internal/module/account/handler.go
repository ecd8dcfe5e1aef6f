package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/middleware"
	"github.com/bazarche/bazarche/internal/pkg"
)

// AccountHandler handles registration, login, and the current-user endpoint.
type AccountHandler struct {
	svc  domain.AccountService
	repo domain.UserRepository
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(svc domain.AccountService, repo domain.UserRepository) *AccountHandler {
	return &AccountHandler{svc: svc, repo: repo}
}

// Register handles POST /api/v1/auth/register.
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    user,
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, token)
}

// Me handles GET /api/v1/auth/me (authenticated).
func (h *AccountHandler) Me(c *gin.Context) {
	id := middleware.AuthUserID(c)
	if id == 0 {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, user)
}
