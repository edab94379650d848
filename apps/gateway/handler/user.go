package handler

import (
	"strings"

	"go-storefront/apps/auth"
	"go-storefront/apps/gateway/middleware"
	"go-storefront/apps/user/model"
	"go-storefront/apps/user/service"
	"go-storefront/pkg/errs"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
	Role     string `json:"role" form:"role" binding:"omitempty,role"`
}

// loginRequest follows the OAuth2 password form: the email goes in username.
type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type UserHandler struct {
	svc    *service.Service
	policy *auth.Policy
}

func NewUserHandler(svc *service.Service, policy *auth.Policy) *UserHandler {
	return &UserHandler{svc: svc, policy: policy}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, bindError(err))
		return
	}
	user, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, errs.ErrInvalidCredentials)
		return
	}
	tokens, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, tokens)
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	token, ok := refreshTokenFrom(c)
	if !ok {
		return
	}
	out, err := h.svc.RefreshToken(c.Request.Context(), token)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, out)
}

func (h *UserHandler) AccessToken(c *gin.Context) {
	token, ok := refreshTokenFrom(c)
	if !ok {
		return
	}
	out, err := h.svc.AccessToken(c.Request.Context(), token)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, out)
}

func (h *UserHandler) List(c *gin.Context) {
	if _, err := h.policy.RequireUser(c.Request.Context(), middleware.Claims(c)); err != nil {
		response.Fail(c, err)
		return
	}
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, users)
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.policy.RequireUser(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	user, err := h.policy.RequireUser(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), user, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, deleted("User"))
}

// refreshTokenFrom takes the refresh token from the body, falling back to
// the Authorization header.
func refreshTokenFrom(c *gin.Context) (string, bool) {
	var req refreshRequest
	_ = c.ShouldBind(&req)
	if req.RefreshToken != "" {
		return req.RefreshToken, true
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
		return parts[1], true
	}
	response.Fail(c, errs.ErrMissingToken.WithMessage("refresh_token is required"))
	return "", false
}
