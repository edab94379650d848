package handler

import (
	"go-storefront/apps/auth"
	"go-storefront/apps/cart/service"
	"go-storefront/apps/gateway/middleware"
	usermodel "go-storefront/apps/user/model"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID uint `json:"product_id" form:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" form:"quantity" binding:"required,min=1"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" form:"quantity" binding:"required,min=1"`
}

type CartHandler struct {
	svc    *service.Service
	policy *auth.Policy
}

func NewCartHandler(svc *service.Service, policy *auth.Policy) *CartHandler {
	return &CartHandler{svc: svc, policy: policy}
}

func (h *CartHandler) Get(c *gin.Context) {
	user, ok := currentUser(c, h.policy)
	if !ok {
		return
	}
	cart, err := h.svc.Get(c.Request.Context(), user.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	user, ok := currentUser(c, h.policy)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, bindError(err))
		return
	}
	cart, err := h.svc.Add(c.Request.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	user, ok := currentUser(c, h.policy)
	if !ok {
		return
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req quantityRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, bindError(err))
		return
	}
	cart, err := h.svc.SetQuantity(c.Request.Context(), user.ID, productID, req.Quantity)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	user, ok := currentUser(c, h.policy)
	if !ok {
		return
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	cart, err := h.svc.Remove(c.Request.Context(), user.ID, productID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *CartHandler) Clear(c *gin.Context) {
	user, ok := currentUser(c, h.policy)
	if !ok {
		return
	}
	if err := h.svc.Clear(c.Request.Context(), user.ID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

func currentUser(c *gin.Context, policy *auth.Policy) (*usermodel.User, bool) {
	user, err := policy.RequireUser(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		response.Fail(c, err)
		return nil, false
	}
	return user, true
}
