package handler

import (
	"go-storefront/apps/auth"
	"go-storefront/apps/order/service"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc    *service.Service
	policy *auth.Policy
}

func NewOrderHandler(svc *service.Service, policy *auth.Policy) *OrderHandler {
	return &OrderHandler{svc: svc, policy: policy}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	user, ok := currentUser(c, h.policy)
	if !ok {
		return
	}
	order, err := h.svc.Checkout(c.Request.Context(), user.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, order)
}

func (h *OrderHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.policy)
	if !ok {
		return
	}
	orders, err := h.svc.List(c.Request.Context(), user.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	user, ok := currentUser(c, h.policy)
	if !ok {
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	order, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, order)
}
