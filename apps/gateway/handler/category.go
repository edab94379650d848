package handler

import (
	"go-storefront/apps/auth"
	"go-storefront/apps/category/service"
	"go-storefront/apps/gateway/middleware"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	ParentID *uint  `json:"parent_id" form:"parent_id"`
}

type CategoryHandler struct {
	svc     *service.Service
	policy  *auth.Policy
	protect bool
}

// NewCategoryHandler builds the handler. When protect is set every mutation
// requires an Active seller.
func NewCategoryHandler(svc *service.Service, policy *auth.Policy, protect bool) *CategoryHandler {
	return &CategoryHandler{svc: svc, policy: policy, protect: protect}
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	category, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, category)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	var req categoryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, bindError(err))
		return
	}
	category, err := h.svc.Create(c.Request.Context(), service.Input{Name: req.Name, ParentID: req.ParentID})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req categoryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, bindError(err))
		return
	}
	category, err := h.svc.Update(c.Request.Context(), id, service.Input{Name: req.Name, ParentID: req.ParentID})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, deleted("Category"))
}

func (h *CategoryHandler) authorize(c *gin.Context) bool {
	if !h.protect {
		return true
	}
	if _, err := h.policy.RequireSeller(c.Request.Context(), middleware.Claims(c)); err != nil {
		response.Fail(c, err)
		return false
	}
	return true
}
