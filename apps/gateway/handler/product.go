package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go-storefront/apps/auth"
	"go-storefront/apps/gateway/middleware"
	"go-storefront/apps/product/service"
	usermodel "go-storefront/apps/user/model"
	"go-storefront/pkg/errs"
	"go-storefront/pkg/money"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type listQuery struct {
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"pageSize,default=20"`
	CategoryID *uint  `form:"categoryId"`
	MinPrice   string `form:"minPrice"`
	MaxPrice   string `form:"maxPrice"`
	InStock    *bool  `form:"inStock"`
	SellerID   *uint  `form:"sellerId"`
}

func (q listQuery) filters() (service.Filters, error) {
	f := service.Filters{
		Page:       q.Page,
		PageSize:   q.PageSize,
		CategoryID: q.CategoryID,
		InStock:    q.InStock,
		SellerID:   q.SellerID,
	}
	var err error
	if f.MinPrice, err = parseBound("minPrice", q.MinPrice); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseBound("maxPrice", q.MaxPrice); err != nil {
		return f, err
	}
	return f, nil
}

func parseBound(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errs.ErrInvalidPrice.WithMessage("%s must be a number", name)
	}
	return &d, nil
}

// productRequest accepts JSON or multipart form fields. Field rules are
// checked by the service so that ownership is decided first.
type productRequest struct {
	Name        string      `json:"name" form:"name"`
	Description *string     `json:"description" form:"description"`
	Price       json.Number `json:"price" form:"price"`
	ImageURL    *string     `json:"image_url" form:"image_url"`
	Stock       int         `json:"stock" form:"stock"`
	CategoryID  uint        `json:"category_id" form:"category_id"`
}

func (r productRequest) input() (service.Input, error) {
	if r.Price == "" {
		return service.Input{}, errs.ErrInvalidProduct.WithMessage("price is required")
	}
	price, err := money.Parse(string(r.Price))
	if err != nil {
		return service.Input{}, errs.ErrInvalidProduct.WithMessage("%s", err.Error())
	}
	return service.Input{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
	}, nil
}

type ProductHandler struct {
	svc    *service.Service
	policy *auth.Policy
}

func NewProductHandler(svc *service.Service, policy *auth.Policy) *ProductHandler {
	return &ProductHandler{svc: svc, policy: policy}
}

func (h *ProductHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, bindError(err))
		return
	}
	f, err := q.filters()
	if err != nil {
		response.Fail(c, err)
		return
	}
	list, err := h.svc.ListProducts(c.Request.Context(), f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

func (h *ProductHandler) ListByCategory(c *gin.Context) {
	categoryID, err := paramID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, bindError(err))
		return
	}
	f, err := q.filters()
	if err != nil {
		response.Fail(c, err)
		return
	}
	list, err := h.svc.ListByCategory(c.Request.Context(), categoryID, f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	product, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	seller, ok := h.seller(c)
	if !ok {
		return
	}
	in, closeImage, err := h.bind(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer closeImage()

	product, err := h.svc.Create(c.Request.Context(), seller, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	seller, ok := h.seller(c)
	if !ok {
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	// ownership is checked before the payload is looked at
	if _, err := h.svc.Owned(c.Request.Context(), seller, id); err != nil {
		response.Fail(c, err)
		return
	}
	in, closeImage, err := h.bind(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer closeImage()

	product, err := h.svc.Update(c.Request.Context(), seller, id, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	seller, ok := h.seller(c)
	if !ok {
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), seller, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, deleted("Product"))
}

func (h *ProductHandler) seller(c *gin.Context) (*usermodel.User, bool) {
	seller, err := h.policy.RequireSeller(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		response.Fail(c, err)
		return nil, false
	}
	return seller, true
}

// bind reads the product fields and, for multipart requests, the optional
// "image" file. The returned func closes the upload.
func (h *ProductHandler) bind(c *gin.Context) (service.Input, func(), error) {
	noop := func() {}
	var req productRequest
	if err := c.ShouldBind(&req); err != nil {
		return service.Input{}, noop, bindError(err)
	}
	in, err := req.input()
	if err != nil {
		return service.Input{}, noop, err
	}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return in, noop, nil
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, noop, nil
	}
	if err != nil {
		return service.Input{}, noop, errs.ErrInvalidImage.WithMessage("reading upload: %v", err)
	}
	f, err := fh.Open()
	if err != nil {
		return service.Input{}, noop, errs.Internal("open upload", err)
	}
	in.Image = f
	return in, func() { f.Close() }, nil
}
