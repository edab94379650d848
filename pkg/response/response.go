package response

import (
	"errors"
	"net/http"

	"go-storefront/pkg/errs"

	"github.com/gin-gonic/gin"
)

// Response is the common JSON envelope.
type Response struct {
	Code  int         `json:"code"`            // HTTP status mirrored into the body
	Msg   string      `json:"msg"`             // human readable message
	Error string      `json:"error,omitempty"` // machine-checkable error code
	Data  interface{} `json:"data,omitempty"`
}

// Success 200 response.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code: http.StatusOK,
		Msg:  "success",
		Data: data,
	})
}

// Created 201 response.
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, Response{
		Code: http.StatusCreated,
		Msg:  "created",
		Data: data,
	})
}

// Error writes a failure with an explicit status.
func Error(ctx *gin.Context, httpStatus int, code, msg string) {
	ctx.JSON(httpStatus, Response{
		Code:  httpStatus,
		Msg:   msg,
		Error: code,
	})
}

// Fail maps a domain error to its HTTP status. Internal errors are recorded
// on the gin context for the request logger and never echoed to the client.
func Fail(ctx *gin.Context, err error) {
	var e *errs.Error
	if !errors.As(err, &e) || e.Kind == errs.KindInternal {
		_ = ctx.Error(err)
		Error(ctx, http.StatusInternalServerError, "Internal", "internal server error")
		return
	}
	if e.Kind == errs.KindUnauthorized {
		ctx.Header("WWW-Authenticate", "Bearer")
	}
	Error(ctx, StatusOf(e.Kind), e.Code, e.Message)
}

func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
