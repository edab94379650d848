package handler

import (
	"strconv"

	"go-storefront/pkg/errs"

	"github.com/gin-gonic/gin"
)

// statusMessage is the body of soft-delete responses.
type statusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func deleted(what string) statusMessage {
	return statusMessage{Status: "success", Message: what + " marked as inactive"}
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Validation("ValidationError", "invalid %s", name)
	}
	return uint(id), nil
}

func bindError(err error) error {
	return errs.Validation("ValidationError", "%s", err.Error())
}
