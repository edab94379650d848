package handler

import (
	"sync"

	usermodel "go-storefront/apps/user/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request DTOs.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return usermodel.Role(fl.Field().String()).Valid()
		})
	})
}
