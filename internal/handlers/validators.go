package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/leasepay/lease_management_app/internal/core/domain"
)

// init registers domain validations with gin's binding engine so dto tags can
// use them. Registered here rather than in main so handler tests that build
// their own router get the same binding behavior.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return domain.IsSupportedCurrency(fl.Field().String())
		})
	}
}
