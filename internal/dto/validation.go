package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterCustomValidations installs the binding validators this package's
// request types rely on. Must be called once at startup, before routes are
// served.
func RegisterCustomValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("dpositive", decimalPositive)
	_ = v.RegisterValidation("dnonnegative", decimalNonNegative)
}

// decimalPositive validates that a decimal.Decimal field is strictly greater
// than zero.
func decimalPositive(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.IsPositive()
}

// decimalNonNegative validates that a decimal.Decimal field is zero or more.
func decimalNonNegative(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return !d.IsNegative()
}
