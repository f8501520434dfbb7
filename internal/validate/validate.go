// Package validate builds the request validator shared by the
// controllers, with the custom rules the plain tag set cannot express.
package validate

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("price", price)
	return v
}

// price accepts a decimal string that parses and is not negative. Zero
// is allowed, a zero GST rate is a legitimate tariff.
func price(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}
