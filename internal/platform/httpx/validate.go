package httpx

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the API's custom tags registered.
//
// maxbytes=N bounds the UTF-8 byte length of a string; max=N counts runes.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxbytes", maxBytes)
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
