package services

import (
	"fmt"

	"github.com/dmitrijs2005/medreminder/internal/common"
	"github.com/go-playground/validator/v10"
)

// maxPasswordBytes is the bcrypt input limit; longer passwords are rejected
// by x/crypto/bcrypt.
const maxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// "max" counts runes, bcrypt counts bytes.
	err := v.RegisterValidation("pwbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	if err != nil {
		panic(err)
	}
	return v
}

// check validates in against its struct tags and maps any failure to
// common.ErrInvalidInput.
func check(in any) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	return nil
}
