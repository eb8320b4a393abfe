package user

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	roleTag  = "role"
	roleText = fmt.Sprintf("role must be one of: %s", joinRoles(", "))

	// bcrypt only hashes the first 72 bytes; validator's max counts runes.
	bcryptMaxTag   = "bcryptmax"
	bcryptMaxBytes = 72
)

// InitValidators registers the user validators. core.InitValidators must be called first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(bcryptMaxTag, bcryptMaxValidation)
	core.RegisterCustomTranslation(validate, translator, bcryptMaxTag, ErrPasswordTooLong.Error())
}

func joinRoles(sep string) string {
	names := make([]string, len(AllRoles))
	for i, role := range AllRoles {
		names[i] = string(role)
	}
	return strings.Join(names, sep)
}

// roleValidation checks that the field is one of AllRoles.
func roleValidation(fl validator.FieldLevel) bool {
	_, err := ParseRole(fl.Field().String())
	return err == nil
}

func bcryptMaxValidation(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= bcryptMaxBytes
}
