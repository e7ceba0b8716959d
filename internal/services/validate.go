package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sbilibin2017/messagely/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the validate tags of v and reports every failing
// field in a single Validation error.
func validateStruct(v any, names map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name, ok := names[fe.Field()]
		if !ok {
			name = fe.Field()
		}
		fields = append(fields, `"`+name+`"`)
	}
	return apperr.Validationf("Missing body data %s", strings.Join(fields, ", "))
}
