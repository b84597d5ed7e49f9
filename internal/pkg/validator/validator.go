package validator

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate runs struct-tag validation and converts failures into an
// INVALID_INPUT AppError listing the offending fields.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.ErrInvalidInput.WithMessage(err.Error())
	}

	fields := make(map[string]interface{}, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
		names = append(names, fe.Field())
	}

	return errors.ErrInvalidInput.
		WithMessage("Invalid or missing fields: " + strings.Join(names, ", ")).
		WithDetails(fields)
}
