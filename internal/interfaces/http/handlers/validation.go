package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
)

// RegisterValidators installs the custom binding tags on gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return v.RegisterValidation("account_role", func(fl validator.FieldLevel) bool {
		_, ok := entities.ParseRole(fl.Field().String())
		return ok
	})
}

// bindError turns a binding failure into a VALIDATION_ERROR with a readable message.
func bindError(err error) *domainerrors.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domainerrors.Validation("Invalid request body")
	}

	msgs := make([]string, 0, len(verrs))
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		msgs = append(msgs, msg)
		fields[fe.Field()] = msg
	}
	return domainerrors.Validation(strings.Join(msgs, "; ")).WithDetail("fields", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "account_role":
		return fmt.Sprintf("%s must be one of: buyer, seller, agent, developer, admin", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
