package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// MsgInvalidBody is returned when a request body cannot be decoded at all.
const MsgInvalidBody = "Invalid request body."

// BindingErrors converts a request-binding failure into the shared error
// envelope. Field-level validation failures become one message per field;
// anything else (malformed JSON, wrong types) collapses to MsgInvalidBody
// so decoder internals never leak to clients.
func BindingErrors(err error) ErrorResponse {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Error(MsgInvalidBody)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return ErrorResponse{Errors: msgs}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "lte":
		return fe.Field() + " must be less than or equal to " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
