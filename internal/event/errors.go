package event

import (
	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
)

func newFieldError(rec Record, field, problem string, cause error) error {
	msg := "event " + field + " " + problem
	var b *errors.ErrorBuilder
	if cause != nil {
		b = errors.WrapError(cause, errors.CategoryValidation, msg).Fatal().UserAction()
	} else {
		b = errors.ValidationError(msg)
	}
	return b.
		WithContext("field", field).
		WithContext("name", rec.Name).
		WithContext("file", rec.Source).
		Build()
}
