package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/debemdeboas/blog-wizard/internal/model"
)

var (
	ErrValidationFailed = errors.New("form validation failed")
	ErrSaveFailed       = errors.New("failed to save post")
)

// ValidationError carries the field errors that blocked a submit.
type ValidationError struct {
	Fields map[model.Field]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range model.Fields {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
		}
	}
	return ErrValidationFailed.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
