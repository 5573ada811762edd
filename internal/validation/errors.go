package validation

import (
	"errors"
	"strings"
)

type FieldMessage struct {
	FieldName string `json:"fieldName"`
	Message   string `json:"message"`
}

// Errors collects field-level failures; it renders as a 422 response.
type Errors struct {
	Fields []FieldMessage
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.FieldName+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Errors) Add(field, message string) {
	e.Fields = append(e.Fields, FieldMessage{FieldName: field, Message: message})
}

// Merge folds every *Errors into one. Any other non-nil error is returned as is.
func Merge(errs ...error) error {
	out := &Errors{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *Errors
		if !errors.As(err, &ve) {
			return err
		}
		out.Fields = append(out.Fields, ve.Fields...)
	}
	if len(out.Fields) == 0 {
		return nil
	}
	return out
}
