package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":         "{field} is required",
	"gte":              "{field} must be greater than or equal to {param}",
	"lte":              "{field} must be less than or equal to {param}",
	"oneof":            "{field} must be one of {param}",
	"max":              "{field} must be less than or equal to {param}",
	"min":              "{field} must be greater than or equal to {param}",
	"email":            "{field} must be a valid email address",
	"uuid":             "{field} must be a valid UUID",
	"gtfield":          "{field} must be after {param}",
	"day":              "{field} must be a date formatted as YYYY-MM-DD",
	"clock":            "{field} must be a time formatted as HH:MM",
	"datetime_rfc3339": "{field} must be an RFC3339 timestamp",
	"nefield":          "{field} must differ from {param}",
	"mimetypes":        "{field} must be one of {param}",
	"maxfilesize":      "{field} must not exceed {param} MB",
}

func message(err error) string {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, valErr := range valErrors {
		if tmpl, ok := messages[valErr.Tag()]; ok {
			return strings.NewReplacer("{field}", valErr.Field(), "{param}", valErr.Param()).Replace(tmpl)
		}
	}

	return valErrors.Error()
}
