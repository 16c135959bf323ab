package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"slices"
	"strconv"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"

	"termin/shared/constant"
	"termin/shared/failure"
)

const bytesPerMB = 1 << 20

var validate = newValidate()

// mimetypes=image/png image/jpeg checks the declared content type of an uploaded file.
func mimetypesValidation(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), file.Header.Get(constant.RequestHeaderContentType))
}

// maxfilesize=2 limits an uploaded file to the given number of megabytes.
func maxFileSizeValidation(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(file.Size) <= maxSizeMB*bytesPerMB
}

func layoutValidation(layout string) val.Func {
	return func(field val.FieldLevel) bool {
		_, err := time.Parse(layout, field.Field().String())

		return err == nil
	}
}

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())

	custom := map[string]val.Func{
		"datetime_rfc3339": layoutValidation(constant.DateFormat),
		"day":              layoutValidation(constant.DayFormat),
		"clock":            layoutValidation(constant.ClockFormat),
		"mimetypes":        mimetypesValidation,
		"maxfilesize":      maxFileSizeValidation,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %s: %v", tag, err))
		}
	}

	return v
}

// Validate decodes a JSON body from r into data and validates it.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

// ValidateStruct reports the first failed rule as a bad request.
func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
