package middlewares

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/findit/internal/fierror"
)

type structValidator struct {
	validate *validator.Validate
}

// NewValidator returns an echo.Validator backed by go-playground/validator.
// It knows the `lat` and `lng` tags for coordinates.
func NewValidator() echo.Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("lat", func(fl validator.FieldLevel) bool {
		lat := fl.Field().Float()
		return lat >= -90 && lat <= 90
	})
	validate.RegisterValidation("lng", func(fl validator.FieldLevel) bool {
		lng := fl.Field().Float()
		return lng >= -180 && lng <= 180
	})

	return &structValidator{validate: validate}
}

// Validate implements echo.Validator.
func (v *structValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, ferr := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", ferr.Field(), ferr.Tag()))
	}

	return fierror.NewWithTagCode(
		http.StatusBadRequest,
		fierror.TagInvalidParams,
		"Invalid parameters: "+strings.Join(fields, ", "),
	)
}
