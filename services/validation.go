package services

import (
	"reflect"
	"regexp"
	"strings"

	"telconova-dispatch/models"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	registerCatalogValues(v, "zone", models.Zones)
	registerCatalogValues(v, "specialty", models.Specialties)
	registerCatalogValues(v, "timeblock", models.TimeBlocks)
	return v
}

// catalogValues holds the allowed values of each catalog tag for error messages.
var catalogValues = map[string]string{
	"zone":      joinValues(models.Zones),
	"specialty": joinValues(models.Specialties),
	"timeblock": joinValues(models.TimeBlocks),
}

func joinValues[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, value := range values {
		names[i] = string(value)
	}
	return strings.Join(names, " ")
}

// registerCatalogValues adds a validation tag accepting only the given values.
func registerCatalogValues[T ~string](v *validator.Validate, tag string, values []T) {
	allowed := make(map[string]bool, len(values))
	for _, value := range values {
		allowed[string(value)] = true
	}
	_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return allowed[fl.Field().String()]
	})
}

// validateStruct turns validator failures into a ValidationError naming the
// first offending field.
func validateStruct(v *validator.Validate, req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return models.NewValidationError("", err.Error())
	}
	return models.NewValidationError(validationErrors[0].Field(), formatValidationErrors(validationErrors))
}

func formatValidationErrors(validationErrors validator.ValidationErrors) string {
	var errorMessages []string
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required":
			errorMessages = append(errorMessages, fieldError.Field()+" is required")
		case "min":
			errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param()+" characters/items")
		case "max":
			errorMessages = append(errorMessages, fieldError.Field()+" must be at most "+fieldError.Param()+" characters/items")
		case "oneof":
			errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+fieldError.Param())
		case "zone", "specialty", "timeblock":
			errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+catalogValues[fieldError.Tag()])
		default:
			errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
		}
	}
	return strings.Join(errorMessages, "; ")
}
