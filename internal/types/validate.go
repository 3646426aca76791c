package types

import (
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the domain rules registered:
//
//	student_level: value accepted by ParseLevel
//	muscle_group:  one of MuscleGroups
//
// Field errors are named after the JSON key, so clients see "nivel" rather
// than "Level".
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// RegisterValidation only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("student_level", func(fl validator.FieldLevel) bool {
		_, err := ParseLevel(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("muscle_group", func(fl validator.FieldLevel) bool {
		return slices.Contains(MuscleGroups, fl.Field().String())
	})

	return v
}
