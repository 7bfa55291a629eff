package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator создает валидатор, который называет поля по json-тегам
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// Суммы хранятся как decimal(20,2): больше двух знаков БД округлила бы молча
	v.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
		amount := decimal.NewFromFloat(fl.Field().Float())
		return amount.Equal(amount.Round(2))
	})
	return v
}

// validateDTO валидирует DTO и возвращает *ValidationError с описанием нарушений
func validateDTO(v *validator.Validate, dto interface{}) error {
	err := v.Struct(dto)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return newValidationError(err.Error())
	}

	var problems []string
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			problems = append(problems, "field "+field+" is required")
		case "gt":
			problems = append(problems, "field "+field+" must be greater than "+e.Param())
		case "gte":
			problems = append(problems, "field "+field+" must be greater than or equal to "+e.Param())
		case "min":
			problems = append(problems, "field "+field+" must be at least "+e.Param()+" long")
		case "max":
			problems = append(problems, "field "+field+" must be at most "+e.Param()+" long")
		case "oneof":
			problems = append(problems, "field "+field+" must be one of: "+e.Param())
		case "cents":
			problems = append(problems, "field "+field+" must have at most 2 decimal places")
		case "email":
			problems = append(problems, "field "+field+" must be a valid email")
		default:
			problems = append(problems, "field "+field+" is invalid ("+e.Tag()+")")
		}
	}
	return newValidationError(problems...)
}
