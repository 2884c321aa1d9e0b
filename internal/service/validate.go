package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func emailShapeValidator(fl validator.FieldLevel) bool {
	return emailShape.MatchString(fl.Field().String())
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("emailshape", emailShapeValidator)
	return v
}

// fieldRules validates one field at a time so callers control check ordering.
type fieldRules struct {
	validate *validator.Validate
}

func (r fieldRules) nonEmpty(s string) bool {
	return r.validate.Var(s, "required") == nil
}

func (r fieldRules) emailFormat(email string) bool {
	return r.validate.Var(email, "emailshape") == nil
}

func (r fieldRules) ageInRange(age int) bool {
	return r.validate.Var(age, "gte=0,lte=150") == nil
}
