package spool

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// FailedField describes one failed validation rule.
type FailedField struct {
	Namespace string `json:"namespace,omitempty"`
	Field     string `json:"field,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Param     string `json:"param,omitempty"`
	Value     string `json:"value,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Validator checks bound values. Failures are reported as a 422 *Error
// carrying []FailedField.
type Validator interface {
	Validate(i any) error
	ValidateCtx(ctx context.Context, i any) error
}

type structValidator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator naming fields after their json tag.
func NewValidator() Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	return structValidator{validate: v}
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func (v structValidator) Validate(i any) error {
	return failed(v.validate.Struct(i))
}

func (v structValidator) ValidateCtx(ctx context.Context, i any) error {
	return failed(v.validate.StructCtx(ctx, i))
}

func failed(err error) error {
	var errs validator.ValidationErrors
	switch {
	case err == nil:
		return nil
	case !errors.As(err, &errs):
		return NewErrInternalServerError(err)
	}

	fields := make([]FailedField, len(errs))
	for i, fe := range errs {
		fields[i] = FailedField{
			Namespace: fe.StructNamespace(),
			Field:     fe.Field(),
			Tag:       fe.Tag(),
			Param:     fe.Param(),
			Value:     cast.ToString(fe.Value()),
			Message:   fe.Error(),
		}
	}
	return NewErrUnprocessableEntity(err, fields)
}
