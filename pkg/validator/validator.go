// Package validator envuelve go-playground/validator con una instancia única
// (cachea la información de los structs) y traduce los errores a mensajes
// legibles usando el nombre JSON del campo.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError error de validación de un campo.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Errors colección de errores de validación de un request.
type Errors []FieldError

// Error implementa error uniendo los mensajes.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validación fallida"
	}
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Get devuelve la instancia única del validador.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct valida s. Devuelve nil o Errors.
func Struct(s interface{}) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "unknown", Tag: "unknown", Message: err.Error()}}
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: translate(fe),
		})
	}
	return out
}

var simpleMessages = map[string]string{
	"required": "%s es requerido",
	"email":    "%s debe ser un email válido",
	"numeric":  "%s debe ser numérico",
}

var paramMessages = map[string]string{
	"oneof": "%s debe ser uno de: %s",
	"gte":   "%s debe ser mayor o igual a %s",
	"lte":   "%s debe ser menor o igual a %s",
	"gt":    "%s debe ser mayor que %s",
	"lt":    "%s debe ser menor que %s",
}

func translate(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()
	if tpl, ok := simpleMessages[tag]; ok {
		return fmt.Sprintf(tpl, field)
	}
	if tpl, ok := paramMessages[tag]; ok {
		return fmt.Sprintf(tpl, field, strings.ReplaceAll(param, " ", ", "))
	}
	isString := fe.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s debe tener al menos %s caracteres", field, param)
		}
		return fmt.Sprintf("%s debe ser al menos %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s debe tener como máximo %s caracteres", field, param)
		}
		return fmt.Sprintf("%s debe ser como máximo %s", field, param)
	}
	return fmt.Sprintf("%s no cumple la validación %s", field, tag)
}
