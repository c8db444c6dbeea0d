package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/jhoicas/gesafe-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los errores usan el nombre del campo en el JSON (o en la query).
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// validateStruct aplica las etiquetas validate y devuelve un *domain.ValidationError
// con todos los campos inválidos.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	verr := &domain.ValidationError{}
	for _, fe := range ves {
		verr.Add(fieldPath(fe), fieldMessage(fe))
	}
	return verr
}

// fieldPath "propriedades[0].nome" sin el nombre del struct raíz.
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

var messages = map[string]string{
	"nome.min":              "Nome deve ter pelo menos 3 caracteres",
	"email.required":        "E-mail inválido",
	"email.email":           "E-mail inválido",
	"senha.required":        "Senha deve ter no mínimo 6 caracteres",
	"senha.min":             "Senha deve ter no mínimo 6 caracteres",
	"propriedades.required": "Informe pelo menos uma propriedade",
	"propriedades.min":      "Informe pelo menos uma propriedade",
	"formato.oneof":         "Formato deve ser json, pdf ou xlsx",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required", "notblank":
		if strings.HasPrefix(fieldPath(fe), "propriedades[") {
			return "Nome da propriedade é obrigatório"
		}
		if fe.Field() == "nome" {
			return "Nome é obrigatório"
		}
		return "Campo obrigatório"
	case "min":
		return fmt.Sprintf("Deve ter pelo menos %s caracteres", fe.Param())
	case "oneof":
		return "Valor inválido: use " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "Valor inválido"
}
