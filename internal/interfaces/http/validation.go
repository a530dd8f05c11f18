package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/vero-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// los detalles por campo usan el nombre JSON (camelCase) y no el del struct
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON y aplica las reglas `validate` del DTO.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("body", "json", "cuerpo inválido: "+err.Error())
	}
	return validateStruct(out)
}

func validateStruct(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.NewValidationError("body", "invalid", err.Error())
	}
	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un email válido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "min", "gte":
		return "debe ser >= " + fe.Param()
	case "max", "lte":
		return "debe ser <= " + fe.Param()
	case "gt":
		return "debe ser > " + fe.Param()
	case "len":
		return "debe tener longitud " + fe.Param()
	case "uuid", "uuid4":
		return "debe ser un UUID"
	}
	return "no cumple la regla " + fe.Tag()
}

// pathID lee :id y lo exige como UUID. Un id malformado no puede existir, se responde como no encontrado.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrNotFound
	}
	return id, nil
}
