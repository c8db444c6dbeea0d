package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Property representa una propriedade (finca/sitio) dueña de sus propios lotes de estoque.
type Property struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizePropertyName recorta espacios y pasa el nombre a mayúsculas (reglas pt-BR).
// cases.Caser no se comparte entre goroutines: se crea uno por llamada.
func NormalizePropertyName(name string) string {
	return cases.Upper(language.BrazilianPortuguese).String(strings.TrimSpace(name))
}
