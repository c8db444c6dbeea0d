package report

import "github.com/jhoicas/gesafe-api/internal/domain/report"

// Renderer convierte un reporte ya agregado en un archivo. No aplica reglas de negocio.
type Renderer interface {
	Render(r *report.Report) ([]byte, error)
	ContentType() string
	Extension() string
}

// File archivo listo para descargar.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
