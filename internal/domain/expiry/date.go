package expiry

import (
	"errors"
	"regexp"
	"time"
)

// Layout formato de validade en la API y en los reportes.
const Layout = "02/01/2006"

// Mensajes para el usuario asociados a cada error.
const (
	MsgFormat   = "Formato da validade deve ser DD/MM/AAAA"
	MsgCalendar = "Validade não é uma data válida"
)

var (
	// ErrFormat la validade no tiene la forma DD/MM/AAAA.
	ErrFormat = errors.New("validade: formato inválido")
	// ErrCalendar la validade tiene la forma correcta pero no existe en el calendario.
	ErrCalendar = errors.New("validade: data inexistente")
)

// Message traduce un error de Parse al texto mostrado al usuario.
func Message(err error) string {
	if errors.Is(err, ErrCalendar) {
		return MsgCalendar
	}
	return MsgFormat
}

var layoutRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// Parse convierte DD/MM/AAAA en una fecha de calendario (medianoche UTC).
// Rechaza fechas inexistentes como 31/02/2024.
func Parse(s string) (time.Time, error) {
	if !layoutRe.MatchString(s) {
		return time.Time{}, ErrFormat
	}
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrCalendar
	}
	return t, nil
}

// Resolve acepta también el atajo mes/año ("02/2024") aplicando Normalize antes de Parse.
func Resolve(raw string) (time.Time, error) {
	return Parse(Normalize(raw, ""))
}

// Format DD/MM/AAAA.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// DateOf trunca un instante a su fecha de calendario en la zona del propio instante,
// expresada como medianoche UTC para comparar con las validades.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
