// Package expiry concentra las reglas de validade: normalización de lo que el usuario
// digita (fecha completa o mes/año), parseo a fecha de calendario y clasificación
// vencido / a vencer.
package expiry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Normalize formatea la validade digitada como DD/MM/AAAA cuando ya es resoluble.
//
//   - Si el usuario está borrando (menos dígitos que previous) devuelve raw intacto.
//   - 6 dígitos MMAAAA (mes 1–12, año 1000–9999): último día de ese mes.
//   - 8 dígitos DDMMAAAA (día 1–31, mes 1–12, año >= 1000): DD/MM/AAAA tal como se digitó.
//     No valida el largo del mes; Parse rechaza fechas como 31/02.
//   - En cualquier otro caso devuelve raw intacto.
//
// Es pura y total: nunca falla.
func Normalize(raw, previous string) string {
	digits := onlyDigits(raw)
	if len(digits) < len(onlyDigits(previous)) {
		return raw
	}

	switch len(digits) {
	case 6:
		month, _ := strconv.Atoi(digits[0:2])
		year, _ := strconv.Atoi(digits[2:6])
		if month < 1 || month > 12 || year < 1000 || year > 9999 {
			return raw
		}
		return fmt.Sprintf("%02d/%02d/%04d", LastDayOfMonth(year, month), month, year)
	case 8:
		day, _ := strconv.Atoi(digits[0:2])
		month, _ := strconv.Atoi(digits[2:4])
		year, _ := strconv.Atoi(digits[4:8])
		if day < 1 || day > 31 || month < 1 || month > 12 || year < 1000 {
			return raw
		}
		return digits[0:2] + "/" + digits[2:4] + "/" + digits[4:8]
	}
	return raw
}

// LastDayOfMonth devuelve 28–31 según mes y año bisiesto.
func LastDayOfMonth(year, month int) int {
	switch time.Month(month) {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	return 31
}

// IsLeapYear regla gregoriana.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
