package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// DateLayout formato de fechas en requests y responses.
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseDate interpreta una fecha YYYY-MM-DD (UTC). Vacío devuelve la fecha cero.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// FormatDate formatea una fecha (vacío si es cero).
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
