// Package symbol normaliza el símbolo (ticker) de un fondo: sin diacríticos, ASCII en mayúsculas.
package symbol

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/vero-api/internal/domain"
)

const (
	MinLen = 2
	MaxLen = 12
)

// Normalize "  fídc-açaí 01 " -> "FIDCACAI01". Devuelve ValidationError si el resultado queda fuera de [MinLen, MaxLen].
func Normalize(raw string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, raw)
	if err != nil {
		return "", domain.NewValidationError("symbol", "normalize", err.Error())
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(plain) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) < MinLen || len(out) > MaxLen {
		return "", domain.NewValidationError("symbol", "len", "el símbolo debe tener entre 2 y 12 caracteres alfanuméricos")
	}
	return out, nil
}
