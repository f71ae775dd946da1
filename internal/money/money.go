// Package money agrupa las dos funciones puras del dominio financiero:
// el formato de moneda y la validación de campos de una transacción.
// Ninguna de las dos hace I/O ni depende de estado compartido.
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	apperror "finanzas/internal/errors"
)

// Mensajes estables de validación. Forman parte del contrato de la API:
// los clientes los muestran tal cual, no cambiarlos sin coordinar.
const (
	ErrMsgAmount  = "El monto debe ser mayor a 0"
	ErrMsgConcept = "El concepto es obligatorio"
)

// FormatCurrency produce el monto en pesos colombianos: símbolo, cero
// decimales y separador de miles con punto (e.g., 1500000 → "$ 1.500.000").
//
// Regla de redondeo: a entero más cercano, mitades alejándose de cero
// (la misma regla de decimal.Round). El formato no valida signo: un
// monto negativo produce un string válido con el signo adelante; la
// positividad es responsabilidad de ValidateTransaction.
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	negative := rounded.IsNegative()
	digits := rounded.Abs().String()

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString("$ ")

	// Agrupación de miles de derecha a izquierda, con punto (es-CO).
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}

	return b.String()
}

// ValidateTransaction valida los campos de un movimiento antes de
// cualquier otra cosa. Devuelve nil cuando amount > 0 y el concepto no
// es vacío ni puro espacio en blanco.
//
// Precedencia: el chequeo del monto va primero; si ambos campos son
// inválidos, el error reportado es el del monto.
func ValidateTransaction(amount decimal.Decimal, concept string) error {
	if !amount.IsPositive() {
		return apperror.NewValidationError(ErrMsgAmount)
	}
	if strings.TrimSpace(concept) == "" {
		return apperror.NewValidationError(ErrMsgConcept)
	}
	return nil
}
