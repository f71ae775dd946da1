package money_test

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	apperror "finanzas/internal/errors"
	"finanzas/internal/money"
)

// TestFormatCurrency_PesosColombianos verifica el formato con separador
// de miles. El espacio entre $ y el número es flexible a propósito.
func TestFormatCurrency_PesosColombianos(t *testing.T) {
	result := money.FormatCurrency(decimal.NewFromInt(1500000))

	assert.Regexp(t, regexp.MustCompile(`\$\s?1\.500\.000`), result)
}

// TestFormatCurrency_EdgeValues verifica que cero y negativos producen
// strings sintácticamente válidos: el formato no impone positividad.
func TestFormatCurrency_EdgeValues(t *testing.T) {
	assert.Equal(t, "$ 0", money.FormatCurrency(decimal.Zero))
	assert.Equal(t, "-$ 1.500", money.FormatCurrency(decimal.NewFromInt(-1500)))
	assert.Equal(t, "$ 100", money.FormatCurrency(decimal.NewFromInt(100)))
	assert.Equal(t, "$ 1.000", money.FormatCurrency(decimal.NewFromInt(1000)))
}

// TestFormatCurrency_Rounding verifica la regla de redondeo documentada:
// entero más cercano, mitades alejándose de cero.
func TestFormatCurrency_Rounding(t *testing.T) {
	assert.Equal(t, "$ 1.001", money.FormatCurrency(decimal.NewFromFloat(1000.5)))
	assert.Equal(t, "$ 1.000", money.FormatCurrency(decimal.NewFromFloat(1000.4)))
	assert.Equal(t, "-$ 2", money.FormatCurrency(decimal.NewFromFloat(-1.5)))
}

// TestValidateTransaction_RejectsNonPositiveAmounts verifica el rechazo
// de montos en cero o negativos.
func TestValidateTransaction_RejectsNonPositiveAmounts(t *testing.T) {
	err1 := money.ValidateTransaction(decimal.Zero, "Pago")
	err2 := money.ValidateTransaction(decimal.NewFromInt(-500), "Pago")

	assert.EqualError(t, err1, "El monto debe ser mayor a 0")
	assert.EqualError(t, err2, "El monto debe ser mayor a 0")
	assert.IsType(t, &apperror.ValidationError{}, err1)
}

// TestValidateTransaction_AmountTakesPrecedence verifica la precedencia:
// con monto y concepto inválidos a la vez, gana el error del monto.
func TestValidateTransaction_AmountTakesPrecedence(t *testing.T) {
	err := money.ValidateTransaction(decimal.Zero, "   ")

	assert.EqualError(t, err, "El monto debe ser mayor a 0")
}

// TestValidateTransaction_RejectsBlankConcept verifica el rechazo de
// conceptos vacíos o de puro espacio en blanco.
func TestValidateTransaction_RejectsBlankConcept(t *testing.T) {
	err := money.ValidateTransaction(decimal.NewFromInt(10000), "   ")

	assert.EqualError(t, err, "El concepto es obligatorio")
}

// TestValidateTransaction_AcceptsValidInput verifica el caso feliz.
func TestValidateTransaction_AcceptsValidInput(t *testing.T) {
	err := money.ValidateTransaction(decimal.NewFromInt(50000), "Compra de prueba")

	assert.NoError(t, err)
}
