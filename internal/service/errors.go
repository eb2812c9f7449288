package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors surfaced across service boundaries. Handlers translate
// them into HTTP statuses via errors.Is / errors.As; anything outside this
// taxonomy is treated as a persistence failure and returned verbatim.
var (
	ErrInsumoNoEncontrado   = errors.New("insumo no encontrado")
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrTicketVacio          = errors.New("el ticket está vacío")
	ErrTicketNoEncontrado   = errors.New("ticket no encontrado")
	ErrValidacion           = errors.New("error de validación")
)

// StockInsuficienteError names the deficient insumo so the caller can show
// which ingredient blocked the whole ticket.
type StockInsuficienteError struct {
	Insumo     string
	Disponible decimal.Decimal
	Requerido  decimal.Decimal
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente de %q: disponible %s, requerido %s",
		e.Insumo, e.Disponible.String(), e.Requerido.String())
}

// validacion wraps a field-level problem under ErrValidacion.
func validacion(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidacion, fmt.Sprintf(format, args...))
}
