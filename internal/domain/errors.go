package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto de concurrencia, reintentar")

	// Motor de inventario y ventas.
	ErrInsufficientStock          = errors.New("stock insuficiente")
	ErrInsufficientAvailableStock = errors.New("stock disponible insuficiente (existencias reservadas)")
	ErrInvalidStateTransition     = errors.New("transición de estado inválida")
	ErrEmptySale                  = errors.New("la venta no tiene líneas")
	ErrInvalidDiscount            = errors.New("descuento fuera de rango")
	ErrTicketNotFound             = errors.New("ticket de reparación no encontrado")
	ErrTicketAlreadyBilled        = errors.New("el ticket ya fue facturado")
	ErrOverpayment                = errors.New("el abono excede el saldo pendiente")
	ErrSaleCancelled              = errors.New("la venta está cancelada")
)
