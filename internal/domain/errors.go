package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrConflict indica un fallo de serialización/lost update en la fila de stock.
	// El caller puede reintentar la operación completa (releyendo el estado actual).
	ErrConflict  = errors.New("conflicto de concurrencia")
	ErrForbidden = errors.New("acceso denegado")
	// ErrAlreadySettled indica que el renglón de la orden ya tiene COGS asignado.
	ErrAlreadySettled = errors.New("el renglón ya fue liquidado")
)
