package domain

import "errors"

// Errores del núcleo de inventario. Los casos de uso los devuelven (a veces envueltos con %w)
// y la capa HTTP los traduce a códigos de estado.
var (
	// ErrInvalidMovement tipo desconocido, cantidad no positiva o sucursal inactiva.
	ErrInvalidMovement = errors.New("movimiento de inventario inválido")
	// ErrInsufficientStock la cantidad pedida supera la disponible (cantidad - apartada).
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrNotFound el recurso no existe, pertenece a otro tenant o no está en el estado esperado.
	ErrNotFound = errors.New("recurso no encontrado")
	// ErrInvalidState transición no permitida desde el estado actual.
	ErrInvalidState = errors.New("transición de estado no permitida")
	// ErrForbidden el usuario no es quien debe ejecutar la operación (admin de la sucursal destino).
	ErrForbidden = errors.New("acceso denegado")
)

// Errores de entrada y contexto del caller.
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)
