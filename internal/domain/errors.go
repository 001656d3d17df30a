package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrEmptyDraft        = errors.New("la operación no tiene líneas")
	ErrDraftSubmitting   = errors.New("el borrador ya tiene un envío en curso")
	ErrUpstream          = errors.New("error del backend hospitalario")
)
