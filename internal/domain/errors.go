package domain

import "errors"

// Errores de dominio a nivel de solicitud (sin dependencias externas).
// Abortan la operación completa; nada parcial se devuelve al caller.
// Las violaciones físicas (peso/volumen/altura) NO son errores: viajan como
// datos dentro de composition.Result para que la UI muestre el detalle.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrProductNotFound        = errors.New("producto no encontrado")
	ErrPalletNotFound         = errors.New("pallet no encontrado")
	ErrUnitNotFound           = errors.New("unidad de empaque no encontrada")
	ErrNoBaseUnit             = errors.New("el producto no tiene unidad base definida")
	ErrInvalidHierarchy       = errors.New("jerarquía de empaques inválida")
	ErrUnitInUse              = errors.New("la unidad de empaque está en uso")
	ErrIncompatibleUnits      = errors.New("unidades de productos distintos no son convertibles")
	ErrInvalidConstraint      = errors.New("restricción de composición inválida")
	ErrInvalidTransition      = errors.New("transición de estado inválida")
	ErrConcurrentModification = errors.New("la composición está siendo modificada por otro actor")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrPalletOccupied         = errors.New("el pallet ya está ocupado por otra UCP")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
)
