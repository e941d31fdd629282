package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrInvalidItem  = errors.New("línea de factura inválida")
	ErrLogoAsset    = errors.New("logo no procesable")
)
