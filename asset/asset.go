// Package asset empaqueta los recursos estáticos de la aplicación.
package asset

import _ "embed"

// DefaultLogoPNG logo por defecto cuando el caller no sube uno propio.
//
//go:embed logo.png
var DefaultLogoPNG []byte
