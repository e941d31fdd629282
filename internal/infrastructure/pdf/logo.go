package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/albeiroc/invoice-forge/internal/domain"
)

// writeNormalizedLogo decodifica cualquier raster soportado (PNG, JPEG, GIF,
// BMP, WebP), lo aplana sobre blanco a tres canales y lo escribe como PNG en
// un archivo temporal. El nombre incluye un UUID: renders concurrentes nunca
// se pisan el intermedio entre sí. El caller borra el archivo devuelto.
func writeNormalizedLogo(raw []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: decodificar: %v", domain.ErrLogoAsset, err)
	}

	// Aplanar sobre blanco deja la imagen opaca: el encoder PNG la emite en
	// truecolor sin canal alfa, venga el original en paleta, gris o RGBA.
	bounds := src.Bounds()
	flat := image.NewNRGBA(bounds)
	draw.Draw(flat, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(flat, bounds, src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return "", fmt.Errorf("%w: reencodificar: %v", domain.ErrLogoAsset, err)
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("logo_%s.png", uuid.NewString()))
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("%w: escribir temporal: %v", domain.ErrLogoAsset, err)
	}
	return path, nil
}
