// Package render converts scalar fields into grayscale images and writes
// them to disk. It is presentation glue; no generation logic lives here.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	"github.com/disintegration/gift"
	"golang.org/x/image/tiff"
)

// Range maps field values onto the gray ramp: Lo is black, Hi is white.
type Range struct {
	Lo float64
	Hi float64
}

// UnitRange is the fixed range of masks and densities.
var UnitRange = Range{Lo: 0, Hi: 1}

// AutoRange spans the field's own minimum and maximum.
func AutoRange(f *field.Scalar) Range {
	lo, hi := f.Bounds()
	return Range{Lo: lo, Hi: hi}
}

// level returns v's position in r, clamped to [0,1]. An empty range maps
// everything to mid-gray.
func (r Range) level(v float64) float64 {
	span := r.Hi - r.Lo
	if span <= 0 {
		return 0.5
	}
	t := (v - r.Lo) / span
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Gray renders f as an 8-bit image. Column x maps to image x, row z to image y.
func Gray(f *field.Scalar, r Range) *image.Gray {
	n := f.Size()
	img := image.NewGray(image.Rect(0, 0, n, n))
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			img.SetGray(x, z, color.Gray{Y: uint8(r.level(f.At(x, z))*255 + 0.5)})
		}
	}
	return img
}

// Gray16 renders f as a 16-bit image for lossless-ish export.
func Gray16(f *field.Scalar, r Range) *image.Gray16 {
	n := f.Size()
	img := image.NewGray16(image.Rect(0, 0, n, n))
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			img.SetGray16(x, z, color.Gray16{Y: uint16(r.level(f.At(x, z))*65535 + 0.5)})
		}
	}
	return img
}

func newLike(src image.Image, bounds image.Rectangle) draw.Image {
	switch src.(type) {
	case *image.Gray:
		return image.NewGray(bounds)
	case *image.Gray16:
		return image.NewGray16(bounds)
	default:
		return image.NewNRGBA(bounds)
	}
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling,
// so every cell stays a crisp block.
func Upscale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	g := gift.New(gift.Resize(b.Dx()*factor, b.Dy()*factor, gift.NearestNeighborResampling))
	dst := newLike(img, g.Bounds(b))
	g.Draw(dst, img)
	return dst
}

// Smooth applies a Gaussian blur for softer previews.
func Smooth(img image.Image, sigma float32) image.Image {
	if sigma <= 0 {
		return img
	}
	g := gift.New(gift.GaussianBlur(sigma))
	dst := newLike(img, g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// Format is an output image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("unsupported image format %q (want png or tiff)", s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == FormatTIFF {
		return ".tiff"
	}
	return ".png"
}

// Save writes img to path, choosing the encoder from the extension.
func Save(path string, img image.Image) error {
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image %s: %w", path, err)
	}
	defer file.Close()

	switch format {
	case FormatTIFF:
		err = tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image %s: %w", path, err)
	}
	return nil
}
