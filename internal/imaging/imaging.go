// Package imaging validates and resizes PNG assets.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
)

// MaxDimension bounds either side of an image this package will decode or
// produce.
const MaxDimension = 8192

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// IsPNG reports whether buf starts with the 8-byte PNG signature.
func IsPNG(buf []byte) bool {
	return len(buf) >= len(pngSignature) && bytes.Equal(buf[:len(pngSignature)], pngSignature)
}

// Validate returns UnsupportedFormat unless buf is a PNG.
func Validate(buf []byte) error {
	if !IsPNG(buf) {
		return apperr.UnsupportedFormat("only PNG images are supported")
	}
	return nil
}

// Size returns the pixel dimensions of a PNG without decoding the pixels.
func Size(buf []byte) (int, int, error) {
	if err := Validate(buf); err != nil {
		return 0, 0, err
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return 0, 0, apperr.UnsupportedFormat(fmt.Sprintf("corrupt PNG: %v", err))
	}
	return cfg.Width, cfg.Height, nil
}

// Fit scales buf down so neither side exceeds maxDim, keeping the aspect
// ratio. Images already inside the bound are returned unchanged.
func Fit(buf []byte, maxDim int) ([]byte, error) {
	img, err := decode(buf)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return buf, nil
	}
	if w >= h {
		h = max(1, h*maxDim/w)
		w = maxDim
	} else {
		w = max(1, w*maxDim/h)
		h = maxDim
	}
	return encode(resize(img, w, h))
}

// Exact forces buf to w x h.
func Exact(buf []byte, w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return nil, apperr.Invalid("invalid target size %dx%d", w, h)
	}
	img, err := decode(buf)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		return buf, nil
	}
	return encode(resize(img, w, h))
}

// Scale multiplies both dimensions by factor.
func Scale(buf []byte, factor float64) ([]byte, error) {
	if factor <= 0 {
		return nil, apperr.Invalid("scale factor must be positive")
	}
	img, err := decode(buf)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor+0.5))
	h := max(1, int(float64(b.Dy())*factor+0.5))
	if w > MaxDimension || h > MaxDimension {
		return nil, apperr.Invalid("scaled image would be %dx%d, larger than %dx%d", w, h, MaxDimension, MaxDimension)
	}
	return encode(resize(img, w, h))
}

// DataURI renders buf as an inline data:image/png URI.
func DataURI(buf []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf)
}

func decode(buf []byte) (image.Image, error) {
	if err := Validate(buf); err != nil {
		return nil, err
	}
	w, h, err := Size(buf)
	if err != nil {
		return nil, err
	}
	if w > MaxDimension || h > MaxDimension {
		return nil, apperr.UnsupportedFormat(fmt.Sprintf("image is %dx%d, larger than %dx%d", w, h, MaxDimension, MaxDimension))
	}
	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, apperr.UnsupportedFormat(fmt.Sprintf("corrupt PNG: %v", err))
	}
	return img, nil
}

func resize(src image.Image, w, h int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func encode(img image.Image) ([]byte, error) {
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return out.Bytes(), nil
}
