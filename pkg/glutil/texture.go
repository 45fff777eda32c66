package glutil

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

// PixelFormat describes 8-bit-per-channel pixel data.
type PixelFormat uint8

const (
	Grayscale PixelFormat = iota + 1
	RGB
	RGBA
	GrayscaleAlpha
)

func (f PixelFormat) String() string {
	switch f {
	case Grayscale:
		return "Grayscale"
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	case GrayscaleAlpha:
		return "GrayscaleAlpha"
	}
	return fmt.Sprintf("PixelFormat(%d)", uint8(f))
}

// Valid reports whether f is a known format.
func (f PixelFormat) Valid() bool {
	return f >= Grayscale && f <= GrayscaleAlpha
}

// Channels returns bytes per pixel, or 0 for an unknown format.
func (f PixelFormat) Channels() int {
	switch f {
	case Grayscale:
		return 1
	case GrayscaleAlpha:
		return 2
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// glFormats returns the internal (storage) format and the upload format.
func (f PixelFormat) glFormats() (internal int32, upload uint32) {
	switch f {
	case Grayscale:
		return internalR8, formatRed
	case GrayscaleAlpha:
		return internalRG8, formatRG
	case RGB:
		return internalRGB8, formatRGB
	default:
		return internalRGBA8, formatRGBA
	}
}

// CreateTexture2D uploads tightly packed 8-bit pixel data into a new 2D
// texture with linear filtering and clamp-to-edge wrapping.
//
// Grayscale textures sample their single channel in red, green and blue.
// GrayscaleAlpha additionally samples the second channel as alpha.
//
// The texture is left bound to TEXTURE_2D and UNPACK_ALIGNMENT is left at 1.
func CreateTexture2D(d Driver, width, height int32, format PixelFormat, data []byte) (*Texture, error) {
	const op = "create texture"

	if !format.Valid() {
		return nil, validationError(op, fmt.Errorf("%w: %s", ErrInvalidPixelFormat, format))
	}
	if width <= 0 || height <= 0 {
		return nil, validationError(op, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height))
	}
	if want := int(width) * int(height) * format.Channels(); len(data) != want {
		return nil, validationError(op, fmt.Errorf("%w: expected %d bytes for %dx%d %s, got %d",
			ErrSizeMismatch, want, width, height, format, len(data)))
	}

	ClearErrors(d)
	id := d.GenTexture()
	if id == 0 {
		return nil, &Error{Op: op, Kind: KindResourceExhausted, Err: ErrZeroHandle}
	}
	t := &Texture{
		handle: newHandle(d, id, "texture", deleteTexture),
		width:  width,
		height: height,
		format: format,
	}

	d.BindTexture(texture2D, id)
	if err := CheckError(d); err != nil {
		t.Destroy()
		return nil, &Error{Op: op, Kind: KindDriverRejected, Err: fmt.Errorf("binding texture: %w", err)}
	}

	internal, upload := format.glFormats()
	d.PixelStorei(unpackAlignment, 1)
	d.TexImage2D(texture2D, 0, internal, width, height, upload, typeUnsignedByte, unsafe.Pointer(&data[0]))
	if err := CheckError(d); err != nil {
		t.Destroy()
		return nil, &Error{Op: op, Kind: KindDriverRejected, Err: fmt.Errorf("%w: %w", ErrUpload, err)}
	}

	d.TextureParameteri(id, textureMinFilter, filterLinear)
	d.TextureParameteri(id, textureMagFilter, filterLinear)
	d.TextureParameteri(id, textureWrapS, clampToEdge)
	d.TextureParameteri(id, textureWrapT, clampToEdge)

	// Red already reads red; only green and blue need remapping.
	if format == Grayscale || format == GrayscaleAlpha {
		d.TextureParameteri(id, textureSwizzleG, formatRed)
		d.TextureParameteri(id, textureSwizzleB, formatRed)
	}
	if format == GrayscaleAlpha {
		d.TextureParameteri(id, textureSwizzleA, formatGreen)
	}

	logger().Debug("texture uploaded",
		zap.Uint32("id", id),
		zap.Int32("width", width),
		zap.Int32("height", height),
		zap.Stringer("format", format),
	)
	return t, nil
}

func CreateTexture2DGrayscale(d Driver, width, height int32, data []byte) (*Texture, error) {
	return CreateTexture2D(d, width, height, Grayscale, data)
}

func CreateTexture2DGrayscaleAlpha(d Driver, width, height int32, data []byte) (*Texture, error) {
	return CreateTexture2D(d, width, height, GrayscaleAlpha, data)
}

func CreateTexture2DRGB(d Driver, width, height int32, data []byte) (*Texture, error) {
	return CreateTexture2D(d, width, height, RGB, data)
}

func CreateTexture2DRGBA(d Driver, width, height int32, data []byte) (*Texture, error) {
	return CreateTexture2D(d, width, height, RGBA, data)
}
