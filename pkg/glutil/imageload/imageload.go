// Package imageload decodes image files into tightly packed 8-bit pixels
// that glutil.CreateTexture2D accepts.
//
// PNG, JPEG and GIF are decoded by the standard library, BMP, TIFF and WebP
// by golang.org/x/image, and TGA (which has no magic number) is picked by
// file extension. Other files are sniffed with h2non/filetype.
package imageload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration

	"github.com/Faultbox/glkit/pkg/glutil"
)

var (
	// ErrDecode is returned for data that cannot be decoded as an image.
	ErrDecode = errors.New("cannot decode image")
	// ErrUnsupportedImage is returned for files that are recognised but
	// cannot be decoded here (other file types, HEIF, PSD, ...).
	ErrUnsupportedImage = errors.New("unsupported image type")
	// ErrUnsupportedPixelFormat is returned for images that decode but do
	// not map onto an 8-bit glutil.PixelFormat (16-bit, floating point).
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
)

// Pixels is decoded image data with rows stored top to bottom and no
// padding between rows.
type Pixels struct {
	Width  int
	Height int
	Format glutil.PixelFormat
	Data   []byte
}

func newPixels(width, height int, format glutil.PixelFormat) *Pixels {
	return &Pixels{
		Width:  width,
		Height: height,
		Format: format,
		Data:   make([]byte, width*height*format.Channels()),
	}
}

// Stride returns the length of one row in bytes.
func (p *Pixels) Stride() int {
	return p.Width * p.Format.Channels()
}

// Row returns row y.
func (p *Pixels) Row(y int) []byte {
	s := p.Stride()
	return p.Data[y*s : (y+1)*s]
}

// FlipVertical reverses the row order in place. GL expects the first row
// to be the bottom of the image.
func (p *Pixels) FlipVertical() {
	tmp := make([]byte, p.Stride())
	for top, bottom := 0, p.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		copy(tmp, p.Row(top))
		copy(p.Row(top), p.Row(bottom))
		copy(p.Row(bottom), tmp)
	}
}

// Upload creates a 2D texture from the pixels.
func (p *Pixels) Upload(d glutil.Driver) (*glutil.Texture, error) {
	return glutil.CreateTexture2D(d, int32(p.Width), int32(p.Height), p.Format, p.Data)
}

// Load decodes the image file at path.
func Load(path string) (*Pixels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()

	px, err := Decode(f, path)
	if err != nil {
		return nil, fmt.Errorf("loading image %s: %w", path, err)
	}
	return px, nil
}

// CreateTextureFromFile loads the image at path and uploads it as a 2D
// texture. Rows are uploaded top to bottom as stored in the file.
func CreateTextureFromFile(d glutil.Driver, path string) (*glutil.Texture, error) {
	px, err := Load(path)
	if err != nil {
		return nil, err
	}
	return px.Upload(d)
}

// MaxPixels bounds width*height of a decoded image, the area of a
// 16384x16384 texture. Larger headers are rejected before any pixel
// buffer is allocated.
const MaxPixels = 16384 * 16384

var decodable = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
	"image/webp": true,
}

// Decode decodes an image from r. name is only used to recognise TGA files
// by extension.
func Decode(r io.Reader, name string) (*Pixels, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	// TGA headers can collide with other formats' magic numbers.
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}

	kind, _ := filetype.Match(data)
	switch {
	case kind == filetype.Unknown:
		// Let image.DecodeConfig report the failure.
	case kind.Extension == "exr":
		return nil, fmt.Errorf("%w: floating-point %s", ErrUnsupportedPixelFormat, kind.MIME.Value)
	case !decodable[kind.MIME.Value]:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, kind.MIME.Value)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: image is %dx%d, limit is %d pixels", ErrDecode, cfg.Width, cfg.Height, MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return FromImage(img)
}

// FromImage converts a decoded image into packed pixels.
//
//	*image.Gray                      -> Grayscale
//	*image.YCbCr, *image.CMYK        -> RGB
//	*image.Paletted                  -> RGB, or RGBA if the palette has transparency
//	*image.NRGBA, *image.RGBA, other -> RGBA (non-premultiplied)
//
// 16-bit images are rejected with ErrUnsupportedPixelFormat.
func FromImage(img image.Image) (*Pixels, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	switch src := img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64, *image.Alpha16:
		return nil, fmt.Errorf("%w: 16-bit %T", ErrUnsupportedPixelFormat, img)
	case *image.Alpha:
		return nil, fmt.Errorf("%w: alpha-only image", ErrUnsupportedPixelFormat)
	case *image.Gray:
		px := newPixels(b.Dx(), b.Dy(), glutil.Grayscale)
		for y := 0; y < px.Height; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(px.Row(y), src.Pix[i:i+px.Width])
		}
		return px, nil
	case *image.NRGBA:
		px := newPixels(b.Dx(), b.Dy(), glutil.RGBA)
		for y := 0; y < px.Height; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(px.Row(y), src.Pix[i:i+px.Width*4])
		}
		return px, nil
	case *image.YCbCr, *image.CMYK:
		return toRGB(img), nil
	case *image.Paletted:
		if opaquePalette(src.Palette) {
			return toRGB(img), nil
		}
		return toRGBA(img), nil
	default:
		return toRGBA(img), nil
	}
}

func opaquePalette(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return false
		}
	}
	return true
}

func toRGB(img image.Image) *Pixels {
	b := img.Bounds()
	px := newPixels(b.Dx(), b.Dy(), glutil.RGB)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			px.Data[i] = uint8(r >> 8)
			px.Data[i+1] = uint8(g >> 8)
			px.Data[i+2] = uint8(bl >> 8)
			i += 3
		}
	}
	return px
}

func toRGBA(img image.Image) *Pixels {
	b := img.Bounds()
	px := newPixels(b.Dx(), b.Dy(), glutil.RGBA)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px.Data[i] = c.R
			px.Data[i+1] = c.G
			px.Data[i+2] = c.B
			px.Data[i+3] = c.A
			i += 4
		}
	}
	return px
}

// Checkerboard returns a grayscale pattern of alternating dark and light
// cells of the given size in pixels.
func Checkerboard(width, height, cell int) *Pixels {
	px := newPixels(width, height, glutil.Grayscale)
	if cell <= 0 {
		cell = 1
	}
	for y := 0; y < height; y++ {
		row := px.Row(y)
		for x := range row {
			if (x/cell+y/cell)%2 == 0 {
				row[x] = 0x30
			} else {
				row[x] = 0xD0
			}
		}
	}
	return px
}
