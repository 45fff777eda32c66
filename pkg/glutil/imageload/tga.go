package imageload

import (
	"fmt"

	"github.com/Faultbox/glkit/pkg/glutil"
)

// TGA image type constants.
const (
	TGATypeTrueColor    = 2  // Uncompressed true-color
	TGATypeGrayscale    = 3  // Uncompressed grayscale
	TGATypeTrueColorRLE = 10 // RLE compressed true-color
	TGATypeGrayscaleRLE = 11 // RLE compressed grayscale
)

const tgaHeaderSize = 18

// DecodeTGA decodes an uncompressed or RLE compressed TGA image straight
// into packed pixels. True-color images become RGB (24-bit) or RGBA (32-bit),
// grayscale images become Grayscale (8-bit) or GrayscaleAlpha (16-bit).
// Color-mapped images are not supported.
func DecodeTGA(data []byte) (*Pixels, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: TGA data too short", ErrDecode)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped TGA", ErrUnsupportedImage)
	}

	var format glutil.PixelFormat
	switch {
	case (imageType == TGATypeTrueColor || imageType == TGATypeTrueColorRLE) && bpp == 24:
		format = glutil.RGB
	case (imageType == TGATypeTrueColor || imageType == TGATypeTrueColorRLE) && bpp == 32:
		format = glutil.RGBA
	case (imageType == TGATypeGrayscale || imageType == TGATypeGrayscaleRLE) && bpp == 8:
		format = glutil.Grayscale
	case (imageType == TGATypeGrayscale || imageType == TGATypeGrayscaleRLE) && bpp == 16:
		format = glutil.GrayscaleAlpha
	default:
		return nil, fmt.Errorf("%w: TGA type %d with %d bits per pixel", ErrUnsupportedPixelFormat, imageType, bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: TGA has zero size", ErrDecode)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: TGA data truncated", ErrDecode)
	}
	src := data[offset:]
	bytesPerPixel := bpp / 8
	pixelCount := width * height
	rle := imageType == TGATypeTrueColorRLE || imageType == TGATypeGrayscaleRLE

	// The header is not trusted: check the payload can cover every pixel
	// before allocating. One RLE packet expands to at most 128 pixels.
	if int64(width)*int64(height) > MaxPixels {
		return nil, fmt.Errorf("%w: TGA is %dx%d, limit is %d pixels", ErrDecode, width, height, MaxPixels)
	}
	if !rle && len(src) < pixelCount*bytesPerPixel {
		return nil, fmt.Errorf("%w: TGA pixel data truncated", ErrDecode)
	}
	if rle && len(src)/(1+bytesPerPixel)*128 < pixelCount {
		return nil, fmt.Errorf("%w: TGA RLE data too short for %dx%d", ErrDecode, width, height)
	}

	// Stored bottom-up unless bit 5 of the descriptor is set.
	topToBottom := descriptor&0x20 != 0

	px := &Pixels{
		Width:  width,
		Height: height,
		Format: format,
		Data:   make([]byte, width*height*bytesPerPixel),
	}

	put := func(pixelIdx int, raw []byte) {
		x := pixelIdx % width
		y := pixelIdx / width
		if !topToBottom {
			y = height - 1 - y
		}
		dst := px.Data[(y*width+x)*bytesPerPixel:]
		if bytesPerPixel >= 3 {
			// BGR(A) on disk.
			dst[0], dst[1], dst[2] = raw[2], raw[1], raw[0]
			if bytesPerPixel == 4 {
				dst[3] = raw[3]
			}
			return
		}
		copy(dst[:bytesPerPixel], raw)
	}

	if !rle {
		for i := 0; i < pixelCount; i++ {
			put(i, src[i*bytesPerPixel:])
		}
		return px, nil
	}

	pixelIdx, dataIdx := 0, 0
	for pixelIdx < pixelCount {
		if dataIdx >= len(src) {
			return nil, fmt.Errorf("%w: TGA RLE data truncated at pixel %d", ErrDecode, pixelIdx)
		}
		packet := src[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated count times.
			if dataIdx+bytesPerPixel > len(src) {
				return nil, fmt.Errorf("%w: TGA RLE data truncated at pixel %d", ErrDecode, pixelIdx)
			}
			raw := src[dataIdx : dataIdx+bytesPerPixel]
			dataIdx += bytesPerPixel
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				put(pixelIdx, raw)
				pixelIdx++
			}
			continue
		}

		// Raw packet: count literal pixels.
		if dataIdx+count*bytesPerPixel > len(src) {
			return nil, fmt.Errorf("%w: TGA RLE data truncated at pixel %d", ErrDecode, pixelIdx)
		}
		for i := 0; i < count && pixelIdx < pixelCount; i++ {
			put(pixelIdx, src[dataIdx:])
			dataIdx += bytesPerPixel
			pixelIdx++
		}
	}

	return px, nil
}
