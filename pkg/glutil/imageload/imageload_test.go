package imageload

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/Faultbox/glkit/pkg/glutil"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	path := filepath.Join(t.TempDir(), "img.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing png: %v", err)
	}
	return path
}

func TestLoadGrayPNG(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 10)
	}

	px, err := Load(writePNG(t, img))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if px.Format != glutil.Grayscale || px.Width != 3 || px.Height != 2 {
		t.Fatalf("unexpected pixels %dx%d %s", px.Width, px.Height, px.Format)
	}
	if !bytes.Equal(px.Data, img.Pix) {
		t.Errorf("expected %v, got %v", img.Pix, px.Data)
	}
}

func TestLoadNRGBAPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 128})
	img.SetNRGBA(1, 1, color.NRGBA{G: 200, B: 10, A: 255})

	px, err := Load(writePNG(t, img))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if px.Format != glutil.RGBA {
		t.Fatalf("expected RGBA, got %s", px.Format)
	}
	if !bytes.Equal(px.Data[:4], []byte{255, 0, 0, 128}) {
		t.Errorf("alpha must not be premultiplied, got %v", px.Data[:4])
	}
	if !bytes.Equal(px.Data[12:], []byte{0, 200, 10, 255}) {
		t.Errorf("unexpected last pixel %v", px.Data[12:])
	}
}

func TestLoadPalettedPNG(t *testing.T) {
	opaque := color.Palette{color.RGBA{0, 0, 0, 255}, color.RGBA{10, 20, 30, 255}}
	img := image.NewPaletted(image.Rect(0, 0, 2, 1), opaque)
	img.SetColorIndex(1, 0, 1)

	px, err := Load(writePNG(t, img))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if px.Format != glutil.RGB {
		t.Fatalf("opaque palette should decode to RGB, got %s", px.Format)
	}
	if !bytes.Equal(px.Data, []byte{0, 0, 0, 10, 20, 30}) {
		t.Errorf("unexpected data %v", px.Data)
	}

	transparent := color.Palette{color.NRGBA{0, 0, 0, 0}, color.NRGBA{10, 20, 30, 255}}
	img = image.NewPaletted(image.Rect(0, 0, 2, 1), transparent)
	px, err = Load(writePNG(t, img))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if px.Format != glutil.RGBA {
		t.Errorf("palette with transparency should decode to RGBA, got %s", px.Format)
	}
}

func TestDecodeJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}

	px, err := Decode(&buf, "photo.jpg")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if px.Format != glutil.RGB || len(px.Data) != 8*8*3 {
		t.Errorf("expected 8x8 RGB, got %s with %d bytes", px.Format, len(px.Data))
	}
}

func TestLoadRejects16Bit(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 2, 2))
	_, err := Load(writePNG(t, img))
	if !errors.Is(err, ErrUnsupportedPixelFormat) {
		t.Errorf("expected ErrUnsupportedPixelFormat, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want error
	}{
		{"text", "notes.txt", []byte("just some text, not an image"), ErrDecode},
		{"empty", "empty.png", nil, ErrDecode},
		{"zip", "archive.zip", append([]byte("PK\x03\x04"), make([]byte, 64)...), ErrUnsupportedImage},
		{"exr", "hdr.exr", append([]byte{0x76, 0x2f, 0x31, 0x01}, make([]byte, 64)...), ErrUnsupportedPixelFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data), tt.file)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	// Rewrite the IHDR dimensions to 100000x100000 and fix its CRC.
	data := buf.Bytes()
	binary.BigEndian.PutUint32(data[16:20], 100000)
	binary.BigEndian.PutUint32(data[20:24], 100000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	_, err := Decode(bytes.NewReader(data), "huge.png")
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestFlipVertical(t *testing.T) {
	px := &Pixels{Width: 2, Height: 3, Format: glutil.Grayscale, Data: []byte{1, 2, 3, 4, 5, 6}}
	px.FlipVertical()
	if !bytes.Equal(px.Data, []byte{5, 6, 3, 4, 1, 2}) {
		t.Errorf("unexpected data after flip %v", px.Data)
	}
}

// uploadDriver records the texture upload; every other Driver method
// panics through the nil embedded interface.
type uploadDriver struct {
	glutil.Driver
	nextID    uint32
	width     int32
	height    int32
	uploaded  bool
	texParams int
}

func (d *uploadDriver) GetError() uint32 { return 0 }

func (d *uploadDriver) GenTexture() uint32 {
	d.nextID++
	return d.nextID
}

func (d *uploadDriver) BindTexture(target, texture uint32) {}

func (d *uploadDriver) PixelStorei(pname uint32, param int32) {}

func (d *uploadDriver) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	d.width, d.height = width, height
	d.uploaded = pixels != nil
}

func (d *uploadDriver) TextureParameteri(texture, pname uint32, param int32) { d.texParams++ }

func (d *uploadDriver) DeleteTexture(texture uint32) {}

func TestCreateTextureFromFile(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 2))
	d := &uploadDriver{}

	tex, err := CreateTextureFromFile(d, writePNG(t, img))
	if err != nil {
		t.Fatalf("CreateTextureFromFile failed: %v", err)
	}
	defer tex.Destroy()

	if w, h := tex.Size(); w != 4 || h != 2 {
		t.Errorf("expected 4x2 texture, got %dx%d", w, h)
	}
	if tex.Format() != glutil.Grayscale {
		t.Errorf("expected Grayscale, got %s", tex.Format())
	}
	if !d.uploaded || d.width != 4 || d.height != 2 {
		t.Errorf("expected 4x2 upload, got %dx%d", d.width, d.height)
	}
	// Filtering, wrapping and the grayscale swizzle.
	if d.texParams != 6 {
		t.Errorf("expected 6 texture parameters, got %d", d.texParams)
	}
}

func TestCreateTextureFromFileDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateTextureFromFile(&uploadDriver{}, path); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestCheckerboard(t *testing.T) {
	px := Checkerboard(4, 4, 2)
	if px.Format != glutil.Grayscale || len(px.Data) != 16 {
		t.Fatalf("unexpected pixels %s with %d bytes", px.Format, len(px.Data))
	}
	want := []byte{
		0x30, 0x30, 0xD0, 0xD0,
		0x30, 0x30, 0xD0, 0xD0,
		0xD0, 0xD0, 0x30, 0x30,
		0xD0, 0xD0, 0x30, 0x30,
	}
	if !bytes.Equal(px.Data, want) {
		t.Errorf("expected %v, got %v", want, px.Data)
	}
}
