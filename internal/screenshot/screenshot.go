// Package screenshot writes captured frames to PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/glkit/pkg/glutil"
	"github.com/Faultbox/glkit/pkg/glutil/imageload"
)

// Writer saves frames as <dir>/<prefix>_<timestamp>.png.
type Writer struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewWriter creates a writer. An empty dir writes to the working directory.
func NewWriter(dir, prefix string) *Writer {
	return &Writer{dir: dir, prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture would be written to.
func (w *Writer) Filename() string {
	name := fmt.Sprintf("%s_%s.png", w.prefix, w.now().Format("2006-01-02_15-04-05"))
	return filepath.Join(w.dir, name)
}

// SaveFramebuffer writes pixels read back from the framebuffer. Rows are
// expected bottom to top, as glReadPixels returns them, and are flipped in
// place before encoding.
func (w *Writer) SaveFramebuffer(px *imageload.Pixels) (string, error) {
	if want := px.Width * px.Height * px.Format.Channels(); len(px.Data) != want || want == 0 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", want, len(px.Data))
	}
	px.FlipVertical()

	img, err := toImage(px)
	if err != nil {
		return "", err
	}
	return w.SaveImage(img)
}

// SaveImage writes img as a PNG.
func (w *Writer) SaveImage(img image.Image) (string, error) {
	if w.dir != "" {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := w.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, file.Close()
}

func toImage(px *imageload.Pixels) (image.Image, error) {
	r := image.Rect(0, 0, px.Width, px.Height)
	switch px.Format {
	case glutil.RGBA:
		return &image.NRGBA{Pix: px.Data, Stride: px.Stride(), Rect: r}, nil
	case glutil.Grayscale:
		return &image.Gray{Pix: px.Data, Stride: px.Stride(), Rect: r}, nil
	case glutil.RGB:
		img := image.NewNRGBA(r)
		for i, j := 0, 0; i < len(px.Data); i, j = i+3, j+4 {
			img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = px.Data[i], px.Data[i+1], px.Data[i+2], 0xFF
		}
		return img, nil
	}
	return nil, fmt.Errorf("cannot encode %s pixels", px.Format)
}
