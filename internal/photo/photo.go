// Package photo stages profile photos and renders them as terminal previews.
package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"

	"github.com/lensfolio/lensfolio/internal/cachemanager"
	"github.com/lensfolio/lensfolio/internal/log"
)

// MaxFileSize caps the size of a staged photo.
const MaxFileSize = 10 << 20

// MaxPixels caps the canvas a photo may declare. Decoding allocates the
// whole canvas, so headers are checked before any pixel data is read.
const MaxPixels = 40_000_000

// DefaultPreviewWidth is the preview width in terminal cells.
const DefaultPreviewWidth = 24

var (
	// ErrUnsupportedType is returned for files whose extension or content is
	// not one of the accepted image formats.
	ErrUnsupportedType = errors.New("unsupported photo type")
	// ErrTooLarge is returned for files over MaxFileSize and for images
	// declaring more than MaxPixels.
	ErrTooLarge = errors.New("photo too large")
)

// allowedExtensions mirrors what the registration service accepts.
var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

var allowedMIME = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// Allowed reports whether path has an accepted image extension.
func Allowed(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return allowedExtensions[ext]
}

// Check reports whether the file at path may be staged and uploaded: an
// accepted extension, an existing regular file, and at most MaxFileSize.
func Check(path string) (os.FileInfo, error) {
	if !Allowed(path) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedType)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat photo: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file: %w", filepath.Base(path), ErrUnsupportedType)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%s is %d bytes: %w", filepath.Base(path), info.Size(), ErrTooLarge)
	}
	return info, nil
}

// DetectMIME sniffs the content type of data.
func DetectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}

// Preview is a decoded, display-ready rendering of a staged photo.
type Preview struct {
	Path     string
	MIME     string
	Format   string
	Width    int // source pixels
	Height   int // source pixels
	Size     int64
	Rendered string
}

// View returns the rendered preview.
func (p *Preview) View() string {
	if p == nil {
		return ""
	}
	return p.Rendered
}

// Caption is a one-line description such as "portrait.jpg · 1200×800 · jpeg".
func (p *Preview) Caption() string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%s · %d×%d · %s", filepath.Base(p.Path), p.Width, p.Height, p.Format)
}

// Decoder turns photo files into previews. Results are cached per file
// version, so re-staging an unchanged file is free.
type Decoder struct {
	width int
	rt    *cachemanager.ReadThroughCache[string, *Preview, string]
}

// NewDecoder creates a decoder that renders previews width cells wide.
// cache may be nil to disable caching.
func NewDecoder(width int, cache cachemanager.CacheManager[string, *Preview]) *Decoder {
	if width <= 0 {
		width = DefaultPreviewWidth
	}
	d := &Decoder{width: width}
	d.rt = cachemanager.NewReadThroughCache(cache, d.decode)
	return d
}

// Decode reads and renders the photo at path.
func (d *Decoder) Decode(ctx context.Context, path string) (*Preview, error) {
	info, err := Check(path)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s|%d|%d|%d", path, info.Size(), info.ModTime().UnixNano(), d.width)
	return d.rt.Get(ctx, key, path, 0)
}

func (d *Decoder) decode(ctx context.Context, path string) (*Preview, error) {
	start := time.Now()

	data, err := os.ReadFile(path) //nolint:gosec // G304: user-selected photo
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mime := DetectMIME(data)
	if !allowedMIME[mime] {
		return nil, fmt.Errorf("%s looks like %s: %w", filepath.Base(path), mime, ErrUnsupportedType)
	}

	hdr, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo header: %w", err)
	}
	if int64(hdr.Width)*int64(hdr.Height) > MaxPixels {
		return nil, fmt.Errorf("%s declares %d×%d pixels: %w",
			filepath.Base(path), hdr.Width, hdr.Height, ErrTooLarge)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	p := &Preview{
		Path:     path,
		MIME:     mime,
		Format:   format,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Size:     int64(len(data)),
		Rendered: Render(img, d.width),
	}

	log.Debug(log.CatPhoto, "decoded preview", "path", path, "format", format,
		"width", p.Width, "height", p.Height, "took", time.Since(start))
	return p, nil
}

// Scale resizes img to fit within maxW×maxH, keeping its aspect ratio.
func Scale(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || maxW <= 0 || maxH <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	ratio := float64(b.Dx()) / float64(b.Dy())
	w, h := maxW, maxH
	if float64(maxW)/float64(maxH) > ratio {
		w = max(1, int(float64(maxH)*ratio))
	} else {
		h = max(1, int(float64(maxW)/ratio))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Render draws img as half-block cells: each cell shows two vertically
// stacked pixels, the upper one as foreground and the lower as background.
func Render(img image.Image, width int) string {
	// Cells are roughly twice as tall as wide, and each holds two pixel rows,
	// so the pixel grid is width × width.
	scaled := Scale(img, width, width)
	b := scaled.Bounds()

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hex(scaled.At(x, y)))
			if y+1 < b.Max.Y {
				style = style.Background(hex(scaled.At(x, y+1)))
			}
			sb.WriteString(style.Render("▀"))
		}
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hex(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8))
}
