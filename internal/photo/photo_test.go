package photo

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/lensfolio/lensfolio/internal/cachemanager"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"me.png", true},
		{"me.JPG", true},
		{"me.jpeg", true},
		{"me.gif", true},
		{"me.webp", false},
		{"me", false},
		{"archive.png.zip", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, Allowed(tt.path))
		})
	}
}

func TestDecode_RendersPreview(t *testing.T) {
	path := writePNG(t, t.TempDir(), "me.png", 40, 20)

	p, err := NewDecoder(10, nil).Decode(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, "png", p.Format)
	require.Equal(t, "image/png", p.MIME)
	require.Equal(t, 40, p.Width)
	require.Equal(t, 20, p.Height)
	require.Contains(t, p.Caption(), "me.png")
	require.Contains(t, p.Caption(), "40×20")

	// 40×20 scaled into 10×10 is 10×5 pixels, so three half-block rows.
	lines := strings.Split(ansi.Strip(p.View()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, strings.Repeat("▀", 10), lines[0])
}

func TestDecode_RejectsExtension(t *testing.T) {
	_, err := NewDecoder(10, nil).Decode(context.Background(), "/tmp/notes.txt")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDecode_RejectsContentMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0o600))

	_, err := NewDecoder(10, nil).Decode(context.Background(), path)
	require.ErrorIs(t, err, ErrUnsupportedType)
}

// headerOnlyPNG returns a PNG whose header declares w×h RGBA pixels but
// which carries no image data.
func headerOnlyPNG(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(typ), data...)
		buf.Write(body)
		_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA
	chunk("IHDR", ihdr)
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestDecode_RejectsHugeDeclaredCanvas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	require.NoError(t, os.WriteFile(path, headerOnlyPNG(8000, 8000), 0o600))

	_, err := NewDecoder(24, nil).Decode(context.Background(), path)
	require.ErrorIs(t, err, ErrTooLarge)
	require.Contains(t, err.Error(), "8000×8000")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	ok := writePNG(t, dir, "me.png", 2, 2)
	info, err := Check(ok)
	require.NoError(t, err)
	require.Positive(t, info.Size())

	big := filepath.Join(dir, "big.jpg")
	f, err := os.Create(big)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxFileSize+1))
	require.NoError(t, f.Close())
	_, err = Check(big)
	require.ErrorIs(t, err, ErrTooLarge)

	folder := filepath.Join(dir, "album.png")
	require.NoError(t, os.Mkdir(folder, 0o750))
	_, err = Check(folder)
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Check(filepath.Join(dir, "notes.txt"))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Check(filepath.Join(dir, "gone.png"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode_MissingFile(t *testing.T) {
	_, err := NewDecoder(10, nil).Decode(context.Background(), filepath.Join(t.TempDir(), "gone.png"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode_CancelledContext(t *testing.T) {
	path := writePNG(t, t.TempDir(), "me.png", 4, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDecoder(10, nil).Decode(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDecode_UsesCache(t *testing.T) {
	path := writePNG(t, t.TempDir(), "me.png", 8, 8)
	cache := cachemanager.NewInMemoryCacheManager[string, *Preview]("previews",
		cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	d := NewDecoder(8, cache)

	first, err := d.Decode(context.Background(), path)
	require.NoError(t, err)
	second, err := d.Decode(context.Background(), path)
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, 1, cache.Len())
}

func TestScale_KeepsAspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 100))

	got := Scale(img, 30, 30).Bounds()
	require.Equal(t, 30, got.Dx())
	require.Equal(t, 10, got.Dy())
}

func TestScale_EmptyImage(t *testing.T) {
	got := Scale(image.NewRGBA(image.Rect(0, 0, 0, 0)), 10, 10)
	require.True(t, got.Bounds().Empty())
}

func TestPreview_NilSafe(t *testing.T) {
	var p *Preview
	require.Empty(t, p.View())
	require.Empty(t, p.Caption())
}
