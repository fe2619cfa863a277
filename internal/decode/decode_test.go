package decode

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.RGBA) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))

	return path
}

func TestDecodePNG(t *testing.T) {
	t.Parallel()

	red := color.RGBA{R: 255, A: 255}
	path := writePNG(t, t.TempDir(), "red.png", 2, 3, red)

	img, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	require.Equal(t, 2, img.Width)
	require.Equal(t, 3, img.Height)
	require.Len(t, img.Pix, 2*3*4)
	require.Equal(t, uint8(255), img.Pix[0])
	require.Equal(t, uint8(0), img.Pix[1])
	require.Equal(t, uint8(255), img.Pix[3])
}

func TestDecodeSniffsFormatFromContents(t *testing.T) {
	t.Parallel()

	// A GIF stored under a .png name still decodes: the format comes from
	// the bytes, the allow-list only from the name.
	dir := t.TempDir()
	path := filepath.Join(dir, "really-a-gif.png")

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gif.Encode(file, src, nil))
	require.NoError(t, file.Close())

	img, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	require.Equal(t, 4, img.Width)
	require.Equal(t, 4, img.Height)
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	_, err := FileDecoder{}.Decode(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0644))

	_, err := FileDecoder{}.Decode(path)
	require.Error(t, err)
}

func TestDecodeMissingFile(t *testing.T) {
	t.Parallel()

	_, err := FileDecoder{}.Decode(filepath.Join(t.TempDir(), "absent.png"))
	require.Error(t, err)
}

func TestDecodeFS(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))))
	fsys := fstest.MapFS{
		"drop.png": &fstest.MapFile{Data: buf.Bytes()},
		"drop.txt": &fstest.MapFile{Data: []byte("hello")},
	}

	img, err := FileDecoder{}.DecodeFS(fsys, "drop.png")
	require.NoError(t, err)
	require.Equal(t, 3, img.Width)
	require.Equal(t, 2, img.Height)

	_, err = FileDecoder{}.DecodeFS(fsys, "drop.txt")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = FileDecoder{}.DecodeFS(fsys, "missing.png")
	require.Error(t, err)
}

func TestIsSupported(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"a.jpg", "b.JPEG", "c.png", "d.GIF", "e.bmp", "/some/dir/f.Png"} {
		require.True(t, IsSupported(path), path)
	}
	for _, path := range []string{"a.txt", "b.webp", "c.tiff", "noext", "dir/.png/x"} {
		require.False(t, IsSupported(path), path)
	}
}
