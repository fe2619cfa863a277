package decode

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned for paths whose extension is not in the
// viewer's allow-list.
var ErrUnsupportedFormat = fmt.Errorf("unsupported image format")

// Image is a fully decoded picture: an RGBA8 pixel buffer plus its
// dimensions. Values are immutable once produced; the cache hands out the
// same pointer to every consumer.
type Image struct {
	Pix    []uint8
	Width  int
	Height int
}

// Decoder turns an image source into a decoded image. Sources are either
// filesystem paths or entries of a virtual filesystem; OS drop payloads
// arrive as the latter and only surface entry names, not real paths.
type Decoder interface {
	Decode(path string) (*Image, error)
	DecodeFS(fsys fs.FS, name string) (*Image, error)
}

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// IsSupported reports whether the path has a viewable extension. The check
// is case-insensitive and purely name-based; it never touches the file.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extensions returns the allow-list in no particular order.
func Extensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	return exts
}

// FileDecoder decodes images using the registered stdlib and x/image
// codecs, sniffing the actual format from the file contents.
type FileDecoder struct{}

func (FileDecoder) Decode(path string) (*Image, error) {
	if !IsSupported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	return decodeReader(file, path)
}

func (FileDecoder) DecodeFS(fsys fs.FS, name string) (*Image, error) {
	if !IsSupported(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}

	file, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open dropped file: %w", err)
	}
	defer file.Close()

	return decodeReader(file, name)
}

func decodeReader(r io.Reader, name string) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(name), err)
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	return &Image{
		Pix:    rgba.Pix,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
