package viewer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ferrite/internal/cache"
	"ferrite/internal/decode"
)

const (
	zoomSensitivity = 0.001
	minScale        = 0.1
	maxScale        = 10.0
)

// Vec is a 2D offset in screen pixels.
type Vec struct {
	X float64
	Y float64
}

// Texture is a renderer-owned resource derived from a decoded image. It is
// rebuilt whole whenever the active image changes, never patched in place.
type Texture interface {
	Size() (width, height int)
}

// TextureFactory synthesizes a renderer texture from a decoded image.
type TextureFactory func(img *decode.Image) (Texture, error)

// LoadStatus classifies the result of a load request.
type LoadStatus int

const (
	Displayed LoadStatus = iota
	NotFound
	DecodeFailed
)

func (s LoadStatus) String() string {
	switch s {
	case Displayed:
		return "displayed"
	case NotFound:
		return "not_found"
	case DecodeFailed:
		return "decode_failed"
	default:
		return "unknown"
	}
}

// LoadOutcome is the result of LoadImage. Err is set for NotFound and
// DecodeFailed; nothing ever propagates past it.
type LoadOutcome struct {
	Status LoadStatus
	Err    error
}

// Stats is the read-only diagnostics snapshot for the overlay.
type Stats struct {
	CacheLen   int
	CacheCap   int
	Scale      float64
	ActiveFile string
}

// Controller owns the decoded-image cache and the transient display state
// for the single active image. The view only ever holds the active key,
// never a reference into the cache, so eviction of the active entry is
// tolerated and repaired by a fresh decode at render time.
type Controller struct {
	cache   *cache.ImageCache
	decoder decode.Decoder
	logger  *zap.Logger

	activePath string
	// activeFS is the drop payload the active image came from; nil when it
	// was loaded from a regular path. Kept so a stale re-decode reads from
	// the same source.
	activeFS fs.FS
	texture  Texture
	scale    float64
	offset   Vec
}

func New(imageCache *cache.ImageCache, decoder decode.Decoder, logger *zap.Logger) *Controller {
	return &Controller{
		cache:   imageCache,
		decoder: decoder,
		logger:  logger,
		scale:   1.0,
	}
}

// LoadImage makes the file at path the active image. The cache is
// consulted before any decode work; a hit skips disk entirely. On any
// failure the previously displayed image, transform and texture are left
// untouched.
func (v *Controller) LoadImage(path string) LoadOutcome {
	return v.load(path, nil)
}

// LoadDropped makes an entry of a drop payload the active image. Drop
// sources only surface entry names, so the name doubles as the cache key
// and the existence check runs against the payload filesystem.
func (v *Controller) LoadDropped(fsys fs.FS, name string) LoadOutcome {
	return v.load(name, fsys)
}

func (v *Controller) load(path string, fsys fs.FS) LoadOutcome {
	log := v.logger.With(
		zap.String("load_id", uuid.New().String()),
		zap.String("path", path),
	)

	if err := statSource(path, fsys); err != nil {
		log.Warn("Image path does not exist", zap.Error(err))
		return LoadOutcome{Status: NotFound, Err: err}
	}

	if _, ok := v.cache.Get(path); ok {
		log.Info("Image found in cache")
	} else {
		decoded, err := v.decodeSource(path, fsys)
		if err != nil {
			log.Warn("Failed to decode image", zap.Error(err))
			return LoadOutcome{Status: DecodeFailed, Err: err}
		}

		v.cache.Put(path, decoded)
		log.Info("Image decoded",
			zap.Int("width", decoded.Width),
			zap.Int("height", decoded.Height),
		)
	}

	v.activePath = path
	v.activeFS = fsys
	v.texture = nil
	v.scale = 1.0
	v.offset = Vec{}

	return LoadOutcome{Status: Displayed}
}

func statSource(path string, fsys fs.FS) error {
	if fsys != nil {
		_, err := fs.Stat(fsys, path)
		return err
	}
	_, err := os.Stat(path)
	return err
}

func (v *Controller) decodeSource(path string, fsys fs.FS) (*decode.Image, error) {
	if fsys != nil {
		return v.decoder.DecodeFS(fsys, path)
	}
	return v.decoder.Decode(path)
}

// EnsureTexture returns the texture for the active image, building it on
// first use after a load. The decoded pixels are re-fetched from the cache
// each time a build is needed; if later loads evicted the active entry, the
// image is decoded from its source again and re-inserted rather than
// failing. Returns (nil, nil) when no image is active.
func (v *Controller) EnsureTexture(build TextureFactory) (Texture, error) {
	if v.activePath == "" {
		return nil, nil
	}
	if v.texture != nil {
		return v.texture, nil
	}

	img, ok := v.cache.Get(v.activePath)
	if !ok {
		decoded, err := v.decodeSource(v.activePath, v.activeFS)
		if err != nil {
			return nil, fmt.Errorf("failed to restore evicted image %s: %w", v.activePath, err)
		}

		v.logger.Info("Re-decoded evicted active image", zap.String("path", v.activePath))
		v.cache.Put(v.activePath, decoded)
		img = decoded
	}

	tex, err := build(img)
	if err != nil {
		return nil, fmt.Errorf("failed to build texture: %w", err)
	}

	v.texture = tex
	return tex, nil
}

// Zoom applies a scroll delta to the scale, clamped to [0.1, 10.0]. When
// the pointer position is known, the offset is compensated with the
// pre-clamp zoom factor so the point under the pointer stays visually
// fixed; with no pointer the scale changes alone.
func (v *Controller) Zoom(scrollDelta float64, pointer *Vec, viewportCenter Vec) {
	if scrollDelta == 0 {
		return
	}

	factor := 1.0 - scrollDelta*zoomSensitivity
	next := clamp(v.scale*factor, minScale, maxScale)

	if pointer != nil {
		v.offset.X = (pointer.X-viewportCenter.X)*(1.0-factor) + v.offset.X
		v.offset.Y = (pointer.Y-viewportCenter.Y)*(1.0-factor) + v.offset.Y
	}

	v.scale = next
}

// Drag accumulates a pan delta. The offset is unbounded; panning past the
// image edges is allowed.
func (v *Controller) Drag(delta Vec) {
	v.offset.X += delta.X
	v.offset.Y += delta.Y
}

// HandleDropped applies the drop policy to a drop payload: only the first
// entry is considered, and only when its extension is on the allow-list.
// Anything else is ignored without touching the current view.
func (v *Controller) HandleDropped(fsys fs.FS, names []string) {
	if len(names) == 0 {
		return
	}

	first := names[0]
	if !decode.IsSupported(first) {
		v.logger.Debug("Ignoring dropped file", zap.String("name", first))
		return
	}

	v.LoadDropped(fsys, first)
}

// ActivePath returns the key of the active image, or "" when none.
func (v *Controller) ActivePath() string {
	return v.activePath
}

// Scale returns the current zoom factor.
func (v *Controller) Scale() float64 {
	return v.scale
}

// Offset returns the current pan offset.
func (v *Controller) Offset() Vec {
	return v.offset
}

// Stats reads the diagnostics snapshot. It never mutates state.
func (v *Controller) Stats() Stats {
	s := Stats{
		CacheLen: v.cache.Len(),
		CacheCap: v.cache.Capacity(),
		Scale:    v.scale,
	}
	if v.activePath != "" {
		s.ActiveFile = filepath.Base(v.activePath)
	}

	return s
}

func clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
