package ui

import (
	"fmt"
	"image"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"ferrite/internal/decode"
	"ferrite/internal/image_list"
	"ferrite/internal/viewer"
)

// One wheel notch arrives from ebiten as ±1, but the zoom contract expects
// scroll deltas in points, roughly one text line per notch.
const scrollPointsPerNotch = 50.0

func scrollDeltaPoints(notches float64) float64 {
	return notches * scrollPointsPerNotch
}

// texture wraps the GPU image handed out by ebiten so the controller can
// stay free of renderer types.
type texture struct {
	img *ebiten.Image
}

func (t *texture) Size() (int, int) {
	bounds := t.img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

func newTexture(img *decode.Image) (viewer.Texture, error) {
	rgba := &image.RGBA{
		Pix:    img.Pix,
		Stride: 4 * img.Width,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
	return &texture{img: ebiten.NewImageFromImage(rgba)}, nil
}

// App is the per-frame glue between the window and the view controller.
// All state transitions happen synchronously inside Update/Draw on the UI
// thread; an idle frame is a no-op beyond re-rendering.
type App struct {
	controller *viewer.Controller
	scanner    *image_list.Scanner
	logger     *zap.Logger

	width      int
	height     int
	showStats  bool
	dragging   bool
	lastCursor viewer.Vec

	// textureErrLogged latches the warning for textureErrPath so a
	// persistent texture failure does not warn on every frame.
	textureErrLogged bool
	textureErrPath   string
}

func New(controller *viewer.Controller, scanner *image_list.Scanner, logger *zap.Logger) *App {
	return &App{
		controller: controller,
		scanner:    scanner,
		logger:     logger,
	}
}

func (a *App) Update() error {
	a.handleDrops()
	a.handleNavigation()
	a.handleZoom()
	a.handleDrag()

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.showStats = !a.showStats
	}

	return nil
}

func (a *App) handleDrops() {
	dropped := ebiten.DroppedFiles()
	if dropped == nil {
		return
	}

	entries, err := fs.ReadDir(dropped, ".")
	if err != nil {
		a.logger.Warn("Failed to read dropped files", zap.Error(err))
		return
	}

	// Entry names are base names, not paths; the payload filesystem is the
	// only way to reach the bytes, so it travels with them.
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	a.controller.HandleDropped(dropped, names)
}

func (a *App) handleNavigation() {
	active := a.controller.ActivePath()
	if active == "" {
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		if prev, _ := a.scanner.Neighbors(active); prev != "" {
			a.controller.LoadImage(prev)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		if _, next := a.scanner.Neighbors(active); next != "" {
			a.controller.LoadImage(next)
		}
	}
}

func (a *App) handleZoom() {
	_, dy := ebiten.Wheel()
	if dy == 0 {
		return
	}

	center := viewer.Vec{X: float64(a.width) / 2, Y: float64(a.height) / 2}

	cx, cy := ebiten.CursorPosition()
	var pointer *viewer.Vec
	if cx >= 0 && cy >= 0 && cx < a.width && cy < a.height {
		pointer = &viewer.Vec{X: float64(cx), Y: float64(cy)}
	}

	a.controller.Zoom(scrollDeltaPoints(dy), pointer, center)
}

func (a *App) handleDrag() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		a.dragging = false
		return
	}

	cx, cy := ebiten.CursorPosition()
	cursor := viewer.Vec{X: float64(cx), Y: float64(cy)}

	if a.dragging {
		a.controller.Drag(viewer.Vec{
			X: cursor.X - a.lastCursor.X,
			Y: cursor.Y - a.lastCursor.Y,
		})
	}

	a.dragging = true
	a.lastCursor = cursor
}

func (a *App) Draw(screen *ebiten.Image) {
	tex, err := a.controller.EnsureTexture(newTexture)
	if err != nil {
		a.logTextureFailure(err)
	} else {
		a.textureErrLogged = false
		if tex != nil {
			a.drawImage(screen, tex.(*texture))
		}
	}

	if a.showStats {
		s := a.controller.Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"cache %d/%d\nzoom %.2fx\nfile %s",
			s.CacheLen, s.CacheCap, s.Scale, s.ActiveFile,
		))
	}
}

// logTextureFailure warns once per active key; Draw runs every frame and a
// missing source file would otherwise flood the log.
func (a *App) logTextureFailure(err error) {
	active := a.controller.ActivePath()
	if a.textureErrLogged && a.textureErrPath == active {
		return
	}

	a.textureErrLogged = true
	a.textureErrPath = active
	a.logger.Warn("Failed to synthesize texture",
		zap.String("path", active),
		zap.Error(err),
	)
}

func (a *App) drawImage(screen *ebiten.Image, tex *texture) {
	scale := a.controller.Scale()
	offset := a.controller.Offset()
	w, h := tex.Size()
	bounds := screen.Bounds()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(
		(float64(bounds.Dx())-float64(w)*scale)/2+offset.X,
		(float64(bounds.Dy())-float64(h)*scale)/2+offset.Y,
	)
	screen.DrawImage(tex.img, op)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.width = outsideWidth
	a.height = outsideHeight
	return outsideWidth, outsideHeight
}
