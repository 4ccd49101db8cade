package window

import (
	"image"
	"strings"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ebitenGame adapts an engineWindow to the ebiten game loop.
// Reference: https://pkg.go.dev/github.com/hajimehoshi/ebiten/v2#Game
type ebitenGame struct {
	w *engineWindow

	keys []ebiten.Key

	imageVersion    uint64
	image           *ebiten.Image
	backdropVersion uint64
	backdrop        *ebiten.Image
}

var _ ebiten.Game = &ebitenGame{}

func runPlatformWindow(w *engineWindow) error {
	w.mu.Lock()
	title, width, height, tps := w.title, w.width, w.height, w.tickRate
	minW, minH, maxW, maxH := w.minWidth, w.minHeight, w.maxWidth, w.maxHeight
	w.mu.Unlock()

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowSizeLimits(minW, minH, maxW, maxH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)
	return ebiten.RunGame(&ebitenGame{w: w})
}

func (g *ebitenGame) Update() error {
	w := g.w
	w.mu.Lock()
	closing := w.closing
	onUpdate, onScroll, onKeyDown, onKeyUp, onDrag := w.onUpdate, w.onScroll, w.onKeyDown, w.onKeyUp, w.onDrag
	w.mu.Unlock()
	if closing {
		return ebiten.Termination
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		if k == ebiten.KeyEscape {
			_ = w.Close()
			return ebiten.Termination
		}
		if code, ok := keyCode(k); ok && onKeyDown != nil {
			onKeyDown(code)
		}
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		if code, ok := keyCode(k); ok && onKeyUp != nil {
			onKeyUp(code)
		}
	}

	if _, dy := ebiten.Wheel(); dy != 0 && onScroll != nil {
		onScroll(float32(dy))
	}

	x, y := ebiten.CursorPosition()
	w.mu.Lock()
	dx, dy, moved := w.drag.update(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), x, y)
	w.mu.Unlock()
	if moved && onDrag != nil {
		onDrag(dx, dy, heldModifiers())
	}

	if onUpdate != nil {
		onUpdate()
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	w := g.w
	w.mu.Lock()
	img, imgVersion := w.image, w.imageVersion
	bd, bdVersion := w.backdrop, w.backdropVersion
	w.mu.Unlock()

	g.backdrop = upload(g.backdrop, bd, &g.backdropVersion, bdVersion)
	g.image = upload(g.image, img, &g.imageVersion, imgVersion)

	if g.backdrop != nil {
		screen.DrawImage(g.backdrop, nil)
	}
	if g.image == nil {
		return
	}
	b := g.image.Bounds()
	sb := screen.Bounds()
	scale, x, y := fitRect(b.Dx(), b.Dy(), sb.Dx(), sb.Dy())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	if scale < 1 {
		op.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(g.image, op)
}

// Layout keeps one screen pixel per window pixel and reports size changes.
func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if onResize, changed := g.w.resize(outsideWidth, outsideHeight); changed && onResize != nil {
		onResize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// upload replaces cached with a GPU copy of src when the version moved on.
func upload(cached *ebiten.Image, src image.Image, have *uint64, want uint64) *ebiten.Image {
	if *have == want {
		return cached
	}
	*have = want
	if cached != nil {
		cached.Deallocate()
	}
	if src == nil || src.Bounds().Empty() {
		return nil
	}
	return ebiten.NewImageFromImage(src)
}

func heldModifiers() common.Modifier {
	mods := common.ModNone
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= common.ModControl
	}
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= common.ModShift
	}
	return mods
}

// keyCode maps an ebiten key onto the virtual key codes in common. Letters and digits map to
// their ASCII values; ebiten orders its key enum by name, so they are matched by name.
func keyCode(k ebiten.Key) (uint32, bool) {
	name := strings.TrimPrefix(k.String(), "Digit")
	if len(name) == 1 && (name[0] >= 'A' && name[0] <= 'Z' || name[0] >= '0' && name[0] <= '9') {
		return uint32(name[0]), true
	}
	switch k {
	case ebiten.KeyEscape:
		return common.KeyEsc, true
	case ebiten.KeyArrowLeft:
		return common.KeyLeft, true
	case ebiten.KeyArrowRight:
		return common.KeyRight, true
	case ebiten.KeyArrowUp:
		return common.KeyUp, true
	case ebiten.KeyArrowDown:
		return common.KeyDown, true
	case ebiten.KeyShiftLeft:
		return common.KeyLeftShift, true
	case ebiten.KeyShiftRight:
		return common.KeyRightShift, true
	case ebiten.KeyControlLeft:
		return common.KeyLeftControl, true
	case ebiten.KeyControlRight:
		return common.KeyRightControl, true
	default:
		return 0, false
	}
}
