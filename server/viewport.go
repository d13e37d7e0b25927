package main

import "math"

const (
	layerViewportHalfSpan = 240.0 // half extent of the camera along the screen's long axis
	aspect3To2            = 1.5
)

// Rect is an integer rectangle in pixels (screen or bitmap space, y down)
type Rect struct {
	Left   int `msgpack:"l" json:"l"`
	Top    int `msgpack:"t" json:"t"`
	Right  int `msgpack:"r" json:"r"`
	Bottom int `msgpack:"b" json:"b"`
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Contains reports whether the point lies in the rect (right/bottom exclusive)
func (r Rect) Contains(x, y float64) bool {
	return x >= float64(r.Left) && x < float64(r.Right) &&
		y >= float64(r.Top) && y < float64(r.Bottom)
}

// LayerViewport is the world-space window the camera shows (y up)
type LayerViewport struct {
	X          float64 `msgpack:"x"`
	Y          float64 `msgpack:"y"`
	HalfWidth  float64 `msgpack:"hw"`
	HalfHeight float64 `msgpack:"hh"`
}

func (v LayerViewport) Left() float64   { return v.X - v.HalfWidth }
func (v LayerViewport) Right() float64  { return v.X + v.HalfWidth }
func (v LayerViewport) Bottom() float64 { return v.Y - v.HalfHeight }
func (v LayerViewport) Top() float64    { return v.Y + v.HalfHeight }

// Bound returns the viewport as a bounding box
func (v LayerViewport) Bound() BoundingBox {
	return BoundingBox{X: v.X, Y: v.Y, HalfWidth: v.HalfWidth, HalfHeight: v.HalfHeight}
}

// Follow centres the viewport on target and clamps it inside the arena.
// A dimension in which the viewport is larger than the arena is left
// centred on the target.
func (v *LayerViewport) Follow(target Vector2, arena Arena) {
	v.X = target.X
	v.Y = target.Y
	if 2*v.HalfWidth <= arena.Width {
		if v.Left() < 0 {
			v.X = v.HalfWidth
		} else if v.Right() > arena.Width {
			v.X = farEdge(arena.Width, v.HalfWidth)
		}
	}
	if 2*v.HalfHeight <= arena.Height {
		if v.Bottom() < 0 {
			v.Y = v.HalfHeight
		} else if v.Top() > arena.Height {
			v.Y = farEdge(arena.Height, v.HalfHeight)
		}
	}
}

// ScreenViewport is the destination rectangle on screen
type ScreenViewport struct {
	Left   int `msgpack:"l" json:"l"`
	Top    int `msgpack:"t" json:"t"`
	Width  int `msgpack:"w" json:"w"`
	Height int `msgpack:"h" json:"h"`
}

// Rect returns the viewport as a Rect
func (s ScreenViewport) Rect() Rect {
	return Rect{Left: s.Left, Top: s.Top, Right: s.Left + s.Width, Bottom: s.Top + s.Height}
}

// NewLayerViewport sizes a camera window to the screen's aspect ratio,
// spanning 480 world units along the longer screen axis.
func NewLayerViewport(screen ScreenViewport) LayerViewport {
	if screen.Width <= 0 || screen.Height <= 0 {
		return LayerViewport{X: layerViewportHalfSpan, Y: layerViewportHalfSpan,
			HalfWidth: layerViewportHalfSpan, HalfHeight: layerViewportHalfSpan}
	}
	if screen.Width > screen.Height {
		hh := layerViewportHalfSpan * float64(screen.Height) / float64(screen.Width)
		return LayerViewport{X: layerViewportHalfSpan, Y: hh, HalfWidth: layerViewportHalfSpan, HalfHeight: hh}
	}
	hw := layerViewportHalfSpan * float64(screen.Width) / float64(screen.Height)
	return LayerViewport{X: hw, Y: layerViewportHalfSpan, HalfWidth: hw, HalfHeight: layerViewportHalfSpan}
}

// Create3To2AspectRatioViewport returns the largest centred 3:2 rectangle
// that fits the screen; the rest is letterboxed.
func Create3To2AspectRatioViewport(screenWidth, screenHeight int) ScreenViewport {
	if screenWidth <= 0 || screenHeight <= 0 {
		return ScreenViewport{}
	}
	if float64(screenWidth)/float64(screenHeight) > aspect3To2 {
		w := int(float64(screenHeight) * aspect3To2)
		return ScreenViewport{Left: (screenWidth - w) / 2, Top: 0, Width: w, Height: screenHeight}
	}
	h := int(float64(screenWidth) / aspect3To2)
	return ScreenViewport{Left: 0, Top: (screenHeight - h) / 2, Width: screenWidth, Height: h}
}

// Projection holds where a sprite's bitmap lands on screen
type Projection struct {
	// Full bitmap and the screen rect it would cover, overflow included
	Source Rect
	Screen Rect
	// Same, trimmed to the part of the sprite inside the layer viewport
	ClippedSource Rect
	ClippedScreen Rect
}

// MapWorldRectToScreen projects a world box through the layer viewport onto
// the screen viewport. bitmapW/bitmapH are the pixel size of the sprite's
// image. Returns false when the box is not visible.
func MapWorldRectToScreen(box BoundingBox, layer LayerViewport, screen ScreenViewport, bitmapW, bitmapH int) (Projection, bool) {
	if !IsCollision(box, layer.Bound()) || layer.HalfWidth <= 0 || layer.HalfHeight <= 0 {
		return Projection{}, false
	}
	var p Projection

	sx := float64(screen.Width) / (2 * layer.HalfWidth)
	sy := float64(screen.Height) / (2 * layer.HalfHeight)

	// unclipped
	p.Source = Rect{0, 0, bitmapW, bitmapH}
	x := float64(screen.Left) + sx*(box.Left()-layer.Left())
	y := float64(screen.Top) + sy*(layer.Top()-box.Top())
	p.Screen = Rect{
		Left:   floorInt(x),
		Top:    floorInt(y),
		Right:  floorInt(x + 2*box.HalfWidth*sx),
		Bottom: floorInt(y + 2*box.HalfHeight*sy),
	}

	// clipped: visible part of the box in world units, measured from the
	// box's top-left corner
	srcX := math.Max(0, layer.Left()-box.Left())
	srcY := math.Max(0, box.Top()-layer.Top())
	srcW := 2*box.HalfWidth - srcX - math.Max(0, box.Right()-layer.Right())
	srcH := 2*box.HalfHeight - srcY - math.Max(0, layer.Bottom()-box.Bottom())

	bx, by := 0.0, 0.0
	if box.HalfWidth > 0 {
		bx = float64(bitmapW) / (2 * box.HalfWidth)
	}
	if box.HalfHeight > 0 {
		by = float64(bitmapH) / (2 * box.HalfHeight)
	}
	p.ClippedSource = Rect{
		Left:   int(srcX * bx),
		Top:    int(srcY * by),
		Right:  int((srcX + srcW) * bx),
		Bottom: int((srcY + srcH) * by),
	}

	cx := float64(screen.Left) + sx*math.Max(0, box.Left()-layer.Left())
	cy := float64(screen.Top) + sy*math.Max(0, layer.Top()-box.Top())
	p.ClippedScreen = Rect{
		Left:   floorInt(cx),
		Top:    floorInt(cy),
		Right:  floorInt(cx + srcW*sx),
		Bottom: floorInt(cy + srcH*sy),
	}
	return p, true
}

// floorInt rounds toward negative infinity so rects overflowing the left or
// top edge keep their size
func floorInt(v float64) int {
	return int(math.Floor(v))
}
