package ebitenhost

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	minZoom = 2.0
	maxZoom = 400.0
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// camera maps the scene's X/Y plane onto the screen. World Y points up.
type camera struct {
	// X and Y are the world position shown at the viewport center.
	X, Y float64
	// Zoom is pixels per world unit.
	Zoom float64
	// Width and Height are the viewport size in pixels.
	Width, Height float64

	scrollTween *scrollAnim
}

func newCamera(w, h int, zoom float64) *camera {
	return &camera{
		Zoom:   math.Max(minZoom, math.Min(zoom, maxZoom)),
		Width:  float64(w),
		Height: float64(h),
	}
}

// ScrollTo animates the camera to the given world position over duration
// seconds.
func (c *camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Pan moves the camera by a screen-space offset in pixels and cancels any
// scroll in progress.
func (c *camera) Pan(dx, dy float64) {
	c.scrollTween = nil
	c.X += dx / c.Zoom
	c.Y -= dy / c.Zoom
}

// ZoomBy multiplies Zoom by f, clamped to a usable range.
func (c *camera) ZoomBy(f float64) {
	c.Zoom = math.Max(minZoom, math.Min(c.Zoom*f, maxZoom))
}

// update advances the scroll animation by dt seconds.
func (c *camera) update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	if !c.scrollTween.doneX {
		val, done := c.scrollTween.tweenX.Update(dt)
		c.X = float64(val)
		c.scrollTween.doneX = done
	}
	if !c.scrollTween.doneY {
		val, done := c.scrollTween.tweenY.Update(dt)
		c.Y = float64(val)
		c.scrollTween.doneY = done
	}
	if c.scrollTween.doneX && c.scrollTween.doneY {
		c.scrollTween = nil
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	sx = c.Width/2 + (wx-c.X)*c.Zoom
	sy = c.Height/2 - (wy-c.Y)*c.Zoom
	return
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	wx = c.X + (sx-c.Width/2)/c.Zoom
	wy = c.Y - (sy-c.Height/2)/c.Zoom
	return
}

// visible reports whether a screen point lies within the viewport grown by
// margin pixels on every side.
func (c *camera) visible(sx, sy, margin float64) bool {
	return sx >= -margin && sy >= -margin && sx <= c.Width+margin && sy <= c.Height+margin
}
