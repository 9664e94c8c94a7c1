// Package ebitenhost drives a dynamo Engine from an Ebitengine game loop and
// draws a top-down view of the scene with a status overlay.
//
// The engine's clock is replaced by a ManualClock that advances by exactly one
// tick period per Update, so playback is deterministic regardless of frame
// rate.
package ebitenhost

import (
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/dynamo"
	"github.com/tanema/gween/ease"
)

// RunConfig configures the window and playback for Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// TPS is the engine tick rate. Zero means ebiten.DefaultTPS.
	TPS int
	// ShowHUD draws the status overlay with FPS, state and animations.
	ShowHUD bool
	// Scene, when set, is plotted using each node's translation.
	Scene *dynamo.Scene
	// Scale is the initial pixels per scene unit. Zero means 40.
	Scale float64
	// TransitionDur is the duration in seconds used by the T key. Zero means 1.
	TransitionDur float64
	Background    color.Color
	Logger        *slog.Logger
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Title == "" {
		c.Title = "dynamo"
	}
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.TPS <= 0 {
		c.TPS = ebiten.DefaultTPS
	}
	if c.Scale == 0 {
		c.Scale = 40
	}
	if c.TransitionDur <= 0 {
		c.TransitionDur = 1
	}
	if c.Background == nil {
		c.Background = color.RGBA{0x1c, 0x1e, 0x26, 0xff}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Game implements ebiten.Game around an Engine.
type Game struct {
	eng    *dynamo.Engine
	cfg    RunConfig
	clock  *dynamo.ManualClock
	step   time.Duration
	logger *slog.Logger
	cam    *camera

	states   []string
	anims    []string
	selected int
	current  string
	paused   bool
	stepOnce bool
	lastErr  error
}

var _ ebiten.Game = (*Game)(nil)

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

var controlKeys = []ebiten.Key{
	ebiten.KeyTab, ebiten.KeyEnter, ebiten.KeyT,
	ebiten.KeySpace, ebiten.KeyPeriod, ebiten.KeyEscape,
	ebiten.KeyEqual, ebiten.KeyMinus, ebiten.KeyC,
}

// Camera pan speed in pixels per tick while an arrow key is held.
const panSpeed = 6

// NewGame wires eng to a fixed-step clock. The engine keeps that clock after
// the game exits.
func NewGame(eng *dynamo.Engine, cfg RunConfig) *Game {
	cfg = cfg.withDefaults()
	g := &Game{
		eng:    eng,
		cfg:    cfg,
		clock:  dynamo.NewManualClock(time.Now()),
		step:   time.Second / time.Duration(cfg.TPS),
		logger: cfg.Logger,
		cam:    newCamera(cfg.Width, cfg.Height, cfg.Scale),
		states: eng.Spec().StateNames(),
		anims:  eng.Spec().AnimationNames(),
	}
	eng.SetClock(g.clock)
	return g
}

// Run opens a window and drives eng until the window closes or Escape is
// pressed.
func Run(eng *dynamo.Engine, cfg RunConfig) error {
	g := NewGame(eng, cfg)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetTPS(g.cfg.TPS)
	return ebiten.RunGame(g)
}

// Update polls input and advances the engine by one tick.
func (g *Game) Update() error {
	for _, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.handleKey(k)
		}
	}
	for _, k := range controlKeys {
		if inpututil.IsKeyJustPressed(k) {
			if err := g.handleKey(k); err != nil {
				return err
			}
		}
	}
	g.updateCamera()
	g.tick()
	return nil
}

func (g *Game) updateCamera() {
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += panSpeed
	}
	if dx != 0 || dy != 0 {
		g.cam.Pan(dx, dy)
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.cam.ZoomBy(math.Pow(1.1, wy))
	}
	g.cam.update(float32(g.step.Seconds()))
}

// Draw renders the scene plot and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background)
	if g.cfg.Scene != nil {
		drawScene(screen, g.cfg.Scene, g.cam)
	}
	if g.cfg.ShowHUD {
		drawHUD(screen, g.statusText(ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout keeps a fixed logical screen size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

func (g *Game) tick() {
	if g.paused && !g.stepOnce {
		return
	}
	g.stepOnce = false
	g.clock.Advance(g.step)
	if err := g.eng.Tick(); err != nil {
		g.lastErr = err
		g.logger.Warn("tick failed", "err", err)
	}
}

// handleKey applies a single key press. It returns ebiten.Termination for
// Escape.
func (g *Game) handleKey(k ebiten.Key) error {
	for i, dk := range digitKeys {
		if k == dk {
			g.setState(i)
			return nil
		}
	}
	switch k {
	case ebiten.KeyTab:
		if len(g.anims) > 0 {
			g.selected = (g.selected + 1) % len(g.anims)
		}
	case ebiten.KeyEnter:
		g.toggleSelected()
	case ebiten.KeyT:
		g.transitionNext()
	case ebiten.KeySpace:
		g.paused = !g.paused
	case ebiten.KeyPeriod:
		if g.paused {
			g.stepOnce = true
		}
	case ebiten.KeyEqual:
		g.cam.ZoomBy(1.25)
	case ebiten.KeyMinus:
		g.cam.ZoomBy(0.8)
	case ebiten.KeyC:
		g.cam.ScrollTo(0, 0, 0.4, ease.OutCubic)
	case ebiten.KeyEscape:
		return ebiten.Termination
	}
	return nil
}

func (g *Game) setState(i int) {
	if i >= len(g.states) {
		return
	}
	name := g.states[i]
	if err := g.eng.SetState(name); err != nil {
		g.lastErr = err
		g.logger.Warn("set state failed", "state", name, "err", err)
		return
	}
	g.current = name
}

func (g *Game) toggleSelected() {
	if len(g.anims) == 0 {
		return
	}
	id := g.anims[g.selected]
	if _, running := g.eng.Animation(id); running {
		g.eng.DisableAnimation(id)
		return
	}
	if err := g.eng.EnableAnimation(id); err != nil {
		g.lastErr = err
		g.logger.Warn("enable animation failed", "animation", id, "err", err)
	}
}

// transitionNext starts a transition from the current state to the next one
// in name order. Without a current state it behaves like pressing 1.
func (g *Game) transitionNext() {
	if len(g.states) == 0 {
		return
	}
	if g.current == "" {
		g.setState(0)
		return
	}
	next := g.states[0]
	for i, name := range g.states {
		if name == g.current {
			next = g.states[(i+1)%len(g.states)]
			break
		}
	}
	from := g.current
	err := g.eng.DoStateTransition(from, next, g.cfg.TransitionDur, func() {
		g.current = next
	})
	if err != nil {
		g.lastErr = err
		g.logger.Warn("transition failed", "from", from, "to", next, "err", err)
	}
}
