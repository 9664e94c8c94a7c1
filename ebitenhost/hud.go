package ebitenhost

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/dynamo"
)

// DebugPrint glyph cell size.
const (
	glyphW = 6
	glyphH = 16
)

var (
	hudBackground = color.RGBA{0, 0, 0, 128}
	nodeVisible   = color.RGBA{0xf0, 0xc0, 0x40, 0xff}
	nodeHidden    = color.RGBA{0x60, 0x60, 0x60, 0xff}
	axisColor     = color.RGBA{0x40, 0x44, 0x55, 0xff}
)

// Points this far outside the viewport still get drawn so labels do not pop.
const cullMargin = 64

func (g *Game) statusText(fps, tps float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f\nTPS: %.1f\n", fps, tps)

	state := g.current
	if state == "" {
		state = "-"
	}
	fmt.Fprintf(&b, "state: %s", state)
	if g.paused {
		b.WriteString("  [paused]")
	}
	b.WriteByte('\n')
	if n := g.eng.PendingTransitions(); n > 0 {
		fmt.Fprintf(&b, "transitions: %d\n", n)
	}

	for i, id := range g.anims {
		marker := " "
		if i == g.selected {
			marker = ">"
		}
		st, ok := g.eng.Animation(id)
		if !ok {
			fmt.Fprintf(&b, "%s %s  off\n", marker, id)
			continue
		}
		fmt.Fprintf(&b, "%s %s  %s->%s t=%.2f cycles=%d\n", marker, id, st.From, st.To, st.T, st.Cycles)
	}
	if g.lastErr != nil {
		fmt.Fprintf(&b, "error: %v\n", g.lastErr)
	}
	fmt.Fprintf(&b, "camera %.1f,%.1f x%.0f\n", g.cam.X, g.cam.Y, g.cam.Zoom)
	b.WriteString("1-9 state  T next  Tab/Enter anim  Space pause\narrows pan  +/- zoom  C center")
	return b.String()
}

// hudSize is the pixel size of the box behind text.
func hudSize(text string) (w, h int) {
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, len(l))
	}
	return longest*glyphW + 4, len(lines)*glyphH + 4
}

func drawHUD(screen *ebiten.Image, text string) {
	w, h := hudSize(text)
	vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), hudBackground, false)
	ebitenutil.DebugPrint(screen, text)
}

type plotPoint struct {
	id      string
	x, y    float32
	visible bool
}

// plotPoints projects every node carrying a translation of two or more
// components through cam, skipping points well outside the viewport.
func plotPoints(s *dynamo.Scene, cam *camera) []plotPoint {
	var pts []plotPoint
	s.Walk(func(n *dynamo.Node) bool {
		v, err := n.Value("translation")
		if err != nil || v.Kind != dynamo.KindTuple || len(v.Tuple) < 2 {
			return true
		}
		x, y := cam.WorldToScreen(v.Tuple[0], v.Tuple[1])
		if !cam.visible(x, y, cullMargin) {
			return true
		}
		visible := true
		if r, err := n.Value("render"); err == nil && r.Kind == dynamo.KindBool {
			visible = r.Flag
		}
		pts = append(pts, plotPoint{id: n.ID, x: float32(x), y: float32(y), visible: visible})
		return true
	})
	return pts
}

func drawScene(screen *ebiten.Image, s *dynamo.Scene, cam *camera) {
	ox, oy := cam.WorldToScreen(0, 0)
	vector.StrokeLine(screen, 0, float32(oy), float32(cam.Width), float32(oy), 1, axisColor, false)
	vector.StrokeLine(screen, float32(ox), 0, float32(ox), float32(cam.Height), 1, axisColor, false)

	for _, p := range plotPoints(s, cam) {
		clr := nodeVisible
		if !p.visible {
			clr = nodeHidden
		}
		vector.DrawFilledRect(screen, p.x-4, p.y-4, 8, 8, clr, false)
		ebitenutil.DebugPrintAt(screen, p.id, int(p.x)+6, int(p.y)-8)
	}
}
