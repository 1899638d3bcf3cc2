package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/lockstep-pong/internal/fx"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// Field glyphs.
const (
	PaddleChar = '█'
	BallChar   = '●'
	NetChar    = '│'
)

// Smallest canvas DrawMatch renders a field on.
const (
	MinWidth  = 24
	MinHeight = 10
)

// HUD is the text drawn around the field.
type HUD struct {
	LeftName    string
	RightName   string
	TickHz      uint32
	Status      string // bottom line
	ReadyHint   string // lobby banner subtitle
	RematchHint string // game over banner subtitle
}

// rect is a canvas area in cells.
type rect struct {
	x, y, w, h int
}

// col maps a field x coordinate in [0, 1] to a column inside r.
func (r rect) col(v fx.Fx) int {
	return r.x + scale(v, r.w)
}

// row maps a field y coordinate in [0, 1] to a row inside r.
func (r rect) row(v fx.Fx) int {
	return r.y + scale(v, r.h)
}

func scale(v fx.Fx, cells int) int {
	if cells <= 1 {
		return 0
	}
	n := int(v.ToFloat()*float64(cells-1) + 0.5)
	return max(0, min(cells-1, n))
}

// DrawMatch renders a view: score header, boxed field with net, paddles and
// ball, a banner for every state except Playing, and the status line.
func DrawMatch(c *Canvas, v pong.View, hud HUD) {
	c.Clear()
	if c.Width() < MinWidth || c.Height() < MinHeight {
		c.DrawTextCentered(c.Height()/2, "Terminal too small", ColorError)
		return
	}

	// Header
	c.DrawText(1, 0, hud.LeftName, ColorLeft)
	c.DrawText(c.Width()-1-runeLen(hud.RightName), 0, hud.RightName, ColorRight)
	c.DrawTextCentered(0, fmt.Sprintf("%d : %d", v.Score[0], v.Score[1]), ColorBanner)

	c.DrawBox(0, 1, c.Width(), c.Height()-2, ColorDim)
	field := rect{x: 1, y: 2, w: c.Width() - 2, h: c.Height() - 4}

	mid := field.x + field.w/2
	for y := field.y; y < field.y+field.h; y += 2 {
		c.Set(mid, y, NetChar, ColorDim)
	}

	drawPaddle(c, field, v, pong.Left, ColorLeft)
	drawPaddle(c, field, v, pong.Right, ColorRight)

	if v.Status.Kind != pong.StatusGameOver {
		c.Set(field.col(v.BallPos.X), field.row(v.BallPos.Y), BallChar, ColorBall)
	}

	if title, sub := bannerText(v, hud); title != "" {
		drawBanner(c, title, sub)
	}

	c.DrawText(0, c.Height()-1, truncate(hud.Status, c.Width()), ColorDim)
}

func drawPaddle(c *Canvas, field rect, v pong.View, side pong.Side, color Color) {
	x := v.PaddleX
	if side == pong.Right {
		x = fx.One - v.PaddleX
	}
	y := v.PaddleY(side)
	col := field.col(x)
	top, bottom := field.row(y-v.PaddleHalfH), field.row(y+v.PaddleHalfH)
	for row := top; row <= bottom; row++ {
		c.Set(col, row, PaddleChar, color)
	}
}

func bannerText(v pong.View, hud HUD) (title, subtitle string) {
	name := func(s pong.Side) string {
		if s == pong.Left {
			return hud.LeftName
		}
		return hud.RightName
	}

	switch v.Status.Kind {
	case pong.StatusLobby:
		return "WAITING FOR PLAYERS", hud.ReadyHint
	case pong.StatusCountdown:
		hz := hud.TickHz
		if hz == 0 {
			hz = 60
		}
		secs := (uint32(v.Status.Ticks) + hz - 1) / hz
		return "GET READY", fmt.Sprintf("Serve in %d", secs)
	case pong.StatusScored:
		return "POINT " + strings.ToUpper(name(v.Status.Side)), fmt.Sprintf("%d - %d", v.Score[0], v.Score[1])
	case pong.StatusGameOver:
		sub := fmt.Sprintf("%d - %d", v.Score[0], v.Score[1])
		if hud.RematchHint != "" {
			sub += "  |  " + hud.RematchHint
		}
		return strings.ToUpper(name(v.Status.Side)) + " WINS!", sub
	default:
		return "", ""
	}
}

// drawBanner draws a message box in the center of the canvas.
func drawBanner(c *Canvas, title, subtitle string) {
	boxW := min(max(runeLen(title), runeLen(subtitle))+4, c.Width())
	boxH := 5
	boxX := (c.Width() - boxW) / 2
	boxY := (c.Height() - boxH) / 2

	c.FillRect(boxX, boxY, boxW, boxH, ' ', ColorDefault)
	c.DrawBox(boxX, boxY, boxW, boxH, ColorBanner)
	c.DrawText(boxX+(boxW-runeLen(title))/2, boxY+1, title, ColorBanner)
	c.DrawText(boxX+(boxW-runeLen(subtitle))/2, boxY+3, subtitle, ColorDefault)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
