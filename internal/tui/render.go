package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"simongame/internal/game"
)

const (
	padWidth  = 14
	padHeight = 5
	padGap    = 2
)

type padColors struct {
	lit, dim tcell.Color
}

var palette = map[game.Signal]padColors{
	game.Red:    {tcell.ColorRed, tcell.ColorMaroon},
	game.Blue:   {tcell.ColorBlue, tcell.ColorNavy},
	game.Green:  {tcell.ColorLime, tcell.ColorGreen},
	game.Yellow: {tcell.ColorYellow, tcell.ColorOlive},
}

func draw(s tcell.Screen, v *View) {
	s.Clear()
	w, _ := s.Size()
	base := tcell.StyleDefault

	drawText(s, 2, 0, base.Bold(true), "SIMON")
	drawText(s, 2, 1, base, v.Status())
	if v.Warn > 0 {
		drawText(s, 2, 2, base.Foreground(tcell.ColorOrangeRed).Bold(true), fmt.Sprintf("Hurry! %ds left", v.Warn))
	}

	top := 4
	for i, sig := range game.Signals {
		x := 2 + (i%2)*(padWidth+padGap)
		y := top + (i/2)*(padHeight+1)
		drawPad(s, x, y, sig, v.Lit[sig], i+1)
	}

	y := top + 2*(padHeight+1) + 1
	drawText(s, 2, y, base, fmt.Sprintf("Score %d   Average %.1f   High %d   Rounds %d/%d",
		v.CurrentScore(), v.Average, v.High, v.RoundsPlayed, game.MaxRounds))

	col := 2 + 2*(padWidth+padGap) + 2
	if col+16 < w {
		drawText(s, col, top, base.Bold(true), "History")
		for i, h := range v.History {
			result := "lost"
			if h.Won {
				result = "won"
			}
			drawText(s, col, top+1+i, base, fmt.Sprintf("#%-2d %2d  %s", h.RoundNumber, h.Score, result))
		}
	}

	drawText(s, 2, y+2, base.Dim(true), "space: start   r/b/g/y or 1-4: select   q: quit")
	s.Show()
}

func drawPad(s tcell.Screen, x, y int, sig game.Signal, lit bool, n int) {
	c := palette[sig]
	bg := c.dim
	if lit {
		bg = c.lit
	}
	style := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorWhite)
	for dy := 0; dy < padHeight; dy++ {
		for dx := 0; dx < padWidth; dx++ {
			s.SetContent(x+dx, y+dy, ' ', nil, style)
		}
	}
	label := fmt.Sprintf("%d %s", n, sig)
	drawText(s, x+(padWidth-len(label))/2, y+padHeight/2, style.Bold(lit), label)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
