// Package export renders a snapshot of the composed board to SVG or PNG
// for sharing outside the terminal.
package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/board"
)

// Board snapshot geometry
const (
	colWidth   = 240
	colGap     = 16
	headerH    = 44
	cardH      = 40
	cardGap    = 8
	marginX    = 24
	marginY    = 24
	titleH     = 36
	maxTitleCh = 30
)

// WriteSVG renders the composed columns as a static SVG snapshot
func WriteSVG(w io.Writer, cols []board.Column, title string) error {
	width := marginX*2 + len(cols)*colWidth + max(0, len(cols)-1)*colGap
	if width < marginX*2+colWidth {
		width = marginX*2 + colWidth
	}
	height := marginY*2 + titleH + headerH + maxCards(cols)*(cardH+cardGap)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#282a36")
	canvas.Text(marginX, marginY+18, title,
		"font-family:sans-serif;font-size:20px;font-weight:bold;fill:#f8f8f2")

	x := marginX
	for _, col := range cols {
		y := marginY + titleH
		canvas.Rect(x, y, colWidth, headerH-8, "fill:#44475a;rx:6")
		canvas.Text(x+12, y+26, fmt.Sprintf("%s (%d)", clip(col.Title, maxTitleCh), len(col.Cards)),
			"font-family:sans-serif;font-size:14px;font-weight:bold;fill:#bd93f9")

		y += headerH
		for i := range col.Cards {
			card := &col.Cards[i]
			canvas.Rect(x, y, colWidth, cardH-4, "fill:#353747;rx:4")
			canvas.Text(x+10, y+17, clip(card.Title, maxTitleCh),
				"font-family:sans-serif;font-size:12px;fill:#f8f8f2")
			sub := card.Assignee
			if sub == "" {
				sub = "unassigned"
			}
			canvas.Text(x+10, y+31, clip("@"+sub, maxTitleCh),
				"font-family:sans-serif;font-size:10px;fill:#6272a4")
			y += cardH + cardGap
		}
		x += colWidth + colGap
	}

	canvas.End()
	return nil
}

func maxCards(cols []board.Column) int {
	n := 0
	for _, col := range cols {
		if len(col.Cards) > n {
			n = len(col.Cards)
		}
	}
	return n
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
