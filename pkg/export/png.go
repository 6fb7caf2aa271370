package export

import (
	"fmt"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/board"
)

// WritePNG renders the composed columns as a PNG snapshot at path
func WritePNG(path string, cols []board.Column, title string) error {
	width := marginX*2 + len(cols)*colWidth + max(0, len(cols)-1)*colGap
	if width < marginX*2+colWidth {
		width = marginX*2 + colWidth
	}
	height := marginY*2 + titleH + headerH + maxCards(cols)*(cardH+cardGap)

	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetHexColor("#282a36")
	dc.Clear()

	dc.SetHexColor("#f8f8f2")
	dc.DrawString(title, marginX, marginY+14)

	x := float64(marginX)
	for _, col := range cols {
		y := float64(marginY + titleH)
		dc.SetHexColor("#44475a")
		dc.DrawRoundedRectangle(x, y, colWidth, headerH-8, 6)
		dc.Fill()
		dc.SetHexColor("#bd93f9")
		dc.DrawString(fmt.Sprintf("%s (%d)", clip(col.Title, maxTitleCh), len(col.Cards)), x+12, y+24)

		y += headerH
		for i := range col.Cards {
			card := &col.Cards[i]
			dc.SetHexColor("#353747")
			dc.DrawRoundedRectangle(x, y, colWidth, cardH-4, 4)
			dc.Fill()
			dc.SetHexColor("#f8f8f2")
			dc.DrawString(clip(card.Title, maxTitleCh), x+10, y+15)
			sub := card.Assignee
			if sub == "" {
				sub = "unassigned"
			}
			dc.SetHexColor("#6272a4")
			dc.DrawString(clip("@"+sub, maxTitleCh), x+10, y+29)
			y += cardH + cardGap
		}
		x += colWidth + colGap
	}

	return dc.SavePNG(path)
}
