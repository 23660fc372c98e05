package protocol

import (
	"strings"

	"github.com/fatih/color"

	"github.com/hailam/chessview/internal/board"
)

var (
	lightSquare    = color.BgHiBlack
	darkSquare     = color.BgBlack
	selectedSquare = color.BgYellow
	whitePiece     = []color.Attribute{color.FgHiWhite, color.Bold}
	blackPiece     = []color.Attribute{color.FgRed, color.Bold}
	labelColor     = color.FgCyan
)

// paint renders text with attrs, or plain when colored is false.
func paint(colored bool, text string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

// RenderBoard draws b from the side of player, rank labels on both sides
// and file labels above and below. The selected square, if any, is
// highlighted.
func RenderBoard(b board.Board, player board.Color, selected board.Square, colored bool) string {
	files := []int{0, 1, 2, 3, 4, 5, 6, 7}
	ranks := []int{7, 6, 5, 4, 3, 2, 1, 0}
	if player == board.Black {
		files = []int{7, 6, 5, 4, 3, 2, 1, 0}
		ranks = []int{0, 1, 2, 3, 4, 5, 6, 7}
	}

	var header strings.Builder
	header.WriteString("  ")
	for _, f := range files {
		header.WriteString(" " + string(rune('a'+f)) + " ")
	}
	fileLine := paint(colored, header.String(), labelColor)

	var sb strings.Builder
	sb.WriteString(fileLine + "\n")
	for _, r := range ranks {
		rankLabel := paint(colored, string(rune('1'+r)), labelColor)
		sb.WriteString(rankLabel + " ")
		for _, f := range files {
			sq := board.NewSquare(f, r)
			attrs := []color.Attribute{darkSquare}
			if (f+r)%2 == 1 {
				attrs[0] = lightSquare
			}
			if sq == selected {
				attrs[0] = selectedSquare
			}

			glyph := "."
			switch p := b.At(sq); p.Color() {
			case board.White:
				glyph = p.String()
				attrs = append(attrs, whitePiece...)
			case board.Black:
				glyph = p.String()
				attrs = append(attrs, blackPiece...)
			}
			sb.WriteString(paint(colored, " "+glyph+" ", attrs...))
		}
		sb.WriteString(" " + rankLabel + "\n")
	}
	sb.WriteString(fileLine + "\n")
	return sb.String()
}
