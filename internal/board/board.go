package board

import (
	"fmt"
	"strings"
)

// backRank is the piece order from file a to file h.
var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is the 64-square mapping. It is a value type: assigning a Board
// copies every square, so a copy never aliases the original.
type Board [64]Piece

// NewBoard returns the standard starting arrangement.
func NewBoard() Board {
	var b Board
	for f := 0; f < 8; f++ {
		b[NewSquare(f, 0)] = NewPiece(backRank[f], White)
		b[NewSquare(f, 1)] = WhitePawn
		b[NewSquare(f, 6)] = BlackPawn
		b[NewSquare(f, 7)] = NewPiece(backRank[f], Black)
	}
	return b
}

// At returns the piece on sq. Looking up a square off the board is a
// programming error and panics.
func (b *Board) At(sq Square) Piece {
	if !sq.IsValid() {
		panic(fmt.Sprintf("board: lookup of invalid square %d", sq))
	}
	return b[sq]
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return b.At(sq) == NoPiece
}

// Set places a piece on a square, replacing whatever was there.
func (b *Board) Set(sq Square, p Piece) {
	if !sq.IsValid() {
		panic(fmt.Sprintf("board: write to invalid square %d", sq))
	}
	b[sq] = p
}

// Clear empties a square.
func (b *Board) Clear(sq Square) {
	b.Set(sq, NoPiece)
}

// Relocate moves the piece on from to to, capturing whatever stood on to.
func (b *Board) Relocate(from, to Square) {
	p := b.At(from)
	b.Clear(from)
	b.Set(to, p)
}

// Find returns every square holding the given piece type and color,
// in square order.
func (b *Board) Find(pt PieceType, c Color) []Square {
	target := NewPiece(pt, c)
	var squares []Square
	for sq := A1; sq < NoSquare; sq++ {
		if b[sq] == target {
			squares = append(squares, sq)
		}
	}
	return squares
}

// King returns the square of the king of color c. A board without that
// king violates a structural invariant and panics.
func (b *Board) King(c Color) Square {
	target := NewPiece(King, c)
	for sq := A1; sq < NoSquare; sq++ {
		if b[sq] == target {
			return sq
		}
	}
	panic(fmt.Sprintf("board: no %s king", c))
}

// Validate checks that each side has exactly one king.
func (b *Board) Validate() error {
	for _, c := range []Color{White, Black} {
		if n := len(b.Find(King, c)); n != 1 {
			return fmt.Errorf("%s must have exactly one king, found %d", c, n)
		}
	}
	return nil
}

// String returns a visual representation of the board, rank 8 first.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			p := b[NewSquare(file, rank)]
			if p == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
