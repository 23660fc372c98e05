package board

import "strings"

// BasicNotation renders from->to in short algebraic notation against the
// board before the move is made. Castling, promotion and check suffixes
// are added by the caller.
//
// Pawns give the destination, or origin file + "x" + destination on a
// capture. King, queen and bishop moves are never disambiguated. Rook and
// knight moves get an origin file (or rank, when the files match) if
// another piece of the same type and color could also legally reach the
// destination.
func (p Position) BasicNotation(from, to Square) string {
	piece := p.Board.At(from)
	capture := !p.Board.IsEmpty(to)

	var sb strings.Builder
	switch pt := piece.Type(); pt {
	case Pawn:
		if from.File() != to.File() {
			sb.WriteByte(byte('a' + from.File()))
			sb.WriteByte('x')
		}
	case King, Queen, Bishop:
		sb.WriteByte(pt.Letter())
		if capture {
			sb.WriteByte('x')
		}
	default:
		sb.WriteByte(pt.Letter())
		sb.WriteString(p.disambiguation(piece, from, to))
		if capture {
			sb.WriteByte('x')
		}
	}
	sb.WriteString(to.String())
	return sb.String()
}

func (p Position) disambiguation(piece Piece, from, to Square) string {
	sameFile, sameRank, ambiguous := false, false, false
	for _, other := range p.Board.Find(piece.Type(), piece.Color()) {
		if other == from || !p.IsLegal(other, to) {
			continue
		}
		ambiguous = true
		if other.File() == from.File() {
			sameFile = true
		}
		if other.Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// CastleNotation returns "O-O" for a king landing on the g-file and
// "O-O-O" otherwise.
func CastleNotation(kingTo Square) string {
	if kingTo.File() == 6 {
		return "O-O"
	}
	return "O-O-O"
}
