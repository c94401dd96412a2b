package equity

import (
	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/piece"
)

// Landing is a piece that has been landed on the field, temporarily, so
// that its placement can be scored.
type Landing struct {
	Piece    *piece.Piece
	Position field.Position
	Rotation piece.Rotation
}

func (l *Landing) Blocks() *field.Blocks {
	return l.Piece.Grid(l.Rotation)
}

// Height is the row of the vertical centre of the landed cells.
func (l *Landing) Height() float64 {
	return l.Piece.LandingHeight(l.Rotation, l.Position.Y)
}

// Calculator is a calculator of equity.
type Calculator interface {
	// Equity scores the field with the landing already applied. Higher is
	// better. It must not modify the field.
	Equity(l *Landing, f *field.Field) float64
}
