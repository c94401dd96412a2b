// Package field contains the playfield grid and the collision oracle that
// the move search and the evaluator query.
package field

import "fmt"

// Fill is the fill state of a single cell. A cell is split by both of its
// diagonals into four quarter triangles; a Fill is the bitmask of the
// quarters that are occupied. Every half cell the game can produce is the
// union of two adjacent quarters, so two fills overlap exactly when their
// masks intersect.
type Fill uint8

const (
	QuarterN Fill = 1 << iota
	QuarterE
	QuarterS
	QuarterW
)

const (
	Empty          Fill = 0
	Full                = QuarterN | QuarterE | QuarterS | QuarterW
	UpperLeftHalf       = QuarterN | QuarterW // ◤
	UpperRightHalf      = QuarterN | QuarterE // ◥
	LowerLeftHalf       = QuarterS | QuarterW // ◣
	LowerRightHalf      = QuarterS | QuarterE // ◢
)

// NoPiece is the piece id of a cell that no piece has been landed in.
const NoPiece int32 = 0

func (f Fill) IsEmpty() bool { return f == Empty }
func (f Fill) IsFull() bool  { return f == Full }

// IsHalf is true for the four diagonal half cells.
func (f Fill) IsHalf() bool {
	switch f {
	case UpperLeftHalf, UpperRightHalf, LowerLeftHalf, LowerRightHalf:
		return true
	}
	return false
}

// Overlaps returns true if the two fills share a quarter.
func (f Fill) Overlaps(o Fill) bool {
	return f&o != 0
}

// Quarters returns the number of occupied quarters (0-4).
func (f Fill) Quarters() int {
	n := 0
	for q := QuarterN; q <= QuarterW; q <<= 1 {
		if f&q != 0 {
			n++
		}
	}
	return n
}

// Area is the occupied fraction of the cell.
func (f Fill) Area() float64 {
	return float64(f.Quarters()) / 4
}

// RotateClockwise rotates the fill a quarter turn clockwise: N→E→S→W→N.
func (f Fill) RotateClockwise() Fill {
	return ((f << 1) | (f >> 3)) & Full
}

// Rune is the character used for this fill in level text.
func (f Fill) Rune() rune {
	switch f {
	case Empty:
		return '.'
	case Full:
		return '#'
	case UpperLeftHalf:
		return 'Q'
	case UpperRightHalf:
		return 'W'
	case LowerLeftHalf:
		return 'A'
	case LowerRightHalf:
		return 'S'
	}
	return '?'
}

// FillFromRune is the inverse of Rune.
func FillFromRune(r rune) (Fill, error) {
	switch r {
	case '.', ' ':
		return Empty, nil
	case '#', 'x', 'X':
		return Full, nil
	case 'Q':
		return UpperLeftHalf, nil
	case 'W':
		return UpperRightHalf, nil
	case 'A':
		return LowerLeftHalf, nil
	case 'S':
		return LowerRightHalf, nil
	}
	return Empty, fmt.Errorf("unknown cell character %q", r)
}

func (f Fill) String() string {
	return string(f.Rune())
}

// A Cell is a single playfield cell. A half-filled cell can hold parts of
// two different pieces, so it keeps a second piece id.
type Cell struct {
	Fill          Fill
	PieceID       int32
	SecondPieceID int32
	// Blueprint is the fill the level wants in this cell for the Build
	// objective. Empty means the cell is not part of the blueprint.
	Blueprint Fill
}

func (c Cell) IsEmpty() bool { return c.Fill.IsEmpty() }
func (c Cell) IsFull() bool  { return c.Fill.IsFull() }

// Position is a (column, row) pair. Row 0 is the bottom of the playfield.
type Position struct {
	X int
	Y int
}

func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
