// Package piece is the catalog of falling piece shapes. Every rotation of
// every piece is rasterized once at init, together with the offsets the move
// search uses to spot ledges and duplicate placements.
package piece

import (
	"fmt"

	"github.com/blockfall/blockhint/field"
)

// MaxGridSize is the largest piece box in the catalog.
const MaxGridSize = 4

// Rotation is one of the four quarter-turn orientations.
type Rotation uint8

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

const NumOrientations = 4

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", int(r)*90)
}

// Dimensions are the occupied extents of a rotation grid, inclusive.
type Dimensions struct {
	XMin, XMax int
	YMin, YMax int
}

// DuplicateMoveCheck names another rotation whose occupied cells are
// identical to this one's after translating by RelativePosition. A piece at
// (p, r) covers the same cells as the piece at (p+RelativePosition, Rotation).
type DuplicateMoveCheck struct {
	RelativePosition field.Position
	Rotation         Rotation
}

// checkPosition is an optional grid offset.
type checkPosition struct {
	pos field.Position
	ok  bool
}

// A Piece is an immutable catalog entry.
type Piece struct {
	kind         Kind
	name         string
	numRotations int
	grids        [NumOrientations]field.Blocks
	dims         [NumOrientations]Dimensions

	leftExtremity  [NumOrientations]checkPosition
	rightExtremity [NumOrientations]checkPosition
	leftOverhang   [NumOrientations]checkPosition
	rightOverhang  [NumOrientations]checkPosition

	duplicateChecks [NumOrientations][]DuplicateMoveCheck
}

func (p *Piece) Kind() Kind        { return p.kind }
func (p *Piece) Name() string      { return p.name }
func (p *Piece) String() string    { return p.name }
func (p *Piece) NumRotations() int { return p.numRotations }

// GridSize is the side of the square box every rotation is drawn in.
func (p *Piece) GridSize() int { return p.grids[0].Size }

// Grid is the occupied-cell mask for rotation r.
func (p *Piece) Grid(r Rotation) *field.Blocks {
	return &p.grids[p.checkRotation(r)]
}

func (p *Piece) Dimensions(r Rotation) Dimensions {
	return p.dims[p.checkRotation(r)]
}

// RightExtremityCheckPosition is the lowest occupied cell in the rightmost
// occupied column of rotation r.
func (p *Piece) RightExtremityCheckPosition(r Rotation) (field.Position, bool) {
	c := p.rightExtremity[p.checkRotation(r)]
	return c.pos, c.ok
}

func (p *Piece) LeftExtremityCheckPosition(r Rotation) (field.Position, bool) {
	c := p.leftExtremity[p.checkRotation(r)]
	return c.pos, c.ok
}

// RightOverhangCheckPosition is the rightmost cell of the bottom occupied
// row, when that cell is not already the right extremity. A foot like
// that can tuck under a ledge while the rest of the piece stays above it.
func (p *Piece) RightOverhangCheckPosition(r Rotation) (field.Position, bool) {
	c := p.rightOverhang[p.checkRotation(r)]
	return c.pos, c.ok
}

func (p *Piece) LeftOverhangCheckPosition(r Rotation) (field.Position, bool) {
	c := p.leftOverhang[p.checkRotation(r)]
	return c.pos, c.ok
}

// DuplicateMoveChecks returns every equivalent rotation of r.
func (p *Piece) DuplicateMoveChecks(r Rotation) []DuplicateMoveCheck {
	return p.duplicateChecks[p.checkRotation(r)]
}

// Next returns the rotation reached by one clockwise (dir > 0) or
// anticlockwise (dir < 0) turn.
func (p *Piece) Next(r Rotation, dir int) Rotation {
	n := p.numRotations
	return Rotation((int(r) + dir%n + n) % n)
}

// SpawnPosition is where a new piece appears: box centred horizontally, top
// occupied row on the top row of the field.
func (p *Piece) SpawnPosition(rows, columns int, r Rotation) field.Position {
	d := p.Dimensions(r)
	return field.Position{
		X: (columns - p.GridSize()) / 2,
		Y: rows - 1 - d.YMax,
	}
}

// LandingHeight is the row of the vertical centre of the occupied cells
// when the box origin is at row y.
func (p *Piece) LandingHeight(r Rotation, y int) float64 {
	d := p.Dimensions(r)
	return float64(y) + float64(d.YMin+d.YMax)/2
}

func (p *Piece) checkRotation(r Rotation) Rotation {
	if int(r) >= p.numRotations {
		panic(fmt.Sprintf("piece %s has no rotation %d", p.name, r))
	}
	return r
}
