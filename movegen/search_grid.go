package movegen

import (
	"fmt"
	"math"

	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/piece"
)

// collisionNotCalculated marks a memo slot that has not been filled yet.
// Boundaries can be 0 or negative (box origins of flush pieces), so the
// zero value cannot serve.
const collisionNotCalculated = math.MinInt16

const noMove int32 = -1

// gridPadding extends the search grid below and to the left of the field so
// that the box origin of any in-field piece maps to a record.
const gridPadding = piece.MaxGridSize

type searchCell struct {
	visited   [piece.NumOrientations]bool
	foundMove [piece.NumOrientations]int32

	collisionLeft  [piece.NumOrientations]int16
	collisionRight [piece.NumOrientations]int16
	collisionDown  [piece.NumOrientations]int16

	underOverhangTip bool
}

func (c *searchCell) reset() {
	for r := 0; r < piece.NumOrientations; r++ {
		c.visited[r] = false
		c.foundMove[r] = noMove
		c.collisionLeft[r] = collisionNotCalculated
		c.collisionRight[r] = collisionNotCalculated
		c.collisionDown[r] = collisionNotCalculated
	}
	c.underOverhangTip = false
}

// SearchGrid is the per-search memo table, one record per box origin.
// It is reused across searches and reset by InitSearchGrid.
type SearchGrid struct {
	fieldRows    int
	fieldColumns int
	rows         int
	columns      int
	cells        []searchCell
}

// InitSearchGrid sizes the grid for f, clears every record and marks the
// cells that sit under an overhang tip.
func (sg *SearchGrid) InitSearchGrid(f *field.Field) {
	sg.fieldRows, sg.fieldColumns = f.NumRows(), f.NumColumns()
	sg.rows, sg.columns = sg.fieldRows+gridPadding, sg.fieldColumns+gridPadding
	if n := sg.rows * sg.columns; cap(sg.cells) < n {
		sg.cells = make([]searchCell, n)
	} else {
		sg.cells = sg.cells[:n]
	}
	for i := range sg.cells {
		sg.cells[i].reset()
	}
	sg.markOverhangTips(f)
}

// ResetVisited clears only the visited flags. Collision memos, found moves
// and overhang tips stay.
func (sg *SearchGrid) ResetVisited() {
	for i := range sg.cells {
		sg.cells[i].visited = [piece.NumOrientations]bool{}
	}
}

func (sg *SearchGrid) contains(pos field.Position) bool {
	x, y := pos.X+gridPadding, pos.Y+gridPadding
	return x >= 0 && x < sg.columns && y >= 0 && y < sg.rows
}

func (sg *SearchGrid) at(pos field.Position) *searchCell {
	if !sg.contains(pos) {
		panic(fmt.Sprintf("search grid has no record for %v", pos))
	}
	return &sg.cells[(pos.Y+gridPadding)*sg.columns+pos.X+gridPadding]
}

// UnderOverhangTip reports whether the field cell at pos was marked by the
// overhang scan. Cells outside the field are never tips.
func (sg *SearchGrid) UnderOverhangTip(pos field.Position) bool {
	if pos.X < 0 || pos.X >= sg.fieldColumns || pos.Y < 0 || pos.Y >= sg.fieldRows {
		return false
	}
	return sg.at(pos).underOverhangTip
}

type scanState int

const (
	freeSpace scanState = iota
	occupiedSpace
)

// markOverhangTips scans every column from the top. In free space, the
// first filled cell is a tip when it is an upper half cell whose open lower
// side faces an empty neighbour: a matching half can slide in beside it. In
// occupied space, a cell that is not full is a tip when a piece falling in
// a neighbouring column could slide sideways into it, i.e. the cell above
// that neighbour is empty and the neighbour itself is not full.
func (sg *SearchGrid) markOverhangTips(f *field.Field) {
	for col := 0; col < sg.fieldColumns; col++ {
		state := freeSpace
		for row := sg.fieldRows - 1; row >= 0; row-- {
			fill := f.FillAt(row, col)
			switch state {
			case freeSpace:
				if fill.IsEmpty() {
					continue
				}
				switch fill {
				case field.UpperRightHalf:
					if f.FillAt(row, col-1).IsEmpty() {
						sg.markTip(row, col)
					}
				case field.UpperLeftHalf:
					if f.FillAt(row, col+1).IsEmpty() {
						sg.markTip(row, col)
					}
				}
				state = occupiedSpace

			case occupiedSpace:
				if fill.IsFull() {
					continue
				}
				openLeft := f.FillAt(row+1, col-1).IsEmpty() && !f.FillAt(row, col-1).IsFull()
				openRight := f.FillAt(row+1, col+1).IsEmpty() && !f.FillAt(row, col+1).IsFull()
				if openLeft || openRight {
					sg.markTip(row, col)
				}
				if fill.IsEmpty() {
					state = freeSpace
				}
			}
		}
	}
}

func (sg *SearchGrid) markTip(row, col int) {
	sg.at(field.Position{X: col, Y: row}).underOverhangTip = true
}
