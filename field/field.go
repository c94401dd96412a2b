package field

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
)

// A Field is the playfield: a rows×columns grid of cells. It is owned and
// mutated by a single game-logic goroutine.
type Field struct {
	rows    int
	columns int
	cells   []Cell
}

// New creates an empty field.
func New(rows, columns int) *Field {
	if rows <= 0 || columns <= 0 {
		panic(fmt.Sprintf("bad field dimensions %dx%d", rows, columns))
	}
	return &Field{
		rows:    rows,
		columns: columns,
		cells:   make([]Cell, rows*columns),
	}
}

func (f *Field) NumRows() int    { return f.rows }
func (f *Field) NumColumns() int { return f.columns }

func (f *Field) InBounds(row, col int) bool {
	return row >= 0 && row < f.rows && col >= 0 && col < f.columns
}

func (f *Field) idx(row, col int) int {
	if !f.InBounds(row, col) {
		panic(fmt.Sprintf("cell (row %d, col %d) outside %dx%d field", row, col, f.rows, f.columns))
	}
	return row*f.columns + col
}

// CellAt returns a copy of the cell at (row, col).
func (f *Field) CellAt(row, col int) Cell {
	return f.cells[f.idx(row, col)]
}

// FillAt is CellAt(row, col).Fill, except that it returns Full outside
// the playfield. Walls and floor behave like filled cells.
func (f *Field) FillAt(row, col int) Fill {
	if !f.InBounds(row, col) {
		return Full
	}
	return f.cells[row*f.columns+col].Fill
}

// SetFill sets a cell's fill. Emptying a cell clears its piece ids.
func (f *Field) SetFill(row, col int, fill Fill) {
	c := &f.cells[f.idx(row, col)]
	c.Fill = fill
	if fill.IsEmpty() {
		c.PieceID = NoPiece
		c.SecondPieceID = NoPiece
	}
}

func (f *Field) SetBlueprint(row, col int, fill Fill) {
	f.cells[f.idx(row, col)].Blueprint = fill
}

// HasBlueprint is true if any cell is part of a blueprint.
func (f *Field) HasBlueprint() bool {
	for i := range f.cells {
		if !f.cells[i].Blueprint.IsEmpty() {
			return true
		}
	}
	return false
}

// IsRowFull is true if every cell in the row is completely filled.
func (f *Field) IsRowFull(row int) bool {
	base := f.idx(row, 0)
	for col := 0; col < f.columns; col++ {
		if !f.cells[base+col].Fill.IsFull() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := &Field{rows: f.rows, columns: f.columns, cells: make([]Cell, len(f.cells))}
	copy(c.cells, f.cells)
	return c
}

// CopyFrom overwrites f with the contents of o. Both must have the same
// dimensions.
func (f *Field) CopyFrom(o *Field) {
	if f.rows != o.rows || f.columns != o.columns {
		panic("CopyFrom: dimension mismatch")
	}
	copy(f.cells, o.cells)
}

// Bytes encodes every cell, bottom row first. Two fields with equal Bytes
// are identical.
func (f *Field) Bytes() []byte {
	buf := make([]byte, 0, len(f.cells)*10+8)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(f.rows))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(f.columns))
	for _, c := range f.cells {
		buf = append(buf, byte(c.Fill), byte(c.Blueprint))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(c.PieceID))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(c.SecondPieceID))
	}
	return buf
}

// Checksum is a hash of Bytes.
func (f *Field) Checksum() uint64 {
	return xxhash.Sum64(f.Bytes())
}

// ToDisplayText renders the field top row first, one character per cell.
func (f *Field) ToDisplayText() string {
	var sb strings.Builder
	for row := f.rows - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%2d |", row)
		for col := 0; col < f.columns; col++ {
			c := f.cells[row*f.columns+col]
			if c.Fill.IsEmpty() && !c.Blueprint.IsEmpty() {
				sb.WriteByte('x')
				continue
			}
			sb.WriteRune(c.Fill.Rune())
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   +")
	sb.WriteString(strings.Repeat("-", f.columns))
	sb.WriteString("+\n")
	return sb.String()
}

func (f *Field) String() string {
	return f.ToDisplayText()
}
