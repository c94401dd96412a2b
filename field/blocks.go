package field

import "strings"

// Blocks is a square raster of a piece at one rotation. Row 0 is the
// bottom row of the box, like the field.
type Blocks struct {
	Size  int
	Cells []Fill
}

// NewBlocks creates an empty size×size raster.
func NewBlocks(size int) Blocks {
	return Blocks{Size: size, Cells: make([]Fill, size*size)}
}

func (b *Blocks) At(x, y int) Fill {
	return b.Cells[y*b.Size+x]
}

func (b *Blocks) Set(x, y int, f Fill) {
	b.Cells[y*b.Size+x] = f
}

// RotateClockwise returns a copy of the raster turned a quarter turn
// clockwise about the centre of its box.
func (b *Blocks) RotateClockwise() Blocks {
	n := b.Size
	r := NewBlocks(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			// (x, y) lands on (y, n-1-x) with y pointing up.
			r.Set(y, n-1-x, b.At(x, y).RotateClockwise())
		}
	}
	return r
}

func (b *Blocks) Equals(o *Blocks) bool {
	if b.Size != o.Size {
		return false
	}
	for i := range b.Cells {
		if b.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}

// NumOccupied counts the non-empty cells.
func (b *Blocks) NumOccupied() int {
	n := 0
	for _, c := range b.Cells {
		if !c.IsEmpty() {
			n++
		}
	}
	return n
}

func (b *Blocks) String() string {
	var sb strings.Builder
	for y := b.Size - 1; y >= 0; y-- {
		for x := 0; x < b.Size; x++ {
			sb.WriteRune(b.At(x, y).Rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
