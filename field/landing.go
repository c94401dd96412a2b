package field

import "fmt"

// LandPieceBlocks writes the blocks into the field at pos under pieceID.
// Landing on top of anything filled is a programming error.
func (f *Field) LandPieceBlocks(b *Blocks, pieceID int32, pos Position) {
	if pieceID == NoPiece {
		panic("LandPieceBlocks: piece id must not be NoPiece")
	}
	if f.Collides(b, pos) {
		panic(fmt.Sprintf("LandPieceBlocks: piece %d collides at %v", pieceID, pos))
	}
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			bf := b.Cells[y*b.Size+x]
			if bf.IsEmpty() {
				continue
			}
			c := &f.cells[f.idx(pos.Y+y, pos.X+x)]
			if c.Fill.IsEmpty() {
				c.PieceID = pieceID
			} else {
				c.SecondPieceID = pieceID
			}
			c.Fill |= bf
		}
	}
}

// RemovePiece undoes LandPieceBlocks for the same blocks, id and position.
// The field is left exactly as it was before the landing.
func (f *Field) RemovePiece(b *Blocks, pieceID int32, pos Position) {
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			bf := b.Cells[y*b.Size+x]
			if bf.IsEmpty() {
				continue
			}
			c := &f.cells[f.idx(pos.Y+y, pos.X+x)]
			if c.Fill&bf != bf {
				panic(fmt.Sprintf("RemovePiece: piece %d not present at %v", pieceID, pos))
			}
			switch pieceID {
			case c.SecondPieceID:
				c.SecondPieceID = NoPiece
			case c.PieceID:
				c.PieceID = NoPiece
			default:
				panic(fmt.Sprintf("RemovePiece: cell (%d,%d) does not belong to piece %d",
					pos.X+x, pos.Y+y, pieceID))
			}
			c.Fill &^= bf
		}
	}
}

// FilledRows returns how many rows touched by the blocks at pos are full
// and how many of the piece's own cells lie in those rows. Call it while
// the piece is landed.
func (f *Field) FilledRows(b *Blocks, pos Position) (rows int, pieceCells int) {
	for y := 0; y < b.Size; y++ {
		row := pos.Y + y
		if row < 0 || row >= f.rows {
			continue
		}
		n := 0
		for x := 0; x < b.Size; x++ {
			if !b.Cells[y*b.Size+x].IsEmpty() {
				n++
			}
		}
		if n == 0 || !f.IsRowFull(row) {
			continue
		}
		rows++
		pieceCells += n
	}
	return rows, pieceCells
}

// BlueprintCovered is the blueprint area that the blocks at pos fill.
func (f *Field) BlueprintCovered(b *Blocks, pos Position) float64 {
	area := 0.0
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			bf := b.Cells[y*b.Size+x]
			if bf.IsEmpty() || !f.InBounds(pos.Y+y, pos.X+x) {
				continue
			}
			area += (bf & f.cells[f.idx(pos.Y+y, pos.X+x)].Blueprint).Area()
		}
	}
	return area
}
