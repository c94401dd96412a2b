package field

// CollisionResult is filled in by CheckCollision. Points is reused between
// calls to avoid allocating in the search loop.
type CollisionResult struct {
	IsCollision bool
	// Points are the field positions (column, row) where the piece overlaps
	// filled cells, walls or the floor.
	Points []Position
}

func (r *CollisionResult) reset() {
	r.IsCollision = false
	r.Points = r.Points[:0]
}

// CheckCollision tests the blocks at pos against the field and records
// every overlapping cell. Cells outside the playfield collide.
func (f *Field) CheckCollision(b *Blocks, pos Position, res *CollisionResult) {
	res.reset()
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			bf := b.Cells[y*b.Size+x]
			if bf.IsEmpty() {
				continue
			}
			row, col := pos.Y+y, pos.X+x
			if bf.Overlaps(f.FillAt(row, col)) {
				res.IsCollision = true
				res.Points = append(res.Points, Position{X: col, Y: row})
			}
		}
	}
}

// Collides is CheckCollision without collecting the points.
func (f *Field) Collides(b *Blocks, pos Position) bool {
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			bf := b.Cells[y*b.Size+x]
			if bf.IsEmpty() {
				continue
			}
			if bf.Overlaps(f.FillAt(pos.Y+y, pos.X+x)) {
				return true
			}
		}
	}
	return false
}

// DetectFreeSpaceLeft returns the leftmost column the blocks can slide to
// from pos without colliding. pos itself must be free.
func (f *Field) DetectFreeSpaceLeft(b *Blocks, pos Position) int {
	p := pos
	for {
		p.X--
		if f.Collides(b, p) {
			return p.X + 1
		}
	}
}

// DetectFreeSpaceRight returns the rightmost reachable column.
func (f *Field) DetectFreeSpaceRight(b *Blocks, pos Position) int {
	p := pos
	for {
		p.X++
		if f.Collides(b, p) {
			return p.X - 1
		}
	}
}

// DetectFreeSpaceDown returns the lowest row the blocks can fall to.
func (f *Field) DetectFreeSpaceDown(b *Blocks, pos Position) int {
	p := pos
	for {
		p.Y--
		if f.Collides(b, p) {
			return p.Y + 1
		}
	}
}

// DetectFreeSpaceUp returns the highest row the blocks can rise to.
func (f *Field) DetectFreeSpaceUp(b *Blocks, pos Position) int {
	p := pos
	for {
		p.Y++
		if f.Collides(b, p) {
			return p.Y - 1
		}
	}
}
