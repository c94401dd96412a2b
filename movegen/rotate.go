package movegen

// rotate turns p one step clockwise (dir > 0) or anticlockwise (dir < 0).
// A rotation that collides is nudged sideways by adjustPosition. The second
// return is false when no free placement was found, or when the piece has
// a single rotation.
func (e *Engine) rotate(p MovingPiece, dir int) (MovingPiece, bool) {
	if p.Piece.NumRotations() == 1 {
		return p, false
	}
	q := p
	q.Rotation = p.Piece.Next(p.Rotation, dir)
	e.field.CheckCollision(q.Blocks(), q.Position, &e.collision)
	if !e.collision.IsCollision {
		return q, true
	}
	return e.adjustPosition(q)
}

// adjustPosition moves a colliding piece away from the side where it
// collides, one column at a time, up to maxRotateAdjustment columns. When
// the collision points straddle the centre of the piece both directions
// are tried alternately, right first. e.collision must hold the points for
// p.
func (e *Engine) adjustPosition(p MovingPiece) (MovingPiece, bool) {
	d := p.Piece.Dimensions(p.Rotation)
	center := float64(2*p.Position.X+d.XMin+d.XMax) / 2
	var balance float64
	for _, pt := range e.collision.Points {
		balance += float64(pt.X) - center
	}

	dirs := [2]int{1, -1}
	n := 2
	switch {
	case balance < 0:
		n = 1
	case balance > 0:
		dirs[0], n = -1, 1
	}

	for step := 1; step <= e.maxRotateAdjustment; step++ {
		for _, dir := range dirs[:n] {
			q := p.moved(dir*step, 0)
			if !e.field.Collides(q.Blocks(), q.Position) {
				return q, true
			}
		}
	}
	return p, false
}
