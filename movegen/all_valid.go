package movegen

// findAllValidMoves walks every state reachable from p with single steps
// down, left, right and rotations in either direction. Each state is
// entered once. Collision memos from the fast phase are reused, so only
// the states that phase never touched cost a collision check.
func (e *Engine) findAllValidMoves(p MovingPiece) {
	e.search(p, e.root)
}

// search expands the free state p, which movement mv leads to.
func (e *Engine) search(p MovingPiece, mv int32) {
	c := e.grid.at(p.Position)
	if c.visited[p.Rotation] {
		return
	}
	c.visited[p.Rotation] = true

	// The piece rests when its own landing row is the row it is on.
	if e.handleCollisionDown(p) == p.Position.Y {
		e.recordMove(p, mv)
	} else {
		e.step(p.moved(0, -1), mv)
	}
	if e.handleCollisionLeft(p) < p.Position.X {
		e.step(p.moved(-1, 0), mv)
	}
	if e.handleCollisionRight(p) > p.Position.X {
		e.step(p.moved(1, 0), mv)
	}
	if q, ok := e.rotate(p, 1); ok {
		e.step(q, mv)
	}
	if q, ok := e.rotate(p, -1); ok {
		e.step(q, mv)
	}
}

func (e *Engine) step(q MovingPiece, prev int32) {
	if e.visited(q) {
		return
	}
	e.search(q, e.addMovement(q, prev))
}
