package movegen

import "github.com/blockfall/blockhint/field"

// The handleCollision helpers answer "how far can this piece travel" from
// the memo, computing it at most once per row (or column) segment. Every
// state between the start and the boundary shares the same boundary, so
// the answer is stamped on all of them. The piece must be free at its
// current position.

func (e *Engine) handleCollisionLeft(p MovingPiece) int {
	c := e.grid.at(p.Position)
	if v := c.collisionLeft[p.Rotation]; v != collisionNotCalculated {
		return int(v)
	}
	left := e.field.DetectFreeSpaceLeft(p.Blocks(), p.Position)
	for x := left; x <= p.Position.X; x++ {
		e.grid.at(field.Position{X: x, Y: p.Position.Y}).collisionLeft[p.Rotation] = int16(left)
	}
	return left
}

func (e *Engine) handleCollisionRight(p MovingPiece) int {
	c := e.grid.at(p.Position)
	if v := c.collisionRight[p.Rotation]; v != collisionNotCalculated {
		return int(v)
	}
	right := e.field.DetectFreeSpaceRight(p.Blocks(), p.Position)
	for x := p.Position.X; x <= right; x++ {
		e.grid.at(field.Position{X: x, Y: p.Position.Y}).collisionRight[p.Rotation] = int16(right)
	}
	return right
}

func (e *Engine) handleCollisionDown(p MovingPiece) int {
	c := e.grid.at(p.Position)
	if v := c.collisionDown[p.Rotation]; v != collisionNotCalculated {
		return int(v)
	}
	landing := e.field.DetectFreeSpaceDown(p.Blocks(), p.Position)
	for y := landing; y <= p.Position.Y; y++ {
		e.grid.at(field.Position{X: p.Position.X, Y: y}).collisionDown[p.Rotation] = int16(landing)
	}
	return landing
}
