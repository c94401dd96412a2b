package movegen

import "github.com/blockfall/blockhint/field"

// findMostValidMoves is the fast phase. From the spawn it drops the piece
// in every column it can slide to, then repeats that for each rotation
// reachable by turning at the spawn row, or as soon after it as the piece
// has fallen far enough to turn. While dropping, it looks beside
// the piece for cells under an overhang and slides in there too. That
// covers almost every placement a real player makes.
func (e *Engine) findMostValidMoves(p MovingPiece) {
	e.searchHorizontal(p, e.root)
	e.searchRotations(p, 1)
	e.searchRotations(p, -1)
}

func (e *Engine) searchRotations(p MovingPiece, dir int) {
	prev := e.root
	cur := p
	for i := 1; i < p.Piece.NumRotations(); i++ {
		next, ok := e.rotate(cur, dir)
		if !ok {
			var fallen MovingPiece
			if fallen, next, ok = e.fallAndRotate(cur, dir); !ok {
				return
			}
			prev = e.addMovement(fallen, prev)
		}
		prev = e.addMovement(next, prev)
		e.searchHorizontal(next, prev)
		cur = next
	}
}

// fallAndRotate drops p one row at a time until it can turn, for rotations
// blocked by the top of the field. It returns the row it turned at and the
// turned piece.
func (e *Engine) fallAndRotate(p MovingPiece, dir int) (MovingPiece, MovingPiece, bool) {
	floor := e.handleCollisionDown(p)
	for y := p.Position.Y - 1; y >= floor; y-- {
		fallen := p.at(p.Position.X, y)
		if next, ok := e.rotate(fallen, dir); ok {
			return fallen, next, true
		}
	}
	return p, p, false
}

// searchHorizontal drops p where it is, then slides it to every column
// between the walls of its row and drops it there.
func (e *Engine) searchHorizontal(p MovingPiece, prev int32) {
	e.searchDown(p, prev)
	left := e.handleCollisionLeft(p)
	for x := p.Position.X - 1; x >= left; x-- {
		e.slideAndDrop(p.at(x, p.Position.Y), prev)
	}
	right := e.handleCollisionRight(p)
	for x := p.Position.X + 1; x <= right; x++ {
		e.slideAndDrop(p.at(x, p.Position.Y), prev)
	}
}

func (e *Engine) slideAndDrop(p MovingPiece, prev int32) {
	if e.visited(p) {
		return
	}
	e.searchDown(p, e.addMovement(p, prev))
}

// searchDown drops p to its landing row, marking every row it passes.
// prev is the movement that put the piece at p.
func (e *Engine) searchDown(p MovingPiece, prev int32) {
	if e.visited(p) {
		return
	}
	landing := e.handleCollisionDown(p)
	for y := p.Position.Y; y >= landing; y-- {
		q := p.at(p.Position.X, y)
		c := e.grid.at(q.Position)
		if c.visited[q.Rotation] {
			continue
		}
		c.visited[q.Rotation] = true
		if y < p.Position.Y {
			e.checkOverhangs(q, prev)
		}
	}
	if landing == p.Position.Y {
		e.recordMove(p, prev)
		return
	}
	rest := p.at(p.Position.X, landing)
	e.recordMove(rest, e.addMovement(rest, prev))
}

func (e *Engine) checkOverhangs(p MovingPiece, prev int32) {
	if e.besideOverhangTip(p, 1) {
		e.searchSide(p, 1, e.addMovement(p, prev))
	}
	if e.besideOverhangTip(p, -1) {
		e.searchSide(p, -1, e.addMovement(p, prev))
	}
}

// besideOverhangTip reports whether the cell just beyond the piece's
// extremity or overhang foot on side dir is under an overhang tip.
func (e *Engine) besideOverhangTip(p MovingPiece, dir int) bool {
	var ext, foot field.Position
	var extOK, footOK bool
	if dir > 0 {
		ext, extOK = p.Piece.RightExtremityCheckPosition(p.Rotation)
		foot, footOK = p.Piece.RightOverhangCheckPosition(p.Rotation)
	} else {
		ext, extOK = p.Piece.LeftExtremityCheckPosition(p.Rotation)
		foot, footOK = p.Piece.LeftOverhangCheckPosition(p.Rotation)
	}
	side := field.Position{X: dir}
	if extOK && e.grid.UnderOverhangTip(p.Position.Add(ext).Add(side)) {
		return true
	}
	return footOK && e.grid.UnderOverhangTip(p.Position.Add(foot).Add(side))
}

// searchSide slides p towards dir as far as it goes, dropping it from each
// column on the way.
func (e *Engine) searchSide(p MovingPiece, dir int, prev int32) {
	if dir > 0 {
		right := e.handleCollisionRight(p)
		for x := p.Position.X + 1; x <= right; x++ {
			e.slideAndDrop(p.at(x, p.Position.Y), prev)
		}
		return
	}
	left := e.handleCollisionLeft(p)
	for x := p.Position.X - 1; x >= left; x-- {
		e.slideAndDrop(p.at(x, p.Position.Y), prev)
	}
}
