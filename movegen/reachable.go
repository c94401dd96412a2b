package movegen

import (
	"github.com/rs/zerolog/log"

	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/move"
)

// MarkReachable recomputes IsReachable for the moves of the last search
// after the piece has already moved to current. Moves the piece can no
// longer get to are marked unreachable. f and vm must be the field and
// moves of the last FindValidMoves call on this engine.
func (e *Engine) MarkReachable(f *field.Field, current MovingPiece, vm *move.ValidMoves) {
	if e.vm != vm || e.field != f {
		panic("MarkReachable: moves do not belong to this engine's last search")
	}
	for i := range vm.Moves {
		vm.Moves[i].IsReachable = false
	}
	if !e.grid.contains(current.Position) || f.Collides(current.Blocks(), current.Position) {
		log.Debug().Str("piece", current.String()).Msg("current-position-collides")
		return
	}
	e.grid.ResetVisited()
	e.reach(current)

	n := 0
	for i := range vm.Moves {
		if vm.Moves[i].IsReachable {
			n++
		}
	}
	log.Debug().Int("reachable", n).Int("moves", len(vm.Moves)).Msg("marked-reachable")
}

func (e *Engine) reach(p MovingPiece) {
	c := e.grid.at(p.Position)
	if c.visited[p.Rotation] {
		return
	}
	c.visited[p.Rotation] = true

	if e.handleCollisionDown(p) == p.Position.Y {
		idx := c.foundMove[p.Rotation]
		if idx == noMove {
			idx = e.duplicateOf(p)
		}
		if idx != noMove {
			e.vm.Moves[idx].IsReachable = true
		}
	} else {
		e.reach(p.moved(0, -1))
	}
	if e.handleCollisionLeft(p) < p.Position.X {
		e.reach(p.moved(-1, 0))
	}
	if e.handleCollisionRight(p) > p.Position.X {
		e.reach(p.moved(1, 0))
	}
	if q, ok := e.rotate(p, 1); ok {
		e.reach(q)
	}
	if q, ok := e.rotate(p, -1); ok {
		e.reach(q)
	}
}
