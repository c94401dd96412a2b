// Package movegen finds every placement a falling piece can reach on a
// field. The search runs in two phases: a fast sweep of drops, slides and
// rotations at the spawn row with targeted slides under overhangs, followed
// by an exhaustive walk of the remaining state space.
package movegen

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/move"
	"github.com/blockfall/blockhint/piece"
)

// DefaultMaxRotateAdjustment is how many columns a rotation may be nudged
// sideways to escape a collision.
const DefaultMaxRotateAdjustment = 2

// MovingPiece is a piece in flight: which piece, where its box origin is
// and which way it is turned.
type MovingPiece struct {
	Piece    *piece.Piece
	Position field.Position
	Rotation piece.Rotation
}

// SpawnPiece places p at its spawn position on f in rotation 0.
func SpawnPiece(p *piece.Piece, f *field.Field) MovingPiece {
	return MovingPiece{
		Piece:    p,
		Position: p.SpawnPosition(f.NumRows(), f.NumColumns(), piece.Rotation0),
		Rotation: piece.Rotation0,
	}
}

func (mp MovingPiece) Blocks() *field.Blocks {
	return mp.Piece.Grid(mp.Rotation)
}

func (mp MovingPiece) moved(dx, dy int) MovingPiece {
	mp.Position = mp.Position.Add(field.Position{X: dx, Y: dy})
	return mp
}

func (mp MovingPiece) at(x, y int) MovingPiece {
	mp.Position = field.Position{X: x, Y: y}
	return mp
}

func (mp MovingPiece) String() string {
	return mp.Piece.Name() + " " + mp.Position.String() + " " + mp.Rotation.String()
}

type Option func(*Engine)

// WithMaxRotateAdjustment overrides DefaultMaxRotateAdjustment.
func WithMaxRotateAdjustment(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxRotateAdjustment = n
		}
	}
}

// Engine is a reusable move generator. It is not safe for concurrent use;
// give each goroutine its own.
type Engine struct {
	grid                SearchGrid
	maxRotateAdjustment int

	// Per-search state.
	field     *field.Field
	vm        *move.ValidMoves
	root      int32
	collision field.CollisionResult
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{maxRotateAdjustment: DefaultMaxRotateAdjustment}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) MaxRotateAdjustment() int { return e.maxRotateAdjustment }

// Grid exposes the search grid of the last search.
func (e *Engine) Grid() *SearchGrid { return &e.grid }

// begin resets the search state for f and records the root movement. It
// returns false when the spawn itself collides.
func (e *Engine) begin(f *field.Field, p MovingPiece, vm *move.ValidMoves) bool {
	vm.Clear()
	e.field = f
	e.vm = vm
	e.root = move.NoMovement
	e.grid.InitSearchGrid(f)
	if f.Collides(p.Blocks(), p.Position) {
		log.Debug().Str("piece", p.String()).Msg("spawn-collides")
		return false
	}
	e.root = e.addMovement(p, move.NoMovement)
	return true
}

// FindValidMoves fills vm with every distinct resting placement reachable
// from p, each with a short path. vm is cleared first. The field is not
// modified.
func (e *Engine) FindValidMoves(f *field.Field, p MovingPiece, vm *move.ValidMoves) {
	start := time.Now()
	if !e.begin(f, p, vm) {
		return
	}
	e.findMostValidMoves(p)
	fast := len(vm.Moves)
	e.grid.ResetVisited()
	e.findAllValidMoves(p)

	log.Debug().
		Str("piece", p.Piece.Name()).
		Int("moves", len(vm.Moves)).
		Int("fast-moves", fast).
		Int("movements", len(vm.Movements)).
		Dur("elapsed", time.Since(start)).
		Msg("found-valid-moves")
}

// FindMostValidMoves runs only the fast phase.
func (e *Engine) FindMostValidMoves(f *field.Field, p MovingPiece, vm *move.ValidMoves) {
	if e.begin(f, p, vm) {
		e.findMostValidMoves(p)
	}
}

// FindAllValidMoves runs only the exhaustive phase.
func (e *Engine) FindAllValidMoves(f *field.Field, p MovingPiece, vm *move.ValidMoves) {
	if e.begin(f, p, vm) {
		e.findAllValidMoves(p)
	}
}

func (e *Engine) addMovement(p MovingPiece, previous int32) int32 {
	return e.vm.AddMovement(move.BoxCenter(p.Position, p.Piece.GridSize()), p.Rotation, previous)
}

func (e *Engine) visited(p MovingPiece) bool {
	return e.grid.at(p.Position).visited[p.Rotation]
}

// recordMove registers the resting state p reached through lastMovement.
// A state already recorded keeps the shorter of the two paths. A state
// covering the same cells as a recorded one is dropped.
func (e *Engine) recordMove(p MovingPiece, lastMovement int32) {
	c := e.grid.at(p.Position)
	if idx := c.foundMove[p.Rotation]; idx != noMove {
		m := &e.vm.Moves[idx]
		if e.vm.PathLength(lastMovement) < e.vm.PathLength(m.LastMovement) {
			m.LastMovement = lastMovement
		}
		return
	}
	if e.duplicateOf(p) != noMove {
		return
	}
	c.foundMove[p.Rotation] = e.vm.AddMove(p.Position, p.Rotation, lastMovement)
}

// duplicateOf returns the move already recorded for an equivalent state.
func (e *Engine) duplicateOf(p MovingPiece) int32 {
	for _, d := range p.Piece.DuplicateMoveChecks(p.Rotation) {
		q := p.Position.Add(d.RelativePosition)
		if !e.grid.contains(q) {
			continue
		}
		if idx := e.grid.at(q).foundMove[d.Rotation]; idx != noMove {
			return idx
		}
	}
	return noMove
}
