// Package move holds the results of a placement search: the Moves (resting
// placements) and the Movements (path steps) that lead to them.
package move

import (
	"fmt"

	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/piece"
)

// NoMovement terminates a Movement path.
const NoMovement int32 = -1

// Vec2 is a point in field coordinates. Movements record the centre of the
// piece box, which is fractional for even-sized boxes.
type Vec2 struct {
	X float32
	Y float32
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.1f,%.1f)", v.X, v.Y)
}

// Movement is one step of a path. Paths are linked backwards through
// Previous, which indexes into the same ValidMoves arena, so many moves can
// share a prefix.
type Movement struct {
	Position Vec2
	Rotation piece.Rotation
	Previous int32
}

// Move is a resting placement of a piece.
type Move struct {
	Position     field.Position
	Rotation     piece.Rotation
	LastMovement int32
	Score        float64
	IsReachable  bool
}

func (m *Move) String() string {
	return fmt.Sprintf("<move pos: %v rot: %v score: %.3f reachable: %v>",
		m.Position, m.Rotation, m.Score, m.IsReachable)
}

// Equity is the score the evaluator gave this move.
func (m *Move) Equity() float64 {
	return m.Score
}

// SetEquity sets the score. It is calculated outside this package.
func (m *Move) SetEquity(e float64) {
	m.Score = e
}

// BoxCenter is the centre of a size×size box whose origin is pos.
func BoxCenter(pos field.Position, size int) Vec2 {
	half := float32(size) / 2
	return Vec2{X: float32(pos.X) + half, Y: float32(pos.Y) + half}
}

// ValidMoves is the output of one search. It is owned by the caller and
// cleared, not reallocated, between searches.
type ValidMoves struct {
	Movements []Movement
	Moves     []Move
}

// Clear empties both arenas and keeps their capacity.
func (vm *ValidMoves) Clear() {
	vm.Movements = vm.Movements[:0]
	vm.Moves = vm.Moves[:0]
}

// AddMovement appends a movement and returns its index.
func (vm *ValidMoves) AddMovement(pos Vec2, rot piece.Rotation, previous int32) int32 {
	if previous != NoMovement && (previous < 0 || int(previous) >= len(vm.Movements)) {
		panic(fmt.Sprintf("AddMovement: bad previous movement %d", previous))
	}
	vm.Movements = append(vm.Movements, Movement{Position: pos, Rotation: rot, Previous: previous})
	return int32(len(vm.Movements) - 1)
}

// AddMove appends a move and returns its index.
func (vm *ValidMoves) AddMove(pos field.Position, rot piece.Rotation, lastMovement int32) int32 {
	vm.Moves = append(vm.Moves, Move{
		Position:     pos,
		Rotation:     rot,
		LastMovement: lastMovement,
		IsReachable:  true,
	})
	return int32(len(vm.Moves) - 1)
}

// PathLength counts the movements from the root up to and including idx.
func (vm *ValidMoves) PathLength(idx int32) int {
	n := 0
	for idx != NoMovement {
		n++
		idx = vm.Movements[idx].Previous
	}
	return n
}

// Path returns the movements leading to idx, root first.
func (vm *ValidMoves) Path(idx int32) []Movement {
	path := make([]Movement, vm.PathLength(idx))
	for i := len(path) - 1; i >= 0; i-- {
		path[i] = vm.Movements[idx]
		idx = vm.Movements[idx].Previous
	}
	return path
}

// Pointers returns a pointer to every move, in discovery order. The
// pointers are invalidated by the next Clear or AddMove.
func (vm *ValidMoves) Pointers() []*Move {
	ptrs := make([]*Move, len(vm.Moves))
	for i := range vm.Moves {
		ptrs[i] = &vm.Moves[i]
	}
	return ptrs
}
