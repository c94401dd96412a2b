package movegen

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/move"
	"github.com/blockfall/blockhint/piece"
)

type state struct {
	X, Y int
	R    piece.Rotation
}

func (s state) less(o state) bool {
	if s.R != o.R {
		return s.R < o.R
	}
	if s.X != o.X {
		return s.X < o.X
	}
	return s.Y < o.Y
}

// canonical picks one representative among the states covering the same
// cells.
func canonical(p *piece.Piece, pos field.Position, r piece.Rotation) state {
	best := state{pos.X, pos.Y, r}
	for _, d := range p.DuplicateMoveChecks(r) {
		s := state{pos.X + d.RelativePosition.X, pos.Y + d.RelativePosition.Y, d.Rotation}
		if s.less(best) {
			best = s
		}
	}
	return best
}

func sortedStates(m map[state]bool) []state {
	out := make([]state, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// bruteForce explores every state reachable with single steps and returns
// the canonical resting states.
func bruteForce(f *field.Field, p MovingPiece, maxAdjust int) map[state]bool {
	e := NewEngine(WithMaxRotateAdjustment(maxAdjust))
	e.field = f

	key := func(mp MovingPiece) state { return state{mp.Position.X, mp.Position.Y, mp.Rotation} }
	seen := map[state]bool{key(p): true}
	resting := map[state]bool{}
	queue := []MovingPiece{p}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if f.Collides(cur.Blocks(), cur.moved(0, -1).Position) {
			resting[canonical(cur.Piece, cur.Position, cur.Rotation)] = true
		}
		var next []MovingPiece
		for _, d := range []field.Position{{X: -1}, {X: 1}, {Y: -1}} {
			q := cur.moved(d.X, d.Y)
			if !f.Collides(q.Blocks(), q.Position) {
				next = append(next, q)
			}
		}
		for _, dir := range []int{1, -1} {
			if q, ok := e.rotate(cur, dir); ok {
				next = append(next, q)
			}
		}
		for _, q := range next {
			if !seen[key(q)] {
				seen[key(q)] = true
				queue = append(queue, q)
			}
		}
	}
	return resting
}

func moveStates(t *testing.T, p *piece.Piece, vm *move.ValidMoves) map[state]bool {
	t.Helper()
	out := map[state]bool{}
	for _, m := range vm.Moves {
		s := canonical(p, m.Position, m.Rotation)
		if out[s] {
			t.Fatalf("duplicate placement %v for %s", s, p.Name())
		}
		out[s] = true
	}
	return out
}

// A roof over column 0-1 at row 3 and a diagonal ledge at column 2. The
// pocket at (1,2) can only be entered by falling down column 3 and sliding
// left under the ledge.
func ledgeField() *field.Field {
	return field.MustParseRows(
		"......",
		"......",
		"##W...",
		"#.....",
		"##....",
		"######",
	)
}

func randomField(rng *frand.RNG, rows, cols, filledRows int) *field.Field {
	fills := []field.Fill{
		field.Empty, field.Empty, field.Empty, field.Full, field.Full,
		field.UpperLeftHalf, field.UpperRightHalf, field.LowerLeftHalf, field.LowerRightHalf,
	}
	f := field.New(rows, cols)
	for r := 0; r < filledRows; r++ {
		for c := 0; c < cols; c++ {
			f.SetFill(r, c, fills[rng.Intn(len(fills))])
		}
	}
	return f
}

func TestLedgeFoundByFastPhase(t *testing.T) {
	is := is.New(t)
	f := ledgeField()
	mono := piece.Get(piece.Mono)
	sp := SpawnPiece(mono, f)
	is.Equal(sp.Position, field.Position{X: 2, Y: 5})

	e := NewEngine()
	vm := &move.ValidMoves{}
	e.FindMostValidMoves(f, sp, vm)
	is.True(e.Grid().UnderOverhangTip(field.Position{X: 2, Y: 2}))

	var pocket *move.Move
	for i := range vm.Moves {
		if vm.Moves[i].Position == (field.Position{X: 1, Y: 2}) {
			pocket = &vm.Moves[i]
		}
	}
	is.True(pocket != nil)
	path := vm.Path(pocket.LastMovement)
	// spawn, slide right, drop, slide left under the ledge
	is.Equal(len(path), 4)
	is.Equal(path[0].Position, move.Vec2{X: 2.5, Y: 5.5})
	is.Equal(path[3].Position, move.Vec2{X: 1.5, Y: 2.5})
	is.Equal(len(vm.Moves), 8)

	e.FindValidMoves(f, sp, vm)
	is.Equal(len(vm.Moves), 8)
}

func TestFastPhaseOnEmptyField(t *testing.T) {
	is := is.New(t)
	f := field.New(20, 10)
	e := NewEngine()
	vm := &move.ValidMoves{}
	for _, p := range piece.All() {
		sp := SpawnPiece(p, f)
		e.FindMostValidMoves(f, sp, vm)
		fast := len(vm.Moves)
		e.FindValidMoves(f, sp, vm)
		is.Equal(fast, len(vm.Moves)) // every placement found without the exhaustive pass
	}
}

func TestFastPhaseTurnsBelowCeiling(t *testing.T) {
	is := is.New(t)
	f := field.New(20, 10)
	bar := piece.Get(piece.I)
	sp := SpawnPiece(bar, f)
	e := NewEngine()
	vm := &move.ValidMoves{}
	e.FindMostValidMoves(f, sp, vm)
	is.Equal(len(vm.Moves), 17) // 7 flat, 10 upright
	upright := 0
	for _, m := range vm.Moves {
		if bar.Dimensions(m.Rotation).YMax > bar.Dimensions(m.Rotation).YMin {
			upright++
		}
	}
	is.Equal(upright, 10)

	// The upright bar does not fit at the spawn row.
	_, ok := e.rotate(sp, 1)
	is.True(!ok)
}

func TestMatchesBruteForce(t *testing.T) {
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	fields := []*field.Field{ledgeField(), field.New(10, 6)}
	for i := 0; i < 12; i++ {
		fields = append(fields, randomField(rng, 10, 6, 5))
	}

	e := NewEngine()
	vm := &move.ValidMoves{}
	for fi, f := range fields {
		for _, p := range piece.All() {
			t.Run(fmt.Sprintf("%d/%s", fi, p.Name()), func(t *testing.T) {
				sp := SpawnPiece(p, f)
				if f.Collides(sp.Blocks(), sp.Position) {
					t.Skip("spawn blocked")
				}
				want := sortedStates(bruteForce(f, sp, DefaultMaxRotateAdjustment))

				e.FindValidMoves(f, sp, vm)
				got := sortedStates(moveStates(t, p, vm))
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("placements differ (-brute +engine):\n%s\n%s", diff, f)
				}

				e.FindMostValidMoves(f, sp, vm)
				for s := range moveStates(t, p, vm) {
					if !bruteSet(want)[s] {
						t.Errorf("fast phase found unreachable %v", s)
					}
				}
			})
		}
	}
}

func bruteSet(states []state) map[state]bool {
	m := make(map[state]bool, len(states))
	for _, s := range states {
		m[s] = true
	}
	return m
}

func TestMovesRestAndPathsEndThere(t *testing.T) {
	is := is.New(t)
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	f := randomField(rng, 12, 8, 6)
	e := NewEngine()
	vm := &move.ValidMoves{}
	for _, p := range piece.All() {
		sp := SpawnPiece(p, f)
		if f.Collides(sp.Blocks(), sp.Position) {
			continue
		}
		e.FindValidMoves(f, sp, vm)
		for _, m := range vm.Moves {
			b := p.Grid(m.Rotation)
			is.True(!f.Collides(b, m.Position))
			is.True(f.Collides(b, m.Position.Add(field.Position{Y: -1})))
			last := vm.Movements[m.LastMovement]
			is.Equal(last.Position, move.BoxCenter(m.Position, p.GridSize()))
			is.Equal(last.Rotation, m.Rotation)
			is.Equal(vm.Path(m.LastMovement)[0].Position, move.BoxCenter(sp.Position, p.GridSize()))
		}
	}
}

func TestCollisionMemoMatchesDirectScan(t *testing.T) {
	is := is.New(t)
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	f := randomField(rng, 10, 6, 5)
	e := NewEngine()
	vm := &move.ValidMoves{}
	for _, p := range piece.All() {
		sp := SpawnPiece(p, f)
		if f.Collides(sp.Blocks(), sp.Position) {
			continue
		}
		e.FindValidMoves(f, sp, vm)
		for r := 0; r < p.NumRotations(); r++ {
			for y := -gridPadding; y < f.NumRows(); y++ {
				for x := -gridPadding; x < f.NumColumns(); x++ {
					mp := MovingPiece{Piece: p, Position: field.Position{X: x, Y: y}, Rotation: piece.Rotation(r)}
					b := mp.Blocks()
					if f.Collides(b, mp.Position) {
						continue
					}
					is.Equal(e.handleCollisionDown(mp), f.DetectFreeSpaceDown(b, mp.Position))
					is.Equal(e.handleCollisionLeft(mp), f.DetectFreeSpaceLeft(b, mp.Position))
					is.Equal(e.handleCollisionRight(mp), f.DetectFreeSpaceRight(b, mp.Position))
				}
			}
		}
	}
}

func TestSpawnCollides(t *testing.T) {
	is := is.New(t)
	f := field.MustParseRows(
		"..##..",
		"......",
		"......",
	)
	e := NewEngine()
	vm := &move.ValidMoves{}
	vm.AddMovement(move.Vec2{}, piece.Rotation0, move.NoMovement)
	e.FindValidMoves(f, SpawnPiece(piece.Get(piece.O), f), vm)
	is.Equal(len(vm.Moves), 0)
	is.Equal(len(vm.Movements), 0)
}

func TestRecordMoveKeepsShorterPath(t *testing.T) {
	is := is.New(t)
	f := field.New(6, 6)
	mono := piece.Get(piece.Mono)
	sp := SpawnPiece(mono, f)
	e := NewEngine()
	vm := &move.ValidMoves{}
	is.True(e.begin(f, sp, vm))

	rest := sp.at(0, 0)
	long := e.addMovement(sp.at(1, 5), e.root)
	long = e.addMovement(sp.at(0, 5), long)
	long = e.addMovement(rest, long)
	short := e.addMovement(rest, e.root)

	e.recordMove(rest, long)
	e.recordMove(rest, short)
	is.Equal(len(vm.Moves), 1)
	is.Equal(vm.Moves[0].LastMovement, short)

	e.recordMove(rest, long)
	is.Equal(vm.Moves[0].LastMovement, short)
}

func TestDuplicateRotationDropped(t *testing.T) {
	is := is.New(t)
	f := field.New(8, 6)
	ip := piece.Get(piece.I)
	e := NewEngine()
	vm := &move.ValidMoves{}
	is.True(e.begin(f, SpawnPiece(ip, f), vm))

	// Rotation 0 at row -2 and rotation 180 at row -1 both fill row 0.
	e.recordMove(MovingPiece{Piece: ip, Position: field.Position{X: 1, Y: -2}, Rotation: piece.Rotation0}, e.root)
	e.recordMove(MovingPiece{Piece: ip, Position: field.Position{X: 1, Y: -1}, Rotation: piece.Rotation180}, e.root)
	is.Equal(len(vm.Moves), 1)
	is.Equal(vm.Moves[0].Rotation, piece.Rotation0)
}

func TestRotateAdjustsAwayFromWall(t *testing.T) {
	is := is.New(t)
	f := field.New(10, 6)
	ip := piece.Get(piece.I)
	vertical := MovingPiece{Piece: ip, Position: field.Position{X: -2, Y: 3}, Rotation: piece.Rotation90}
	is.True(!f.Collides(vertical.Blocks(), vertical.Position))

	e := NewEngine()
	e.field = f
	q, ok := e.rotate(vertical, 1)
	is.True(ok)
	is.Equal(q.Rotation, piece.Rotation180)
	is.Equal(q.Position, field.Position{X: 0, Y: 3})

	e = NewEngine(WithMaxRotateAdjustment(1))
	e.field = f
	_, ok = e.rotate(vertical, 1)
	is.True(!ok)
}

func TestSingleRotationNeverRotates(t *testing.T) {
	is := is.New(t)
	f := field.New(6, 6)
	e := NewEngine()
	e.field = f
	_, ok := e.rotate(SpawnPiece(piece.Get(piece.O), f), 1)
	is.True(!ok)
}

func TestMarkReachable(t *testing.T) {
	is := is.New(t)
	f := ledgeField()
	mono := piece.Get(piece.Mono)
	e := NewEngine()
	vm := &move.ValidMoves{}
	e.FindValidMoves(f, SpawnPiece(mono, f), vm)

	// Already under the roof: the moves on top of it are gone.
	e.MarkReachable(f, MovingPiece{Piece: mono, Position: field.Position{X: 3, Y: 2}}, vm)
	reachable := map[field.Position]bool{}
	for _, m := range vm.Moves {
		reachable[m.Position] = m.IsReachable
	}
	is.True(reachable[field.Position{X: 1, Y: 2}])
	is.True(reachable[field.Position{X: 5, Y: 1}])
	is.True(!reachable[field.Position{X: 2, Y: 4}])
	is.True(!reachable[field.Position{X: 0, Y: 4}])

	n := 0
	for _, m := range vm.Moves {
		if m.IsReachable {
			n++
		}
	}
	is.Equal(n, 5)
}

func TestOverhangTips(t *testing.T) {
	is := is.New(t)
	var sg SearchGrid
	sg.InitSearchGrid(field.MustParseRows(
		"......",
		".##...",
		"......",
		"#..Q..",
		"######",
	))
	// Cells under the roof that a neighbour column can slide into.
	is.True(sg.UnderOverhangTip(field.Position{X: 1, Y: 2}))
	is.True(sg.UnderOverhangTip(field.Position{X: 2, Y: 2}))
	// An upper-left half with an empty cell on its right.
	is.True(sg.UnderOverhangTip(field.Position{X: 3, Y: 1}))
	is.True(!sg.UnderOverhangTip(field.Position{X: 4, Y: 1}))
	is.True(!sg.UnderOverhangTip(field.Position{X: 9, Y: 9}))
}

func TestUpperRightHalfTip(t *testing.T) {
	is := is.New(t)
	var sg SearchGrid
	sg.InitSearchGrid(field.MustParseRows(
		"....",
		"....",
		".W..",
		"####",
	))
	// An upper-right half with an empty cell on its left.
	is.True(sg.UnderOverhangTip(field.Position{X: 1, Y: 1}))

	sg.InitSearchGrid(field.MustParseRows(
		"....",
		"....",
		"#W..",
		"####",
	))
	is.True(!sg.UnderOverhangTip(field.Position{X: 1, Y: 1}))
}

func TestTriSlidesIntoUpperRightHalf(t *testing.T) {
	is := is.New(t)
	f := field.MustParseRows(
		"....",
		"....",
		".W..",
		"####",
	)
	tri := piece.Get(piece.Tri)
	start := MovingPiece{Piece: tri, Position: field.Position{X: 0, Y: 3}}

	e := NewEngine()
	vm := &move.ValidMoves{}
	e.FindMostValidMoves(f, start, vm)

	var inHalf *move.Move
	for i := range vm.Moves {
		m := &vm.Moves[i]
		if m.Position == (field.Position{X: 1, Y: 1}) && m.Rotation == piece.Rotation0 {
			inHalf = m
		}
	}
	is.True(inHalf != nil)
	// Dropped down the left column, then slid right into the open half.
	path := vm.Path(inHalf.LastMovement)
	is.Equal(len(path), 3)
	is.Equal(path[1].Position, move.Vec2{X: 0.5, Y: 1.5})
	is.Equal(path[2].Position, move.Vec2{X: 1.5, Y: 1.5})
}
