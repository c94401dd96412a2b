// Package ai ranks the placements of a falling piece. It runs the move
// search, lands each candidate on the field for a moment, scores it and
// sorts the results best first.
package ai

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/blockfall/blockhint/config"
	"github.com/blockfall/blockhint/equity"
	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/move"
	"github.com/blockfall/blockhint/movegen"
)

type Objective int

const (
	ObjectiveClear Objective = iota
	ObjectiveBuild
)

func (o Objective) String() string {
	if o == ObjectiveBuild {
		return "build"
	}
	return "clear"
}

// ParseObjective accepts "clear" and "build". An empty string is clear.
func ParseObjective(s string) (Objective, error) {
	switch strings.ToLower(s) {
	case "", "clear":
		return ObjectiveClear, nil
	case "build":
		return ObjectiveBuild, nil
	}
	return ObjectiveClear, fmt.Errorf("unknown objective %q", s)
}

type State int

const (
	Idle State = iota
	MovesCalculated
)

// evaluationPieceID is the piece id candidate placements are landed under.
// Level fields never use it.
const evaluationPieceID int32 = math.MaxInt32

// Evaluator owns the search engine and the result buffers for one field. It
// is not safe for concurrent use.
type Evaluator struct {
	field      *field.Field
	engine     *movegen.Engine
	validMoves move.ValidMoves
	moves      []*move.Move
	clear      equity.Combined
	build      equity.Combined
	state      State
	debug      bool
}

func NewEvaluator(cfg *config.Config, f *field.Field) *Evaluator {
	return &Evaluator{
		field:  f,
		engine: movegen.NewEngine(movegen.WithMaxRotateAdjustment(cfg.GetInt(config.ConfigMaxRotateAdjustment))),
		clear:  equity.ClearCalculators(cfg),
		build:  equity.BuildCalculators(cfg),
		debug:  cfg.GetBool(config.ConfigDebug),
	}
}

func (ev *Evaluator) Field() *field.Field { return ev.field }
func (ev *Evaluator) State() State        { return ev.state }

// SetField points the evaluator at another field and drops any results.
func (ev *Evaluator) SetField(f *field.Field) {
	ev.field = f
	ev.Reset()
}

// Reset drops the results of the last CalculateMoves.
func (ev *Evaluator) Reset() {
	ev.validMoves.Clear()
	ev.moves = ev.moves[:0]
	ev.state = Idle
}

func (ev *Evaluator) calculator(o Objective) equity.Calculator {
	if o == ObjectiveBuild {
		return ev.build
	}
	return ev.clear
}

// CalculateMoves finds every placement of p and returns them best first.
// Moves with equal scores come out in no particular order. The returned
// pointers stay valid until the next CalculateMoves or Reset.
func (ev *Evaluator) CalculateMoves(p movegen.MovingPiece, objective Objective) []*move.Move {
	start := time.Now()
	ev.engine.FindValidMoves(ev.field, p, &ev.validMoves)
	ev.moves = ev.validMoves.Pointers()

	calc := ev.calculator(objective)
	for _, m := range ev.moves {
		m.SetEquity(ev.evaluate(p, m, calc))
	}
	sort.Slice(ev.moves, func(i, j int) bool {
		return ev.moves[i].Equity() > ev.moves[j].Equity()
	})
	ev.state = MovesCalculated

	evt := log.Debug().
		Str("piece", p.Piece.Name()).
		Stringer("objective", objective).
		Int("moves", len(ev.moves)).
		Dur("elapsed", time.Since(start))
	if len(ev.moves) > 0 {
		evt = evt.Float64("best", ev.moves[0].Equity())
	}
	evt.Msg("calculated-moves")
	return ev.moves
}

// evaluate lands the piece at m, scores the field and takes the piece back
// out. The field must come back exactly as it was.
func (ev *Evaluator) evaluate(p movegen.MovingPiece, m *move.Move, calc equity.Calculator) float64 {
	l := &equity.Landing{Piece: p.Piece, Position: m.Position, Rotation: m.Rotation}
	var before uint64
	if ev.debug {
		before = ev.field.Checksum()
	}
	ev.field.LandPieceBlocks(l.Blocks(), evaluationPieceID, l.Position)
	score := calc.Equity(l, ev.field)
	ev.field.RemovePiece(l.Blocks(), evaluationPieceID, l.Position)
	if ev.debug && ev.field.Checksum() != before {
		panic(fmt.Sprintf("field changed after evaluating %v", m))
	}
	return score
}

// Moves returns the ranked moves of the last CalculateMoves.
func (ev *Evaluator) Moves() []*move.Move {
	return ev.moves
}

// BestMove returns the top ranked move, or nil if there is none.
func (ev *Evaluator) BestMove() *move.Move {
	if ev.state != MovesCalculated || len(ev.moves) == 0 {
		return nil
	}
	return ev.moves[0]
}

// ValidMoves exposes the raw search output, for following move paths.
func (ev *Evaluator) ValidMoves() *move.ValidMoves {
	return &ev.validMoves
}

// MarkReachable updates the reachability of the calculated moves now that
// the piece has moved on to current.
func (ev *Evaluator) MarkReachable(current movegen.MovingPiece) {
	if ev.state != MovesCalculated {
		panic("MarkReachable called before CalculateMoves")
	}
	ev.engine.MarkReachable(ev.field, current, &ev.validMoves)
}

// ReachableMoves returns the ranked moves that are still reachable.
func (ev *Evaluator) ReachableMoves() []*move.Move {
	return lo.Filter(ev.moves, func(m *move.Move, _ int) bool {
		return m.IsReachable
	})
}
