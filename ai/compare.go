package ai

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/blockfall/blockhint/config"
	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/move"
	"github.com/blockfall/blockhint/movegen"
	"github.com/blockfall/blockhint/piece"
)

// PieceReport is the outcome of evaluating one piece kind on a field.
type PieceReport struct {
	Kind     piece.Kind
	Name     string
	NumMoves int
	// Best is a copy of the top ranked move, nil when the piece cannot be
	// placed at all.
	Best *move.Move
}

// ComparePieces evaluates every kind from its spawn position, each on its
// own copy of f, and returns the reports best first. Kinds that cannot be
// placed come last.
func ComparePieces(ctx context.Context, cfg *config.Config, f *field.Field,
	kinds []piece.Kind, objective Objective) ([]PieceReport, error) {

	evaluators := make([]*Evaluator, len(kinds))
	for i := range kinds {
		evaluators[i] = NewEvaluator(cfg, f.Clone())
	}
	reports := make([]PieceReport, len(kinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		i, k := i, k
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ev := evaluators[i]
			p := piece.Get(k)
			moves := ev.CalculateMoves(movegen.SpawnPiece(p, ev.Field()), objective)
			r := PieceReport{Kind: k, Name: p.Name(), NumMoves: len(moves)}
			if len(moves) > 0 {
				best := *moves[0]
				r.Best = &best
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(reports, func(i, j int) bool {
		a, b := reports[i].Best, reports[j].Best
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.Equity() > b.Equity()
	})
	log.Debug().Int("kinds", len(kinds)).Stringer("objective", objective).Msg("compared-pieces")
	return reports, nil
}
