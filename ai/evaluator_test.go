package ai

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/blockfall/blockhint/config"
	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/movegen"
	"github.com/blockfall/blockhint/piece"
)

func debugConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDebug, true)
	return cfg
}

func randomField() *field.Field {
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	f := field.New(16, 8)
	f.AddGarbage(rng, 5, 2)
	return f
}

func TestClearPicksRowCompletion(t *testing.T) {
	is := is.New(t)
	f := field.MustParseRows(
		"....",
		"....",
		"....",
		"###.",
	)
	ev := NewEvaluator(debugConfig(), f)
	is.Equal(ev.State(), Idle)
	is.True(ev.BestMove() == nil)

	mono := piece.Get(piece.Mono)
	moves := ev.CalculateMoves(movegen.SpawnPiece(mono, f), ObjectiveClear)
	is.Equal(ev.State(), MovesCalculated)
	is.True(len(moves) > 0)
	best := ev.BestMove()
	is.Equal(best.Position, field.Position{X: 3, Y: 0})
	is.Equal(best.Equity(), -9.0)
}

func TestBuildPrefersBlueprint(t *testing.T) {
	is := is.New(t)
	f := field.MustParseRows(
		"....",
		"....",
		"....",
		"#..#",
	)
	is.NoErr(f.ApplyBlueprint([]string{
		"....",
		"....",
		"....",
		".xx.",
	}))
	ev := NewEvaluator(debugConfig(), f)
	ev.CalculateMoves(movegen.SpawnPiece(piece.Get(piece.Mono), f), ObjectiveBuild)
	best := ev.BestMove()
	is.Equal(best.Position.Y, 0)
	// Two for the blueprint cell, a quarter off for the well beside it.
	is.Equal(best.Equity(), 1.75)
}

func TestSortedBestFirst(t *testing.T) {
	is := is.New(t)
	f := randomField()
	ev := NewEvaluator(debugConfig(), f)
	for _, p := range piece.All() {
		moves := ev.CalculateMoves(movegen.SpawnPiece(p, f), ObjectiveClear)
		for i := 1; i < len(moves); i++ {
			is.True(moves[i-1].Equity() >= moves[i].Equity())
		}
	}
}

func TestFieldUntouched(t *testing.T) {
	is := is.New(t)
	f := randomField()
	is.NoErr(f.ApplyBlueprint(blueprintRows(f)))
	before := f.Bytes()
	ev := NewEvaluator(debugConfig(), f)
	for _, p := range piece.All() {
		for _, o := range []Objective{ObjectiveClear, ObjectiveBuild} {
			ev.CalculateMoves(movegen.SpawnPiece(p, f), o)
			is.True(bytes.Equal(before, f.Bytes()))
		}
	}
}

func blueprintRows(f *field.Field) []string {
	rows := make([]string, f.NumRows())
	for i := range rows {
		b := bytes.Repeat([]byte("."), f.NumColumns())
		if i >= f.NumRows()-8 {
			b[i%f.NumColumns()] = 'x'
		}
		rows[i] = string(b)
	}
	return rows
}

func TestDeterministic(t *testing.T) {
	is := is.New(t)
	f := randomField()
	tp := movegen.SpawnPiece(piece.Get(piece.T), f)

	scores := func(ev *Evaluator) []float64 {
		moves := ev.CalculateMoves(tp, ObjectiveClear)
		out := make([]float64, len(moves))
		for i, m := range moves {
			out[i] = m.Equity()
		}
		return out
	}
	ev := NewEvaluator(config.DefaultConfig(), f)
	s1 := scores(ev)
	s2 := scores(ev)
	s3 := scores(NewEvaluator(config.DefaultConfig(), f))
	is.Equal(s1, s2)
	is.Equal(s1, s3)
}

func TestResetAndReachable(t *testing.T) {
	is := is.New(t)
	f := field.MustParseRows(
		"......",
		"......",
		"##W...",
		"#.....",
		"##....",
		"######",
	)
	mono := piece.Get(piece.Mono)
	ev := NewEvaluator(config.DefaultConfig(), f)
	moves := ev.CalculateMoves(movegen.SpawnPiece(mono, f), ObjectiveClear)
	is.Equal(len(ev.ReachableMoves()), len(moves))

	ev.MarkReachable(movegen.MovingPiece{Piece: mono, Position: field.Position{X: 3, Y: 2}})
	is.Equal(len(ev.ReachableMoves()), 5)

	ev.Reset()
	is.Equal(ev.State(), Idle)
	is.True(ev.BestMove() == nil)
	is.Equal(len(ev.ValidMoves().Moves), 0)
}

func TestSpawnBlocked(t *testing.T) {
	is := is.New(t)
	f := field.MustParseRows(
		"####",
		"....",
	)
	ev := NewEvaluator(config.DefaultConfig(), f)
	moves := ev.CalculateMoves(movegen.SpawnPiece(piece.Get(piece.O), f), ObjectiveClear)
	is.Equal(len(moves), 0)
	is.True(ev.BestMove() == nil)
}

func TestParseObjective(t *testing.T) {
	is := is.New(t)
	o, err := ParseObjective("Build")
	is.NoErr(err)
	is.Equal(o, ObjectiveBuild)
	o, err = ParseObjective("")
	is.NoErr(err)
	is.Equal(o, ObjectiveClear)
	_, err = ParseObjective("survive")
	is.True(err != nil)
}

func TestComparePieces(t *testing.T) {
	is := is.New(t)
	f := field.MustParseRows(
		"......",
		"......",
		"......",
		"......",
		"......",
		"##.###",
	)
	kinds := []piece.Kind{piece.O, piece.I, piece.Mono}
	reports, err := ComparePieces(context.Background(), config.DefaultConfig(), f, kinds, ObjectiveClear)
	is.NoErr(err)
	is.Equal(len(reports), 3)
	// Only the mono fills the single-cell gap and clears the row.
	is.Equal(reports[0].Kind, piece.Mono)
	for i := 1; i < len(reports); i++ {
		is.True(reports[i-1].Best.Equity() >= reports[i].Best.Equity())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ComparePieces(ctx, config.DefaultConfig(), f, kinds, ObjectiveClear)
	is.True(errors.Is(err, context.Canceled))
}
