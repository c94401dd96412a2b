package shell

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/blockfall/blockhint/ai"
	"github.com/blockfall/blockhint/analyzer"
	"github.com/blockfall/blockhint/cache"
	"github.com/blockfall/blockhint/config"
	"github.com/blockfall/blockhint/field"
	"github.com/blockfall/blockhint/move"
	"github.com/blockfall/blockhint/movegen"
	"github.com/blockfall/blockhint/piece"
	"github.com/blockfall/blockhint/stats"
)

const (
	defaultNumMoves = 15
	histogramBins   = 10
	histogramWidth  = 40
)

// levelPath resolves a level file name, falling back to the fields path.
func (sc *ShellController) levelPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	for _, candidate := range []string{name, name + ".yaml"} {
		p := filepath.Join(sc.cfg.GetString(config.ConfigFieldsPath), candidate)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return name
}

// loadLevel reads a level through the object cache. The cache key carries
// the modification time, so an edited file is parsed again. The returned
// level has its own copy of the field.
func loadLevel(cfg *config.Config, path string) (*field.Level, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("level:%s@%d", path, fi.ModTime().UnixNano())
	cached, err := cache.Load(cfg, key, func(_ *config.Config, _ string) (*field.Level, error) {
		return field.LoadLevelFile(path)
	})
	if err != nil {
		return nil, err
	}
	lvl := *cached
	lvl.Field = lvl.Field.Clone()
	return &lvl, nil
}

func (sc *ShellController) setField(name string, f *field.Field) {
	sc.levelName = name
	sc.field = f
	sc.moves = nil
	if sc.evaluator == nil {
		sc.evaluator = ai.NewEvaluator(sc.cfg, f)
	} else {
		sc.evaluator.SetField(f)
	}
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file>")
	}
	lvl, err := loadLevel(sc.cfg, sc.levelPath(cmd.args[0]))
	if err != nil {
		return nil, err
	}
	obj, err := ai.ParseObjective(lvl.Objective)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", lvl.Name, err)
	}
	if obj == ai.ObjectiveBuild && !lvl.Field.HasBlueprint() {
		return nil, fmt.Errorf("level %s: %w", lvl.Name, errNoBlueprint)
	}
	sc.setField(lvl.Name, lvl.Field)
	sc.objective = obj
	log.Info().Str("level", lvl.Name).Stringer("objective", obj).
		Int("rows", lvl.Field.NumRows()).Int("columns", lvl.Field.NumColumns()).Msg("loaded-level")
	return sc.show(cmd)
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.field == nil {
		return nil, errNoField
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Level: %s  Objective: %s  Piece: %s %s\n",
		sc.levelName, sc.objective, sc.piece.Name(), sc.rotation)
	if sc.field.HasBlueprint() {
		fmt.Fprintf(&b, "Blueprint: %g of %g filled\n",
			analyzer.BlueprintCellsFilled(sc.field), analyzer.BlueprintArea(sc.field))
	}
	b.WriteString(sc.field.ToDisplayText())
	return msg(b.String()), nil
}

func parseRotation(s string) (piece.Rotation, error) {
	r, err := strconv.Atoi(strings.TrimSuffix(s, "°"))
	if err != nil {
		return 0, err
	}
	if r >= 90 && r%90 == 0 {
		r /= 90
	}
	if r < 0 || r >= piece.NumOrientations {
		return 0, fmt.Errorf("rotation %s out of range", s)
	}
	return piece.Rotation(r), nil
}

func (sc *ShellController) setPiece(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg("Pieces: " + strings.Join(piece.Names(), ", ")), nil
	}
	p, err := piece.ByName(cmd.args[0])
	if err != nil {
		return nil, err
	}
	rot := piece.Rotation0
	if len(cmd.args) > 1 {
		rot, err = parseRotation(cmd.args[1])
		if err != nil {
			return nil, err
		}
		if int(rot) >= p.NumRotations() {
			return nil, fmt.Errorf("%s has only %d rotations", p.Name(), p.NumRotations())
		}
	}
	sc.piece, sc.rotation = p, rot
	sc.moves = nil
	return msg(fmt.Sprintf("Piece set to %s %s\n%s", p.Name(), rot, p.Grid(rot))), nil
}

func (sc *ShellController) setObjective(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return msg("Objective: " + sc.objective.String()), nil
	}
	obj, err := ai.ParseObjective(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if obj == ai.ObjectiveBuild && sc.field != nil && !sc.field.HasBlueprint() {
		return nil, errNoBlueprint
	}
	sc.objective = obj
	sc.moves = nil
	return msg("Objective set to " + obj.String()), nil
}

func (sc *ShellController) garbage(cmd *shellcmd) (*Response, error) {
	if sc.field == nil {
		return nil, errNoField
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: garbage <rows> [holes] [-seed n]")
	}
	rows, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	holes := 1
	if len(cmd.args) > 1 {
		if holes, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
	}
	rng := sc.rng
	if s, ok := cmd.options["seed"]; ok {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		key := make([]byte, 32)
		binary.LittleEndian.PutUint64(key, seed)
		rng = frand.NewCustom(key, 1024, 12)
	}
	sc.field.AddGarbage(rng, rows, holes)
	sc.evaluator.Reset()
	sc.moves = nil
	return sc.show(cmd)
}

// currentPiece is the selected piece at its spawn position.
func (sc *ShellController) currentPiece() movegen.MovingPiece {
	return movegen.MovingPiece{
		Piece:    sc.piece,
		Position: sc.piece.SpawnPosition(sc.field.NumRows(), sc.field.NumColumns(), sc.rotation),
		Rotation: sc.rotation,
	}
}

func moveTableHeader() string {
	return fmt.Sprintf("%4s  %-10s %-6s %-9s %s", "#", "Position", "Rot", "Score", "Path")
}

func (sc *ShellController) moveTableRow(idx int) string {
	m := sc.moves[idx]
	vm := sc.evaluator.ValidMoves()
	reach := ""
	if !m.IsReachable {
		reach = " (unreachable)"
	}
	return fmt.Sprintf("%4d: %-10s %-6s %-9.3f %d%s", idx+1,
		m.Position, m.Rotation, m.Equity(), vm.PathLength(m.LastMovement), reach)
}

func (sc *ShellController) gen(cmd *shellcmd) (*Response, error) {
	if sc.field == nil {
		return nil, errNoField
	}
	n := defaultNumMoves
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	sc.moves = sc.evaluator.CalculateMoves(sc.currentPiece(), sc.objective)
	if len(sc.moves) == 0 {
		return msg("No legal moves: the piece cannot spawn."), nil
	}
	sc.bestScores.Push(sc.moves[0].Equity())

	var b strings.Builder
	fmt.Fprintf(&b, "%d moves for %s\n", len(sc.moves), sc.piece.Name())
	b.WriteString(moveTableHeader() + "\n")
	for i := 0; i < len(sc.moves) && i < n; i++ {
		b.WriteString(sc.moveTableRow(i) + "\n")
	}
	return msg(b.String()), nil
}

func (sc *ShellController) moveIndex(s string) (int, error) {
	if len(sc.moves) == 0 {
		return 0, errNoMoves
	}
	i, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil {
		return 0, err
	}
	if i < 1 || i > len(sc.moves) {
		return 0, errors.New("move outside range")
	}
	return i - 1, nil
}

func (sc *ShellController) path(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: path <move number>")
	}
	idx, err := sc.moveIndex(cmd.args[0])
	if err != nil {
		return nil, err
	}
	m := sc.moves[idx]
	var b strings.Builder
	b.WriteString(sc.moveTableRow(idx) + "\n")
	for i, step := range sc.evaluator.ValidMoves().Path(m.LastMovement) {
		fmt.Fprintf(&b, "  %2d. %v %v\n", i, step.Position, step.Rotation)
	}

	preview := sc.previewField()
	preview.LandPieceBlocks(sc.piece.Grid(m.Rotation), previewPieceID, m.Position)
	b.WriteString(preview.ToDisplayText())
	return msg(b.String()), nil
}

const previewPieceID int32 = 1 << 30

// previewField returns a scratch copy of the field, reusing the previous
// one when the dimensions match.
func (sc *ShellController) previewField() *field.Field {
	if sc.preview == nil || sc.preview.NumRows() != sc.field.NumRows() ||
		sc.preview.NumColumns() != sc.field.NumColumns() {
		sc.preview = sc.field.Clone()
		return sc.preview
	}
	sc.preview.CopyFrom(sc.field)
	return sc.preview
}

func (sc *ShellController) reach(cmd *shellcmd) (*Response, error) {
	if len(sc.moves) == 0 {
		return nil, errNoMoves
	}
	if len(cmd.args) != 3 {
		return nil, errors.New("usage: reach <col> <row> <rot>")
	}
	nums := make([]int, 2)
	for i := range nums {
		var err error
		if nums[i], err = strconv.Atoi(cmd.args[i]); err != nil {
			return nil, err
		}
	}
	rot, err := parseRotation(cmd.args[2])
	if err != nil {
		return nil, err
	}
	if int(rot) >= sc.piece.NumRotations() {
		return nil, fmt.Errorf("%s has only %d rotations", sc.piece.Name(), sc.piece.NumRotations())
	}
	cur := movegen.MovingPiece{Piece: sc.piece, Position: field.Position{X: nums[0], Y: nums[1]}, Rotation: rot}
	if sc.field.Collides(cur.Blocks(), cur.Position) {
		return nil, fmt.Errorf("%v collides with the field", cur)
	}
	sc.evaluator.MarkReachable(cur)
	reachable := sc.evaluator.ReachableMoves()
	return msg(fmt.Sprintf("%d of %d moves reachable from %v", len(reachable), len(sc.moves), cur)), nil
}

func (sc *ShellController) scores() ([]float64, error) {
	if len(sc.moves) == 0 {
		return nil, errNoMoves
	}
	return lo.Map(sc.moves, func(m *move.Move, _ int) float64 {
		return m.Equity()
	}), nil
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	scores, err := sc.scores()
	if err != nil {
		return nil, err
	}
	s := stats.Summarize(scores)
	var b strings.Builder
	fmt.Fprintf(&b, "Moves:  %d\n", s.N)
	fmt.Fprintf(&b, "Mean:   %.3f ± %.3f\n", s.Mean, s.CI95)
	fmt.Fprintf(&b, "Stdev:  %.3f\n", s.Stdev)
	fmt.Fprintf(&b, "Min:    %.3f\n", s.Min)
	fmt.Fprintf(&b, "Median: %.3f\n", s.Median)
	fmt.Fprintf(&b, "Max:    %.3f\n", s.Max)
	fmt.Fprintf(&b, "Best of last gen: %.3f\n", sc.bestScores.Last())
	fmt.Fprintf(&b, "Session best moves: %d, mean %.3f ± %.3f, stdev %.3f",
		sc.bestScores.Iterations(), sc.bestScores.Mean(),
		sc.bestScores.Interval(95), sc.bestScores.Stdev())
	return msg(b.String()), nil
}

func (sc *ShellController) hist(cmd *shellcmd) (*Response, error) {
	scores, err := sc.scores()
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	h := histogram.Hist(histogramBins, scores)
	if err := histogram.Fprint(&b, h, histogram.Linear(histogramWidth)); err != nil {
		return nil, err
	}
	return msg(b.String()), nil
}

func (sc *ShellController) compare(cmd *shellcmd) (*Response, error) {
	if sc.field == nil {
		return nil, errNoField
	}
	kinds := lo.Map(piece.All(), func(p *piece.Piece, _ int) piece.Kind { return p.Kind() })
	if len(cmd.args) > 0 {
		kinds = kinds[:0]
		for _, name := range cmd.args {
			p, err := piece.ByName(name)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, p.Kind())
		}
	}
	reports, err := ai.ComparePieces(context.Background(), sc.cfg, sc.field, kinds, sc.objective)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-6s %-10s %-6s %s\n", "Piece", "Moves", "Best at", "Rot", "Score")
	for _, r := range reports {
		if r.Best == nil {
			fmt.Fprintf(&b, "%-8s %-6d %s\n", r.Name, r.NumMoves, "-")
			continue
		}
		fmt.Fprintf(&b, "%-8s %-6d %-10s %-6s %.3f\n", r.Name, r.NumMoves,
			r.Best.Position, r.Best.Rotation, r.Best.Equity())
	}
	return msg(b.String()), nil
}
