package piece

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/blockfall/blockhint/field"
)

var ErrUnknownPiece = errors.New("unknown piece")

// Kind identifies a piece shape. The set is closed.
type Kind uint8

const (
	Mono Kind = iota
	Domino
	Tri
	O
	I
	T
	L
	J
	S
	Z
	Wedge

	NumKinds
)

// shapes are drawn top row first using field level characters.
var shapes = [NumKinds]struct {
	name  string
	lines []string
}{
	Mono:   {"mono", []string{"#"}},
	Domino: {"domino", []string{"##", ".."}},
	Tri:    {"tri", []string{"A"}},
	O:      {"O", []string{"##", "##"}},
	I:      {"I", []string{"....", "####", "....", "...."}},
	T:      {"T", []string{".#.", "###", "..."}},
	L:      {"L", []string{"..#", "###", "..."}},
	J:      {"J", []string{"#..", "###", "..."}},
	S:      {"S", []string{".##", "##.", "..."}},
	Z:      {"Z", []string{"##.", ".##", "..."}},
	Wedge:  {"wedge", []string{"A.", "#S"}},
}

var catalog [NumKinds]*Piece

func init() {
	for k := Kind(0); k < NumKinds; k++ {
		catalog[k] = build(k, shapes[k].name, shapes[k].lines)
	}
}

// Get returns the catalog entry for a kind.
func Get(k Kind) *Piece {
	if k >= NumKinds {
		panic(fmt.Sprintf("no piece kind %d", k))
	}
	return catalog[k]
}

// All returns every catalog entry in kind order.
func All() []*Piece {
	return catalog[:]
}

// ByName looks a piece up by its (case-insensitive) name.
func ByName(name string) (*Piece, error) {
	p, ok := lo.Find(catalog[:], func(p *Piece) bool {
		return strings.EqualFold(p.name, name)
	})
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPiece, name)
	}
	return p, nil
}

// Names lists the catalog names.
func Names() []string {
	return lo.Map(catalog[:], func(p *Piece, _ int) string { return p.name })
}

// New builds a piece from text rows (top row first). It is used for the
// built-in catalog and for custom shapes in tests.
func New(name string, lines ...string) *Piece {
	return build(NumKinds, name, lines)
}

func build(k Kind, name string, lines []string) *Piece {
	n := len(lines)
	if n == 0 || n > MaxGridSize {
		panic(fmt.Sprintf("piece %s: bad grid size %d", name, n))
	}
	g := field.NewBlocks(n)
	for i, line := range lines {
		rs := []rune(line)
		if len(rs) != n {
			panic(fmt.Sprintf("piece %s: grid must be square", name))
		}
		for x, r := range rs {
			fill, err := field.FillFromRune(r)
			if err != nil {
				panic(fmt.Sprintf("piece %s: %v", name, err))
			}
			g.Set(x, n-1-i, fill)
		}
	}
	if g.NumOccupied() == 0 {
		panic(fmt.Sprintf("piece %s is empty", name))
	}

	p := &Piece{kind: k, name: name}
	p.grids[0] = g
	p.numRotations = NumOrientations
	for r := 1; r < NumOrientations; r++ {
		next := p.grids[r-1].RotateClockwise()
		if next.Equals(&p.grids[0]) {
			p.numRotations = r
			break
		}
		p.grids[r] = next
	}
	for r := 0; r < p.numRotations; r++ {
		p.dims[r] = dimensions(&p.grids[r])
		p.leftExtremity[r], p.rightExtremity[r] = extremities(&p.grids[r], p.dims[r])
		p.leftOverhang[r], p.rightOverhang[r] = overhangChecks(&p.grids[r], p.dims[r],
			p.leftExtremity[r], p.rightExtremity[r])
	}
	for r := 0; r < p.numRotations; r++ {
		for o := 0; o < p.numRotations; o++ {
			if o == r || !sameShape(&p.grids[r], p.dims[r], &p.grids[o], p.dims[o]) {
				continue
			}
			p.duplicateChecks[r] = append(p.duplicateChecks[r], DuplicateMoveCheck{
				RelativePosition: field.Position{
					X: p.dims[r].XMin - p.dims[o].XMin,
					Y: p.dims[r].YMin - p.dims[o].YMin,
				},
				Rotation: Rotation(o),
			})
		}
	}
	return p
}

func dimensions(g *field.Blocks) Dimensions {
	d := Dimensions{XMin: g.Size, XMax: -1, YMin: g.Size, YMax: -1}
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if g.At(x, y).IsEmpty() {
				continue
			}
			d.XMin = min(d.XMin, x)
			d.XMax = max(d.XMax, x)
			d.YMin = min(d.YMin, y)
			d.YMax = max(d.YMax, y)
		}
	}
	return d
}

func extremities(g *field.Blocks, d Dimensions) (left, right checkPosition) {
	for y := d.YMin; y <= d.YMax; y++ {
		if !left.ok && !g.At(d.XMin, y).IsEmpty() {
			left = checkPosition{pos: field.Position{X: d.XMin, Y: y}, ok: true}
		}
		if !right.ok && !g.At(d.XMax, y).IsEmpty() {
			right = checkPosition{pos: field.Position{X: d.XMax, Y: y}, ok: true}
		}
	}
	return left, right
}

func overhangChecks(g *field.Blocks, d Dimensions, le, re checkPosition) (left, right checkPosition) {
	lx, rx := -1, -1
	for x := d.XMin; x <= d.XMax; x++ {
		if g.At(x, d.YMin).IsEmpty() {
			continue
		}
		if lx < 0 {
			lx = x
		}
		rx = x
	}
	bl := field.Position{X: lx, Y: d.YMin}
	br := field.Position{X: rx, Y: d.YMin}
	if bl != le.pos {
		left = checkPosition{pos: bl, ok: true}
	}
	if br != re.pos {
		right = checkPosition{pos: br, ok: true}
	}
	return left, right
}

// sameShape compares the occupied cells of two grids after aligning their
// bottom-left extents.
func sameShape(a *field.Blocks, da Dimensions, b *field.Blocks, db Dimensions) bool {
	if da.XMax-da.XMin != db.XMax-db.XMin || da.YMax-da.YMin != db.YMax-db.YMin {
		return false
	}
	for y := 0; y <= da.YMax-da.YMin; y++ {
		for x := 0; x <= da.XMax-da.XMin; x++ {
			if a.At(da.XMin+x, da.YMin+y) != b.At(db.XMin+x, db.YMin+y) {
				return false
			}
		}
	}
	return true
}
