package field

import "lukechampine.com/frand"

// AddGarbage pushes n garbage rows in from the bottom. Each garbage row is
// full except for `holes` distinct random columns. Whatever is pushed past
// the top row is discarded.
func (f *Field) AddGarbage(rng *frand.RNG, n, holes int) {
	if n <= 0 {
		return
	}
	if n > f.rows {
		n = f.rows
	}
	if holes < 1 {
		holes = 1
	}
	if holes >= f.columns {
		holes = f.columns - 1
	}
	// Shift everything up by n rows.
	copy(f.cells[n*f.columns:], f.cells[:(f.rows-n)*f.columns])
	for row := 0; row < n; row++ {
		for col := 0; col < f.columns; col++ {
			f.cells[row*f.columns+col] = Cell{Fill: Full}
		}
		cols := rng.Perm(f.columns)
		for _, col := range cols[:holes] {
			f.cells[row*f.columns+col] = Cell{}
		}
	}
}
