// Package analyzer computes the field features the evaluator scores
// placements with. Every function is a read-only scan of the field.
package analyzer

import "github.com/blockfall/blockhint/field"

// BuriedHolesArea is the empty area that has something filled above it in
// the same column. An upper half cell buries its own empty lower half; a
// lower half cell under cover has a buried empty upper half.
func BuriedHolesArea(f *field.Field) float64 {
	area := 0.0
	for col := 0; col < f.NumColumns(); col++ {
		covered := false
		for row := f.NumRows() - 1; row >= 0; row-- {
			fill := f.FillAt(row, col)
			switch fill {
			case field.Full:
				covered = true
			case field.Empty:
				if covered {
					area++
				}
			case field.UpperLeftHalf, field.UpperRightHalf:
				area += 0.5
				covered = true
			case field.LowerLeftHalf, field.LowerRightHalf:
				if covered {
					area += 0.5
				}
				covered = true
			default:
				if covered {
					area += 1 - fill.Area()
				}
				covered = true
			}
		}
	}
	return area
}

// WellsArea counts the empty cells whose left and right neighbours are both
// filled. Walls count as filled.
func WellsArea(f *field.Field) float64 {
	area := 0.0
	for row := 0; row < f.NumRows(); row++ {
		for col := 0; col < f.NumColumns(); col++ {
			if !f.FillAt(row, col).IsEmpty() {
				continue
			}
			if !f.FillAt(row, col-1).IsEmpty() && !f.FillAt(row, col+1).IsEmpty() {
				area++
			}
		}
	}
	return area
}

// TransitionsCount counts filled/empty changes along every row (walls are
// filled) and every column (the floor is filled).
func TransitionsCount(f *field.Field) int {
	return transitions(f, func(row, col int) bool {
		return !f.FillAt(row, col).IsEmpty()
	})
}

func transitions(f *field.Field, solid func(row, col int) bool) int {
	n := 0
	for row := 0; row < f.NumRows(); row++ {
		prev := true
		for col := 0; col <= f.NumColumns(); col++ {
			s := col == f.NumColumns() || solid(row, col)
			if s != prev {
				n++
			}
			prev = s
		}
	}
	for col := 0; col < f.NumColumns(); col++ {
		prev := true
		for row := 0; row < f.NumRows(); row++ {
			s := solid(row, col)
			if s != prev {
				n++
			}
			prev = s
		}
	}
	return n
}

// missing is the part of the blueprint at (row, col) that is not filled.
func missing(f *field.Field, row, col int) field.Fill {
	c := f.CellAt(row, col)
	return c.Blueprint &^ c.Fill
}

// BuildHolesArea is the unfilled blueprint area with something filled above
// it in the same column.
func BuildHolesArea(f *field.Field) float64 {
	area := 0.0
	for col := 0; col < f.NumColumns(); col++ {
		covered := false
		for row := f.NumRows() - 1; row >= 0; row-- {
			if covered {
				area += missing(f, row, col).Area()
			}
			if !f.FillAt(row, col).IsEmpty() {
				covered = true
			}
		}
	}
	return area
}

// BuildWellsArea counts the unfilled blueprint area of empty cells whose
// left and right neighbours are both filled.
func BuildWellsArea(f *field.Field) float64 {
	area := 0.0
	for row := 0; row < f.NumRows(); row++ {
		for col := 0; col < f.NumColumns(); col++ {
			if !f.FillAt(row, col).IsEmpty() {
				continue
			}
			if !f.FillAt(row, col-1).IsEmpty() && !f.FillAt(row, col+1).IsEmpty() {
				area += missing(f, row, col).Area()
			}
		}
	}
	return area
}

// BuildTransitionsCount is TransitionsCount where a cell counts as filled
// when its blueprint is complete. Cells outside the blueprint are filled.
func BuildTransitionsCount(f *field.Field) int {
	return transitions(f, func(row, col int) bool {
		return missing(f, row, col).IsEmpty()
	})
}

// BlueprintCellsFilled is the blueprint area that is filled.
func BlueprintCellsFilled(f *field.Field) float64 {
	area := 0.0
	for row := 0; row < f.NumRows(); row++ {
		for col := 0; col < f.NumColumns(); col++ {
			c := f.CellAt(row, col)
			area += (c.Blueprint & c.Fill).Area()
		}
	}
	return area
}

// BlueprintArea is the total area of the blueprint.
func BlueprintArea(f *field.Field) float64 {
	area := 0.0
	for row := 0; row < f.NumRows(); row++ {
		for col := 0; col < f.NumColumns(); col++ {
			area += f.CellAt(row, col).Blueprint.Area()
		}
	}
	return area
}
