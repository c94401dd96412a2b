package equity

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/blockfall/blockhint/analyzer"
	"github.com/blockfall/blockhint/config"
	"github.com/blockfall/blockhint/field"
)

// Feature measures one property of a landing.
type Feature func(l *Landing, f *field.Field) float64

// FeatureCalculator weighs a single feature.
type FeatureCalculator struct {
	Name    string
	Weight  float64
	Feature Feature
}

func (fc FeatureCalculator) Equity(l *Landing, f *field.Field) float64 {
	return fc.Weight * fc.Feature(l, f)
}

func (fc FeatureCalculator) String() string {
	return fmt.Sprintf("%s×%g", fc.Name, fc.Weight)
}

// Combined adds up several calculators.
type Combined []Calculator

func (c Combined) Equity(l *Landing, f *field.Field) float64 {
	return Sum(c, l, f)
}

func Sum(calcs []Calculator, l *Landing, f *field.Field) float64 {
	return lo.SumBy(calcs, func(c Calculator) float64 {
		return c.Equity(l, f)
	})
}

func LandingHeight(l *Landing, f *field.Field) float64 {
	return l.Height()
}

// ErodedCells is the number of rows the landing completes times the number
// of the piece's own cells in those rows.
func ErodedCells(l *Landing, f *field.Field) float64 {
	rows, cells := f.FilledRows(l.Blocks(), l.Position)
	return float64(rows * cells)
}

func BuriedHoles(l *Landing, f *field.Field) float64 {
	return analyzer.BuriedHolesArea(f)
}

func Wells(l *Landing, f *field.Field) float64 {
	return analyzer.WellsArea(f)
}

func Transitions(l *Landing, f *field.Field) float64 {
	return float64(analyzer.TransitionsCount(f))
}

// BlueprintFilled is the blueprint area covered by the landed piece itself.
// Blueprint filled by earlier pieces does not count.
func BlueprintFilled(l *Landing, f *field.Field) float64 {
	return f.BlueprintCovered(l.Blocks(), l.Position)
}

func BuildHoles(l *Landing, f *field.Field) float64 {
	return analyzer.BuildHolesArea(f)
}

func BuildWells(l *Landing, f *field.Field) float64 {
	return analyzer.BuildWellsArea(f)
}

// ClearCalculators scores placements for levels won by clearing rows.
func ClearCalculators(cfg *config.Config) Combined {
	return Combined{
		FeatureCalculator{"landing-height", cfg.GetFloat64(config.ConfigWeightsClearLandingHeight), LandingHeight},
		FeatureCalculator{"eroded-cells", cfg.GetFloat64(config.ConfigWeightsClearErodedCells), ErodedCells},
		FeatureCalculator{"holes", cfg.GetFloat64(config.ConfigWeightsClearHoles), BuriedHoles},
		FeatureCalculator{"wells", cfg.GetFloat64(config.ConfigWeightsClearWells), Wells},
		FeatureCalculator{"transitions", cfg.GetFloat64(config.ConfigWeightsClearTransitions), Transitions},
	}
}

// BuildCalculators scores placements for levels won by filling a
// blueprint.
func BuildCalculators(cfg *config.Config) Combined {
	return Combined{
		FeatureCalculator{"landing-height", cfg.GetFloat64(config.ConfigWeightsBuildLandingHeight), LandingHeight},
		FeatureCalculator{"blueprint", cfg.GetFloat64(config.ConfigWeightsBuildBlueprint), BlueprintFilled},
		FeatureCalculator{"holes", cfg.GetFloat64(config.ConfigWeightsBuildHoles), BuildHoles},
		FeatureCalculator{"wells", cfg.GetFloat64(config.ConfigWeightsBuildWells), BuildWells},
	}
}
