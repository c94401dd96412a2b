package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// ZVal returns the two-tailed Z-value for a confidence level given in
// percent, e.g. 1.96 for 95.
func ZVal(confidence float64) float64 {
	return standardNormal.Quantile((1 + confidence/100) / 2)
}

// MeanInterval is the half-width of the normal confidence interval of a
// sample mean.
func MeanInterval(stdev float64, n int, confidence float64) float64 {
	if n < 2 {
		return 0
	}
	return ZVal(confidence) * stdev / math.Sqrt(float64(n))
}

// Interval is MeanInterval over the values pushed so far.
func (s *Statistic) Interval(confidence float64) float64 {
	return ZVal(confidence) * s.StandardError()
}
