package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))

	}
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	xs := []float64{4, 1, 3, 2}
	s := Summarize(xs)
	is.Equal(s.N, 4)
	is.True(FuzzyEqual(s.Mean, 2.5))
	is.True(FuzzyEqual(s.Stdev, 1.2909944487358056))
	is.Equal(s.Min, 1.0)
	is.Equal(s.Max, 4.0)
	is.True(FuzzyEqual(s.CI95, 1.959963984540054*1.2909944487358056/2))
	// Input order is preserved.
	is.Equal(xs[0], 4.0)

	is.Equal(Summarize([]float64{3, 1, 2}).Median, 2.0)
	is.Equal(Summarize([]float64{7}), Summary{N: 1, Mean: 7, Min: 7, Max: 7, Median: 7})
	is.Equal(Summarize(nil), Summary{})
}

func TestRunningStatMatchesSummary(t *testing.T) {
	is := is.New(t)
	xs := []float64{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}
	s := &Statistic{}
	for _, x := range xs {
		s.Push(x)
	}
	sum := Summarize(xs)
	is.True(FuzzyEqual(s.Mean(), sum.Mean))
	is.True(FuzzyEqual(s.Stdev(), sum.Stdev))
	is.True(FuzzyEqual(s.Interval(95), sum.CI95))
	is.Equal(s.Last(), 19.0)
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489))
	is.Equal(MeanInterval(3, 1, 95), 0.0)
}
