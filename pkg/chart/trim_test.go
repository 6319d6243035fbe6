package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c9s/chartsync/pkg/types"
)

func newFilledSeries(n int) *MemorySeries[types.ValuePoint] {
	series := NewMemorySeries[types.ValuePoint]()
	points := make([]types.ValuePoint, n)
	for i := range points {
		points[i] = types.ValuePoint{Time: int64(i + 1), Value: float64(i + 1)}
	}
	series.SetData(points)
	return series
}

func TestTrim(t *testing.T) {
	policy := TrimPolicy{LengthCap: 10, TrimAmount: 4, RangeThreshold: 5}

	type testcase struct {
		name        string
		length      int
		visibleFrom float64
		trimmed     int
	}

	tests := []testcase{
		{name: "range below threshold", length: 20, visibleFrom: 5, trimmed: 0},
		{name: "length at cap", length: 10, visibleFrom: 6, trimmed: 0},
		{name: "both conditions", length: 11, visibleFrom: 6, trimmed: 4},
		{name: "long buffer", length: 100, visibleFrom: 50, trimmed: 4},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			series := newFilledSeries(test.length)
			n := Trim[types.ValuePoint](series, test.visibleFrom, policy)
			assert.Equal(t, test.trimmed, n)
			assert.Equal(t, test.length-test.trimmed, series.Len())
			if test.trimmed > 0 {
				assert.Equal(t, int64(test.trimmed+1), series.Data()[0].Time)
			}
		})
	}
}

func TestTrim_ClampedAtZero(t *testing.T) {
	policy := TrimPolicy{LengthCap: 2, TrimAmount: 10, RangeThreshold: 0}
	series := newFilledSeries(3)
	assert.Equal(t, 3, Trim[types.ValuePoint](series, 1, policy))
	assert.Equal(t, 0, series.Len())
}
