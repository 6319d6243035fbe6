package chart

import (
	"github.com/c9s/chartsync/pkg/types"
)

// TrimPolicy bounds the buffered length of a series once the user scrolled
// away from the oldest bars.
type TrimPolicy struct {
	// LengthCap is the buffered length above which the series is trimmed
	LengthCap int `json:"lengthCap" yaml:"lengthCap"`

	// TrimAmount is the number of oldest points dropped per trim
	TrimAmount int `json:"trimAmount" yaml:"trimAmount"`

	// RangeThreshold is the logical index the visible range must start after
	RangeThreshold float64 `json:"rangeThreshold" yaml:"rangeThreshold"`
}

// DefaultTickTrimPolicy runs after every live kline.
var DefaultTickTrimPolicy = TrimPolicy{
	LengthCap:      1000,
	TrimAmount:     100,
	RangeThreshold: 300,
}

// DefaultRangeTrimPolicy runs when the visible range changes.
var DefaultRangeTrimPolicy = TrimPolicy{
	LengthCap:      5000,
	TrimAmount:     1000,
	RangeThreshold: 2000,
}

func (p TrimPolicy) IsZero() bool {
	return p.LengthCap == 0 && p.TrimAmount == 0 && p.RangeThreshold == 0
}

// ShouldTrim reports whether a buffer of the given length is trimmed when the
// visible range starts at visibleFrom.
func (p TrimPolicy) ShouldTrim(length int, visibleFrom float64) bool {
	return p.TrimAmount > 0 && visibleFrom > p.RangeThreshold && length > p.LengthCap
}

// Amount returns the number of points dropped from a buffer of the given length.
func (p TrimPolicy) Amount(length int) int {
	if p.TrimAmount > length {
		return length
	}
	return p.TrimAmount
}

// Trim drops the oldest points of the series handle with one bulk SetData
// when the policy triggers. It returns the number of dropped points.
func Trim[P types.TimePoint](series Series[P], visibleFrom float64, policy TrimPolicy) int {
	data := series.Data()
	if !policy.ShouldTrim(len(data), visibleFrom) {
		return 0
	}

	n := policy.Amount(len(data))
	series.SetData(types.TrimHead(data, n))
	return n
}
