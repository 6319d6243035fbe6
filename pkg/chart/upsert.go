package chart

import (
	"github.com/pkg/errors"

	"github.com/c9s/chartsync/pkg/types"
)

// Upsert pushes p to the series handle with replace-last-or-append semantics.
// Points older than the last buffered point are rejected with
// types.ErrOutOfOrderPoint and never reach the renderer.
func Upsert[P types.TimePoint](series Series[P], p P) (types.UpsertResult, error) {
	data := series.Data()
	if n := len(data); n > 0 {
		last := data[n-1].GetTime()
		if t := p.GetTime(); t < last {
			return types.UpsertRejected, errors.Wrapf(types.ErrOutOfOrderPoint, "point time %d < last time %d", t, last)
		} else if t == last {
			series.Update(p)
			return types.UpsertReplaced, nil
		}
	}

	series.Update(p)
	return types.UpsertAppended, nil
}
