package types

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

const indicatorTimeField = "time"

// IndicatorRow is one row of pre-computed indicator outputs. On the wire it is
// a flat object: {"time": 1700000000000, "sma": 101.2, "upper": null}
type IndicatorRow struct {
	Time   int64
	Fields map[string]*float64
}

func (r *IndicatorRow) UnmarshalJSON(data []byte) error {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return err
	}

	return r.fromValue(v)
}

func (r *IndicatorRow) fromValue(v *fastjson.Value) error {
	o, err := v.Object()
	if err != nil {
		return errors.Wrap(err, "indicator row must be an object")
	}

	r.Fields = make(map[string]*float64, o.Len())

	var visitErr error
	o.Visit(func(key []byte, fv *fastjson.Value) {
		if visitErr != nil {
			return
		}

		name := string(key)
		if name == indicatorTimeField {
			r.Time, visitErr = fv.Int64()
			if visitErr != nil {
				// some producers send float timestamps
				f, err := fv.Float64()
				if err == nil {
					r.Time, visitErr = int64(f), nil
				}
			}
			return
		}

		switch fv.Type() {
		case fastjson.TypeNull:
			r.Fields[name] = nil
		case fastjson.TypeNumber:
			f := fv.GetFloat64()
			r.Fields[name] = &f
		default:
			// non-numeric outputs (labels, signals) are not plottable
		}
	})

	return visitErr
}

func (r IndicatorRow) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(r.Fields)+1)
	m[indicatorTimeField] = r.Time
	for k, v := range r.Fields {
		m[k] = v
	}
	return json.Marshal(m)
}

// ParseIndicatorRow decodes a single raw indicator payload.
func ParseIndicatorRow(data []byte) (IndicatorRow, error) {
	var row IndicatorRow
	err := row.UnmarshalJSON(data)
	return row, err
}

// Points drops the time field and any value that is not meaningful yet, and
// buckets the remaining outputs by field name.
func (r IndicatorRow) Points() IndicatorValues {
	values := IndicatorValues{}
	t := AlignTime(r.Time)
	for _, name := range r.sortedFields() {
		v := r.Fields[name]
		if !IsMeaningfulValue(v) {
			continue
		}

		values[name] = append(values[name], ValuePoint{Time: t, Value: *v})
	}
	return values
}

func (r IndicatorRow) sortedFields() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BucketIndicatorRows converts fetched rows into per-field point arrays in row order.
func BucketIndicatorRows(rows []IndicatorRow) IndicatorValues {
	values := IndicatorValues{}
	for _, row := range rows {
		for field, points := range row.Points() {
			values[field] = append(values[field], points...)
		}
	}
	return values
}
