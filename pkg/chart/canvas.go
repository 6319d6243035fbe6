package chart

import (
	"fmt"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/c9s/chartsync/pkg/types"
)

// Canvas plots the buffered series of a chart into a static image. Candles
// are drawn with their close price.
type Canvas struct {
	gochart.Chart
}

func NewCanvas(title string) *Canvas {
	canvas := &Canvas{
		Chart: gochart.Chart{
			Title:  title,
			Width:  1280,
			Height: 720,
			Background: gochart.Style{
				Padding: gochart.Box{Top: 50},
			},
			YAxis: gochart.YAxis{
				ValueFormatter: func(v interface{}) string {
					if vf, isFloat := v.(float64); isFloat {
						return fmt.Sprintf("%.4f", vf)
					}
					return ""
				},
			},
		},
	}
	canvas.Elements = []gochart.Renderable{gochart.LegendLeft(&canvas.Chart)}
	return canvas
}

func (canvas *Canvas) PlotCandles(tag string, candles []types.Candle) {
	if len(candles) < 2 {
		return
	}

	series := gochart.TimeSeries{Name: tag}
	for _, c := range candles {
		series.XValues = append(series.XValues, time.Unix(c.Time, 0).UTC())
		series.YValues = append(series.YValues, c.Close)
	}
	canvas.Series = append(canvas.Series, series)
}

func (canvas *Canvas) PlotValues(tag string, points []types.ValuePoint) {
	if len(points) < 2 {
		return
	}

	series := gochart.TimeSeries{Name: tag}
	for _, p := range points {
		series.XValues = append(series.XValues, time.Unix(p.Time, 0).UTC())
		series.YValues = append(series.YValues, p.Value)
	}
	canvas.Series = append(canvas.Series, series)
}

// PlotPriceLines draws each price-line as a horizontal line across the
// plotted time span.
func (canvas *Canvas) PlotPriceLines(lines []types.PriceLine, from, to int64) {
	if from >= to {
		return
	}

	for _, line := range lines {
		canvas.Series = append(canvas.Series, gochart.TimeSeries{
			Name:    line.Title,
			XValues: []time.Time{time.Unix(from, 0).UTC(), time.Unix(to, 0).UTC()},
			YValues: []float64{line.Price, line.Price},
			Style: gochart.Style{
				StrokeColor:     gochart.ColorAlternateGray,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		})
	}
}

// Empty reports whether nothing was plotted, go-chart refuses to render a
// chart without series.
func (canvas *Canvas) Empty() bool {
	return len(canvas.Series) == 0
}

func (canvas *Canvas) RenderPNG(w io.Writer) error {
	return canvas.Render(gochart.PNG, w)
}
