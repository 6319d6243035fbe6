package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/c9s/chartsync/pkg/chart"
	"github.com/c9s/chartsync/pkg/config"
	"github.com/c9s/chartsync/pkg/engine"
	"github.com/c9s/chartsync/pkg/types"
)

// ChartSummary is one row of the chart list.
type ChartSummary struct {
	ID                int64              `json:"id"`
	StrategyID        string             `json:"strategyId,omitempty"`
	KLine             types.LogicalKey   `json:"kline"`
	Keys              []types.LogicalKey `json:"keys"`
	IsDataInitialized bool               `json:"isDataInitialized"`
	Candles           int                `json:"candles"`
	Markers           int                `json:"markers"`
	PriceLines        int                `json:"priceLines"`
	Subscriptions     int                `json:"subscriptions"`
}

func summarize(snapshot *engine.Snapshot) ChartSummary {
	return ChartSummary{
		ID:                snapshot.ID,
		StrategyID:        snapshot.Config.StrategyID,
		KLine:             snapshot.Config.KLine,
		Keys:              snapshot.Config.ActiveKeys(),
		IsDataInitialized: snapshot.State.IsDataInitialized,
		Candles:           len(snapshot.State.Candles),
		Markers:           len(snapshot.State.Markers),
		PriceLines:        len(snapshot.State.PriceLines),
		Subscriptions:     len(snapshot.Subscriptions),
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrConfigMissing), errors.Is(err, types.ErrMalformedLogicalKey):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrEngineClosed):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

func chartID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid chart id %q", c.Param("id"))})
		return 0, false
	}
	return id, true
}

// chartEngine looks up the engine of the :id parameter and writes a 404 when
// the chart does not exist.
func (s *Server) chartEngine(c *gin.Context) (*engine.Engine, bool) {
	id, ok := chartID(c)
	if !ok {
		return nil, false
	}

	e, ok := s.Registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("chart %d not found", id)})
		return nil, false
	}
	return e, true
}

func (s *Server) listCharts(c *gin.Context) {
	charts := []ChartSummary{}
	for _, id := range s.Registry.IDs() {
		if e, ok := s.Registry.Get(id); ok {
			charts = append(charts, summarize(e.Snapshot()))
		}
	}

	c.JSON(http.StatusOK, gin.H{"charts": charts})
}

func (s *Server) createChart(c *gin.Context) {
	id, ok := chartID(c)
	if !ok {
		return
	}

	if e, ok := s.Registry.Get(id); ok {
		c.JSON(http.StatusOK, gin.H{"chart": summarize(e.Snapshot())})
		return
	}

	var cfg *config.ChartConfig
	if c.Request.ContentLength != 0 {
		cfg = &config.ChartConfig{ReplayCursor: -1}
		if err := c.ShouldBindJSON(cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	e, err := s.Registry.GetOrCreate(id, cfg)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if err := e.Start(s.ctx, e.Config().ReplayCursor); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"chart": summarize(e.Snapshot())})
}

func (s *Server) getChart(c *gin.Context) {
	e, ok := s.chartEngine(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, e.Snapshot())
}

func (s *Server) removeChart(c *gin.Context) {
	id, ok := chartID(c)
	if !ok {
		return
	}

	if err := s.Registry.Remove(id); err != nil {
		// the chart is removed even if some subscriptions failed to cancel
		log.WithError(err).Warnf("chart %d removed with cleanup failures", id)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) updateChartConfig(c *gin.Context) {
	e, ok := s.chartEngine(c)
	if !ok {
		return
	}

	var cfg config.ChartConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := e.UpdateConfig(s.ctx, &cfg); err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chart": summarize(e.Snapshot())})
}

func (s *Server) setVisibleRange(c *gin.Context) {
	e, ok := s.chartEngine(c)
	if !ok {
		return
	}

	var r types.LogicalRange
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := e.SetVisibleRange(r)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trimmed": n})
}

func (s *Server) toggleVisibility(c *gin.Context) {
	e, ok := s.chartEngine(c)
	if !ok {
		return
	}

	payload := struct {
		Key types.LogicalKey `json:"key"`
	}{}

	if err := c.ShouldBindJSON(&payload); err != nil || len(payload.Key) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing key argument"})
		return
	}

	visible, err := e.ToggleVisibility(payload.Key)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": payload.Key, "visible": visible})
}

// resetChart wipes the chart. With a cursor the chart is restarted: the
// streams are detached while the history at the cursor is loaded.
func (s *Server) resetChart(c *gin.Context) {
	e, ok := s.chartEngine(c)
	if !ok {
		return
	}

	cursor, restart := c.GetQuery("cursor")
	if !restart {
		e.Reset()
		c.JSON(http.StatusOK, gin.H{"chart": summarize(e.Snapshot())})
		return
	}

	replayCursor, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid cursor %q", cursor)})
		return
	}

	if err := e.Restart(s.ctx, replayCursor); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chart": summarize(e.Snapshot())})
}

func (s *Server) resetCharts(c *gin.Context) {
	s.Registry.ResetAll()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) publish(c *gin.Context) {
	if s.Publisher == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "the stream source does not support publishing"})
		return
	}

	payload := struct {
		Topic   string          `json:"topic"`
		Payload json.RawMessage `json:"payload"`
	}{}

	if err := c.ShouldBindJSON(&payload); err != nil || len(payload.Topic) == 0 || len(payload.Payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing topic or payload argument"})
		return
	}

	if err := s.Publisher.PublishPayload(c.Request.Context(), payload.Topic, payload.Payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// plotChart renders the visible series of the chart as a png image.
func (s *Server) plotChart(c *gin.Context) {
	e, ok := s.chartEngine(c)
	if !ok {
		return
	}

	snapshot := e.Snapshot()
	canvas := newCanvas(snapshot)
	if canvas.Empty() {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing to plot"})
		return
	}

	var buf bytes.Buffer
	if err := canvas.RenderPNG(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func newCanvas(snapshot *engine.Snapshot) *chart.Canvas {
	hidden := map[types.LogicalKey]bool{}
	for _, key := range snapshot.Hidden {
		hidden[key] = true
	}

	state := snapshot.State
	canvas := chart.NewCanvas(string(snapshot.Config.KLine))
	if hidden[snapshot.Config.KLine] {
		return canvas
	}

	canvas.PlotCandles("close", state.Candles)

	var keys []types.LogicalKey
	for key := range state.Indicators {
		if !hidden[key] {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		values := state.Indicators[key]
		for _, field := range values.Fields() {
			canvas.PlotValues(string(key)+":"+field, values[field])
		}
	}

	if n := len(state.Candles); n > 1 {
		canvas.PlotPriceLines(state.PriceLines, state.Candles[0].Time, state.Candles[n-1].Time)
	}
	return canvas
}
