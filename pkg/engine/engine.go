package engine

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/c9s/chartsync/pkg/chart"
	"github.com/c9s/chartsync/pkg/config"
	"github.com/c9s/chartsync/pkg/types"
)

var log = logrus.WithField("component", "engine")

// Environment holds the collaborators shared by every chart instance.
type Environment struct {
	Fetcher types.DataFetcher
	Source  types.StreamSource

	// NewRenderer creates the renderer of a new chart instance, the
	// in-memory renderer is used when it is nil
	NewRenderer func() chart.Renderer

	Trim config.TrimConfig
}

func (env *Environment) newRenderer() chart.Renderer {
	if env.NewRenderer != nil {
		return env.NewRenderer()
	}
	return chart.NewMemoryRenderer()
}

// Engine is the synchronization engine of one chart. All state mutations
// are serialized by the engine lock, stream callbacks may arrive on any
// goroutine.
type Engine struct {
	ID int64

	env    *Environment
	logger *logrus.Entry

	mu           sync.Mutex
	cfg          *config.ChartConfig
	view         *chartView
	folder       *Folder
	renderer     chart.Renderer
	replayCursor int64
	closed       bool

	initializer   *Initializer
	subscriptions *SubscriptionManager
}

func NewEngine(cfg *config.ChartConfig, env *Environment) (*Engine, error) {
	if cfg == nil {
		return nil, ErrConfigMissing
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg = cfg.Copy()
	renderer := env.newRenderer()
	view, err := newChartView(cfg, renderer)
	if err != nil {
		return nil, err
	}

	logger := log.WithField("chart", cfg.ID)
	e := &Engine{
		ID:           cfg.ID,
		env:          env,
		logger:       logger,
		cfg:          cfg,
		view:         view,
		renderer:     renderer,
		replayCursor: cfg.ReplayCursor,
		folder:       newFolder(view, env.Trim.Tick, logger),
	}

	e.initializer = newInitializer(env.Fetcher, view.info, e.apply, logger)
	e.subscriptions = NewSubscriptionManager(env.Source, cfg.StrategyID, e.Dispatch, logger)
	return e, nil
}

func (e *Engine) apply(fn func(view *chartView)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	fn(e.view)
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Start loads the history at the replay cursor and then attaches the
// streams of every active key. Fetch and attach failures are logged, the
// chart keeps running with the series that could be loaded.
func (e *Engine) Start(ctx context.Context, replayCursor int64) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	e.replayCursor = replayCursor
	cfg := e.cfg.Copy()
	e.mu.Unlock()

	keys := cfg.ActiveKeys()
	if err := e.initializer.InitAll(ctx, replayCursor, cfg.StrategyID, keys); err != nil {
		e.logger.WithError(err).Warnf("chart %d initialized with fetch failures", e.ID)
	}

	if err := e.subscriptions.AttachAll(ctx, keys); err != nil {
		e.logger.WithError(err).Warnf("chart %d attached with failures", e.ID)
	}

	// the engine might be closed while the streams were being attached
	if e.isClosed() {
		_ = e.subscriptions.DetachAll()
		return ErrEngineClosed
	}

	return nil
}

// Dispatch folds one live event. Events dispatched after Close are dropped.
func (e *Engine) Dispatch(event types.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	return e.folder.Fold(event)
}

// SetVisibleRange stores the visible range and runs the range trim policy.
// It returns the number of candles that were trimmed.
func (e *Engine) SetVisibleRange(r types.LogicalRange) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, ErrEngineClosed
	}

	e.view.state.VisibleRange = &r
	return e.view.trim(e.env.Trim.Range, "range"), nil
}

// ToggleVisibility flips the visibility of the series of the key and returns
// the new visibility.
func (e *Engine) ToggleVisibility(key types.LogicalKey) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false, ErrEngineClosed
	}

	visible := !e.view.visibility.IsVisible(key)
	e.view.setVisible(key, visible)
	return visible, nil
}

func (e *Engine) SetVisibility(key types.LogicalKey, visible bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	e.view.setVisible(key, visible)
	return nil
}

func (e *Engine) IsVisible(key types.LogicalKey) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.visibility.IsVisible(key)
}

// UpdateConfig applies the indicator and operation changes of cfg. Keys
// that are no longer active are detached and their series destroyed before
// the new keys are loaded and attached. The kline and the strategy of a
// chart can not be changed.
func (e *Engine) UpdateConfig(ctx context.Context, cfg *config.ChartConfig) error {
	if cfg == nil {
		return ErrConfigMissing
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}

	if cfg.KLine != e.cfg.KLine || cfg.StrategyID != e.cfg.StrategyID {
		e.mu.Unlock()
		return errors.Errorf("chart %d: kline and strategy can not be changed", e.ID)
	}

	oldKeys := e.cfg.ActiveKeys()
	newCfg := cfg.Copy()
	newCfg.ID = e.ID
	newKeys := newCfg.ActiveKeys()
	removed := diffKeys(oldKeys, newKeys)
	added := diffKeys(newKeys, oldKeys)

	e.cfg = newCfg
	replayCursor := e.replayCursor
	e.mu.Unlock()

	var errs []error
	for _, key := range removed {
		if err := e.subscriptions.Detach(key); err != nil {
			errs = append(errs, err)
		}
	}

	e.apply(func(view *chartView) {
		for _, key := range removed {
			view.removeKey(key)
		}
	})

	if err := e.initializer.InitKeys(ctx, replayCursor, added); err != nil {
		e.logger.WithError(err).Warn("new series loaded with fetch failures")
	}

	if err := e.subscriptions.AttachAll(ctx, added); err != nil {
		errs = append(errs, err)
	}

	if e.isClosed() {
		_ = e.subscriptions.DetachAll()
		return ErrEngineClosed
	}

	return multierr.Combine(errs...)
}

func diffKeys(a, b []types.LogicalKey) []types.LogicalKey {
	set := make(map[types.LogicalKey]struct{}, len(b))
	for _, key := range b {
		set[key] = struct{}{}
	}

	var out []types.LogicalKey
	for _, key := range a {
		if _, ok := set[key]; !ok {
			out = append(out, key)
		}
	}
	return out
}

// Reset wipes the state and the data of the series, the subscriptions and
// the series handles are kept.
func (e *Engine) Reset() {
	e.apply(func(view *chartView) {
		view.clear()
	})
}

// Restart reloads the chart at a new replay cursor. The streams are detached
// while the history is loaded so that no live event is folded into a buffer
// that is about to be replaced, and attached again afterwards.
func (e *Engine) Restart(ctx context.Context, replayCursor int64) error {
	if e.isClosed() {
		return ErrEngineClosed
	}

	if err := e.subscriptions.DetachAll(); err != nil {
		e.logger.WithError(err).Warnf("chart %d: detach before restart failed", e.ID)
	}

	e.Reset()
	return e.Start(ctx, replayCursor)
}

// Close detaches every stream and destroys the series handles. Events that
// arrive after Close do not change anything.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	err := e.subscriptions.DetachAll()

	e.mu.Lock()
	e.view.destroy()
	e.mu.Unlock()

	return err
}

func (e *Engine) Config() *config.ChartConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Copy()
}

// Renderer returns the renderer the series handles were created on.
func (e *Engine) Renderer() chart.Renderer {
	return e.renderer
}

func (e *Engine) SubscribedKeys() []types.LogicalKey {
	return e.subscriptions.Keys()
}

// Snapshot is a copy of the chart, it can be read without any lock.
type Snapshot struct {
	ID            int64               `json:"id"`
	Config        *config.ChartConfig `json:"config"`
	State         *State              `json:"state"`
	Hidden        []types.LogicalKey  `json:"hidden,omitempty"`
	Subscriptions []SubscriptionInfo  `json:"subscriptions"`
	Series        []chart.SeriesID    `json:"series"`
	Closed        bool                `json:"closed,omitempty"`
}

func (e *Engine) Snapshot() *Snapshot {
	subscriptions := e.subscriptions.Subscriptions()

	e.mu.Lock()
	defer e.mu.Unlock()

	return &Snapshot{
		ID:            e.ID,
		Config:        e.cfg.Copy(),
		State:         e.view.state.Copy(),
		Hidden:        e.view.visibility.Hidden(),
		Subscriptions: subscriptions,
		Series:        e.view.registry.IDs(),
		Closed:        e.closed,
	}
}
