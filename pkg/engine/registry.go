package engine

import (
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/c9s/chartsync/pkg/config"
	"github.com/c9s/chartsync/pkg/metrics"
)

// Registry maps chart ids to their engine instances. Instances are created
// on first access and live until they are removed.
type Registry struct {
	env *Environment

	mu      sync.Mutex
	engines map[int64]*Engine
}

func NewRegistry(env *Environment) *Registry {
	return &Registry{
		env:     env,
		engines: make(map[int64]*Engine),
	}
}

// GetOrCreate returns the engine of the chart. A new engine is created from
// cfg when the chart has none, cfg is ignored otherwise.
// It returns ErrConfigMissing when the chart has no engine and cfg is nil.
func (r *Registry) GetOrCreate(id int64, cfg *config.ChartConfig) (*Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[id]; ok {
		return e, nil
	}

	if cfg == nil {
		return nil, ErrConfigMissing
	}

	cfg = cfg.Copy()
	cfg.ID = id

	e, err := NewEngine(cfg, r.env)
	if err != nil {
		return nil, err
	}

	r.engines[id] = e
	metrics.InstancesMetrics.Inc()
	log.Infof("chart %d created: %s", id, cfg.KLine)
	return e, nil
}

func (r *Registry) Get(id int64) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.engines[id]
	return e, ok
}

// Remove closes the engine of the chart and deletes the entry. The entry is
// deleted even if some subscriptions failed to cancel. Removing an unknown
// id does nothing.
func (r *Registry) Remove(id int64) error {
	r.mu.Lock()
	e, ok := r.engines[id]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	// close outside of the registry lock, unsubscribing may block on the stream source
	err := e.Close()

	r.mu.Lock()
	if cur, ok := r.engines[id]; ok && cur == e {
		delete(r.engines, id)
		metrics.InstancesMetrics.Dec()
	}
	r.mu.Unlock()

	log.Infof("chart %d removed", id)
	return err
}

// ResetAll resets every live engine.
func (r *Registry) ResetAll() {
	for _, e := range r.list() {
		e.Reset()
	}
}

// RemoveAll removes every engine, it is called on shutdown.
func (r *Registry) RemoveAll() error {
	var errs error
	for _, e := range r.list() {
		errs = multierr.Append(errs, r.Remove(e.ID))
	}
	return errs
}

// IDs returns the chart ids in ascending order.
func (r *Registry) IDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.engines))
	for id := range r.engines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

func (r *Registry) list() []*Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	engines := make([]*Engine, 0, len(r.engines))
	for _, e := range r.engines {
		engines = append(engines, e)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i].ID < engines[j].ID })
	return engines
}
