package system

import (
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/softsim/component"
	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/physics"
	"github.com/lixenwraith/softsim/status"
)

// SoftBodySystem steps every softbody against the current collision set
// Anchors are resolved serially, bodies step serially or in worker chunks, results merge in dense order
type SoftBodySystem struct {
	engine.SystemBase
	hierarchy hierarchy
	workers   int

	params   []physics.StepParams
	stats    []physics.StepStats
	entities []core.Entity

	bodies   *atomic.Int64
	contacts *atomic.Int64
	clamped  *atomic.Int64
	energy   *status.Float64
	peak     *status.Float64
}

// SoftBodyOption configures a SoftBodySystem
type SoftBodyOption func(*SoftBodySystem)

// WithWorkers splits bodies across n goroutines; n <= 1 keeps the serial path
func WithWorkers(n int) SoftBodyOption {
	return func(s *SoftBodySystem) {
		s.workers = n
	}
}

// WithLogger sets the system logger
func WithLogger(l *slog.Logger) SoftBodyOption {
	return func(s *SoftBodySystem) {
		s.SetLogger(l)
	}
}

// NewSoftBodySystem creates a new softbody solver system
func NewSoftBodySystem(world *engine.World, opts ...SoftBodyOption) engine.System {
	s := &SoftBodySystem{
		SystemBase: engine.NewSystemBase(world, "softbody"),
		hierarchy:  newHierarchy(world),
		workers:    parameter.Workers,
	}
	for _, opt := range opts {
		opt(s)
	}

	reg := s.Resource.Status
	s.bodies = reg.Ints.Get(status.KeyBodies)
	s.contacts = reg.Ints.Get(status.KeyContacts)
	s.clamped = reg.Ints.Get(status.KeyClamped)
	s.energy = reg.Floats.Get(status.KeyEnergy)
	s.peak = reg.Floats.Get(status.KeyEnergyPeak)
	return s
}

// Priority returns the system's priority
func (s *SoftBodySystem) Priority() int {
	return parameter.PrioritySoftBody
}

// Workers returns the configured parallelism
func (s *SoftBodySystem) Workers() int {
	return s.workers
}

// Update advances all softbodies by one substep
func (s *SoftBodySystem) Update() {
	store := s.Component.SoftBody
	n := store.Len()
	s.bodies.Store(int64(n))
	if n == 0 {
		s.contacts.Store(0)
		s.clamped.Store(0)
		s.energy.Store(0)
		return
	}

	s.prepare()

	values := store.Values()
	if s.workers <= 1 || n < 2 {
		s.stepRange(values, 0, n)
	} else {
		s.stepParallel(values)
	}

	s.commit(values)
}

// prepare resolves each body's anchor pose before any body moves
func (s *SoftBodySystem) prepare() {
	res := s.Resource
	s.params = s.params[:0]
	s.entities = s.entities[:0]
	for e, sb := range s.Component.SoftBody.AllMut() {
		p := physics.StepParams{
			DT:        res.Time.DT,
			Gravity:   res.Physics.Gravity,
			Colliders: res.Physics.Colliders,
		}
		if !sb.Anchor.IsNull() && sb.Anchor != e && s.World.IsAlive(sb.Anchor) {
			if pose, ok := s.hierarchy.resolve(sb.Anchor); ok {
				p.Anchor = pose.rigid()
				p.HasAnchor = true
			}
		}
		s.params = append(s.params, p)
		s.entities = append(s.entities, e)
	}
	if cap(s.stats) < len(s.params) {
		s.stats = make([]physics.StepStats, len(s.params))
	}
	s.stats = s.stats[:len(s.params)]
}

// stepRange touches only values[lo:hi] and the matching stats entries
func (s *SoftBodySystem) stepRange(values []component.SoftBodyComponent, lo, hi int) {
	for i := lo; i < hi; i++ {
		sb := &values[i]
		if sb.Body == nil {
			s.stats[i] = physics.StepStats{}
			continue
		}
		s.stats[i] = sb.Body.Step(s.params[i])
	}
}

func (s *SoftBodySystem) stepParallel(values []component.SoftBodyComponent) {
	n := len(values)
	workers := min(s.workers, n)
	chunk := (n + workers - 1) / workers

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			s.stepRange(values, lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.Log.Error("softbody workers failed", "error", err)
	}
}

// commit writes centroid poses to transforms and publishes merged stats in dense order
func (s *SoftBodySystem) commit(values []component.SoftBodyComponent) {
	var total physics.StepStats
	for i := range values {
		sb := &values[i]
		sb.Stats = s.stats[i]
		total.Add(s.stats[i])
		if sb.Body == nil {
			continue
		}
		if t, ok := s.Component.Transform.Get(s.entities[i]); ok {
			t.Position = sb.Body.Centroid()
			t.Orientation = sb.Body.Orientation()
		}
	}

	s.contacts.Store(int64(total.Contacts))
	s.clamped.Store(int64(total.Clamped))
	s.energy.Store(total.Energy)
	s.peak.StoreMax(total.Energy)
	if total.Clamped > 0 {
		s.Log.Debug("degenerate particles held at last valid state", "count", total.Clamped)
	}
}
