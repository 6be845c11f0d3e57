// Package sim assembles the world, systems and scheduler from a config and loads scenes into it
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lixenwraith/softsim/config"
	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/scene"
	"github.com/lixenwraith/softsim/status"
	"github.com/lixenwraith/softsim/system"
)

// ErrNoScene is returned by Reset before any scene was loaded
var ErrNoScene = errors.New("no scene loaded")

// Sim owns one world and its scheduler
// Not safe for concurrent use; the status registry may be read from any goroutine
type Sim struct {
	cfg    config.Config
	logger *slog.Logger

	world *engine.World
	sched *engine.Scheduler

	scene   *scene.File
	spawned scene.Spawned
}

// Stats is a point-in-time summary for HUDs and reports
type Stats struct {
	Tick     int64
	Entities int
	Bodies   int64
	Contacts int64
	Clamped  int64
	Energy   float64
	Substeps int
	Backlog  time.Duration
	Alpha    float64
}

// New builds a world with every system registered; logger nil uses slog.Default
func New(cfg config.Config, logger *slog.Logger) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := engine.NewWorld(cfg.MaxEntities)
	system.RegisterAll(w, system.WithWorkers(cfg.Workers), system.WithLogger(logger))
	engine.GetCoreResources(w).Physics.SetGravity(cfg.GravityVector())

	s := &Sim{
		cfg:    cfg,
		logger: logger,
		world:  w,
		sched:  engine.NewScheduler(w, cfg.SchedulerConfig(logger)),
	}
	logger.Debug("simulation ready",
		"fixed_dt", cfg.FixedDT,
		"max_substeps", cfg.MaxSubsteps,
		"capacity", cfg.MaxEntities,
		"workers", cfg.Workers,
	)
	return s, nil
}

// Load replaces the world contents with f
func (s *Sim) Load(f *scene.File) (scene.Spawned, error) {
	s.world.Clear()
	engine.GetCoreResources(s.world).Physics.SetGravity(s.cfg.GravityVector())

	sp, err := scene.Spawn(s.world, f, scene.Options{ShapeIterations: s.cfg.ShapeMatchIterations})
	if err != nil {
		s.scene = nil
		s.spawned = scene.Spawned{}
		return scene.Spawned{}, fmt.Errorf("load scene: %w", err)
	}
	s.scene = f
	s.spawned = sp
	s.logger.Info("scene loaded", "entities", len(sp.Entities))
	return sp, nil
}

// Reset respawns the last loaded scene; previous handles become stale
func (s *Sim) Reset() (scene.Spawned, error) {
	if s.scene == nil {
		return scene.Spawned{}, ErrNoScene
	}
	return s.Load(s.scene)
}

// Tick advances the simulation by frameDelta of wall time
func (s *Sim) Tick(frameDelta time.Duration) *engine.Snapshot {
	return s.sched.Tick(frameDelta)
}

// PushInput queues input for the next tick that runs a substep
func (s *Sim) PushInput(in engine.InputState) {
	s.sched.PushInput(in)
}

// Stats reads the metrics published by the last tick
func (s *Sim) Stats() Stats {
	reg := s.Status()
	last := s.sched.LastStats()
	return Stats{
		Tick:     last.Tick,
		Entities: s.world.Len(),
		Bodies:   reg.Ints.Get(status.KeyBodies).Load(),
		Contacts: reg.Ints.Get(status.KeyContacts).Load(),
		Clamped:  reg.Ints.Get(status.KeyClamped).Load(),
		Energy:   reg.Floats.Get(status.KeyEnergy).Load(),
		Substeps: last.Substeps,
		Backlog:  last.Backlog,
		Alpha:    last.Alpha,
	}
}

func (s *Sim) World() *engine.World { return s.world }

func (s *Sim) Scheduler() *engine.Scheduler { return s.sched }

func (s *Sim) Status() *status.Registry { return engine.GetCoreResources(s.world).Status }

func (s *Sim) Spawned() scene.Spawned { return s.spawned }

func (s *Sim) Config() config.Config { return s.cfg }
