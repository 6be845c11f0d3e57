package engine

import (
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/lixenwraith/softsim/status"
	"github.com/lixenwraith/softsim/vmath"
)

// SchedulerState is the tick lifecycle: Idle -> Stepping -> SnapshotReady -> Idle
type SchedulerState uint8

const (
	StateIdle SchedulerState = iota
	StateStepping
	StateSnapshotReady
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStepping:
		return "stepping"
	case StateSnapshotReady:
		return "snapshot_ready"
	default:
		return "unknown"
	}
}

// backlogWarnInterval throttles the substep cap warning
const backlogWarnInterval = 2 * time.Second

// SchedulerConfig controls the fixed-step accumulator
type SchedulerConfig struct {
	FixedDT     time.Duration
	MaxSubsteps int
	Logger      *slog.Logger
}

// TickStats summarizes the most recent tick
type TickStats struct {
	Tick     int64
	Substeps int
	Backlog  time.Duration // accumulated time still owed after the substep cap
	Alpha    float64
	Elapsed  time.Duration // wall time spent in systems
}

// Scheduler drives the world at a fixed substep and produces interpolated snapshots
type Scheduler struct {
	world  *World
	cfg    SchedulerConfig
	logger *slog.Logger

	state SchedulerState
	acc   time.Duration
	tick  int64

	pending InputState
	res     CoreResources

	snapshots [2]Snapshot
	front     int

	stats       TickStats
	backlogWarn rate.Sometimes

	ticks    *atomic.Int64
	substeps *atomic.Int64
	backlog  *atomic.Int64
	entities *atomic.Int64
	stepUs   *atomic.Int64
	behind   *atomic.Bool
}

// NewScheduler binds a scheduler to w; non-positive config values fall back to 1/60 s and 1 substep
func NewScheduler(w *World, cfg SchedulerConfig) *Scheduler {
	if cfg.FixedDT <= 0 {
		cfg.FixedDT = time.Second / 60
	}
	if cfg.MaxSubsteps <= 0 {
		cfg.MaxSubsteps = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		world:       w,
		cfg:         cfg,
		logger:      logger.With("component", "scheduler"),
		res:         GetCoreResources(w),
		backlogWarn: rate.Sometimes{Interval: backlogWarnInterval},
	}

	reg := s.res.Status
	s.ticks = reg.Ints.Get(status.KeyTicks)
	s.substeps = reg.Ints.Get(status.KeySubsteps)
	s.backlog = reg.Ints.Get(status.KeyBacklogMs)
	s.entities = reg.Ints.Get(status.KeyEntities)
	s.stepUs = reg.Ints.Get(status.KeyStepDuration)
	s.behind = reg.Bools.Get(status.KeyBacklogFlag)

	s.res.Time.FixedDT = cfg.FixedDT
	s.res.Time.DT = cfg.FixedDT.Seconds()
	return s
}

// PushInput queues the input snapshot for the next tick that runs a substep
// Snapshots pushed before that tick are merged in order
func (s *Scheduler) PushInput(in InputState) {
	s.pending = s.pending.merge(in)
}

// Tick accumulates frameDelta, runs up to MaxSubsteps fixed substeps and returns the interpolated snapshot
// Non-positive deltas step nothing but still produce a snapshot
func (s *Scheduler) Tick(frameDelta time.Duration) *Snapshot {
	s.state = StateStepping
	s.tick++
	if frameDelta > 0 {
		s.acc += frameDelta
	}

	if s.acc >= s.cfg.FixedDT {
		s.res.Input.State = s.pending
		s.res.Input.Tick = s.tick
		s.pending = InputState{}
	}

	start := time.Now()
	substeps := 0
	for s.acc >= s.cfg.FixedDT && substeps < s.cfg.MaxSubsteps {
		s.res.Time.Advance(s.cfg.FixedDT, s.tick, substeps)
		s.world.Update()
		s.acc -= s.cfg.FixedDT
		substeps++
	}
	elapsed := time.Since(start)

	var backlog time.Duration
	if s.acc >= s.cfg.FixedDT {
		backlog = s.acc
		s.backlogWarn.Do(func() {
			s.logger.Warn("substep cap reached, simulation running behind",
				"tick", s.tick,
				"substeps", substeps,
				"backlog", backlog,
			)
		})
	}

	s.state = StateSnapshotReady
	alpha := vmath.Clamp(float64(s.acc)/float64(s.cfg.FixedDT), 0, 1)
	back := 1 - s.front
	snap := &s.snapshots[back]
	snap.reset(s.tick, alpha)
	snap.build(&s.world.Components)
	s.front = back

	s.stats = TickStats{
		Tick:     s.tick,
		Substeps: substeps,
		Backlog:  backlog,
		Alpha:    alpha,
		Elapsed:  elapsed,
	}
	s.ticks.Store(s.tick)
	s.substeps.Add(int64(substeps))
	s.backlog.Store(backlog.Milliseconds())
	s.behind.Store(backlog > 0)
	s.entities.Store(int64(s.world.Len()))
	s.stepUs.Store(elapsed.Microseconds())

	s.state = StateIdle
	return snap
}

// State returns the lifecycle state; systems observe StateStepping
func (s *Scheduler) State() SchedulerState {
	return s.state
}

// Accumulator returns simulated time owed but not yet stepped
func (s *Scheduler) Accumulator() time.Duration {
	return s.acc
}

// TickCount returns the number of completed Tick calls
func (s *Scheduler) TickCount() int64 {
	return s.tick
}

// LastStats returns the summary of the most recent tick
func (s *Scheduler) LastStats() TickStats {
	return s.stats
}

// Snapshot returns the most recently built snapshot, nil before the first tick
func (s *Scheduler) Snapshot() *Snapshot {
	if s.tick == 0 {
		return nil
	}
	return &s.snapshots[s.front]
}

// FixedDT returns the substep length
func (s *Scheduler) FixedDT() time.Duration {
	return s.cfg.FixedDT
}
