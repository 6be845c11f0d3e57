// Benchmark:
// go build ./cmd/sim-benchmark
// ./sim-benchmark -bodies 64 -ticks 2000 -workers 4 -profile cpu
// go tool pprof -http=":8000" ./sim-benchmark cpu.pprof

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/softsim/config"
	"github.com/lixenwraith/softsim/scene"
	"github.com/lixenwraith/softsim/sim"
	"github.com/lixenwraith/softsim/status"
)

var (
	bodiesFlag  = flag.Int("bodies", 32, "number of random lattice bodies")
	ticksFlag   = flag.Int("ticks", 1000, "ticks to run, one fixed substep each")
	seedFlag    = flag.Uint64("seed", 1, "scene seed")
	workersFlag = flag.Int("workers", 0, "softbody worker goroutines, 0 keeps the config value")
	configFlag  = flag.String("config", "", "path to a YAML config file")
	profileFlag = flag.String("profile", "", "profile mode: cpu, mem or empty")
	logFileFlag = flag.String("logfile", "", "write logs to a rotating file instead of stderr")
)

// report is the outcome of one benchmark run
type report struct {
	Ticks    int
	Bodies   int64
	Workers  int
	Elapsed  time.Duration
	Contacts int64
	Energy   float64
	Clamped  int64
	Allocs   uint64
	Metrics  []status.Sample
}

func main() {
	flag.Parse()

	var logOut io.Writer = os.Stderr
	if *logFileFlag != "" {
		lj := &lumberjack.Logger{Filename: *logFileFlag, MaxSize: 10, MaxBackups: 3}
		defer lj.Close()
		logOut = lj
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sim-benchmark: %v\n", err)
		os.Exit(1)
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}

	switch *profileFlag {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		fmt.Fprintf(os.Stderr, "sim-benchmark: unknown profile mode %q\n", *profileFlag)
		os.Exit(2)
	}

	r, err := run(cfg, *seedFlag, *bodiesFlag, *ticksFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sim-benchmark: %v\n", err)
		os.Exit(1)
	}
	printReport(os.Stdout, r)
}

// run steps a random scene for ticks fixed substeps
func run(cfg config.Config, seed uint64, bodies, ticks int) (report, error) {
	s, err := sim.New(cfg, slog.Default())
	if err != nil {
		return report{}, err
	}
	if _, err := s.Load(scene.Random(seed, bodies)); err != nil {
		return report{}, err
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	var contacts int64
	for i := 0; i < ticks; i++ {
		s.Tick(cfg.FixedDT)
		contacts += s.Stats().Contacts
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	st := s.Stats()
	return report{
		Ticks:    ticks,
		Bodies:   st.Bodies,
		Workers:  cfg.Workers,
		Elapsed:  elapsed,
		Contacts: contacts,
		Energy:   st.Energy,
		Clamped:  st.Clamped,
		Allocs:   after.Mallocs - before.Mallocs,
		Metrics:  s.Status().Samples(),
	}, nil
}

func printReport(w io.Writer, r report) {
	perTick := time.Duration(0)
	rate := 0.0
	if r.Ticks > 0 {
		perTick = r.Elapsed / time.Duration(r.Ticks)
	}
	if r.Elapsed > 0 {
		rate = float64(r.Ticks) / r.Elapsed.Seconds()
	}
	fmt.Fprintf(w, "bodies:      %s (workers %d)\n", humanize.Comma(r.Bodies), r.Workers)
	fmt.Fprintf(w, "ticks:       %s in %s\n", humanize.Comma(int64(r.Ticks)), r.Elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "per tick:    %s (%s ticks/s)\n", perTick, humanize.CommafWithDigits(rate, 1))
	fmt.Fprintf(w, "contacts:    %s total\n", humanize.Comma(r.Contacts))
	fmt.Fprintf(w, "energy:      %s\n", humanize.SIWithDigits(r.Energy, 3, "J"))
	fmt.Fprintf(w, "clamped:     %s\n", humanize.Comma(r.Clamped))
	fmt.Fprintf(w, "allocations: %s\n", humanize.Comma(int64(r.Allocs)))

	if len(r.Metrics) == 0 {
		return
	}
	fmt.Fprintln(w, "metrics:")
	for _, m := range r.Metrics {
		switch m.Kind {
		case status.KindInt:
			fmt.Fprintf(w, "  %-22s %s\n", m.Key, humanize.Comma(m.Int))
		case status.KindFloat:
			fmt.Fprintf(w, "  %-22s %s\n", m.Key, humanize.FtoaWithDigits(m.Float, 4))
		case status.KindBool:
			fmt.Fprintf(w, "  %-22s %t\n", m.Key, m.Bool)
		}
	}
}
