package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/core"
	"github.com/vovakirdan/oil-strike/internal/loop"
	"github.com/vovakirdan/oil-strike/internal/sim"
	"github.com/vovakirdan/oil-strike/internal/storage"
	"github.com/vovakirdan/oil-strike/internal/telemetry"
)

var (
	flagSimTicks   int
	flagSimSteer   string
	flagSimMap     string
	flagSimWidth   float64
	flagSimHeight  float64
	flagSimRecord  bool
	flagSimNoSpawn bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless deterministic drill",
	Long: `Drive a full run without a terminal, one simulation tick per frame on a
manual clock, and print the final state. The same seed and steering always
give the same result.

Steering patterns are comma-separated steps of a direction letter and a tick
count, repeated until the run ends: L/R steer while descending, U/D while
geosteering, N holds nothing. "auto" steers around hazards towards pickups.

Examples:
  oilstrike simulate
  oilstrike simulate --seed 42 --steer L30,R30
  oilstrike simulate --steer auto --map zone-c --record
  oilstrike simulate --no-spawn --ticks 2001`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 20000, "Maximum ticks to simulate")
	simulateCmd.Flags().StringVar(&flagSimSteer, "steer", "auto", `Steering pattern, e.g. "L30,N10,R30", or "auto"`)
	simulateCmd.Flags().StringVar(&flagSimMap, "map", "zone-a", "Site to drill")
	simulateCmd.Flags().Float64Var(&flagSimWidth, "width", 800, "Viewport width in logical pixels")
	simulateCmd.Flags().Float64Var(&flagSimHeight, "height", core.ReferenceHeight, "Viewport height in logical pixels")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save the run and its telemetry to the runs database")
	simulateCmd.Flags().BoolVar(&flagSimNoSpawn, "no-spawn", false, "Disable obstacle spawning")
	simulateCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

// headlessSurface is a fixed-size surface that draws nothing.
type headlessSurface struct {
	vp core.Viewport
}

func (s *headlessSurface) Viewport() (core.Viewport, bool) { return s.vp, true }

func (s *headlessSurface) Draw(sim.Snapshot, loop.HUD) {}

// cueCounter tallies cues instead of playing them.
type cueCounter struct {
	plays map[sim.Cue]int
	loops map[sim.Loop]int
}

func newCueCounter() *cueCounter {
	return &cueCounter{plays: make(map[sim.Cue]int), loops: make(map[sim.Loop]int)}
}

func (c *cueCounter) Play(cue sim.Cue)     { c.plays[cue]++ }
func (c *cueCounter) StartLoop(l sim.Loop) { c.loops[l]++ }
func (c *cueCounter) StopLoop(sim.Loop)    {}

func (c *cueCounter) String() string {
	var parts []string
	for _, cue := range sim.AllCues {
		if n := c.plays[cue]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", cue, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger()
	defer closeLog()

	drill, maps := loadSettings(logger)
	site, ok := config.FindMap(maps, flagSimMap)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown site %q\n", flagSimMap)
		os.Exit(1)
	}
	cfg := site.Apply(drill, parseDifficulty(flagDifficulty))

	auto := flagSimSteer == "auto"
	var steps []steerStep
	if !auto {
		var err error
		if steps, err = parseSteer(flagSimSteer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = 1
	}

	var (
		store    *storage.Store
		recorder *telemetry.Recorder
		rec      loop.Recorder
		session  = telemetry.NewSessionID()
	)
	if flagSimRecord {
		var err error
		if store, err = storage.Open(flagDBPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		recorder = telemetry.NewRecorder(session, telemetry.MultiSink{
			telemetry.NewLogSink(logger),
			telemetry.NewStoreSink(store),
		}, telemetry.DefaultBatchSize)
		rec = recorder
	}

	surface := &headlessSurface{vp: core.Viewport{W: flagSimWidth, H: flagSimHeight}}
	sched := loop.NewFrameScheduler()
	clock := loop.NewManualClock(time.Unix(0, 0))
	cues := newCueCounter()

	var result loop.Result
	d, err := loop.Start(loop.Options{
		Config:        cfg,
		Surface:       surface,
		Scheduler:     sched,
		Clock:         clock,
		Cues:          cues,
		Seed:          seed,
		DisableSpawns: flagSimNoSpawn,
		Recorder:      rec,
		OnFinish:      func(r loop.Result) { result = r },
		Logger:        logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The first frame creates the simulation and starts the clock
	sched.Fire()

	tickDur := time.Second / time.Duration(cfg.Loop.TickRate)
	held := core.ActionNone
	for t := 0; t < flagSimTicks && !d.Finished(); t++ {
		want := actionAt(steps, t)
		if auto {
			snap, _ := d.Snapshot()
			want = autopilot(snap)
		}
		if want != held {
			if held != core.ActionNone {
				d.Release(held)
			}
			if want != core.ActionNone {
				d.Press(want)
			}
			held = want
		}

		clock.Advance(tickDur)
		sched.Fire()
	}
	d.Stop()

	snap, _ := d.Snapshot()
	printSimulation(site, seed, d, snap, cues, tickDur)

	if !flagSimRecord {
		return
	}
	if err := recorder.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: telemetry incomplete: %v\n", err)
	}
	if d.Finished() {
		_, err := store.SaveRun(storage.Run{
			SessionID: session,
			MapID:     site.ID,
			Outcome:   result.Outcome.String(),
			Score:     result.Score,
			Depth:     result.Depth,
			Droplets:  result.Droplets,
			Duration:  result.Duration,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
		}
	}
	fmt.Printf("Session     %s (%d commands recorded)\n", session, recorder.Sent())
}

func printSimulation(site config.MapConfig, seed int64, d *loop.Driver, snap sim.Snapshot, cues *cueCounter, tickDur time.Duration) {
	outcome := fmt.Sprintf("running (%s)", snap.Phase)
	if snap.Phase.IsTerminal() {
		outcome = snap.Phase.String()
	}

	history := d.History()
	names := make([]string, len(history))
	for i, p := range history {
		names[i] = p.String()
	}

	obj := snap.Objective
	fmt.Printf("Site        %s (%s)\n", site.ID, site.Title)
	fmt.Printf("Seed        %d\n", seed)
	fmt.Printf("Outcome     %s\n", outcome)
	fmt.Printf("Ticks       %d (%s simulated)\n", snap.Tick, time.Duration(snap.Tick)*tickDur)
	fmt.Printf("Phases      %s\n", strings.Join(names, " -> "))
	fmt.Printf("Score       %d\n", snap.Score)
	fmt.Printf("Depth       %dm\n", int(snap.Depth))
	fmt.Printf("Health      %.1f\n", snap.Health)
	fmt.Printf("Droplets    %d/%d (spawned %d, missed %d)\n", obj.Collected, obj.Target, obj.Spawned, obj.Missed)
	fmt.Printf("Obstacles   %d live\n", len(snap.Obstacles))
	fmt.Printf("Frames      %d (skipped %d)\n", d.Frames(), d.Skipped())
	fmt.Printf("Cues        %s\n", cues)
}
