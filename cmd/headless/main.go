package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/milk9111/pursuit/logger"
	"github.com/milk9111/pursuit/observer"
	"github.com/milk9111/pursuit/prefabs"
	"github.com/milk9111/pursuit/sim"
)

func main() {
	frames := flag.Int("frames", 600, "number of frames to simulate (0 runs until interrupted)")
	dt := flag.Float64("dt", 1000.0/60, "frame duration in milliseconds")
	planPath := flag.String("plan", "", "YAML input plan to replay")
	tuningPath := flag.String("tuning", "", "tuning file path (defaults to prefabs/tuning.yaml or the embedded copy)")
	observe := flag.String("observe", "", "serve frames to websocket observers on this address, e.g. 127.0.0.1:8090")
	debug := flag.Bool("debug", false, "enable debug logging and hot reload of prefabs/")
	logFormat := flag.String("log-format", "console", "log format: console, text or json")
	flag.Parse()

	tuning, err := loadTuning(*tuningPath)
	if err != nil {
		logger.Init(logger.Config{Level: "info", Format: *logFormat})
		logger.L().Error("load tuning", "err", err)
		os.Exit(1)
	}
	level := tuning.Log.Level
	if *debug {
		level = "debug"
	}
	logger.Init(logger.Config{Level: level, Format: *logFormat})

	if err := run(tuning, *frames, *dt, *planPath, *observe, *debug); err != nil {
		logger.L().Error("headless run failed", "err", err)
		os.Exit(1)
	}
}

// loadTuning reads an explicit file path, or the prefab tuning when path is
// empty.
func loadTuning(path string) (prefabs.TuningSpec, error) {
	if path == "" {
		return prefabs.LoadTuning("")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return prefabs.TuningSpec{}, err
	}
	return prefabs.ParseTuning(data)
}

func run(tuning prefabs.TuningSpec, frames int, dt float64, planPath, observe string, watch bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var steps []sim.PlanStep
	if planPath != "" {
		data, err := os.ReadFile(planPath)
		if err != nil {
			return err
		}
		if steps, err = sim.ParsePlan(data); err != nil {
			return err
		}
	}

	var s *sim.Sim
	plan := sim.NewPlan(steps, func() float64 { return s.World().Clock().Now() })
	s, err := sim.New(tuning, plan)
	if err != nil {
		return err
	}

	var hub *observer.Hub
	if observe != "" {
		hub = observer.NewHub()
		srv := &http.Server{Addr: observe, Handler: hub, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.L().Error("observer server stopped", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.L().Info("observer listening", "addr", observe)
	}

	var changes <-chan string
	if watch {
		w, err := prefabs.NewDefaultWatcher()
		if err != nil {
			logger.L().Warn("hot reload disabled", "err", err)
		} else {
			defer w.Close()
			changes = w.Events
		}
	}

	// Observed runs are paced to wall time so clients see real motion.
	var tick <-chan time.Time
	if hub != nil {
		t := time.NewTicker(time.Duration(dt * float64(time.Millisecond)))
		defer t.Stop()
		tick = t.C
	}

	start := time.Now()
	for i := 0; frames == 0 || i < frames; i++ {
		select {
		case <-ctx.Done():
			logger.L().Info("interrupted", "frame", i)
			return nil
		case path := <-changes:
			s.HandleChange(path)
		default:
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}

		s.Step(dt)
		f := s.Snapshot()
		for _, ev := range f.Events {
			logger.L().Debug("event", "frame", f.Frame, "type", ev)
		}
		if hub != nil {
			if err := hub.Publish(f); err != nil {
				return err
			}
		}
	}

	logger.L().Info("run complete",
		"frames", frames,
		"sim_ms", s.World().Clock().Now(),
		"wall", time.Since(start).Round(time.Millisecond),
		"player", s.PlayerPosition(),
		"last_shot", s.Combat().LastOutcome(),
		"plan_done", plan.Done(),
	)
	return nil
}
