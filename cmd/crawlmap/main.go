// Crawlmap wanders an unmapped space on a hexapod crawler, dodging
// obstacles and recognizing places it has already visited, and records a
// polar trace of the explored area. On interrupt the trace is flushed to
// CSV, a rendered PNG map, and an optional SQLite archive.
package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/stager00/crawlmap/internal/config"
	"github.com/stager00/crawlmap/internal/log"
	"github.com/stager00/crawlmap/pkg/drivers"
	"github.com/stager00/crawlmap/pkg/explorer"
	"github.com/stager00/crawlmap/pkg/motion"
	"github.com/stager00/crawlmap/pkg/places"
	"github.com/stager00/crawlmap/pkg/trace"
	"github.com/stager00/crawlmap/pkg/vision"
)

func main() {
	configPath := os.Getenv("CRAWLMAP_CONFIG")
	if configPath == "" {
		configPath = "crawlmap.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error("config load failed", "path", configPath, "error", err)
		os.Exit(1)
	}
	cfg = config.FromEnv(cfg)

	if problems := cfg.Validate(); len(problems) > 0 {
		log.Error("invalid configuration", "problems", problems)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	seed := time.Now().UnixNano()
	if v := os.Getenv("CRAWLMAP_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = n
		}
	}

	hw, cleanup, err := buildDrivers(cfg)
	if err != nil {
		log.Error("driver setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	comparator := vision.NewORBComparator(cfg.MatchDistance, cfg.MinGoodMatches, cfg.ORBFeatures)
	defer comparator.Close()

	memory := places.NewMemory(comparator, cfg.MemoryCap, log.With("component", "places"))

	out := &trace.Output{
		CSVPath:  cfg.TracePath,
		PlotPath: cfg.PlotPath,
	}
	if cfg.ArchivePath != "" {
		archive, err := trace.OpenArchive(cfg.ArchivePath)
		if err != nil {
			log.Error("archive setup failed", "path", cfg.ArchivePath, "error", err)
			os.Exit(1)
		}
		defer archive.Close()
		out.Archive = archive
	}

	policy := motion.NewPolicy(
		cfg.AlertDistance, cfg.BaseSpeed, cfg.MinSpeed, cfg.MaxSpeed,
		cfg.TurnAngle, rand.New(rand.NewSource(seed)),
	)

	loop := explorer.New(
		explorer.Config{
			PhotoInterval: cfg.PhotoInterval,
			CycleDelay:    cfg.CycleDelay,
			AlertSound:    cfg.AlertSound,
			TurnAngle:     cfg.TurnAngle,
		},
		hw,
		policy,
		memory,
		trace.NewLog(),
		out,
		rand.New(rand.NewSource(seed+1)),
		log.With("component", "explorer"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loop.Run(ctx); err != nil {
		// The run's whole output is in that flush; a silent loss is worse
		// than a dirty exit.
		log.Error("trace was NOT saved", "error", err)
		os.Exit(1)
	}
}

// buildDrivers wires the hardware stack. Without a chassis URL the process
// runs in bench mode on mock drivers: useful for exercising the loop and
// the shutdown path on a workstation.
func buildDrivers(cfg config.Config) (explorer.Drivers, func(), error) {
	if cfg.ChassisURL == "" {
		log.Warn("no chassis_url configured, running in bench mode with mock drivers")
		return explorer.Drivers{
			Locomotion: drivers.NewMockChassis(),
			Ranger:     drivers.NewMockRanger(drivers.Reading{Raw: 100, OK: true}),
			Camera:     drivers.NewMockCamera(),
			Audio:      drivers.NewMockAudio(),
		}, func() {}, nil
	}

	chassis := drivers.NewChassisClient(cfg.ChassisURL)

	webcam, err := drivers.OpenWebcam(cfg.CameraDevice)
	if err != nil {
		return explorer.Drivers{}, nil, err
	}

	return explorer.Drivers{
		Locomotion: chassis,
		Ranger:     chassis,
		Camera:     webcam,
		Audio:      drivers.NewExecPlayer(),
	}, func() { webcam.Close() }, nil
}
