// Command fxtrace runs a particle effect headless for a fixed number of frames
// and writes one CSV row per frame with pool and vertex-buffer statistics.
// With -gpu it also uploads each effect's buffers to a headless device.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gekkofx"
	"github.com/gekko3d/gekkofx/host"
	"github.com/gekko3d/gekkofx/rt/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gocarina/gocsv"
	"github.com/mlange-42/ark/ecs"
	"github.com/pkg/profile"
	"gonum.org/v1/gonum/stat"
)

// FrameRecord is one row of the trace.
type FrameRecord struct {
	Frame         uint64  `csv:"frame"`
	Time          float64 `csv:"time_s"`
	Particles     int     `csv:"particles"`
	IndexCount    int     `csv:"index_count"`
	VertexBytes   int     `csv:"vertex_bytes"`
	CentroidX     float64 `csv:"centroid_x"`
	CentroidY     float64 `csv:"centroid_y"`
	CentroidZ     float64 `csv:"centroid_z"`
	MeanRemaining float64 `csv:"mean_remaining_s"`
	MeanSpeed     float64 `csv:"mean_speed"`
	UploadBytes   int     `csv:"upload_bytes"`
}

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code so deferred profile writers run before exit.
func realMain() int {
	var (
		configPath = flag.String("config", "", "particle config YAML (defaults if empty)")
		frames     = flag.Int("frames", 300, "number of frames to simulate")
		fps        = flag.Float64("fps", 60, "simulation frames per second")
		outPath    = flag.String("out", "", "CSV output path (stdout if empty)")
		effects    = flag.Int("effects", 1, "number of effect instances, spaced along X")
		prof       = flag.String("profile", "", "profile mode: cpu or mem")
		profDir    = flag.String("profile-dir", ".", "profile output directory")
		debug      = flag.Bool("debug", false, "enable debug logging")
		useGPU     = flag.Bool("gpu", false, "upload every frame to a headless GPU device")
	)
	flag.Parse()

	switch *prof {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profDir), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(*profDir), profile.NoShutdownHook).Stop()
	}

	logger := gekkofx.NewDefaultLogger("fxtrace", *debug)
	var device *wgpu.Device
	if *useGPU {
		d, release, err := gpu.NewHeadlessDevice()
		if err != nil {
			logger.Errorf("%v", err)
			return 1
		}
		defer release()
		device = d
	}
	if err := run(logger, *configPath, *outPath, *frames, *fps, *effects, device); err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	return 0
}

// configDumpPath names the effective-config copy after the trace file.
func configDumpPath(outPath string) string {
	return strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".config.yaml"
}

// run simulates the effects and writes the trace. A nil device skips uploads.
func run(logger gekkofx.Logger, configPath, outPath string, frames int, fps float64, effects int, device *wgpu.Device) error {
	cfg, err := gekkofx.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %v", fps)
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		dump := configDumpPath(outPath)
		if configPath != "" && filepath.Clean(dump) == filepath.Clean(configPath) {
			return fmt.Errorf("config dump %s would overwrite the -config file", dump)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating trace file: %w", err)
		}
		defer f.Close()
		out = f

		if err := cfg.WriteYAML(dump); err != nil {
			return err
		}
	}

	world := host.NewWorld(logger)
	buffers := map[ecs.Entity]*gpu.ParticleBuffers{}
	for i := 0; i < effects; i++ {
		e := world.Spawn(host.NewTransform(mgl32.Vec3{float32(i) * 4, 0, 0}), cfg)
		if device != nil {
			buffers[e] = gpu.NewParticleBuffers(device)
		}
	}
	defer func() {
		for _, b := range buffers {
			b.Release()
		}
	}()

	uploaded := 0
	if device != nil {
		world.UseSystem(host.PreRender, "upload", func(w *host.World, _ float32) {
			uploaded = 0
			w.Each(func(e ecs.Entity, _ *host.Transform, fx *host.Effect) {
				b, ok := buffers[e]
				if !ok {
					return
				}
				if err := b.Upload(fx.Model); err != nil {
					logger.Warnf("effect %v: %v", e, err)
					return
				}
				uploaded += b.LastUploadBytes
			})
		})
	}

	dt := time.Duration(float64(time.Second) / fps)
	records := make([]FrameRecord, 0, frames)
	for i := 0; i < frames; i++ {
		world.Step(dt)
		rec := sample(world)
		rec.UploadBytes = uploaded
		records = append(records, rec)
	}

	logger.Infof("simulated %d frames of %d effect(s), %d particles alive at end", frames, effects, world.ParticleCount())
	if err := gocsv.Marshal(records, out); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

func sample(world *host.World) FrameRecord {
	rec := FrameRecord{
		Frame: world.Time.Frame,
	}
	var xs, ys, zs, remaining, speed []float64
	world.Each(func(_ ecs.Entity, _ *host.Transform, fx *host.Effect) {
		rec.IndexCount += fx.Model.IndexCount()
		rec.VertexBytes += len(fx.Model.VertexData())
		for i := 0; i < fx.Renderer.ParticleCount(); i++ {
			p := fx.Renderer.Particle(i)
			xs = append(xs, float64(p.Position.X()))
			ys = append(ys, float64(p.Position.Y()))
			zs = append(zs, float64(p.Position.Z()))
			remaining = append(remaining, float64(p.RemainingLifetime))
			speed = append(speed, float64(p.UltimateVelocity.Len()))
		}
	})
	rec.Particles = len(xs)
	rec.Time = float64(rec.Frame) * world.Time.Dt.Seconds()
	if rec.Particles > 0 {
		rec.CentroidX = stat.Mean(xs, nil)
		rec.CentroidY = stat.Mean(ys, nil)
		rec.CentroidZ = stat.Mean(zs, nil)
		rec.MeanRemaining = stat.Mean(remaining, nil)
		rec.MeanSpeed = stat.Mean(speed, nil)
	}
	return rec
}
