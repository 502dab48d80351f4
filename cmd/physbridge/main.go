package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/solumlabs/physbridge/bridge"
	"github.com/solumlabs/physbridge/internal/config"
	"github.com/solumlabs/physbridge/internal/viz"
)

var (
	configFile string
	debug      bool
	steps      int
	profiling  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "physbridge",
		Short: "rigid-body physics boundary harness",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "build the scene and step it to completion",
		RunE:  runScene,
	}
	runCmd.Flags().IntVar(&steps, "steps", 0, "override step count from config")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "re-run the scene whenever the config file changes",
		RunE:  watchScene,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure stepping throughput on a falling stack",
		RunE:  benchScene,
	}
	benchCmd.Flags().IntVar(&steps, "steps", 1000, "steps per measurement")
	benchCmd.Flags().BoolVar(&profiling, "profile", false, "write a cpu profile")

	rootCmd.AddCommand(runCmd, watchCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// applyWorldSettings pushes the configured world settings through the
// boundary. The non-configurable solver tunables take the stock values a
// host engine would supply.
func applyWorldSettings(cfg *config.Config) {
	bridge.SetGravity(cfg.World.Gravity[0], cfg.World.Gravity[1], cfg.World.Gravity[2])
	bridge.SetIntegrationParameters(cfg.World.Dt, cfg.World.SolverIterations,
		1, 4, 2, // pgs, friction, stabilization iterations
		4,       // ccd substeps
		5, 1,    // contact and joint damping ratios
		30, 1e6, // contact and joint natural frequencies
		0.002, 10, 1)
}

func speedOf(vx, vy, vz float32) float64 {
	return math.Sqrt(float64(vx*vx + vy*vy + vz*vz))
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	return config.Load(configFile)
}

func bodyTypeFromString(s string) bridge.RigidBodyType {
	switch s {
	case "fixed":
		return bridge.BodyFixed
	case "kinematic":
		return bridge.BodyKinematicPositionBased
	default:
		return bridge.BodyDynamic
	}
}

// buildScene creates every configured body through the boundary and returns
// the handles of the dynamic ones for tracing.
func buildScene(cfg *config.Config, logger *zap.Logger) map[string]bridge.RigidBodyHandle {
	tracked := make(map[string]bridge.RigidBodyHandle)
	for _, b := range cfg.Scene {
		density := b.Density
		if density == 0 {
			density = 1
		}
		var collider bridge.ColliderHandle
		switch b.Shape {
		case "cuboid":
			collider = bridge.AddCuboidCollider(b.HalfExtents[0], b.HalfExtents[1], b.HalfExtents[2], density, b.Sensor)
		case "sphere":
			collider = bridge.AddSphereCollider(b.Radius, density, b.Sensor)
		case "capsule":
			collider = bridge.AddCapsuleCollider(b.HalfHeight, b.Radius, density, b.Sensor)
		}
		if collider == bridge.InvalidColliderHandle {
			logger.Warn("skipping body with failed collider", zap.String("name", b.Name))
			continue
		}

		rot := b.Rotation
		if rot == ([4]float32{}) {
			rot = [4]float32{0, 0, 0, 1}
		}
		body := bridge.AddRigidBody(collider, bodyTypeFromString(b.Type),
			b.Position[0], b.Position[1], b.Position[2],
			rot[0], rot[1], rot[2], rot[3])

		if b.CCD || b.Freeze != 0 || b.LinDamp != 0 || b.AngDamp != 0 {
			bridge.UpdateRigidBodyProperties(body, bodyTypeFromString(b.Type), b.CCD, b.Freeze, b.LinDamp, b.AngDamp)
		}
		if b.Velocity != ([3]float32{}) {
			bridge.SetLinearVelocity(body, b.Velocity[0], b.Velocity[1], b.Velocity[2])
		}
		if b.Type == "" || b.Type == "dynamic" {
			tracked[b.Name] = body
		}
	}
	return tracked
}

func stepScene(cfg *config.Config, tracked map[string]bridge.RigidBodyHandle, rec *viz.Recorder) error {
	traces := make(map[string]*viz.Trace, len(tracked))
	for name := range tracked {
		traces[name] = rec.AddTrace(name)
	}

	n := cfg.Steps
	if steps > 0 {
		n = steps
	}
	for i := 0; i < n; i++ {
		buf := bridge.Solve()
		if buf == nil {
			return fmt.Errorf("solve returned no event buffer")
		}
		started, stopped := 0, 0
		for _, e := range buf.Events() {
			if e.Started {
				started++
			} else {
				stopped++
			}
		}
		bridge.FreeCollisionEvents(buf)
		rec.CountEvents(started, stopped)

		for name, h := range tracked {
			tf := bridge.GetTransform(h)
			vx, vy, vz := bridge.GetLinearVelocity(h)
			traces[name].Sample(float64(tf.Position[1]), speedOf(vx, vy, vz))
		}
	}
	return nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	bridge.Init(logger)
	defer bridge.Teardown()
	applyWorldSettings(cfg)

	tracked := buildScene(cfg, logger)
	rec := viz.NewRecorder()
	start := time.Now()
	if err := stepScene(cfg, tracked, rec); err != nil {
		return err
	}
	logger.Info("run complete",
		zap.Int("steps", rec.Steps),
		zap.Duration("elapsed", time.Since(start)))

	fmt.Println(rec.Render(72, 10))
	return nil
}

// watchScene runs the scene, then reruns it each time the config file is
// rewritten. Useful while hand-tuning a scene.
func watchScene(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return fmt.Errorf("watch requires --config")
	}
	if err := runScene(cmd, args); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory; editors often replace the file, which drops a
	// watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(configFile)); err != nil {
		return err
	}

	target := filepath.Clean(configFile)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := runScene(cmd, args); err != nil {
				fmt.Fprintf(os.Stderr, "rerun failed: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func benchScene(cmd *cobra.Command, args []string) error {
	if profiling {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	bridge.Init(logger)
	defer bridge.Teardown()

	ground := bridge.AddCuboidCollider(20, 0.5, 20, 1, false)
	bridge.AddRigidBody(ground, bridge.BodyFixed, 0, -0.5, 0, 0, 0, 0, 1)
	for i := 0; i < 20; i++ {
		c := bridge.AddSphereCollider(0.5, 1, false)
		bridge.AddRigidBody(c, bridge.BodyDynamic, 0, 1+float32(i)*1.2, 0, 0, 0, 0, 1)
	}

	start := time.Now()
	for i := 0; i < steps; i++ {
		buf := bridge.Solve()
		bridge.FreeCollisionEvents(buf)
	}
	elapsed := time.Since(start)

	fmt.Printf("steps: %d\n", steps)
	fmt.Printf("elapsed: %v\n", elapsed)
	fmt.Printf("steps/sec: %.0f\n", float64(steps)/elapsed.Seconds())
	return nil
}
