package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt               = 1.0 / 50.0
	DefaultGravityY         = -9.81
	DefaultSolverIterations = 4
	DefaultSteps            = 250
)

// Config describes one simulation session: world settings plus the scene
// content built through the boundary before stepping.
type Config struct {
	World WorldConfig  `yaml:"world"`
	Steps int          `yaml:"steps"`
	Scene []BodyConfig `yaml:"scene"`
}

type WorldConfig struct {
	Gravity          [3]float32 `yaml:"gravity"`
	Dt               float32    `yaml:"dt"`
	SolverIterations int        `yaml:"solver_iterations"`
}

// BodyConfig is one rigid body with its collider. Shape selects which of
// the dimension fields apply.
type BodyConfig struct {
	Name  string `yaml:"name"`
	Shape string `yaml:"shape"` // cuboid, sphere, capsule
	Type  string `yaml:"type"`  // dynamic, fixed, kinematic

	HalfExtents [3]float32 `yaml:"half_extents"`
	Radius      float32    `yaml:"radius"`
	HalfHeight  float32    `yaml:"half_height"`

	Position [3]float32 `yaml:"position"`
	Rotation [4]float32 `yaml:"rotation"` // quaternion x, y, z, w; zero means identity

	Density  float32    `yaml:"density"`
	Sensor   bool       `yaml:"sensor"`
	CCD      bool       `yaml:"ccd"`
	LinDamp  float32    `yaml:"linear_damping"`
	AngDamp  float32    `yaml:"angular_damping"`
	Freeze   uint32     `yaml:"freeze"` // host constraint bitmask
	Velocity [3]float32 `yaml:"velocity"`
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			Gravity:          [3]float32{0, DefaultGravityY, 0},
			Dt:               DefaultDt,
			SolverIterations: DefaultSolverIterations,
		},
		Steps: DefaultSteps,
		Scene: []BodyConfig{
			{
				Name:        "ground",
				Shape:       "cuboid",
				Type:        "fixed",
				HalfExtents: [3]float32{10, 0.5, 10},
				Position:    [3]float32{0, -0.5, 0},
				Density:     1,
			},
			{
				Name:     "ball",
				Shape:    "sphere",
				Type:     "dynamic",
				Radius:   0.5,
				Position: [3]float32{0, 5, 0},
				Density:  1,
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	cfg.Scene = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.World.Dt <= 0 {
		return fmt.Errorf("world.dt must be positive, got %g", c.World.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	for i, b := range c.Scene {
		switch b.Shape {
		case "cuboid", "sphere", "capsule":
		default:
			return fmt.Errorf("scene[%d] %q: unknown shape %q", i, b.Name, b.Shape)
		}
		switch b.Type {
		case "", "dynamic", "fixed", "kinematic":
		default:
			return fmt.Errorf("scene[%d] %q: unknown body type %q", i, b.Name, b.Type)
		}
	}
	return nil
}
