// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Points    PointsConfig    `yaml:"points"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Uniforms  UniformsConfig  `yaml:"uniforms"`
	Race      RaceConfig      `yaml:"race"`
	Device    DeviceConfig    `yaml:"device"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
// The field is square: Size is both width and height in field units.
type ScreenConfig struct {
	Size      int `yaml:"size"`
	TargetFPS int `yaml:"target_fps"`
	Scale     int `yaml:"scale"` // Window pixels per field unit
}

// PointsConfig holds point spawn parameters.
type PointsConfig struct {
	Count        int     `yaml:"count"`
	Source       string  `yaml:"source"` // "random" or "preset"
	RadiusMin    float64 `yaml:"radius_min"`
	RadiusMax    float64 `yaml:"radius_max"`
	RadiusGrowth float64 `yaml:"radius_growth"` // Magnitude of per-frame radius change
	Speed        float64 `yaml:"speed"`         // Max absolute velocity per axis
}

// PhysicsConfig holds update kernel parameters.
type PhysicsConfig struct {
	RadiusGrowth bool `yaml:"radius_growth"` // Apply radius growth each frame
}

// UniformsConfig holds the initial shading toggles.
type UniformsConfig struct {
	CellSize          float64 `yaml:"cell_size"`
	CirclesSDF        bool    `yaml:"circles_sdf"`
	SmoothInterpolate bool    `yaml:"smooth_interpolate"`
	Outline           bool    `yaml:"outline"`
	Red               bool    `yaml:"red"`
	White             bool    `yaml:"white"`
	TimeColoring      bool    `yaml:"time_coloring"`
}

// RaceConfig holds the mutate-during-render configuration.
type RaceConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Sync     string  `yaml:"sync"` // "none", "atomic" or "locked"
	DX       float64 `yaml:"dx"`
	DY       float64 `yaml:"dy"`
	Reanchor bool    `yaml:"reanchor"` // Reset the race points before every pass
}

// DeviceConfig selects the compute and render backends.
type DeviceConfig struct {
	Backend       string `yaml:"backend"` // "software", "gl43" or "opencl"
	WorkgroupSize int    `yaml:"workgroup_size"`
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Workers      int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold    int `yaml:"threshold"` // Below this many invocations, run serially
	RowsPerChunk int `yaml:"rows_per_chunk"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int `yaml:"perf_window"`
	LogInterval int `yaml:"log_interval"` // Frames between perf log lines (0 = never)
}

// Backend identifies a device implementation.
type Backend uint8

const (
	BackendSoftware Backend = iota
	BackendGL43
	BackendOpenCL
)

func (b Backend) String() string {
	switch b {
	case BackendGL43:
		return "gl43"
	case BackendOpenCL:
		return "opencl"
	default:
		return "software"
	}
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Size32         float32 // Screen.Size as float32
	RadiusMin32    float32
	RadiusMax32    float32
	RadiusGrowth32 float32
	Speed32        float32
	RaceDX32       float32
	RaceDY32       float32
	Backend        Backend
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates c and recomputes derived values. Call it after
// changing fields of a loaded config, e.g. from command-line overrides.
func (c *Config) Finalize() error {
	if err := c.validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// validate rejects configurations the kernels cannot run with.
func (c *Config) validate() error {
	var errs []error
	if c.Screen.Size <= 0 {
		errs = append(errs, fmt.Errorf("screen.size must be positive, got %d", c.Screen.Size))
	}
	if c.Points.Count <= 0 {
		errs = append(errs, fmt.Errorf("points.count must be positive, got %d", c.Points.Count))
	}
	switch c.Points.Source {
	case "random", "preset":
	default:
		errs = append(errs, fmt.Errorf("points.source: unknown value %q", c.Points.Source))
	}
	if c.Points.RadiusMin < 0 || c.Points.RadiusMax < c.Points.RadiusMin {
		errs = append(errs, fmt.Errorf("points: radius range [%v, %v] is invalid", c.Points.RadiusMin, c.Points.RadiusMax))
	}
	if 2*c.Points.RadiusMax >= float64(c.Screen.Size) {
		errs = append(errs, fmt.Errorf("points.radius_max %v does not fit in screen.size %d", c.Points.RadiusMax, c.Screen.Size))
	}
	if c.Uniforms.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("uniforms.cell_size must be positive, got %v", c.Uniforms.CellSize))
	}
	switch c.Race.Sync {
	case "none", "atomic", "locked":
	default:
		errs = append(errs, fmt.Errorf("race.sync: unknown value %q", c.Race.Sync))
	}
	switch c.Device.Backend {
	case "software", "gl43", "opencl":
	default:
		errs = append(errs, fmt.Errorf("device.backend: unknown value %q", c.Device.Backend))
	}
	if c.Device.WorkgroupSize <= 0 {
		errs = append(errs, fmt.Errorf("device.workgroup_size must be positive, got %d", c.Device.WorkgroupSize))
	}
	if c.Parallel.Workers < 0 {
		errs = append(errs, fmt.Errorf("parallel.workers must not be negative, got %d", c.Parallel.Workers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Size32 = float32(c.Screen.Size)
	c.Derived.RadiusMin32 = float32(c.Points.RadiusMin)
	c.Derived.RadiusMax32 = float32(c.Points.RadiusMax)
	c.Derived.RadiusGrowth32 = float32(c.Points.RadiusGrowth)
	c.Derived.Speed32 = float32(c.Points.Speed)
	c.Derived.RaceDX32 = float32(c.Race.DX)
	c.Derived.RaceDY32 = float32(c.Race.DY)

	switch c.Device.Backend {
	case "gl43":
		c.Derived.Backend = BackendGL43
	case "opencl":
		c.Derived.Backend = BackendOpenCL
	default:
		c.Derived.Backend = BackendSoftware
	}

	if c.Screen.Scale < 1 {
		c.Screen.Scale = 1
	}
	if c.Parallel.RowsPerChunk < 1 {
		c.Parallel.RowsPerChunk = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
