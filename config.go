package gekkofx

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the file form of one particle system: pool capacity, simulation
// space, render settings, emission and the overtime modules.
type Config struct {
	Capacity        int            `yaml:"capacity"`
	SimulationSpace Space          `yaml:"simulation_space"`
	Render          RenderConfig   `yaml:"render"`
	Emitter         EmitterConfig  `yaml:"emitter"`
	Modules         ModulePipeline `yaml:"modules"`
}

type RenderConfig struct {
	Mode          RenderMode `yaml:"mode"`
	VelocityScale float32    `yaml:"velocity_scale"`
	LengthScale   float32    `yaml:"length_scale"`
}

// DefaultConfig returns the embedded defaults.
func DefaultConfig() (*Config, error) {
	return ParseConfig(nil)
}

// ParseConfig decodes data on top of the embedded defaults and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{
		Emitter: DefaultEmitterConfig(),
		Modules: DefaultModulePipeline(),
	}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML file over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ParseConfig(data)
}

// WriteYAML saves the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("capacity must be positive, got %d", c.Capacity))
	}
	if c.SimulationSpace != SpaceWorld && c.SimulationSpace != SpaceLocal {
		errs = append(errs, fmt.Errorf("unknown simulation space %d", c.SimulationSpace))
	}
	if !c.Render.Mode.Valid() {
		errs = append(errs, fmt.Errorf("unknown render mode %d", c.Render.Mode))
	}
	if c.Emitter.Rate < 0 {
		errs = append(errs, fmt.Errorf("emitter rate must not be negative, got %v", c.Emitter.Rate))
	}
	for _, b := range c.Emitter.Bursts {
		if b.Count < 0 {
			errs = append(errs, fmt.Errorf("burst at %v: negative count %d", b.Time, b.Count))
		}
	}
	ta := &c.Modules.TextureAnimation
	if ta.NumTilesX <= 0 || ta.NumTilesY <= 0 {
		errs = append(errs, fmt.Errorf("texture animation tiles must be positive, got %dx%d", ta.NumTilesX, ta.NumTilesY))
	}

	ranges := []struct {
		name string
		r    CurveRange
	}{
		{"emitter.start_lifetime", c.Emitter.StartLifetime},
		{"emitter.start_speed", c.Emitter.StartSpeed},
		{"emitter.start_size", c.Emitter.StartSize},
		{"emitter.start_rotation", c.Emitter.StartRotation},
		{"modules.gravity.modifier", c.Modules.Gravity.Modifier},
		{"modules.size_overtime.size", c.Modules.SizeOvertime.Size},
		{"modules.limit_velocity.limit", c.Modules.LimitVelocityOvertime.Limit},
		{"modules.rotation_overtime.z", c.Modules.RotationOvertime.Z},
		{"modules.texture_animation.frame", ta.FrameOverTime},
	}
	for _, nr := range ranges {
		if err := nr.r.validate(nr.name); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid particle config: %w", err)
	}
	return nil
}

// NewParticleSystem builds the runtime settings described by the config.
func (c *Config) NewParticleSystem() *ParticleSystem {
	return &ParticleSystem{
		Capacity:        c.Capacity,
		SimulationSpace: c.SimulationSpace,
		Modules:         c.Modules,
	}
}

func (c *Config) NewEmitter() *Emitter {
	return NewEmitter(c.Emitter)
}

// ApplyRender pushes the render settings into r.
func (c *Config) ApplyRender(r *ParticleSystemRenderer) {
	r.SetRenderMode(c.Render.Mode)
	r.SetVelocityScale(c.Render.VelocityScale)
	r.SetLengthScale(c.Render.LengthScale)
}
