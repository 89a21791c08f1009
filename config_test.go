package gekkofx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gekko3d/gekkofx/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Capacity)
	assert.Equal(t, SpaceWorld, cfg.SimulationSpace)
	assert.Equal(t, RenderModeBillboard, cfg.Render.Mode)
	assert.Equal(t, float32(20), cfg.Emitter.Rate)
	assert.Equal(t, RandomRange(1.5, 2.5), cfg.Emitter.StartLifetime)
	assert.Equal(t, ConstantRange(0.5), cfg.Emitter.StartSize)

	assert.True(t, cfg.Modules.Gravity.Enabled())
	assert.Equal(t, ConstantRange(0.3), cfg.Modules.Gravity.Modifier)
	assert.True(t, cfg.Modules.SizeOvertime.Enabled())
	assert.True(t, cfg.Modules.ColorOverLifetime.Enabled())
	assert.False(t, cfg.Modules.VelocityOvertime.Enabled())
	assert.Equal(t, SpaceLocal, cfg.Modules.VelocityOvertime.Space)
	assert.False(t, cfg.Modules.TextureAnimation.Enabled())
	// keys absent from the defaults file keep the code defaults
	assert.Equal(t, ConstantRange(1), cfg.Modules.VelocityOvertime.SpeedModifier)
	assert.NotNil(t, cfg.Modules.TextureAnimation.FrameOverTime.Curve)
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
capacity: 32
simulation_space: local
render:
  mode: stretched_billboard
  velocity_scale: 0.25
modules:
  texture_animation:
    enabled: true
    num_tiles_x: 4
    num_tiles_y: 4
    animation: single_row
`))
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Capacity)
	assert.Equal(t, SpaceLocal, cfg.SimulationSpace)
	assert.Equal(t, RenderModeStretchedBillboard, cfg.Render.Mode)
	assert.Equal(t, float32(0.25), cfg.Render.VelocityScale)
	assert.Equal(t, float32(1), cfg.Render.LengthScale, "untouched keys keep defaults")
	assert.True(t, cfg.Modules.TextureAnimation.Enabled())
	assert.Equal(t, AnimationSingleRow, cfg.Modules.TextureAnimation.Animation)
	assert.True(t, cfg.Modules.Gravity.Enabled())
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"zero capacity":    "capacity: 0",
		"negative rate":    "emitter: {rate: -1}",
		"negative burst":   "emitter: {bursts: [{time: 0, count: -2}]}",
		"tiles":            "modules: {texture_animation: {num_tiles_x: 0}}",
		"unknown mode":     "render: {mode: ribbon}",
		"unknown space":    "simulation_space: screen",
		"not yaml mapping": "- 1\n- 2",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestConfig_ValidateJoinsErrors(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	cfg.Capacity = -1
	cfg.Render.Mode = RenderMode(9)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity")
	assert.Contains(t, err.Error(), "render mode")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Capacity)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "fx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 8\n"), 0o644))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Capacity)
}

func TestConfig_WriteYAMLRoundTrip(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	cfg.Capacity = 99
	cfg.Render.Mode = RenderModeVerticalBillboard
	cfg.Modules.RotationOvertime.SetEnabled(true)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))
	got, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 99, got.Capacity)
	assert.Equal(t, RenderModeVerticalBillboard, got.Render.Mode)
	assert.True(t, got.Modules.RotationOvertime.Enabled())
	assert.InDelta(t,
		cfg.Modules.SizeOvertime.Size.Evaluate(0.5, 0),
		got.Modules.SizeOvertime.Size.Evaluate(0.5, 0), 1e-6)
	assert.Equal(t, cfg.Modules.ColorOverLifetime.Color.Evaluate(0.5, 0), got.Modules.ColorOverLifetime.Color.Evaluate(0.5, 0))
}

func TestConfig_BuildsRenderer(t *testing.T) {
	cfg, err := ParseConfig([]byte("capacity: 16\nrender: {mode: stretched_billboard, velocity_scale: 2, length_scale: 0.5}"))
	require.NoError(t, err)

	r := NewParticleSystemRenderer()
	sys := cfg.NewParticleSystem()
	r.Bind(sys, nil)
	cfg.ApplyRender(r)
	model := core.NewBatchModel()
	r.Enable(model)

	assert.Equal(t, 16, model.Capacity())
	assert.True(t, model.Stretched())
	assert.Equal(t, float32(2), r.FrameTileVelLenScale()[2])
	assert.Equal(t, float32(0.5), r.FrameTileVelLenScale()[3])

	// the system owns a copy of the module settings
	sys.Modules.Gravity.SetEnabled(false)
	assert.True(t, cfg.Modules.Gravity.Enabled())
}

func TestConfig_ValidateStableOrder(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	cfg.Emitter.StartLifetime.Mode = CurveMode(7)
	cfg.Modules.Gravity.Modifier.Mode = CurveMode(8)
	cfg.Modules.TextureAnimation.FrameOverTime.Mode = CurveMode(9)

	first := cfg.Validate()
	require.Error(t, first)
	msg := first.Error()
	lifetime := strings.Index(msg, "emitter.start_lifetime")
	gravity := strings.Index(msg, "modules.gravity.modifier")
	frame := strings.Index(msg, "modules.texture_animation.frame")
	require.True(t, lifetime >= 0 && gravity >= 0 && frame >= 0, msg)
	assert.Less(t, lifetime, gravity)
	assert.Less(t, gravity, frame)

	for i := 0; i < 20; i++ {
		assert.Equal(t, msg, cfg.Validate().Error())
	}
}
