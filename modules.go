package gekkofx

import (
	"github.com/go-gl/mathgl/mgl32"
)

// OvertimeModule is one stage of the per-particle pipeline. Update runs once
// per frame before the particle loop, Animate once per live particle.
type OvertimeModule interface {
	Enabled() bool
	Update(space Space, world mgl32.Mat4)
	Animate(p *Particle, dt float32)
}

// passThrough is implemented by stages that still touch the particle when disabled.
type passThrough interface {
	AnimateDisabled(p *Particle)
}

type ModuleToggle struct {
	Enable bool `yaml:"enabled"`
}

func (t *ModuleToggle) Enabled() bool            { return t.Enable }
func (t *ModuleToggle) SetEnabled(on bool)       { t.Enable = on }
func (t *ModuleToggle) Update(Space, mgl32.Mat4) {}

// ModulePipeline holds the overtime modules of one particle system. Stages run
// in field order; later stages see the output of earlier ones.
type ModulePipeline struct {
	Gravity               GravityModule               `yaml:"gravity"`
	SizeOvertime          SizeOvertimeModule          `yaml:"size_overtime"`
	ColorOverLifetime     ColorOverLifetimeModule     `yaml:"color_over_lifetime"`
	ForceOvertime         ForceOvertimeModule         `yaml:"force_overtime"`
	VelocityOvertime      VelocityOvertimeModule      `yaml:"velocity_overtime"`
	LimitVelocityOvertime LimitVelocityOvertimeModule `yaml:"limit_velocity_overtime"`
	RotationOvertime      RotationOvertimeModule      `yaml:"rotation_overtime"`
	TextureAnimation      TextureAnimationModule      `yaml:"texture_animation"`
}

// DefaultModulePipeline returns every module disabled with neutral parameters.
func DefaultModulePipeline() ModulePipeline {
	return ModulePipeline{
		Gravity:      GravityModule{Modifier: ConstantRange(0)},
		SizeOvertime: SizeOvertimeModule{Size: ConstantRange(1), X: ConstantRange(1), Y: ConstantRange(1), Z: ConstantRange(1)},
		ColorOverLifetime: ColorOverLifetimeModule{
			Color: ConstantColor(mgl32.Vec4{1, 1, 1, 1}),
		},
		ForceOvertime: ForceOvertimeModule{X: ConstantRange(0), Y: ConstantRange(0), Z: ConstantRange(0), Space: SpaceLocal},
		VelocityOvertime: VelocityOvertimeModule{
			X: ConstantRange(0), Y: ConstantRange(0), Z: ConstantRange(0),
			SpeedModifier: ConstantRange(1),
			Space:         SpaceLocal,
		},
		LimitVelocityOvertime: LimitVelocityOvertimeModule{
			Limit: ConstantRange(1), LimitX: ConstantRange(1), LimitY: ConstantRange(1), LimitZ: ConstantRange(1),
			Dampen: 1,
		},
		RotationOvertime: RotationOvertimeModule{X: ConstantRange(0), Y: ConstantRange(0), Z: ConstantRange(0)},
		TextureAnimation: TextureAnimationModule{
			NumTilesX:     1,
			NumTilesY:     1,
			FrameOverTime: CurveRangeOf(MustCurve(Keyframe{0, 0}, Keyframe{1, 1}), 1),
			StartFrame:    ConstantRange(0),
			CycleCount:    1,
		},
	}
}

// Stages returns the modules in application order.
func (mp *ModulePipeline) Stages() [8]OvertimeModule {
	return [8]OvertimeModule{
		&mp.Gravity,
		&mp.SizeOvertime,
		&mp.ColorOverLifetime,
		&mp.ForceOvertime,
		&mp.VelocityOvertime,
		&mp.LimitVelocityOvertime,
		&mp.RotationOvertime,
		&mp.TextureAnimation,
	}
}

// Update runs the per-frame hook of every enabled module.
func (mp *ModulePipeline) Update(space Space, world mgl32.Mat4) {
	for _, m := range mp.Stages() {
		if m.Enabled() {
			m.Update(space, world)
		}
	}
}

// Animate applies the enabled modules to p in pipeline order.
func (mp *ModulePipeline) Animate(p *Particle, dt float32) {
	for _, m := range mp.Stages() {
		if m.Enabled() {
			m.Animate(p, dt)
		} else if pt, ok := m.(passThrough); ok {
			pt.AnimateDisabled(p)
		}
	}
}

// GravityModule pulls particles down the Y axis, scaled by a curve over lifetime.
type GravityModule struct {
	ModuleToggle `yaml:",inline"`
	Modifier     CurveRange `yaml:"modifier"`
}

const gravityAccel = 9.8

func (m *GravityModule) Animate(p *Particle, dt float32) {
	g := m.Modifier.Evaluate(p.NormalizedAge(), pseudoRandom(p.RandomSeed^gravityRandOffset))
	p.Velocity[1] -= g * gravityAccel * dt
}

// SizeOvertimeModule scales StartSize by a curve over lifetime.
type SizeOvertimeModule struct {
	ModuleToggle `yaml:",inline"`
	SeparateAxes bool       `yaml:"separate_axes"`
	Size         CurveRange `yaml:"size"`
	X            CurveRange `yaml:"x"`
	Y            CurveRange `yaml:"y"`
	Z            CurveRange `yaml:"z"`
}

func (m *SizeOvertimeModule) Animate(p *Particle, _ float32) {
	age := p.NormalizedAge()
	rnd := pseudoRandom(p.RandomSeed ^ sizeOvertimeRandOffset)
	if !m.SeparateAxes {
		p.Size = p.StartSize.Mul(m.Size.Evaluate(age, rnd))
		return
	}
	p.Size = mgl32.Vec3{
		p.StartSize[0] * m.X.Evaluate(age, rnd),
		p.StartSize[1] * m.Y.Evaluate(age, rnd),
		p.StartSize[2] * m.Z.Evaluate(age, rnd),
	}
}

// ColorOverLifetimeModule tints StartColor by a gradient over lifetime.
type ColorOverLifetimeModule struct {
	ModuleToggle `yaml:",inline"`
	Color        GradientRange `yaml:"color"`
}

func (m *ColorOverLifetimeModule) Animate(p *Particle, _ float32) {
	tint := m.Color.Evaluate(p.NormalizedAge(), pseudoRandom(p.RandomSeed^colorOvertimeRandOffset))
	p.Color = p.StartColor.Mul(tint)
}

// RotationOvertimeModule integrates angular velocity in radians per second.
// Without separate axes only the billboard angle (Rotation.x) turns, driven by Z.
type RotationOvertimeModule struct {
	ModuleToggle `yaml:",inline"`
	SeparateAxes bool       `yaml:"separate_axes"`
	X            CurveRange `yaml:"x"`
	Y            CurveRange `yaml:"y"`
	Z            CurveRange `yaml:"z"`
}

func (m *RotationOvertimeModule) Animate(p *Particle, dt float32) {
	age := p.NormalizedAge()
	rnd := pseudoRandom(p.RandomSeed ^ rotationOvertimeOffset)
	if !m.SeparateAxes {
		p.Rotation[0] += m.Z.Evaluate(age, rnd) * dt
		return
	}
	p.Rotation = p.Rotation.Add(mgl32.Vec3{
		m.X.Evaluate(age, rnd) * dt,
		m.Y.Evaluate(age, rnd) * dt,
		m.Z.Evaluate(age, rnd) * dt,
	})
}
