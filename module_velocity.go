package gekkofx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// spaceTransform caches the rotation that maps a module's own space into the
// simulation space for the current frame.
type spaceTransform struct {
	rotation      mgl32.Quat
	needTransform bool
}

func (st *spaceTransform) update(moduleSpace, simSpace Space, world mgl32.Mat4) {
	st.needTransform = moduleSpace != simSpace
	if !st.needTransform {
		return
	}
	q := rotationOf(world)
	if moduleSpace == SpaceWorld {
		// world-space vectors into a local simulation
		q = q.Conjugate()
	}
	st.rotation = q
}

func (st *spaceTransform) apply(v mgl32.Vec3) mgl32.Vec3 {
	if !st.needTransform {
		return v
	}
	return st.rotation.Rotate(v)
}

// rotationOf extracts the rotation of an affine matrix, ignoring scale.
func rotationOf(m mgl32.Mat4) mgl32.Quat {
	c0 := m.Col(0).Vec3()
	c1 := m.Col(1).Vec3()
	c2 := m.Col(2).Vec3()
	if c0.Len() == 0 || c1.Len() == 0 || c2.Len() == 0 {
		return mgl32.QuatIdent()
	}
	r := mgl32.Mat4FromCols(
		c0.Normalize().Vec4(0),
		c1.Normalize().Vec4(0),
		c2.Normalize().Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)
	return mgl32.Mat4ToQuat(r).Normalize()
}

// ForceOvertimeModule accelerates particles by a force expressed in Space.
type ForceOvertimeModule struct {
	ModuleToggle `yaml:",inline"`
	X            CurveRange `yaml:"x"`
	Y            CurveRange `yaml:"y"`
	Z            CurveRange `yaml:"z"`
	Space        Space      `yaml:"space"`

	xf spaceTransform
}

func (m *ForceOvertimeModule) Update(space Space, world mgl32.Mat4) {
	m.xf.update(m.Space, space, world)
}

func (m *ForceOvertimeModule) Animate(p *Particle, dt float32) {
	age := p.NormalizedAge()
	rnd := pseudoRandom(p.RandomSeed ^ forceOvertimeRandOffset)
	force := m.xf.apply(mgl32.Vec3{
		m.X.Evaluate(age, rnd),
		m.Y.Evaluate(age, rnd),
		m.Z.Evaluate(age, rnd),
	})
	p.Velocity = p.Velocity.Add(force.Mul(dt))
	p.UltimateVelocity = p.Velocity
}

// VelocityOvertimeModule adds an animated velocity on top of the particle's own
// and scales the sum by SpeedModifier.
type VelocityOvertimeModule struct {
	ModuleToggle  `yaml:",inline"`
	X             CurveRange `yaml:"x"`
	Y             CurveRange `yaml:"y"`
	Z             CurveRange `yaml:"z"`
	SpeedModifier CurveRange `yaml:"speed_modifier"`
	Space         Space      `yaml:"space"`

	xf spaceTransform
}

func (m *VelocityOvertimeModule) Update(space Space, world mgl32.Mat4) {
	m.xf.update(m.Space, space, world)
}

func (m *VelocityOvertimeModule) Animate(p *Particle, _ float32) {
	age := p.NormalizedAge()
	rnd := pseudoRandom(p.RandomSeed ^ velocityOvertimeOffset)
	vel := m.xf.apply(mgl32.Vec3{
		m.X.Evaluate(age, rnd),
		m.Y.Evaluate(age, rnd),
		m.Z.Evaluate(age, rnd),
	})
	p.AnimatedVelocity = p.AnimatedVelocity.Add(vel)
	p.UltimateVelocity = p.Velocity.Add(p.AnimatedVelocity).Mul(m.SpeedModifier.Evaluate(age, rnd))
}

// AnimateDisabled integrates the particle's own velocity unchanged.
func (m *VelocityOvertimeModule) AnimateDisabled(p *Particle) {
	p.UltimateVelocity = p.Velocity
}

// LimitVelocityOvertimeModule damps UltimateVelocity beyond a speed limit.
// Dampen 1 clamps to the limit, 0 leaves the velocity untouched.
type LimitVelocityOvertimeModule struct {
	ModuleToggle `yaml:",inline"`
	SeparateAxes bool       `yaml:"separate_axes"`
	Limit        CurveRange `yaml:"limit"`
	LimitX       CurveRange `yaml:"limit_x"`
	LimitY       CurveRange `yaml:"limit_y"`
	LimitZ       CurveRange `yaml:"limit_z"`
	Dampen       float32    `yaml:"dampen"`
}

func (m *LimitVelocityOvertimeModule) Animate(p *Particle, _ float32) {
	age := p.NormalizedAge()
	rnd := pseudoRandom(p.RandomSeed ^ limitVelocityRandOffset)
	v := p.UltimateVelocity
	if m.SeparateAxes {
		p.UltimateVelocity = mgl32.Vec3{
			dampenBeyondLimit(v[0], m.LimitX.Evaluate(age, rnd), m.Dampen),
			dampenBeyondLimit(v[1], m.LimitY.Evaluate(age, rnd), m.Dampen),
			dampenBeyondLimit(v[2], m.LimitZ.Evaluate(age, rnd), m.Dampen),
		}
		return
	}
	limit := float32(math.Max(0, float64(m.Limit.Evaluate(age, rnd))))
	speed := v.Len()
	if speed > limit {
		p.UltimateVelocity = v.Mul(lerp(speed, limit, m.Dampen) / speed)
	}
}

func dampenBeyondLimit(v, limit, dampen float32) float32 {
	if limit < 0 {
		limit = 0
	}
	if v > limit {
		return lerp(v, limit, dampen)
	}
	if v < -limit {
		return lerp(v, -limit, dampen)
	}
	return v
}
