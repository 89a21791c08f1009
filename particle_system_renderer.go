package gekkofx

import (
	"github.com/gekko3d/gekkofx/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefineWorldSpace          = "CC_USE_WORLD_SPACE"
	DefineBillboard           = "CC_USE_BILLBOARD"
	DefineStretchedBillboard  = "CC_USE_STRETCHED_BILLBOARD"
	DefineHorizontalBillboard = "CC_USE_HORIZONTAL_BILLBOARD"
	DefineVerticalBillboard   = "CC_USE_VERTICAL_BILLBOARD"

	UniformFrameTileVelLenScale = "frameTile_velLenScale"

	DefaultParticleMaterial = "default-particle-material"
)

// quadUVs are the corners of the four vertices emitted per particle.
var quadUVs = [core.VerticesPerParticle][2]float32{
	{0, 0}, // bottom-left
	{1, 0}, // bottom-right
	{0, 1}, // top-left
	{1, 1}, // top-right
}

// materialKey is the state the material defines and uniform are derived from.
type materialKey struct {
	mode          RenderMode
	velocityScale float32
	lengthScale   float32
	space         Space
	texAnim       bool
	tilesX        int
	tilesY        int
	material      *core.Material
}

// ParticleSystemRenderer owns the particle pool of one particle system, steps
// it and packs it into a RenderModel. It is single-threaded: Step and Pack are
// called once per frame from the same goroutine.
type ParticleSystemRenderer struct {
	system *ParticleSystem
	node   TransformSource
	model  RenderModel
	log    Logger

	modelCapacity int

	particles *ParticlePool

	renderMode    RenderMode
	velocityScale float32
	lengthScale   float32

	defines              core.Defines
	frameTileVelLenScale mgl32.Vec4
	sharedMaterial       *core.Material
	defaultMaterial      *core.Material

	applied      materialKey
	appliedValid bool
}

type RendererOption func(*ParticleSystemRenderer)

func WithLogger(l Logger) RendererOption {
	return func(r *ParticleSystemRenderer) {
		if l != nil {
			r.log = l
		}
	}
}

func WithRenderMode(mode RenderMode) RendererOption {
	return func(r *ParticleSystemRenderer) { r.renderMode = mode }
}

func WithSharedMaterial(mat *core.Material) RendererOption {
	return func(r *ParticleSystemRenderer) { r.sharedMaterial = mat }
}

func NewParticleSystemRenderer(opts ...RendererOption) *ParticleSystemRenderer {
	r := &ParticleSystemRenderer{
		log:                  NewNopLogger(),
		renderMode:           RenderModeBillboard,
		velocityScale:        1,
		lengthScale:          1,
		frameTileVelLenScale: mgl32.Vec4{1, 1, 0, 0},
		defines: core.Defines{
			DefineWorldSpace:          true,
			DefineBillboard:           true,
			DefineStretchedBillboard:  false,
			DefineHorizontalBillboard: false,
			DefineVerticalBillboard:   false,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bind attaches the particle system settings and the emitter transform. The
// pool is created here, sized to the system capacity.
func (r *ParticleSystemRenderer) Bind(system *ParticleSystem, node TransformSource) {
	r.system = system
	r.node = node
	r.appliedValid = false
	if system == nil {
		return
	}
	if r.particles == nil {
		r.particles = NewParticlePool(system.Capacity)
	}
}

// Enable prepares model for drawing and applies the material state. Without a
// bound system it does nothing.
func (r *ParticleSystemRenderer) Enable(model RenderModel) {
	if r.system == nil || model == nil {
		return
	}
	capacity := r.system.Capacity
	if r.particles == nil {
		r.particles = NewParticlePool(capacity)
	} else if r.particles.Capacity() != capacity {
		r.particles.Resize(capacity)
	}
	if !model.Inited() {
		model.SetCapacity(capacity)
		model.SetVertexAttributes(core.ParticleAttributes)
	} else if model != r.model || r.modelCapacity != capacity {
		model.SetCapacity(capacity)
	}
	r.model = model
	r.modelCapacity = capacity
	model.SetEnabled(true)
	r.updateMaterialParams()
	r.updateModel()
	r.log.Debugf("particle renderer enabled: capacity=%d mode=%v", r.system.Capacity, r.renderMode)
}

func (r *ParticleSystemRenderer) Disable() {
	if r.model != nil {
		r.model.SetEnabled(false)
	}
}

// Destroy detaches the model and frees the pool.
func (r *ParticleSystemRenderer) Destroy() {
	r.Disable()
	r.model = nil
	r.particles = nil
	r.appliedValid = false
}

func (r *ParticleSystemRenderer) Clear() {
	if r.particles != nil {
		r.particles.Reset()
	}
}

// AcquireParticle returns a fresh particle, or nil when the system is at
// capacity or not bound. Callers skip the spawn on nil.
func (r *ParticleSystemRenderer) AcquireParticle() *Particle {
	if r.system == nil || r.particles == nil {
		return nil
	}
	if r.particles.Len() >= r.system.Capacity {
		return nil
	}
	return r.particles.Acquire()
}

func (r *ParticleSystemRenderer) ParticleCount() int {
	if r.particles == nil {
		return 0
	}
	return r.particles.Len()
}

// Particle returns the live particle at index i in pool order.
func (r *ParticleSystemRenderer) Particle(i int) *Particle {
	return r.particles.At(i)
}

func (r *ParticleSystemRenderer) System() *ParticleSystem { return r.system }

// SetNode swaps the transform source without touching material state.
func (r *ParticleSystemRenderer) SetNode(node TransformSource) { r.node = node }

func (r *ParticleSystemRenderer) worldMatrix() mgl32.Mat4 {
	if r.node == nil {
		return mgl32.Ident4()
	}
	return r.node.WorldMatrix()
}

// Step advances every particle by dt. Expired particles are swap-removed and
// the slot is examined again, since it now holds a particle not yet stepped.
func (r *ParticleSystemRenderer) Step(dt float32) {
	if r.system == nil || r.particles == nil {
		return
	}
	modules := &r.system.Modules
	modules.Update(r.system.SimulationSpace, r.worldMatrix())

	for i := 0; i < r.particles.Len(); i++ {
		p := r.particles.At(i)
		p.RemainingLifetime -= dt
		p.AnimatedVelocity = mgl32.Vec3{}

		if p.RemainingLifetime < 0 {
			r.particles.ReleaseAt(i)
			i--
			continue
		}

		modules.Animate(p, dt)
		p.Position = p.Position.Add(p.UltimateVelocity.Mul(dt))
	}
}

// Pack writes four vertices per live particle in pool order and sizes the
// index buffer. Pool order changes whenever particles die, so draw order is
// not stable between frames.
func (r *ParticleSystemRenderer) Pack() {
	if r.system == nil || r.model == nil || r.particles == nil {
		return
	}
	if !r.appliedValid || r.applied != r.materialKey() {
		r.updateMaterialParams()
		r.updateModel()
	}

	uploadVel := r.renderMode == RenderModeStretchedBillboard
	texAnim := r.system.Modules.TextureAnimation.Enabled()
	n := r.particles.Len()

	var v core.ParticleVertex
	for i := 0; i < n; i++ {
		p := r.particles.At(i)
		var fi float32
		if texAnim {
			fi = float32(p.FrameIndex)
		}
		v.Position = p.Position
		v.TexCoord1 = [2]float32{p.Size[0], p.Rotation[0]}
		v.Color = uint32(p.Color)
		if uploadVel {
			v.Velocity = p.UltimateVelocity
		} else {
			v.Velocity = [3]float32{}
		}
		for j, uv := range quadUVs {
			v.TexCoord = [3]float32{uv[0], uv[1], fi}
			r.model.AddParticleVertexData(i*core.VerticesPerParticle+j, &v)
		}
	}
	r.model.UpdateIA(n * core.IndicesPerParticle)
}

func (r *ParticleSystemRenderer) RenderMode() RenderMode { return r.renderMode }

// SetRenderMode switches the render mode and recompiles the material variant
// and model layout right away.
func (r *ParticleSystemRenderer) SetRenderMode(mode RenderMode) {
	if r.renderMode == mode {
		return
	}
	r.renderMode = mode
	r.updateMaterialParams()
	r.updateModel()
}

func (r *ParticleSystemRenderer) VelocityScale() float32 { return r.velocityScale }

func (r *ParticleSystemRenderer) SetVelocityScale(v float32) {
	r.velocityScale = v
	r.updateMaterialParams()
}

func (r *ParticleSystemRenderer) LengthScale() float32 { return r.lengthScale }

func (r *ParticleSystemRenderer) SetLengthScale(v float32) {
	r.lengthScale = v
	r.updateMaterialParams()
}

// SetSharedMaterial replaces the material used instead of the default one.
func (r *ParticleSystemRenderer) SetSharedMaterial(mat *core.Material) {
	r.sharedMaterial = mat
	r.updateMaterialParams()
	r.updateModel()
}

// Defines returns a copy of the current shader defines.
func (r *ParticleSystemRenderer) Defines() core.Defines { return r.defines.Clone() }

func (r *ParticleSystemRenderer) FrameTileVelLenScale() mgl32.Vec4 { return r.frameTileVelLenScale }

// Material returns the material in use: the shared one if set, otherwise the
// default particle material.
func (r *ParticleSystemRenderer) Material() *core.Material {
	if r.sharedMaterial != nil {
		return r.sharedMaterial
	}
	if r.defaultMaterial == nil {
		r.defaultMaterial = core.NewMaterial(DefaultParticleMaterial, 1)
	}
	return r.defaultMaterial
}

func (r *ParticleSystemRenderer) materialKey() materialKey {
	ta := &r.system.Modules.TextureAnimation
	return materialKey{
		mode:          r.renderMode,
		velocityScale: r.velocityScale,
		lengthScale:   r.lengthScale,
		space:         r.system.SimulationSpace,
		texAnim:       ta.Enabled(),
		tilesX:        ta.NumTilesX,
		tilesY:        ta.NumTilesY,
		material:      r.Material(),
	}
}

func (r *ParticleSystemRenderer) setBillboardDefines(billboard, stretched, horizontal, vertical bool) {
	r.defines[DefineBillboard] = billboard
	r.defines[DefineStretchedBillboard] = stretched
	r.defines[DefineHorizontalBillboard] = horizontal
	r.defines[DefineVerticalBillboard] = vertical
}

func (r *ParticleSystemRenderer) updateMaterialParams() {
	if r.system == nil {
		return
	}
	mat := r.Material()
	r.defines[DefineWorldSpace] = r.system.SimulationSpace == SpaceWorld

	switch r.renderMode {
	case RenderModeBillboard:
		r.setBillboardDefines(true, false, false, false)
	case RenderModeStretchedBillboard:
		r.setBillboardDefines(false, true, false, false)
		r.frameTileVelLenScale[2] = r.velocityScale
		r.frameTileVelLenScale[3] = r.lengthScale
	case RenderModeHorizontalBillboard:
		r.setBillboardDefines(false, false, true, false)
	case RenderModeVerticalBillboard:
		r.setBillboardDefines(false, false, false, true)
	case RenderModeMesh:
		r.setBillboardDefines(false, false, false, false)
	default:
		r.log.Warnf("particle system render mode %v not supported", r.renderMode)
	}

	for i, pass := range mat.Passes {
		if err := pass.TryCompile(r.defines); err != nil {
			r.log.Errorf("material %s pass %d: compile failed: %v", mat.Name, i, err)
		}
	}

	ta := &r.system.Modules.TextureAnimation
	if ta.Enabled() {
		r.frameTileVelLenScale[0] = float32(ta.NumTilesX)
		r.frameTileVelLenScale[1] = float32(ta.NumTilesY)
	}
	mat.SetProperty(UniformFrameTileVelLenScale, r.frameTileVelLenScale)

	r.applied = r.materialKey()
	r.appliedValid = true
}

func (r *ParticleSystemRenderer) updateModel() {
	if r.system == nil || r.model == nil {
		return
	}
	if r.renderMode == RenderModeStretchedBillboard {
		r.model.EnableStretchedBillboard()
	} else {
		r.model.DisableStretchedBillboard()
	}
	r.model.SetSubModelMaterial(0, r.Material())
}
