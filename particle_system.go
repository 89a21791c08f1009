package gekkofx

import (
	"github.com/gekko3d/gekkofx/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// ParticleSystem is the emitter-side settings a renderer reads every frame.
type ParticleSystem struct {
	Capacity        int
	SimulationSpace Space
	Modules         ModulePipeline
}

func NewParticleSystem(capacity int, space Space) *ParticleSystem {
	return &ParticleSystem{
		Capacity:        capacity,
		SimulationSpace: space,
		Modules:         DefaultModulePipeline(),
	}
}

// TransformSource provides the emitter's world matrix.
type TransformSource interface {
	WorldMatrix() mgl32.Mat4
}

// RenderModel is the render-backend model particle vertices are written into.
// *core.BatchModel implements it.
type RenderModel interface {
	Inited() bool
	SetEnabled(enabled bool)
	SetCapacity(capacity int)
	SetVertexAttributes(attrs []core.VertexAttribute)
	AddParticleVertexData(index int, v *core.ParticleVertex)
	UpdateIA(indexCount int)
	EnableStretchedBillboard()
	DisableStretchedBillboard()
	SetSubModelMaterial(index int, mat *core.Material)
}
