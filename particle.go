package gekkofx

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Particle is the per-particle state read and written by the overtime modules
// and by the render-data packer. A Particle lives in a ParticlePool slot and
// must not be retained after the slot is released.
type Particle struct {
	Position         mgl32.Vec3
	Velocity         mgl32.Vec3
	AnimatedVelocity mgl32.Vec3
	// UltimateVelocity is what gets integrated into Position each step.
	UltimateVelocity mgl32.Vec3

	StartSize mgl32.Vec3
	Size      mgl32.Vec3
	Rotation  mgl32.Vec3

	StartColor Color
	Color      Color

	StartLifetime     float32
	RemainingLifetime float32

	RandomSeed uint32
	FrameIndex int
}

func (p *Particle) reset() {
	*p = Particle{
		StartSize:  mgl32.Vec3{1, 1, 1},
		Size:       mgl32.Vec3{1, 1, 1},
		StartColor: ColorWhite,
		Color:      ColorWhite,
	}
}

// Alive reports whether the particle still has lifetime left.
func (p *Particle) Alive() bool {
	return p.RemainingLifetime >= 0
}

// NormalizedAge is the elapsed fraction of the particle's lifetime in [0,1].
func (p *Particle) NormalizedAge() float32 {
	if p.StartLifetime <= 0 {
		return 0
	}
	return 1 - p.RemainingLifetime/p.StartLifetime
}

// pseudoRandom maps a seed to a stable value in [0,1).
func pseudoRandom(seed uint32) float32 {
	// xorshift-multiply finalizer
	x := seed
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return float32(x>>8) / float32(1<<24)
}

// Salts keep modules that read the same particle seed from drawing the same ratio.
const (
	gravityRandOffset       uint32 = 0x5c3e2b91
	sizeOvertimeRandOffset  uint32 = 0x0a1d5f3e
	colorOvertimeRandOffset uint32 = 0x91f3c2d7
	forceOvertimeRandOffset uint32 = 0x212c8e4b
	velocityOvertimeOffset  uint32 = 0x6b7d1a09
	limitVelocityRandOffset uint32 = 0xe4a90f17
	rotationOvertimeOffset  uint32 = 0x3f28d6c5
	textureAnimRandOffset   uint32 = 0xb5062e73
)
