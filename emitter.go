package gekkofx

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

type Burst struct {
	Time  float32 `yaml:"time"`
	Count int     `yaml:"count"`
}

// EmitterConfig describes how new particles are spawned.
type EmitterConfig struct {
	Rate     float32 `yaml:"rate"` // particles per second
	Duration float32 `yaml:"duration"`
	Loop     bool    `yaml:"loop"`
	Bursts   []Burst `yaml:"bursts"`

	StartLifetime    CurveRange    `yaml:"start_lifetime"`
	StartSpeed       CurveRange    `yaml:"start_speed"`
	StartSize        CurveRange    `yaml:"start_size"`
	StartRotation    CurveRange    `yaml:"start_rotation"`
	StartColor       GradientRange `yaml:"start_color"`
	ConeAngleDegrees float32       `yaml:"cone_angle_degrees"` // 0 = along the emitter up axis

	Seed int64 `yaml:"seed"`
}

func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		Rate:          10,
		Duration:      5,
		Loop:          true,
		StartLifetime: ConstantRange(5),
		StartSpeed:    ConstantRange(5),
		StartSize:     ConstantRange(1),
		StartRotation: ConstantRange(0),
		StartColor:    ConstantColor(mgl32.Vec4{1, 1, 1, 1}),
	}
}

// Emitter feeds new particles into a renderer each frame. All randomness comes
// from its own seeded source, so a run is reproducible from the config.
type Emitter struct {
	Config EmitterConfig

	rng      *rand.Rand
	spawnAcc float32 // fractional spawns carried between frames
	time     float32 // seconds into the current cycle
	stopped  bool
}

func NewEmitter(cfg EmitterConfig) *Emitter {
	return &Emitter{
		Config: cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Stopped reports whether a non-looping emitter has run past its duration.
func (e *Emitter) Stopped() bool { return e.stopped }

// Restart rewinds the emission cycle and reseeds the random source.
func (e *Emitter) Restart() {
	e.rng.Seed(e.Config.Seed)
	e.spawnAcc = 0
	e.time = 0
	e.stopped = false
}

// Emit spawns the particles due in the next dt seconds and returns how many
// were actually created. Spawns beyond the renderer's capacity are dropped.
func (e *Emitter) Emit(r *ParticleSystemRenderer, dt float32) int {
	if e.stopped || dt <= 0 || r.System() == nil {
		return 0
	}

	due := 0
	e.spawnAcc += e.Config.Rate * dt
	if whole := int(e.spawnAcc); whole > 0 {
		due += whole
		e.spawnAcc -= float32(whole)
	}

	due += e.advance(dt)

	world := r.worldMatrix()
	origin := mgl32.Vec3{}
	rot := mgl32.QuatIdent()
	if r.System().SimulationSpace == SpaceWorld {
		origin = world.Col(3).Vec3()
		rot = rotationOf(world)
	}

	cycle := float32(0)
	if d := e.Config.Duration; d > 0 {
		cycle = min(e.time/d, 1)
	}

	spawned := 0
	for i := 0; i < due; i++ {
		p := r.AcquireParticle()
		if p == nil {
			break
		}
		e.initParticle(p, origin, rot, cycle)
		spawned++
	}
	return spawned
}

// advance moves the cycle clock by dt and returns the burst particles due in
// the elapsed interval. A looping emitter keeps its clock in [0, Duration) and
// fires a burst once for every cycle the interval crosses.
func (e *Emitter) advance(dt float32) int {
	from := e.time
	to := from + dt
	d := e.Config.Duration
	due := 0

	switch {
	case d <= 0:
		for _, b := range e.Config.Bursts {
			if b.Time >= from && b.Time < to {
				due += b.Count
			}
		}
		e.time = to
	case e.Config.Loop:
		for _, b := range e.Config.Bursts {
			due += b.Count * burstCrossings(b.Time, from, to, d)
		}
		e.time = float32(math.Mod(float64(to), float64(d)))
		if e.time >= d {
			e.time = 0
		}
	default:
		end := min(to, d)
		for _, b := range e.Config.Bursts {
			if b.Time >= from && b.Time < end {
				due += b.Count
			}
		}
		e.time = to
		if to >= d {
			e.stopped = true
		}
	}
	return due
}

// burstCrossings counts the repeats at+k*period, k >= 0, inside [from, to).
func burstCrossings(at, from, to, period float32) int {
	if at < 0 || at >= period {
		return 0
	}
	a, p := float64(at), float64(period)
	n := int(math.Ceil((float64(to)-a)/p)) - int(math.Ceil((float64(from)-a)/p))
	return max(n, 0)
}

func (e *Emitter) initParticle(p *Particle, origin mgl32.Vec3, rot mgl32.Quat, cycle float32) {
	cfg := &e.Config
	p.RandomSeed = e.rng.Uint32()

	p.Position = origin
	dir := sampleDirection(e.rng, rot, cfg.ConeAngleDegrees)
	p.Velocity = dir.Mul(cfg.StartSpeed.Evaluate(cycle, e.rng.Float32()))
	p.UltimateVelocity = p.Velocity

	life := cfg.StartLifetime.Evaluate(cycle, e.rng.Float32())
	p.StartLifetime = life
	p.RemainingLifetime = life

	size := cfg.StartSize.Evaluate(cycle, e.rng.Float32())
	p.StartSize = mgl32.Vec3{size, size, size}
	p.Size = p.StartSize

	p.Rotation = mgl32.Vec3{cfg.StartRotation.Evaluate(cycle, e.rng.Float32()), 0, 0}

	p.StartColor = cfg.StartColor.Evaluate(cycle, e.rng.Float32())
	p.Color = p.StartColor
}

// sampleDirection picks a uniform direction inside a cone around the emitter
// up axis (0,1,0), then rotates it by the emitter rotation.
func sampleDirection(rng *rand.Rand, rot mgl32.Quat, coneDeg float32) mgl32.Vec3 {
	axis := mgl32.Vec3{0, 1, 0}
	if coneDeg <= 0 {
		return rot.Rotate(axis).Normalize()
	}
	thetaMax := float64(coneDeg) * math.Pi / 180
	u := rng.Float64()
	v := rng.Float64()
	cosTheta := math.Cos(thetaMax) + (1-math.Cos(thetaMax))*u
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * v

	local := mgl32.Vec3{
		float32(math.Cos(phi) * sinTheta),
		float32(cosTheta),
		float32(math.Sin(phi) * sinTheta),
	}
	return rot.Rotate(local).Normalize()
}
