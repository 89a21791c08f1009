// Package host runs particle effects as entities of an ark ECS world. Each
// frame runs staged systems that emit, simulate, retire and pack effects.
package host

import (
	"fmt"
	"time"

	"github.com/gekko3d/gekkofx"
	"github.com/gekko3d/gekkofx/rt/core"
	"github.com/mlange-42/ark/ecs"
)

// Effect is the particle state attached to an entity.
type Effect struct {
	Renderer *gekkofx.ParticleSystemRenderer
	Emitter  *gekkofx.Emitter
	Model    *core.BatchModel

	// DespawnWhenDone removes the entity once its emitter has stopped and the
	// last particle has expired.
	DespawnWhenDone bool
}

type World struct {
	world   *ecs.World
	effects *ecs.Map2[Transform, Effect]
	filter  *ecs.Filter2[Transform, Effect]
	log     gekkofx.Logger
	done    []ecs.Entity
	systems map[Stage][]system
	spawned int

	Time Time
}

func NewWorld(log gekkofx.Logger) *World {
	if log == nil {
		log = gekkofx.NewNopLogger()
	}
	world := ecs.NewWorld()
	w := &World{
		world:   world,
		effects: ecs.NewMap2[Transform, Effect](world),
		filter:  ecs.NewFilter2[Transform, Effect](world),
		log:     log,
	}
	w.installDefaultSystems()
	return w
}

// Spawn creates an effect entity from cfg at tr and enables it. Effects whose
// emitter does not loop are despawned after their last particle dies.
func (w *World) Spawn(tr Transform, cfg *gekkofx.Config) ecs.Entity {
	r := gekkofx.NewParticleSystemRenderer(gekkofx.WithLogger(w.log.Named(fmt.Sprintf("fx%d", w.spawned))))
	w.spawned++
	fx := Effect{
		Renderer:        r,
		Emitter:         cfg.NewEmitter(),
		Model:           core.NewBatchModel(),
		DespawnWhenDone: !cfg.Emitter.Loop && cfg.Emitter.Duration > 0,
	}
	e := w.effects.NewEntity(&tr, &fx)

	trp, _ := w.effects.Get(e)
	r.Bind(cfg.NewParticleSystem(), trp)
	cfg.ApplyRender(r)
	r.Enable(fx.Model)
	w.log.Debugf("spawned effect %v model=%s capacity=%d", e, fx.Model.Id, cfg.Capacity)
	return e
}

// Despawn destroys the effect and removes its entity.
func (w *World) Despawn(e ecs.Entity) {
	if !w.world.Alive(e) {
		return
	}
	if _, fx := w.effects.Get(e); fx != nil && fx.Renderer != nil {
		fx.Renderer.Destroy()
	}
	w.world.RemoveEntity(e)
}

func (w *World) Alive(e ecs.Entity) bool {
	return w.world.Alive(e)
}

// Get returns the components of an effect entity.
func (w *World) Get(e ecs.Entity) (*Transform, *Effect) {
	return w.effects.Get(e)
}

// Tick advances the world clock to now and runs one frame with the elapsed time.
func (w *World) Tick(now time.Time) {
	w.Time.tick(now)
	w.runSystems(float32(w.Time.Dt.Seconds()))
}

// Step runs one frame with a fixed dt.
func (w *World) Step(dt time.Duration) {
	w.Time.step(dt)
	w.runSystems(float32(dt.Seconds()))
}

// Each visits every effect entity.
func (w *World) Each(fn func(e ecs.Entity, tr *Transform, fx *Effect)) {
	query := w.filter.Query()
	for query.Next() {
		tr, fx := query.Get()
		fn(query.Entity(), tr, fx)
	}
}

// ParticleCount sums live particles across all effects.
func (w *World) ParticleCount() int {
	n := 0
	w.Each(func(_ ecs.Entity, _ *Transform, fx *Effect) {
		n += fx.Renderer.ParticleCount()
	})
	return n
}
