package host

// Stage groups systems that run together within a frame.
type Stage struct {
	Name string
}

var (
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	PreRender  = Stage{Name: "PreRender"}
)

var stageOrder = []Stage{PreUpdate, Update, PostUpdate, PreRender}

// SystemFn runs once per frame with the frame's dt in seconds.
type SystemFn func(w *World, dt float32)

type system struct {
	name string
	fn   SystemFn
}

// UseSystem appends fn to stage. Systems in one stage run in the order they
// were added.
func (w *World) UseSystem(stage Stage, name string, fn SystemFn) {
	if w.systems == nil {
		w.systems = make(map[Stage][]system)
	}
	known := false
	for _, s := range stageOrder {
		if s == stage {
			known = true
			break
		}
	}
	if !known {
		w.log.Warnf("system %s added to unknown stage %q; it will never run", name, stage.Name)
	}
	w.systems[stage] = append(w.systems[stage], system{name: name, fn: fn})
}

func (w *World) runSystems(dt float32) {
	for _, stage := range stageOrder {
		for _, s := range w.systems[stage] {
			s.fn(w, dt)
		}
	}
}

func (w *World) installDefaultSystems() {
	w.UseSystem(PreUpdate, "emit", emitSystem)
	w.UseSystem(Update, "simulate", simulateSystem)
	w.UseSystem(PostUpdate, "lifetime", lifetimeSystem)
	w.UseSystem(PreRender, "pack", packSystem)
}

// emitSystem rebinds each renderer to its transform and spawns new particles.
func emitSystem(w *World, dt float32) {
	query := w.filter.Query()
	for query.Next() {
		tr, fx := query.Get()
		if fx.Renderer == nil {
			continue
		}
		// component storage may move between frames; rebind the live pointer
		fx.Renderer.SetNode(tr)
		if fx.Emitter != nil {
			fx.Emitter.Emit(fx.Renderer, dt)
		}
	}
}

func simulateSystem(w *World, dt float32) {
	query := w.filter.Query()
	for query.Next() {
		_, fx := query.Get()
		if fx.Renderer != nil {
			fx.Renderer.Step(dt)
		}
	}
}

// lifetimeSystem despawns effects whose emitter has stopped and whose last
// particle has expired.
func lifetimeSystem(w *World, _ float32) {
	query := w.filter.Query()
	for query.Next() {
		_, fx := query.Get()
		if finished(fx) {
			w.done = append(w.done, query.Entity())
		}
	}
	// entities can only be removed once the query is closed
	for _, e := range w.done {
		w.log.Debugf("effect %v finished", e)
		w.Despawn(e)
	}
	w.done = w.done[:0]
}

func finished(fx *Effect) bool {
	return fx.DespawnWhenDone && fx.Renderer != nil && fx.Emitter != nil &&
		fx.Emitter.Stopped() && fx.Renderer.ParticleCount() == 0
}

func packSystem(w *World, _ float32) {
	query := w.filter.Query()
	for query.Next() {
		_, fx := query.Get()
		if fx.Renderer != nil {
			fx.Renderer.Pack()
		}
	}
}
