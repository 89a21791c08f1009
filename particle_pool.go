package gekkofx

// ParticlePool is a swap-remove pool of particle records. Backing storage grows
// on demand up to the capacity and is kept across Reset, so a system that is
// disabled and re-enabled does not reallocate.
//
// Pointers returned by Acquire and At are only valid until the next
// ReleaseAt or Resize; callers iterate by index.
type ParticlePool struct {
	data     []Particle
	length   int
	capacity int
}

func NewParticlePool(capacity int) *ParticlePool {
	if capacity < 0 {
		capacity = 0
	}
	initial := capacity
	if initial > 16 {
		initial = 16
	}
	return &ParticlePool{
		data:     make([]Particle, 0, initial),
		capacity: capacity,
	}
}

// Acquire returns a reset record, or nil when the pool is at capacity.
func (p *ParticlePool) Acquire() *Particle {
	if p.length >= p.capacity {
		return nil
	}
	if p.length == len(p.data) {
		p.data = append(p.data, Particle{})
	}
	pt := &p.data[p.length]
	p.length++
	pt.reset()
	return pt
}

// ReleaseAt removes the particle at i by moving the last live particle into its slot.
func (p *ParticlePool) ReleaseAt(i int) {
	if i < 0 || i >= p.length {
		return
	}
	last := p.length - 1
	if i != last {
		p.data[i] = p.data[last]
	}
	p.length--
}

func (p *ParticlePool) Reset() {
	p.length = 0
}

// Resize changes the capacity. Live particles past the new capacity are dropped.
func (p *ParticlePool) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	p.capacity = capacity
	if p.length > capacity {
		p.length = capacity
	}
	if len(p.data) > capacity {
		p.data = p.data[:capacity]
	}
}

func (p *ParticlePool) Len() int      { return p.length }
func (p *ParticlePool) Capacity() int { return p.capacity }

func (p *ParticlePool) At(i int) *Particle {
	return &p.data[i]
}
