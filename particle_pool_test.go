package gekkofx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticlePool_AcquireUpToCapacity(t *testing.T) {
	pool := NewParticlePool(3)

	for i := 0; i < 3; i++ {
		require.NotNil(t, pool.Acquire(), "acquire %d", i)
	}
	assert.Nil(t, pool.Acquire(), "acquire beyond capacity must fail")
	assert.Equal(t, 3, pool.Len())
}

func TestParticlePool_AcquireResetsRecycledRecord(t *testing.T) {
	pool := NewParticlePool(1)
	p := pool.Acquire()
	p.Position = mgl32.Vec3{1, 2, 3}
	p.FrameIndex = 7
	p.RemainingLifetime = 4

	pool.ReleaseAt(0)
	p = pool.Acquire()
	require.NotNil(t, p)
	assert.Equal(t, mgl32.Vec3{}, p.Position)
	assert.Equal(t, 0, p.FrameIndex)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, p.Size)
	assert.Equal(t, ColorWhite, p.Color)
}

func TestParticlePool_ReleaseAtSwapsLast(t *testing.T) {
	pool := NewParticlePool(4)
	for i := 0; i < 4; i++ {
		pool.Acquire().RandomSeed = uint32(i)
	}

	pool.ReleaseAt(1)
	require.Equal(t, 3, pool.Len())
	assert.Equal(t, uint32(0), pool.At(0).RandomSeed)
	assert.Equal(t, uint32(3), pool.At(1).RandomSeed)
	assert.Equal(t, uint32(2), pool.At(2).RandomSeed)

	// last element and out-of-range indices
	pool.ReleaseAt(2)
	pool.ReleaseAt(5)
	pool.ReleaseAt(-1)
	assert.Equal(t, 2, pool.Len())
}

func TestParticlePool_ResetKeepsStorage(t *testing.T) {
	pool := NewParticlePool(2)
	first := pool.Acquire()
	pool.Acquire()

	pool.Reset()
	assert.Equal(t, 0, pool.Len())
	assert.Same(t, first, pool.Acquire(), "storage should be reused after reset")
}

func TestParticlePool_Resize(t *testing.T) {
	pool := NewParticlePool(4)
	for i := 0; i < 4; i++ {
		pool.Acquire()
	}

	pool.Resize(2)
	assert.Equal(t, 2, pool.Len())
	assert.Equal(t, 2, pool.Capacity())
	assert.Nil(t, pool.Acquire())

	pool.Resize(40)
	for i := 0; i < 38; i++ {
		require.NotNil(t, pool.Acquire())
	}
	assert.Nil(t, pool.Acquire())
	assert.Equal(t, 40, pool.Len())
}
