package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gekkofx/rt/core"
)

// ParticleBuffers mirrors a core.BatchModel into GPU vertex and index buffers.
type ParticleBuffers struct {
	Device *wgpu.Device

	VertexBuf *wgpu.Buffer
	IndexBuf  *wgpu.Buffer

	IndexCount uint32
	// LastUploadBytes counts the bytes written by the most recent Upload.
	LastUploadBytes int

	vertexSize uint64
	indexSize  uint64
	capacity   int
	indexBytes []byte
}

func NewParticleBuffers(device *wgpu.Device) *ParticleBuffers {
	return &ParticleBuffers{Device: device}
}

// uploadPlan is what Upload has to do for a model. Zero sizes keep the
// current buffer.
type uploadPlan struct {
	vertexSize   uint64
	indexSize    uint64
	writeIndices bool
}

// alignedSize rounds n up to the 4 byte copy alignment; buffers are never empty.
func alignedSize(n uint64) uint64 {
	if n%4 != 0 {
		n += 4 - n%4
	}
	if n == 0 {
		n = 4
	}
	return n
}

func (b *ParticleBuffers) plan(model *core.BatchModel) uploadPlan {
	var p uploadPlan
	// a wider stride after enabling stretched billboards needs more room too
	if need := alignedSize(uint64(model.Capacity() * core.VerticesPerParticle * model.Stride())); need > b.vertexSize {
		p.vertexSize = need
	}
	if need := alignedSize(uint64(model.Capacity() * core.IndicesPerParticle * 4)); need > b.indexSize {
		p.indexSize = need
	}
	p.writeIndices = p.indexSize > 0 || b.capacity != model.Capacity()
	return p
}

func (b *ParticleBuffers) createBuffer(name string, old *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	if old != nil {
		old.Release()
	}
	buf, err := b.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name,
		Size:  size,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return buf, nil
}

// Upload writes the vertices in use and, when the model capacity changed, the
// full quad index buffer.
func (b *ParticleBuffers) Upload(model *core.BatchModel) error {
	p := b.plan(model)
	b.LastUploadBytes = 0

	if p.vertexSize > 0 {
		buf, err := b.createBuffer("ParticleVertexBuf", b.VertexBuf, p.vertexSize, wgpu.BufferUsageVertex)
		b.VertexBuf, b.vertexSize = buf, 0
		if err != nil {
			return err
		}
		b.vertexSize = p.vertexSize
	}
	if p.indexSize > 0 {
		buf, err := b.createBuffer("ParticleIndexBuf", b.IndexBuf, p.indexSize, wgpu.BufferUsageIndex)
		b.IndexBuf, b.indexSize = buf, 0
		if err != nil {
			return err
		}
		b.indexSize = p.indexSize
	}

	if p.writeIndices {
		b.capacity = model.Capacity()
		b.indexBytes = quadIndexBytes(model.Capacity(), b.indexBytes)
		if len(b.indexBytes) > 0 {
			if err := b.Device.GetQueue().WriteBuffer(b.IndexBuf, 0, b.indexBytes); err != nil {
				return fmt.Errorf("writing particle indices: %w", err)
			}
			b.LastUploadBytes += len(b.indexBytes)
		}
	}

	if data := model.VertexData(); len(data) > 0 {
		if err := b.Device.GetQueue().WriteBuffer(b.VertexBuf, 0, data); err != nil {
			return fmt.Errorf("writing particle vertices: %w", err)
		}
		b.LastUploadBytes += len(data)
	}
	b.IndexCount = uint32(model.IndexCount())
	return nil
}

// quadIndexBytes encodes the static two-triangle index pattern for capacity quads.
func quadIndexBytes(capacity int, dst []byte) []byte {
	n := capacity * core.IndicesPerParticle * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	off := 0
	for i := 0; i < capacity; i++ {
		v := uint32(i * core.VerticesPerParticle)
		for _, idx := range [core.IndicesPerParticle]uint32{v, v + 1, v + 2, v + 3, v + 2, v + 1} {
			binary.LittleEndian.PutUint32(dst[off:], idx)
			off += 4
		}
	}
	return dst
}

func (b *ParticleBuffers) Release() {
	if b.VertexBuf != nil {
		b.VertexBuf.Release()
		b.VertexBuf = nil
	}
	if b.IndexBuf != nil {
		b.IndexBuf.Release()
		b.IndexBuf = nil
	}
	b.vertexSize, b.indexSize, b.capacity = 0, 0, 0
}
