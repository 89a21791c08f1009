package core

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

const (
	VerticesPerParticle = 4
	IndicesPerParticle  = 6
)

// BatchModel is the CPU side of a particle draw: an interleaved vertex buffer
// sized for capacity quads, a static quad index buffer and the sub-model
// materials. The GPU layer uploads its bytes as-is.
type BatchModel struct {
	Id string

	enabled   bool
	capacity  int
	baseAttrs []VertexAttribute
	attrs     []VertexAttribute
	stride    int
	stretched bool

	vdata      []byte
	indices    []uint32
	indexCount int

	materials []*Material
}

func NewBatchModel() *BatchModel {
	return &BatchModel{
		Id:      uuid.NewString(),
		enabled: true,
	}
}

// Inited reports whether capacity and vertex layout have both been set.
func (m *BatchModel) Inited() bool {
	return m.capacity > 0 && len(m.attrs) > 0
}

func (m *BatchModel) SetEnabled(enabled bool) { m.enabled = enabled }
func (m *BatchModel) Enabled() bool           { return m.enabled }

func (m *BatchModel) SetCapacity(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	m.capacity = capacity
	m.indices = make([]uint32, capacity*IndicesPerParticle)
	for i := 0; i < capacity; i++ {
		v := uint32(i * VerticesPerParticle)
		idx := m.indices[i*IndicesPerParticle:]
		idx[0], idx[1], idx[2] = v, v+1, v+2
		idx[3], idx[4], idx[5] = v+3, v+2, v+1
	}
	if m.indexCount > len(m.indices) {
		m.indexCount = len(m.indices)
	}
	m.rebuildVertexData()
}

func (m *BatchModel) SetVertexAttributes(attrs []VertexAttribute) {
	m.baseAttrs = append([]VertexAttribute(nil), attrs...)
	m.applyLayout()
}

// EnableStretchedBillboard appends the velocity slot to the vertex layout.
func (m *BatchModel) EnableStretchedBillboard() {
	if m.stretched {
		return
	}
	m.stretched = true
	m.applyLayout()
}

func (m *BatchModel) DisableStretchedBillboard() {
	if !m.stretched {
		return
	}
	m.stretched = false
	m.applyLayout()
}

func (m *BatchModel) Stretched() bool { return m.stretched }

func (m *BatchModel) applyLayout() {
	m.attrs = append(m.attrs[:0], m.baseAttrs...)
	if m.stretched {
		m.attrs = append(m.attrs, VelocityAttribute)
	}
	m.stride = Stride(m.attrs)
	m.rebuildVertexData()
}

func (m *BatchModel) rebuildVertexData() {
	size := m.capacity * VerticesPerParticle * m.stride
	if cap(m.vdata) >= size {
		m.vdata = m.vdata[:size]
		clear(m.vdata)
		return
	}
	m.vdata = make([]byte, size)
}

// AddParticleVertexData writes vertex index using the active layout.
func (m *BatchModel) AddParticleVertexData(index int, v *ParticleVertex) {
	off := index * m.stride
	if index < 0 || off+m.stride > len(m.vdata) {
		return
	}
	dst := m.vdata[off : off+m.stride]
	for _, a := range m.attrs {
		switch a.Name {
		case AttrPosition:
			dst = putFloats(dst, v.Position[:])
		case AttrTexCoord:
			dst = putFloats(dst, v.TexCoord[:])
		case AttrTexCoord1:
			dst = putFloats(dst, v.TexCoord1[:])
		case AttrColor:
			binary.LittleEndian.PutUint32(dst, v.Color)
			dst = dst[4:]
		case AttrColor1:
			dst = putFloats(dst, v.Velocity[:])
		default:
			dst = dst[a.Format.Size():]
		}
	}
}

// UpdateIA sets how many indices the next draw uses.
func (m *BatchModel) UpdateIA(indexCount int) {
	m.indexCount = min(max(indexCount, 0), len(m.indices))
}

func (m *BatchModel) SetSubModelMaterial(index int, mat *Material) {
	if index < 0 {
		return
	}
	for len(m.materials) <= index {
		m.materials = append(m.materials, nil)
	}
	m.materials[index] = mat
}

func (m *BatchModel) SubModelMaterial(index int) *Material {
	if index < 0 || index >= len(m.materials) {
		return nil
	}
	return m.materials[index]
}

func (m *BatchModel) Capacity() int                 { return m.capacity }
func (m *BatchModel) Attributes() []VertexAttribute { return m.attrs }
func (m *BatchModel) Stride() int                   { return m.stride }
func (m *BatchModel) IndexCount() int               { return m.indexCount }

// VertexCount is the number of vertices referenced by the current index count.
func (m *BatchModel) VertexCount() int {
	return m.indexCount / IndicesPerParticle * VerticesPerParticle
}

// VertexData returns the bytes of the vertices in use.
func (m *BatchModel) VertexData() []byte {
	return m.vdata[:m.VertexCount()*m.stride]
}

// IndexData returns the indices in use.
func (m *BatchModel) IndexData() []uint32 {
	return m.indices[:m.indexCount]
}

// Vertex decodes vertex index back out of the vertex buffer. Slots missing
// from the active layout read as zero.
func (m *BatchModel) Vertex(index int) ParticleVertex {
	var v ParticleVertex
	off := index * m.stride
	if index < 0 || off+m.stride > len(m.vdata) {
		return v
	}
	src := m.vdata[off : off+m.stride]
	for _, a := range m.attrs {
		switch a.Name {
		case AttrPosition:
			src = getFloats(src, v.Position[:])
		case AttrTexCoord:
			src = getFloats(src, v.TexCoord[:])
		case AttrTexCoord1:
			src = getFloats(src, v.TexCoord1[:])
		case AttrColor:
			v.Color = binary.LittleEndian.Uint32(src)
			src = src[4:]
		case AttrColor1:
			src = getFloats(src, v.Velocity[:])
		default:
			src = src[a.Format.Size():]
		}
	}
	return v
}

func putFloats(dst []byte, vals []float32) []byte {
	for _, f := range vals {
		binary.LittleEndian.PutUint32(dst, math.Float32bits(f))
		dst = dst[4:]
	}
	return dst
}

func getFloats(src []byte, out []float32) []byte {
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(src))
		src = src[4:]
	}
	return src
}
