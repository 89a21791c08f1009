package gpu

import (
	"encoding/binary"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gekkofx/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexBufferLayout_Billboard(t *testing.T) {
	layout, err := VertexBufferLayout(core.ParticleAttributes)
	require.NoError(t, err)

	assert.Equal(t, uint64(36), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	assert.Equal(t, []wgpu.VertexAttribute{
		{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3},
		{ShaderLocation: 1, Offset: 12, Format: wgpu.VertexFormatFloat32x3},
		{ShaderLocation: 2, Offset: 24, Format: wgpu.VertexFormatFloat32x2},
		{ShaderLocation: 3, Offset: 32, Format: wgpu.VertexFormatUnorm8x4},
	}, layout.Attributes)
}

func TestVertexBufferLayout_MatchesModelStride(t *testing.T) {
	m := core.NewBatchModel()
	m.SetCapacity(1)
	m.SetVertexAttributes(core.ParticleAttributes)
	m.EnableStretchedBillboard()

	layout, err := VertexBufferLayout(m.Attributes())
	require.NoError(t, err)
	assert.Equal(t, uint64(m.Stride()), layout.ArrayStride)
	require.Len(t, layout.Attributes, 5)
	assert.Equal(t, uint32(4), layout.Attributes[4].ShaderLocation)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[4].Format)
}

func TestVertexBufferLayout_UnknownFormat(t *testing.T) {
	_, err := VertexBufferLayout([]core.VertexAttribute{{Name: "a_bogus", Format: core.Format(99)}})
	assert.Error(t, err)
}

func TestQuadIndexBytes(t *testing.T) {
	buf := quadIndexBytes(2, nil)
	require.Len(t, buf, 2*core.IndicesPerParticle*4)

	got := make([]uint32, len(buf)/4)
	for i := range got {
		got[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	assert.Equal(t, []uint32{0, 1, 2, 3, 2, 1, 4, 5, 6, 7, 6, 5}, got)

	// matches the model's index buffer
	m := core.NewBatchModel()
	m.SetCapacity(2)
	m.UpdateIA(12)
	assert.Equal(t, m.IndexData(), got)

	// reuses storage when shrinking
	small := quadIndexBytes(1, buf)
	assert.Len(t, small, core.IndicesPerParticle*4)
	assert.Same(t, &buf[0], &small[0])
}
