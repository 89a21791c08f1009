package gpu

import (
	"testing"

	"github.com/gekko3d/gekkofx/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func particleModel(capacity int, stretched bool) *core.BatchModel {
	m := core.NewBatchModel()
	m.SetCapacity(capacity)
	m.SetVertexAttributes(core.ParticleAttributes)
	if stretched {
		m.EnableStretchedBillboard()
	}
	m.UpdateIA(capacity * core.IndicesPerParticle)
	return m
}

func TestAlignedSize(t *testing.T) {
	assert.Equal(t, uint64(4), alignedSize(0))
	assert.Equal(t, uint64(4), alignedSize(1))
	assert.Equal(t, uint64(8), alignedSize(8))
	assert.Equal(t, uint64(12), alignedSize(9))
}

func TestParticleBuffers_Plan(t *testing.T) {
	// billboard stride is 36 bytes, stretched adds 12
	uploaded := ParticleBuffers{vertexSize: 288, indexSize: 48, capacity: 2}
	cases := []struct {
		name  string
		state ParticleBuffers
		model *core.BatchModel
		want  uploadPlan
	}{
		{"first upload", ParticleBuffers{}, particleModel(2, false), uploadPlan{vertexSize: 288, indexSize: 48, writeIndices: true}},
		{"unchanged", uploaded, particleModel(2, false), uploadPlan{}},
		{"stride grows", uploaded, particleModel(2, true), uploadPlan{vertexSize: 384}},
		{"capacity grows", uploaded, particleModel(3, false), uploadPlan{vertexSize: 432, indexSize: 72, writeIndices: true}},
		{"capacity shrinks", uploaded, particleModel(1, false), uploadPlan{writeIndices: true}},
		{"empty model", ParticleBuffers{}, particleModel(0, false), uploadPlan{vertexSize: 4, indexSize: 4, writeIndices: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.state.plan(tc.model))
		})
	}
}

func TestParticleBuffers_UploadOnDevice(t *testing.T) {
	device, release, err := NewHeadlessDevice()
	if err != nil {
		t.Skipf("no GPU adapter: %v", err)
	}
	defer release()

	b := NewParticleBuffers(device)
	defer b.Release()

	model := particleModel(2, false)
	require.NoError(t, b.Upload(model))
	assert.Equal(t, uint32(12), b.IndexCount)
	assert.Equal(t, 48+288, b.LastUploadBytes, "indices and vertices on the first upload")
	vbuf := b.VertexBuf

	require.NoError(t, b.Upload(model))
	assert.Equal(t, 288, b.LastUploadBytes, "vertices only afterwards")
	assert.Same(t, vbuf, b.VertexBuf)

	model.EnableStretchedBillboard()
	require.NoError(t, b.Upload(model))
	assert.NotSame(t, vbuf, b.VertexBuf)
	assert.GreaterOrEqual(t, b.VertexBuf.GetSize(), uint64(384))
}
