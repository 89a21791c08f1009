package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParticleModel(capacity int) *BatchModel {
	m := NewBatchModel()
	m.SetCapacity(capacity)
	m.SetVertexAttributes(ParticleAttributes)
	return m
}

func TestBatchModel_Inited(t *testing.T) {
	m := NewBatchModel()
	assert.False(t, m.Inited())
	assert.True(t, m.Enabled())
	assert.NotEmpty(t, m.Id)

	m.SetCapacity(4)
	assert.False(t, m.Inited(), "no layout yet")
	m.SetVertexAttributes(ParticleAttributes)
	assert.True(t, m.Inited())
}

func TestBatchModel_QuadIndices(t *testing.T) {
	m := newParticleModel(2)
	m.UpdateIA(12)
	assert.Equal(t, []uint32{0, 1, 2, 3, 2, 1, 4, 5, 6, 7, 6, 5}, m.IndexData())
}

func TestBatchModel_UpdateIAClamps(t *testing.T) {
	m := newParticleModel(2)
	m.UpdateIA(100)
	assert.Equal(t, 12, m.IndexCount())
	m.UpdateIA(-3)
	assert.Equal(t, 0, m.IndexCount())

	m.UpdateIA(12)
	m.SetCapacity(1)
	assert.Equal(t, 6, m.IndexCount(), "shrinking the capacity clamps the draw")
}

func TestBatchModel_Stride(t *testing.T) {
	m := newParticleModel(1)
	assert.Equal(t, 12+12+8+4, m.Stride())

	m.EnableStretchedBillboard()
	assert.Equal(t, 12+12+8+4+12, m.Stride())
	require.Len(t, m.Attributes(), 5)
	assert.Equal(t, VelocityAttribute, m.Attributes()[4])

	m.EnableStretchedBillboard()
	assert.Len(t, m.Attributes(), 5, "enabling twice adds one slot")

	m.DisableStretchedBillboard()
	assert.Equal(t, ParticleAttributes, m.Attributes())
}

func TestBatchModel_VertexRoundTrip(t *testing.T) {
	m := newParticleModel(2)
	m.EnableStretchedBillboard()
	v := ParticleVertex{
		Position:  [3]float32{1, 2, 3},
		TexCoord:  [3]float32{1, 0, 6},
		TexCoord1: [2]float32{0.5, -1},
		Color:     0x80402010,
		Velocity:  [3]float32{-1, 0, 4},
	}
	m.AddParticleVertexData(5, &v)
	assert.Equal(t, v, m.Vertex(5))

	// color bytes are laid out R, G, B, A
	off := 5*m.Stride() + 12 + 12 + 8
	m.UpdateIA(12)
	assert.Equal(t, []byte{0x10, 0x20, 0x40, 0x80}, m.VertexData()[off:off+4])
}

func TestBatchModel_WithoutVelocitySlot(t *testing.T) {
	m := newParticleModel(1)
	v := ParticleVertex{Position: [3]float32{1, 1, 1}, Velocity: [3]float32{9, 9, 9}}
	m.AddParticleVertexData(0, &v)

	got := m.Vertex(0)
	assert.Equal(t, [3]float32{1, 1, 1}, got.Position)
	assert.Equal(t, [3]float32{}, got.Velocity)
}

func TestBatchModel_OutOfRangeWritesIgnored(t *testing.T) {
	m := newParticleModel(1)
	v := ParticleVertex{Position: [3]float32{1, 1, 1}}
	assert.NotPanics(t, func() {
		m.AddParticleVertexData(4, &v)
		m.AddParticleVertexData(-1, &v)
	})
	assert.Equal(t, ParticleVertex{}, m.Vertex(4))
}

func TestBatchModel_SubModelMaterial(t *testing.T) {
	m := NewBatchModel()
	mat := NewMaterial("smoke", 1)
	m.SetSubModelMaterial(2, mat)
	assert.Nil(t, m.SubModelMaterial(0))
	assert.Same(t, mat, m.SubModelMaterial(2))
	assert.Nil(t, m.SubModelMaterial(7))
}

func TestPass_TryCompile(t *testing.T) {
	var seen []Defines
	pass := &Pass{Compiler: func(d Defines) error {
		seen = append(seen, d)
		if d["BROKEN"] {
			return errors.New("no such variant")
		}
		return nil
	}}

	require.NoError(t, pass.TryCompile(Defines{"A": true}))
	require.NoError(t, pass.TryCompile(Defines{"A": true}))
	assert.Equal(t, 1, pass.Compiles())
	assert.Len(t, seen, 1, "unchanged defines are not recompiled")

	assert.Error(t, pass.TryCompile(Defines{"A": true, "BROKEN": true}))
	assert.Equal(t, Defines{"A": true}, pass.Defines())
	assert.Equal(t, 1, pass.Compiles())
}

func TestPass_KeepsOwnCopy(t *testing.T) {
	pass := &Pass{}
	d := Defines{"A": true}
	require.NoError(t, pass.TryCompile(d))
	d["A"] = false
	assert.True(t, pass.Defines()["A"])
}
