package core

// AttributeName identifies a vertex attribute to the particle shaders.
type AttributeName string

const (
	AttrPosition  AttributeName = "a_position"
	AttrTexCoord  AttributeName = "a_texCoord"
	AttrTexCoord1 AttributeName = "a_texCoord1"
	AttrColor     AttributeName = "a_color"
	AttrColor1    AttributeName = "a_color1"
)

type Format int

const (
	FormatRGB32F Format = iota
	FormatRG32F
	FormatRGBA8
)

// Size is the byte size of one attribute of this format.
func (f Format) Size() int {
	switch f {
	case FormatRGB32F:
		return 12
	case FormatRG32F:
		return 8
	case FormatRGBA8:
		return 4
	default:
		return 0
	}
}

type VertexAttribute struct {
	Name       AttributeName
	Format     Format
	Normalized bool
}

// ParticleAttributes is the billboard vertex layout. The slot order is shared
// with the particle shaders and must not change.
var ParticleAttributes = []VertexAttribute{
	{Name: AttrPosition, Format: FormatRGB32F},
	{Name: AttrTexCoord, Format: FormatRGB32F},
	{Name: AttrTexCoord1, Format: FormatRG32F},
	{Name: AttrColor, Format: FormatRGBA8, Normalized: true},
}

// VelocityAttribute is appended to ParticleAttributes in stretched billboard mode.
var VelocityAttribute = VertexAttribute{Name: AttrColor1, Format: FormatRGB32F}

// ParticleVertex carries the values for every slot; the active layout decides
// which of them reach the vertex buffer.
type ParticleVertex struct {
	Position  [3]float32
	TexCoord  [3]float32 // uv corner + frame index
	TexCoord1 [2]float32 // size.x, rotation.x
	Color     uint32     // RGBA8, R in the low byte
	Velocity  [3]float32
}

// Stride returns the byte size of one vertex in the given layout.
func Stride(attrs []VertexAttribute) int {
	n := 0
	for _, a := range attrs {
		n += a.Format.Size()
	}
	return n
}
