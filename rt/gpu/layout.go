package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gekkofx/rt/core"
)

func vertexFormat(a core.VertexAttribute) (wgpu.VertexFormat, error) {
	switch a.Format {
	case core.FormatRGB32F:
		return wgpu.VertexFormatFloat32x3, nil
	case core.FormatRG32F:
		return wgpu.VertexFormatFloat32x2, nil
	case core.FormatRGBA8:
		if a.Normalized {
			return wgpu.VertexFormatUnorm8x4, nil
		}
		return wgpu.VertexFormatUint8x4, nil
	default:
		return 0, fmt.Errorf("unsupported vertex format %d for %s", a.Format, a.Name)
	}
}

// VertexBufferLayout maps a particle vertex layout to wgpu. Shader locations
// follow slot order.
func VertexBufferLayout(attrs []core.VertexAttribute) (wgpu.VertexBufferLayout, error) {
	attributes := make([]wgpu.VertexAttribute, 0, len(attrs))
	var offset uint64
	for i, a := range attrs {
		format, err := vertexFormat(a)
		if err != nil {
			return wgpu.VertexBufferLayout{}, err
		}
		attributes = append(attributes, wgpu.VertexAttribute{
			ShaderLocation: uint32(i),
			Offset:         offset,
			Format:         format,
		})
		offset += uint64(a.Format.Size())
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}, nil
}
