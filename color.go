package gekkofx

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Color is an RGBA8 color packed into a uint32 with R in the low byte, so the
// value can be copied straight into a normalized 4x8-bit vertex attribute.
type Color uint32

var (
	ColorWhite Color = RGBA(255, 255, 255, 255)
	ColorBlack Color = RGBA(0, 0, 0, 255)
)

func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

func (c Color) R() uint8 { return uint8(c) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c >> 16) }
func (c Color) A() uint8 { return uint8(c >> 24) }

// Vec4 returns the color as normalized floats.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{
		float32(c.R()) / 255,
		float32(c.G()) / 255,
		float32(c.B()) / 255,
		float32(c.A()) / 255,
	}
}

// ColorFromVec4 packs normalized floats, clamping each channel to [0,1].
func ColorFromVec4(v mgl32.Vec4) Color {
	return RGBA(unorm8(v[0]), unorm8(v[1]), unorm8(v[2]), unorm8(v[3]))
}

// Mul multiplies two colors channel by channel.
func (c Color) Mul(o Color) Color {
	return RGBA(
		mulUnorm8(c.R(), o.R()),
		mulUnorm8(c.G(), o.G()),
		mulUnorm8(c.B(), o.B()),
		mulUnorm8(c.A(), o.A()),
	)
}

func unorm8(f float32) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

func mulUnorm8(a, b uint8) uint8 {
	return uint8((uint32(a)*uint32(b) + 127) / 255)
}
