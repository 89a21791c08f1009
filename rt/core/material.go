package core

import (
	"maps"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Defines are named boolean compile-time switches for shader variants.
type Defines map[string]bool

func (d Defines) Clone() Defines {
	return maps.Clone(d)
}

// Pass is one shader pass of a material. TryCompile records the define set and
// counts a recompile whenever it differs from the one last compiled.
type Pass struct {
	// Compiler builds the shader variant for a define set. Nil accepts any set.
	Compiler func(Defines) error

	defines  Defines
	compiles int
}

// TryCompile switches the pass to the variant for defines. On failure the
// previously compiled variant stays active.
func (p *Pass) TryCompile(defines Defines) error {
	if p.defines != nil && maps.Equal(p.defines, defines) {
		return nil
	}
	if p.Compiler != nil {
		if err := p.Compiler(defines); err != nil {
			return err
		}
	}
	p.defines = defines.Clone()
	p.compiles++
	return nil
}

func (p *Pass) Defines() Defines { return p.defines }
func (p *Pass) Compiles() int    { return p.compiles }

type Material struct {
	Id     string
	Name   string
	Passes []*Pass

	properties map[string]mgl32.Vec4
}

func NewMaterial(name string, passes int) *Material {
	if passes < 1 {
		passes = 1
	}
	m := &Material{
		Id:         uuid.NewString(),
		Name:       name,
		Passes:     make([]*Pass, passes),
		properties: make(map[string]mgl32.Vec4),
	}
	for i := range m.Passes {
		m.Passes[i] = &Pass{}
	}
	return m
}

func (m *Material) SetProperty(name string, v mgl32.Vec4) {
	m.properties[name] = v
}

func (m *Material) Property(name string) (mgl32.Vec4, bool) {
	v, ok := m.properties[name]
	return v, ok
}
