package gekkofx

import (
	"math"

	"gopkg.in/yaml.v3"
)

type TextureAnimationMode int

const (
	AnimationWholeSheet TextureAnimationMode = iota
	AnimationSingleRow
)

var textureAnimationModeNames = []string{"whole_sheet", "single_row"}

func (m TextureAnimationMode) String() string { return enumName(int(m), textureAnimationModeNames) }

func (m *TextureAnimationMode) UnmarshalYAML(n *yaml.Node) error {
	return decodeEnum(n, textureAnimationModeNames, (*int)(m))
}

func (m TextureAnimationMode) MarshalYAML() (any, error) { return m.String(), nil }

// TextureAnimationModule picks a flipbook tile per particle. FrameOverTime is
// normalized (0..1 spans the animated frames), StartFrame is in whole frames.
type TextureAnimationModule struct {
	ModuleToggle  `yaml:",inline"`
	NumTilesX     int                  `yaml:"num_tiles_x"`
	NumTilesY     int                  `yaml:"num_tiles_y"`
	Animation     TextureAnimationMode `yaml:"animation"`
	FrameOverTime CurveRange           `yaml:"frame_over_time"`
	StartFrame    CurveRange           `yaml:"start_frame"`
	CycleCount    float32              `yaml:"cycle_count"`
	RandomRow     bool                 `yaml:"random_row"`
	RowIndex      int                  `yaml:"row_index"`
}

func (m *TextureAnimationModule) Animate(p *Particle, _ float32) {
	tilesX, tilesY := max(m.NumTilesX, 1), max(m.NumTilesY, 1)
	frames := tilesX * tilesY
	if m.Animation == AnimationSingleRow {
		frames = tilesX
	}

	rnd := pseudoRandom(p.RandomSeed ^ textureAnimRandOffset)
	cycles := m.CycleCount
	if cycles <= 0 {
		cycles = 1
	}
	t := float64(p.NormalizedAge() * cycles)
	t -= math.Floor(t)

	frame := int(math.Floor(float64(m.FrameOverTime.Evaluate(float32(t), rnd)) * float64(frames)))
	frame += int(m.StartFrame.Evaluate(0, rnd))
	frame %= frames
	if frame < 0 {
		frame += frames
	}

	if m.Animation == AnimationSingleRow {
		row := m.RowIndex
		if m.RandomRow {
			row = int(pseudoRandom(p.RandomSeed^textureAnimRandOffset^0x9e3779b9) * float32(tilesY))
		}
		row = min(max(row, 0), tilesY-1)
		frame += row * tilesX
	}
	p.FrameIndex = frame
}
