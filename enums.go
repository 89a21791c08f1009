package gekkofx

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Space selects the frame particle motion is computed in.
type Space int

const (
	SpaceWorld Space = iota
	SpaceLocal
)

var spaceNames = []string{"world", "local"}

func (s Space) String() string { return enumName(int(s), spaceNames) }

func (s *Space) UnmarshalYAML(n *yaml.Node) error {
	return decodeEnum(n, spaceNames, (*int)(s))
}

func (s Space) MarshalYAML() (any, error) { return s.String(), nil }

type RenderMode int

const (
	RenderModeBillboard RenderMode = iota
	RenderModeStretchedBillboard
	RenderModeHorizontalBillboard
	RenderModeVerticalBillboard
	RenderModeMesh
)

var renderModeNames = []string{"billboard", "stretched_billboard", "horizontal_billboard", "vertical_billboard", "mesh"}

func (m RenderMode) String() string { return enumName(int(m), renderModeNames) }

func (m RenderMode) Valid() bool {
	return m >= RenderModeBillboard && m <= RenderModeMesh
}

func (m *RenderMode) UnmarshalYAML(n *yaml.Node) error {
	return decodeEnum(n, renderModeNames, (*int)(m))
}

func (m RenderMode) MarshalYAML() (any, error) { return m.String(), nil }

func enumName(v int, names []string) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("unknown(%d)", v)
	}
	return names[v]
}

func decodeEnum(n *yaml.Node, names []string, out *int) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == s {
			*out = i
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown value %q, want one of %s", n.Line, s, strings.Join(names, ", "))
}
