package gekkofx

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
	"gopkg.in/yaml.v3"
)

type Keyframe struct {
	Time  float32 `yaml:"time"`
	Value float32 `yaml:"value"`
}

// Curve is a piecewise-linear function of normalized time. Evaluation outside
// the key range clamps to the first/last key. An empty curve evaluates to 1.
type Curve struct {
	keys   []Keyframe
	fitted interp.PiecewiseLinear
}

// NewCurve builds a curve from keys sorted by strictly increasing time.
func NewCurve(keys ...Keyframe) (*Curve, error) {
	c := &Curve{}
	if err := c.setKeys(keys); err != nil {
		return nil, err
	}
	return c, nil
}

// MustCurve is NewCurve for literal key sets known to be valid.
func MustCurve(keys ...Keyframe) *Curve {
	c, err := NewCurve(keys...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Curve) setKeys(keys []Keyframe) error {
	c.keys = append([]Keyframe(nil), keys...)
	if len(keys) < 2 {
		return nil
	}
	xs := make([]float64, len(keys))
	ys := make([]float64, len(keys))
	for i, k := range keys {
		if i > 0 && k.Time <= keys[i-1].Time {
			return fmt.Errorf("curve key %d: time %v not after %v", i, k.Time, keys[i-1].Time)
		}
		xs[i] = float64(k.Time)
		ys[i] = float64(k.Value)
	}
	if err := c.fitted.Fit(xs, ys); err != nil {
		return fmt.Errorf("fitting curve: %w", err)
	}
	return nil
}

func (c *Curve) Keys() []Keyframe { return c.keys }

func (c *Curve) Evaluate(t float32) float32 {
	if c == nil {
		return 1
	}
	switch len(c.keys) {
	case 0:
		return 1
	case 1:
		return c.keys[0].Value
	}
	return float32(c.fitted.Predict(float64(t)))
}

// UnmarshalYAML reads a curve from a sequence of {time, value} keys.
func (c *Curve) UnmarshalYAML(n *yaml.Node) error {
	var keys []Keyframe
	if err := n.Decode(&keys); err != nil {
		return err
	}
	return c.setKeys(keys)
}

func (c *Curve) MarshalYAML() (any, error) {
	return c.keys, nil
}

type CurveMode int

const (
	CurveModeConstant CurveMode = iota
	CurveModeCurve
	CurveModeTwoCurves
	CurveModeTwoConstants
)

var curveModeNames = []string{"constant", "curve", "two_curves", "two_constants"}

func (m CurveMode) String() string { return enumName(int(m), curveModeNames) }

func (m *CurveMode) UnmarshalYAML(n *yaml.Node) error {
	return decodeEnum(n, curveModeNames, (*int)(m))
}

func (m CurveMode) MarshalYAML() (any, error) { return m.String(), nil }

// CurveRange is a scalar that is either constant, follows a curve, or picks
// between two constants/curves using a per-particle random ratio.
type CurveRange struct {
	Mode        CurveMode `yaml:"mode"`
	Constant    float32   `yaml:"constant"`
	ConstantMin float32   `yaml:"constant_min"`
	ConstantMax float32   `yaml:"constant_max"`
	Curve       *Curve    `yaml:"curve"`
	CurveMin    *Curve    `yaml:"curve_min"`
	CurveMax    *Curve    `yaml:"curve_max"`
	// Multiplier scales the curve modes.
	Multiplier float32 `yaml:"multiplier"`
}

func ConstantRange(v float32) CurveRange {
	return CurveRange{Mode: CurveModeConstant, Constant: v, Multiplier: 1}
}

func RandomRange(min, max float32) CurveRange {
	return CurveRange{Mode: CurveModeTwoConstants, ConstantMin: min, ConstantMax: max, Multiplier: 1}
}

func CurveRangeOf(c *Curve, multiplier float32) CurveRange {
	return CurveRange{Mode: CurveModeCurve, Curve: c, Multiplier: multiplier}
}

// Evaluate returns the value at normalized time t; rnd in [0,1) selects between
// the min and max variants in the two-value modes.
func (r CurveRange) Evaluate(t, rnd float32) float32 {
	switch r.Mode {
	case CurveModeCurve:
		return r.Curve.Evaluate(t) * r.Multiplier
	case CurveModeTwoCurves:
		return lerp(r.CurveMin.Evaluate(t), r.CurveMax.Evaluate(t), rnd) * r.Multiplier
	case CurveModeTwoConstants:
		return lerp(r.ConstantMin, r.ConstantMax, rnd)
	default:
		return r.Constant
	}
}

func (r CurveRange) validate(name string) error {
	if r.Mode < CurveModeConstant || r.Mode > CurveModeTwoConstants {
		return fmt.Errorf("%s: unknown curve mode %d", name, r.Mode)
	}
	return nil
}

// UnmarshalYAML accepts either a bare number (a constant) or a mapping.
func (r *CurveRange) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var v float32
		if err := n.Decode(&v); err != nil {
			return err
		}
		*r = ConstantRange(v)
		return nil
	}
	type plain CurveRange
	v := plain{Multiplier: 1}
	if err := n.Decode(&v); err != nil {
		return err
	}
	*r = CurveRange(v)
	return nil
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }
