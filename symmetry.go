package snapfit

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

type SymmetryKind int

const (
	SymmetryNone SymmetryKind = iota
	SymmetrySphere
	SymmetryCylinder
	SymmetryBox
)

func (k SymmetryKind) String() string {
	switch k {
	case SymmetrySphere:
		return "sphere"
	case SymmetryCylinder:
		return "cylinder"
	case SymmetryBox:
		return "box"
	default:
		return "none"
	}
}

// SymmetryClass describes which orientation differences of a part are
// indistinguishable. Axis is only meaningful for cylinders (the free axis, in
// the part's local frame).
type SymmetryClass struct {
	Kind SymmetryKind
	Axis mgl64.Vec3
}

var (
	NoSymmetry     = SymmetryClass{Kind: SymmetryNone}
	SphereSymmetry = SymmetryClass{Kind: SymmetrySphere}
	BoxSymmetry    = SymmetryClass{Kind: SymmetryBox}
)

func CylinderSymmetry(axis mgl64.Vec3) SymmetryClass {
	if axis.Len() == 0 {
		axis = mgl64.Vec3{0, 1, 0}
	}
	return SymmetryClass{Kind: SymmetryCylinder, Axis: axis.Normalize()}
}

// DiscountAngle reduces a raw angular error (degrees) by the symmetry of the
// part. toleranceDeg is needed by the cylinder rule, which leaves errors that
// already pass untouched.
func (s SymmetryClass) DiscountAngle(rawDeg, toleranceDeg float64) float64 {
	switch s.Kind {
	case SymmetrySphere:
		return 0
	case SymmetryCylinder:
		if rawDeg < toleranceDeg {
			return rawDeg
		}
		return rawDeg * 0.1
	case SymmetryBox:
		m := math.Mod(rawDeg, 90)
		return math.Min(m, 90-m)
	default:
		return rawDeg
	}
}

func (s SymmetryClass) String() string {
	if s.Kind != SymmetryCylinder {
		return s.Kind.String()
	}
	switch {
	case s.Axis.ApproxEqual(mgl64.Vec3{1, 0, 0}):
		return "cylinder:x"
	case s.Axis.ApproxEqual(mgl64.Vec3{0, 0, 1}):
		return "cylinder:z"
	default:
		return "cylinder:y"
	}
}

// ParseSymmetry accepts none, sphere, box, cylinder and cylinder:x|y|z. The
// empty string is none.
func ParseSymmetry(text string) (SymmetryClass, error) {
	kind, axis, _ := strings.Cut(strings.ToLower(strings.TrimSpace(text)), ":")
	switch kind {
	case "", "none":
		return NoSymmetry, nil
	case "sphere":
		return SphereSymmetry, nil
	case "box":
		return BoxSymmetry, nil
	case "cylinder":
		switch axis {
		case "x":
			return CylinderSymmetry(mgl64.Vec3{1, 0, 0}), nil
		case "", "y":
			return CylinderSymmetry(mgl64.Vec3{0, 1, 0}), nil
		case "z":
			return CylinderSymmetry(mgl64.Vec3{0, 0, 1}), nil
		}
		return NoSymmetry, fmt.Errorf("unknown cylinder axis %q", axis)
	}
	return NoSymmetry, fmt.Errorf("unknown symmetry %q", text)
}

func (s SymmetryClass) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SymmetryClass) UnmarshalText(text []byte) error {
	parsed, err := ParseSymmetry(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s SymmetryClass) MarshalYAML() (any, error) {
	return s.String(), nil
}

func (s *SymmetryClass) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return fmt.Errorf("symmetry: %w", err)
	}
	return s.UnmarshalText([]byte(text))
}
