package snapfit

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownLevel = errors.New("unknown level")
	ErrInvalidLevel = errors.New("invalid level")
)

//go:embed levels/*.yaml
var builtinLevelFS embed.FS

// StartPose is the authored start placement of a part. Rot is in degrees.
type StartPose struct {
	Pos [3]float64 `yaml:"pos"`
	Rot [3]float64 `yaml:"rot"`
}

func (s StartPose) Position() mgl64.Vec3 {
	return mgl64.Vec3{s.Pos[0], s.Pos[1], s.Pos[2]}
}

func (s StartPose) EulerRadians() mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.DegToRad(s.Rot[0]),
		mgl64.DegToRad(s.Rot[1]),
		mgl64.DegToRad(s.Rot[2]),
	}
}

type PartConfig struct {
	ID       string        `yaml:"id"`
	Model    string        `yaml:"model"`
	SnapTo   string        `yaml:"snap_to"`
	RotStep  float64       `yaml:"rot_step"`
	Symmetry SymmetryClass `yaml:"symmetry"`
	Start    StartPose     `yaml:"start"`
}

// RotationStep is the small rotation increment in degrees.
func (c PartConfig) RotationStep() float64 {
	if c.RotStep <= 0 {
		return 15
	}
	return c.RotStep
}

type LevelConfig struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Target       string       `yaml:"target"`
	Parts        []PartConfig `yaml:"parts"`
	Tolerance    *Tolerance   `yaml:"tolerance"`
	TimeLimitSec float64      `yaml:"time_limit_sec"`
	Hints        int          `yaml:"hints"`
}

// SnapTolerance returns the level tolerance or the baseline default.
func (l *LevelConfig) SnapTolerance() Tolerance {
	if l.Tolerance == nil {
		return DefaultTolerance()
	}
	return *l.Tolerance
}

func (l *LevelConfig) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidLevel)
	}
	if len(l.Parts) == 0 {
		return fmt.Errorf("%w: level %s has no parts", ErrInvalidLevel, l.ID)
	}
	seen := make(map[string]struct{}, len(l.Parts))
	for i, p := range l.Parts {
		if p.ID == "" {
			return fmt.Errorf("%w: level %s part %d has no id", ErrInvalidLevel, l.ID, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: level %s has duplicate part %s", ErrInvalidLevel, l.ID, p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.SnapTo == "" {
			return fmt.Errorf("%w: part %s has no snap_to", ErrInvalidLevel, p.ID)
		}
	}
	tol := l.SnapTolerance()
	if tol.Position <= 0 {
		return fmt.Errorf("%w: level %s position tolerance must be positive", ErrInvalidLevel, l.ID)
	}
	if tol.Degrees <= 0 || tol.Degrees > 180 {
		return fmt.Errorf("%w: level %s angle tolerance must be in (0, 180]", ErrInvalidLevel, l.ID)
	}
	if l.Hints < 0 {
		return fmt.Errorf("%w: level %s has negative hint budget", ErrInvalidLevel, l.ID)
	}
	return nil
}

// ModelRefs lists the target model followed by each distinct part model.
func (l *LevelConfig) ModelRefs() []string {
	refs := []string{l.Target}
	for _, p := range l.Parts {
		if !slices.Contains(refs, p.Model) {
			refs = append(refs, p.Model)
		}
	}
	return refs
}

// ParseLevel decodes and validates a YAML level.
func ParseLevel(data []byte) (*LevelConfig, error) {
	var level LevelConfig
	if err := yaml.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	if err := level.Validate(); err != nil {
		return nil, err
	}
	return &level, nil
}

func LoadLevelFile(path string) (*LevelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	level, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return level, nil
}

// BuiltinLevel returns one of the bundled levels, numbered from 1.
func BuiltinLevel(n int) (*LevelConfig, error) {
	data, err := builtinLevelFS.ReadFile(fmt.Sprintf("levels/level_%02d.yaml", n))
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, n)
	}
	return ParseLevel(data)
}

// BuiltinLevels returns all bundled levels in order.
func BuiltinLevels() ([]*LevelConfig, error) {
	var levels []*LevelConfig
	for n := 1; ; n++ {
		level, err := BuiltinLevel(n)
		if errors.Is(err, ErrUnknownLevel) {
			return levels, nil
		}
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
}
