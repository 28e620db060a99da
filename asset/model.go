package asset

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/metronome/vmath"
)

// Model is a glyph drawing in model space, placed in the world by an entity's transform
type Model struct {
	Name   string  `yaml:"name" validate:"required"`
	Glyphs []Glyph `yaml:"glyphs" validate:"required,min=1,dive"`
}

// Glyph is one character of a model at an offset from the model origin
type Glyph struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Rune  Rune    `yaml:"rune" validate:"required"`
	Color string  `yaml:"color" validate:"omitempty,hexcolor"`
}

// Offset returns the glyph position in model space
func (g Glyph) Offset() vmath.Vec2 {
	return vmath.V2(g.X, g.Y)
}

// Rune decodes from a single-character YAML string
type Rune rune

func (r *Rune) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if utf8.RuneCountInString(s) != 1 {
		return fmt.Errorf("line %d: rune %q must be exactly one character", node.Line, s)
	}
	v, _ := utf8.DecodeRuneInString(s)
	*r = Rune(v)
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseModel decodes and validates a YAML model
func ParseModel(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("validate model: %w", err)
	}
	return &m, nil
}
