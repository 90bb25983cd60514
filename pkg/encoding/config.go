package encoding

import (
	"fmt"
	"strings"

	"github.com/matzehuels/floorpack/pkg/sat"
)

// Model selects the constraint model.
type Model string

const (
	ModelCell  Model = "cell"
	ModelCoord Model = "coord"
)

// Models lists the supported models.
func Models() []Model { return []Model{ModelCell, ModelCoord} }

// ParseModel resolves a model name.
func ParseModel(s string) (Model, error) {
	switch Model(strings.ToLower(s)) {
	case "", ModelCell:
		return ModelCell, nil
	case ModelCoord, "coordinate", "order":
		return ModelCoord, nil
	}
	return "", fmt.Errorf("unknown model %q (available: cell, coord)", s)
}

// Config composes the constraint families of an encoding.
type Config struct {
	Model             Model `json:"model" toml:"model"`
	Rotation          bool  `json:"rotation" toml:"rotation"`
	Symmetry          bool  `json:"symmetry" toml:"symmetry"`
	IdenticalSymmetry bool  `json:"identical_symmetry" toml:"identical_symmetry"`
	// SymmetryDepth caps the compared positions of each lex-leader
	// constraint; 0 compares the full sequence.
	SymmetryDepth int `json:"symmetry_depth,omitempty" toml:"symmetry_depth"`
}

// DefaultConfig is the cell model with symmetry breaking and no rotation.
func DefaultConfig() Config {
	return Config{Model: ModelCell, Symmetry: true, IdenticalSymmetry: true}
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Model == "" {
		c.Model = ModelCell
	}
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if _, err := ParseModel(string(c.Model)); err != nil {
		return err
	}
	if c.SymmetryDepth < 0 {
		return fmt.Errorf("symmetry depth must be >= 0, got %d", c.SymmetryDepth)
	}
	return nil
}

// String is a compact description used in logs and reports.
func (c Config) String() string {
	parts := []string{string(c.Model)}
	if c.Rotation {
		parts = append(parts, "rot")
	}
	if c.Symmetry {
		parts = append(parts, "sym")
	}
	if c.IdenticalSymmetry {
		parts = append(parts, "ident")
	}
	if c.SymmetryDepth > 0 {
		parts = append(parts, fmt.Sprintf("depth=%d", c.SymmetryDepth))
	}
	return strings.Join(parts, "+")
}

func (c Config) lexOptions(guard sat.Lit) sat.LexOptions {
	return sat.LexOptions{Guard: guard, Depth: c.SymmetryDepth}
}
