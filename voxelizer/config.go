package voxelizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the build settings for one voxelization pass.
type Config struct {
	// The xz-plane cell size to use for the heightfield. [Limit: > 0] [Units: wu]
	CellSize float32 `yaml:"cell_size"`

	// The y-axis cell size to use for the heightfield. [Limit: > 0] [Units: wu]
	CellHeight float32 `yaml:"cell_height"`

	// Minimum upward (y) component of a triangle face normal for the face
	// to be considered walkable. [Limits: 0 < value <= 1]
	WalkableNormalY float32 `yaml:"walkable_normal_y"`

	// Maximum gap between two span ceilings in a column for their area ids
	// to be merged on insertion. [Limit: >= 0] [Units: vx]
	WalkableClimb int32 `yaml:"walkable_climb"`

	// Geometry classes that participate in the build.
	IncludeTerrain bool `yaml:"include_terrain"`
	IncludeMeshes  bool `yaml:"include_meshes"`
	IncludeShapes  bool `yaml:"include_shapes"`

	// Synthesize solid spans for enclosed volume beneath non-walkable
	// ceilings via the vertical-ray parity scan.
	InteriorFill bool `yaml:"interior_fill"`
}

func DefaultConfig() *Config {
	return &Config{
		CellSize:        0.3,
		CellHeight:      0.2,
		WalkableNormalY: 0.70710678, // 45 degrees
		WalkableClimb:   4,
		IncludeTerrain:  true,
		IncludeMeshes:   true,
		IncludeShapes:   true,
		InteriorFill:    false,
	}
}

// LoadConfig reads build settings from a YAML file, overlaying the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("voxelizer: read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("voxelizer: parse settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CellSize <= 0 {
		return fmt.Errorf("voxelizer: cell_size must be > 0, got %v", c.CellSize)
	}
	if c.CellHeight <= 0 {
		return fmt.Errorf("voxelizer: cell_height must be > 0, got %v", c.CellHeight)
	}
	if c.WalkableNormalY <= 0 || c.WalkableNormalY > 1 {
		return fmt.Errorf("voxelizer: walkable_normal_y must be in (0, 1], got %v", c.WalkableNormalY)
	}
	if c.WalkableClimb < 0 {
		return fmt.Errorf("voxelizer: walkable_climb must be >= 0, got %v", c.WalkableClimb)
	}
	return nil
}
