// Package config loads simulation scenarios from YAML: the block type
// palette, the placed voxels, and the entities with their hitbox sets.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"voxsim/internal/entity"
	"voxsim/internal/world"
)

type BlockTypeDef struct {
	Name      string  `yaml:"name"`
	Solid     bool    `yaml:"solid"`
	Liquid    bool    `yaml:"liquid"`
	Permeable bool    `yaml:"permeable"`
	Hardness  float64 `yaml:"hardness"`
}

type BlockDef struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Z    int    `yaml:"z"`
	Type string `yaml:"type"`
}

// Fill places a rectangular slab of one block type, both corners
// inclusive. Scenario files use it for floors and walls.
type FillDef struct {
	From [3]int `yaml:"from"`
	To   [3]int `yaml:"to"`
	Type string `yaml:"type"`
}

type HitboxDef struct {
	Name           string     `yaml:"name"`
	Center         [3]float64 `yaml:"center"`
	Width          float64    `yaml:"width"`
	Height         float64    `yaml:"height"`
	Depth          float64    `yaml:"depth"`
	Liquids        bool       `yaml:"liquids"`
	Interior       bool       `yaml:"interior"`
	Collision      bool       `yaml:"collision"`
	ArmorThickness float64    `yaml:"armor"`
}

type EntityDef struct {
	Name     string      `yaml:"name"`
	Position [3]float64  `yaml:"position"`
	Angles   [3]float64  `yaml:"angles"`
	Motion   [3]float64  `yaml:"motion"`
	Hitboxes []HitboxDef `yaml:"hitboxes"`
}

type Scenario struct {
	TickRate   int            `yaml:"tick_rate"`
	Ticks      int            `yaml:"ticks"`
	BlockTypes []BlockTypeDef `yaml:"block_types"`
	Blocks     []BlockDef     `yaml:"blocks"`
	Fills      []FillDef      `yaml:"fills"`
	Entities   []EntityDef    `yaml:"entities"`
}

// Load decodes a scenario from r and applies defaults.
func Load(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if s.TickRate <= 0 {
		s.TickRate = 20
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile loads a scenario from the named file.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (s *Scenario) validate() error {
	types := make(map[string]bool, len(s.BlockTypes))
	for _, t := range s.BlockTypes {
		if t.Name == "" {
			return fmt.Errorf("block type with empty name")
		}
		types[t.Name] = true
	}
	for _, b := range s.Blocks {
		if !types[b.Type] {
			return fmt.Errorf("block at (%d,%d,%d) references unknown type %q", b.X, b.Y, b.Z, b.Type)
		}
	}
	for _, f := range s.Fills {
		if !types[f.Type] {
			return fmt.Errorf("fill %v..%v references unknown type %q", f.From, f.To, f.Type)
		}
	}
	for _, e := range s.Entities {
		if e.Name == "" {
			return fmt.Errorf("entity with empty name")
		}
		for _, h := range e.Hitboxes {
			if h.Width < 0 || h.Height < 0 || h.Depth < 0 {
				return fmt.Errorf("entity %q hitbox %q has negative radii", e.Name, h.Name)
			}
		}
	}
	return nil
}

// BuildWorld registers the block palette and places all blocks and fills.
func (s *Scenario) BuildWorld(w *world.World) error {
	for _, t := range s.BlockTypes {
		w.RegisterType(world.BlockType{
			Name:      t.Name,
			Solid:     t.Solid,
			Liquid:    t.Liquid,
			Permeable: t.Permeable,
			Hardness:  t.Hardness,
		})
	}
	for _, b := range s.Blocks {
		if err := w.SetBlock(world.BlockPos{X: b.X, Y: b.Y, Z: b.Z}, b.Type); err != nil {
			return err
		}
	}
	for _, f := range s.Fills {
		for x := min(f.From[0], f.To[0]); x <= max(f.From[0], f.To[0]); x++ {
			for y := min(f.From[1], f.To[1]); y <= max(f.From[1], f.To[1]); y++ {
				for z := min(f.From[2], f.To[2]); z <= max(f.From[2], f.To[2]); z++ {
					if err := w.SetBlock(world.BlockPos{X: x, Y: y, Z: z}, f.Type); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// EntityDefinition converts a scenario entity into the runtime definition.
func (e EntityDef) EntityDefinition() entity.Definition {
	def := entity.Definition{Name: e.Name}
	for _, h := range e.Hitboxes {
		def.Hitboxes = append(def.Hitboxes, entity.HitboxDef{
			Name:                h.Name,
			Center:              vec3(h.Center),
			Width:               h.Width,
			Height:              h.Height,
			Depth:               h.Depth,
			CollidesWithLiquids: h.Liquids,
			Interior:            h.Interior,
			Collision:           h.Collision,
			ArmorThickness:      h.ArmorThickness,
		})
	}
	return def
}

// Vec3 fields as mgl64 values.
func (e EntityDef) PositionVec() mgl64.Vec3 { return vec3(e.Position) }
func (e EntityDef) AnglesVec() mgl64.Vec3   { return vec3(e.Angles) }
func (e EntityDef) MotionVec() mgl64.Vec3   { return vec3(e.Motion) }

func vec3(v [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}
