// Package world holds the sparse voxel grid and answers the bounding-box
// collision queries entities make against it.
package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"voxsim/internal/collision"
)

// World is a sparse voxel grid with a registry of block types. It is not
// safe for concurrent mutation; the simulation mutates it from the tick
// goroutine only.
type World struct {
	blocks map[BlockPos]*Block
	types  map[string]*BlockType
	log    *zap.Logger
}

func New(log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		blocks: make(map[BlockPos]*Block),
		types:  make(map[string]*BlockType),
		log:    log,
	}
}

// RegisterType adds a block type to the registry, replacing any previous
// type with the same name.
func (w *World) RegisterType(t BlockType) *BlockType {
	reg := t
	w.types[t.Name] = &reg
	return &reg
}

// Type returns the registered block type by name.
func (w *World) Type(name string) (*BlockType, bool) {
	t, ok := w.types[name]
	return t, ok
}

// SetBlock places a block of the named type at pos.
func (w *World) SetBlock(pos BlockPos, typeName string) error {
	t, ok := w.types[typeName]
	if !ok {
		return fmt.Errorf("set block at %v: unknown block type %q", pos, typeName)
	}
	w.blocks[pos] = &Block{Pos: pos, Type: t}
	return nil
}

// BlockAt returns the block occupying pos, or nil.
func (w *World) BlockAt(pos BlockPos) *Block {
	return w.blocks[pos]
}

// RemoveBlock clears the cell at pos.
func (w *World) RemoveBlock(pos BlockPos) {
	delete(w.blocks, pos)
}

// BlockCount returns the number of placed blocks.
func (w *World) BlockCount() int {
	return len(w.blocks)
}

// collidable reports whether the block participates in collision for the
// given box, per the box's category flags.
func collidable(b *Block, box *collision.BoundingBox) bool {
	if b.Type.Liquid {
		return box.CollidesWithLiquids
	}
	if !b.Type.Solid {
		return false
	}
	if b.Type.Permeable && box.IsInterior {
		return false
	}
	return true
}

// UpdateBoundingBoxCollisions implements collision.BlockAccess. The box
// arrives already displaced by offset; this walks the cells its bounds
// span in ascending X, Y, Z order, repopulates box.CollidingBlocks with
// every overlapping block, and rewrites box.CurrentCollisionDepth with the
// deepest penetration along each axis of motion. Face contact is not an
// overlap. With ignoreIfGreater set, a penetration deeper than the motion
// on that axis predates the motion (side overlap) and is not counted.
func (w *World) UpdateBoundingBoxCollisions(box *collision.BoundingBox, offset mgl64.Vec3, ignoreIfGreater bool) {
	box.CollidingBlocks = box.CollidingBlocks[:0]
	box.CurrentCollisionDepth = mgl64.Vec3{}

	minX := box.GlobalCenter.X() - box.WidthRadius
	maxX := box.GlobalCenter.X() + box.WidthRadius
	minY := box.GlobalCenter.Y() - box.HeightRadius
	maxY := box.GlobalCenter.Y() + box.HeightRadius
	minZ := box.GlobalCenter.Z() - box.DepthRadius
	maxZ := box.GlobalCenter.Z() + box.DepthRadius

	var depth mgl64.Vec3
	for cx := int(math.Floor(minX)); cx <= int(math.Floor(maxX)); cx++ {
		for cy := int(math.Floor(minY)); cy <= int(math.Floor(maxY)); cy++ {
			for cz := int(math.Floor(minZ)); cz <= int(math.Floor(maxZ)); cz++ {
				b := w.blocks[BlockPos{cx, cy, cz}]
				if b == nil || !collidable(b, box) {
					continue
				}
				// Cell spans [c, c+1) on each axis; touching faces do
				// not collide.
				cellMinX, cellMaxX := float64(cx), float64(cx)+1
				cellMinY, cellMaxY := float64(cy), float64(cy)+1
				cellMinZ, cellMaxZ := float64(cz), float64(cz)+1
				if !(minX < cellMaxX && maxX > cellMinX &&
					minY < cellMaxY && maxY > cellMinY &&
					minZ < cellMaxZ && maxZ > cellMinZ) {
					continue
				}

				box.CollidingBlocks = append(box.CollidingBlocks, b)

				if offset.X() > 0 {
					if d := maxX - cellMinX; d > 0 && (!ignoreIfGreater || d <= offset.X()) && d > depth.X() {
						depth[0] = d
					}
				} else if offset.X() < 0 {
					if d := cellMaxX - minX; d > 0 && (!ignoreIfGreater || d <= -offset.X()) && d > depth.X() {
						depth[0] = d
					}
				}
				if offset.Y() > 0 {
					if d := maxY - cellMinY; d > 0 && (!ignoreIfGreater || d <= offset.Y()) && d > depth.Y() {
						depth[1] = d
					}
				} else if offset.Y() < 0 {
					if d := cellMaxY - minY; d > 0 && (!ignoreIfGreater || d <= -offset.Y()) && d > depth.Y() {
						depth[1] = d
					}
				}
				if offset.Z() > 0 {
					if d := maxZ - cellMinZ; d > 0 && (!ignoreIfGreater || d <= offset.Z()) && d > depth.Z() {
						depth[2] = d
					}
				} else if offset.Z() < 0 {
					if d := cellMaxZ - minZ; d > 0 && (!ignoreIfGreater || d <= -offset.Z()) && d > depth.Z() {
						depth[2] = d
					}
				}
			}
		}
	}
	box.CurrentCollisionDepth = depth

	if len(box.CollidingBlocks) > 0 {
		w.log.Debug("bounding box collision",
			zap.Int("blocks", len(box.CollidingBlocks)),
			zap.Float64s("depth", depth[:]),
		)
	}
}

// BoxHit is a hit-scan result: the box struck and the entry point on it.
type BoxHit struct {
	Box      *collision.BoundingBox
	Point    mgl64.Vec3
	Distance float64
}

// HitScan finds the box whose entry point along start->end is nearest to
// start, among the given boxes. Returns false if the segment strikes none
// of them.
func HitScan(start, end mgl64.Vec3, boxes []*collision.BoundingBox) (BoxHit, bool) {
	var closest BoxHit
	closest.Distance = math.MaxFloat64
	hit := false
	for _, box := range boxes {
		point, ok := box.IntersectionPoint(start, end)
		if !ok {
			continue
		}
		dist := point.Sub(start).Len()
		if dist < closest.Distance {
			closest = BoxHit{Box: box, Point: point, Distance: dist}
			hit = true
		}
	}
	return closest, hit
}
