// Package entity ties bounding boxes to owning bodies: a pose, a set of
// named hitboxes, and a per-tick update that probes motion against the
// world before applying it.
package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"voxsim/internal/collision"
)

// HitboxDef describes one box of an entity definition, with its fixed
// offset from the entity origin and half-extents.
type HitboxDef struct {
	Name                 string
	Center               mgl64.Vec3
	Width, Height, Depth float64
	CollidesWithLiquids  bool
	Interior             bool
	Collision            bool
	ArmorThickness       float64
}

// Definition is the immutable shape of an entity kind.
type Definition struct {
	Name     string
	Hitboxes []HitboxDef
}

// Entity is one simulated body. All mutation happens on the simulation
// tick goroutine.
type Entity struct {
	ID       uuid.UUID
	Name     string
	Position mgl64.Vec3
	Angles   mgl64.Vec3 // euler degrees, applied X then Y then Z
	Motion   mgl64.Vec3 // units per second

	// Boxes holds every hitbox; CollisionBoxes is the subset used for
	// hard collision resolution, in the same order.
	Boxes          []*collision.BoundingBox
	CollisionBoxes []*collision.BoundingBox

	boxNames map[string]*collision.BoundingBox
	log      *zap.Logger
}

// New builds an entity from its definition at the given pose. Boxes start
// positioned for that pose.
func New(def Definition, position, angles mgl64.Vec3, log *zap.Logger) *Entity {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Entity{
		ID:       uuid.New(),
		Name:     def.Name,
		Position: position,
		Angles:   angles,
		boxNames: make(map[string]*collision.BoundingBox, len(def.Hitboxes)),
		log:      log,
	}
	for _, h := range def.Hitboxes {
		box := collision.NewOffsetBoundingBox(
			h.Center, position,
			h.Width, h.Height, h.Depth,
			h.CollidesWithLiquids, h.Interior, h.Collision, h.ArmorThickness)
		box.UpdateToEntity(position, angles)
		e.Boxes = append(e.Boxes, box)
		e.boxNames[h.Name] = box
		if h.Collision {
			e.CollisionBoxes = append(e.CollisionBoxes, box)
		}
	}
	return e
}

// Box returns the hitbox registered under name, or nil.
func (e *Entity) Box(name string) *collision.BoundingBox {
	return e.boxNames[name]
}

// BoxAtPoint returns the first hitbox containing point, boundary
// inclusive, or nil. Used by hit-scan consumers to attribute a strike to a
// specific box (and its armor thickness).
func (e *Entity) BoxAtPoint(point mgl64.Vec3) *collision.BoundingBox {
	for _, box := range e.Boxes {
		if box.IsPointInside(point) {
			return box
		}
	}
	return nil
}

// Tick advances the entity by dt seconds: the candidate displacement is
// probed with moving-collision queries on every collision box, shrunk per
// axis by the deepest reported penetration, and only then applied. Motion
// on a blocked axis is zeroed. Detection and depth only; there is no
// impulse response here.
func (e *Entity) Tick(w collision.BlockAccess, dt float64) {
	displacement := e.Motion.Mul(dt)

	if displacement != (mgl64.Vec3{}) && len(e.CollisionBoxes) > 0 {
		var deepest mgl64.Vec3
		for _, box := range e.CollisionBoxes {
			if !box.UpdateMovingCollisions(w, displacement) {
				continue
			}
			d := box.CurrentCollisionDepth
			if d.X() > deepest.X() {
				deepest[0] = d.X()
			}
			if d.Y() > deepest.Y() {
				deepest[1] = d.Y()
			}
			if d.Z() > deepest.Z() {
				deepest[2] = d.Z()
			}
		}
		if deepest != (mgl64.Vec3{}) {
			e.log.Debug("motion clamped",
				zap.String("entity", e.Name),
				zap.Float64s("depth", deepest[:]),
			)
		}
		displacement = clampAxis(displacement, deepest)
		for i := range deepest {
			if deepest[i] > 0 && displacement[i] == 0 {
				e.Motion[i] = 0
			}
		}
	}

	e.Position = e.Position.Add(displacement)
	for _, box := range e.Boxes {
		box.UpdateToEntity(e.Position, e.Angles)
	}
}

// clampAxis shrinks each displacement component toward zero by the
// penetration depth on that axis, never past zero.
func clampAxis(displacement, depth mgl64.Vec3) mgl64.Vec3 {
	for i := range displacement {
		if depth[i] <= 0 {
			continue
		}
		mag := math.Abs(displacement[i]) - depth[i]
		if mag < 0 {
			mag = 0
		}
		displacement[i] = math.Copysign(mag, displacement[i])
		if mag == 0 {
			displacement[i] = 0
		}
	}
	return displacement
}
