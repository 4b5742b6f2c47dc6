// Package collision implements the narrow-phase bounding volume used for
// entity hitboxes and block-grid collision resolution.
package collision

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxsim/internal/geom"
)

// Block is an opaque handle to a block reported by a collision query. The
// box stores handles but never inspects them; callers resolve them against
// the world that produced them.
type Block interface {
	// Liquid reports whether the block is a liquid cell.
	Liquid() bool
}

// BlockAccess is the world-side service a box queries for collisions. The
// implementation must, before returning, replace box.CollidingBlocks with
// the handles of every block overlapping the box at its current (offset)
// position, in its natural iteration order, and set
// box.CurrentCollisionDepth to the penetration for that overlap (zero if
// none). It may read CollidesWithLiquids and IsInterior to pick which block
// categories to test.
type BlockAccess interface {
	UpdateBoundingBoxCollisions(box *BoundingBox, offset mgl64.Vec3, ignoreIfGreater bool)
}

// BoundingBox is a mutable axis-aligned box defined by a center point and
// three half-extents (radii) rather than min/max corners. Most queries are
// "is X within radius R of the center", so radii keep the hot path on
// additions instead of corner-interval math. Width is the X radius, height
// Y, depth Z.
//
// LocalCenter is the box's fixed offset from its owner's origin and must
// never change after construction. GlobalCenter is the center in world
// space after the owner's rotation and translation; it is the only field
// expected to change every tick. A box must not be mutated from more than
// one goroutine; readers racing an update may observe the transient offset
// applied during a collision query.
type BoundingBox struct {
	LocalCenter  mgl64.Vec3
	GlobalCenter mgl64.Vec3

	WidthRadius  float64
	HeightRadius float64
	DepthRadius  float64

	// CurrentCollisionDepth is overwritten, never accumulated, by each
	// collision query.
	CurrentCollisionDepth mgl64.Vec3
	// CollidingBlocks holds borrowed handles from the most recent query,
	// in the order the world reported them.
	CollidingBlocks []Block

	CollidesWithLiquids bool
	IsInterior          bool
	// IsCollision marks a box used for hard collision resolution rather
	// than a purely informational hitbox.
	IsCollision    bool
	ArmorThickness float64

	tempGlobalCenter mgl64.Vec3
}

// NewBoundingBox returns a box whose local and global centers coincide,
// for boxes not attached to an entity. Radii must be finite and >= 0.
func NewBoundingBox(center mgl64.Vec3, widthRadius, heightRadius, depthRadius float64) *BoundingBox {
	return NewOffsetBoundingBox(center, center, widthRadius, heightRadius, depthRadius, false, false, false, 0)
}

// NewOffsetBoundingBox returns a box with an explicit local center (the
// fixed offset from the owning entity's origin) and global center. Radii
// must be finite and >= 0.
func NewOffsetBoundingBox(localCenter, globalCenter mgl64.Vec3, widthRadius, heightRadius, depthRadius float64, collidesWithLiquids, isInterior, isCollision bool, armorThickness float64) *BoundingBox {
	return &BoundingBox{
		LocalCenter:      localCenter,
		GlobalCenter:     globalCenter,
		tempGlobalCenter: globalCenter,
		WidthRadius:      widthRadius,
		HeightRadius:     heightRadius,
		DepthRadius:      depthRadius,

		CollidesWithLiquids: collidesWithLiquids,
		IsInterior:          isInterior,
		IsCollision:         isCollision,
		ArmorThickness:      armorThickness,
	}
}

// UpdateToEntity moves the box to follow its owner's pose: the local center
// rotated by the owner's angles (degrees, X then Y then Z) plus the owner's
// position. Hard-collision boxes additionally get each coordinate truncated
// toward zero at 0.1 resolution to keep floating-point noise out of block
// resolution; informational hitboxes are left exact.
func (b *BoundingBox) UpdateToEntity(position, angles mgl64.Vec3) {
	b.GlobalCenter = geom.Rotate(b.LocalCenter, angles).Add(position)
	if b.IsCollision {
		b.GlobalCenter = mgl64.Vec3{
			geom.TruncateTenth(b.GlobalCenter.X()),
			geom.TruncateTenth(b.GlobalCenter.Y()),
			geom.TruncateTenth(b.GlobalCenter.Z()),
		}
	}
}

// UpdateCollidingBlocks queries the world for blocks overlapping this box
// displaced by offset, repopulating CollidingBlocks and
// CurrentCollisionDepth. The offset is evaluative only: GlobalCenter is
// identical before and after the call. Returns whether any block collided.
func (b *BoundingBox) UpdateCollidingBlocks(w BlockAccess, offset mgl64.Vec3) bool {
	return b.updateCollisions(w, offset, false)
}

// UpdateMovingCollisions is UpdateCollidingBlocks with directional motion
// taken into account when the world computes collision depth: penetration
// deeper than the motion itself is pre-existing side overlap and ignored.
func (b *BoundingBox) UpdateMovingCollisions(w BlockAccess, offset mgl64.Vec3) bool {
	return b.updateCollisions(w, offset, true)
}

func (b *BoundingBox) updateCollisions(w BlockAccess, offset mgl64.Vec3, ignoreIfGreater bool) bool {
	b.tempGlobalCenter = b.GlobalCenter
	b.GlobalCenter = b.GlobalCenter.Add(offset)
	// The world callback is trusted but may fault; the center must be
	// restored on every exit path.
	defer func() {
		b.GlobalCenter = b.tempGlobalCenter
	}()
	w.UpdateBoundingBoxCollisions(b, offset, ignoreIfGreater)
	return len(b.CollidingBlocks) > 0
}

// IsPointInside reports whether point is inside this box. Points on the
// boundary count as inside, so hit-scan code can tell which of two adjacent
// boxes owns a shared boundary point.
func (b *BoundingBox) IsPointInside(point mgl64.Vec3) bool {
	return b.GlobalCenter.X()-b.WidthRadius <= point.X() &&
		b.GlobalCenter.X()+b.WidthRadius >= point.X() &&
		b.GlobalCenter.Y()-b.HeightRadius <= point.Y() &&
		b.GlobalCenter.Y()+b.HeightRadius >= point.Y() &&
		b.GlobalCenter.Z()-b.DepthRadius <= point.Z() &&
		b.GlobalCenter.Z()+b.DepthRadius >= point.Z()
}

// Intersects reports whether the two boxes overlap. Boxes that only touch
// at a face do not intersect; this is deliberately stricter than
// IsPointInside so overlap testing and containment testing stay distinct.
func (b *BoundingBox) Intersects(box *BoundingBox) bool {
	return b.GlobalCenter.X()-b.WidthRadius < box.GlobalCenter.X()+box.WidthRadius &&
		b.GlobalCenter.X()+b.WidthRadius > box.GlobalCenter.X()-box.WidthRadius &&
		b.GlobalCenter.Y()-b.HeightRadius < box.GlobalCenter.Y()+box.HeightRadius &&
		b.GlobalCenter.Y()+b.HeightRadius > box.GlobalCenter.Y()-box.HeightRadius &&
		b.GlobalCenter.Z()-b.DepthRadius < box.GlobalCenter.Z()+box.DepthRadius &&
		b.GlobalCenter.Z()+b.DepthRadius > box.GlobalCenter.Z()-box.DepthRadius
}

// IntersectsWithYZ reports whether point is within the box's Y and Z
// bounds, inclusive.
func (b *BoundingBox) IntersectsWithYZ(point mgl64.Vec3) bool {
	return point.Y() >= b.GlobalCenter.Y()-b.HeightRadius && point.Y() <= b.GlobalCenter.Y()+b.HeightRadius &&
		point.Z() >= b.GlobalCenter.Z()-b.DepthRadius && point.Z() <= b.GlobalCenter.Z()+b.DepthRadius
}

// IntersectsWithXZ reports whether point is within the box's X and Z
// bounds, inclusive.
func (b *BoundingBox) IntersectsWithXZ(point mgl64.Vec3) bool {
	return point.X() >= b.GlobalCenter.X()-b.WidthRadius && point.X() <= b.GlobalCenter.X()+b.WidthRadius &&
		point.Z() >= b.GlobalCenter.Z()-b.DepthRadius && point.Z() <= b.GlobalCenter.Z()+b.DepthRadius
}

// IntersectsWithXY reports whether point is within the box's X and Y
// bounds, inclusive.
func (b *BoundingBox) IntersectsWithXY(point mgl64.Vec3) bool {
	return point.X() >= b.GlobalCenter.X()-b.WidthRadius && point.X() <= b.GlobalCenter.X()+b.WidthRadius &&
		point.Y() >= b.GlobalCenter.Y()-b.HeightRadius && point.Y() <= b.GlobalCenter.Y()+b.HeightRadius
}

// XPlaneCollision returns the point where the segment start->end crosses
// the plane x = xPoint, if that point also lies within the box's Y/Z
// bounds. The second return is false when there is no such point.
func (b *BoundingBox) XPlaneCollision(start, end mgl64.Vec3, xPoint float64) (mgl64.Vec3, bool) {
	if point, ok := geom.IntermediateWithX(start, end, xPoint); ok && b.IntersectsWithYZ(point) {
		return point, true
	}
	return mgl64.Vec3{}, false
}

// YPlaneCollision is XPlaneCollision for the plane y = yPoint, bounded on
// X/Z.
func (b *BoundingBox) YPlaneCollision(start, end mgl64.Vec3, yPoint float64) (mgl64.Vec3, bool) {
	if point, ok := geom.IntermediateWithY(start, end, yPoint); ok && b.IntersectsWithXZ(point) {
		return point, true
	}
	return mgl64.Vec3{}, false
}

// ZPlaneCollision is XPlaneCollision for the plane z = zPoint, bounded on
// X/Y.
func (b *BoundingBox) ZPlaneCollision(start, end mgl64.Vec3, zPoint float64) (mgl64.Vec3, bool) {
	if point, ok := geom.IntermediateWithZ(start, end, zPoint); ok && b.IntersectsWithXY(point) {
		return point, true
	}
	return mgl64.Vec3{}, false
}

// IntersectionPoint returns the point where the segment start->end first
// enters this box, testing the six bounding planes and keeping the accepted
// intersection closest to start. Faces are evaluated X-min, X-max, Y-min,
// Y-max, Z-min, Z-max, and a later candidate only wins by being strictly
// closer; degenerate corner-grazing segments therefore resolve the same way
// every time. The second return is false when the segment misses the box.
func (b *BoundingBox) IntersectionPoint(start, end mgl64.Vec3) (mgl64.Vec3, bool) {
	var best mgl64.Vec3
	found := false
	consider := func(point mgl64.Vec3, ok bool) {
		if ok && (!found || geom.Distance(start, point) < geom.Distance(start, best)) {
			best = point
			found = true
		}
	}
	consider(b.XPlaneCollision(start, end, b.GlobalCenter.X()-b.WidthRadius))
	consider(b.XPlaneCollision(start, end, b.GlobalCenter.X()+b.WidthRadius))
	consider(b.YPlaneCollision(start, end, b.GlobalCenter.Y()-b.HeightRadius))
	consider(b.YPlaneCollision(start, end, b.GlobalCenter.Y()+b.HeightRadius))
	consider(b.ZPlaneCollision(start, end, b.GlobalCenter.Z()-b.DepthRadius))
	consider(b.ZPlaneCollision(start, end, b.GlobalCenter.Z()+b.DepthRadius))
	return best, found
}
