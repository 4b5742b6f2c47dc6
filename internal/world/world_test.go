package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"voxsim/internal/collision"
)

func testWorld(t *testing.T) *World {
	t.Helper()
	w := New(nil)
	w.RegisterType(BlockType{Name: "stone", Solid: true, Hardness: 1.5})
	w.RegisterType(BlockType{Name: "water", Liquid: true})
	w.RegisterType(BlockType{Name: "leaves", Solid: true, Permeable: true, Hardness: 0.2})
	w.RegisterType(BlockType{Name: "air"})
	return w
}

func TestSetBlockUnknownType(t *testing.T) {
	w := testWorld(t)
	if err := w.SetBlock(BlockPos{0, 0, 0}, "bedrock"); err == nil {
		t.Error("expected error for unregistered block type")
	}
}

func TestBlockPlacement(t *testing.T) {
	w := testWorld(t)
	pos := BlockPos{2, -1, 3}
	if err := w.SetBlock(pos, "stone"); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	b := w.BlockAt(pos)
	if b == nil || b.Type.Name != "stone" {
		t.Fatalf("BlockAt(%v) = %v, want stone block", pos, b)
	}
	if b.Hardness() != 1.5 {
		t.Errorf("Hardness = %v, want 1.5", b.Hardness())
	}
	if w.BlockCount() != 1 {
		t.Errorf("BlockCount = %d, want 1", w.BlockCount())
	}
	w.RemoveBlock(pos)
	if w.BlockAt(pos) != nil || w.BlockCount() != 0 {
		t.Error("block not removed")
	}
}

func TestCollisionAgainstFloor(t *testing.T) {
	w := testWorld(t)
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			if err := w.SetBlock(BlockPos{x, 0, z}, "stone"); err != nil {
				t.Fatal(err)
			}
		}
	}

	// A unit box resting exactly on the floor only touches faces.
	box := collision.NewBoundingBox(mgl64.Vec3{0.5, 1.5, 0.5}, 0.5, 0.5, 0.5)
	if box.UpdateCollidingBlocks(w, mgl64.Vec3{}) {
		t.Error("face contact with the floor should not collide")
	}

	// Moving down by 0.2 pushes it into the floor by 0.2.
	if !box.UpdateMovingCollisions(w, mgl64.Vec3{0, -0.2, 0}) {
		t.Fatal("expected collision when moving into the floor")
	}
	if len(box.CollidingBlocks) != 1 {
		t.Errorf("got %d colliding blocks, want 1", len(box.CollidingBlocks))
	}
	if d := box.CurrentCollisionDepth.Y(); math.Abs(d-0.2) > 1e-9 {
		t.Errorf("collision depth Y = %v, want 0.2", d)
	}
	if box.CurrentCollisionDepth.X() != 0 || box.CurrentCollisionDepth.Z() != 0 {
		t.Errorf("depth on non-motion axes = %v, want zero", box.CurrentCollisionDepth)
	}
	// The probe must not move the box.
	if box.GlobalCenter != (mgl64.Vec3{0.5, 1.5, 0.5}) {
		t.Errorf("GlobalCenter = %v after probe, want (0.5,1.5,0.5)", box.GlobalCenter)
	}
}

func TestIgnoreIfGreaterSkipsPreexistingOverlap(t *testing.T) {
	w := testWorld(t)
	if err := w.SetBlock(BlockPos{0, 0, 0}, "stone"); err != nil {
		t.Fatal(err)
	}

	// Box already half sunk into the cell: penetration 0.6 after a 0.1
	// downward probe, far deeper than the probe itself.
	box := collision.NewBoundingBox(mgl64.Vec3{0.5, 1.0, 0.5}, 0.5, 0.5, 0.5)

	if !box.UpdateMovingCollisions(w, mgl64.Vec3{0, -0.1, 0}) {
		t.Fatal("expected overlap to be reported")
	}
	if d := box.CurrentCollisionDepth.Y(); d != 0 {
		t.Errorf("moving query counted pre-existing overlap: depth Y = %v, want 0", d)
	}

	// The static variant reports the full penetration.
	if !box.UpdateCollidingBlocks(w, mgl64.Vec3{0, -0.1, 0}) {
		t.Fatal("expected overlap to be reported")
	}
	if d := box.CurrentCollisionDepth.Y(); math.Abs(d-0.6) > 1e-9 {
		t.Errorf("static query depth Y = %v, want 0.6", d)
	}
}

func TestLiquidCategoryFilter(t *testing.T) {
	w := testWorld(t)
	if err := w.SetBlock(BlockPos{0, 0, 0}, "water"); err != nil {
		t.Fatal(err)
	}

	dry := collision.NewBoundingBox(mgl64.Vec3{0.5, 0.5, 0.5}, 0.5, 0.5, 0.5)
	if dry.UpdateCollidingBlocks(w, mgl64.Vec3{}) {
		t.Error("box without liquid flag should pass through water")
	}

	wet := collision.NewOffsetBoundingBox(
		mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0.5, 0.5, 0.5},
		0.5, 0.5, 0.5, true, false, false, 0)
	if !wet.UpdateCollidingBlocks(w, mgl64.Vec3{}) {
		t.Error("box with liquid flag should collide with water")
	}
	if len(wet.CollidingBlocks) != 1 || !wet.CollidingBlocks[0].Liquid() {
		t.Error("expected one liquid handle")
	}
}

func TestPermeableSkippedForInteriorBoxes(t *testing.T) {
	w := testWorld(t)
	if err := w.SetBlock(BlockPos{0, 0, 0}, "leaves"); err != nil {
		t.Fatal(err)
	}

	interior := collision.NewOffsetBoundingBox(
		mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0.5, 0.5, 0.5},
		0.5, 0.5, 0.5, false, true, false, 0)
	if interior.UpdateCollidingBlocks(w, mgl64.Vec3{}) {
		t.Error("interior box should ignore permeable blocks")
	}

	exterior := collision.NewBoundingBox(mgl64.Vec3{0.5, 0.5, 0.5}, 0.5, 0.5, 0.5)
	if !exterior.UpdateCollidingBlocks(w, mgl64.Vec3{}) {
		t.Error("exterior box should collide with permeable blocks")
	}
}

func TestNonSolidNeverCollides(t *testing.T) {
	w := testWorld(t)
	if err := w.SetBlock(BlockPos{0, 0, 0}, "air"); err != nil {
		t.Fatal(err)
	}
	box := collision.NewBoundingBox(mgl64.Vec3{0.5, 0.5, 0.5}, 0.5, 0.5, 0.5)
	if box.UpdateCollidingBlocks(w, mgl64.Vec3{}) {
		t.Error("non-solid, non-liquid block should never collide")
	}
}

func TestCollidingBlocksReportedInCellOrder(t *testing.T) {
	w := testWorld(t)
	// Deliberately placed out of order; the walk is ascending X, Y, Z.
	for _, pos := range []BlockPos{{1, 0, 0}, {0, 0, 1}, {0, 0, 0}, {1, 0, 1}} {
		if err := w.SetBlock(pos, "stone"); err != nil {
			t.Fatal(err)
		}
	}

	box := collision.NewBoundingBox(mgl64.Vec3{1, 0.5, 1}, 0.9, 0.4, 0.9)
	if !box.UpdateCollidingBlocks(w, mgl64.Vec3{}) {
		t.Fatal("expected collisions")
	}
	want := []BlockPos{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {1, 0, 1}}
	if len(box.CollidingBlocks) != len(want) {
		t.Fatalf("got %d colliding blocks, want %d", len(box.CollidingBlocks), len(want))
	}
	for i, h := range box.CollidingBlocks {
		b, ok := h.(*Block)
		if !ok {
			t.Fatalf("handle %d is %T, want *world.Block", i, h)
		}
		if b.Pos != want[i] {
			t.Errorf("block %d at %v, want %v", i, b.Pos, want[i])
		}
	}
}

func TestHitScan(t *testing.T) {
	near := collision.NewBoundingBox(mgl64.Vec3{5, 0, 0}, 1, 1, 1)
	far := collision.NewBoundingBox(mgl64.Vec3{10, 0, 0}, 1, 1, 1)
	aside := collision.NewBoundingBox(mgl64.Vec3{5, 10, 0}, 1, 1, 1)
	boxes := []*collision.BoundingBox{far, near, aside}

	hit, ok := HitScan(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{20, 0, 0}, boxes)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Box != near {
		t.Error("hit-scan should return the nearest box")
	}
	if hit.Point.Sub(mgl64.Vec3{4, 0, 0}).Len() > 1e-9 {
		t.Errorf("hit point = %v, want (4,0,0)", hit.Point)
	}
	if math.Abs(hit.Distance-4) > 1e-9 {
		t.Errorf("hit distance = %v, want 4", hit.Distance)
	}

	if _, ok := HitScan(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{20, 5, 0}, boxes); ok {
		t.Error("segment clear of all boxes should miss")
	}
}
