// Stress test timing block-grid collision queries and ray intersection
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"voxsim/internal/collision"
	"voxsim/internal/world"
)

func main() {
	w := buildField()
	fmt.Printf("field: %d blocks\n\n", w.BlockCount())

	testCounts := []int{100, 500, 1000, 2000, 5000, 10000}

	for _, count := range testCounts {
		testCollisions(w, count)
	}

	fmt.Println()
	testIntersections()
}

// buildField fills a 32x4x32 slab with stone, leaving random gaps so
// boxes near the surface see a mix of hits and misses.
func buildField() *world.World {
	w := world.New(nil)
	w.RegisterType(world.BlockType{Name: "stone", Solid: true, Hardness: 1.5})

	rand.Seed(42) // Consistent results

	for x := 0; x < 32; x++ {
		for y := 0; y < 4; y++ {
			for z := 0; z < 32; z++ {
				if rand.Float64() < 0.1 {
					continue
				}
				w.SetBlock(world.BlockPos{X: x, Y: y, Z: z}, "stone")
			}
		}
	}
	return w
}

func testCollisions(w *world.World, count int) {
	boxes := make([]*collision.BoundingBox, count)
	rand.Seed(42)

	for i := range boxes {
		center := mgl64.Vec3{
			rand.Float64() * 32,
			3.5 + rand.Float64()*2, // straddle the slab surface
			rand.Float64() * 32,
		}
		boxes[i] = collision.NewBoundingBox(center, 0.5, 0.5, 0.5)
	}

	offset := mgl64.Vec3{0, -0.25, 0}

	// Warm up
	for _, box := range boxes {
		box.UpdateMovingCollisions(w, offset)
	}

	start := time.Now()
	const iterations = 10
	var colliding int
	for iter := 0; iter < iterations; iter++ {
		colliding = 0
		for _, box := range boxes {
			if box.UpdateMovingCollisions(w, offset) {
				colliding++
			}
		}
	}
	elapsed := time.Since(start) / iterations

	perBox := elapsed / time.Duration(count)
	fmt.Printf("%5d boxes: %8v (%4d colliding) | %v/box\n",
		count, elapsed.Round(time.Microsecond), colliding, perBox)
}

func testIntersections() {
	box := collision.NewBoundingBox(mgl64.Vec3{16, 2, 16}, 1, 1, 1)
	rand.Seed(42)

	starts := make([]mgl64.Vec3, 10000)
	ends := make([]mgl64.Vec3, len(starts))
	for i := range starts {
		starts[i] = mgl64.Vec3{rand.Float64() * 32, rand.Float64() * 8, rand.Float64() * 32}
		ends[i] = mgl64.Vec3{rand.Float64() * 32, rand.Float64() * 8, rand.Float64() * 32}
	}

	start := time.Now()
	var hits int
	for i := range starts {
		if _, ok := box.IntersectionPoint(starts[i], ends[i]); ok {
			hits++
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("%5d rays:  %8v (%4d hits) | %v/ray\n",
		len(starts), elapsed.Round(time.Microsecond), hits,
		elapsed/time.Duration(len(starts)))
}
