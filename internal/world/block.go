package world

import "fmt"

// BlockPos addresses the voxel cell spanning [X,X+1) x [Y,Y+1) x [Z,Z+1)
// in world space.
type BlockPos struct {
	X, Y, Z int
}

func (p BlockPos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// BlockType describes a registered block category. Solid blocks always
// collide; liquid blocks collide only with boxes that opt in; permeable
// blocks (foliage and the like) are skipped for interior boxes, which sit
// inside a hull and only care about hard terrain.
type BlockType struct {
	Name      string
	Solid     bool
	Liquid    bool
	Permeable bool
	Hardness  float64
}

// Block is one placed voxel. Pointers to it are handed out as collision
// handles; the world retains ownership of the block's lifetime.
type Block struct {
	Pos  BlockPos
	Type *BlockType
}

// Liquid satisfies collision.Block.
func (b *Block) Liquid() bool {
	return b.Type.Liquid
}

// Hardness returns the block type's hardness, consumed by damage logic.
func (b *Block) Hardness() float64 {
	return b.Type.Hardness
}
