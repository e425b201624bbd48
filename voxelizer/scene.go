package voxelizer

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxnav/common"
)

// GeometryClass tags where a mesh came from; the build settings select which
// classes participate in a pass.
type GeometryClass uint8

const (
	GeometryTerrain GeometryClass = iota
	GeometryMesh
	GeometryShape // analytic shapes, pre-triangulated by the extractor
)

// TriFlags are per-primitive rasterization flags.
type TriFlags uint8

const (
	// Rasterize as solid regardless of slope.
	FlagForceUnwalkable TriFlags = 1 << iota
	// Surface can be traversed but not landed on.
	FlagUnlandable
	// Geometry agents pass through; never rasterized.
	FlagFlyThrough
)

// Primitive is one triangle of a mesh: three vertex indices and its flags.
type Primitive struct {
	V     [3]int32
	Flags TriFlags
}

// Mesh is read-only input geometry shared by any number of instances.
type Mesh struct {
	Class GeometryClass
	Verts []mgl32.Vec3
	Prims []Primitive
}

// Instance places a mesh in the world. SetFlags/ClearFlags override the
// primitive flags of every triangle: effective = (flags | Set) &^ Clear.
type Instance struct {
	Mesh       *Mesh
	Transform  mgl32.Mat4
	SetFlags   TriFlags
	ClearFlags TriFlags

	// World-space bounds, derived from the mesh bounds and the transform.
	BMin [3]float32
	BMax [3]float32
}

func NewInstance(m *Mesh, transform mgl32.Mat4, set, clear TriFlags) *Instance {
	inst := &Instance{Mesh: m, Transform: transform, SetFlags: set, ClearFlags: clear}
	inst.calcWorldBounds()
	return inst
}

func (inst *Instance) calcWorldBounds() {
	m := inst.Mesh
	if len(m.Verts) == 0 {
		return
	}
	lmin, lmax := m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		common.Vmin(lmin[:], v[:])
		common.Vmax(lmax[:], v[:])
	}
	// Transform the eight local bbox corners rather than every vertex.
	first := true
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{lmin[0], lmin[1], lmin[2]}
		if i&1 != 0 {
			c[0] = lmax[0]
		}
		if i&2 != 0 {
			c[1] = lmax[1]
		}
		if i&4 != 0 {
			c[2] = lmax[2]
		}
		w := mgl32.TransformCoordinate(c, inst.Transform)
		if first {
			copy(inst.BMin[:], w[:])
			copy(inst.BMax[:], w[:])
			first = false
			continue
		}
		common.Vmin(inst.BMin[:], w[:])
		common.Vmax(inst.BMax[:], w[:])
	}
}

func (inst *Instance) primFlags(p Primitive) TriFlags {
	return (p.Flags | inst.SetFlags) &^ inst.ClearFlags
}
