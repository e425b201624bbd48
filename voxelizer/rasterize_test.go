package voxelizer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testConfig() *Config {
	return &Config{
		CellSize:        1,
		CellHeight:      1,
		WalkableNormalY: 0.5,
		WalkableClimb:   1,
		IncludeTerrain:  true,
		IncludeMeshes:   true,
		IncludeShapes:   true,
	}
}

// One upward-facing triangle covering most of the grid floor.
func floorMesh(flags TriFlags) *Mesh {
	return &Mesh{
		Class: GeometryMesh,
		Verts: []mgl32.Vec3{
			{0.1, 1, 0.1},
			{0.1, 1, 3.9},
			{3.9, 1, 0.1},
		},
		Prims: []Primitive{{V: [3]int32{0, 1, 2}, Flags: flags}},
	}
}

func rasterizeMesh(t *testing.T, cfg *Config, mesh *Mesh, set, clear TriFlags) *Heightfield {
	t.Helper()
	hf := NewHeightfield(4, 4, [3]float32{0, 0, 0}, [3]float32{4, 10, 4}, cfg.CellSize, cfg.CellHeight)
	r := NewRasterizer(cfg, hf, nil)
	r.RasterizeInstances([]*Instance{NewInstance(mesh, mgl32.Ident4(), set, clear)})
	return hf
}

func TestRasterizeWalkableTriangle(t *testing.T) {
	hf := rasterizeMesh(t, testConfig(), floorMesh(0), 0, 0)

	spans := columnSpans(hf, 0, 0)
	assertTrue(t, len(spans) == 1, "covered column gets one span")
	assertTrue(t, spans[0].SMin == 1 && spans[0].SMax == 2, "flat surface snaps to one cell")
	assertTrue(t, spans[0].Area == AreaWalkable, "upward face is walkable")

	// Sweep consistency: the cell opposite the hypotenuse is never touched.
	assertTrue(t, len(columnSpans(hf, 3, 3)) == 0, "cell outside the triangle gets no span")
}

func TestRasterizeSteepTriangleIsSolid(t *testing.T) {
	wall := &Mesh{
		Class: GeometryMesh,
		Verts: []mgl32.Vec3{
			{1, 0, 0.5},
			{1, 3, 0.5},
			{1, 0, 3.5},
		},
		Prims: []Primitive{{V: [3]int32{0, 1, 2}}},
	}
	hf := rasterizeMesh(t, testConfig(), wall, 0, 0)
	spans := columnSpans(hf, 1, 1)
	assertTrue(t, len(spans) == 1, "vertical wall rasterizes into its column")
	assertTrue(t, spans[0].Area == AreaSolid, "face below the normal threshold is unwalkable")
}

func TestRasterizeFlagClassification(t *testing.T) {
	hf := rasterizeMesh(t, testConfig(), floorMesh(FlagForceUnwalkable), 0, 0)
	assertTrue(t, columnSpans(hf, 0, 0)[0].Area == AreaSolid, "forced flag overrides slope")

	hf = rasterizeMesh(t, testConfig(), floorMesh(FlagUnlandable), 0, 0)
	assertTrue(t, columnSpans(hf, 0, 0)[0].Area == AreaUnlandable, "unlandable flag tags the area")

	hf = rasterizeMesh(t, testConfig(), floorMesh(FlagFlyThrough), 0, 0)
	assertTrue(t, hf.SpanCount() == 0, "fly-through primitives are skipped entirely")
}

func TestRasterizeInstanceFlagOverrides(t *testing.T) {
	// Instance-level set forces the whole mesh unwalkable.
	hf := rasterizeMesh(t, testConfig(), floorMesh(0), FlagForceUnwalkable, 0)
	assertTrue(t, columnSpans(hf, 0, 0)[0].Area == AreaSolid, "instance set-flags apply")

	// Instance-level clear strips the primitive's own flag.
	hf = rasterizeMesh(t, testConfig(), floorMesh(FlagForceUnwalkable), 0, FlagForceUnwalkable)
	assertTrue(t, columnSpans(hf, 0, 0)[0].Area == AreaWalkable, "instance clear-flags apply")
}

func TestRasterizeClassSwitches(t *testing.T) {
	cfg := testConfig()
	cfg.IncludeMeshes = false
	hf := rasterizeMesh(t, cfg, floorMesh(0), 0, 0)
	assertTrue(t, hf.SpanCount() == 0, "excluded geometry class is not rasterized")

	cfg.IncludeMeshes = true
	hf = rasterizeMesh(t, cfg, floorMesh(0), 0, 0)
	assertTrue(t, hf.SpanCount() > 0, "included geometry class is rasterized")
}

func TestRasterizeOutsideGridRejected(t *testing.T) {
	mesh := &Mesh{
		Class: GeometryMesh,
		Verts: []mgl32.Vec3{
			// One triangle fully below x=0, one inside to keep the
			// instance bounds overlapping the grid.
			{-3, 1, 0.5}, {-3, 1, 2.5}, {-1, 1, 0.5},
			{0.2, 1, 0.2}, {0.2, 1, 0.8}, {0.8, 1, 0.2},
		},
		Prims: []Primitive{
			{V: [3]int32{0, 1, 2}},
			{V: [3]int32{3, 4, 5}},
		},
	}
	hf := rasterizeMesh(t, testConfig(), mesh, 0, 0)
	assertTrue(t, len(columnSpans(hf, 0, 0)) == 1, "inside triangle rasterized")
	assertTrue(t, hf.SpanCount() == 1, "outside triangle contributes nothing")
}

func TestRasterizeInstanceTransform(t *testing.T) {
	// The floor mesh shifted up by 5 units through the instance transform.
	hf := NewHeightfield(4, 4, [3]float32{0, 0, 0}, [3]float32{4, 10, 4}, 1, 1)
	r := NewRasterizer(testConfig(), hf, nil)
	inst := NewInstance(floorMesh(0), mgl32.Translate3D(0, 5, 0), 0, 0)
	r.RasterizeInstances([]*Instance{inst})

	spans := columnSpans(hf, 0, 0)
	assertTrue(t, len(spans) == 1, "transformed triangle rasterized")
	assertTrue(t, spans[0].SMin == 6 && spans[0].SMax == 7, "span follows the world transform")
}
