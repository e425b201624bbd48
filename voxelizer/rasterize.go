package voxelizer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"voxnav/common"
)

// Outside flags, one bit per heightfield bounding box face. A triangle whose
// three vertices share a set bit lies entirely outside that face.
const (
	outsideXMin uint8 = 1 << iota
	outsideXMax
	outsideYMin
	outsideYMax
	outsideZMin
	outsideZMax
)

// Rasterizer converts instanced scene geometry into heightfield spans. It
// owns all scratch state for a pass; not safe for concurrent use.
type Rasterizer struct {
	cfg   *Config
	hf    *Heightfield
	isect *IntersectionSet
	log   *zap.Logger

	verts []float32 // world-space vertices of the current instance
	flags []uint8   // per-vertex outside flags
	fetch []uint32  // sorted-crossing scratch for the interior fill

	// Sweep scratch polygons. The row loop rotates (tri, row, rest) and the
	// column loop rotates (row, cell, rest); tri always carries the part of
	// the triangle still ahead of the row sweep.
	tri  clipPoly
	row  clipPoly
	cell clipPoly
	rest clipPoly
}

func NewRasterizer(cfg *Config, hf *Heightfield, logger *zap.Logger) *Rasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Rasterizer{cfg: cfg, hf: hf, log: logger}
	if cfg.InteriorFill {
		r.isect = NewIntersectionSet(hf.Width * hf.Height)
	}
	return r
}

func (r *Rasterizer) includes(class GeometryClass) bool {
	switch class {
	case GeometryTerrain:
		return r.cfg.IncludeTerrain
	case GeometryMesh:
		return r.cfg.IncludeMeshes
	case GeometryShape:
		return r.cfg.IncludeShapes
	}
	return false
}

func overlapBounds(aMin, aMax, bMin, bMax []float32) bool {
	return aMin[0] <= bMax[0] && aMax[0] >= bMin[0] &&
		aMin[1] <= bMax[1] && aMax[1] >= bMin[1] &&
		aMin[2] <= bMax[2] && aMax[2] >= bMin[2]
}

// RasterizeInstances rasterizes every instance whose mesh class is selected
// by the build settings and whose world bounds overlap the grid.
func (r *Rasterizer) RasterizeInstances(instances []*Instance) {
	for _, inst := range instances {
		if !r.includes(inst.Mesh.Class) {
			continue
		}
		if !overlapBounds(inst.BMin[:], inst.BMax[:], r.hf.BMin[:], r.hf.BMax[:]) {
			continue
		}
		r.rasterizeInstance(inst)
	}
}

func (r *Rasterizer) rasterizeInstance(inst *Instance) {
	mesh := inst.Mesh
	if cap(r.verts) < len(mesh.Verts)*3 {
		r.verts = make([]float32, len(mesh.Verts)*3)
		r.flags = make([]uint8, len(mesh.Verts))
	}
	r.verts = r.verts[:len(mesh.Verts)*3]
	r.flags = r.flags[:len(mesh.Verts)]

	for i, v := range mesh.Verts {
		w := mgl32.TransformCoordinate(v, inst.Transform)
		copy(r.verts[i*3:], w[:])
		r.flags[i] = outsideFlags(w[:], r.hf.BMin[:], r.hf.BMax[:])
	}

	spansBefore := 0
	if ce := r.log.Check(zap.DebugLevel, "rasterize instance"); ce != nil {
		spansBefore = r.hf.SpanCount()
	}

	var norm [3]float32
	for _, p := range mesh.Prims {
		flags := inst.primFlags(p)
		if flags&FlagFlyThrough != 0 {
			// Known gap: fly-through geometry is not rasterized into any
			// structure.
			continue
		}
		if r.flags[p.V[0]]&r.flags[p.V[1]]&r.flags[p.V[2]] != 0 {
			continue
		}
		v0 := common.GetVert3(r.verts, p.V[0])
		v1 := common.GetVert3(r.verts, p.V[1])
		v2 := common.GetVert3(r.verts, p.V[2])
		common.CalcTriNormal(v0, v1, v2, norm[:])

		area := AreaWalkable
		switch {
		case flags&FlagForceUnwalkable != 0 || norm[1] < r.cfg.WalkableNormalY:
			area = AreaSolid
		case flags&FlagUnlandable != 0:
			area = AreaUnlandable
		}
		r.rasterizeTri(v0, v1, v2, norm[1], area)
	}

	if r.isect != nil {
		r.fillInterior(inst)
		r.isect.Clear()
	}

	if ce := r.log.Check(zap.DebugLevel, "rasterize instance"); ce != nil {
		ce.Write(
			zap.Int("prims", len(mesh.Prims)),
			zap.Int("spans", r.hf.SpanCount()-spansBefore),
		)
	}
}

func outsideFlags(v, bmin, bmax []float32) uint8 {
	var flags uint8
	if v[0] < bmin[0] {
		flags |= outsideXMin
	}
	if v[0] > bmax[0] {
		flags |= outsideXMax
	}
	if v[1] < bmin[1] {
		flags |= outsideYMin
	}
	if v[1] > bmax[1] {
		flags |= outsideYMax
	}
	if v[2] < bmin[2] {
		flags |= outsideZMin
	}
	if v[2] > bmax[2] {
		flags |= outsideZMax
	}
	return flags
}

// rasterizeTri clips one world-space triangle into every grid cell it
// touches and inserts the resulting vertical spans. This code is extremely
// hot; the sweep reuses the rasterizer's scratch polygons and allocates
// nothing.
func (r *Rasterizer) rasterizeTri(v0, v1, v2 []float32, normalY float32, area uint8) {
	hf := r.hf
	bmin := hf.BMin[:]
	bmax := hf.BMax[:]
	cs := hf.Cs
	ics := 1.0 / hf.Cs
	ich := 1.0 / hf.Ch

	// Calculate the bounding box of the triangle.
	var triBBMin, triBBMax [3]float32
	copy(triBBMin[:], v0)
	common.Vmin(triBBMin[:], v1)
	common.Vmin(triBBMin[:], v2)
	copy(triBBMax[:], v0)
	common.Vmax(triBBMax[:], v1)
	common.Vmax(triBBMax[:], v2)

	// If the triangle does not touch the bounding box of the heightfield,
	// skip the triangle.
	if !overlapBounds(triBBMin[:], triBBMax[:], bmin, bmax) {
		return
	}

	w := hf.Width
	h := hf.Height
	by := bmax[1] - bmin[1]

	// Calculate the footprint of the triangle on the grid's z-axis.
	z0 := int32((triBBMin[2] - bmin[2]) * ics)
	z1 := int32((triBBMax[2] - bmin[2]) * ics)

	// Use -1 rather than 0 to cut the polygon properly at the start of the
	// tile.
	z0 = common.Clamp(z0, -1, h-1)
	z1 = common.Clamp(z1, 0, h-1)

	// Clip the triangle into all grid cells it touches.
	tri, row, cell, rest := r.tri[:], r.row[:], r.cell[:], r.rest[:]
	copy(tri[0:], v0)
	copy(tri[1*3:], v1)
	copy(tri[2*3:], v2)
	var nvRow int32
	nvTri := int32(3)

	for z := z0; z <= z1; z++ {
		// Clip the polygon to the row; rest receives the part carried to the
		// rows above, and rotates into tri for the next iteration.
		cellZ := bmin[2] + float32(z)*cs
		dividePoly(tri, nvTri, row, &nvRow, rest, &nvTri, cellZ+cs, axisZ)
		tri, rest = rest, tri

		if nvRow < 3 {
			continue
		}
		if z < 0 {
			continue
		}

		// Find X-axis bounds of the row.
		minX := row[0]
		maxX := row[0]
		for vert := int32(1); vert < nvRow; vert++ {
			minX = min(minX, row[vert*3])
			maxX = max(maxX, row[vert*3])
		}
		x0 := int32((minX - bmin[0]) * ics)
		x1 := int32((maxX - bmin[0]) * ics)
		if x1 < 0 || x0 >= w {
			continue
		}
		x0 = common.Clamp(x0, -1, w-1)
		x1 = common.Clamp(x1, 0, w-1)

		var nvCell int32
		nvRow2 := nvRow

		for x := x0; x <= x1; x++ {
			// Clip the row polygon to the column; the remainder rotates back
			// into row for the next column.
			cx := bmin[0] + float32(x)*cs
			dividePoly(row, nvRow2, cell, &nvCell, rest, &nvRow2, cx+cs, axisX)
			row, rest = rest, row

			if nvCell < 3 {
				continue
			}
			if x < 0 {
				continue
			}

			if r.isect != nil {
				r.recordCrossing(v0, v1, v2, normalY, x, z)
			}

			// Calculate min and max of the span.
			spanMin := cell[1]
			spanMax := cell[1]
			for vert := int32(1); vert < nvCell; vert++ {
				spanMin = min(spanMin, cell[vert*3+1])
				spanMax = max(spanMax, cell[vert*3+1])
			}
			spanMin -= bmin[1]
			spanMax -= bmin[1]

			// Skip the span if it's completely outside the heightfield
			// bounding box.
			if spanMax < 0.0 {
				continue
			}
			if spanMin > by {
				continue
			}

			// Clamp the span to the heightfield bounding box.
			if spanMin < 0.0 {
				spanMin = 0
			}
			if spanMax > by {
				spanMax = by
			}

			// Snap the span to the heightfield height grid.
			spanMinCellIndex := common.Clamp(int32(math.Floor(float64(spanMin*ich))), 0, SpanMaxHeight)
			spanMaxCellIndex := common.Clamp(int32(math.Ceil(float64(spanMax*ich))), spanMinCellIndex+1, SpanMaxHeight)

			hf.AddSpan(x, z, uint32(spanMinCellIndex), uint32(spanMaxCellIndex), area, r.cfg.WalkableClimb)
		}
	}
}

// recordCrossing intersects the vertical ray through cell (x, z)'s center
// with the unclipped triangle and records the crossing for the interior
// fill. The barycentric solve runs in the xz plane; a zero denominator
// (ray parallel to the triangle) contributes nothing.
func (r *Rasterizer) recordCrossing(v0, v1, v2 []float32, normalY float32, x, z int32) {
	hf := r.hf
	px := hf.BMin[0] + (float32(x)+0.5)*hf.Cs
	pz := hf.BMin[2] + (float32(z)+0.5)*hf.Cs

	abx := v1[0] - v0[0]
	aby := v1[1] - v0[1]
	abz := v1[2] - v0[2]
	acx := v2[0] - v0[0]
	acy := v2[1] - v0[1]
	acz := v2[2] - v0[2]
	apx := px - v0[0]
	apz := pz - v0[2]

	div := acz*abx - acx*abz
	if div == 0 {
		return
	}
	c := (apz*abx - apx*abz) / div
	b := (apx*acz - apz*acx) / div
	if b < 0 || c < 0 || b+c > 1 {
		return
	}

	y := v0[1] + b*aby + c*acy
	r.isect.Add(x+z*hf.Width, y-hf.BMin[1], normalY > 0)
}
