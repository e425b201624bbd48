package voxelizer

import (
	"math"

	"voxnav/common"
)

// fillInterior synthesizes solid spans for the enclosed volume of one
// instance after all of its triangles have been rasterized. For every
// column under the instance's world bounds the sorted ray crossings are
// consumed as down/up parity pairs bounding solid material.
func (r *Rasterizer) fillInterior(inst *Instance) {
	hf := r.hf
	ics := 1.0 / hf.Cs
	x0 := common.Clamp(int32((inst.BMin[0]-hf.BMin[0])*ics), 0, hf.Width-1)
	x1 := common.Clamp(int32((inst.BMax[0]-hf.BMin[0])*ics), 0, hf.Width-1)
	z0 := common.Clamp(int32((inst.BMin[2]-hf.BMin[2])*ics), 0, hf.Height-1)
	z1 := common.Clamp(int32((inst.BMax[2]-hf.BMin[2])*ics), 0, hf.Height-1)

	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			r.fetch = r.isect.FetchSorted(x+z*hf.Width, r.fetch[:0])
			fillColumn(hf, x, z, r.fetch, r.cfg.WalkableClimb)
		}
	}
}

// fillColumn turns one column's ascending crossing list into solid spans.
//
// A well-formed manifold alternates down-facing (enter solid) and up-facing
// (exit solid) crossings. A column that starts with an up-facing crossing
// has no matching entry below it; the mesh is open at the bottom of the ray
// and the column is assumed solid from height 0 up to that crossing. This
// heuristic is deliberate; do not "fix" it.
func fillColumn(hf *Heightfield, x, z int32, sorted []uint32, mergeThreshold int32) {
	if len(sorted) == 0 {
		return
	}
	ich := 1.0 / hf.Ch

	i := 0
	if _, up := DecodeCrossing(sorted[0]); up {
		exit, _ := DecodeCrossing(sorted[0])
		insertSolid(hf, x, z, 0, int32(math.Floor(float64(exit*ich))), mergeThreshold)
		i = 1
	}

	for i < len(sorted) {
		// Skip stray up-facing crossings.
		for i < len(sorted) {
			if _, up := DecodeCrossing(sorted[i]); !up {
				break
			}
			i++
		}
		if i >= len(sorted) {
			break
		}
		enter, _ := DecodeCrossing(sorted[i])

		// Collapse duplicate down-facing crossings.
		for i < len(sorted) {
			if _, up := DecodeCrossing(sorted[i]); up {
				break
			}
			i++
		}
		if i >= len(sorted) {
			break
		}
		exit, _ := DecodeCrossing(sorted[i])
		i++

		// Inset one voxel at each end: the surface voxels are already
		// produced by the normal rasterization of the bounding faces.
		smin := int32(math.Floor(float64(enter*ich))) + 1
		smax := int32(math.Floor(float64(exit*ich)))
		insertSolid(hf, x, z, smin, smax, mergeThreshold)
	}
}

func insertSolid(hf *Heightfield, x, z, smin, smax, mergeThreshold int32) {
	smin = common.Clamp(smin, 0, SpanMaxHeight)
	smax = common.Clamp(smax, 0, SpanMaxHeight)
	if smax <= smin {
		return
	}
	hf.AddSpan(x, z, uint32(smin), uint32(smax), AreaSolid, mergeThreshold)
}
