package voxelizer

// Splitting axes for dividePoly.
type axis int

const (
	axisX axis = 0
	axisY axis = 1
	axisZ axis = 2
)

// A triangle gains at most one vertex per axis split and is split at most
// twice per cell, so cell polygons never exceed 7 vertices. One spare slot
// absorbs the transient remainder polygons of the sweep.
const maxClipVerts = 8

// clipPoly is a flat (x, y, z) vertex buffer for one convex clip polygon.
type clipPoly [maxClipVerts * 3]float32

// dividePoly splits a convex polygon across an axis-aligned plane into the
// part with axis value <= axisOffset (outVerts1) and the part with axis
// value > axisOffset (outVerts2). Edges crossing the plane are cut at the
// exact intersection point and the cut vertex is appended to both outputs;
// vertices lying on the plane land in both outputs exactly once. An output
// with fewer than 3 vertices is empty and must be skipped by the caller.
func dividePoly(inVerts []float32, inVertsCount int32,
	outVerts1 []float32, outVerts1Count *int32,
	outVerts2 []float32, outVerts2Count *int32,
	axisOffset float32, ax axis) {

	// How far positive or negative away from the separating axis is each vertex.
	var inVertAxisDelta [maxClipVerts]float32
	for inVert := int32(0); inVert < inVertsCount; inVert++ {
		inVertAxisDelta[inVert] = axisOffset - inVerts[inVert*3+int32(ax)]
	}

	poly1Vert := int32(0)
	poly2Vert := int32(0)
	inVertA := int32(0)
	inVertB := inVertsCount - 1
	for inVertA < inVertsCount {
		// If the two vertices are on the same side of the separating axis
		sameSide := (inVertAxisDelta[inVertA] >= 0) == (inVertAxisDelta[inVertB] >= 0)

		if !sameSide {
			s := inVertAxisDelta[inVertB] / (inVertAxisDelta[inVertB] - inVertAxisDelta[inVertA])
			outVerts1[poly1Vert*3+0] = inVerts[inVertB*3+0] + (inVerts[inVertA*3+0]-inVerts[inVertB*3+0])*s
			outVerts1[poly1Vert*3+1] = inVerts[inVertB*3+1] + (inVerts[inVertA*3+1]-inVerts[inVertB*3+1])*s
			outVerts1[poly1Vert*3+2] = inVerts[inVertB*3+2] + (inVerts[inVertA*3+2]-inVerts[inVertB*3+2])*s
			copy(outVerts2[poly2Vert*3:poly2Vert*3+3], outVerts1[poly1Vert*3:poly1Vert*3+3])
			poly1Vert++
			poly2Vert++

			// Add the inVertA point to the right polygon. Do NOT add points
			// that are on the dividing line since these were already added
			// above.
			if inVertAxisDelta[inVertA] > 0 {
				copy(outVerts1[poly1Vert*3:poly1Vert*3+3], inVerts[inVertA*3:inVertA*3+3])
				poly1Vert++
			} else if inVertAxisDelta[inVertA] < 0 {
				copy(outVerts2[poly2Vert*3:poly2Vert*3+3], inVerts[inVertA*3:inVertA*3+3])
				poly2Vert++
			}
		} else {
			// Add the inVertA point to the right polygon. Addition is done
			// even for points on the dividing line.
			if inVertAxisDelta[inVertA] >= 0 {
				copy(outVerts1[poly1Vert*3:poly1Vert*3+3], inVerts[inVertA*3:inVertA*3+3])
				poly1Vert++
				if inVertAxisDelta[inVertA] != 0 {
					inVertB = inVertA
					inVertA++
					continue
				}
			}
			copy(outVerts2[poly2Vert*3:poly2Vert*3+3], inVerts[inVertA*3:inVertA*3+3])
			poly2Vert++
		}
		inVertB = inVertA
		inVertA++
	}

	*outVerts1Count = poly1Vert
	*outVerts2Count = poly2Vert
}
