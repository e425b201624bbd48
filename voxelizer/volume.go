package voxelizer

import (
	"voxnav/navmesh"
)

// Occupancy codes carried by volume leaf tiles, one per grid column:
// class<<14 | top-span ceiling (capped), or VolumeEmptyColumn.
const (
	VolumeEmptyColumn uint16 = 0xffff

	volumeClassSolid      uint16 = 0
	volumeClassUnlandable uint16 = 1
	volumeClassWalkable   uint16 = 2

	volumeCeilMask uint16 = 0x3fff
)

// BuildVoxelVolume summarizes a built heightfield into the tile tree the
// container persists. The grid is cut into quadrants until a tile's column
// count fits contentLen; leaves carry one occupancy code per column in
// row-major order. Interior tiles carry a zeroed buffer of the same length,
// which is the uniform length the decoder validates.
func BuildVoxelVolume(hf *Heightfield, contentLen int) *navmesh.VoxelVolume {
	return &navmesh.VoxelVolume{
		BMin:           hf.BMin,
		BMax:           hf.BMax,
		TileContentLen: contentLen,
		Root:           buildVolumeTile(hf, 0, 0, hf.Width, hf.Height, 0, contentLen),
	}
}

func buildVolumeTile(hf *Heightfield, x0, z0, w, h, level int32, contentLen int) *navmesh.VoxelTile {
	t := &navmesh.VoxelTile{
		Level:    level,
		Contents: make([]uint16, contentLen),
	}
	t.BMin = [3]float32{
		hf.BMin[0] + float32(x0)*hf.Cs,
		hf.BMin[1],
		hf.BMin[2] + float32(z0)*hf.Cs,
	}
	t.BMax = [3]float32{
		hf.BMin[0] + float32(x0+w)*hf.Cs,
		hf.BMax[1],
		hf.BMin[2] + float32(z0+h)*hf.Cs,
	}

	if int(w)*int(h) <= contentLen {
		for z := int32(0); z < h; z++ {
			for x := int32(0); x < w; x++ {
				t.Contents[x+z*w] = columnCode(hf, x0+x, z0+z)
			}
		}
		return t
	}

	hw := (w + 1) / 2
	hh := (h + 1) / 2
	for _, q := range [4][4]int32{
		{x0, z0, hw, hh},
		{x0 + hw, z0, w - hw, hh},
		{x0, z0 + hh, hw, h - hh},
		{x0 + hw, z0 + hh, w - hw, h - hh},
	} {
		if q[2] <= 0 || q[3] <= 0 {
			continue
		}
		t.SubTiles = append(t.SubTiles, buildVolumeTile(hf, q[0], q[1], q[2], q[3], level+1, contentLen))
	}
	return t
}

func columnCode(hf *Heightfield, x, z int32) uint16 {
	var top *Span
	for span := hf.Spans[x+z*hf.Width]; span != nil; span = span.Next {
		top = span
	}
	if top == nil {
		return VolumeEmptyColumn
	}
	class := volumeClassSolid
	switch top.Area {
	case AreaWalkable:
		class = volumeClassWalkable
	case AreaUnlandable:
		class = volumeClassUnlandable
	}
	ceil := uint16(min(top.SMax, uint32(volumeCeilMask)))
	return class<<14 | ceil
}
