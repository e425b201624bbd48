package navmesh

import (
	"fmt"

	"voxnav/common/rw"
)

// VoxelTile is one node of the recursively subdivided occupancy volume.
// Children partition the parent's bounds; their order is preserved across
// serialization but carries no semantic weight. Level is derived while
// decoding (parent + 1), not stored on the wire.
type VoxelTile struct {
	BMin     [3]float32
	BMax     [3]float32
	Level    int32
	Contents []uint16
	SubTiles []*VoxelTile
}

// VoxelVolume pairs the tile tree with its root bounds and the fixed
// per-tile content length dictated by the volume's resolution policy.
type VoxelVolume struct {
	BMin           [3]float32
	BMax           [3]float32
	TileContentLen int
	Root           *VoxelTile
}

// ToBin writes the tile depth-first: content count, raw 16-bit codes,
// subtile count, then each subtile as six bounds floats followed by the
// subtile itself. The root's own bounds are written by the container.
func (t *VoxelTile) ToBin(w *rw.ReaderWriter) {
	w.WriteInt32(int32(len(t.Contents)))
	w.WriteUInt16s(t.Contents)
	w.WriteInt32(int32(len(t.SubTiles)))
	for _, sub := range t.SubTiles {
		w.WriteFloat32s(sub.BMin[:])
		w.WriteFloat32s(sub.BMax[:])
		sub.ToBin(w)
	}
}

// FromBin reconstructs the tile tree, validating every tile's content
// length against the volume's fixed per-tile length. A mismatch rejects the
// whole load.
func (t *VoxelTile) FromBin(r *rw.ReaderWriter, contentLen int) error {
	n := int(r.ReadInt32())
	if n != contentLen {
		return fmt.Errorf("%w: tile at level %d has %d elements, want %d",
			ErrTileContentLen, t.Level, n, contentLen)
	}
	t.Contents = make([]uint16, n)
	r.ReadUInt16s(t.Contents)

	numSub := int(r.ReadInt32())
	for i := 0; i < numSub; i++ {
		sub := &VoxelTile{Level: t.Level + 1}
		r.ReadFloat32s(sub.BMin[:])
		r.ReadFloat32s(sub.BMax[:])
		if err := sub.FromBin(r, contentLen); err != nil {
			return err
		}
		t.SubTiles = append(t.SubTiles, sub)
	}
	return nil
}
