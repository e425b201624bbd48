// Package navmesh defines the versioned binary container bundling a
// generated navigation mesh with an optional hierarchical voxel occupancy
// volume.
package navmesh

import (
	"errors"
	"fmt"

	"voxnav/common/rw"
)

const (
	// Magic is 'NVMD' in little-endian byte order.
	Magic   uint32 = 0x444D564E
	Version uint32 = 10
)

var (
	ErrWrongMagic     = errors.New("navmesh: bad container magic")
	ErrWrongVersion   = errors.New("navmesh: unsupported container version")
	ErrTileContentLen = errors.New("navmesh: voxel tile content length mismatch")
)

// NavMeshData is the deserialized container: the navigation-mesh blob
// (written and read by an external mesh codec, opaque here) plus the
// optional voxel occupancy volume.
type NavMeshData struct {
	MeshData []byte
	Volume   *VoxelVolume
}

// ToBin serializes the container. Both section lengths are written as
// placeholders and patched once their payload exists, so the write is a
// single streaming pass with no size pre-computation.
func (d *NavMeshData) ToBin() []byte {
	w := rw.NewWriter()
	w.WriteUInt32(Magic)
	w.WriteUInt32(Version)
	meshLenAt := w.Offset()
	w.WriteInt32(0)
	volLenAt := w.Offset()
	w.WriteInt32(0)

	w.WriteBytes(d.MeshData)
	w.PatchInt32(meshLenAt, int32(len(d.MeshData)))

	volStart := w.Offset()
	if d.Volume != nil && d.Volume.Root != nil {
		w.WriteFloat32s(d.Volume.BMin[:])
		w.WriteFloat32s(d.Volume.BMax[:])
		d.Volume.Root.ToBin(w)
	}
	w.PatchInt32(volLenAt, int32(w.Offset()-volStart))
	return w.GetWriteBytes()
}

// FromBin deserializes a container. tileContentLen is the per-tile element
// count required by the volume's resolution policy. Any format error
// rejects the whole file; d is only assigned on success.
func (d *NavMeshData) FromBin(data []byte, tileContentLen int) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("navmesh: truncated container: %v", e)
		}
	}()

	r := rw.NewReader(data)
	if m := r.ReadUInt32(); m != Magic {
		return fmt.Errorf("%w: 0x%08X", ErrWrongMagic, m)
	}
	if v := r.ReadUInt32(); v != Version {
		return fmt.Errorf("%w: %d, want %d", ErrWrongVersion, v, Version)
	}
	meshLen := r.ReadInt32()
	volLen := r.ReadInt32()
	if meshLen < 0 || volLen < 0 {
		return fmt.Errorf("%w: negative section length", ErrWrongMagic)
	}

	meshData := make([]byte, meshLen)
	r.ReadBytes(meshData)

	var volume *VoxelVolume
	if volLen > 0 {
		volume = &VoxelVolume{TileContentLen: tileContentLen}
		r.ReadFloat32s(volume.BMin[:])
		r.ReadFloat32s(volume.BMax[:])
		volume.Root = &VoxelTile{BMin: volume.BMin, BMax: volume.BMax}
		if err := volume.Root.FromBin(r, tileContentLen); err != nil {
			return err
		}
	}

	d.MeshData = meshData
	d.Volume = volume
	return nil
}
