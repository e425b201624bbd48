package navmesh

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// zstExt marks container files stored with lossless zstd framing. The
// container format inside the frame is unchanged.
const zstExt = ".zst"

// SaveFile writes the serialized container to path, zstd-compressed when
// the path carries the .zst extension.
func (d *NavMeshData) SaveFile(path string) error {
	data := d.ToBin()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("navmesh: create %s: %w", path, err)
	}
	if strings.HasSuffix(path, zstExt) {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return fmt.Errorf("navmesh: zstd writer: %w", err)
		}
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			f.Close()
			return fmt.Errorf("navmesh: write %s: %w", path, err)
		}
		if err := enc.Close(); err != nil {
			f.Close()
			return fmt.Errorf("navmesh: close zstd frame: %w", err)
		}
	} else if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("navmesh: write %s: %w", path, err)
	}
	return f.Close()
}

// LoadFile reads a container file written by SaveFile.
func LoadFile(path string, tileContentLen int) (*NavMeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("navmesh: open %s: %w", path, err)
	}
	defer f.Close()

	var data []byte
	if strings.HasSuffix(path, zstExt) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("navmesh: zstd reader: %w", err)
		}
		data, err = io.ReadAll(dec)
		dec.Close()
		if err != nil {
			return nil, fmt.Errorf("navmesh: read %s: %w", path, err)
		}
	} else {
		if data, err = io.ReadAll(f); err != nil {
			return nil, fmt.Errorf("navmesh: read %s: %w", path, err)
		}
	}

	d := &NavMeshData{}
	if err := d.FromBin(data, tileContentLen); err != nil {
		return nil, err
	}
	return d, nil
}
