package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"voxnav/voxelizer"
)

// loadOBJ reads a Wavefront OBJ file as one mesh of the given geometry
// class. Faces with more than three vertices are fan-triangulated; anything
// besides v/f records is ignored.
func loadOBJ(path string, class voxelizer.GeometryClass) (*voxelizer.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("obj: open %s: %w", path, err)
	}
	defer f.Close()

	mesh := &voxelizer.Mesh{Class: class}
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj: line %d: vertex needs 3 coordinates", line)
			}
			var v mgl32.Vec3
			for i := 0; i < 3; i++ {
				val, err := strconv.ParseFloat(fields[1+i], 32)
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: %w", line, err)
				}
				v[i] = float32(val)
			}
			mesh.Verts = append(mesh.Verts, v)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj: line %d: face needs 3 vertices", line)
			}
			idx := make([]int32, len(fields)-1)
			for i, fv := range fields[1:] {
				n, err := faceVertexIndex(fv, len(mesh.Verts))
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: %w", line, err)
				}
				idx[i] = n
			}
			for i := 2; i < len(idx); i++ {
				mesh.Prims = append(mesh.Prims, voxelizer.Primitive{
					V: [3]int32{idx[0], idx[i-1], idx[i]},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: read %s: %w", path, err)
	}
	if len(mesh.Verts) == 0 || len(mesh.Prims) == 0 {
		return nil, fmt.Errorf("obj: %s contains no geometry", path)
	}
	return mesh, nil
}

// faceVertexIndex resolves one face vertex reference ("7", "7/1/3", "-2")
// to a zero-based vertex index.
func faceVertexIndex(field string, numVerts int) (int32, error) {
	ref := field
	if slash := strings.IndexByte(field, '/'); slash >= 0 {
		ref = field[:slash]
	}
	n, err := strconv.ParseInt(ref, 10, 32)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0:
		n--
	case n < 0:
		n = int64(numVerts) + n
	default:
		return 0, fmt.Errorf("zero vertex index %q", field)
	}
	if n < 0 || n >= int64(numVerts) {
		return 0, fmt.Errorf("vertex index %q out of range", field)
	}
	return int32(n), nil
}
