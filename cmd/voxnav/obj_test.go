package main

import (
	"os"
	"path/filepath"
	"testing"

	"voxnav/voxelizer"
)

func writeOBJ(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.obj")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOBJ(t *testing.T) {
	doc := `# quad on the floor
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
f 1 2 3 4
`
	mesh, err := loadOBJ(writeOBJ(t, doc), voxelizer.GeometryTerrain)
	if err != nil {
		t.Fatalf("loadOBJ: %v", err)
	}
	if len(mesh.Verts) != 4 {
		t.Errorf("got %d vertices, want 4", len(mesh.Verts))
	}
	if len(mesh.Prims) != 2 {
		t.Errorf("quad should fan-triangulate into 2 primitives, got %d", len(mesh.Prims))
	}
	if mesh.Prims[1].V != [3]int32{0, 2, 3} {
		t.Errorf("fan triangulation order wrong: %v", mesh.Prims[1].V)
	}
	if mesh.Class != voxelizer.GeometryTerrain {
		t.Errorf("geometry class not applied")
	}
}

func TestLoadOBJFaceReferences(t *testing.T) {
	doc := `v 0 0 0
v 1 0 0
v 0 0 1
f 1/1/1 2/2/2 -1/3/3
`
	mesh, err := loadOBJ(writeOBJ(t, doc), voxelizer.GeometryMesh)
	if err != nil {
		t.Fatalf("loadOBJ: %v", err)
	}
	if mesh.Prims[0].V != [3]int32{0, 1, 2} {
		t.Errorf("slash and negative references resolve to %v", mesh.Prims[0].V)
	}
}

func TestLoadOBJRejectsBadInput(t *testing.T) {
	if _, err := loadOBJ(writeOBJ(t, "v 0 0\n"), voxelizer.GeometryMesh); err == nil {
		t.Errorf("short vertex must be rejected")
	}
	if _, err := loadOBJ(writeOBJ(t, "v 0 0 0\nf 1 2 3\n"), voxelizer.GeometryMesh); err == nil {
		t.Errorf("out-of-range face index must be rejected")
	}
	if _, err := loadOBJ(writeOBJ(t, "# empty\n"), voxelizer.GeometryMesh); err == nil {
		t.Errorf("geometry-free file must be rejected")
	}
}
