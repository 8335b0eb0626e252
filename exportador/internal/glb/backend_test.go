package glb

import (
	"testing"

	"VoxelVision/shared/voxel"
)

func buildGrid(t *testing.T) *voxel.Grid {
	t.Helper()
	grid, err := voxel.NewGrid(2, 1, 1)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	for _, bt := range []int32{5, 7} {
		if err := grid.AppendCell(bt); err != nil {
			t.Fatalf("AppendCell: %v", err)
		}
	}
	grid.SetTextureAtlas([]byte{0x89, 0x50, 0x4e, 0x47}, 2, voxel.FaceMapping{
		5: {{Face: "all", Tile: 0}},
		7: {{Face: "all", Tile: 1}},
	})
	return grid
}

func TestBackendBuildsDocument(t *testing.T) {
	grid := buildGrid(t)

	backend := NewBackend()
	placer := voxel.NewPlacer(backend)

	batches := 0
	if err := placer.Place(grid, func(voxel.Batch) { batches++ }); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if batches != 2 {
		t.Errorf("lotes emitidos = %d, want 2", batches)
	}

	doc := backend.Document()
	if len(doc.Meshes) != 2 {
		t.Errorf("Meshes = %d, want 2", len(doc.Meshes))
	}
	if len(doc.Nodes) != 2 {
		t.Errorf("Nodes = %d, want 2", len(doc.Nodes))
	}
	if len(doc.Materials) != 1 {
		t.Errorf("Materials = %d, want 1", len(doc.Materials))
	}
	if len(doc.Scenes[0].Nodes) != 2 {
		t.Errorf("nodes na cena = %d, want 2", len(doc.Scenes[0].Nodes))
	}
}

func TestBackendNodeTranslations(t *testing.T) {
	grid := buildGrid(t)

	backend := NewBackend()
	if err := voxel.NewPlacer(backend).Place(grid, func(voxel.Batch) {}); err != nil {
		t.Fatalf("Place: %v", err)
	}

	doc := backend.Document()

	// Elementos 12..14 da matriz column-major carregam a translação.
	// Célula 0 fica na origem, célula 1 em x=1.
	found := map[float64]bool{}
	for _, node := range doc.Nodes {
		found[node.Matrix[12]] = true
		if node.Matrix[13] != 0 || node.Matrix[14] != 0 {
			t.Errorf("node %q com translação y/z inesperada: %v, %v",
				node.Name, node.Matrix[13], node.Matrix[14])
		}
	}
	if !found[0] || !found[1] {
		t.Errorf("translações x encontradas = %v, want {0, 1}", found)
	}
}

func TestBackendRequiresPrepare(t *testing.T) {
	backend := NewBackend()
	uv := voxel.UnwrapUVs([]voxel.FaceRule{{Face: "all", Tile: 0}}, 1)
	if _, err := backend.NewBatch(1, uv, 1); err == nil {
		t.Fatal("NewBatch aceitou lote sem Prepare")
	}
}
