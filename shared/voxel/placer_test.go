package voxel

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeBackend registra tudo que o placer pede, sem GPU.
type fakeBackend struct {
	prepared  [][]byte
	batches   []*fakeBatch
	failBatch bool
}

type fakeBatch struct {
	blockType  int32
	uv         *UVTable
	max        int
	transforms map[int]mgl32.Mat4
	finalized  bool
}

func (b *fakeBackend) Prepare(atlas []byte) error {
	b.prepared = append(b.prepared, atlas)
	return nil
}

func (b *fakeBackend) NewBatch(blockType int32, uv *UVTable, maxInstances int) (Batch, error) {
	if b.failBatch {
		return nil, errors.New("fake: sem recursos")
	}
	batch := &fakeBatch{
		blockType:  blockType,
		uv:         uv,
		max:        maxInstances,
		transforms: make(map[int]mgl32.Mat4),
	}
	b.batches = append(b.batches, batch)
	return batch, nil
}

func (b *fakeBatch) SetTransform(slot int, m mgl32.Mat4) {
	if b.finalized {
		panic("SetTransform após Finalize")
	}
	b.transforms[slot] = m
}

func (b *fakeBatch) Finalize() { b.finalized = true }

func atlasGrid(t *testing.T, sizeX, sizeY, sizeZ int32, mapping FaceMapping) *Grid {
	t.Helper()
	g, err := NewGrid(sizeX, sizeY, sizeZ)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	g.SetTextureAtlas([]byte{1, 2, 3}, 4, mapping)
	return g
}

func TestPlaceRequiresTextureData(t *testing.T) {
	g, _ := NewGrid(1, 1, 1)
	p := NewPlacer(&fakeBackend{})
	if err := p.Place(g, nil); !errors.Is(err, ErrMissingTextureData) {
		t.Fatalf("Place sem atlas = %v, want ErrMissingTextureData", err)
	}
}

func TestPlaceSingleBlock(t *testing.T) {
	g, _ := NewGrid(2, 1, 1)
	g.AppendCell(5)
	g.AppendCell(0)
	g.SetTextureAtlas([]byte{0xff}, 1, FaceMapping{5: {{Face: "all", Tile: 0}}})

	backend := &fakeBackend{}
	var emitted []Batch
	if err := NewPlacer(backend).Place(g, func(b Batch) { emitted = append(emitted, b) }); err != nil {
		t.Fatalf("Place: %v", err)
	}

	if len(emitted) != 1 || len(backend.batches) != 1 {
		t.Fatalf("emitidos %d lotes, want 1", len(emitted))
	}
	batch := backend.batches[0]
	if batch.blockType != 5 || batch.max != 1 {
		t.Errorf("lote tipo=%d max=%d, want tipo=5 max=1", batch.blockType, batch.max)
	}
	if !batch.finalized {
		t.Error("lote não finalizado após a varredura")
	}

	m, ok := batch.transforms[0]
	if !ok {
		t.Fatal("slot 0 não preenchido")
	}
	if m != mgl32.Translate3D(0, 0, 0) {
		t.Errorf("transform do slot 0 = %v, want translação (0,0,0)", m)
	}
}

func TestPlaceSkipsEmptyMapping(t *testing.T) {
	g := atlasGrid(t, 2, 1, 1, FaceMapping{
		1: {{Face: "all", Tile: 0}},
		2: {}, // presente na grade, mas sem regras: invisível
	})
	g.AppendCell(1)
	g.AppendCell(2)

	backend := &fakeBackend{}
	if err := NewPlacer(backend).Place(g, nil); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(backend.batches) != 1 {
		t.Fatalf("%d lotes, want 1 (tipo 2 deve ser pulado)", len(backend.batches))
	}
	if backend.batches[0].blockType != 1 {
		t.Errorf("lote emitido para tipo %d, want 1", backend.batches[0].blockType)
	}
}

func TestPlaceEmitOrderFollowsFirstSeen(t *testing.T) {
	g := atlasGrid(t, 4, 1, 1, FaceMapping{
		9: {{Face: "all", Tile: 0}},
		3: {{Face: "all", Tile: 1}},
		7: {{Face: "all", Tile: 2}},
	})
	for _, bt := range []int32{9, 3, 9, 7} {
		g.AppendCell(bt)
	}

	backend := &fakeBackend{}
	if err := NewPlacer(backend).Place(g, nil); err != nil {
		t.Fatalf("Place: %v", err)
	}

	want := []int32{9, 3, 7}
	if len(backend.batches) != len(want) {
		t.Fatalf("%d lotes, want %d", len(backend.batches), len(want))
	}
	for i, b := range backend.batches {
		if b.blockType != want[i] {
			t.Errorf("lote %d = tipo %d, want %d", i, b.blockType, want[i])
		}
	}
}

func TestPlaceScanOrderAndSlots(t *testing.T) {
	// Grade 2x2x2 toda do tipo 1: os slots devem preencher na ordem de
	// varredura x externo / y médio / z interno.
	g := atlasGrid(t, 2, 2, 2, FaceMapping{1: {{Face: "all", Tile: 0}}})
	for i := 0; i < 8; i++ {
		g.AppendCell(1)
	}

	backend := &fakeBackend{}
	if err := NewPlacer(backend).Place(g, nil); err != nil {
		t.Fatalf("Place: %v", err)
	}

	batch := backend.batches[0]
	if len(batch.transforms) != 8 {
		t.Fatalf("%d slots preenchidos, want 8", len(batch.transforms))
	}

	wantOrder := [][3]float32{
		{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
		{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
	}
	for slot, pos := range wantOrder {
		if got := batch.transforms[slot]; got != mgl32.Translate3D(pos[0], pos[1], pos[2]) {
			t.Errorf("slot %d = %v, want translação %v", slot, got, pos)
		}
	}
}

func TestPlaceUVCacheIsStable(t *testing.T) {
	g := atlasGrid(t, 1, 1, 1, FaceMapping{1: {{Face: "all", Tile: 2}}})
	g.AppendCell(1)

	backend := &fakeBackend{}
	p := NewPlacer(backend)
	if err := p.Place(g, nil); err != nil {
		t.Fatalf("Place #1: %v", err)
	}
	if err := p.Place(g, nil); err != nil {
		t.Fatalf("Place #2: %v", err)
	}

	if len(backend.batches) != 2 {
		t.Fatalf("%d lotes, want 2", len(backend.batches))
	}
	// Cache hit: os dois Place devolvem o MESMO ponteiro de tabela.
	if backend.batches[0].uv != backend.batches[1].uv {
		t.Error("UVTable recalculada entre chamadas do mesmo placer")
	}
	if *backend.batches[0].uv != *backend.batches[1].uv {
		t.Error("UVTable diverge entre chamadas")
	}
}

func TestPlacePropagatesBackendError(t *testing.T) {
	g := atlasGrid(t, 1, 1, 1, FaceMapping{1: {{Face: "all", Tile: 0}}})
	g.AppendCell(1)

	err := NewPlacer(&fakeBackend{failBatch: true}).Place(g, nil)
	if err == nil {
		t.Fatal("Place ignorou erro do backend")
	}
}
