package voxel

import (
	"errors"
	"testing"
)

func TestSetCellFlatIndex(t *testing.T) {
	g, err := NewGrid(3, 4, 5)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	tests := []struct {
		x, y, z   int32
		wantIndex int32
	}{
		{0, 0, 0, 0},
		{2, 0, 0, 2},
		{0, 1, 0, 3},
		{1, 2, 0, 7},
		{0, 0, 1, 12},
		{2, 3, 4, 59},
	}

	for _, tt := range tests {
		blockType := tt.wantIndex + 100
		if err := g.SetCell(blockType, tt.x, tt.y, tt.z); err != nil {
			t.Fatalf("SetCell(%d,%d,%d): %v", tt.x, tt.y, tt.z, err)
		}
		if got := g.CellAt(tt.wantIndex); got != blockType {
			t.Errorf("cell (%d,%d,%d): CellAt(%d) = %d, want %d",
				tt.x, tt.y, tt.z, tt.wantIndex, got, blockType)
		}
	}
}

func TestSetCellOutOfBounds(t *testing.T) {
	g, _ := NewGrid(2, 2, 2)

	tests := []struct{ x, y, z int32 }{
		{2, 0, 0},
		{0, 2, 0},
		{0, 0, 2},
		{-1, 0, 0},
		{0, -1, 0},
		{0, 0, -1},
	}
	for _, tt := range tests {
		if err := g.SetCell(7, tt.x, tt.y, tt.z); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetCell(7,%d,%d,%d) = %v, want ErrOutOfBounds", tt.x, tt.y, tt.z, err)
		}
	}

	// A contagem é incrementada antes da validação de limites: as 6 escritas
	// rejeitadas acima contam mesmo assim.
	if got := g.CountOf(7); got != 6 {
		t.Errorf("CountOf(7) = %d, want 6 (escritas fora da grade ainda contam)", got)
	}
}

func TestAppendCellOrder(t *testing.T) {
	g, _ := NewGrid(2, 2, 2)

	types := []int32{5, 0, 3, 5, 9}
	for _, bt := range types {
		if err := g.AppendCell(bt); err != nil {
			t.Fatalf("AppendCell(%d): %v", bt, err)
		}
	}
	for i, want := range types {
		if got := g.CellAt(int32(i)); got != want {
			t.Errorf("CellAt(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestAppendCellCapacityOffByOne(t *testing.T) {
	g, _ := NewGrid(2, 1, 1) // volume 2

	// A checagem maior-estrito permite volume+1 elementos antes de falhar.
	for i := 0; i < 3; i++ {
		if err := g.AppendCell(1); err != nil {
			t.Fatalf("AppendCell #%d: %v (esperado sucesso até volume+1)", i+1, err)
		}
	}
	if err := g.AppendCell(1); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("AppendCell #4 = %v, want ErrCapacityExceeded", err)
	}
	if got := len(g.Cells()); got != 3 {
		t.Errorf("len(Cells) = %d, want 3", got)
	}
}

func TestCountsIgnoreAirAndOverwrites(t *testing.T) {
	g, _ := NewGrid(4, 1, 1)

	g.SetCell(5, 0, 0, 0)
	g.SetCell(5, 1, 0, 0)
	g.SetCell(0, 2, 0, 0) // ar nunca conta
	g.SetCell(9, 0, 0, 0) // sobrescreve tipo 5: contagem antiga NÃO decrementa

	if got := g.CountOf(5); got != 2 {
		t.Errorf("CountOf(5) = %d, want 2 (sobrescrita não decrementa)", got)
	}
	if got := g.CountOf(9); got != 1 {
		t.Errorf("CountOf(9) = %d, want 1", got)
	}
	if got := g.CountOf(0); got != 0 {
		t.Errorf("CountOf(0) = %d, want 0", got)
	}
	if got := g.CellAt(0); got != 9 {
		t.Errorf("CellAt(0) = %d, want 9", got)
	}
}

func TestTypesFirstSeenOrder(t *testing.T) {
	g, _ := NewGrid(8, 1, 1)

	for i, bt := range []int32{4, 2, 4, 7, 2, 4} {
		g.SetCell(bt, int32(i), 0, 0)
	}

	want := []int32{4, 2, 7}
	got := g.Types()
	if len(got) != len(want) {
		t.Fatalf("Types() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Types() = %v, want %v", got, want)
		}
	}
}

func TestTextureAtlasAtomicSet(t *testing.T) {
	g, _ := NewGrid(1, 1, 1)

	if g.HasTextureAtlas() {
		t.Fatal("HasTextureAtlas() = true antes de SetTextureAtlas")
	}

	mapping := FaceMapping{1: {{Face: "all", Tile: 0}}}
	g.SetTextureAtlas([]byte{0x89, 0x50, 0x4e, 0x47}, 4, mapping)

	if !g.HasTextureAtlas() {
		t.Fatal("HasTextureAtlas() = false após SetTextureAtlas")
	}
	img, tiles, m := g.TextureAtlas()
	if len(img) != 4 || tiles != 4 || len(m[1]) != 1 {
		t.Errorf("TextureAtlas() = (%d bytes, %d tiles, %d regras)", len(img), tiles, len(m[1]))
	}
}

func TestNewGridRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][3]int32{{0, 1, 1}, {1, -1, 1}, {1, 1, 0}} {
		if _, err := NewGrid(dims[0], dims[1], dims[2]); err == nil {
			t.Errorf("NewGrid(%v) aceitou dimensões inválidas", dims)
		}
	}
}
