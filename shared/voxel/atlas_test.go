package voxel

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

// tileUV devolve o par (u0,u1) esperado para um tile, espelhando a fórmula
// de fatiamento do atlas.
func tileUV(tile, tileCount int32) (u0, u1 float32) {
	u0 = float32(tile+1)/float32(tileCount) + uvInset
	u1 = float32(tile+2)/float32(tileCount) - uvInset
	return
}

func checkFace(t *testing.T, table *UVTable, face Face, tile, tileCount int32) {
	t.Helper()
	u0, u1 := tileUV(tile, tileCount)
	want := [8]float32{u1, 1, u0, 1, u1, 0, u0, 0}
	got := table.FaceUV(face)
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("face %d float %d = %v, want %v", face, i, got[i], want[i])
		}
	}
}

func checkMidpoint(t *testing.T, table *UVTable, face Face) {
	t.Helper()
	got := table.FaceUV(face)
	for i, v := range got {
		if !almostEqual(v, midpointUV) {
			t.Errorf("face %d float %d = %v, want fallback %v", face, i, v, midpointUV)
		}
	}
}

func TestUnwrapAllKey(t *testing.T) {
	table := UnwrapUVs([]FaceRule{{Face: "all", Tile: 2}}, 4)
	if table == nil {
		t.Fatal("UnwrapUVs retornou nil para regras não-vazias")
	}
	for face := Face(0); face < FaceCount; face++ {
		checkFace(t, table, face, 2, 4)
	}
}

func TestUnwrapTopAndSides(t *testing.T) {
	table := UnwrapUVs([]FaceRule{
		{Face: "top", Tile: 0},
		{Face: "side", Tile: 1},
	}, 4)
	if table == nil {
		t.Fatal("UnwrapUVs retornou nil")
	}

	checkFace(t, table, FaceTop, 0, 4)
	for _, face := range []Face{FaceNorth, FaceEast, FaceSouth, FaceWest} {
		checkFace(t, table, face, 1, 4)
	}
	// Nenhuma regra cobre bottom: slot recebe o ponto médio.
	checkMidpoint(t, table, FaceBottom)
}

func TestUnwrapFirstRuleWins(t *testing.T) {
	// "all" vem primeiro e vence em todos os slots, inclusive top.
	table := UnwrapUVs([]FaceRule{
		{Face: "all", Tile: 3},
		{Face: "top", Tile: 0},
	}, 4)
	checkFace(t, table, FaceTop, 3, 4)

	// Invertendo a ordem, a regra específica vence no slot dela.
	table = UnwrapUVs([]FaceRule{
		{Face: "top", Tile: 0},
		{Face: "all", Tile: 3},
	}, 4)
	checkFace(t, table, FaceTop, 0, 4)
	checkFace(t, table, FaceBottom, 3, 4)
}

func TestUnwrapAliases(t *testing.T) {
	tests := []struct {
		key   string
		faces []Face
	}{
		{"front", []Face{FaceNorth}},
		{"end", []Face{FaceTop, FaceBottom}},
		{"sides", []Face{FaceNorth, FaceEast, FaceSouth, FaceWest}},
	}
	for _, tt := range tests {
		table := UnwrapUVs([]FaceRule{{Face: tt.key, Tile: 1}}, 4)
		for _, face := range tt.faces {
			checkFace(t, table, face, 1, 4)
		}
	}
}

func TestUnwrapIgnoresUnknownKeys(t *testing.T) {
	table := UnwrapUVs([]FaceRule{
		{Face: "diagonal", Tile: 2},
		{Face: "top", Tile: 1},
	}, 4)
	checkFace(t, table, FaceTop, 1, 4)
	checkMidpoint(t, table, FaceNorth)
}

func TestUnwrapEmptyRules(t *testing.T) {
	if table := UnwrapUVs(nil, 4); table != nil {
		t.Errorf("UnwrapUVs(nil) = %v, want nil", table)
	}
	if table := UnwrapUVs([]FaceRule{}, 4); table != nil {
		t.Errorf("UnwrapUVs(vazio) = %v, want nil", table)
	}
}
