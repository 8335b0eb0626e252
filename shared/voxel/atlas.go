package voxel

// Face identifica um dos 6 slots canônicos de um cubo. A ordem das constantes
// define a posição do slot dentro da UVTable.
type Face int

const (
	FaceTop Face = iota
	FaceBottom
	FaceNorth
	FaceEast
	FaceSouth
	FaceWest

	// FaceCount é o número de slots canônicos.
	FaceCount = 6
)

// FaceRule associa uma chave de face (ou alias) a um índice de tile no atlas.
// As regras de um tipo são avaliadas em ordem: a primeira que atingir um slot
// vence; regras posteriores para o mesmo slot são ignoradas.
type FaceRule struct {
	Face string `json:"face"`
	Tile int32  `json:"tile"`
}

// FaceMapping mapeia tipo de bloco → regras de face ordenadas.
type FaceMapping map[int32][]FaceRule

// UVTable guarda as coordenadas de textura dos 24 vértices de um cubo:
// 6 faces × 4 vértices × (u,v), na ordem de slots de Face.
type UVTable [FaceCount * 8]float32

// faceAliases resolve cada chave reconhecida para seus slots canônicos.
// Chaves não listadas são ignoradas pelo unwrap.
var faceAliases = map[string][]Face{
	"top":    {FaceTop},
	"bottom": {FaceBottom},
	"north":  {FaceNorth},
	"front":  {FaceNorth},
	"south":  {FaceSouth},
	"east":   {FaceEast},
	"west":   {FaceWest},
	"all":    {FaceTop, FaceBottom, FaceNorth, FaceEast, FaceSouth, FaceWest},
	"side":   {FaceNorth, FaceEast, FaceSouth, FaceWest},
	"sides":  {FaceNorth, FaceEast, FaceSouth, FaceWest},
	"end":    {FaceTop, FaceBottom},
}

// uvInset afasta as coordenadas das bordas do tile para evitar sangria de
// tiles vizinhos na amostragem.
const uvInset = 1e-5

// midpointUV é o fallback para slots sem regra: amostra o ponto médio do
// atlas em vez de deixar dados de geometria indefinidos.
const midpointUV = 0.5

// UnwrapUVs converte as regras de face de um tipo em uma UVTable completa.
// Retorna nil para uma lista de regras vazia; o chamador pula o lote
// (bloco efetivamente invisível).
func UnwrapUVs(rules []FaceRule, tileCount int32) *UVTable {
	if len(rules) == 0 {
		return nil
	}

	var table UVTable
	var assigned [FaceCount]bool

	for _, rule := range rules {
		faces, ok := faceAliases[rule.Face]
		if !ok {
			continue
		}

		u0 := float32(rule.Tile+1)/float32(tileCount) + uvInset
		u1 := float32(rule.Tile+2)/float32(tileCount) - uvInset
		const v0, v1 = float32(0), float32(1)

		for _, face := range faces {
			if assigned[face] {
				continue
			}
			assigned[face] = true

			base := int(face) * 8
			// Ordem fixa dos 4 vértices do slot:
			// (u1,v1), (u0,v1), (u1,v0), (u0,v0)
			table[base+0], table[base+1] = u1, v1
			table[base+2], table[base+3] = u0, v1
			table[base+4], table[base+5] = u1, v0
			table[base+6], table[base+7] = u0, v0
		}
	}

	for face := 0; face < FaceCount; face++ {
		if assigned[face] {
			continue
		}
		base := face * 8
		for i := 0; i < 8; i++ {
			table[base+i] = midpointUV
		}
	}

	return &table
}

// FaceUV retorna os 8 floats do slot dado, na ordem de vértices da tabela.
func (t *UVTable) FaceUV(face Face) [8]float32 {
	var out [8]float32
	copy(out[:], t[int(face)*8:int(face)*8+8])
	return out
}
