package voxel

import (
	"fmt"
)

// Grid armazena um volume denso de tipos de bloco junto com os metadados do
// atlas de texturas compartilhado. O tipo 0 representa ar (célula vazia) e
// nunca entra na contagem de ocorrências.
//
// O índice linear de uma célula é `x + y*sizeX + z*sizeX*sizeY`. O slice de
// células cresce sob demanda: índices além do comprimento atual valem 0.
type Grid struct {
	sizeX, sizeY, sizeZ int32

	cells []int32

	// Contagem de ocorrências por tipo, mais a ordem de primeira aparição.
	// A ordem define a sequência de emissão dos lotes no Placer.
	counts map[int32]int32
	order  []int32

	// Metadados do atlas (definidos juntos via SetTextureAtlas).
	atlas     []byte
	tileCount int32
	mapping   FaceMapping
}

// NewGrid cria uma grade com dimensões fixas. Dimensões devem ser positivas.
func NewGrid(sizeX, sizeY, sizeZ int32) (*Grid, error) {
	if sizeX <= 0 || sizeY <= 0 || sizeZ <= 0 {
		return nil, fmt.Errorf("voxel: dimensões inválidas %dx%dx%d", sizeX, sizeY, sizeZ)
	}
	return &Grid{
		sizeX:  sizeX,
		sizeY:  sizeY,
		sizeZ:  sizeZ,
		counts: make(map[int32]int32),
	}, nil
}

// Size retorna as dimensões da grade.
func (g *Grid) Size() (x, y, z int32) {
	return g.sizeX, g.sizeY, g.sizeZ
}

// Volume retorna a capacidade nominal (sizeX*sizeY*sizeZ).
func (g *Grid) Volume() int32 {
	return g.sizeX * g.sizeY * g.sizeZ
}

// count registra uma ocorrência do tipo, inicializando a contagem na primeira
// aparição. Tipo 0 (ar) nunca é contado.
func (g *Grid) count(blockType int32) {
	if blockType == 0 {
		return
	}
	if _, seen := g.counts[blockType]; !seen {
		g.order = append(g.order, blockType)
	}
	g.counts[blockType]++
}

// SetCell grava um tipo de bloco na posição (x,y,z).
//
// A contagem de ocorrências é incrementada ANTES da validação de limites;
// uma escrita fora da grade falha com ErrOutOfBounds mas deixa a contagem
// incrementada. Sobrescrever uma célula também não decrementa a contagem do
// tipo anterior. Os dois comportamentos são contratuais.
func (g *Grid) SetCell(blockType, x, y, z int32) error {
	g.count(blockType)

	if x < 0 || x >= g.sizeX || y < 0 || y >= g.sizeY || z < 0 || z >= g.sizeZ {
		return fmt.Errorf("%w: célula (%d,%d,%d) em grade %dx%dx%d",
			ErrOutOfBounds, x, y, z, g.sizeX, g.sizeY, g.sizeZ)
	}

	idx := x + y*g.sizeX + z*g.sizeX*g.sizeY
	if int(idx) >= len(g.cells) {
		grown := make([]int32, idx+1)
		copy(grown, g.cells)
		g.cells = grown
	}
	g.cells[idx] = blockType
	return nil
}

// AppendCell anexa um tipo de bloco ao final do array de células.
//
// A checagem de capacidade usa maior-estrito: o array pode atingir Volume()+1
// elementos antes do próximo append falhar. Comportamento contratual.
func (g *Grid) AppendCell(blockType int32) error {
	if int32(len(g.cells)) > g.Volume() {
		return fmt.Errorf("%w: %d células em grade %dx%dx%d",
			ErrCapacityExceeded, len(g.cells), g.sizeX, g.sizeY, g.sizeZ)
	}
	g.count(blockType)
	g.cells = append(g.cells, blockType)
	return nil
}

// CellAt retorna o tipo no índice linear dado, ou 0 (ar) para índices ainda
// não escritos ou além do comprimento atual.
func (g *Grid) CellAt(idx int32) int32 {
	if idx < 0 || int(idx) >= len(g.cells) {
		return 0
	}
	return g.cells[idx]
}

// Cells retorna o array plano de células. O chamador não deve modificá-lo.
func (g *Grid) Cells() []int32 {
	return g.cells
}

// Counts retorna o mapa de ocorrências por tipo. Somente leitura.
func (g *Grid) Counts() map[int32]int32 {
	return g.counts
}

// CountOf retorna quantas células contêm o tipo dado.
func (g *Grid) CountOf(blockType int32) int32 {
	return g.counts[blockType]
}

// Types retorna os tipos presentes na ordem de primeira aparição.
// O chamador não deve modificar o slice.
func (g *Grid) Types() []int32 {
	return g.order
}

// SetTextureAtlas define os três campos do atlas de uma vez: bytes crus da
// imagem, número de tiles horizontais e o mapeamento face→tile por tipo.
// Nenhum estado parcial é observável.
func (g *Grid) SetTextureAtlas(image []byte, tileCount int32, mapping FaceMapping) {
	g.atlas = image
	g.tileCount = tileCount
	g.mapping = mapping
}

// TextureAtlas retorna os três campos do atlas. Somente leitura.
func (g *Grid) TextureAtlas() (image []byte, tileCount int32, mapping FaceMapping) {
	return g.atlas, g.tileCount, g.mapping
}

// HasTextureAtlas informa se os três campos do atlas já foram definidos.
func (g *Grid) HasTextureAtlas() bool {
	return len(g.atlas) > 0 && g.tileCount > 0 && g.mapping != nil
}
