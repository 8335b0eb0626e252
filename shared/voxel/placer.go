package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Backend abstrai o ambiente de renderização que consome os lotes. O núcleo
// nunca toca GPU: quem implementa Backend decide o que fazer com o atlas e
// com cada lote (desenhar via raylib, exportar para glTF, etc).
type Backend interface {
	// Prepare recebe os bytes crus da imagem do atlas e prepara o material
	// compartilhado. Chamado uma vez por Place, antes de qualquer NewBatch.
	Prepare(atlas []byte) error

	// NewBatch cria um lote instanciado de cubos unitários para um tipo de
	// bloco: geometria de cubo com os UVs da tabela, material do atlas e
	// buffer de transformações com capacidade para maxInstances.
	NewBatch(blockType int32, uv *UVTable, maxInstances int) (Batch, error)
}

// Batch é o handle opaco de um lote instanciado em construção.
type Batch interface {
	// SetTransform grava a matriz 4×4 da instância no slot dado (0-based).
	SetTransform(slot int, transform mgl32.Mat4)

	// Finalize marca o buffer de transformações como completo; nenhuma
	// escrita por instância acontece depois.
	Finalize()
}

// Placer transforma uma Grid em lotes instanciados, um por tipo de bloco
// presente. A tabela de UVs de cada tipo é calculada uma única vez e fica em
// cache pelo tempo de vida do placer: construir um novo placer é a única
// forma de invalidar o cache. Não é seguro para uso concorrente.
type Placer struct {
	backend Backend
	uvCache map[int32]*UVTable
}

// NewPlacer cria um placer ligado a um backend.
func NewPlacer(backend Backend) *Placer {
	return &Placer{
		backend: backend,
		uvCache: make(map[int32]*UVTable),
	}
}

// unwrap retorna a UVTable do tipo, calculando e memorizando na primeira
// consulta. Entradas vazias são memorizadas como nil.
func (p *Placer) unwrap(blockType int32, mapping FaceMapping, tileCount int32) *UVTable {
	if uv, ok := p.uvCache[blockType]; ok {
		return uv
	}
	uv := UnwrapUVs(mapping[blockType], tileCount)
	p.uvCache[blockType] = uv
	return uv
}

// Place percorre a grade e emite um lote por tipo de bloco presente, na ordem
// de primeira aparição dos tipos. emit é chamado quando o lote é criado,
// antes da varredura preencher as transformações; Finalize sinaliza o fim.
//
// A grade precisa ter o atlas completo (bytes, tileCount e mapeamento);
// caso contrário Place falha com ErrMissingTextureData. A grade é somente
// leitura durante a varredura.
func (p *Placer) Place(grid *Grid, emit func(Batch)) error {
	if !grid.HasTextureAtlas() {
		return ErrMissingTextureData
	}
	atlas, tileCount, mapping := grid.TextureAtlas()

	if err := p.backend.Prepare(atlas); err != nil {
		return err
	}

	// Um lote por tipo com mapeamento não-vazio; tipos sem regras de face
	// não geram geometria visível e são pulados.
	batches := make(map[int32]Batch)
	for _, blockType := range grid.Types() {
		uv := p.unwrap(blockType, mapping, tileCount)
		if uv == nil {
			continue
		}
		batch, err := p.backend.NewBatch(blockType, uv, int(grid.CountOf(blockType)))
		if err != nil {
			return err
		}
		batches[blockType] = batch
		if emit != nil {
			emit(batch)
		}
	}

	// Varredura única: x externo, y médio, z interno, com um índice plano
	// incrementado por célula. Slots de cada lote preenchem em ordem de
	// varredura, apenas translação (sem rotação ou escala).
	sizeX, sizeY, sizeZ := grid.Size()
	next := make(map[int32]int)
	scan := int32(0)
	for x := int32(0); x < sizeX; x++ {
		for y := int32(0); y < sizeY; y++ {
			for z := int32(0); z < sizeZ; z++ {
				blockType := grid.CellAt(scan)
				scan++

				batch, ok := batches[blockType]
				if !ok {
					continue
				}
				batch.SetTransform(next[blockType],
					mgl32.Translate3D(float32(x), float32(y), float32(z)))
				next[blockType]++
			}
		}
	}

	for _, blockType := range grid.Types() {
		if batch, ok := batches[blockType]; ok {
			batch.Finalize()
		}
	}
	return nil
}
