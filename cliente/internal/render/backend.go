package render

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"log"
	"unsafe"

	"VoxelVision/shared/voxel"

	"github.com/cespare/xxhash/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Backend implementa voxel.Backend sobre a GPU via raylib: um mesh de cubo
// por tipo de bloco, todas as instâncias desenhadas com GPU Instancing em
// 1 draw call por lote.
type Backend struct {
	shader rl.Shader
	atlas  rl.Texture2D

	// Cache de texturas por hash do PNG: trocar de schematic com o mesmo
	// atlas não recarrega nada na GPU.
	textures map[uint64]rl.Texture2D

	batches []*CubeBatch
}

// NewBackend carrega o shader instanciado. Exige a janela raylib pronta.
func NewBackend() *Backend {
	b := &Backend{
		textures: make(map[uint64]rl.Texture2D),
	}

	b.shader = rl.LoadShaderFromMemory(cubeInstancedVertexShader, cubeFragmentShader)

	// Locs é um ponteiro bruto (*int32) para um array em C (32 slots).
	// O atributo instanceTransform precisa ser registrado manualmente para
	// o DrawMeshInstanced encontrar o buffer de matrizes.
	locs := unsafe.Slice(b.shader.Locs, 32)
	locs[rl.ShaderLocMatrixModel] = rl.GetShaderLocationAttrib(b.shader, "instanceTransform")

	log.Printf("[Render] Shader instanciado carregado (id=%d)", b.shader.ID)
	return b
}

// Prepare carrega o atlas de texturas na GPU (ou reaproveita do cache) e o
// torna o atlas corrente para os próximos lotes.
func (b *Backend) Prepare(atlas []byte) error {
	hash := xxhash.Sum64(atlas)
	if tex, ok := b.textures[hash]; ok {
		b.atlas = tex
		return nil
	}

	img := rl.LoadImageFromMemory(".png", atlas, int32(len(atlas)))
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if tex.ID == 0 {
		return fmt.Errorf("render: falha ao subir atlas para a GPU (%d bytes)", len(atlas))
	}

	// Filtro nearest: pixel art não aceita interpolação entre tiles.
	rl.SetTextureFilter(tex, rl.FilterPoint)

	b.textures[hash] = tex
	b.atlas = tex
	log.Printf("[Render] Atlas carregado: %dx%d (%d bytes)", tex.Width, tex.Height, len(atlas))
	return nil
}

// NewBatch cria o lote instanciado de um tipo de bloco: mesh de cubo com as
// UVs da tabela e material apontando para o atlas corrente.
func (b *Backend) NewBatch(blockType int32, uv *voxel.UVTable, maxInstances int) (voxel.Batch, error) {
	if maxInstances <= 0 {
		return nil, fmt.Errorf("render: lote do tipo %d sem instâncias", blockType)
	}

	geo := voxel.BuildCubeGeometry(uv)
	mesh := meshFromGeometry(geo)
	rl.UploadMesh(&mesh, false)

	material := rl.LoadMaterialDefault()
	material.Shader = b.shader
	rl.SetMaterialTexture(&material, rl.MapDiffuse, b.atlas)

	batch := &CubeBatch{
		BlockType:  blockType,
		mesh:       mesh,
		material:   material,
		transforms: make([]rl.Matrix, maxInstances),
	}
	b.batches = append(b.batches, batch)
	return batch, nil
}

// Draw desenha todos os lotes finalizados.
func (b *Backend) Draw() {
	for _, batch := range b.batches {
		batch.draw()
	}
}

// Reset descarrega os meshes dos lotes atuais. Chamado antes de trocar de
// schematic.
func (b *Backend) Reset() {
	for _, batch := range b.batches {
		rl.UnloadMesh(&batch.mesh)
	}
	b.batches = b.batches[:0]
}

// InstanceCount soma as instâncias de todos os lotes (para o HUD).
func (b *Backend) InstanceCount() int {
	total := 0
	for _, batch := range b.batches {
		total += len(batch.transforms)
	}
	return total
}

// BatchCount retorna o número de lotes (1 draw call cada).
func (b *Backend) BatchCount() int {
	return len(b.batches)
}

// CubeBatch agrupa as instâncias de um tipo de bloco para desenho
// instanciado.
type CubeBatch struct {
	BlockType int32

	mesh       rl.Mesh
	material   rl.Material
	transforms []rl.Matrix
	ready      bool
}

// SetTransform grava a matriz de uma instância no slot dado.
func (c *CubeBatch) SetTransform(slot int, m mgl32.Mat4) {
	if slot < 0 || slot >= len(c.transforms) {
		return
	}
	c.transforms[slot] = matToRaylib(m)
}

// Finalize marca o lote como pronto para desenho.
func (c *CubeBatch) Finalize() {
	c.ready = true
}

func (c *CubeBatch) draw() {
	if !c.ready || len(c.transforms) == 0 {
		return
	}
	// 1 draw call para todas as instâncias deste tipo
	rl.DrawMeshInstanced(c.mesh, c.material, c.transforms, len(c.transforms))
}

// matToRaylib converte uma matriz mgl32 (column-major) para o layout do
// raylib. Os índices dos campos M0..M15 coincidem com os índices
// column-major do mgl32.
func matToRaylib(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

// meshFromGeometry copia os buffers para memória C e monta o rl.Mesh.
// O UploadMesh espera ponteiros que o Go GC não pode mover.
func meshFromGeometry(geo voxel.CubeGeometry) rl.Mesh {
	var mesh rl.Mesh
	mesh.VertexCount = int32(len(geo.Positions) / 3)
	mesh.TriangleCount = mesh.VertexCount / 3

	mesh.Vertices = (*float32)(copyToC(unsafe.Pointer(&geo.Positions[0]), len(geo.Positions)*4))
	mesh.Normals = (*float32)(copyToC(unsafe.Pointer(&geo.Normals[0]), len(geo.Normals)*4))
	mesh.Texcoords = (*float32)(copyToC(unsafe.Pointer(&geo.TexCoords[0]), len(geo.TexCoords)*4))
	return mesh
}

func copyToC(data unsafe.Pointer, size int) unsafe.Pointer {
	if size <= 0 || data == nil {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	cSlice := unsafe.Slice((*byte)(ptr), size)
	goSlice := unsafe.Slice((*byte)(data), size)
	copy(cSlice, goSlice)
	return ptr
}
