package glb

import (
	"bytes"
	"fmt"

	"VoxelVision/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Backend implementa voxel.Backend gerando um documento glTF: um mesh por
// tipo de bloco e um node por instância, todos compartilhando o material do
// atlas.
type Backend struct {
	doc         *gltf.Document
	materialIdx uint32
	prepared    bool
}

// NewBackend cria o documento glTF vazio.
func NewBackend() *Backend {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "VoxelVision exportador"
	return &Backend{doc: doc}
}

// Document expõe o documento em construção (para inspeção e testes).
func (b *Backend) Document() *gltf.Document {
	return b.doc
}

// Prepare embute o PNG do atlas no documento e cria o material
// compartilhado, com amostragem nearest para preservar a pixel art.
func (b *Backend) Prepare(atlas []byte) error {
	imgIdx, err := modeler.WriteImage(b.doc, "atlas", "image/png", bytes.NewReader(atlas))
	if err != nil {
		return fmt.Errorf("glb: falha ao embutir atlas: %w", err)
	}

	b.doc.Samplers = append(b.doc.Samplers, &gltf.Sampler{
		MagFilter: gltf.MagNearest,
		MinFilter: gltf.MinNearest,
		WrapS:     gltf.WrapClampToEdge,
		WrapT:     gltf.WrapClampToEdge,
	})
	samplerIdx := uint32(len(b.doc.Samplers) - 1)

	b.doc.Textures = append(b.doc.Textures, &gltf.Texture{
		Sampler: gltf.Index(samplerIdx),
		Source:  gltf.Index(uint32(imgIdx)),
	})
	texIdx := uint32(len(b.doc.Textures) - 1)

	b.doc.Materials = append(b.doc.Materials, &gltf.Material{
		Name: "atlas",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: texIdx},
			MetallicFactor:   gltf.Float(0),
			RoughnessFactor:  gltf.Float(1),
		},
		AlphaMode:   gltf.AlphaMask,
		AlphaCutoff: gltf.Float(0.1),
	})
	b.materialIdx = uint32(len(b.doc.Materials) - 1)

	b.prepared = true
	return nil
}

// NewBatch escreve o mesh de cubo do tipo e devolve o lote que acumula as
// matrizes das instâncias.
func (b *Backend) NewBatch(blockType int32, uv *voxel.UVTable, maxInstances int) (voxel.Batch, error) {
	if !b.prepared {
		return nil, fmt.Errorf("glb: NewBatch antes de Prepare")
	}
	if maxInstances <= 0 {
		return nil, fmt.Errorf("glb: lote do tipo %d sem instâncias", blockType)
	}

	geo := voxel.BuildCubeGeometry(uv)

	positions := make([][3]float32, len(geo.Positions)/3)
	for i := range positions {
		positions[i] = [3]float32{geo.Positions[i*3], geo.Positions[i*3+1], geo.Positions[i*3+2]}
	}
	normals := make([][3]float32, len(geo.Normals)/3)
	for i := range normals {
		normals[i] = [3]float32{geo.Normals[i*3], geo.Normals[i*3+1], geo.Normals[i*3+2]}
	}
	texCoords := make([][2]float32, len(geo.TexCoords)/2)
	for i := range texCoords {
		texCoords[i] = [2]float32{geo.TexCoords[i*2], geo.TexCoords[i*2+1]}
	}

	posAccessor := modeler.WritePosition(b.doc, positions)
	normalAccessor := modeler.WriteNormal(b.doc, normals)
	uvAccessor := modeler.WriteTextureCoord(b.doc, texCoords)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION:   uint32(posAccessor),
			gltf.NORMAL:     uint32(normalAccessor),
			gltf.TEXCOORD_0: uint32(uvAccessor),
		},
		Material: gltf.Index(b.materialIdx),
	}

	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{
		Name:       fmt.Sprintf("bloco_%d", blockType),
		Primitives: []*gltf.Primitive{prim},
	})
	meshIdx := uint32(len(b.doc.Meshes) - 1)

	return &nodeBatch{
		doc:        b.doc,
		blockType:  blockType,
		meshIdx:    meshIdx,
		transforms: make([]mgl32.Mat4, maxInstances),
	}, nil
}

// nodeBatch acumula as matrizes e materializa os nodes no Finalize.
type nodeBatch struct {
	doc        *gltf.Document
	blockType  int32
	meshIdx    uint32
	transforms []mgl32.Mat4
}

func (n *nodeBatch) SetTransform(slot int, transform mgl32.Mat4) {
	if slot < 0 || slot >= len(n.transforms) {
		return
	}
	n.transforms[slot] = transform
}

// Finalize cria um node por instância, todos apontando para o mesh do tipo.
func (n *nodeBatch) Finalize() {
	for slot, m := range n.transforms {
		var matrix [16]float64
		for i, v := range m {
			matrix[i] = float64(v)
		}

		n.doc.Nodes = append(n.doc.Nodes, &gltf.Node{
			Name:   fmt.Sprintf("bloco_%d_%d", n.blockType, slot),
			Mesh:   gltf.Index(n.meshIdx),
			Matrix: matrix,
		})
		n.doc.Scenes[0].Nodes = append(n.doc.Scenes[0].Nodes, uint32(len(n.doc.Nodes)-1))
	}
}

// Save grava o documento como GLB.
func (b *Backend) Save(path string) error {
	return gltf.SaveBinary(b.doc, path)
}
