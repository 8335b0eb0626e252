package schematic

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"VoxelVision/shared/voxel"
)

// File é o formato JSON de um schematic no disco. A imagem do atlas viaja em
// base64; as regras de face de cada bloco são um array ordenado, porque a
// ordem define a precedência no unwrap de UVs.
type File struct {
	Name  string                      `json:"name"`
	Size  Dimensions                  `json:"size"`
	Atlas Atlas                       `json:"atlas"`
	Cells []int32                     `json:"cells"`
	Block map[string][]voxel.FaceRule `json:"blocks"`
}

// Dimensions guarda o tamanho da grade.
type Dimensions struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	Z int32 `json:"z"`
}

// Atlas guarda a imagem compartilhada e o número de tiles horizontais.
type Atlas struct {
	PNG   string `json:"png"` // base64
	Tiles int32  `json:"tiles"`
}

// Parse decodifica um schematic JSON e monta a grade correspondente: células
// anexadas em ordem, atlas decodificado de base64 e mapeamento com chaves
// numéricas.
func Parse(data []byte) (*voxel.Grid, string, error) {
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, "", fmt.Errorf("schematic: JSON inválido: %w", err)
	}

	grid, err := voxel.NewGrid(file.Size.X, file.Size.Y, file.Size.Z)
	if err != nil {
		return nil, "", err
	}
	for _, blockType := range file.Cells {
		if err := grid.AppendCell(blockType); err != nil {
			return nil, "", err
		}
	}

	png, err := base64.StdEncoding.DecodeString(file.Atlas.PNG)
	if err != nil {
		return nil, "", fmt.Errorf("schematic: atlas base64 inválido: %w", err)
	}
	mapping, err := decodeMapping(file.Block)
	if err != nil {
		return nil, "", err
	}
	grid.SetTextureAtlas(png, file.Atlas.Tiles, mapping)

	return grid, file.Name, nil
}

// Load lê e decodifica um schematic do disco.
func Load(path string) (*voxel.Grid, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return Parse(data)
}

// Encode serializa uma grade de volta ao formato JSON de schematic.
func Encode(name string, grid *voxel.Grid) ([]byte, error) {
	png, tiles, mapping := grid.TextureAtlas()
	x, y, z := grid.Size()

	file := File{
		Name:  name,
		Size:  Dimensions{X: x, Y: y, Z: z},
		Atlas: Atlas{PNG: base64.StdEncoding.EncodeToString(png), Tiles: tiles},
		Cells: grid.Cells(),
		Block: encodeMapping(mapping),
	}
	return json.MarshalIndent(&file, "", "  ")
}

// MappingToJSON serializa um mapeamento de faces no mesmo JSON usado pelo
// formato em disco, para transporte no protocolo de rede.
func MappingToJSON(mapping voxel.FaceMapping) ([]byte, error) {
	return json.Marshal(encodeMapping(mapping))
}

// MappingFromJSON decodifica um mapeamento serializado por MappingToJSON.
func MappingFromJSON(data []byte) (voxel.FaceMapping, error) {
	var raw map[string][]voxel.FaceRule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schematic: mapeamento JSON inválido: %w", err)
	}
	return decodeMapping(raw)
}

// decodeMapping converte as chaves string do JSON ("1", "2", ...) para os
// tipos de bloco numéricos do mapeamento.
func decodeMapping(raw map[string][]voxel.FaceRule) (voxel.FaceMapping, error) {
	mapping := make(voxel.FaceMapping, len(raw))
	for key, rules := range raw {
		blockType, err := strconv.ParseInt(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("schematic: tipo de bloco inválido %q: %w", key, err)
		}
		mapping[int32(blockType)] = rules
	}
	return mapping, nil
}

func encodeMapping(mapping voxel.FaceMapping) map[string][]voxel.FaceRule {
	raw := make(map[string][]voxel.FaceRule, len(mapping))
	for blockType, rules := range mapping {
		raw[strconv.FormatInt(int64(blockType), 10)] = rules
	}
	return raw
}
