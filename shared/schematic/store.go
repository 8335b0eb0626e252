package schematic

import (
	"encoding/json"
	"fmt"
	"time"

	"VoxelVision/shared/voxel"

	"github.com/cespare/xxhash/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Model representa o esquema do banco de dados para um schematic.
type Model struct {
	Name       string `gorm:"primaryKey"`
	SizeX      int32
	SizeY      int32
	SizeZ      int32
	TileCount  int32
	AtlasPNG   []byte
	Mapping    []byte // JSON das regras de face, ordem preservada
	Cells      []byte // células comprimidas (zstd)
	SourceHash uint64 // xxhash do arquivo de origem, para pular re-imports
	UpdatedAt  time.Time
}

// TableName mantém o nome da tabela estável.
func (Model) TableName() string { return "schematics" }

// Store é a biblioteca de schematics persistida em SQLite.
type Store struct {
	DB *gorm.DB
}

// Open abre (ou cria) o banco SQLite e roda as migrações.
func Open(path string) (*Store, error) {
	// Logger silencioso: o chamador decide o que logar.
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("schematic: falha ao conectar no SQLite: %w", err)
	}
	if err := db.AutoMigrate(&Model{}); err != nil {
		return nil, fmt.Errorf("schematic: falha na migração do banco: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close fecha a conexão subjacente.
func (s *Store) Close() error {
	db, err := s.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// SourceHash retorna o hash do arquivo que originou o schematic salvo, se
// houver registro.
func (s *Store) SourceHash(name string) (uint64, bool) {
	var model Model
	if err := s.DB.Select("source_hash").First(&model, "name = ?", name).Error; err != nil {
		return 0, false
	}
	return model.SourceHash, true
}

// HashSource calcula o hash usado para detectar arquivos já importados.
func HashSource(raw []byte) uint64 {
	return xxhash.Sum64(raw)
}

// Save grava (upsert) uma grade na biblioteca.
func (s *Store) Save(name string, grid *voxel.Grid, sourceHash uint64) error {
	png, tiles, mapping := grid.TextureAtlas()
	mappingJSON, err := json.Marshal(encodeMapping(mapping))
	if err != nil {
		return fmt.Errorf("schematic: falha ao serializar mapeamento: %w", err)
	}

	x, y, z := grid.Size()
	model := Model{
		Name:       name,
		SizeX:      x,
		SizeY:      y,
		SizeZ:      z,
		TileCount:  tiles,
		AtlasPNG:   png,
		Mapping:    mappingJSON,
		Cells:      PackCells(grid.Cells()),
		SourceHash: sourceHash,
	}
	return s.DB.Save(&model).Error
}

// Load reconstrói a grade de um schematic salvo. As células voltam pela
// mesma operação de append usada na ingestão, refazendo as contagens.
func (s *Store) Load(name string) (*voxel.Grid, error) {
	var model Model
	if err := s.DB.First(&model, "name = ?", name).Error; err != nil {
		return nil, err
	}

	cells, err := UnpackCells(model.Cells)
	if err != nil {
		return nil, err
	}
	var raw map[string][]voxel.FaceRule
	if err := json.Unmarshal(model.Mapping, &raw); err != nil {
		return nil, fmt.Errorf("schematic: mapeamento corrompido de %q: %w", name, err)
	}
	mapping, err := decodeMapping(raw)
	if err != nil {
		return nil, err
	}

	grid, err := voxel.NewGrid(model.SizeX, model.SizeY, model.SizeZ)
	if err != nil {
		return nil, err
	}
	for _, blockType := range cells {
		if err := grid.AppendCell(blockType); err != nil {
			return nil, err
		}
	}
	grid.SetTextureAtlas(model.AtlasPNG, model.TileCount, mapping)
	return grid, nil
}

// Names lista os schematics da biblioteca em ordem alfabética.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := s.DB.Model(&Model{}).Order("name").Pluck("name", &names).Error
	return names, err
}
