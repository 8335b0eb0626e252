package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"VoxelVision/shared/schematic"
)

// SchematicScanner importa os arquivos JSON do diretório de schematics para
// a biblioteca SQLite e repete a varredura periodicamente. Arquivos cujo
// hash não mudou desde a última importação são pulados.
type SchematicScanner struct {
	dir   string
	store *schematic.Store
	hub   *Hub
}

func NewSchematicScanner(dir string, store *schematic.Store, hub *Hub) *SchematicScanner {
	return &SchematicScanner{
		dir:   dir,
		store: store,
		hub:   hub,
	}
}

func (s *SchematicScanner) Start() {
	go s.scanLoop()
}

func (s *SchematicScanner) scanLoop() {
	log.Printf("[Scanner] Iniciando varredura de %s...", s.dir)

	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Scanner] Recuperado de pânico: %v", r)
				}
			}()

			imported := s.scanOnce()
			if imported > 0 {
				names, err := s.store.Names()
				if err == nil {
					s.hub.BroadcastSchematicList(names)
				}
			}
		}()

		time.Sleep(10 * time.Second)
	}
}

// scanOnce varre o diretório uma vez e retorna quantos arquivos foram
// importados ou atualizados.
func (s *SchematicScanner) scanOnce() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Printf("[Scanner] Erro ao ler diretório %s: %v", s.dir, err)
		return 0
	}

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[Scanner] Erro ao ler %s: %v", path, err)
			continue
		}

		grid, name, err := schematic.Parse(raw)
		if err != nil {
			log.Printf("[Scanner] Arquivo %s inválido: %v", path, err)
			continue
		}
		if name == "" {
			name = strings.TrimSuffix(entry.Name(), ".json")
		}

		hash := schematic.HashSource(raw)
		if saved, ok := s.store.SourceHash(name); ok && saved == hash {
			continue
		}

		if err := s.store.Save(name, grid, hash); err != nil {
			log.Printf("[Scanner] Erro ao salvar %q: %v", name, err)
			continue
		}

		x, y, z := grid.Size()
		log.Printf("[Scanner] Importado %q (%dx%dx%d, %d tipos)", name, x, y, z, len(grid.Types()))
		imported++
	}
	return imported
}
