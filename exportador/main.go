package main

import (
	"flag"
	"log"
	"os"

	"VoxelVision/exportador/internal/glb"
	"VoxelVision/shared/schematic"
	"VoxelVision/shared/voxel"
)

// Exportador de schematics para GLB: lê de um arquivo JSON ou da biblioteca
// SQLite e grava um .glb com um node por bloco, pronto para qualquer
// visualizador glTF.
func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	in := flag.String("in", "", "Schematic JSON de entrada")
	dbPath := flag.String("db", "", "Banco SQLite da biblioteca (usado com -name)")
	name := flag.String("name", "", "Nome do schematic na biblioteca")
	out := flag.String("out", "", "Arquivo .glb de saída")
	flag.Parse()

	if *out == "" || (*in == "" && (*dbPath == "" || *name == "")) {
		flag.Usage()
		os.Exit(2)
	}

	grid, label, err := loadGrid(*in, *dbPath, *name)
	if err != nil {
		log.Fatalf("Erro ao carregar schematic: %v", err)
	}

	backend := glb.NewBackend()
	placer := voxel.NewPlacer(backend)

	batches := 0
	if err := placer.Place(grid, func(voxel.Batch) { batches++ }); err != nil {
		log.Fatalf("Erro ao montar instâncias: %v", err)
	}

	if err := backend.Save(*out); err != nil {
		log.Fatalf("Erro ao gravar %s: %v", *out, err)
	}

	x, y, z := grid.Size()
	log.Printf("Exportado %q (%dx%dx%d, %d lotes) para %s", label, x, y, z, batches, *out)
}

// loadGrid resolve a origem: arquivo JSON direto ou biblioteca SQLite.
func loadGrid(in, dbPath, name string) (*voxel.Grid, string, error) {
	if in != "" {
		return schematic.Load(in)
	}

	store, err := schematic.Open(dbPath)
	if err != nil {
		return nil, "", err
	}
	defer store.Close()

	grid, err := store.Load(name)
	if err != nil {
		return nil, "", err
	}
	return grid, name, nil
}
