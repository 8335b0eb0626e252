package app

import (
	"fmt"
	"log"

	"VoxelVision/cliente/internal/client"
	"VoxelVision/shared/proto/vvnet"
	"VoxelVision/shared/schematic"
	"VoxelVision/shared/voxel"
)

// connectServer abre a conexão websocket e registra os callbacks de rede.
// Roda em goroutine própria; os callbacks chegam pela goroutine de leitura.
func (a *App) connectServer() {
	a.netClient = client.NewNetworkClient(a.Config.ServerURL)

	a.netClient.OnStatus = func(version string, count int32) {
		log.Printf("[App] Servidor v%s com %d schematics", version, count)
		a.statusMsg = fmt.Sprintf("Conectado (servidor v%s, %d schematics)", version, count)
	}

	a.netClient.OnSchematicList = func(names []string) {
		a.schematics = names
		a.schematicIdx = 0
		if len(names) == 0 {
			a.statusMsg = "Servidor sem schematics"
			return
		}
		for i, name := range names {
			if name == a.preferred {
				a.schematicIdx = i
				break
			}
		}
		a.netClient.RequestSchematic(names[a.schematicIdx])
	}

	a.netClient.OnSchematic = func(msg *vvnet.SchematicMessage) {
		grid, err := gridFromMessage(msg)
		if err != nil {
			log.Printf("[App] Schematic %q inválido: %v", msg.Name, err)
			return
		}
		a.pendingMu.Lock()
		a.pendingGrid = grid
		a.pendingName = msg.Name
		a.pendingMu.Unlock()
	}

	a.netClient.OnDisconnect = func() {
		a.statusMsg = "Conexão perdida"
	}

	if err := a.netClient.Connect(); err != nil {
		a.statusMsg = "Não foi possível conectar: " + err.Error()
	}
}

// gridFromMessage reconstrói a grade a partir da mensagem de rede: células
// descomprimidas em ordem, mapeamento JSON e atlas PNG.
func gridFromMessage(msg *vvnet.SchematicMessage) (*voxel.Grid, error) {
	cells, err := schematic.UnpackCells(msg.Cells)
	if err != nil {
		return nil, err
	}
	mapping, err := schematic.MappingFromJSON(msg.Mapping)
	if err != nil {
		return nil, err
	}

	grid, err := voxel.NewGrid(msg.SizeX, msg.SizeY, msg.SizeZ)
	if err != nil {
		return nil, err
	}
	for _, blockType := range cells {
		if err := grid.AppendCell(blockType); err != nil {
			return nil, err
		}
	}
	grid.SetTextureAtlas(msg.Atlas, msg.TileCount, mapping)
	return grid, nil
}
