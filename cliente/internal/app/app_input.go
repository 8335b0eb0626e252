package app

import (
	"VoxelVision/cliente/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processa o teclado fora da câmera e repassa o resto para o
// controlador de câmera.
func (a *App) handleInput(dt float32) {
	// Tab circula pelos schematics anunciados pelo servidor
	if rl.IsKeyPressed(rl.KeyTab) && a.netClient != nil && len(a.schematics) > 0 {
		a.schematicIdx = (a.schematicIdx + 1) % len(a.schematics)
		a.netClient.RequestSchematic(a.schematics[a.schematicIdx])
	}

	// O alterna projeção ortográfica/perspectiva
	if rl.IsKeyPressed(rl.KeyO) {
		if a.Cam.Mode == camera.ModePerspective {
			a.Cam.SetMode(camera.ModeOrthographic)
		} else {
			a.Cam.SetMode(camera.ModePerspective)
		}
	}

	// G liga/desliga a grade de referência
	if rl.IsKeyPressed(rl.KeyG) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}

	// F3 liga/desliga o HUD de debug
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	// R reenquadra a câmera no schematic corrente
	if rl.IsKeyPressed(rl.KeyR) && a.currentGrid != nil {
		x, y, z := a.currentGrid.Size()
		a.Cam.FrameBounds(float32(x), float32(y), float32(z))
	}

	a.Cam.HandleInput(dt)
}
