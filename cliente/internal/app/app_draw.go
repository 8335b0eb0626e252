package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza a cena.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	switch a.State {
	case StateConnecting:
		a.drawConnectingScreen()
	case StateViewing:
		a.drawScene()
		a.drawHUD()
	}

	rl.EndDrawing()
}

// drawScene renderiza a cena 3D.
func (a *App) drawScene() {
	rl.BeginMode3D(a.Cam.RLCamera)

	if a.Config.ShowGrid {
		rl.DrawGrid(40, 1.0)
	}

	rl.BeginBlendMode(rl.BlendAlphaPremultiply)
	a.backend.Draw()
	rl.EndBlendMode()

	rl.EndMode3D()
}

// drawConnectingScreen desenha a tela de espera.
func (a *App) drawConnectingScreen() {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())

	title := "VoxelVision"
	tw := rl.MeasureText(title, 40)
	rl.DrawText(title, (w-tw)/2, h/2-60, 40, rl.RayWhite)

	sw := rl.MeasureText(a.statusMsg, 20)
	rl.DrawText(a.statusMsg, (w-sw)/2, h/2, 20, rl.LightGray)

	// Spinner de pontos
	dots := (a.frameCount / 30) % 4
	spinner := ""
	for i := 0; i < dots; i++ {
		spinner += "."
	}
	rl.DrawText(spinner, (w+sw)/2+8, h/2, 20, rl.LightGray)
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD() {
	name := a.currentName
	if name == "" {
		name = "(sem nome)"
	}
	rl.DrawText(name, 10, 10, 20, rl.RayWhite)

	if a.currentGrid != nil {
		x, y, z := a.currentGrid.Size()
		rl.DrawText(fmt.Sprintf("%dx%dx%d | %d tipos", x, y, z, len(a.currentGrid.Types())),
			10, 34, 10, rl.LightGray)
	}

	if len(a.schematics) > 1 {
		rl.DrawText(fmt.Sprintf("[Tab] próximo (%d/%d)", a.schematicIdx+1, len(a.schematics)),
			10, 48, 10, rl.Gray)
	}

	if !a.Config.ShowDebugInfo {
		return
	}

	h := int32(rl.GetScreenHeight())
	debug := fmt.Sprintf("FPS: %d | lotes: %d | instâncias: %d",
		rl.GetFPS(), a.backend.BatchCount(), a.backend.InstanceCount())
	rl.DrawText(debug, 10, h-40, 10, rl.Green)
	rl.DrawText("[O] projeção  [G] grade  [R] enquadrar  [F3] debug", 10, h-24, 10, rl.Gray)
}
