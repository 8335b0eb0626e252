package app

import (
	"log"
	"sync"

	"VoxelVision/cliente/internal/camera"
	"VoxelVision/cliente/internal/client"
	"VoxelVision/cliente/internal/render"
	"VoxelVision/shared/config"
	"VoxelVision/shared/schematic"
	"VoxelVision/shared/voxel"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AppState representa os estados possíveis da aplicação.
type AppState int

const (
	StateConnecting AppState = iota // Aguardando servidor ou arquivo
	StateViewing                    // Visualizando um schematic
)

// App é a aplicação principal do visualizador VoxelVision.
type App struct {
	Config *config.Config
	State  AppState

	Cam *camera.CameraController

	netClient *client.NetworkClient
	backend   *render.Backend

	// Schematic corrente
	currentGrid *voxel.Grid
	currentName string

	// Lista anunciada pelo servidor e índice do Tab
	schematics   []string
	schematicIdx int

	// Schematic decodificado pela goroutine de rede, aguardando upload na
	// thread principal (OpenGL exige isso).
	pendingMu   sync.Mutex
	pendingGrid *voxel.Grid
	pendingName string

	// Modo arquivo local (flag -file): sem rede.
	localFile string

	// Nome pedido pela flag -schematic; vazio carrega o primeiro da lista.
	preferred string

	statusMsg  string
	frameCount int
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config, localFile, preferred string) *App {
	return &App{
		Config:    cfg,
		State:     StateConnecting,
		localFile: localFile,
		preferred: preferred,
		statusMsg: "Conectando ao servidor...",
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}

	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(rl.KeyEscape)

	a.Cam = camera.New()
	a.backend = render.NewBackend()

	log.Println("[App] Janela inicializada com sucesso")
	log.Printf("[App] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	if a.localFile != "" {
		a.statusMsg = "Carregando arquivo local..."
		go a.loadLocalFile()
	} else {
		go a.connectServer()
	}

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseWindow()
}

// update atualiza a lógica a cada frame.
func (a *App) update() {
	a.frameCount++

	a.applyPendingGrid()

	dt := rl.GetFrameTime()
	a.handleInput(dt)
	a.Cam.Update(dt)
}

// applyPendingGrid sobe para a GPU o schematic decodificado pela rede, se
// houver um aguardando.
func (a *App) applyPendingGrid() {
	a.pendingMu.Lock()
	grid, name := a.pendingGrid, a.pendingName
	a.pendingGrid = nil
	a.pendingMu.Unlock()

	if grid == nil {
		return
	}

	if err := a.placeGrid(grid, name); err != nil {
		log.Printf("[App] Erro ao montar schematic %q: %v", name, err)
		a.statusMsg = "Erro ao montar schematic: " + err.Error()
		return
	}

	a.State = StateViewing
	x, y, z := grid.Size()
	a.Cam.FrameBounds(float32(x), float32(y), float32(z))
	log.Printf("[App] Schematic %q montado: %d lotes, %d instâncias",
		name, a.backend.BatchCount(), a.backend.InstanceCount())
}

// placeGrid descarrega os lotes antigos e instancia a grade nova.
// Um Placer novo por schematic: o cache de UVs é válido apenas para um
// mapeamento.
func (a *App) placeGrid(grid *voxel.Grid, name string) error {
	a.backend.Reset()

	placer := voxel.NewPlacer(a.backend)
	if err := placer.Place(grid, func(voxel.Batch) {}); err != nil {
		return err
	}

	a.currentGrid = grid
	a.currentName = name
	return nil
}

// loadLocalFile carrega um schematic do disco (modo -file).
func (a *App) loadLocalFile() {
	grid, name, err := schematic.Load(a.localFile)
	if err != nil {
		log.Printf("[App] Erro ao carregar %s: %v", a.localFile, err)
		a.statusMsg = "Erro ao carregar arquivo: " + err.Error()
		return
	}

	a.pendingMu.Lock()
	a.pendingGrid = grid
	a.pendingName = name
	a.pendingMu.Unlock()
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	if a.netClient != nil {
		a.netClient.Close()
	}
	a.backend.Reset()

	if err := a.Config.Save(); err != nil {
		log.Printf("[App] Erro ao salvar configurações: %v", err)
	}
}
