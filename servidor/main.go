package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"VoxelVision/shared/config"
	"VoxelVision/shared/proto/vvnet"
	"VoxelVision/shared/schematic"

	"github.com/gorilla/websocket"
)

const serverVersion = "0.1.0"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub gerencia as conexões WebSocket ativas
type Hub struct {
	clients    map[*websocket.Conn]*sync.Mutex
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*sync.Mutex),
		broadcast:  make(chan []byte, 256), // Bufferizado para evitar deadlocks e bloqueios
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *Hub) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Recuperado de pânico fatal: %v", r)
		}
	}()

	for {
		select {
		case client, ok := <-h.register:
			if !ok {
				return
			}
			h.mu.Lock()
			h.clients[client] = &sync.Mutex{}
			h.mu.Unlock()
			log.Printf("Cliente registrado: %s", client.RemoteAddr())
		case client, ok := <-h.unregister:
			if !ok {
				return
			}
			h.mu.Lock()
			if lock, ok := h.clients[client]; ok {
				lock.Lock()
				delete(h.clients, client)
				client.Close()
				lock.Unlock()
				log.Printf("Cliente desregistrado: %s", client.RemoteAddr())
			}
			h.mu.Unlock()
		case message, ok := <-h.broadcast:
			if !ok {
				return
			}
			h.mu.Lock()
			type clientEntry struct {
				conn *websocket.Conn
				lock *sync.Mutex
			}
			var targets []clientEntry
			for c, l := range h.clients {
				targets = append(targets, clientEntry{c, l})
			}
			h.mu.Unlock()

			for _, target := range targets {
				target.lock.Lock()
				err := target.conn.WriteMessage(websocket.BinaryMessage, message)
				if err != nil {
					log.Printf("Erro ao enviar para cliente %s: %v", target.conn.RemoteAddr(), err)
					target.conn.Close()
					h.mu.Lock()
					delete(h.clients, target.conn)
					h.mu.Unlock()
				}
				target.lock.Unlock()
			}
		}
	}
}

// WriteSafe garante que apenas uma goroutine escreva no WebSocket por vez
func (h *Hub) WriteSafe(conn *websocket.Conn, messageType int, data []byte) error {
	h.mu.Lock()
	lock, ok := h.clients[conn]
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("cliente não encontrado no hub")
	}

	lock.Lock()
	defer lock.Unlock()
	return conn.WriteMessage(messageType, data)
}

// safeSend envia para o canal de broadcast protegendo contra pânicos de canal fechado
func (h *Hub) safeSend(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Aviso: Falha ao enviar broadcast (canal fechado?): %v", r)
		}
	}()
	h.broadcast <- data
}

// SendMessage embrulha e envia uma mensagem para um único cliente.
func (h *Hub) SendMessage(conn *websocket.Conn, msgType vvnet.MessageType, payload []byte) {
	data := vvnet.Pack(msgType, payload)
	if err := h.WriteSafe(conn, websocket.BinaryMessage, data); err != nil {
		log.Printf("Erro ao enviar mensagem: %v", err)
	}
}

// BroadcastSchematicList anuncia os nomes disponíveis para todos os clientes.
func (h *Hub) BroadcastSchematicList(names []string) {
	msg := vvnet.SchematicListMessage{Names: names}
	h.safeSend(vvnet.Pack(vvnet.TypeSchematicList, msg.Marshal()))
}

func main() {
	// Garante que o working directory é o mesmo diretório do executável,
	// para que caminhos relativos (schematics/, tmp/) funcionem corretamente.
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		os.Chdir(exeDir)
	}

	log.SetFlags(log.Ltime | log.Lshortfile)

	// Configurar Log em Arquivo para depuração de crash
	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/server.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			// MultiWriter para logar no console e no arquivo simultaneamente
			mw := io.MultiWriter(os.Stdout, logFile)
			log.SetOutput(mw)
		}
	}
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║     VoxelVision SERVER v0.1.0        ║")
	log.Println("╚══════════════════════════════════════╝")

	cfg := config.Load()

	addr := flag.String("addr", "", "Endereço de escuta (padrão: :8080)")
	dir := flag.String("dir", "", "Diretório de schematics JSON")
	dbPath := flag.String("db", "", "Caminho do banco SQLite")
	flag.Parse()

	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *dir != "" {
		cfg.SchematicsDir = *dir
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	store, err := schematic.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Erro fatal: não foi possível abrir o banco: %v", err)
	}
	defer store.Close()

	hub := newHub()
	go hub.run()

	// Importar schematics do diretório e manter varredura periódica
	scanner := NewSchematicScanner(cfg.SchematicsDir, store, hub)
	scanner.Start()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, store, w, r)
	})

	log.Printf("Servidor escutando em %s (schematics em %s)", cfg.ListenAddr, cfg.SchematicsDir)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("Erro fatal no HTTP: %v", err)
	}
}

// serveWs registra a conexão, envia o estado inicial e atende requisições.
func serveWs(hub *Hub, store *schematic.Store, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Falha no upgrade: %v", err)
		return
	}

	hub.register <- conn
	defer func() {
		hub.unregister <- conn
	}()

	names, err := store.Names()
	if err != nil {
		log.Printf("[WS] Erro ao listar schematics: %v", err)
		names = nil
	}

	status := vvnet.ServerStatusMessage{
		Version:        serverVersion,
		SchematicCount: int32(len(names)),
	}
	hub.SendMessage(conn, vvnet.TypeServerStatus, status.Marshal())

	list := vvnet.SchematicListMessage{Names: names}
	hub.SendMessage(conn, vvnet.TypeSchematicList, list.Marshal())

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[WS] Conexão encerrada: %v", err)
			return
		}

		var env vvnet.Envelope
		if err := env.Unmarshal(message); err != nil {
			log.Printf("[WS] Envelope inválido: %v", err)
			continue
		}

		switch env.Type {
		case vvnet.TypeRequestSchematic:
			var req vvnet.RequestSchematicMessage
			if err := req.Unmarshal(env.Payload); err != nil {
				log.Printf("[WS] RequestSchematic inválido: %v", err)
				continue
			}
			sendSchematic(hub, store, conn, req.Name)
		default:
			log.Printf("[WS] Mensagem inesperada do cliente: tipo %d", env.Type)
		}
	}
}

// sendSchematic monta e envia um schematic completo para um cliente.
func sendSchematic(hub *Hub, store *schematic.Store, conn *websocket.Conn, name string) {
	grid, err := store.Load(name)
	if err != nil {
		log.Printf("[WS] Schematic %q não encontrado: %v", name, err)
		return
	}

	png, tiles, mapping := grid.TextureAtlas()
	mappingJSON, err := schematic.MappingToJSON(mapping)
	if err != nil {
		log.Printf("[WS] Erro ao serializar mapeamento de %q: %v", name, err)
		return
	}

	x, y, z := grid.Size()
	msg := vvnet.SchematicMessage{
		Name:      name,
		SizeX:     x,
		SizeY:     y,
		SizeZ:     z,
		TileCount: tiles,
		Atlas:     png,
		Mapping:   mappingJSON,
		Cells:     schematic.PackCells(grid.Cells()),
	}

	hub.SendMessage(conn, vvnet.TypeSchematic, msg.Marshal())
	log.Printf("[WS] Schematic %q enviado para %s (%dx%dx%d)", name, conn.RemoteAddr(), x, y, z)
}
