package client

import (
	"log"
	"sync"
	"time"

	"VoxelVision/shared/proto/vvnet"

	"github.com/gorilla/websocket"
)

// NetworkClient lida com a comunicação com o Servidor VoxelVision.
type NetworkClient struct {
	conn      *websocket.Conn
	url       string
	connected bool
	mu        sync.RWMutex

	// Callbacks para o App. Disparados na goroutine de leitura.
	OnStatus        func(version string, schematicCount int32)
	OnSchematicList func(names []string)
	OnSchematic     func(msg *vvnet.SchematicMessage)
	OnDisconnect    func()
}

func NewNetworkClient(url string) *NetworkClient {
	return &NetworkClient{url: url}
}

func (c *NetworkClient) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var err error
	maxRetries := 10
	for i := 0; i < maxRetries; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, maxRetries, c.url)
		c.conn, _, err = dialer.Dial(c.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Printf("[Network] ERRO CRÍTICO após %d tentativas: %v", maxRetries, err)
		return err
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	go c.readLoop()
	return nil
}

func (c *NetworkClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// RequestSchematic pede ao servidor um schematic pelo nome.
func (c *NetworkClient) RequestSchematic(name string) {
	req := vvnet.RequestSchematicMessage{Name: name}
	c.send(vvnet.TypeRequestSchematic, req.Marshal())
}

func (c *NetworkClient) send(msgType vvnet.MessageType, payload []byte) {
	if !c.IsConnected() {
		return
	}

	data := vvnet.Pack(msgType, payload)

	c.mu.Lock()
	err := c.conn.WriteMessage(websocket.BinaryMessage, data)
	c.mu.Unlock()

	if err != nil {
		log.Printf("[Network] Erro ao enviar mensagem: %v", err)
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}
}

func (c *NetworkClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *NetworkClient) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		if c.conn != nil {
			c.conn.Close()
		}
		if c.OnDisconnect != nil {
			c.OnDisconnect()
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			log.Printf("[Network] Conexão perdida: %v", err)
			break
		}

		var env vvnet.Envelope
		if err := env.Unmarshal(message); err != nil {
			log.Printf("[Network] Erro ao desempacotar envelope: %v", err)
			continue
		}

		c.handleMessage(&env)
	}
}

func (c *NetworkClient) handleMessage(env *vvnet.Envelope) {
	switch env.Type {
	case vvnet.TypeServerStatus:
		var status vvnet.ServerStatusMessage
		if err := status.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] ServerStatus inválido: %v", err)
			return
		}
		if c.OnStatus != nil {
			c.OnStatus(status.Version, status.SchematicCount)
		}
	case vvnet.TypeSchematicList:
		var list vvnet.SchematicListMessage
		if err := list.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] SchematicList inválida: %v", err)
			return
		}
		log.Printf("[Network] %d schematics disponíveis no servidor", len(list.Names))
		if c.OnSchematicList != nil {
			c.OnSchematicList(list.Names)
		}
	case vvnet.TypeSchematic:
		var msg vvnet.SchematicMessage
		if err := msg.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] Schematic inválido: %v", err)
			return
		}
		log.Printf("[Network] Schematic recebido: %q (%dx%dx%d)", msg.Name, msg.SizeX, msg.SizeY, msg.SizeZ)
		if c.OnSchematic != nil {
			c.OnSchematic(&msg)
		}
	default:
		log.Printf("[Network] Mensagem de tipo desconhecido: %d", env.Type)
	}
}
