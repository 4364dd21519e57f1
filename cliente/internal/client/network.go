// Package client mantém a conexão websocket com o simulador e entrega
// as mensagens do feed ao vivo para o App via callbacks.
package client

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SimVision/shared/simnet"
)

// NetworkClient lida com a comunicação com o servidor de simulação.
type NetworkClient struct {
	conn      *websocket.Conn
	url       string
	connected bool
	mu        sync.RWMutex

	// Callbacks para o App
	OnStatus        func(msg string, paused bool)
	OnSceneDocument func(doc *simnet.SceneDocument)
	OnPose          func(update *simnet.PoseUpdate)
	OnDelete        func(name string)
}

func NewNetworkClient(url string) *NetworkClient {
	return &NetworkClient{url: url}
}

// Connect tenta abrir a conexão com algumas retentativas (o servidor
// pode subir depois do visualizador).
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

// Close encerra a conexão (o readLoop percebe e finaliza).
func (c *NetworkClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
	}
}

// Send embrulha e envia uma mensagem ao servidor.
func (c *NetworkClient) Send(msgType simnet.EnvelopeType, payload []byte) {
	if !c.IsConnected() {
		return
	}

	env := &simnet.Envelope{Type: msgType, Payload: payload}

	c.mu.Lock()
	err := c.conn.WriteMessage(websocket.BinaryMessage, env.Marshal())
	c.mu.Unlock()

	if err != nil {
		log.Printf("[Network] Erro ao enviar mensagem: %v", err)
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
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
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			log.Printf("[Network] Conexão perdida: %v", err)
			break
		}

		var env simnet.Envelope
		if err := env.Unmarshal(message); err != nil {
			log.Printf("[Network] Erro ao desempacotar envelope: %v", err)
			continue
		}

		c.handleMessage(&env)
	}
}

func (c *NetworkClient) handleMessage(env *simnet.Envelope) {
	switch env.Type {
	case simnet.EnvelopeServerStatus:
		var status simnet.ServerStatus
		if err := status.Unmarshal(env.Payload); err == nil {
			if c.OnStatus != nil {
				c.OnStatus(status.Message, status.Paused)
			}
		}
	case simnet.EnvelopeSceneDocument:
		var doc simnet.SceneDocument
		if err := doc.Unmarshal(env.Payload); err == nil {
			log.Printf("[Network] Documento de cena recebido: %q (%d bytes)", doc.Name, len(doc.XML))
			if c.OnSceneDocument != nil {
				c.OnSceneDocument(&doc)
			}
		}
	case simnet.EnvelopePoseUpdate:
		var update simnet.PoseUpdate
		if err := update.Unmarshal(env.Payload); err == nil {
			if c.OnPose != nil {
				c.OnPose(&update)
			}
		}
	case simnet.EnvelopeEntityDelete:
		var del simnet.EntityDelete
		if err := del.Unmarshal(env.Payload); err == nil {
			log.Printf("[Network] Entidade removida pelo servidor: %s", del.Name)
			if c.OnDelete != nil {
				c.OnDelete(del.Name)
			}
		}
	case simnet.EnvelopePong:
		// Ping/Pong tratado
	}
}
