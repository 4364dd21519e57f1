// Servidor de feed do SimVision: serve um documento SDF local pelo
// websocket e, opcionalmente, anima as poses dos modelos de primeiro
// nível para exercitar o caminho de atualização ao vivo do cliente.
package main

import (
	"flag"
	"log"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SimVision/shared/sdf"
	"SimVision/shared/simnet"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub gerencia as conexões WebSocket ativas.
type Hub struct {
	clients    map[*websocket.Conn]*sync.Mutex
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex

	// welcome é a mensagem de cena enviada a todo cliente que conecta
	welcome []byte
}

func newHub(welcome []byte) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*sync.Mutex),
		broadcast:  make(chan []byte, 4096),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		welcome:    welcome,
	}
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = &sync.Mutex{}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[Hub] Cliente conectado (%d ativos)", total)
			h.send(conn, h.welcome)

		case conn := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, conn)
			total := len(h.clients)
			h.mu.Unlock()
			conn.Close()
			log.Printf("[Hub] Cliente desconectado (%d ativos)", total)

		case msg := <-h.broadcast:
			h.mu.Lock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mu.Unlock()
			for _, conn := range conns {
				h.send(conn, msg)
			}
		}
	}
}

// send escreve serializado pelo mutex da conexão (writes concorrentes
// no mesmo websocket corrompem o stream).
func (h *Hub) send(conn *websocket.Conn, msg []byte) {
	h.mu.Lock()
	lock, ok := h.clients[conn]
	h.mu.Unlock()
	if !ok {
		return
	}

	lock.Lock()
	err := conn.WriteMessage(websocket.BinaryMessage, msg)
	lock.Unlock()
	if err != nil {
		log.Printf("[Hub] Erro de escrita, derrubando cliente: %v", err)
		// Fora do loop do hub para não travar o run()
		go func() { h.unregister <- conn }()
	}
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Servidor] Falha no upgrade: %v", err)
		return
	}
	h.register <- conn

	// Leitura só para detectar o fechamento e responder pings
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				h.unregister <- conn
				return
			}
			var env simnet.Envelope
			if err := env.Unmarshal(data); err != nil {
				continue
			}
			pong := simnet.Envelope{Type: simnet.EnvelopePong}
			h.send(conn, pong.Marshal())
		}
	}()
}

// topLevelModels extrai os nomes dos modelos de primeiro nível do
// documento (os nomes com escopo que o cliente vai indexar).
func topLevelModels(doc sdf.Node) []string {
	root := doc
	if wrapped := doc.Child("sdf"); wrapped != nil {
		root = wrapped
	}
	if w := root.Child("world"); w != nil {
		root = w
	}

	var names []string
	for _, m := range root.List("model") {
		if n := m.Name(); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// animate publica poses circulares para cada modelo, numa frequência
// fixa. Serve para validar o casamento de nomes do feed no cliente.
func animate(h *Hub, models []string, hz float64) {
	if len(models) == 0 || hz <= 0 {
		return
	}

	ticker := time.NewTicker(time.Duration(float64(time.Second) / hz))
	defer ticker.Stop()

	start := time.Now()
	for range ticker.C {
		t := time.Since(start).Seconds()
		for i, name := range models {
			radius := 1.0 + float64(i)
			angle := t*0.5 + float64(i)

			update := simnet.PoseUpdate{
				Name: name,
				Position: [3]float32{
					float32(radius * math.Cos(angle)),
					float32(radius * math.Sin(angle)),
					0,
				},
				Orientation: [4]float32{0, 0, float32(math.Sin(angle / 2)), float32(math.Cos(angle / 2))},
			}
			env := simnet.Envelope{Type: simnet.EnvelopePoseUpdate, Payload: update.Marshal()}
			h.broadcast <- env.Marshal()
		}
	}
}

func main() {
	worldFile := flag.String("world", "", "Documento SDF servido aos clientes (obrigatório)")
	addr := flag.String("addr", ":9002", "Endereço de escuta do websocket")
	rate := flag.Float64("rate", 0, "Frequência de animação de poses em Hz (0 = estático)")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)

	if *worldFile == "" {
		log.Fatal("[Servidor] Informe o documento com -world arquivo.sdf")
	}

	xml, err := os.ReadFile(*worldFile)
	if err != nil {
		log.Fatalf("[Servidor] Falha ao ler %s: %v", *worldFile, err)
	}
	doc, err := sdf.Parse(xml)
	if err != nil {
		log.Fatalf("[Servidor] Documento SDF inválido: %v", err)
	}

	sceneMsg := simnet.SceneDocument{Name: *worldFile, XML: xml}
	welcome := simnet.Envelope{
		Type:    simnet.EnvelopeSceneDocument,
		Payload: sceneMsg.Marshal(),
	}

	hub := newHub(welcome.Marshal())
	go hub.run()

	models := topLevelModels(doc)
	log.Printf("[Servidor] Mundo %s carregado: %d modelos de primeiro nível", *worldFile, len(models))
	if *rate > 0 {
		go animate(hub, models, *rate)
		log.Printf("[Servidor] Animação de poses ligada a %.1f Hz", *rate)
	}

	http.HandleFunc("/ws", hub.handleWS)
	log.Printf("[Servidor] Escutando em %s/ws", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatalf("[Servidor] Erro no listener: %v", err)
	}
}
