package app

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"SimVision/cliente/internal/assets"
	"SimVision/cliente/internal/camera"
	"SimVision/cliente/internal/client"
	"SimVision/cliente/internal/compiler"
	"SimVision/cliente/internal/fuel"
	"SimVision/cliente/internal/render"
	"SimVision/shared/config"
	"SimVision/shared/scene"
	"SimVision/shared/sdf"
	"SimVision/shared/simnet"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// App é a aplicação principal do SimVision: janela, câmera, grafo de
// cena, compilador SDF e feed ao vivo.
type App struct {
	Config *config.Config

	// WorldFile, quando definido, é um documento SDF local compilado na
	// inicialização (além ou em vez do feed ao vivo).
	WorldFile string

	Cam      *camera.Controller
	renderer *render.Renderer
	graph    *scene.Graph
	comp     *compiler.Compiler

	assetMgr  *assets.Manager
	index     *fuel.Index
	fuelCli   *fuel.Client
	resolver  *fuel.Resolver
	diskCache *fuel.DiskCache

	netClient *client.NetworkClient

	// Fila de mensagens do feed aplicadas na thread principal (o grafo
	// e o render são tocados só ali)
	feedTasks chan func()

	frameCount   int
	statusLine   string
	simPaused    bool
	worldName    string
	showCollided bool
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{
		Config:       cfg,
		feedTasks:    make(chan func(), 1024),
		statusLine:   "Inicializando...",
		showCollided: cfg.ShowCollisions,
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
	rl.SetExitKey(0)

	a.Cam = camera.New()
	a.Cam.SetTarget(rl.Vector3{X: 0, Y: 0, Z: 0})

	log.Println("[SimVision] Janela inicializada com sucesso")
	log.Printf("[SimVision] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	a.setupScene()

	if a.WorldFile != "" {
		if err := a.LoadWorldFile(a.WorldFile); err != nil {
			log.Printf("[App] Falha ao carregar mundo local %s: %v", a.WorldFile, err)
			a.statusLine = "Erro ao carregar mundo local"
		} else {
			a.statusLine = "Mundo local carregado"
		}
	}

	go a.connectServer()

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseWindow()
}

// setupScene monta a sessão de compilação: render, grafo, tabelas de
// materiais, catálogo Fuel e o compilador que amarra tudo.
func (a *App) setupScene() {
	a.renderer = render.NewRenderer()
	a.graph = scene.NewGraph()

	mgr, err := assets.LoadConfigDir("assets/config")
	if err != nil {
		log.Printf("[App] Tabelas de materiais indisponíveis: %v", err)
		mgr = assets.NewManager()
	}
	a.assetMgr = mgr

	a.index = fuel.NewIndex()
	a.fuelCli = fuel.NewClient(a.Config.FuelServer, a.Config.FuelAPIVersion)
	a.fuelCli.HeaderKey = a.Config.RequestHeaderKey
	a.fuelCli.HeaderValue = a.Config.RequestHeaderValue

	a.resolver = fuel.NewResolver(a.fuelCli, a.index)
	if cache, err := fuel.OpenDiskCache("cache"); err != nil {
		log.Printf("[App] Cache em disco indisponível: %v", err)
	} else {
		a.diskCache = cache
		a.resolver.SetDiskCache(cache)
	}

	a.comp = compiler.New(a.renderer, a.graph, a.assetMgr, a.index, compiler.Options{
		EnableLights:    a.Config.EnableLights,
		ShowCollisions:  a.Config.ShowCollisions,
		UsingRemoteURLs: true,
		AssetRoot:       a.Config.AssetRoot,
	})
	a.comp.SetResolver(a.resolver)
	a.comp.SetURINormalizer(a.fuelCli.NormalizeURI)
}

// LoadWorldFile compila um documento SDF local para dentro do grafo.
func (a *App) LoadWorldFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("leitura de %s: %w", path, err)
	}
	doc, err := sdf.Parse(data)
	if err != nil {
		return fmt.Errorf("parse de %s: %w", path, err)
	}

	root := a.comp.Compile(doc)
	if root == nil {
		return fmt.Errorf("documento %s sem world/model/light", path)
	}
	a.worldName = root.Name
	log.Printf("[App] Mundo %q compilado de %s", root.Name, path)
	return nil
}

// connectServer abre o feed ao vivo e registra os handlers. Mensagens
// chegam em goroutine do websocket e são enfileiradas para a thread
// principal.
func (a *App) connectServer() {
	a.netClient = client.NewNetworkClient(a.Config.ServerURL)

	a.netClient.OnStatus = func(msg string, paused bool) {
		a.feedTasks <- func() {
			a.statusLine = msg
			a.simPaused = paused
		}
	}
	a.netClient.OnSceneDocument = func(doc *simnet.SceneDocument) {
		a.feedTasks <- func() { a.applySceneDocument(doc) }
	}
	a.netClient.OnPose = func(update *simnet.PoseUpdate) {
		a.feedTasks <- func() { a.applyPose(update) }
	}
	a.netClient.OnDelete = func(name string) {
		a.feedTasks <- func() { a.applyDelete(name) }
	}

	if err := a.netClient.Connect(); err != nil {
		a.feedTasks <- func() { a.statusLine = "Sem conexão com o simulador" }
	}
}

// applySceneDocument troca a cena atual pelo estado inicial recebido.
func (a *App) applySceneDocument(docMsg *simnet.SceneDocument) {
	doc, err := sdf.Parse(docMsg.XML)
	if err != nil {
		log.Printf("[App] Documento de cena inválido (%s): %v", docMsg.Name, err)
		return
	}

	// Estado anterior sai por inteiro: grafo e objetos de render
	for _, root := range a.graph.Roots() {
		if root.Handle != nil {
			a.renderer.Remove(root.Handle)
		}
		a.graph.Remove(root)
	}
	a.graph.Reset()

	if root := a.comp.Compile(doc); root != nil {
		a.worldName = root.Name
	}
}

// applyPose atualiza a pose de uma entidade: primeiro pelo nome com
// escopo, depois pelo nome único (nome+id).
func (a *App) applyPose(u *simnet.PoseUpdate) {
	node := a.graph.ByScopedName(u.Name)
	if node == nil {
		// Entidade sem id tem nome único igual ao nome; o sufixo
		// numérico só entra quando o feed manda um id de verdade.
		id := ""
		if u.ID != 0 {
			id = strconv.Itoa(int(u.ID))
		}
		node = a.graph.ByUniqueName(scene.UniqueName(u.Name, id))
	}
	if node == nil {
		return
	}

	node.Pose = sdf.Pose{
		Position: mgl32.Vec3{u.Position[0], u.Position[1], u.Position[2]},
		Orientation: mgl32.Quat{
			W: u.Orientation[3],
			V: mgl32.Vec3{u.Orientation[0], u.Orientation[1], u.Orientation[2]},
		},
	}
	if node.Handle != nil {
		a.renderer.SetPose(node.Handle, node.Pose)
	}
}

// applyDelete remove uma entidade do grafo e do render.
func (a *App) applyDelete(name string) {
	node := a.graph.ByScopedName(name)
	if node == nil {
		node = a.graph.ByUniqueName(name)
	}
	if node == nil {
		log.Printf("[App] Remoção de entidade desconhecida ignorada: %s", name)
		return
	}
	if node.Handle != nil {
		a.renderer.Remove(node.Handle)
	}
	a.graph.Remove(node)
}

// update processa um frame de lógica.
func (a *App) update() {
	a.frameCount++
	dt := rl.GetFrameTime()

	// Mensagens do feed, aplicadas aqui para manter grafo e render na
	// thread principal
drain:
	for {
		select {
		case task := <-a.feedTasks:
			task()
		default:
			break drain
		}
	}

	a.renderer.ProcessTasks()
	a.Cam.HandleInput(dt)
	a.Cam.Update(dt)
	a.handleKeys()
}

// handleKeys trata os atalhos do visualizador.
func (a *App) handleKeys() {
	if rl.IsKeyPressed(rl.KeyC) {
		a.showCollided = !a.showCollided
		a.toggleCollisions(a.showCollided)
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}
}

// toggleCollisions liga/desliga a visibilidade dos visuais de colisão
// já compilados.
func (a *App) toggleCollisions(show bool) {
	count := 0
	a.graph.Walk(func(n *scene.Node) {
		if n.Kind != scene.KindCollision {
			return
		}
		n.Visible = show
		if n.Handle != nil {
			a.renderer.SetVisible(n.Handle, show)
		}
		count++
	})
	log.Printf("[App] Visuais de colisão: %d alternados para %v", count, show)
}

// countNodes conta os nós do grafo por tipo (para o HUD).
func (a *App) countNodes() (models, visuals, lights int) {
	a.graph.Walk(func(n *scene.Node) {
		switch n.Kind {
		case scene.KindModel:
			models++
		case scene.KindVisual:
			visuals++
		case scene.KindLight:
			lights++
		}
	})
	return
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	if a.netClient != nil {
		a.netClient.Close()
	}
	a.renderer.Unload()

	if err := a.Config.Save(); err != nil {
		log.Printf("[SimVision] Erro ao salvar configurações: %v", err)
	}
}

// trimStatus limita o texto de status para caber no HUD.
func trimStatus(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 48 {
		return s[:45] + "..."
	}
	return s
}
