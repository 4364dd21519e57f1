package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"SimVision/cliente/internal/app"
	"SimVision/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	// Flags de linha de comando
	worldFile := flag.String("world", "", "Documento SDF local para compilar na inicialização")
	serverURL := flag.String("server", "", "URL do feed ao vivo (padrão: ws://127.0.0.1:9002/ws)")
	fuelServer := flag.String("fuel", "", "Hostname do catálogo de modelos (padrão: fuel.gazebosim.org)")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	// Log em arquivo
	f, err := os.OpenFile("debug_sv.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(f)
		log.Println("--- INICIANDO SIMVISION ---")
	}

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║          SimVision v0.1.0            ║")
	log.Println("║  Visualizador 3D de mundos simulados ║")
	log.Println("╚══════════════════════════════════════╝")

	// Carregar configurações
	cfg := config.Load()

	// Flags de linha de comando sobrescrevem o config salvo
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *fuelServer != "" {
		cfg.FuelServer = *fuelServer
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	// Criar e rodar a aplicação
	application := app.New(cfg)
	application.WorldFile = *worldFile
	application.Run()
}
