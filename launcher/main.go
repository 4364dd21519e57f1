package main

import (
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"time"
)

func main() {
	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║         SimVision Launcher           ║")
	fmt.Println("╚══════════════════════════════════════╝")

	// 1. Iniciar o servidor de feed em uma nova janela (para ver os logs)
	fmt.Println("[1/2] Iniciando Servidor...")
	serverCmd := exec.Command("cmd", "/c", "start", "SimVision SERVER", "server.exe", "-world", "mundo.sdf")
	serverCmd.Dir = "servidor"
	if err := serverCmd.Run(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	// 2. Aguardar o servidor abrir o listener
	fmt.Println("Aguardando inicialização do servidor...")
	time.Sleep(2 * time.Second)

	// 3. Iniciar o visualizador silenciosamente (app GUI não precisa de CMD)
	fmt.Println("[2/2] Abrindo Visualizador...")

	absClientPath, err := filepath.Abs("cliente/client.exe")
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do cliente: %v", err)
	}

	clientCmd := exec.Command(absClientPath)
	clientCmd.Dir = "cliente" // Diretório de trabalho para carregar assets/config

	if err := clientCmd.Start(); err != nil {
		fmt.Printf("ERRO CRÍTICO: Não foi possível executar o cliente em %s\n", absClientPath)
		fmt.Printf("Detalhes: %v\n", err)
		fmt.Println("Pressione Enter para sair...")
		fmt.Scanln()
		return
	}

	fmt.Println("\nSucesso! SimVision foi iniciado.")
	fmt.Println("O Launcher fechará automaticamente em 2 segundos...")
	time.Sleep(2 * time.Second)
}
