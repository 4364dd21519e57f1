package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

func main() {
	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║      SimVision Native Builder        ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	start := time.Now()

	// 1. Configurar ambiente
	setupEnvironment()

	// 2. Compilar o servidor de feed
	if err := buildComponent("SERVIDOR (Static)", "servidor", "servidor/server.exe", true, "-extldflags=-static -s -w"); err != nil {
		fatal(err)
	}

	// 3. Compilar o visualizador (CGO por causa do Raylib e do SQLite)
	if err := buildComponent("CLIENTE (CGO + Static + GUI)", "cliente", "cliente/client.exe", true, "-extldflags=-static -s -w -H=windowsgui"); err != nil {
		fatal(err)
	}

	// 4. Compilar o launcher
	if err := buildComponent("LAUNCHER (Pure Go)", "launcher", "SimVision.exe", false, "-s -w"); err != nil {
		fatal(err)
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
	fmt.Println(ColorYellow + "Dica: Execute o 'SimVision.exe' para abrir o visualizador." + ColorReset)

	fmt.Println("\nPressione Enter para sair...")
	fmt.Scanln()
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[0/3] Configurando ambiente de compilação..." + ColorReset)

	// Adicionar MSYS2 ao PATH se estiver no Windows (toolchain C do Raylib)
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Println("  -> MSYS2 adicionado ao PATH da build")
		}
	}
}

func buildComponent(label, pkg, out string, cgo bool, ldflags string) error {
	fmt.Printf(ColorYellow+"\nCompilando %s..."+ColorReset+"\n", label)

	cmd := exec.Command("go", "build", "-ldflags", ldflags, "-o", out, "./"+pkg)
	cmd.Env = os.Environ()
	if cgo {
		cmd.Env = append(cmd.Env, "CGO_ENABLED=1")
	} else {
		cmd.Env = append(cmd.Env, "CGO_ENABLED=0")
	}

	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		fmt.Println(string(output))
	}
	if err != nil {
		return fmt.Errorf("falha na build de %s: %w", pkg, err)
	}

	fmt.Printf(ColorGreen+"  -> %s pronto (%s)"+ColorReset+"\n", label, out)
	return nil
}

func fatal(err error) {
	fmt.Println(ColorRed + "\nERRO: " + err.Error() + ColorReset)
	fmt.Println("Pressione Enter para sair...")
	fmt.Scanln()
	os.Exit(1)
}
