package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config armazena as configurações do SimVision.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Catálogo Fuel (resolução de modelos remotos)
	FuelServer     string `json:"fuel_server"`      // hostname do catálogo, ex: fuel.gazebosim.org
	FuelAPIVersion string `json:"fuel_api_version"` // segmento de versão da API, ex: 1.0
	AssetRoot      string `json:"asset_root"`       // raiz para assets fora do catálogo

	// Header opcional anexado a toda requisição do catálogo
	// (catálogos com controle de acesso)
	RequestHeaderKey   string `json:"request_header_key"`
	RequestHeaderValue string `json:"request_header_value"`

	// Feed ao vivo do simulador (usado pelo Cliente)
	ServerURL string `json:"server_url"`

	// Cena
	ShowCollisions bool `json:"show_collisions"` // visuais de colisão visíveis
	EnableLights   bool `json:"enable_lights"`   // luzes ligadas na criação

	// Câmera
	CameraSpeed       float32 `json:"camera_speed"`
	CameraSensitivity float32 `json:"camera_sensitivity"`
	ZoomSpeed         float32 `json:"zoom_speed"`

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
	ShowGrid      bool `json:"show_grid"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "SimVision",
		Fullscreen:   false,
		TargetFPS:    60,

		FuelServer:     "fuel.gazebosim.org",
		FuelAPIVersion: "1.0",
		AssetRoot:      "assets",

		ServerURL: "ws://127.0.0.1:9002/ws",

		ShowCollisions: false,
		EnableLights:   true,

		CameraSpeed:       10.0,
		CameraSensitivity: 0.3,
		ZoomSpeed:         5.0,

		ShowDebugInfo: true,
		ShowGrid:      false,
	}
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações de um arquivo JSON.
// Se o arquivo não existir, retorna as configurações padrão.
func Load() *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0644)
}
