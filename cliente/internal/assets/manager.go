package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// --- Estruturas JSON ---

// ScriptMaterial descreve um material de script pré-registrado
// (equivalente aos scripts .material do simulador, achatados em JSON).
type ScriptMaterial struct {
	Name     string     `json:"name"`
	Ambient  *[4]float32 `json:"ambient,omitempty"`
	Diffuse  *[4]float32 `json:"diffuse,omitempty"`
	Specular *[4]float32 `json:"specular,omitempty"`
	Opacity  *float32    `json:"opacity,omitempty"`
	Scale    *[3]float32 `json:"scale,omitempty"`

	// Texture é o nome do arquivo de textura associado (sem diretório)
	Texture string `json:"texture,omitempty"`

	// URIs são os caminhos de origem do script (model:// ou file://);
	// o resolvedor de materiais deriva o diretório de texturas daqui
	URIs []string `json:"uris,omitempty"`
}

// MaterialConfig é o root do materials.json
type MaterialConfig struct {
	ScriptMaterials []ScriptMaterial `json:"scriptMaterials"`
}

// TextureConfig é o root do textures.json (nome do arquivo -> caminho local)
type TextureConfig struct {
	Textures map[string]string `json:"textures"`
}

// --- Manager ---

// Manager é a tabela central em memória consultada pelo resolvedor de
// materiais: scripts indexados por nome e texturas indexadas por
// arquivo. Estado de sessão explícito, com Reset entre sessões.
type Manager struct {
	mu       sync.RWMutex
	scripts  map[string]*ScriptMaterial
	textures map[string]string
}

// NewManager cria o gerenciador vazio.
func NewManager() *Manager {
	return &Manager{
		scripts:  make(map[string]*ScriptMaterial),
		textures: make(map[string]string),
	}
}

// LoadConfigDir carrega materials.json e textures.json de um diretório
// de configuração. textures.json é opcional (fallback silencioso).
func LoadConfigDir(configDir string) (*Manager, error) {
	m := NewManager()

	matData, err := os.ReadFile(configDir + "/materials.json")
	if err != nil {
		return nil, fmt.Errorf("falha ao ler materials.json: %w", err)
	}
	var matConf MaterialConfig
	if err := json.Unmarshal(matData, &matConf); err != nil {
		return nil, fmt.Errorf("falha ao parsear materials.json: %w", err)
	}
	for i := range matConf.ScriptMaterials {
		s := matConf.ScriptMaterials[i]
		m.scripts[s.Name] = &s
	}

	texData, err := os.ReadFile(configDir + "/textures.json")
	if err == nil {
		var texConf TextureConfig
		if err := json.Unmarshal(texData, &texConf); err != nil {
			return nil, fmt.Errorf("falha ao parsear textures.json: %w", err)
		}
		for name, path := range texConf.Textures {
			m.textures[name] = path
		}
	}

	return m, nil
}

// --- Consultas Públicas ---

// Script retorna o material de script registrado com este nome.
// Retorna nil se o nome não estiver na tabela.
func (m *Manager) Script(name string) *ScriptMaterial {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scripts[name]
}

// RegisterScript registra (ou sobrescreve) um material de script.
func (m *Manager) RegisterScript(s *ScriptMaterial) {
	if s == nil || s.Name == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[s.Name] = s
}

// Texture consulta a tabela local de texturas pelo nome do arquivo.
func (m *Manager) Texture(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path, ok := m.textures[name]
	return path, ok
}

// RegisterTexture registra uma textura local pelo nome do arquivo.
func (m *Manager) RegisterTexture(name, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textures[name] = path
}

// Reset descarta todo o estado (entre sessões de compilação).
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts = make(map[string]*ScriptMaterial)
	m.textures = make(map[string]string)
}
