package fuel

import (
	"strings"
	"sync"
)

// Index é a lista de URLs customizadas descoberta durante a sessão:
// cada arquivo de pacote baixado do catálogo é registrado aqui para
// que as buscas posteriores de textura/malha o encontrem por nome.
type Index struct {
	mu   sync.RWMutex
	urls []string
	seen map[string]bool
}

// NewIndex cria um índice vazio.
func NewIndex() *Index {
	return &Index{seen: make(map[string]bool)}
}

// Add registra uma URL, ignorando duplicatas.
func (i *Index) Add(url string) {
	if url == "" {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.seen[url] {
		return
	}
	i.seen[url] = true
	i.urls = append(i.urls, url)
}

// FindBySubstring retorna a primeira URL que contém o trecho dado
// (tipicamente o nome do arquivo). Vazio se nada casar.
func (i *Index) FindBySubstring(fragment string) string {
	if fragment == "" {
		return ""
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, u := range i.urls {
		if strings.Contains(u, fragment) {
			return u
		}
	}
	return ""
}

// Len retorna a quantidade de URLs registradas.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.urls)
}

// Reset descarta o índice (entre sessões de compilação).
func (i *Index) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.urls = nil
	i.seen = make(map[string]bool)
}
