package fuel

import (
	"log"
	"path"
	"strings"
	"sync"

	"SimVision/shared/scene"
	"SimVision/shared/sdf"
)

// Placeholder é um pedido de include ainda não materializado: o pai
// onde o sub-modelo será pendurado e os overrides opcionais de nome e
// pose vindos do elemento <include>.
type Placeholder struct {
	Parent *scene.Node
	Name   string
	Pose   *sdf.Pose
}

// MaterializeFunc compila o documento resolvido em um SceneNode e o
// pendura sob o pai do placeholder. Fornecida pelo compilador de cena.
type MaterializeFunc func(doc sdf.Node, ph Placeholder)

// pendingInclude coalesce todas as referências a uma mesma URI.
// Ciclo de vida: criada na primeira referência; placeholders acumulam
// enquanto a busca está em voo; ao completar, o documento fica em
// cache permanente na entrada e cada placeholder acumulado (e os que
// chegarem depois) é materializado exatamente uma vez.
type pendingInclude struct {
	placeholders []Placeholder
	doc          sdf.Node
	resolved     bool
	failed       bool
}

// Resolver emite no máximo uma busca de rede por URI distinta durante
// toda a sessão e distribui o resultado para todos os consumidores.
type Resolver struct {
	mu      sync.Mutex
	entries map[string]*pendingInclude

	fetcher Fetcher
	index   *Index
	cache   *DiskCache // opcional

	materialize MaterializeFunc
}

// NewResolver cria o resolvedor de includes.
func NewResolver(fetcher Fetcher, index *Index) *Resolver {
	return &Resolver{
		entries: make(map[string]*pendingInclude),
		fetcher: fetcher,
		index:   index,
	}
}

// SetMaterialize registra o callback de materialização (o compilador
// de cena). Precisa ser chamado antes do primeiro Include.
func (r *Resolver) SetMaterialize(fn MaterializeFunc) {
	r.materialize = fn
}

// SetDiskCache liga o cache persistente (opcional).
func (r *Resolver) SetDiskCache(c *DiskCache) {
	r.cache = c
}

// Include registra uma referência a um modelo remoto.
//
//   - Primeira referência à URI: cria a entrada e dispara a busca.
//   - Busca em voo: o placeholder entra na fila e será materializado
//     pelo handler de conclusão.
//   - Documento já resolvido: materializa imediatamente, sem nova
//     atividade de rede.
//   - Busca já falhou: descarta com log (sem retry).
func (r *Resolver) Include(uri string, ph Placeholder) {
	if uri == "" || r.materialize == nil {
		log.Printf("[Fuel] Include ignorado: URI vazia ou resolvedor sem materializador")
		return
	}

	r.mu.Lock()
	entry, exists := r.entries[uri]
	if !exists {
		entry = &pendingInclude{placeholders: []Placeholder{ph}}
		r.entries[uri] = entry
		r.mu.Unlock()
		go r.fetch(uri, entry)
		return
	}

	if entry.resolved {
		doc := entry.doc
		r.mu.Unlock()
		r.materialize(doc, ph)
		return
	}
	if entry.failed {
		r.mu.Unlock()
		log.Printf("[Fuel] Include de %s descartado: busca anterior falhou", uri)
		return
	}

	entry.placeholders = append(entry.placeholders, ph)
	r.mu.Unlock()
}

// fetch busca manifesto + documento raiz de uma URI e materializa os
// placeholders acumulados. Roda em goroutine própria; a conclusão é
// serializada pelo mutex do resolvedor.
func (r *Resolver) fetch(uri string, entry *pendingInclude) {
	files, docData, ok := r.loadPackage(uri)
	if !ok {
		r.mu.Lock()
		entry.failed = true
		entry.placeholders = nil
		r.mu.Unlock()
		return
	}

	// Particiona o manifesto: o documento raiz fica com o resolvedor,
	// todo o resto vira URL customizada para buscas de textura/malha.
	for _, f := range files {
		if !isRootDocument(f) {
			r.index.Add(f)
		}
	}

	doc, err := sdf.Parse(docData)
	if err != nil {
		log.Printf("[Fuel] Documento inválido para %s: %v", uri, err)
		r.mu.Lock()
		entry.failed = true
		entry.placeholders = nil
		r.mu.Unlock()
		return
	}

	r.mu.Lock()
	entry.doc = doc
	entry.resolved = true
	pending := entry.placeholders
	entry.placeholders = nil
	r.mu.Unlock()

	log.Printf("[Fuel] Pacote %s resolvido: %d arquivos, %d placeholders pendentes",
		uri, len(files), len(pending))

	for _, ph := range pending {
		r.materialize(doc, ph)
	}
}

// loadPackage obtém manifesto + documento raiz, preferindo o cache em
// disco e caindo para a rede.
func (r *Resolver) loadPackage(uri string) ([]string, []byte, bool) {
	if files, docData, ok := r.cache.Load(uri); ok {
		log.Printf("[Fuel] Pacote %s carregado do cache em disco", uri)
		return files, docData, true
	}

	files, err := r.fetcher.ListFiles(uri)
	if err != nil {
		log.Printf("[Fuel] Falha ao listar arquivos de %s: %v", uri, err)
		return nil, nil, false
	}

	rootURL := ""
	for _, f := range files {
		if isRootDocument(f) {
			rootURL = f
			break
		}
	}
	if rootURL == "" {
		log.Printf("[Fuel] Pacote %s não tem documento raiz (.sdf)", uri)
		return nil, nil, false
	}

	docData, err := r.fetcher.FetchDocument(rootURL)
	if err != nil {
		log.Printf("[Fuel] Falha ao buscar documento raiz de %s: %v", uri, err)
		return nil, nil, false
	}

	if r.cache != nil {
		if err := r.cache.Store(uri, files, docData); err == nil {
			log.Printf("[Fuel] Pacote %s persistido no cache em disco", uri)
		}
	}

	return files, docData, true
}

// isRootDocument identifica o documento SDF raiz do pacote.
func isRootDocument(file string) bool {
	return strings.EqualFold(path.Ext(file), ".sdf")
}
