// Package scene define o grafo de cena nomeado produzido pelo compilador
// SDF e a fronteira com o colaborador de renderização.
package scene

import (
	"sync"

	"SimVision/shared/sdf"
)

// Kind identifica o tipo de entidade de um nó do grafo.
type Kind int

const (
	KindWorld Kind = iota
	KindModel
	KindLink
	KindVisual
	KindCollision
	KindLight
	KindSensor
	KindEmitter
)

func (k Kind) String() string {
	switch k {
	case KindWorld:
		return "world"
	case KindModel:
		return "model"
	case KindLink:
		return "link"
	case KindVisual:
		return "visual"
	case KindCollision:
		return "collision"
	case KindLight:
		return "light"
	case KindSensor:
		return "sensor"
	case KindEmitter:
		return "particle-emitter"
	}
	return "unknown"
}

// Inertial guarda as propriedades inerciais de um link como metadado
// opaco (massa, tensor de inércia, pose inercial). O visualizador não
// consome esses valores, mas eles precisam sobreviver à compilação.
type Inertial struct {
	Mass          float32
	IXX, IXY, IXZ float32
	IYY, IYZ, IZZ float32
	Pose          sdf.Pose
}

// Node é uma entidade renderizável ou organizacional do grafo.
//
// Convenções de nome (precisam casar byte a byte com o feed ao vivo):
//   - UniqueName: Name concatenado com o id numérico, sem separador
//   - ScopedName: cadeia de ancestrais unida por "::"
type Node struct {
	Name       string
	UniqueName string
	ScopedName string
	Kind       Kind
	Pose       sdf.Pose

	Parent   *Node
	Children []*Node

	// Handle é o objeto correspondente no colaborador de render
	// (nil para nós puramente organizacionais, ex.: sensores).
	Handle Handle

	Visible  bool
	Inertial *Inertial
}

// UniqueName monta o nome único: nome + id numérico sem separador.
// Sem id, o nome único é o próprio nome.
func UniqueName(name, id string) string {
	return name + id
}

// ScopedName monta o nome com escopo a partir do escopo do pai.
func ScopedName(parentScope, name string) string {
	if parentScope == "" {
		return name
	}
	return parentScope + "::" + name
}

// Graph mantém o grafo de cena e os índices de nomes usados pelo feed
// ao vivo. Estado de sessão explícito: um Graph por sessão de
// compilação, com Reset entre sessões independentes.
type Graph struct {
	mu       sync.RWMutex
	roots    []*Node
	byScoped map[string]*Node
	byUnique map[string]*Node
}

// NewGraph cria um grafo vazio.
func NewGraph() *Graph {
	return &Graph{
		byScoped: make(map[string]*Node),
		byUnique: make(map[string]*Node),
	}
}

// Attach pendura child sob parent (ou como raiz, se parent for nil) e
// registra o nó nos índices de nome. Um nó pertence a exatamente um pai.
func (g *Graph) Attach(parent, child *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()

	child.Parent = parent
	if parent == nil {
		g.roots = append(g.roots, child)
	} else {
		parent.Children = append(parent.Children, child)
	}
	g.index(child)
}

// index registra o nó (e recursivamente os filhos já existentes).
func (g *Graph) index(n *Node) {
	if n.ScopedName != "" {
		g.byScoped[n.ScopedName] = n
	}
	if n.UniqueName != "" {
		g.byUnique[n.UniqueName] = n
	}
	for _, c := range n.Children {
		g.index(c)
	}
}

// ByScopedName procura um nó pelo nome com escopo ("a::b::c").
func (g *Graph) ByScopedName(name string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.byScoped[name]
}

// ByUniqueName procura um nó pelo nome único (nome+id).
func (g *Graph) ByUniqueName(name string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.byUnique[name]
}

// Roots retorna os nós raiz atuais (normalmente o mundo).
func (g *Graph) Roots() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, len(g.roots))
	copy(out, g.roots)
	return out
}

// Walk visita toda a árvore em pré-ordem (raízes primeiro).
func (g *Graph) Walk(fn func(*Node)) {
	g.mu.RLock()
	roots := make([]*Node, len(g.roots))
	copy(roots, g.roots)
	g.mu.RUnlock()

	var visit func(*Node)
	visit = func(n *Node) {
		fn(n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range roots {
		visit(r)
	}
}

// Remove desanexa o nó do pai e remove a subárvore dos índices.
func (g *Graph) Remove(n *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n.Parent != nil {
		siblings := n.Parent.Children
		for i, c := range siblings {
			if c == n {
				n.Parent.Children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		n.Parent = nil
	} else {
		for i, r := range g.roots {
			if r == n {
				g.roots = append(g.roots[:i], g.roots[i+1:]...)
				break
			}
		}
	}
	g.unindex(n)
}

func (g *Graph) unindex(n *Node) {
	if g.byScoped[n.ScopedName] == n {
		delete(g.byScoped, n.ScopedName)
	}
	if g.byUnique[n.UniqueName] == n {
		delete(g.byUnique, n.UniqueName)
	}
	for _, c := range n.Children {
		g.unindex(c)
	}
}

// Reset descarta todo o estado do grafo (entre sessões de compilação).
func (g *Graph) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roots = nil
	g.byScoped = make(map[string]*Node)
	g.byUnique = make(map[string]*Node)
}
