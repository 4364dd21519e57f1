// Package compiler transforma a árvore de documento SDF no grafo de
// cena nomeado, delegando criação de geometria e materiais para o
// colaborador de render e referências remotas para o resolvedor Fuel.
package compiler

import (
	"log"

	"SimVision/cliente/internal/assets"
	"SimVision/cliente/internal/fuel"
	"SimVision/shared/scene"
	"SimVision/shared/sdf"
)

// Options controla o comportamento da compilação.
type Options struct {
	// EnableLights define a visibilidade inicial das luzes compiladas.
	EnableLights bool

	// ShowCollisions torna visíveis os visuais de colisão (que por
	// default são criados invisíveis e sem sombras).
	ShowCollisions bool

	// UsingRemoteURLs libera a resolução de texturas contra a lista
	// de URLs customizadas do catálogo. Desligado, texturas vêm
	// somente da tabela local em memória.
	UsingRemoteURLs bool

	// AssetRoot é a raiz usada como último recurso na resolução de
	// texturas (raiz + diretório derivado + arquivo).
	AssetRoot string
}

// Compiler é o estado de uma sessão de compilação. Todas as tabelas
// (materiais, índice de URLs, grafo) são estado de sessão explícito,
// nunca globais de processo.
type Compiler struct {
	engine scene.Engine
	graph  *scene.Graph
	opts   Options

	materials *MaterialResolver

	resolver     *fuel.Resolver
	normalizeURI func(string) string
}

// New cria um compilador para uma sessão.
func New(engine scene.Engine, graph *scene.Graph, mgr *assets.Manager, index *fuel.Index, opts Options) *Compiler {
	return &Compiler{
		engine: engine,
		graph:  graph,
		opts:   opts,
		materials: &MaterialResolver{
			Assets:          mgr,
			Index:           index,
			AssetRoot:       opts.AssetRoot,
			UsingRemoteURLs: opts.UsingRemoteURLs,
		},
	}
}

// SetResolver liga o resolvedor de includes e registra este compilador
// como materializador dos documentos resolvidos.
func (c *Compiler) SetResolver(r *fuel.Resolver) {
	c.resolver = r
	r.SetMaterialize(c.MaterializeInclude)
}

// SetURINormalizer define a função de canonização de URIs de malha
// (tipicamente Client.NormalizeURI).
func (c *Compiler) SetURINormalizer(fn func(string) string) {
	c.normalizeURI = fn
}

// Materials expõe o resolvedor de materiais da sessão.
func (c *Compiler) Materials() *MaterialResolver {
	return c.materials
}

// Compile compila um documento SDF completo. Aceita documentos
// embrulhados em <sdf> contendo world, model ou light. Retorna o nó
// raiz criado, ou nil para documentos vazios/malformados (com log).
func (c *Compiler) Compile(doc sdf.Node) *scene.Node {
	if doc == nil {
		log.Printf("[Compiler] Documento nulo, nada a compilar")
		return nil
	}

	root := doc
	if wrapped := doc.Child("sdf"); wrapped != nil {
		root = wrapped
	}

	if w := root.Child("world"); w != nil {
		return c.compileWorld(w)
	}
	if m := root.Child("model"); m != nil {
		node := c.compileModel(m, "", "")
		c.attach(nil, node)
		return node
	}
	if l := root.Child("light"); l != nil {
		node := c.compileLight(l, "", c.opts.EnableLights)
		c.attach(nil, node)
		return node
	}

	log.Printf("[Compiler] Documento sem world/model/light, nada a compilar")
	return nil
}

// compileWorld constrói o nó de mundo. Um mundo assume a posse da
// própria iluminação: a luz de ambiente default da cena é removida.
func (c *Compiler) compileWorld(w sdf.Node) *scene.Node {
	name := w.Name()
	if name == "" {
		name = "default"
	}

	node := &scene.Node{
		Name:       name,
		UniqueName: scene.UniqueName(name, w.Str("id")),
		ScopedName: name,
		Kind:       scene.KindWorld,
		Pose:       sdf.IdentityPose(),
		Visible:    true,
		Handle:     c.engine.CreateGroup(),
	}

	c.engine.RemoveDefaultLight()
	c.attach(nil, node)

	// O mundo não contribui para o escopo: o modelo raiz usa o
	// próprio nome como escopo.
	for _, m := range w.List("model") {
		c.attach(node, c.compileModel(m, "", ""))
	}
	for _, l := range w.List("light") {
		c.attach(node, c.compileLight(l, "", c.opts.EnableLights))
	}
	for _, inc := range w.List("include") {
		c.processInclude(inc, node)
	}

	return node
}

// compileModel constrói um nó de modelo, propagando o escopo por
// parâmetro explícito (nunca por estado mutável compartilhado).
// overrideName substitui o nome do documento (override de <include>).
func (c *Compiler) compileModel(m sdf.Node, parentScope, overrideName string) *scene.Node {
	name := m.Name()
	if overrideName != "" {
		name = overrideName
	}
	if name == "" {
		log.Printf("[Compiler] Modelo sem nome descartado")
		return nil
	}

	scoped := scene.ScopedName(parentScope, name)
	node := &scene.Node{
		Name:       name,
		UniqueName: scene.UniqueName(name, m.Str("id")),
		ScopedName: scoped,
		Kind:       scene.KindModel,
		Pose:       sdf.IdentityPose(),
		Visible:    true,
		Handle:     c.engine.CreateGroup(),
	}
	if m.Has("pose") {
		node.Pose = sdf.ParsePose(m.Get("pose"))
	}
	c.engine.SetPose(node.Handle, node.Pose)

	for _, l := range m.List("link") {
		c.attach(node, c.compileLink(l, scoped))
	}
	for _, nested := range m.List("model") {
		c.attach(node, c.compileModel(nested, scoped, ""))
	}
	for _, inc := range m.List("include") {
		c.processInclude(inc, node)
	}

	return node
}

// compileLink constrói um nó de link e seus filhos renderizáveis.
func (c *Compiler) compileLink(l sdf.Node, parentScope string) *scene.Node {
	name := l.Name()
	if name == "" {
		log.Printf("[Compiler] Link sem nome descartado (escopo %s)", parentScope)
		return nil
	}

	scoped := scene.ScopedName(parentScope, name)
	node := &scene.Node{
		Name:       name,
		UniqueName: scene.UniqueName(name, l.Str("id")),
		ScopedName: scoped,
		Kind:       scene.KindLink,
		Pose:       sdf.IdentityPose(),
		Visible:    true,
		Handle:     c.engine.CreateGroup(),
	}
	if l.Has("pose") {
		node.Pose = sdf.ParsePose(l.Get("pose"))
	}
	c.engine.SetPose(node.Handle, node.Pose)

	// Propriedades inerciais viajam como metadado opaco
	if in := l.Child("inertial"); in != nil {
		node.Inertial = parseInertial(in)
	}

	for _, v := range l.List("visual") {
		c.attach(node, c.compileVisual(v, scoped, false))
	}
	for _, col := range l.List("collision") {
		c.attach(node, c.compileVisual(col, scoped, true))
	}
	for _, li := range l.List("light") {
		c.attach(node, c.compileLight(li, scoped, c.opts.EnableLights))
	}
	for _, s := range l.List("sensor") {
		c.attach(node, c.compileSensor(s, scoped))
	}

	// Apenas o último emissor processado é retido por link; os
	// anteriores são descartados (comportamento documentado do
	// protocolo, não "consertar" sem confirmar a intenção).
	var emitter *scene.Node
	for _, pe := range l.List("particle_emitter") {
		if n := c.compileEmitter(pe, scoped); n != nil {
			if emitter != nil && emitter.Handle != nil {
				c.engine.Remove(emitter.Handle)
			}
			emitter = n
		}
	}
	if emitter != nil {
		c.attach(node, emitter)
	}

	return node
}

// compileSensor cria o nó organizacional de um sensor: só nome com
// escopo e pose; o payload específico do sensor não é compilado.
func (c *Compiler) compileSensor(s sdf.Node, parentScope string) *scene.Node {
	name := s.Name()
	if name == "" {
		return nil
	}
	node := &scene.Node{
		Name:       name,
		UniqueName: scene.UniqueName(name, s.Str("id")),
		ScopedName: scene.ScopedName(parentScope, name),
		Kind:       scene.KindSensor,
		Pose:       sdf.IdentityPose(),
	}
	if s.Has("pose") {
		node.Pose = sdf.ParsePose(s.Get("pose"))
	}
	return node
}

// parseInertial captura massa, tensor de inércia e pose inercial.
func parseInertial(in sdf.Node) *scene.Inertial {
	out := &scene.Inertial{
		Mass: sdf.ParseFloat(in.Get("mass"), 0),
		Pose: sdf.IdentityPose(),
	}
	if in.Has("pose") {
		out.Pose = sdf.ParsePose(in.Get("pose"))
	}
	if t := in.Child("inertia"); t != nil {
		out.IXX = sdf.ParseFloat(t.Get("ixx"), 0)
		out.IXY = sdf.ParseFloat(t.Get("ixy"), 0)
		out.IXZ = sdf.ParseFloat(t.Get("ixz"), 0)
		out.IYY = sdf.ParseFloat(t.Get("iyy"), 0)
		out.IYZ = sdf.ParseFloat(t.Get("iyz"), 0)
		out.IZZ = sdf.ParseFloat(t.Get("izz"), 0)
	}
	return out
}

// attach pendura child sob parent no grafo e no render.
func (c *Compiler) attach(parent, child *scene.Node) {
	if child == nil {
		return
	}
	var parentHandle scene.Handle
	if parent != nil {
		parentHandle = parent.Handle
	}
	c.graph.Attach(parent, child)
	if child.Handle != nil {
		c.engine.Attach(parentHandle, child.Handle)
	}
}

// processInclude encaminha um <include> ao resolvedor Fuel. A
// referência é copiada (o documento do chamador nunca é mutado): só
// extraímos URI e overrides.
func (c *Compiler) processInclude(inc sdf.Node, parent *scene.Node) {
	uri := inc.Str("uri")
	if uri == "" {
		log.Printf("[Compiler] Include sem URI descartado (pai %s)", parent.ScopedName)
		return
	}
	if c.resolver == nil {
		log.Printf("[Compiler] Include de %s ignorado: resolvedor Fuel não configurado", uri)
		return
	}

	ph := fuel.Placeholder{Parent: parent, Name: inc.Str("name")}
	if inc.Has("pose") {
		p := sdf.ParsePose(inc.Get("pose"))
		ph.Pose = &p
	}
	c.resolver.Include(uri, ph)
}

// MaterializeInclude compila um documento resolvido pelo catálogo e o
// pendura sob o pai do placeholder, aplicando os overrides de nome e
// pose. Cada chamada produz uma cópia independente do sub-modelo.
func (c *Compiler) MaterializeInclude(doc sdf.Node, ph fuel.Placeholder) {
	root := doc
	if wrapped := doc.Child("sdf"); wrapped != nil {
		root = wrapped
	}

	model := root.Child("model")
	if model == nil {
		log.Printf("[Compiler] Documento incluído sem <model>, descartado")
		return
	}

	node := c.compileModel(model, scopeOf(ph.Parent), ph.Name)
	if node == nil {
		return
	}
	if ph.Pose != nil {
		node.Pose = *ph.Pose
		c.engine.SetPose(node.Handle, node.Pose)
	}
	c.attach(ph.Parent, node)
}

// scopeOf retorna a contribuição de escopo de um pai: o mundo não
// participa da cadeia de escopo.
func scopeOf(parent *scene.Node) string {
	if parent == nil || parent.Kind == scene.KindWorld {
		return ""
	}
	return parent.ScopedName
}
