package compiler

import (
	"log"
	"path"

	"github.com/go-gl/mathgl/mgl32"

	"SimVision/shared/scene"
	"SimVision/shared/sdf"
)

// compileVisual constrói um nó de visual ou colisão com geometria.
// Visuais de colisão nascem invisíveis (a menos do toggle global) e
// nunca projetam/recebem sombras.
func (c *Compiler) compileVisual(v sdf.Node, parentScope string, isCollision bool) *scene.Node {
	name := v.Name()
	if name == "" {
		log.Printf("[Compiler] Visual sem nome descartado (escopo %s)", parentScope)
		return nil
	}

	kind := scene.KindVisual
	if isCollision {
		kind = scene.KindCollision
	}

	node := &scene.Node{
		Name:       name,
		UniqueName: scene.UniqueName(name, v.Str("id")),
		ScopedName: scene.ScopedName(parentScope, name),
		Kind:       kind,
		Pose:       sdf.IdentityPose(),
		Handle:     c.engine.CreateGroup(),
	}
	if v.Has("pose") {
		node.Pose = sdf.ParsePose(v.Get("pose"))
	}
	c.engine.SetPose(node.Handle, node.Pose)

	node.Visible = !isCollision || c.opts.ShowCollisions
	c.engine.SetVisible(node.Handle, node.Visible)

	geom := v.Child("geometry")
	if geom == nil {
		log.Printf("[Compiler] %s %q sem geometria", kind, node.ScopedName)
		return node
	}

	mat := c.materials.Resolve(v.Child("material"))

	// apply recebe o handle da geometria (síncrono para primitivas,
	// callback tardio para malhas) e finaliza o nó.
	apply := func(gh scene.Handle) {
		if gh == nil {
			return
		}
		c.engine.Attach(node.Handle, gh)
		if mat != nil {
			c.engine.SetMaterial(gh, mat)
		}
		if isCollision {
			c.engine.SetCastShadows(gh, false)
		}
	}

	c.createGeometry(geom, apply)
	return node
}

// createGeometry despacha a criação da forma para o colaborador de
// render. Primitivas são síncronas; malhas chegam via callback na
// ordem de conclusão das buscas, não na ordem do documento.
func (c *Compiler) createGeometry(geom sdf.Node, apply func(scene.Handle)) {
	switch {
	case geom.Has("box"):
		box := geom.Child("box")
		size := mgl32.Vec3{1, 1, 1}
		if box.Has("size") {
			size = sdf.ParseVector3(box.Get("size"))
		}
		apply(c.engine.CreateBox(size))

	case geom.Has("cylinder"):
		cyl := geom.Child("cylinder")
		radius := sdf.ParseFloat(cyl.Get("radius"), 1)
		length := sdf.ParseFloat(cyl.Get("length"), 1)
		apply(c.engine.CreateCylinder(radius, length))

	case geom.Has("sphere"):
		sph := geom.Child("sphere")
		apply(c.engine.CreateSphere(sdf.ParseFloat(sph.Get("radius"), 1)))

	case geom.Has("plane"):
		plane := geom.Child("plane")
		normal := mgl32.Vec3{0, 0, 1}
		if plane.Has("normal") {
			normal = sdf.ParseVector3(plane.Get("normal"))
		}
		size := sdf.ParseFloats(plane.Get("size"), 2, 1)
		apply(c.engine.CreatePlane(normal, size[0], size[1]))

	case geom.Has("mesh"):
		c.createMesh(geom.Child("mesh"), apply)

	default:
		log.Printf("[Compiler] Geometria sem forma suportada, descartada")
	}
}

// createMesh resolve a URI da malha e dispara o carregamento
// assíncrono no render.
func (c *Compiler) createMesh(mesh sdf.Node, apply func(scene.Handle)) {
	uri := mesh.Str("uri")
	if uri == "" {
		log.Printf("[Compiler] Malha sem URI descartada")
		return
	}

	submesh := ""
	center := false
	if sub := mesh.Child("submesh"); sub != nil {
		submesh = sub.Name()
		center = sdf.ParseBool(sub.Get("center"))
	}

	scale := mgl32.Vec3{1, 1, 1}
	hasScale := mesh.Has("scale")
	if hasScale {
		scale = sdf.ParseScale(mesh.Get("scale"))
	}

	resolved := c.resolveMeshURI(uri)
	c.engine.LoadMesh(resolved, submesh, center, func(gh scene.Handle) {
		if gh == nil {
			log.Printf("[Compiler] Malha %s não pôde ser carregada", resolved)
			return
		}
		if hasScale {
			c.engine.SetScale(gh, scale)
		}
		apply(gh)
	})
}

// resolveMeshURI procura o arquivo no índice de URLs do catálogo e,
// na falta dele, canoniza a URI.
func (c *Compiler) resolveMeshURI(uri string) string {
	if c.materials.Index != nil {
		if u := c.materials.Index.FindBySubstring(path.Base(uri)); u != "" {
			return u
		}
	}
	if c.normalizeURI != nil {
		return c.normalizeURI(uri)
	}
	return uri
}
