// Package render implementa o colaborador de renderização (interface
// scene.Engine) sobre Raylib. O compilador de cena nunca enxerga nada
// daqui além dos handles opacos.
package render

import (
	"log"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"SimVision/shared/scene"
	"SimVision/shared/sdf"
)

// Object é o nó interno do render: transform local, filhos e o
// conteúdo opcional (modelo, luz ou emissor).
type Object struct {
	parent   *Object
	children []*Object

	pose    sdf.Pose
	scale   mgl32.Vec3
	visible bool
	shadows bool

	hasModel bool
	model    rl.Model
	tint     rl.Color

	light   *scene.Light
	emitter *scene.ParticleEmitter
}

// Renderer mantém a árvore de objetos e o estado de GPU associado.
type Renderer struct {
	mu    sync.RWMutex
	roots []*Object

	// Luz de ambiente criada na inicialização; um mundo compilado a
	// remove ao assumir a própria iluminação.
	defaultLight *Object

	textures map[string]rl.Texture2D

	// Tarefas que precisam da thread principal (uploads de GPU);
	// drenadas a cada frame por ProcessTasks.
	tasks chan func()
}

// NewRenderer cria o renderizador com a luz de ambiente default.
func NewRenderer() *Renderer {
	r := &Renderer{
		textures: make(map[string]rl.Texture2D),
		tasks:    make(chan func(), 256),
	}

	r.defaultLight = &Object{
		visible: true,
		scale:   mgl32.Vec3{1, 1, 1},
		pose:    sdf.IdentityPose(),
		light: &scene.Light{
			Name:      "default",
			Type:      scene.LightDirectional,
			Diffuse:   sdf.Color{R: 0.8, G: 0.8, B: 0.8, A: 1},
			Intensity: 1,
		},
	}
	r.roots = append(r.roots, r.defaultLight)

	return r
}

func newObject() *Object {
	return &Object{
		visible: true,
		shadows: true,
		scale:   mgl32.Vec3{1, 1, 1},
		pose:    sdf.IdentityPose(),
		tint:    rl.White,
	}
}

// asObject converte um handle opaco de volta para *Object.
func asObject(h scene.Handle) *Object {
	obj, _ := h.(*Object)
	return obj
}

// --- scene.Engine ---

func (r *Renderer) CreateGroup() scene.Handle {
	return newObject()
}

func (r *Renderer) CreateBox(size mgl32.Vec3) scene.Handle {
	obj := newObject()
	if rl.IsWindowReady() {
		obj.model = rl.LoadModelFromMesh(rl.GenMeshCube(size.X(), size.Y(), size.Z()))
		obj.hasModel = true
	}
	return obj
}

func (r *Renderer) CreateCylinder(radius, length float32) scene.Handle {
	obj := newObject()
	if rl.IsWindowReady() {
		obj.model = rl.LoadModelFromMesh(rl.GenMeshCylinder(radius, length, 24))
		obj.hasModel = true
	}
	return obj
}

func (r *Renderer) CreateSphere(radius float32) scene.Handle {
	obj := newObject()
	if rl.IsWindowReady() {
		obj.model = rl.LoadModelFromMesh(rl.GenMeshSphere(radius, 16, 24))
		obj.hasModel = true
	}
	return obj
}

func (r *Renderer) CreatePlane(normal mgl32.Vec3, width, height float32) scene.Handle {
	// A normal do plano é ignorada: o Raylib gera o plano no XZ e a
	// orientação fica por conta da pose do visual.
	obj := newObject()
	if rl.IsWindowReady() {
		obj.model = rl.LoadModelFromMesh(rl.GenMeshPlane(width, height, 1, 1))
		obj.hasModel = true
	}
	return obj
}

func (r *Renderer) CreateLight(l *scene.Light) scene.Handle {
	obj := newObject()
	obj.light = l
	return obj
}

func (r *Renderer) CreateParticleEmitter(e *scene.ParticleEmitter) scene.Handle {
	// O sistema de partículas desenha um marcador simples; a textura e
	// a rampa de cor já chegam validadas pelo compilador.
	obj := newObject()
	obj.emitter = e
	return obj
}

func (r *Renderer) SetPose(h scene.Handle, p sdf.Pose) {
	if obj := asObject(h); obj != nil {
		r.mu.Lock()
		obj.pose = p
		r.mu.Unlock()
	}
}

func (r *Renderer) SetScale(h scene.Handle, s mgl32.Vec3) {
	if obj := asObject(h); obj != nil {
		r.mu.Lock()
		obj.scale = s
		r.mu.Unlock()
	}
}

func (r *Renderer) SetVisible(h scene.Handle, visible bool) {
	if obj := asObject(h); obj != nil {
		r.mu.Lock()
		obj.visible = visible
		r.mu.Unlock()
	}
}

func (r *Renderer) SetCastShadows(h scene.Handle, cast bool) {
	if obj := asObject(h); obj != nil {
		r.mu.Lock()
		obj.shadows = cast
		r.mu.Unlock()
	}
}

func (r *Renderer) Attach(parent, child scene.Handle) {
	childObj := asObject(child)
	if childObj == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	parentObj := asObject(parent)
	childObj.parent = parentObj
	if parentObj == nil {
		r.roots = append(r.roots, childObj)
	} else {
		parentObj.children = append(parentObj.children, childObj)
	}
}

func (r *Renderer) Remove(h scene.Handle) {
	obj := asObject(h)
	if obj == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detach(obj)
	r.unload(obj)
}

func (r *Renderer) RemoveDefaultLight() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaultLight == nil {
		return
	}
	r.detach(r.defaultLight)
	r.defaultLight = nil
	log.Printf("[Render] Luz de ambiente default removida (mundo assume a iluminação)")
}

func (r *Renderer) detach(obj *Object) {
	if obj.parent != nil {
		siblings := obj.parent.children
		for i, c := range siblings {
			if c == obj {
				obj.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		obj.parent = nil
		return
	}
	for i, root := range r.roots {
		if root == obj {
			r.roots = append(r.roots[:i], r.roots[i+1:]...)
			return
		}
	}
}

func (r *Renderer) unload(obj *Object) {
	if obj.hasModel && rl.IsWindowReady() {
		rl.UnloadModel(obj.model)
		obj.hasModel = false
	}
	for _, c := range obj.children {
		r.unload(c)
	}
}

// --- desenho ---

// Draw percorre a árvore compondo transforms pai→filho e desenha os
// modelos visíveis. O mundo SDF é Z-up; a raiz recebe uma rotação de
// -90° em X para o Y-up do Raylib.
func (r *Renderer) Draw() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	zUp := rl.MatrixRotateX(-math.Pi / 2)
	for _, root := range r.roots {
		r.drawObject(root, zUp)
	}
}

func (r *Renderer) drawObject(obj *Object, parentWorld rl.Matrix) {
	if !obj.visible {
		return
	}

	world := rl.MatrixMultiply(localMatrix(obj), parentWorld)

	if obj.hasModel {
		obj.model.Transform = world
		rl.DrawModel(obj.model, rl.Vector3{}, 1.0, obj.tint)
	}
	if obj.emitter != nil {
		// Marcador do volume de emissão
		pos := rl.Vector3Transform(rl.Vector3{}, world)
		rl.DrawCubeWires(pos, obj.emitter.Size.X(), obj.emitter.Size.Z(), obj.emitter.Size.Y(), rl.Orange)
	}

	for _, c := range obj.children {
		r.drawObject(c, world)
	}
}

// localMatrix monta o transform local: escala, depois rotação, depois
// translação.
func localMatrix(obj *Object) rl.Matrix {
	q := obj.pose.Orientation
	m := rl.MatrixMultiply(
		rl.MatrixScale(obj.scale.X(), obj.scale.Y(), obj.scale.Z()),
		rl.QuaternionToMatrix(rl.NewQuaternion(q.V[0], q.V[1], q.V[2], q.W)),
	)
	return rl.MatrixMultiply(m, rl.MatrixTranslate(
		obj.pose.Position.X(), obj.pose.Position.Y(), obj.pose.Position.Z()))
}

// ProcessTasks executa as tarefas pendentes que exigem a thread
// principal (uploads de malha/textura). Chamar uma vez por frame.
func (r *Renderer) ProcessTasks() {
	for {
		select {
		case task := <-r.tasks:
			task()
		default:
			return
		}
	}
}

// Unload libera todos os recursos de GPU.
func (r *Renderer) Unload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, root := range r.roots {
		r.unload(root)
	}
	r.roots = nil
	if rl.IsWindowReady() {
		for _, tex := range r.textures {
			rl.UnloadTexture(tex)
		}
	}
	r.textures = make(map[string]rl.Texture2D)
}
