package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"SimVision/shared/sdf"
)

// Handle identifica um objeto criado no colaborador de render.
// O compilador nunca inspeciona o conteúdo, só repassa.
type Handle any

// Engine é a fronteira com o motor 3D. O compilador de cena é um
// cliente puro desta interface e nunca alcança o interior do render.
//
// Formas primitivas são síncronas; meshes são assíncronas e entregam o
// handle via callback quando o arquivo termina de carregar. A ordem de
// chegada de objetos assíncronos não é garantida.
type Engine interface {
	// CreateGroup cria um nó organizacional vazio (mundo, modelo, link).
	CreateGroup() Handle

	CreateBox(size mgl32.Vec3) Handle
	CreateCylinder(radius, length float32) Handle
	CreateSphere(radius float32) Handle
	CreatePlane(normal mgl32.Vec3, width, height float32) Handle
	CreateLight(l *Light) Handle
	CreateParticleEmitter(e *ParticleEmitter) Handle

	// LoadMesh carrega uma malha por URI (local ou remota). onReady
	// recebe nil se o arquivo não pôde ser carregado.
	LoadMesh(uri, submesh string, center bool, onReady func(Handle))

	SetPose(h Handle, p sdf.Pose)
	SetScale(h Handle, s mgl32.Vec3)
	SetMaterial(h Handle, m *Material)
	SetVisible(h Handle, visible bool)
	SetCastShadows(h Handle, cast bool)

	// Attach pendura um objeto sob outro (parent nil = raiz da cena).
	Attach(parent, child Handle)
	Remove(h Handle)

	// RemoveDefaultLight remove a luz de ambiente default da cena.
	// Um mundo compilado assume a posse da própria iluminação.
	RemoveDefaultLight()
}
