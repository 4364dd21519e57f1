package compiler

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"SimVision/cliente/internal/assets"
	"SimVision/cliente/internal/fuel"
	"SimVision/shared/scene"
	"SimVision/shared/sdf"
)

// fakeHandle registra o estado aplicado pelo compilador a um objeto.
type fakeHandle struct {
	kind    string
	size    mgl32.Vec3
	pose    sdf.Pose
	scale   mgl32.Vec3
	visible bool
	shadows bool
	mat     *scene.Material
	parent  *fakeHandle
}

// fakeEngine implementa scene.Engine de forma síncrona para os testes.
type fakeEngine struct {
	defaultLightRemoved bool
	removed             []*fakeHandle
	meshURIs            []string
	created             []*fakeHandle
}

func (e *fakeEngine) newHandle(kind string) *fakeHandle {
	h := &fakeHandle{kind: kind, visible: true, shadows: true, scale: mgl32.Vec3{1, 1, 1}}
	e.created = append(e.created, h)
	return h
}

func (e *fakeEngine) CreateGroup() scene.Handle { return e.newHandle("group") }
func (e *fakeEngine) CreateBox(size mgl32.Vec3) scene.Handle {
	h := e.newHandle("box")
	h.size = size
	return h
}
func (e *fakeEngine) CreateCylinder(radius, length float32) scene.Handle {
	return e.newHandle("cylinder")
}
func (e *fakeEngine) CreateSphere(radius float32) scene.Handle { return e.newHandle("sphere") }
func (e *fakeEngine) CreatePlane(normal mgl32.Vec3, w, h float32) scene.Handle {
	return e.newHandle("plane")
}
func (e *fakeEngine) CreateLight(l *scene.Light) scene.Handle { return e.newHandle("light") }
func (e *fakeEngine) CreateParticleEmitter(p *scene.ParticleEmitter) scene.Handle {
	return e.newHandle("emitter")
}

func (e *fakeEngine) LoadMesh(uri, submesh string, center bool, onReady func(scene.Handle)) {
	e.meshURIs = append(e.meshURIs, uri)
	onReady(e.newHandle("mesh"))
}

func (e *fakeEngine) SetPose(h scene.Handle, p sdf.Pose)            { h.(*fakeHandle).pose = p }
func (e *fakeEngine) SetScale(h scene.Handle, s mgl32.Vec3)         { h.(*fakeHandle).scale = s }
func (e *fakeEngine) SetMaterial(h scene.Handle, m *scene.Material) { h.(*fakeHandle).mat = m }
func (e *fakeEngine) SetVisible(h scene.Handle, v bool)             { h.(*fakeHandle).visible = v }
func (e *fakeEngine) SetCastShadows(h scene.Handle, c bool)         { h.(*fakeHandle).shadows = c }

func (e *fakeEngine) Attach(parent, child scene.Handle) {
	if parent != nil {
		child.(*fakeHandle).parent = parent.(*fakeHandle)
	}
}
func (e *fakeEngine) Remove(h scene.Handle) { e.removed = append(e.removed, h.(*fakeHandle)) }
func (e *fakeEngine) RemoveDefaultLight()   { e.defaultLightRemoved = true }

// byKind retorna os handles criados de um tipo.
func (e *fakeEngine) byKind(kind string) []*fakeHandle {
	var out []*fakeHandle
	for _, h := range e.created {
		if h.kind == kind {
			out = append(out, h)
		}
	}
	return out
}

func newTestCompiler(opts Options) (*Compiler, *fakeEngine, *scene.Graph) {
	engine := &fakeEngine{}
	graph := scene.NewGraph()
	c := New(engine, graph, assets.NewManager(), fuel.NewIndex(), opts)
	return c, engine, graph
}

func mustParse(t *testing.T, xml string) sdf.Node {
	t.Helper()
	doc, err := sdf.Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse falhou: %v", err)
	}
	return doc
}

const worldXML = `
<sdf version="1.6">
  <world name="campo">
    <model name="robo" id="5">
      <pose>1 0 0 0 0 0</pose>
      <link name="base">
        <visual name="corpo">
          <geometry><box><size>1 2 3</size></box></geometry>
        </visual>
        <collision name="hitbox">
          <geometry><box/></geometry>
        </collision>
      </link>
    </model>
  </world>
</sdf>`

func TestCompileWorld(t *testing.T) {
	c, engine, graph := newTestCompiler(Options{EnableLights: true})

	root := c.Compile(mustParse(t, worldXML))
	if root == nil {
		t.Fatal("Compile retornou nil para mundo válido")
	}
	if root.Kind != scene.KindWorld || root.Name != "campo" {
		t.Errorf("raiz = %s %q, want world \"campo\"", root.Kind, root.Name)
	}

	// Mundo compilado assume a iluminação
	if !engine.defaultLightRemoved {
		t.Error("luz de ambiente default não foi removida")
	}

	// O mundo não participa do escopo: modelo raiz usa o próprio nome
	model := graph.ByScopedName("robo")
	if model == nil {
		t.Fatal("modelo robo não indexado por nome com escopo")
	}
	if model.UniqueName != "robo5" {
		t.Errorf("nome único = %q, want \"robo5\"", model.UniqueName)
	}
	if !almostEqualVec(model.Pose.Position, mgl32.Vec3{1, 0, 0}) {
		t.Errorf("pose do modelo = %v, want (1, 0, 0)", model.Pose.Position)
	}

	visual := graph.ByScopedName("robo::base::corpo")
	if visual == nil {
		t.Fatal("visual não indexado por nome com escopo")
	}
	if !visual.Visible {
		t.Error("visual comum deveria nascer visível")
	}

	boxes := engine.byKind("box")
	if len(boxes) != 2 {
		t.Fatalf("caixas criadas = %d, want 2 (visual + colisão)", len(boxes))
	}
	if !almostEqualVec(boxes[0].size, mgl32.Vec3{1, 2, 3}) {
		t.Errorf("tamanho da caixa = %v, want (1, 2, 3)", boxes[0].size)
	}
	// Caixa sem <size> usa o default unitário
	if !almostEqualVec(boxes[1].size, mgl32.Vec3{1, 1, 1}) {
		t.Errorf("tamanho default da caixa = %v, want (1, 1, 1)", boxes[1].size)
	}
}

func TestColisaoInvisivelSemSombra(t *testing.T) {
	c, engine, graph := newTestCompiler(Options{})

	c.Compile(mustParse(t, worldXML))

	col := graph.ByScopedName("robo::base::hitbox")
	if col == nil {
		t.Fatal("colisão não indexada")
	}
	if col.Kind != scene.KindCollision {
		t.Errorf("tipo = %s, want collision", col.Kind)
	}
	if col.Visible {
		t.Error("colisão deveria nascer invisível sem o toggle global")
	}
	if col.Handle.(*fakeHandle).visible {
		t.Error("handle do grupo de colisão continua visível no render")
	}

	// A geometria da colisão não projeta sombras
	boxes := engine.byKind("box")
	if boxes[1].shadows {
		t.Error("geometria de colisão ainda projeta sombras")
	}
	// A do visual comum projeta
	if !boxes[0].shadows {
		t.Error("geometria de visual comum não deveria ter sombras desligadas")
	}
}

func TestColisaoVisivelComToggle(t *testing.T) {
	c, _, graph := newTestCompiler(Options{ShowCollisions: true})

	c.Compile(mustParse(t, worldXML))

	col := graph.ByScopedName("robo::base::hitbox")
	if col == nil || !col.Visible {
		t.Error("colisão deveria nascer visível com show-collisions ligado")
	}
}

func TestEscoposAninhados(t *testing.T) {
	c, _, graph := newTestCompiler(Options{})

	const nested = `
<sdf version="1.6">
  <model name="carro">
    <model name="roda">
      <link name="aro"/>
    </model>
  </model>
</sdf>`
	c.Compile(mustParse(t, nested))

	if graph.ByScopedName("carro::roda") == nil {
		t.Error("modelo aninhado não indexado como carro::roda")
	}
	if graph.ByScopedName("carro::roda::aro") == nil {
		t.Error("link aninhado não indexado como carro::roda::aro")
	}
}

func TestMaterializeInclude(t *testing.T) {
	c, _, graph := newTestCompiler(Options{})

	world := c.Compile(mustParse(t, `<sdf version="1.6"><world name="campo"/></sdf>`))
	if world == nil {
		t.Fatal("mundo vazio não compilou")
	}

	incDoc := mustParse(t, `<sdf version="1.6"><model name="mesa"><link name="tampo"/></model></sdf>`)
	pose := sdf.ParsePose("4 5 0 0 0 0")
	c.MaterializeInclude(incDoc, fuel.Placeholder{
		Parent: world,
		Name:   "mesa_copia",
		Pose:   &pose,
	})

	// Override de nome e escopo do mundo (vazio)
	node := graph.ByScopedName("mesa_copia")
	if node == nil {
		t.Fatal("include materializado não indexado com o nome de override")
	}
	if !almostEqualVec(node.Pose.Position, mgl32.Vec3{4, 5, 0}) {
		t.Errorf("pose de override = %v, want (4, 5, 0)", node.Pose.Position)
	}
	if graph.ByScopedName("mesa_copia::tampo") == nil {
		t.Error("filho do include não herdou o escopo do override")
	}

	// Segunda materialização do mesmo documento: cópia independente
	c.MaterializeInclude(incDoc, fuel.Placeholder{Parent: world, Name: "mesa_dois"})
	if graph.ByScopedName("mesa_dois") == nil {
		t.Error("segunda materialização não criou cópia independente")
	}
	if graph.ByScopedName("mesa_copia") == nil {
		t.Error("primeira cópia sumiu após a segunda materialização")
	}
}

func TestMeshResolucaoPorIndice(t *testing.T) {
	c, engine, _ := newTestCompiler(Options{})
	c.Materials().Index.Add("https://cat/pacote/tip/files/meshes/corpo.dae")

	const meshXML = `
<sdf version="1.6">
  <model name="robo">
    <link name="base">
      <visual name="corpo">
        <geometry><mesh><uri>model://robo/meshes/corpo.dae</uri></mesh></geometry>
      </visual>
    </link>
  </model>
</sdf>`
	c.Compile(mustParse(t, meshXML))

	if len(engine.meshURIs) != 1 {
		t.Fatalf("malhas pedidas = %d, want 1", len(engine.meshURIs))
	}
	want := "https://cat/pacote/tip/files/meshes/corpo.dae"
	if engine.meshURIs[0] != want {
		t.Errorf("URI da malha = %q, want a URL do índice %q", engine.meshURIs[0], want)
	}
}

func almostEqualVec(a, b mgl32.Vec3) bool {
	const eps = 1e-4
	d := a.Sub(b)
	return d.X() < eps && d.X() > -eps && d.Y() < eps && d.Y() > -eps && d.Z() < eps && d.Z() > -eps
}
