package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"SimVision/shared/sdf"
)

// Material é o descritor resolvido de material, pronto para o
// colaborador de render. Campos nil/vazios significam "não definido".
type Material struct {
	Ambient  *sdf.Color
	Diffuse  *sdf.Color
	Specular *sdf.Color
	Opacity  float32
	Scale    mgl32.Vec3

	// Caminhos legados (pipeline de scripts de material)
	Texture   string
	NormalMap string

	// Conjunto PBR opcional
	PBR *PBR
}

// PBR agrupa os mapas do workflow metal/roughness. Um mapa vazio
// significa "ausente"; o render usa um default neutro nesse caso.
type PBR struct {
	AlbedoMap    string
	NormalMap    string
	EmissiveMap  string
	RoughnessMap string
	MetalnessMap string
	Roughness    float32
	Metalness    float32
}

// LightType enumera os tipos de luz suportados.
type LightType int

const (
	LightPoint LightType = iota
	LightSpot
	LightDirectional
)

func (t LightType) String() string {
	switch t {
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	case LightDirectional:
		return "directional"
	}
	return "point"
}

// Light é o descritor normalizado de luz entregue ao render, seja a
// origem um registro SDF (@type textual) ou o feed ao vivo (type numérico).
type Light struct {
	Name        string
	Type        LightType
	Diffuse     sdf.Color
	Specular    sdf.Color
	Pose        sdf.Pose
	Direction   mgl32.Vec3
	Range       float32
	Intensity   float32
	CastShadows bool

	// Termos de atenuação originais (constante/linear/quadrático)
	AttConstant  float32
	AttLinear    float32
	AttQuadratic float32

	// Cone do spot (radianos)
	SpotInnerAngle float32
	SpotOuterAngle float32
	SpotFalloff    float32
}
