package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"SimVision/shared/sdf"
)

// ParticleEmitter é o descritor validado de um emissor de partículas.
// A imagem de rampa de cor e a textura de partícula são obrigatórias;
// o compilador aborta a criação do emissor se qualquer uma faltar.
type ParticleEmitter struct {
	Name     string
	Emitting bool
	Pose     sdf.Pose

	Rate      float32 // partículas por segundo
	Duration  float32 // segundos de emissão (0 = contínuo)
	Lifetime  float32 // vida de cada partícula, em segundos
	ScaleRate float32

	MinVelocity float32
	MaxVelocity float32

	Size         mgl32.Vec3 // volume de emissão
	ParticleSize mgl32.Vec3 // tamanho de cada partícula

	ColorRampImage  string
	ParticleTexture string
}
