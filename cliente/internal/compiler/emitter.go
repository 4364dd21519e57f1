package compiler

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"SimVision/shared/scene"
	"SimVision/shared/sdf"
)

// ParseEmitter valida e normaliza os parâmetros de um emissor de
// partículas. A imagem de rampa de cor e a textura de partícula são
// obrigatórias: a ausência de qualquer uma aborta a criação.
func ParseEmitter(n sdf.Node) (*scene.ParticleEmitter, error) {
	e := &scene.ParticleEmitter{
		Name:         n.Name(),
		Pose:         sdf.IdentityPose(),
		Rate:         sdf.ParseFloat(n.Get("rate"), 10),
		Duration:     sdf.ParseFloat(n.Get("duration"), 0),
		Lifetime:     sdf.ParseFloat(n.Get("lifetime"), 5),
		ScaleRate:    sdf.ParseFloat(n.Get("scale_rate"), 0),
		MinVelocity:  sdf.ParseFloat(n.Get("min_velocity"), 1),
		MaxVelocity:  sdf.ParseFloat(n.Get("max_velocity"), 1),
		Size:         mgl32.Vec3{1, 1, 1},
		ParticleSize: mgl32.Vec3{1, 1, 1},
		Emitting:     true,
	}

	if n.Has("pose") {
		e.Pose = sdf.ParsePose(n.Get("pose"))
	}
	if n.Has("size") {
		e.Size = sdf.ParseScale(n.Get("size"))
	}
	if n.Has("particle_size") {
		e.ParticleSize = sdf.ParseScale(n.Get("particle_size"))
	}
	if n.Has("emitting") {
		e.Emitting = sdf.ParseBool(n.Get("emitting"))
	}

	e.ColorRampImage = n.Str("color_range_image")
	if mat := n.Child("material"); mat != nil {
		if pbr := mat.Child("pbr"); pbr != nil {
			metal := pbr.Child("metal")
			if metal == nil {
				metal = pbr
			}
			e.ParticleTexture = metal.Str("albedo_map")
		}
	}

	if e.ColorRampImage == "" {
		return nil, fmt.Errorf("emissor sem color_range_image")
	}
	if e.ParticleTexture == "" {
		return nil, fmt.Errorf("emissor sem textura de partícula")
	}
	return e, nil
}

// compileEmitter valida os parâmetros e entrega o emissor ao render.
// Retorna nil (com log) para emissores incompletos.
func (c *Compiler) compileEmitter(n sdf.Node, parentScope string) *scene.Node {
	params, err := ParseEmitter(n)
	if err != nil {
		log.Printf("[Compiler] Emissor %q descartado: %v", n.Name(), err)
		return nil
	}

	name := params.Name
	if name == "" {
		name = "emitter"
	}

	node := &scene.Node{
		Name:       name,
		UniqueName: scene.UniqueName(name, n.Str("id")),
		ScopedName: scene.ScopedName(parentScope, name),
		Kind:       scene.KindEmitter,
		Pose:       params.Pose,
		Visible:    params.Emitting,
		Handle:     c.engine.CreateParticleEmitter(params),
	}
	if node.Handle != nil {
		c.engine.SetPose(node.Handle, node.Pose)
	}
	return node
}
