package compiler

import (
	"strconv"
	"strings"

	"SimVision/shared/scene"
	"SimVision/shared/sdf"
)

// BuildLight normaliza os dois formatos de luz que chegam na prática:
// o registro tipado do feed ao vivo (campo type numérico) e o registro
// SDF (atributo @type textual). Ambos viram o mesmo descritor.
func BuildLight(n sdf.Node) *scene.Light {
	l := &scene.Light{
		Name:        n.Name(),
		Diffuse:     sdf.Color{R: 1, G: 1, B: 1, A: 1},
		Specular:    sdf.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
		Pose:        sdf.IdentityPose(),
		AttConstant: 1,
	}

	l.Type = parseLightType(n.Str("type"))

	if n.Has("diffuse") {
		l.Diffuse = sdf.ParseColor(n.Get("diffuse"))
	}
	if n.Has("specular") {
		l.Specular = sdf.ParseColor(n.Get("specular"))
	}
	if n.Has("pose") {
		l.Pose = sdf.ParsePose(n.Get("pose"))
	}
	if n.Has("direction") {
		l.Direction = sdf.ParseVector3(n.Get("direction"))
	}
	l.CastShadows = sdf.ParseBool(n.Get("cast_shadows"))

	if att := n.Child("attenuation"); att != nil {
		l.Range = sdf.ParseFloat(att.Get("range"), 0)
		l.AttConstant = sdf.ParseFloat(att.Get("constant"), 1)
		l.AttLinear = sdf.ParseFloat(att.Get("linear"), 0)
		l.AttQuadratic = sdf.ParseFloat(att.Get("quadratic"), 0)
	} else {
		// Registro tipado: termos de atenuação achatados
		l.Range = sdf.ParseFloat(n.Get("range"), 0)
		l.AttConstant = sdf.ParseFloat(n.Get("attenuation_constant"), 1)
		l.AttLinear = sdf.ParseFloat(n.Get("attenuation_linear"), 0)
		l.AttQuadratic = sdf.ParseFloat(n.Get("attenuation_quadratic"), 0)
	}

	if spot := n.Child("spot"); spot != nil {
		l.SpotInnerAngle = sdf.ParseFloat(spot.Get("inner_angle"), 0)
		l.SpotOuterAngle = sdf.ParseFloat(spot.Get("outer_angle"), 0)
		l.SpotFalloff = sdf.ParseFloat(spot.Get("falloff"), 0)
	}

	l.Intensity = lightIntensity(l.AttLinear, l.AttQuadratic)
	return l
}

// lightIntensity deriva a intensidade dos termos de atenuação
// linear/quadrático, pela fórmula de atenuação do Blender com
// E = D = r = 1. Com atenuação zero o resultado é 1.
func lightIntensity(linear, quadratic float32) float32 {
	const e, d, r = 1.0, 1.0, 1.0
	return e * (d / (d + linear*r)) * ((d * d) / (d*d + quadratic*r*r))
}

// parseLightType aceita o enum numérico do feed (1=point, 2=spot,
// 3=directional) ou o literal textual do SDF.
func parseLightType(s string) scene.LightType {
	s = strings.TrimSpace(s)
	if num, err := strconv.Atoi(s); err == nil {
		switch num {
		case 2:
			return scene.LightSpot
		case 3:
			return scene.LightDirectional
		default:
			return scene.LightPoint
		}
	}
	switch strings.ToLower(s) {
	case "spot":
		return scene.LightSpot
	case "directional":
		return scene.LightDirectional
	default:
		return scene.LightPoint
	}
}

// compileLight constrói o nó de luz. A visibilidade inicial vem da
// opção enable-lights da sessão.
func (c *Compiler) compileLight(n sdf.Node, parentScope string, visible bool) *scene.Node {
	l := BuildLight(n)
	if l.Name == "" {
		l.Name = "light"
	}

	node := &scene.Node{
		Name:       l.Name,
		UniqueName: scene.UniqueName(l.Name, n.Str("id")),
		ScopedName: scene.ScopedName(parentScope, l.Name),
		Kind:       scene.KindLight,
		Pose:       l.Pose,
		Visible:    visible,
		Handle:     c.engine.CreateLight(l),
	}
	if node.Handle != nil {
		c.engine.SetPose(node.Handle, node.Pose)
		c.engine.SetVisible(node.Handle, visible)
	}
	return node
}
