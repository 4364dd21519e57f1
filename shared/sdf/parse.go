package sdf

import (
	"log"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Pose representa posição + orientação (quaternion unitário).
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// IdentityPose retorna a pose identidade (origem, sem rotação).
func IdentityPose() Pose {
	return Pose{Orientation: mgl32.QuatIdent()}
}

// Color representa uma cor RGBA em floats (0..1).
type Color struct {
	R, G, B, A float32
}

// toFloat converte um valor textual/numérico da árvore em float32.
// Campos ausentes ou inválidos viram o valor default informado.
func toFloat(v any, def float32) float32 {
	s := strings.TrimSpace(Text(v))
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return def
	}
	return float32(f)
}

// ParseFloat converte um campo escalar em float32, com default para
// campos ausentes ou inválidos.
func ParseFloat(v any, def float32) float32 {
	return toFloat(v, def)
}

// ParseFloats quebra um payload textual em count floats, preenchendo
// ausentes com def.
func ParseFloats(v any, count int, def float32) []float32 {
	return splitFloats(Text(v), count, def)
}

// splitFloats quebra um payload "1 2 3 ..." em floats.
// Componentes ausentes viram o default; excedentes são ignorados.
func splitFloats(s string, count int, def float32) []float32 {
	out := make([]float32, count)
	for i := range out {
		out[i] = def
	}
	fields := strings.Fields(s)
	for i := 0; i < count && i < len(fields); i++ {
		if f, err := strconv.ParseFloat(fields[i], 32); err == nil {
			out[i] = float32(f)
		}
	}
	return out
}

// ParseColor aceita "r g b a" ou objeto {r,g,b,a}. Alfa default 1.
func ParseColor(v any) Color {
	if m := AsNode(v); m != nil && (m.Has("r") || m.Has("g") || m.Has("b")) {
		return Color{
			R: toFloat(m.Get("r"), 0),
			G: toFloat(m.Get("g"), 0),
			B: toFloat(m.Get("b"), 0),
			A: toFloat(m.Get("a"), 1),
		}
	}
	f := splitFloats(Text(v), 4, 0)
	c := Color{R: f[0], G: f[1], B: f[2], A: f[3]}
	if len(strings.Fields(Text(v))) < 4 {
		c.A = 1
	}
	return c
}

// ParseVector3 aceita "x y z" ou objeto {x,y,z}. Componentes ausentes viram 0.
func ParseVector3(v any) mgl32.Vec3 {
	if m := AsNode(v); m != nil && (m.Has("x") || m.Has("y") || m.Has("z")) {
		return mgl32.Vec3{
			toFloat(m.Get("x"), 0),
			toFloat(m.Get("y"), 0),
			toFloat(m.Get("z"), 0),
		}
	}
	f := splitFloats(Text(v), 3, 0)
	return mgl32.Vec3{f[0], f[1], f[2]}
}

// ParseScale aceita "x y z" ou objeto {x,y,z}, com default 1 por eixo.
func ParseScale(v any) mgl32.Vec3 {
	if v == nil {
		return mgl32.Vec3{1, 1, 1}
	}
	if m := AsNode(v); m != nil && (m.Has("x") || m.Has("y") || m.Has("z")) {
		return mgl32.Vec3{
			toFloat(m.Get("x"), 1),
			toFloat(m.Get("y"), 1),
			toFloat(m.Get("z"), 1),
		}
	}
	f := splitFloats(Text(v), 3, 1)
	return mgl32.Vec3{f[0], f[1], f[2]}
}

// ParsePose interpreta os três formatos de pose que aparecem na prática:
//   - nil: pose identidade
//   - objeto com position/orientation (feed ao vivo): cópia direta
//   - texto "x y z roll pitch yaw" (SDF), possivelmente com atributo @frame
//
// Os ângulos de Euler são aplicados na ordem fixa Z-Y-X.
func ParsePose(v any) Pose {
	if v == nil {
		return IdentityPose()
	}

	if m := AsNode(v); m != nil {
		if m.Has("position") || m.Has("orientation") {
			p := IdentityPose()
			if pos := m.Child("position"); pos != nil {
				p.Position = ParseVector3(pos)
			}
			if ori := m.Child("orientation"); ori != nil {
				p.Orientation = mgl32.Quat{
					W: toFloat(ori.Get("w"), 1),
					V: mgl32.Vec3{
						toFloat(ori.Get("x"), 0),
						toFloat(ori.Get("y"), 0),
						toFloat(ori.Get("z"), 0),
					},
				}.Normalize()
			}
			return p
		}
		// Frames nomeados não são suportados: registramos e seguimos
		// com o payload textual normalmente.
		if frame := m.Str("frame"); frame != "" {
			log.Printf("[SDF] Pose com frame %q: frames não são suportados, atributo ignorado", frame)
		}
	}

	f := splitFloats(Text(v), 6, 0)
	return Pose{
		Position:    mgl32.Vec3{f[0], f[1], f[2]},
		Orientation: mgl32.AnglesToQuat(f[5], f[4], f[3], mgl32.ZYX),
	}
}

// ParseBool faz parsing estrito de literais booleanos ("true"/"false"/1/0).
// Valor ausente ou inválido vira false.
func ParseBool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	}
	s := strings.TrimSpace(Text(v))
	if s == "" {
		return false
	}
	switch s {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	log.Printf("[SDF] Literal booleano inválido: %q", s)
	return false
}
