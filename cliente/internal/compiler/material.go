package compiler

import (
	"log"
	"path"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"SimVision/cliente/internal/assets"
	"SimVision/cliente/internal/fuel"
	"SimVision/shared/scene"
	"SimVision/shared/sdf"
)

// MaterialResolver combina a descrição inline de material de um visual
// com a tabela de materiais de script e reescreve referências de
// textura contra a lista de URLs customizadas do catálogo.
type MaterialResolver struct {
	Assets    *assets.Manager
	Index     *fuel.Index
	AssetRoot string

	// UsingRemoteURLs decide o desempate: desligado, texturas vêm
	// somente da tabela local em memória, nunca das URLs customizadas.
	UsingRemoteURLs bool
}

// Resolve produz o descritor de material pronto para o render.
// Descrição ausente resulta em nil (sem material a aplicar). Se o
// script referenciado não estiver no cache, valem os valores diretos
// do SDF, sem erro.
func (r *MaterialResolver) Resolve(m sdf.Node) *scene.Material {
	if m == nil {
		return nil
	}

	out := &scene.Material{Opacity: 1, Scale: mgl32.Vec3{1, 1, 1}}

	if m.Has("ambient") {
		c := sdf.ParseColor(m.Get("ambient"))
		out.Ambient = &c
	}
	if m.Has("diffuse") {
		c := sdf.ParseColor(m.Get("diffuse"))
		out.Diffuse = &c
	}
	if m.Has("specular") {
		c := sdf.ParseColor(m.Get("specular"))
		out.Specular = &c
	}
	if m.Has("opacity") {
		out.Opacity = sdf.ParseFloat(m.Get("opacity"), 1)
	}
	if m.Has("scale") {
		out.Scale = sdf.ParseScale(m.Get("scale"))
	}

	// Diretório de texturas derivado do script; o normal map reaproveita
	textureDir := ""

	if script := m.Child("script"); script != nil {
		name := script.Str("name")
		if entry := r.Assets.Script(name); entry != nil {
			// Valores do script sobrescrevem os diretos
			if entry.Ambient != nil {
				out.Ambient = colorFrom(entry.Ambient)
			}
			if entry.Diffuse != nil {
				out.Diffuse = colorFrom(entry.Diffuse)
			}
			if entry.Specular != nil {
				out.Specular = colorFrom(entry.Specular)
			}
			if entry.Opacity != nil {
				out.Opacity = *entry.Opacity
			}
			if entry.Scale != nil {
				out.Scale = mgl32.Vec3{entry.Scale[0], entry.Scale[1], entry.Scale[2]}
			}
			if entry.Texture != "" {
				textureDir = deriveTextureDir(entry.URIs)
				out.Texture = r.resolveTexture(entry.Texture, textureDir)
				if out.Texture == "" {
					log.Printf("[Material] Textura %q do script %q não encontrada", entry.Texture, name)
				}
			}
		} else if name != "" {
			log.Printf("[Material] Script %q fora do cache; usando valores diretos", name)
		}
	}

	if nm := m.Str("normal_map"); nm != "" {
		dir := textureDir
		if strings.Contains(nm, "://") {
			// URI própria: deriva o diretório dela mesma
			dir = deriveTextureDir([]string{nm})
			nm = path.Base(nm)
		}
		out.NormalMap = r.resolveTexture(nm, dir)
	}

	if pbr := m.Child("pbr"); pbr != nil {
		out.PBR = r.resolvePBR(pbr)
	}

	return out
}

// resolveTexture aplica a estratégia de três níveis: tabela local em
// memória, busca por substring nas URLs customizadas e, por último,
// concatenação com a raiz de assets. Com UsingRemoteURLs desligado só
// o primeiro nível vale.
func (r *MaterialResolver) resolveTexture(filename, dir string) string {
	if local, ok := r.Assets.Texture(filename); ok {
		return local
	}
	if !r.UsingRemoteURLs {
		return ""
	}
	if r.Index != nil {
		if u := r.Index.FindBySubstring(filename); u != "" {
			return u
		}
	}
	if dir != "" {
		return r.AssetRoot + "/" + dir + "/" + filename
	}
	return ""
}

// resolvePBR resolve cada mapa do conjunto metal/roughness. Mapa não
// encontrado é anulado individualmente (o render usa um default
// neutro); os demais seguem intactos.
func (r *MaterialResolver) resolvePBR(p sdf.Node) *scene.PBR {
	metal := p.Child("metal")
	if metal == nil {
		metal = p
	}

	pbr := &scene.PBR{
		Roughness: sdf.ParseFloat(metal.Get("roughness"), 1),
		Metalness: sdf.ParseFloat(metal.Get("metalness"), 0),
	}
	pbr.AlbedoMap = r.resolvePBRMap(metal.Str("albedo_map"))
	pbr.NormalMap = r.resolvePBRMap(metal.Str("normal_map"))
	pbr.EmissiveMap = r.resolvePBRMap(metal.Str("emissive_map"))
	pbr.RoughnessMap = r.resolvePBRMap(metal.Str("roughness_map"))
	pbr.MetalnessMap = r.resolvePBRMap(metal.Str("metalness_map"))
	return pbr
}

func (r *MaterialResolver) resolvePBRMap(ref string) string {
	if ref == "" {
		return ""
	}

	// Referência remota completa: registra proativamente para que as
	// próximas buscas de geometria/textura a encontrem
	if r.Index != nil && (strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")) {
		r.Index.Add(ref)
	}

	if r.UsingRemoteURLs && r.Index != nil && r.Index.Len() > 0 {
		if u := r.Index.FindBySubstring(path.Base(ref)); u != "" {
			return u
		}
		log.Printf("[Material] Mapa PBR não encontrado: %s", ref)
		return ""
	}
	return ref
}

// deriveTextureDir extrai o diretório de texturas das URIs de um
// script: a primeira URI model:// contendo "textures", ou o trecho de
// uma URI file:// até "materials" acrescido de "/textures".
func deriveTextureDir(uris []string) string {
	for _, u := range uris {
		if strings.HasPrefix(u, "model://") {
			if strings.Contains(u, "textures") {
				return strings.TrimPrefix(u, "model://")
			}
			continue
		}
		if strings.HasPrefix(u, "file://") {
			if idx := strings.Index(u, "materials"); idx >= 0 {
				return strings.TrimPrefix(u[:idx+len("materials")], "file://") + "/textures"
			}
		}
	}
	return ""
}

func colorFrom(c *[4]float32) *sdf.Color {
	return &sdf.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}
