package render

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"SimVision/shared/scene"
)

// httpClient busca malhas e texturas remotas; timeout generoso porque
// malhas de catálogo passam de dezenas de MB.
var httpClient = &http.Client{Timeout: 60 * time.Second}

// LoadMesh carrega uma malha por URI. URIs http(s) são baixadas em
// goroutine para um arquivo temporário; o upload pro GPU acontece na
// thread principal via fila de tarefas. onReady recebe nil em falha.
func (r *Renderer) LoadMesh(uri, submesh string, center bool, onReady func(scene.Handle)) {
	if submesh != "" {
		// O loader do Raylib não separa submeshes; carregamos o modelo
		// inteiro, que na prática contém a submesh pedida.
		log.Printf("[Render] Submesh %q ignorada; carregando modelo completo de %s", submesh, uri)
	}

	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		go func() {
			localPath, err := r.download(uri)
			if err != nil {
				log.Printf("[Render] Falha ao baixar malha %s: %v", uri, err)
				onReady(nil)
				return
			}
			r.tasks <- func() {
				onReady(r.uploadModel(localPath, center))
			}
		}()
		return
	}

	r.tasks <- func() {
		onReady(r.uploadModel(uri, center))
	}
}

// uploadModel carrega o arquivo de modelo e o embrulha num Object.
// Sempre chamado na thread principal.
func (r *Renderer) uploadModel(localPath string, center bool) scene.Handle {
	if !rl.IsWindowReady() {
		return newObject()
	}

	model := rl.LoadModel(localPath)
	if model.MeshCount == 0 {
		log.Printf("[Render] Modelo vazio ou não suportado: %s", localPath)
		return nil
	}

	obj := newObject()
	obj.model = model
	obj.hasModel = true

	if center {
		box := rl.GetModelBoundingBox(model)
		cx := (box.Min.X + box.Max.X) / 2
		cy := (box.Min.Y + box.Max.Y) / 2
		cz := (box.Min.Z + box.Max.Z) / 2
		obj.model.Transform = rl.MatrixMultiply(
			rl.MatrixTranslate(-cx, -cy, -cz), obj.model.Transform)
	}
	return obj
}

// download baixa a URI para o diretório temporário, preservando a
// extensão (o loader de modelos decide o formato pelo sufixo).
func (r *Renderer) download(uri string) (string, error) {
	resp, err := httpClient.Get(uri)
	if err != nil {
		return "", fmt.Errorf("requisição de %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d ao baixar %s", resp.StatusCode, uri)
	}

	name := path.Base(uri)
	if name == "" || name == "/" || name == "." {
		name = "download.bin"
	}
	dst := filepath.Join(os.TempDir(), "simvision_"+name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("arquivo temporário: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("gravação de %s: %w", dst, err)
	}
	return dst, nil
}

// SetMaterial aplica o descritor de material ao objeto: tint a partir
// do difuso e textura difusa/albedo quando resolvida.
func (r *Renderer) SetMaterial(h scene.Handle, m *scene.Material) {
	obj := asObject(h)
	if obj == nil || m == nil {
		return
	}

	r.mu.Lock()
	if m.Diffuse != nil {
		obj.tint = rl.NewColor(
			uint8(m.Diffuse.R*255),
			uint8(m.Diffuse.G*255),
			uint8(m.Diffuse.B*255),
			uint8(m.Opacity*255),
		)
	} else if m.Opacity < 1 {
		obj.tint = rl.NewColor(255, 255, 255, uint8(m.Opacity*255))
	}
	r.mu.Unlock()

	texture := m.Texture
	if texture == "" && m.PBR != nil {
		texture = m.PBR.AlbedoMap
	}
	if texture != "" {
		r.applyTexture(obj, texture)
	}
}

// applyTexture resolve a textura (cache, download remoto ou arquivo
// local) e a instala no material difuso do modelo.
func (r *Renderer) applyTexture(obj *Object, uri string) {
	r.mu.RLock()
	tex, cached := r.textures[uri]
	r.mu.RUnlock()
	if cached {
		r.tasks <- func() { r.installTexture(obj, tex) }
		return
	}

	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		go func() {
			localPath, err := r.download(uri)
			if err != nil {
				log.Printf("[Render] Falha ao baixar textura %s: %v", uri, err)
				return
			}
			r.tasks <- func() { r.uploadTexture(obj, uri, localPath) }
		}()
		return
	}

	r.tasks <- func() { r.uploadTexture(obj, uri, uri) }
}

// uploadTexture carrega o arquivo de imagem na thread principal e
// registra no cache por URI.
func (r *Renderer) uploadTexture(obj *Object, uri, localPath string) {
	if !rl.IsWindowReady() {
		return
	}
	tex := rl.LoadTexture(localPath)
	if tex.ID == 0 {
		log.Printf("[Render] Textura inválida: %s", localPath)
		return
	}
	r.mu.Lock()
	r.textures[uri] = tex
	r.mu.Unlock()
	r.installTexture(obj, tex)
}

func (r *Renderer) installTexture(obj *Object, tex rl.Texture2D) {
	if !obj.hasModel || !rl.IsWindowReady() {
		return
	}
	materials := obj.model.GetMaterials()
	if len(materials) == 0 {
		return
	}
	rl.SetMaterialTexture(&materials[0], rl.MapDiffuse, tex)
	r.mu.Lock()
	obj.tint = rl.White
	r.mu.Unlock()
}
