package sdf

import "testing"

const sampleXML = `
<sdf version="1.6">
  <world name="campo">
    <model name="robo">
      <link name="base"/>
      <link name="braco"/>
      <pose frame="mapa">1 2 3 0 0 0</pose>
    </model>
    <light name="sol" type="directional"/>
  </world>
</sdf>`

func TestParseEstrutura(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	if err != nil {
		t.Fatalf("Parse falhou: %v", err)
	}

	world := doc.Child("sdf").Child("world")
	if world == nil {
		t.Fatal("mundo não encontrado no documento")
	}
	if world.Name() != "campo" {
		t.Errorf("nome do mundo = %q, want \"campo\"", world.Name())
	}

	model := world.Child("model")
	if model == nil || model.Name() != "robo" {
		t.Fatalf("modelo = %v, want \"robo\"", model)
	}
}

func TestListNormalizacao(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	if err != nil {
		t.Fatalf("Parse falhou: %v", err)
	}
	world := doc.Child("sdf").Child("world")
	model := world.Child("model")

	// Campo repetido duas vezes: lista de dois
	links := model.List("link")
	if len(links) != 2 {
		t.Fatalf("links = %d, want 2", len(links))
	}
	if links[0].Name() != "base" || links[1].Name() != "braco" {
		t.Errorf("nomes dos links = %q, %q", links[0].Name(), links[1].Name())
	}

	// Singleton: vira lista de um
	models := world.List("model")
	if len(models) != 1 {
		t.Errorf("modelos = %d, want 1 (singleton normalizado)", len(models))
	}

	// Campo ausente: lista vazia
	if got := world.List("inexistente"); len(got) != 0 {
		t.Errorf("campo ausente = %d elementos, want 0", len(got))
	}
}

func TestAtributoEElemento(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	if err != nil {
		t.Fatalf("Parse falhou: %v", err)
	}
	light := doc.Child("sdf").Child("world").Child("light")

	// @type acessível pela chave sem prefixo
	if got := light.Str("type"); got != "directional" {
		t.Errorf("tipo da luz = %q, want \"directional\"", got)
	}
	if !light.Has("type") {
		t.Error("Has(\"type\") = false para atributo presente")
	}
}

func TestTextComAtributos(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	if err != nil {
		t.Fatalf("Parse falhou: %v", err)
	}
	model := doc.Child("sdf").Child("world").Child("model")

	// Elemento com atributo e conteúdo: texto vem de "#text"
	if got := Text(model.Get("pose")); got != "1 2 3 0 0 0" {
		t.Errorf("texto da pose = %q, want \"1 2 3 0 0 0\"", got)
	}
}
