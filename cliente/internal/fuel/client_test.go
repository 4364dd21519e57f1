package fuel

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const manifestJSON = `{
  "name": "Mesa",
  "file_tree": [
    {"name": "model.sdf", "path": "/model.sdf"},
    {"name": "model.config", "path": "/model.config"},
    {
      "name": "meshes",
      "path": "/meshes",
      "children": [{"name": "mesa.dae", "path": "/meshes/mesa.dae"}]
    },
    {
      "name": "thumbnails",
      "path": "/thumbnails",
      "children": [{"name": "0.png", "path": "/thumbnails/0.png"}]
    }
  ]
}`

func TestListFiles(t *testing.T) {
	var gotHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("Private-Token")
		if r.URL.Path == "/pacote/tip/files" {
			w.Write([]byte(manifestJSON))
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	c := NewClient("fuel.gazebosim.org", "1.0")
	c.httpClient = ts.Client()
	c.HeaderKey = "Private-Token"
	c.HeaderValue = "segredo"

	files, err := c.ListFiles(ts.URL + "/pacote")
	if err != nil {
		t.Fatalf("ListFiles falhou: %v", err)
	}

	// thumbnails e .config ficam de fora
	want := []string{
		ts.URL + "/pacote/tip/files/model.sdf",
		ts.URL + "/pacote/tip/files/meshes/mesa.dae",
	}
	if len(files) != len(want) {
		t.Fatalf("arquivos = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("arquivo[%d] = %q, want %q", i, files[i], want[i])
		}
	}

	if gotHeader != "segredo" {
		t.Errorf("header de requisição = %q, want \"segredo\"", gotHeader)
	}
}

func TestFetchDocument(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/doc.sdf" {
			w.Write([]byte("<sdf/>"))
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	c := NewClient("fuel.gazebosim.org", "1.0")
	c.httpClient = ts.Client()

	data, err := c.FetchDocument(ts.URL + "/doc.sdf")
	if err != nil {
		t.Fatalf("FetchDocument falhou: %v", err)
	}
	if string(data) != "<sdf/>" {
		t.Errorf("documento = %q", data)
	}

	// Status fora de 200 vira erro
	if _, err := c.FetchDocument(ts.URL + "/nao-existe"); err == nil {
		t.Error("busca de documento inexistente deveria falhar")
	}
}
