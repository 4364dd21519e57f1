package fuel

import "testing"

func TestCreateFuelURI(t *testing.T) {
	const server = "fuel.gazebosim.org"
	const api = "1.0"

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"caminho de cache com hostname embutido",
			"/home/user/.sim/fuel.gazebosim.org/openrobotics/models/Mesa/tip/model.sdf",
			"https://fuel.gazebosim.org/1.0/openrobotics/models/Mesa/tip/files/model.sdf",
		},
		{
			"hostname no início",
			"fuel.gazebosim.org/openrobotics/models/Mesa/tip/meshes/mesa.dae",
			"https://fuel.gazebosim.org/1.0/openrobotics/models/Mesa/tip/files/meshes/mesa.dae",
		},
		{
			"já canônica volta intocada",
			"https://fuel.gazebosim.org/1.0/openrobotics/models/Mesa/tip/files/model.sdf",
			"https://fuel.gazebosim.org/1.0/openrobotics/models/Mesa/tip/files/model.sdf",
		},
		{
			"sem o hostname volta intocada",
			"model://mesa/meshes/mesa.dae",
			"model://mesa/meshes/mesa.dae",
		},
		{
			"caminho curto: files no fim",
			"fuel.gazebosim.org/openrobotics/models/Mesa",
			"https://fuel.gazebosim.org/1.0/openrobotics/models/Mesa/files",
		},
	}

	for _, tt := range tests {
		got := CreateFuelURI(tt.in, server, api)
		if got != tt.want {
			t.Errorf("%s: CreateFuelURI(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestCreateFuelURIIdempotente(t *testing.T) {
	const server = "fuel.gazebosim.org"
	const api = "1.0"

	in := "/cache/fuel.gazebosim.org/openrobotics/models/Mesa/tip/model.sdf"
	once := CreateFuelURI(in, server, api)
	twice := CreateFuelURI(once, server, api)
	if once != twice {
		t.Errorf("reaplicação mudou a URI: %q -> %q", once, twice)
	}
}

func TestCreateFuelURISemServidor(t *testing.T) {
	in := "qualquer/coisa"
	if got := CreateFuelURI(in, "", "1.0"); got != in {
		t.Errorf("sem servidor = %q, want entrada intocada", got)
	}
}

func TestIndex(t *testing.T) {
	idx := NewIndex()

	idx.Add("https://x/pacote/meshes/mesa.dae")
	idx.Add("https://x/pacote/materials/textures/madeira.png")
	idx.Add("https://x/pacote/meshes/mesa.dae") // duplicata
	idx.Add("")                                 // vazio ignorado

	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2 (sem duplicatas)", idx.Len())
	}

	if got := idx.FindBySubstring("madeira.png"); got != "https://x/pacote/materials/textures/madeira.png" {
		t.Errorf("FindBySubstring(madeira.png) = %q", got)
	}
	if got := idx.FindBySubstring("inexistente.png"); got != "" {
		t.Errorf("FindBySubstring(inexistente) = %q, want vazio", got)
	}
	if got := idx.FindBySubstring(""); got != "" {
		t.Errorf("FindBySubstring(\"\") = %q, want vazio", got)
	}

	idx.Reset()
	if idx.Len() != 0 {
		t.Errorf("Len após Reset = %d, want 0", idx.Len())
	}
}
