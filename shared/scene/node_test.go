package scene

import "testing"

func TestNomes(t *testing.T) {
	tests := []struct {
		parentScope string
		name        string
		id          string
		wantScoped  string
		wantUnique  string
	}{
		{"", "mundo", "", "mundo", "mundo"},
		{"robo", "base", "7", "robo::base", "base7"},
		{"robo::base", "visual", "12", "robo::base::visual", "visual12"},
	}

	for _, tt := range tests {
		if got := ScopedName(tt.parentScope, tt.name); got != tt.wantScoped {
			t.Errorf("ScopedName(%q, %q) = %q, want %q", tt.parentScope, tt.name, got, tt.wantScoped)
		}
		if got := UniqueName(tt.name, tt.id); got != tt.wantUnique {
			t.Errorf("UniqueName(%q, %q) = %q, want %q", tt.name, tt.id, got, tt.wantUnique)
		}
	}
}

func TestGraphIndices(t *testing.T) {
	g := NewGraph()

	world := &Node{Name: "campo", ScopedName: "campo", UniqueName: "campo", Kind: KindWorld}
	model := &Node{Name: "robo", ScopedName: "robo", UniqueName: "robo3", Kind: KindModel}
	link := &Node{Name: "base", ScopedName: "robo::base", UniqueName: "base4", Kind: KindLink}

	g.Attach(nil, world)
	g.Attach(world, model)
	g.Attach(model, link)

	if got := g.ByScopedName("robo::base"); got != link {
		t.Errorf("ByScopedName(robo::base) = %v, want o link", got)
	}
	if got := g.ByUniqueName("robo3"); got != model {
		t.Errorf("ByUniqueName(robo3) = %v, want o modelo", got)
	}
	if got := g.ByScopedName("inexistente"); got != nil {
		t.Errorf("ByScopedName(inexistente) = %v, want nil", got)
	}

	roots := g.Roots()
	if len(roots) != 1 || roots[0] != world {
		t.Fatalf("raízes = %v, want só o mundo", roots)
	}
}

func TestGraphRemove(t *testing.T) {
	g := NewGraph()

	world := &Node{Name: "campo", ScopedName: "campo", UniqueName: "campo", Kind: KindWorld}
	model := &Node{Name: "robo", ScopedName: "robo", UniqueName: "robo3", Kind: KindModel}
	link := &Node{Name: "base", ScopedName: "robo::base", UniqueName: "base4", Kind: KindLink}

	g.Attach(nil, world)
	g.Attach(world, model)
	g.Attach(model, link)

	// Remover o modelo tira a subárvore inteira dos índices
	g.Remove(model)

	if got := g.ByScopedName("robo"); got != nil {
		t.Errorf("modelo removido ainda indexado: %v", got)
	}
	if got := g.ByUniqueName("base4"); got != nil {
		t.Errorf("filho de modelo removido ainda indexado: %v", got)
	}
	if len(world.Children) != 0 {
		t.Errorf("mundo ainda tem %d filhos após remoção", len(world.Children))
	}
}

func TestGraphWalk(t *testing.T) {
	g := NewGraph()

	world := &Node{Name: "campo", ScopedName: "campo", Kind: KindWorld}
	model := &Node{Name: "robo", ScopedName: "robo", Kind: KindModel}
	link := &Node{Name: "base", ScopedName: "robo::base", Kind: KindLink}

	g.Attach(nil, world)
	g.Attach(world, model)
	g.Attach(model, link)

	var order []string
	g.Walk(func(n *Node) { order = append(order, n.Name) })

	want := []string{"campo", "robo", "base"}
	if len(order) != len(want) {
		t.Fatalf("visitados = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("ordem de visita[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}
