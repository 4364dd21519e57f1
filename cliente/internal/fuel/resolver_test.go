package fuel

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"SimVision/shared/sdf"
)

// fakeFetcher simula o catálogo contando chamadas. O gate, quando
// presente, segura ListFiles até o teste liberar.
type fakeFetcher struct {
	mu        sync.Mutex
	listCalls int
	docCalls  int

	files []string
	doc   []byte
	fail  bool
	gate  chan struct{}
}

func (f *fakeFetcher) ListFiles(uri string) ([]string, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}
	if f.fail {
		return nil, fmt.Errorf("catálogo indisponível")
	}
	return f.files, nil
}

func (f *fakeFetcher) FetchDocument(url string) ([]byte, error) {
	f.mu.Lock()
	f.docCalls++
	f.mu.Unlock()

	if f.fail {
		return nil, fmt.Errorf("catálogo indisponível")
	}
	return f.doc, nil
}

func (f *fakeFetcher) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.docCalls
}

func newTestFetcher() *fakeFetcher {
	return &fakeFetcher{
		files: []string{
			"https://cat/pacote/tip/files/model.sdf",
			"https://cat/pacote/tip/files/meshes/mesa.dae",
		},
		doc: []byte(`<sdf version="1.6"><model name="mesa"/></sdf>`),
	}
}

func waitMaterialized(t *testing.T, ch chan string, want int) []string {
	t.Helper()
	var got []string
	for i := 0; i < want; i++ {
		select {
		case name := <-ch:
			got = append(got, name)
		case <-time.After(2 * time.Second):
			t.Fatalf("timeout esperando materialização %d/%d", i+1, want)
		}
	}
	return got
}

func TestResolverCoalesceBuscas(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.gate = make(chan struct{})

	idx := NewIndex()
	r := NewResolver(fetcher, idx)

	materialized := make(chan string, 8)
	r.SetMaterialize(func(doc sdf.Node, ph Placeholder) {
		materialized <- ph.Name
	})

	// Duas referências à mesma URI enquanto a busca está em voo
	r.Include("model://mesa", Placeholder{Name: "mesa_a"})
	r.Include("model://mesa", Placeholder{Name: "mesa_b"})
	close(fetcher.gate)

	got := waitMaterialized(t, materialized, 2)
	if len(got) != 2 {
		t.Fatalf("materializações = %d, want 2", len(got))
	}

	listCalls, docCalls := fetcher.calls()
	if listCalls != 1 {
		t.Errorf("ListFiles chamado %d vezes, want 1 (coalescência)", listCalls)
	}
	if docCalls != 1 {
		t.Errorf("FetchDocument chamado %d vezes, want 1", docCalls)
	}

	// Arquivos não-raiz viram URLs customizadas; o documento raiz não
	if idx.Len() != 1 {
		t.Errorf("índice com %d URLs, want 1 (só a malha)", idx.Len())
	}
	if got := idx.FindBySubstring("mesa.dae"); got == "" {
		t.Error("malha do pacote não registrada no índice")
	}
	if got := idx.FindBySubstring("model.sdf"); got != "" {
		t.Errorf("documento raiz registrado no índice: %q", got)
	}
}

func TestResolverJuntadaTardia(t *testing.T) {
	fetcher := newTestFetcher()
	idx := NewIndex()
	r := NewResolver(fetcher, idx)

	materialized := make(chan string, 8)
	r.SetMaterialize(func(doc sdf.Node, ph Placeholder) {
		materialized <- ph.Name
	})

	r.Include("model://mesa", Placeholder{Name: "primeira"})
	waitMaterialized(t, materialized, 1)

	// Referência depois da resolução: materializa na hora, sem rede nova
	r.Include("model://mesa", Placeholder{Name: "tardia"})
	got := waitMaterialized(t, materialized, 1)
	if got[0] != "tardia" {
		t.Errorf("materialização tardia = %q, want \"tardia\"", got[0])
	}

	listCalls, _ := fetcher.calls()
	if listCalls != 1 {
		t.Errorf("ListFiles chamado %d vezes, want 1 (cache da sessão)", listCalls)
	}
}

func TestResolverFalhaSemRetry(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.fail = true
	fetcher.gate = make(chan struct{})

	idx := NewIndex()
	r := NewResolver(fetcher, idx)

	materialized := make(chan string, 8)
	r.SetMaterialize(func(doc sdf.Node, ph Placeholder) {
		materialized <- ph.Name
	})

	r.Include("model://quebrada", Placeholder{Name: "a"})
	close(fetcher.gate)

	// Dá tempo da goroutine de busca falhar
	deadline := time.Now().Add(2 * time.Second)
	for {
		r.mu.Lock()
		failed := r.entries["model://quebrada"].failed
		r.mu.Unlock()
		if failed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timeout esperando a falha da busca")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Nova referência à URI falhada: descartada, sem nova busca
	r.Include("model://quebrada", Placeholder{Name: "b"})

	select {
	case name := <-materialized:
		t.Errorf("materialização inesperada após falha: %q", name)
	case <-time.After(100 * time.Millisecond):
	}

	listCalls, _ := fetcher.calls()
	if listCalls != 1 {
		t.Errorf("ListFiles chamado %d vezes, want 1 (sem retry)", listCalls)
	}
}
