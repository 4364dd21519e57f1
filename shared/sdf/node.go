// Package sdf lida com a árvore genérica de documentos SDF.
// O XML é convertido para mapas genéricos (via mxj, equivalente ao
// xml2json do lado web): atributos ganham o prefixo "@" e o conteúdo
// textual de um elemento fica na chave "#text".
package sdf

import (
	"fmt"

	"github.com/clbanning/mxj/v2"
)

func init() {
	// Mantém o formato de chaves compatível com o protocolo do simulador
	mxj.SetAttrPrefix("@")
}

// Node é um nó genérico do documento SDF.
// Um filho repetido pode aparecer como objeto único ou como lista,
// dependendo do documento. Todo consumidor deve usar List() para
// iterar campos repetíveis (regra de normalização única).
type Node map[string]any

// Parse converte um documento SDF (XML bruto) em uma árvore Node.
func Parse(data []byte) (Node, error) {
	mv, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, fmt.Errorf("falha ao parsear XML do SDF: %w", err)
	}
	return Node(mv), nil
}

// AsNode converte um valor genérico da árvore em Node (ou nil).
func AsNode(v any) Node {
	switch m := v.(type) {
	case Node:
		return m
	case map[string]any:
		return Node(m)
	}
	return nil
}

// Text extrai o conteúdo textual de um valor: strings diretas ou a
// chave "#text" de elementos que também carregam atributos.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		if s, ok := t["#text"].(string); ok {
			return s
		}
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// Get retorna o valor de um campo, aceitando tanto a forma de elemento
// ("name") quanto a forma de atributo ("@name").
func (n Node) Get(key string) any {
	if n == nil {
		return nil
	}
	if v, ok := n[key]; ok {
		return v
	}
	if v, ok := n["@"+key]; ok {
		return v
	}
	return nil
}

// Has verifica se o campo existe em qualquer uma das duas formas.
func (n Node) Has(key string) bool {
	return n.Get(key) != nil
}

// Str retorna o valor textual de um campo (elemento ou atributo).
func (n Node) Str(key string) string {
	return Text(n.Get(key))
}

// Child retorna um filho como Node. Se o campo for uma lista,
// retorna o primeiro elemento (comportamento de singleton).
func (n Node) Child(key string) Node {
	v := n.Get(key)
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		v = list[0]
	}
	return AsNode(v)
}

// List normaliza um campo repetível para uma lista de Nodes.
// Objeto único vira lista de um elemento; campo ausente vira lista vazia.
// Entradas que não são objetos (ex.: texto solto) são descartadas.
func (n Node) List(key string) []Node {
	v := n.Get(key)
	if v == nil {
		return nil
	}
	if items, ok := v.([]any); ok {
		out := make([]Node, 0, len(items))
		for _, item := range items {
			if child := AsNode(item); child != nil {
				out = append(out, child)
			}
		}
		return out
	}
	if child := AsNode(v); child != nil {
		return []Node{child}
	}
	return nil
}

// Name retorna o nome de exibição do nó ("name" ou "@name").
func (n Node) Name() string {
	return n.Str("name")
}
