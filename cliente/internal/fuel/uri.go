// Package fuel resolve referências de modelos remotos contra o
// catálogo Fuel: normalização de URIs, listagem de manifesto, busca de
// documentos e coalescência de requisições concorrentes por URI.
package fuel

import "strings"

// CreateFuelURI reescreve caminhos que embutem o hostname do catálogo
// (ex.: caminhos de cache local) para a URL canônica de download.
// Entradas já canônicas voltam intocadas; entradas opacas (sem o
// hostname) também.
//
// A forma canônica assumida é posicional:
//
//	host / versão-da-API / owner / models / nome / tip / files / ...
//
// A inserção de "files" depois do sexto elemento é uma premissa
// estrutural sobre o formato de URL do catálogo e precisa ser mantida
// exatamente assim por compatibilidade.
func CreateFuelURI(uri, server, apiVersion string) string {
	if server == "" {
		return uri
	}

	segs := splitPath(uri)
	host := -1
	for i, s := range segs {
		if s == server {
			host = i
			break
		}
	}
	if host < 0 {
		return uri
	}

	// Descarta tudo antes do hostname
	segs = segs[host:]

	// Já canônica: versão da API logo depois do host
	if len(segs) > 1 && segs[1] == apiVersion {
		return uri
	}

	out := make([]string, 0, len(segs)+2)
	out = append(out, segs[0], apiVersion)
	out = append(out, segs[1:]...)

	// Insere "files" depois do sexto elemento
	// (host/versão/owner/models/nome/tip)
	pos := 6
	if pos > len(out) {
		pos = len(out)
	}
	out = append(out[:pos], append([]string{"files"}, out[pos:]...)...)

	return "https://" + strings.Join(out, "/")
}

// splitPath quebra em segmentos, descartando os vazios.
func splitPath(s string) []string {
	parts := strings.Split(s, "/")
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
