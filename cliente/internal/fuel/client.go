package fuel

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
)

// Fetcher é a fronteira com o serviço de catálogo. O resolvedor só
// conhece estas duas operações; os testes usam um fake.
type Fetcher interface {
	// ListFiles retorna as URLs de download de todos os arquivos de um
	// pacote de modelo, excluindo a pasta de thumbnails e arquivos de
	// configuração.
	ListFiles(uri string) ([]string, error)

	// FetchDocument baixa um documento (SDF) pela URL.
	FetchDocument(url string) ([]byte, error)
}

// Client consulta o catálogo Fuel via HTTP.
type Client struct {
	httpClient *http.Client

	Server     string // hostname do catálogo
	APIVersion string

	// Header opcional anexado a toda requisição (catálogos com
	// controle de acesso)
	HeaderKey   string
	HeaderValue string
}

// NewClient cria um cliente para um servidor de catálogo.
func NewClient(server, apiVersion string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		Server:     server,
		APIVersion: apiVersion,
	}
}

// NormalizeURI aplica CreateFuelURI com os parâmetros deste cliente.
func (c *Client) NormalizeURI(uri string) string {
	return CreateFuelURI(uri, c.Server, c.APIVersion)
}

// fileNode é um nó do file_tree retornado pelo catálogo.
type fileNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Children []fileNode `json:"children"`
}

// manifest é a resposta do endpoint /tip/files.
type manifest struct {
	Name     string     `json:"name"`
	FileTree []fileNode `json:"file_tree"`
}

// ListFiles busca o manifesto do pacote e o achata em URLs de download.
func (c *Client) ListFiles(uri string) ([]string, error) {
	base := strings.TrimSuffix(c.NormalizeURI(uri), "/")
	manifestURL := base + "/tip/files"

	data, err := c.get(manifestURL)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar manifesto de %s: %w", uri, err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifesto inválido de %s: %w", uri, err)
	}

	var files []string
	for _, n := range m.FileTree {
		collectFiles(n, manifestURL, &files)
	}
	return files, nil
}

// collectFiles percorre o file_tree recursivamente. A pasta de
// thumbnails e arquivos .config ficam de fora do resultado.
func collectFiles(n fileNode, baseURL string, out *[]string) {
	if n.Name == "thumbnails" {
		return
	}
	if len(n.Children) == 0 {
		if path.Ext(n.Name) == ".config" {
			return
		}
		*out = append(*out, baseURL+n.Path)
		return
	}
	for _, child := range n.Children {
		collectFiles(child, baseURL, out)
	}
}

// FetchDocument baixa um documento pelo caminho completo.
func (c *Client) FetchDocument(url string) ([]byte, error) {
	data, err := c.get(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar documento %s: %w", url, err)
	}
	return data, nil
}

func (c *Client) get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.HeaderKey != "" {
		req.Header.Set(c.HeaderKey, c.HeaderValue)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
