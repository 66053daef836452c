package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/palavraria/palavraria-t/internal/config"
	"github.com/palavraria/palavraria-t/pkg/models"
)

const catalogReply = `{"totalItems":2,"items":[
  {"id":"a","volumeInfo":{"title":"Dom Casmurro","authors":["Machado de Assis"],"publishedDate":"1899",
    "industryIdentifiers":[{"type":"ISBN_13","identifier":"9788535910995"}],"pageCount":256,"language":"pt"}},
  {"id":"b","volumeInfo":{"title":"Quincas Borba","publishedDate":"1891-05","publisher":"Garnier"}}
]}`

// fakeServer plays both the catalog and the backend
type fakeServer struct {
	mu      sync.Mutex
	created []models.BookRecord
	books   []models.BookRecord
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/volumes":
		_, _ = w.Write([]byte(catalogReply))

	case r.URL.Path == "/auth/login":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["senha"] != "segredo" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok","user":{"nome":"Ana","email":"ana@example.com"}}`))

	case r.URL.Path == "/auth/register":
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok"}`))

	case r.URL.Path == "/livros" && r.Method == http.MethodPost:
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"mensagem":"Token inválido"}`))
			return
		}
		var rec models.BookRecord
		_ = json.NewDecoder(r.Body).Decode(&rec)
		f.created = append(f.created, rec)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(rec)

	case r.URL.Path == "/livros":
		_ = json.NewEncoder(w).Encode(f.books)

	default:
		http.NotFound(w, r)
	}
}

type harness struct {
	srv        *fakeServer
	url        string
	configPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	f := &fakeServer{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(config.EnvConfigPath, path)
	t.Setenv(config.EnvServerURL, "")
	t.Setenv(config.EnvCatalogURL, "")

	return &harness{srv: f, url: srv.URL, configPath: path}
}

func (h *harness) run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"palavraria", "--server", h.url, "--catalog", h.url}, args...)
	err := newApp(&stdout, &stderr).Run(full)
	return stdout.String(), err
}

func TestSearch(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("search", "machado", "de", "assis")
	require.NoError(t, err)
	assert.Contains(t, out, " 1. Dom Casmurro\n    Machado de Assis • 1899")
	assert.Contains(t, out, " 2. Quincas Borba\n    Autor desconhecido • 1891-05")
}

func TestSearch_EmptyQuery(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("search")
	require.Error(t, err)
	assert.Equal(t, "Digite algo para buscar", err.Error())
}

func TestLoginAddListStats(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("login", "--email", "ana@example.com", "--password", "errada")
	require.Error(t, err)
	assert.Equal(t, "Usuário ou senha inválidos.", err.Error())

	out, err := h.run("login", "--email", " ana@example.com ", "--password", "segredo")
	require.NoError(t, err)
	assert.Equal(t, "Login bem-sucedido!\n", out)

	cfg, err := config.LoadFile(h.configPath)
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, "Ana", cfg.Name)
	assert.Equal(t, h.url, cfg.ServerURL)

	_, err = h.run("add", "--pick", "2", "--pages", "300 pgs", "--notes", "emprestado", "machado")
	require.Error(t, err, "pages must be digits only")

	out, err = h.run("add", "--pick", "2", "--pages", "300", "--notes", "emprestado", "machado")
	require.NoError(t, err)
	assert.Contains(t, out, `Livro "Quincas Borba" adicionado`)

	require.Len(t, h.srv.created, 1)
	rec := h.srv.created[0]
	assert.Equal(t, "Quincas Borba", rec.Title)
	assert.Equal(t, "Autor desconhecido", rec.Author)
	assert.Equal(t, "Garnier", rec.Publisher)
	assert.Equal(t, 1891, rec.PublicationYear)
	assert.Equal(t, 300, rec.PageCount)
	assert.Equal(t, "emprestado", rec.Notes)
	assert.Equal(t, "desconhecido", rec.Language)
	assert.Regexp(t, `^SEMISBN-.+`, rec.ISBN)

	h.srv.books = []models.BookRecord{
		{Title: "Dom Casmurro", Author: "Machado de Assis", Status: models.StatusRead, PageCount: 256},
		{Title: "Quincas Borba", Author: "Machado de Assis", Status: models.StatusReading},
		{Title: "Helena", Author: "Machado de Assis", Status: models.StatusWantToRead},
	}

	out, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Dom Casmurro - Machado de Assis [Lido]\n    256 páginas")
	assert.Contains(t, out, "Helena - Machado de Assis [Quero Ler]")

	out, err = h.run("stats")
	require.NoError(t, err)
	assert.Equal(t, "1 livros lidos • 1 em progresso\n", out)

	out, err = h.run("logout")
	require.NoError(t, err)
	assert.Equal(t, "Sessão encerrada.\n", out)

	_, err = h.run("stats")
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestAdd_PickOutOfRange(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("login", "--email", "ana@example.com", "--password", "segredo")
	require.NoError(t, err)

	_, err = h.run("add", "--pick", "3", "machado")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--pick deve estar entre 1 e 2")
	assert.Empty(t, h.srv.created)
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("register", "--name", "Ana", "--email", "ana@example.com", "--password", "segredo", "--confirm", "outra")
	require.Error(t, err)
	assert.Equal(t, "As senhas não coincidem.", err.Error())

	_, err = h.run("register", "--name", "Ana", "--email", "ana@example.com", "--password", "123", "--confirm", "123")
	require.Error(t, err)
	assert.Equal(t, "A senha deve ter pelo menos 6 caracteres.", err.Error())

	out, err := h.run("register", "--name", "Ana", "--email", "ana@example.com", "--password", "segredo", "--confirm", "segredo")
	require.NoError(t, err)
	assert.Equal(t, "Cadastro realizado com sucesso!\n", out)
}

func TestDebug(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "Config path: "+h.configPath)
	assert.Contains(t, out, "Server URL: "+h.url)
	assert.Contains(t, out, "Authenticated: false")
}
