package views

import (
	"context"
	"image"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/palavraria/palavraria-t/internal/config"
	"github.com/palavraria/palavraria-t/pkg/models"
)

// fakeBackend records calls and answers with canned values
type fakeBackend struct {
	mu sync.Mutex

	loginResp *models.AuthResponse
	loginErr  error
	regErr    error
	createErr error
	books     []models.BookRecord
	listErr   error

	logins  []string
	created []models.BookRecord
}

func (f *fakeBackend) Login(_ context.Context, email, _ string) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, email)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeBackend) Register(_ context.Context, name, email, _ string) (*models.AuthResponse, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.AuthResponse{Message: "ok", User: &models.User{Name: name, Email: email}}, nil
}

func (f *fakeBackend) CreateBook(_ context.Context, book models.BookRecord) (*models.BookRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, book)
	if f.createErr != nil {
		return nil, f.createErr
	}
	book.ID = "new-id"
	return &book, nil
}

func (f *fakeBackend) ListBooks(context.Context) ([]models.BookRecord, error) {
	return f.books, f.listErr
}

// fakeCatalog answers every query with the same volumes
type fakeCatalog struct {
	volumes []models.CatalogVolume
	err     error
	queries []string
	cover   image.Image
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]models.CatalogVolume, error) {
	f.queries = append(f.queries, query)
	return f.volumes, f.err
}

func (f *fakeCatalog) FetchCover(context.Context, string) (image.Image, error) {
	return f.cover, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	return cfg
}

// runCmd executes cmd and flattens batches into the produced messages
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed delivers msgs to v and returns what the resulting commands produce
func feed(v View, msgs ...tea.Msg) []tea.Msg {
	var out []tea.Msg
	for _, m := range msgs {
		_, cmd := v.Update(m)
		out = append(out, runCmd(cmd)...)
	}
	return out
}

// press delivers msg and drops the returned command. Used for keys that
// only start a cursor blink.
func press(v View, msg tea.Msg) {
	v.Update(msg)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if t, ok := m.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func intPtr(n int) *int { return &n }

func sampleVolume() models.CatalogVolume {
	return models.CatalogVolume{
		ID: "vol1",
		VolumeInfo: models.CatalogVolumeInfo{
			Title:         "Dom Casmurro",
			Authors:       []string{"Machado de Assis"},
			Publisher:     "Garnier",
			PublishedDate: "1899-01-01",
			Description:   "<p>Bentinho e <b>Capitu</b>.</p>",
			Categories:    []string{"Ficção"},
			PageCount:     intPtr(256),
			Language:      "pt",
			IndustryIdentifiers: []models.IndustryIdentifier{
				{Type: models.IdentifierISBN10, Identifier: "8535910999"},
				{Type: models.IdentifierISBN13, Identifier: "9788535910995"},
			},
		},
	}
}
