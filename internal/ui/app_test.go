package ui

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palavraria/palavraria-t/internal/config"
	"github.com/palavraria/palavraria-t/internal/ui/styles"
	"github.com/palavraria/palavraria-t/internal/ui/terminal"
	"github.com/palavraria/palavraria-t/internal/ui/views"
	"github.com/palavraria/palavraria-t/pkg/models"
)

type stubBackend struct {
	token   string
	books   []models.BookRecord
	created []models.BookRecord
}

func (s *stubBackend) Login(context.Context, string, string) (*models.AuthResponse, error) {
	return &models.AuthResponse{}, nil
}

func (s *stubBackend) Register(context.Context, string, string, string) (*models.AuthResponse, error) {
	return &models.AuthResponse{}, nil
}

func (s *stubBackend) CreateBook(_ context.Context, b models.BookRecord) (*models.BookRecord, error) {
	s.created = append(s.created, b)
	return &b, nil
}

func (s *stubBackend) ListBooks(context.Context) ([]models.BookRecord, error) {
	return s.books, nil
}

func (s *stubBackend) SetToken(token string) {
	s.token = token
}

type stubCatalog struct{}

func (stubCatalog) Search(context.Context, string) ([]models.CatalogVolume, error) {
	return []models.CatalogVolume{domCasmurro()}, nil
}

func (stubCatalog) FetchCover(context.Context, string) (image.Image, error) {
	return nil, errors.New("no cover")
}

func newTestApp(t *testing.T, loggedIn bool) (*App, *config.Config, *stubBackend) {
	t.Helper()
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	if loggedIn {
		require.NoError(t, cfg.SetSession("Ana", "ana@example.com", "opaque"))
	}
	t.Cleanup(func() { styles.SetCurrentTheme(styles.PalavrariaTheme.Name) })

	backend := &stubBackend{}
	app := NewApp(cfg, Options{
		Backend:  backend,
		Catalog:  stubCatalog{},
		TermMode: terminal.TermModeNone,
	})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app, cfg, backend
}

func domCasmurro() models.CatalogVolume {
	return models.CatalogVolume{
		ID:         "v1",
		VolumeInfo: models.CatalogVolumeInfo{Title: "Dom Casmurro", Authors: []string{"Machado de Assis"}},
	}
}

// collect runs cmd and flattens batches into the produced messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// deliver feeds msgs to the app and returns what their commands produce.
// Returned commands are run one level deep only, so blink timers never fire.
func deliver(app *App, msgs []tea.Msg) []tea.Msg {
	var out []tea.Msg
	for _, m := range msgs {
		if _, ok := m.(spinner.TickMsg); ok {
			continue
		}
		_, cmd := app.Update(m)
		out = append(out, collect(cmd)...)
	}
	return out
}

// leave presses esc on the current screen, follows the switch it asks for
// and returns the new screen's Init command
func leave(t *testing.T, app *App) tea.Cmd {
	t.Helper()
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, initCmd := app.Update(cmd())
	return initCmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewApp_StartView(t *testing.T) {
	app, _, _ := newTestApp(t, false)
	assert.Equal(t, views.ViewLogin, app.CurrentView())

	app, _, _ = newTestApp(t, true)
	assert.Equal(t, views.ViewProfile, app.CurrentView())
}

func TestApp_LoginAndLogout(t *testing.T) {
	app, cfg, backend := newTestApp(t, false)

	app.Update(views.LoginSuccessMsg{User: models.User{Name: "Ana", Email: "ana@example.com"}, Token: "tok"})
	assert.Equal(t, views.ViewProfile, app.CurrentView())
	assert.Equal(t, "tok", backend.token)

	app.Update(views.LogoutMsg{})
	assert.Equal(t, views.ViewLogin, app.CurrentView())
	assert.Empty(t, backend.token)
	assert.False(t, cfg.IsAuthenticated())
}

func TestApp_ProtectedViewsNeedSession(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	app.Update(views.SwitchViewMsg{View: views.ViewSearch})
	assert.Equal(t, views.ViewLogin, app.CurrentView())
}

func TestApp_QuitKeys(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	// The email field has focus, so q is typed, not a quit
	_, cmd := app.Update(runes("q"))
	assert.False(t, isQuit(cmd))

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))

	app, _, _ = newTestApp(t, true)
	_, cmd = app.Update(runes("q"))
	assert.True(t, isQuit(cmd))
}

func TestApp_GlobalNavigation(t *testing.T) {
	app, _, _ := newTestApp(t, true)

	app.Update(runes("/"))
	assert.Equal(t, views.ViewSearch, app.CurrentView())

	// The search field has focus; p is part of the query
	app.Update(runes("p"))
	assert.Equal(t, views.ViewSearch, app.CurrentView())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, views.ViewProfile, app.CurrentView())
}

func TestApp_ShowDetails(t *testing.T) {
	app, _, _ := newTestApp(t, true)

	app.Update(views.ShowDetailsMsg{Volume: domCasmurro()})
	assert.Equal(t, views.ViewDetails, app.CurrentView())
	assert.Contains(t, app.View(), "Dom Casmurro")
}

func TestApp_ThemeToggle(t *testing.T) {
	app, cfg, _ := newTestApp(t, true)

	app.Update(runes("T"))
	assert.Equal(t, styles.NightTheme.Name, cfg.Theme)
	assert.Equal(t, styles.NightTheme.Name, styles.CurrentTheme().Name)

	reloaded, err := config.LoadFile(cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, styles.NightTheme.Name, reloaded.Theme)
}

func TestApp_StatusAndErrorLines(t *testing.T) {
	app, _, _ := newTestApp(t, true)

	app.Update(views.StatusMsg{Text: `Livro "Dom Casmurro" adicionado`})
	assert.Contains(t, app.View(), `Livro "Dom Casmurro" adicionado`)

	app.Update(views.ErrorMsg{Err: errors.New("ISBN já cadastrado")})
	out := app.View()
	assert.Contains(t, out, "Falha: ISBN já cadastrado")
	assert.NotContains(t, out, `Livro "Dom Casmurro"`)
}

func TestApp_Help(t *testing.T) {
	app, _, _ := newTestApp(t, true)

	app.Update(runes("?"))
	assert.Contains(t, app.View(), "Atalhos de teclado")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, app.View(), "Atalhos de teclado")
}

func TestApp_SaveReplyAfterLeavingDetails(t *testing.T) {
	app, _, backend := newTestApp(t, true)

	app.Update(views.ShowDetailsMsg{Volume: domCasmurro()})
	app.Update(runes("a"))
	_, saveCmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, saveCmd)

	// The user walks away before the backend answers
	leave(t, app)
	require.Equal(t, views.ViewSearch, app.CurrentView())

	deliver(app, deliver(app, collect(saveCmd)))
	require.Len(t, backend.created, 1)
	assert.Contains(t, app.View(), `Livro "Dom Casmurro" adicionado`)

	// A later save is not blocked by the first one
	app.Update(views.ShowDetailsMsg{Volume: domCasmurro()})
	app.Update(runes("a"))
	require.True(t, app.detailsView.DialogOpen())
	_, saveCmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, saveCmd)
	assert.False(t, app.detailsView.DialogOpen())
	deliver(app, collect(saveCmd))
	assert.Len(t, backend.created, 2)
}

func TestApp_ProfileLoadAfterLeaving(t *testing.T) {
	app, _, backend := newTestApp(t, true)
	backend.books = []models.BookRecord{
		{Title: "Dom Casmurro", Author: "Machado de Assis", Status: models.StatusRead},
	}

	_, initCmd := app.Update(views.SwitchViewMsg{View: views.ViewProfile})
	require.NotNil(t, initCmd)

	app.Update(runes("/"))
	require.Equal(t, views.ViewSearch, app.CurrentView())
	deliver(app, collect(initCmd))

	reload := leave(t, app)
	require.Equal(t, views.ViewProfile, app.CurrentView())
	require.NotNil(t, reload, "the first load finished, so the profile reloads")
	deliver(app, collect(reload))
	assert.Equal(t, 1, app.profileView.Stats().Read)
	assert.Contains(t, app.View(), "1 livros lidos")

	_, cmd := app.Update(runes("r"))
	assert.NotNil(t, cmd, "refresh is not stuck behind the earlier load")
}

func TestApp_SearchReplyAfterLeaving(t *testing.T) {
	app, _, _ := newTestApp(t, true)

	app.Update(runes("/"))
	for _, r := range "machado" {
		app.Update(runes(string(r)))
	}
	_, searchCmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, searchCmd)

	leave(t, app)
	require.Equal(t, views.ViewProfile, app.CurrentView())
	deliver(app, collect(searchCmd))

	app.Update(runes("/"))
	require.Equal(t, views.ViewSearch, app.CurrentView())
	require.Len(t, app.searchView.Results(), 1)
	assert.Contains(t, app.View(), "Dom Casmurro")
}
