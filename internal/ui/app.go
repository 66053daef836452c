// Package ui wires the palavraria screens into one bubbletea program.
package ui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palavraria/palavraria-t/internal/api"
	"github.com/palavraria/palavraria-t/internal/config"
	"github.com/palavraria/palavraria-t/internal/logger"
	"github.com/palavraria/palavraria-t/internal/ui/styles"
	"github.com/palavraria/palavraria-t/internal/ui/terminal"
	"github.com/palavraria/palavraria-t/internal/ui/views"
	"github.com/palavraria/palavraria-t/pkg/models"
)

// Backend is the persistence API plus session handling
type Backend interface {
	views.Backend
	SetToken(token string)
}

// Options are the collaborators the app drives
type Options struct {
	Backend  Backend
	Catalog  views.Catalog
	TermMode terminal.TermImageMode
	Logger   *slog.Logger
}

// App is the main application model
type App struct {
	config  *config.Config
	backend Backend
	logger  *slog.Logger
	keys    KeyMap

	// Current view state
	currentView views.ViewType
	prevView    views.ViewType

	// Window dimensions
	width  int
	height int

	// User state
	user *models.User

	// View models
	loginView   *views.LoginView
	searchView  *views.SearchView
	detailsView *views.DetailsView
	profileView *views.ProfileView

	// Error/status message
	err       error
	statusMsg string
	showHelp  bool
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	styles.SetCurrentTheme(cfg.Theme)

	app := &App{
		config:      cfg,
		backend:     opts.Backend,
		logger:      log,
		keys:        DefaultKeyMap(),
		currentView: views.ViewLogin,
		width:       80,
		height:      24,
	}

	app.loginView = views.NewLoginView(opts.Backend, cfg)
	app.searchView = views.NewSearchView(opts.Catalog)
	app.detailsView = views.NewDetailsView(opts.Backend, opts.Catalog, opts.TermMode)
	app.profileView = views.NewProfileView(opts.Backend, cfg)

	// If already authenticated, go to the profile
	if cfg.IsAuthenticated() {
		app.user = &models.User{Name: cfg.Name, Email: cfg.Email}
		app.currentView = views.ViewProfile
	}

	return app
}

// CurrentView returns the screen on display
func (a *App) CurrentView() views.ViewType {
	return a.currentView
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.getCurrentView().Init(),
		tea.SetWindowTitle("palavraria"),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Leave room for the status line
		for _, v := range a.allViews() {
			v.SetSize(msg.Width, msg.Height-1)
		}
		return a, nil

	case tea.KeyMsg:
		if model, cmd, handled := a.handleGlobalKey(msg); handled {
			return model, cmd
		}
		// Any key press dismisses the last notice
		a.statusMsg = ""

	case views.LoginSuccessMsg:
		a.user = &msg.User
		a.backend.SetToken(msg.Token)
		a.logger.Info("logged in", "email", msg.User.Email)
		return a.switchView(views.ViewProfile)

	case views.LogoutMsg:
		a.user = nil
		a.backend.SetToken("")
		if err := a.config.ClearSession(); err != nil {
			a.logger.Error("clear session", "error", err)
		}
		a.logger.Info("logged out")
		return a.switchView(views.ViewLogin)

	case views.ShowDetailsMsg:
		a.detailsView.SetVolume(msg.Volume)
		return a.switchView(views.ViewDetails)

	case views.BookAddedMsg:
		a.logger.Info("book added", "titulo", msg.Book.Title, "isbn", msg.Book.ISBN)
		return a, nil

	case views.ErrorMsg:
		a.err = msg.Err
		a.statusMsg = ""
		a.logger.Warn("view error", "error", msg.Err)
		return a, nil

	case views.ClearErrorMsg:
		a.err = nil
		return a, nil

	case views.StatusMsg:
		a.statusMsg = msg.Text
		a.err = nil
		return a, nil

	case views.SwitchViewMsg:
		return a.switchView(msg.View)

	case views.Reply:
		// Answers reach the view that asked, wherever the user is now
		_, cmd := a.viewFor(msg.Owner()).Update(msg)
		return a, cmd

	case spinner.TickMsg:
		// Spinners ignore ticks carrying another spinner's id
		var cmds []tea.Cmd
		for _, v := range []views.View{a.searchView, a.profileView} {
			_, cmd := v.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	// Delegate to current view
	_, cmd := a.getCurrentView().Update(msg)
	return a, cmd
}

// handleGlobalKey runs the app-wide bindings. Keys typed into a focused
// field reach the view untouched, except ctrl+c.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit, true
	}

	if a.showHelp {
		if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Escape) || key.Matches(msg, a.keys.Quit) {
			a.showHelp = false
		}
		return a, nil, true
	}

	if a.capturing() {
		return a, nil, false
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit, true

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil, true

	case key.Matches(msg, a.keys.Theme):
		name := styles.NextTheme()
		if err := a.config.SetTheme(name); err != nil {
			a.logger.Error("save theme", "error", err)
		}
		a.statusMsg = "Tema: " + styles.CurrentTheme().Description
		return a, nil, true

	case key.Matches(msg, a.keys.Profile) && a.loggedIn() && a.currentView != views.ViewProfile:
		model, cmd := a.switchView(views.ViewProfile)
		return model, cmd, true

	case key.Matches(msg, a.keys.Search) && a.loggedIn() && a.currentView != views.ViewSearch:
		model, cmd := a.switchView(views.ViewSearch)
		return model, cmd, true
	}

	return a, nil, false
}

func (a *App) capturing() bool {
	c, ok := a.getCurrentView().(views.InputCapturer)
	return ok && c.Capturing()
}

func (a *App) loggedIn() bool {
	return a.user != nil
}

// View implements tea.Model
func (a *App) View() string {
	if a.showHelp {
		return a.renderHelp()
	}

	content := a.getCurrentView().View()

	switch {
	case a.err != nil:
		content = lipgloss.JoinVertical(lipgloss.Left, content,
			styles.ErrorStyle.Render("Falha: "+api.UserMessage(a.err)))
	case a.statusMsg != "":
		content = lipgloss.JoinVertical(lipgloss.Left, content,
			styles.SuccessStyle.Render(a.statusMsg))
	}

	return content
}

// switchView changes the current view and initializes it
func (a *App) switchView(view views.ViewType) (*App, tea.Cmd) {
	// Covers are drawn outside bubbletea's buffer and must be wiped
	if a.currentView == views.ViewDetails && view != views.ViewDetails && a.detailsView.HasCover() {
		terminal.ClearImagesCmd(a.detailsView.TermMode())()
	}

	// Protected screens need a session
	if a.user == nil && view != views.ViewLogin {
		view = views.ViewLogin
	}

	a.prevView = a.currentView
	a.currentView = view
	a.err = nil
	a.showHelp = false

	a.logger.Debug("switch view", "from", a.prevView.String(), "to", view.String())

	return a, a.getCurrentView().Init()
}

// getCurrentView returns the current view model
func (a *App) getCurrentView() views.View {
	return a.viewFor(a.currentView)
}

func (a *App) viewFor(t views.ViewType) views.View {
	switch t {
	case views.ViewSearch:
		return a.searchView
	case views.ViewDetails:
		return a.detailsView
	case views.ViewProfile:
		return a.profileView
	default:
		return a.loginView
	}
}

func (a *App) allViews() []views.View {
	return []views.View{a.loginView, a.searchView, a.detailsView, a.profileView}
}

// renderHelp renders the help overlay
func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Atalhos de teclado") + "\n\n")

	b.WriteString(styles.HelpKey.Render("Geral") + "\n")
	for _, k := range a.keys.bindings() {
		h := k.Help()
		b.WriteString("  " + padRight(h.Key, 8) + h.Desc + "\n")
	}

	b.WriteString("\n" + styles.HelpKey.Render("Entrar") + "\n" +
		"  Tab     Próximo campo\n" +
		"  Ctrl+r  Alternar entre entrar e cadastrar\n\n" +
		styles.HelpKey.Render("Busca") + "\n" +
		"  Enter   Buscar / abrir detalhes\n" +
		"  ↑/↓     Navegar nos resultados\n\n" +
		styles.HelpKey.Render("Detalhes") + "\n" +
		"  a       Adicionar à biblioteca\n" +
		"  Ctrl+s  Salvar no diálogo\n\n" +
		styles.HelpKey.Render("Perfil") + "\n" +
		"  b       Buscar livros\n" +
		"  r       Atualizar\n" +
		"  L       Sair da conta\n")

	help := styles.Dialog.Width(56).Render(b.String())

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		help,
	)
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s + " "
}
