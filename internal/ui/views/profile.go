package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palavraria/palavraria-t/internal/api"
	"github.com/palavraria/palavraria-t/internal/config"
	"github.com/palavraria/palavraria-t/internal/library"
	"github.com/palavraria/palavraria-t/internal/ui/styles"
	"github.com/palavraria/palavraria-t/pkg/models"
)

// MsgNoRecentBooks is the empty state of the recent list
const MsgNoRecentBooks = "Nenhum livro adicionado recentemente."

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// booksLoadedMsg carries the user's library
type booksLoadedMsg struct {
	books []models.BookRecord
	err   error
}

func (booksLoadedMsg) Owner() ViewType { return ViewProfile }

// ProfileView shows the reading summary and the recently added books
type ProfileView struct {
	client Backend
	config *config.Config

	spinner spinner.Model

	books   []models.BookRecord
	stats   library.Stats
	loading bool
	err     error

	width  int
	height int
}

// NewProfileView creates a new profile view
func NewProfileView(client Backend, cfg *config.Config) *ProfileView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &ProfileView{
		client:  client,
		config:  cfg,
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// Init implements View
func (v *ProfileView) Init() tea.Cmd {
	return v.refresh()
}

// Stats returns the aggregated counts of the loaded library
func (v *ProfileView) Stats() library.Stats {
	return v.stats
}

// Books returns the loaded library
func (v *ProfileView) Books() []models.BookRecord {
	return v.books
}

func (v *ProfileView) refresh() tea.Cmd {
	if v.loading {
		return nil
	}
	v.loading = true
	v.err = nil
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		books, err := v.client.ListBooks(ctx)
		return booksLoadedMsg{books: books, err: err}
	})
}

// Update implements View
func (v *ProfileView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return v, v.refresh()
		case "b", "/":
			return v, SwitchTo(ViewSearch)
		case "L":
			return v, func() tea.Msg { return LogoutMsg{} }
		}

	case booksLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.books = msg.books
		v.stats = library.Aggregate(msg.books)
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	return v, nil
}

// View implements View
func (v *ProfileView) View() string {
	var sections []string

	sections = append(sections, styles.TitleBar.Render("Meu Perfil de Leitura"))

	// User card
	var user strings.Builder
	user.WriteString(styles.Logo.Render("@"+v.config.DisplayName()) + "\n")
	if since := MemberSince(v.config.MemberSince); since != "" {
		user.WriteString(styles.MutedText.Render(since) + "\n")
	}
	switch {
	case v.loading:
		user.WriteString(v.spinner.View() + styles.MutedText.Render(" Carregando..."))
	case v.err != nil:
		user.WriteString(styles.ErrorStyle.Render(api.UserMessage(v.err)))
	default:
		user.WriteString(styles.SecondaryText.Render(v.stats.Summary()))
	}
	sections = append(sections, styles.Section.Render(user.String()))

	// Add books
	add := styles.SectionTitle.Render("Adicionar Livros") + "\n" +
		styles.HelpKey.Render("b") + " " + styles.MutedText.Render("Buscar e Registrar Livro")
	sections = append(sections, styles.Section.Render(add))

	// Recent books
	sections = append(sections, styles.Section.Render(
		styles.SectionTitle.Render("Adicionados Recentemente")+"\n"+v.renderRecent()))

	help := strings.Join(styles.KeyHelp("b", "buscar", "r", "atualizar", "T", "tema", "L", "sair da conta", "?", "ajuda", "q", "fechar"), "  ")
	sections = append(sections, help)

	width := min(max(v.width-2, 40), 80)
	return lipgloss.NewStyle().Padding(0, 1).Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (v *ProfileView) renderRecent() string {
	recent := library.Recent(v.books, library.RecentLimit)
	if len(recent) == 0 {
		return styles.MutedText.Render(MsgNoRecentBooks)
	}

	rows := make([]string, 0, len(recent))
	for _, b := range recent {
		rows = append(rows, recentRow(b))
	}
	return strings.Join(rows, "\n\n")
}

// recentRow renders one recent book. The badge is drawn for every status,
// a missing one included.
func recentRow(b models.BookRecord) string {
	row := styles.BookTitle.Render(b.Title) + "  " + styles.StatusBadge(b.Status)
	row += "\n" + styles.BookAuthor.Render(b.Author)
	if details := library.RecordDetails(b); details != "" {
		row += "\n" + styles.BookMeta.Render(details)
	}
	return row
}

// SetSize implements View
func (v *ProfileView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// MemberSince renders "Membro desde <mês> de <ano>"
func MemberSince(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return fmt.Sprintf("Membro desde %s de %d", monthNames[t.Month()-1], t.Year())
}
