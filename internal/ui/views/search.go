package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palavraria/palavraria-t/internal/catalog"
	"github.com/palavraria/palavraria-t/internal/forms"
	"github.com/palavraria/palavraria-t/internal/ui/styles"
	"github.com/palavraria/palavraria-t/pkg/models"
)

// MsgSearchFailed is shown when the catalog request fails
const MsgSearchFailed = "Erro ao buscar livros."

// searchResultsMsg carries the catalog answer for query
type searchResultsMsg struct {
	query   string
	volumes []models.CatalogVolume
	err     error
}

func (searchResultsMsg) Owner() ViewType { return ViewSearch }

// SearchView queries the catalog and lists the results
type SearchView struct {
	catalog Catalog

	input   textinput.Model
	spinner spinner.Model

	results  []models.CatalogVolume
	cursor   int
	offset   int
	query    string
	searched bool
	loading  bool
	typing   bool
	err      error

	width  int
	height int
}

// NewSearchView creates a new search view
func NewSearchView(cat Catalog) *SearchView {
	input := textinput.New()
	input.Placeholder = "Título, autor ou ISBN"
	input.Prompt = "/ "
	input.CharLimit = 200
	input.Width = 50
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &SearchView{
		catalog: cat,
		input:   input,
		spinner: sp,
		typing:  true,
		width:   80,
		height:  24,
	}
}

// Init implements View
func (v *SearchView) Init() tea.Cmd {
	if v.typing {
		v.input.Focus()
		return textinput.Blink
	}
	return nil
}

// Capturing implements InputCapturer
func (v *SearchView) Capturing() bool {
	return v.typing
}

// Results returns the volumes currently listed
func (v *SearchView) Results() []models.CatalogVolume {
	return v.results
}

// Update implements View
func (v *SearchView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.typing {
			return v.updateTyping(msg)
		}
		return v.updateList(msg)

	case searchResultsMsg:
		if msg.query != v.query {
			// Answer to a query the user already replaced
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.results = msg.volumes
		v.cursor = 0
		v.offset = 0
		v.searched = true
		if len(v.results) > 0 {
			v.typing = false
			v.input.Blur()
		}
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	if v.typing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *SearchView) updateTyping(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return v, v.submit()
	case "down", "tab":
		if len(v.results) > 0 {
			v.typing = false
			v.input.Blur()
		}
		return v, nil
	case "esc":
		if len(v.results) > 0 {
			v.typing = false
			v.input.Blur()
			return v, nil
		}
		return v, SwitchTo(ViewProfile)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *SearchView) updateList(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		} else {
			v.typing = true
			return v, v.input.Focus()
		}
	case "down", "j":
		if v.cursor < len(v.results)-1 {
			v.cursor++
		}
	case "home", "g":
		v.cursor = 0
	case "end", "G":
		v.cursor = max(len(v.results)-1, 0)
	case "/", "i":
		v.typing = true
		return v, v.input.Focus()
	case "enter":
		if v.cursor < len(v.results) {
			vol := v.results[v.cursor]
			return v, func() tea.Msg {
				return ShowDetailsMsg{Volume: vol}
			}
		}
	case "esc":
		return v, SwitchTo(ViewProfile)
	}
	v.ensureVisible()
	return v, nil
}

func (v *SearchView) submit() tea.Cmd {
	form := &forms.SearchForm{Query: v.input.Value()}
	if err := forms.Validate(context.Background(), form); err != nil {
		v.err = err
		return nil
	}

	v.err = nil
	v.query = form.Query
	v.loading = true
	return tea.Batch(v.spinner.Tick, v.doSearch(form.Query))
}

func (v *SearchView) doSearch(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		vols, err := v.catalog.Search(ctx, query)
		return searchResultsMsg{query: query, volumes: vols, err: err}
	}
}

// visibleRows is how many two-line result rows fit on screen
func (v *SearchView) visibleRows() int {
	return max((v.height-10)/2, 1)
}

func (v *SearchView) ensureVisible() {
	rows := v.visibleRows()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+rows {
		v.offset = v.cursor - rows + 1
	}
}

// View implements View
func (v *SearchView) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleBar.Render("Buscar Livros") + "\n\n")

	inputStyle := styles.InputField
	if v.typing {
		inputStyle = styles.InputFieldFocused
	}
	b.WriteString(inputStyle.Render(v.input.View()) + "\n\n")

	switch {
	case v.loading:
		b.WriteString(v.spinner.View() + styles.MutedText.Render(" Buscando...") + "\n")
	case v.err != nil:
		b.WriteString(styles.ErrorStyle.Render(searchErrorText(v.err)) + "\n")
	case v.searched && len(v.results) == 0:
		b.WriteString(styles.MutedText.Render("Nenhum livro encontrado.") + "\n")
	case len(v.results) > 0:
		b.WriteString(v.renderResults())
	}

	b.WriteString("\n" + v.renderHelp())

	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (v *SearchView) renderResults() string {
	var b strings.Builder
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d resultados para \"%s\"", len(v.results), v.query)) + "\n\n")

	end := min(v.offset+v.visibleRows(), len(v.results))
	for i := v.offset; i < end; i++ {
		title, meta := catalog.Headline(v.results[i])
		style := styles.ListItem
		if i == v.cursor && !v.typing {
			style = styles.ListItemSelected
		}
		b.WriteString(style.Render(title) + "\n")
		b.WriteString(styles.ListItem.Render(styles.MutedText.Render(meta)) + "\n")
	}
	return b.String()
}

func (v *SearchView) renderHelp() string {
	var parts []string
	if v.typing {
		parts = styles.KeyHelp("enter", "buscar", "↓", "resultados", "esc", "voltar")
	} else {
		parts = styles.KeyHelp("↑/↓", "navegar", "enter", "detalhes", "/", "nova busca", "esc", "perfil")
	}
	return strings.Join(parts, "  ")
}

// SetSize implements View
func (v *SearchView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = max(min(width-10, 60), 10)
}

func searchErrorText(err error) string {
	var formErr *forms.Error
	if errors.As(err, &formErr) {
		return formErr.Message
	}
	return MsgSearchFailed
}
