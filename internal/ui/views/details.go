package views

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palavraria/palavraria-t/internal/api"
	"github.com/palavraria/palavraria-t/internal/catalog"
	"github.com/palavraria/palavraria-t/internal/forms"
	"github.com/palavraria/palavraria-t/internal/library"
	"github.com/palavraria/palavraria-t/internal/ui/styles"
	"github.com/palavraria/palavraria-t/internal/ui/terminal"
	"github.com/palavraria/palavraria-t/pkg/models"
)

// Cover box in terminal cells
const (
	coverCols = 24
	coverRows = 14
)

// Add dialog focus positions
const (
	focusPages = iota
	focusNotes
	focusSave
	focusCancel
)

// MsgSaving is shown while the record is posted
const MsgSaving = "Salvando livro..."

// coverLoadedMsg carries the decoded cover for the volume with id
type coverLoadedMsg struct {
	id  string
	img image.Image
	err error
}

func (coverLoadedMsg) Owner() ViewType { return ViewDetails }

// bookSavedMsg is the backend answer to the add dialog
type bookSavedMsg struct {
	book *models.BookRecord
	err  error
}

func (bookSavedMsg) Owner() ViewType { return ViewDetails }

// DetailsView shows one catalog volume and lets the user add it
type DetailsView struct {
	client  Backend
	catalog Catalog

	volume   *models.CatalogVolume
	termMode terminal.TermImageMode
	cover    string

	viewport viewport.Model

	// Add dialog
	dialogOpen bool
	focus      int
	pagesInput textinput.Model
	notesInput textarea.Model
	dialogErr  string
	saving     bool

	width  int
	height int
}

// NewDetailsView creates a new details view. termMode decides whether covers
// are drawn.
func NewDetailsView(client Backend, cat Catalog, termMode terminal.TermImageMode) *DetailsView {
	pages := textinput.New()
	pages.Placeholder = "Número de páginas"
	pages.CharLimit = 6
	pages.Width = 20

	notes := textarea.New()
	notes.Placeholder = "Observações"
	notes.ShowLineNumbers = false
	notes.CharLimit = 1000
	notes.SetWidth(40)
	notes.SetHeight(4)

	return &DetailsView{
		client:     client,
		catalog:    cat,
		termMode:   termMode,
		viewport:   viewport.New(80, 20),
		pagesInput: pages,
		notesInput: notes,
		width:      80,
		height:     24,
	}
}

// SetVolume sets the volume to display and resets the dialog
func (v *DetailsView) SetVolume(vol models.CatalogVolume) {
	v.volume = &vol
	v.cover = ""
	v.saving = false
	v.closeDialog()
	v.refreshContent()
	v.viewport.GotoTop()
}

// Volume returns the volume on display
func (v *DetailsView) Volume() *models.CatalogVolume {
	return v.volume
}

// DialogOpen reports whether the add dialog is shown
func (v *DetailsView) DialogOpen() bool {
	return v.dialogOpen
}

// HasCover reports whether the view draws a cover image
func (v *DetailsView) HasCover() bool {
	return v.cover != ""
}

// TermMode returns the image protocol the view draws covers with
func (v *DetailsView) TermMode() terminal.TermImageMode {
	return v.termMode
}

// Capturing implements InputCapturer
func (v *DetailsView) Capturing() bool {
	return v.dialogOpen && (v.focus == focusPages || v.focus == focusNotes)
}

// Init implements View
func (v *DetailsView) Init() tea.Cmd {
	if v.volume == nil || v.termMode == terminal.TermModeNone {
		return nil
	}
	thumb := catalog.Thumbnail(*v.volume)
	if thumb == "" {
		return nil
	}
	id := v.volume.ID
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		img, err := v.catalog.FetchCover(ctx, thumb)
		return coverLoadedMsg{id: id, img: img, err: err}
	}
}

// Update implements View
func (v *DetailsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.dialogOpen {
			return v.updateDialog(msg)
		}
		switch msg.String() {
		case "a":
			if v.volume != nil {
				return v, v.openDialog()
			}
			return v, nil
		case "esc", "backspace":
			return v, SwitchTo(ViewSearch)
		}
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case coverLoadedMsg:
		if v.volume == nil || msg.id != v.volume.ID || msg.err != nil {
			// A missing cover is not worth an error line
			return v, nil
		}
		fitted := terminal.FitToCells(msg.img, coverCols, coverRows)
		if out, err := terminal.RenderImageToString(fitted, v.termMode); err == nil {
			v.cover = out
		}
		return v, nil

	case bookSavedMsg:
		v.saving = false
		if msg.err != nil {
			return v, SendError(errors.New(SaveFailureMessage(msg.err)))
		}
		book := *msg.book
		return v, tea.Batch(
			SendStatus(fmt.Sprintf("Livro \"%s\" adicionado", book.Title)),
			func() tea.Msg { return BookAddedMsg{Book: book} },
		)
	}

	if v.dialogOpen {
		return v, v.updateFocusedInput(msg)
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *DetailsView) updateDialog(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.closeDialog()
		return v, nil
	case "tab", "shift+tab":
		v.moveFocus(msg.String() == "tab")
		return v, nil
	case "enter":
		switch v.focus {
		case focusPages:
			v.moveFocus(true)
			return v, nil
		case focusSave:
			return v, v.save()
		case focusCancel:
			v.closeDialog()
			return v, nil
		}
	case "ctrl+s":
		return v, v.save()
	case "left", "right":
		if v.focus == focusSave || v.focus == focusCancel {
			v.focus = focusSave + focusCancel - v.focus
			return v, nil
		}
	}
	return v, v.updateFocusedInput(msg)
}

func (v *DetailsView) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focus {
	case focusPages:
		v.pagesInput, cmd = v.pagesInput.Update(msg)
	case focusNotes:
		v.notesInput, cmd = v.notesInput.Update(msg)
	}
	return cmd
}

func (v *DetailsView) openDialog() tea.Cmd {
	v.dialogOpen = true
	v.dialogErr = ""
	v.pagesInput.SetValue("")
	v.notesInput.SetValue("")
	v.focus = focusPages
	v.notesInput.Blur()
	return v.pagesInput.Focus()
}

func (v *DetailsView) closeDialog() {
	v.dialogOpen = false
	v.dialogErr = ""
	v.pagesInput.Blur()
	v.notesInput.Blur()
}

func (v *DetailsView) moveFocus(forward bool) {
	if forward {
		v.focus = (v.focus + 1) % 4
	} else {
		v.focus = (v.focus + 3) % 4
	}
	v.pagesInput.Blur()
	v.notesInput.Blur()
	switch v.focus {
	case focusPages:
		v.pagesInput.Focus()
	case focusNotes:
		v.notesInput.Focus()
	}
}

// save validates the dialog, closes it and posts the normalized record
func (v *DetailsView) save() tea.Cmd {
	if v.saving || v.volume == nil {
		return nil
	}

	form := &forms.AddBookForm{
		Pages: v.pagesInput.Value(),
		Notes: v.notesInput.Value(),
	}
	if err := forms.Validate(context.Background(), form); err != nil {
		var formErr *forms.Error
		if errors.As(err, &formErr) {
			v.dialogErr = formErr.Message
		} else {
			v.dialogErr = err.Error()
		}
		return nil
	}

	record := library.Normalize(*v.volume, form.Overrides())
	v.closeDialog()
	v.saving = true

	return tea.Batch(
		SendStatus(MsgSaving),
		func() tea.Msg {
			ctx, cancel := withTimeout()
			defer cancel()
			book, err := v.client.CreateBook(ctx, record)
			return bookSavedMsg{book: book, err: err}
		},
	)
}

// SaveFailureMessage is the alert text for a failed CreateBook
func SaveFailureMessage(err error) string {
	var connErr *api.ConnectionError
	if errors.As(err, &connErr) {
		return api.MsgServerDown
	}
	return api.UserMessage(err)
}

// View implements View
func (v *DetailsView) View() string {
	if v.volume == nil {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("Nenhum livro selecionado."))
	}

	header := styles.TitleBar.Render("Detalhes do Livro")
	help := strings.Join(styles.KeyHelp("a", "adicionar à biblioteca", "↑/↓", "rolar", "esc", "voltar"), "  ")

	body := v.viewport.View()
	if v.cover != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, v.cover, "  ", body)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", help)
	if v.dialogOpen {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, v.renderDialog())
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(content)
}

func (v *DetailsView) renderDialog() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Adicionar à biblioteca") + "\n")

	b.WriteString(styles.InputLabel.Render("Páginas") + "\n")
	pagesStyle := styles.InputField
	if v.focus == focusPages {
		pagesStyle = styles.InputFieldFocused
	}
	b.WriteString(pagesStyle.Render(v.pagesInput.View()) + "\n\n")

	b.WriteString(styles.InputLabel.Render("Observações") + "\n")
	notesStyle := styles.InputField
	if v.focus == focusNotes {
		notesStyle = styles.InputFieldFocused
	}
	b.WriteString(notesStyle.Render(v.notesInput.View()) + "\n\n")

	save, cancel := styles.Button.Render("Salvar"), styles.Button.Render("Cancelar")
	if v.focus == focusSave {
		save = styles.ButtonFocused.Render("Salvar")
	}
	if v.focus == focusCancel {
		cancel = styles.ButtonFocused.Render("Cancelar")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, save, " ", cancel) + "\n")

	if v.dialogErr != "" {
		b.WriteString("\n" + styles.ErrorStyle.Render(v.dialogErr) + "\n")
	}
	b.WriteString("\n" + strings.Join(styles.KeyHelp("tab", "próximo", "ctrl+s", "salvar", "esc", "cancelar"), "  "))

	return styles.Dialog.Width(50).Render(b.String())
}

// refreshContent rebuilds the scrollable text from the volume
func (v *DetailsView) refreshContent() {
	if v.volume == nil {
		v.viewport.SetContent("")
		return
	}
	v.viewport.SetContent(DetailsText(*v.volume, v.textWidth()))
}

func (v *DetailsView) textWidth() int {
	w := v.width - 4
	if v.termMode != terminal.TermModeNone {
		w -= coverCols + 2
	}
	return max(w, 20)
}

// DetailsText renders the descriptive fields of a volume wrapped to width
func DetailsText(vol models.CatalogVolume, width int) string {
	info := vol.VolumeInfo
	title, _ := catalog.Headline(vol)

	var b strings.Builder
	b.WriteString(styles.BookTitle.Render(title) + "\n")
	if len(info.Authors) > 0 {
		b.WriteString(styles.BookAuthor.Render(strings.Join(info.Authors, ", ")) + "\n")
	} else {
		b.WriteString(styles.BookAuthor.Render(library.PlaceholderAuthor) + "\n")
	}
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(styles.BookMeta.Render(label+": ") + value + "\n")
	}
	row("Publicado em", info.PublishedDate)
	row("Editora", info.Publisher)
	pages := ""
	if info.PageCount != nil {
		pages = fmt.Sprintf("%d", *info.PageCount)
	}
	row("Páginas", pages)
	row("Categorias", strings.Join(info.Categories, ", "))
	row("Idioma", catalog.LanguageName(info.Language))
	if isbn := library.ResolveISBN(info.IndustryIdentifiers); isbn != "" {
		row("ISBN", isbn)
	}

	b.WriteString("\n" + styles.SectionTitle.Render("Descrição") + "\n")
	desc := lipgloss.NewStyle().Width(width).Render(catalog.DescriptionText(info.Description))
	b.WriteString(desc + "\n")

	return b.String()
}

// SetSize implements View
func (v *DetailsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = v.textWidth()
	v.viewport.Height = max(height-6, 5)
	v.refreshContent()
}
