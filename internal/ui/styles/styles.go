package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/palavraria/palavraria-t/internal/library"
	"github.com/palavraria/palavraria-t/pkg/models"
)

// Colors and styles of the active theme. ApplyTheme rewrites them.
var (
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Border     lipgloss.Color
	BadgeText  lipgloss.Color

	TitleBar      lipgloss.Style
	Logo          lipgloss.Style
	Help          lipgloss.Style
	HelpKey       lipgloss.Style
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	ErrorStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style

	InputLabel        lipgloss.Style
	InputField        lipgloss.Style
	InputFieldFocused lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style

	Section      lipgloss.Style
	SectionTitle lipgloss.Style
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	BookTitle  lipgloss.Style
	BookAuthor lipgloss.Style
	BookMeta   lipgloss.Style
)

// StatusBadge renders a reading status as a colored pill
func StatusBadge(status models.ReadingStatus) string {
	return lipgloss.NewStyle().
		Foreground(BadgeText).
		Background(lipgloss.Color(library.StatusColor(status))).
		Padding(0, 1).
		Bold(true).
		Render(library.StatusLabel(status))
}

// KeyHelp renders "key label" pairs for footers
func KeyHelp(pairs ...string) []string {
	out := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, HelpKey.Render(pairs[i])+Help.Render(" "+pairs[i+1]))
	}
	return out
}
