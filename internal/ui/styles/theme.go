package styles

import "github.com/charmbracelet/lipgloss"

// Theme represents a color scheme for the application
type Theme struct {
	Name        string
	Description string

	// Core colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color

	// UI element colors
	Border        lipgloss.Color
	Selection     lipgloss.Color
	SelectionText lipgloss.Color
	BadgeText     lipgloss.Color
}

// Built-in themes
var (
	// PalavrariaTheme is the light paper-and-ink palette of the mobile app
	PalavrariaTheme = Theme{
		Name:          "palavraria",
		Description:   "Palavraria (default)",
		Primary:       lipgloss.Color("#22333b"),
		Secondary:     lipgloss.Color("#c6ad8f"),
		Background:    lipgloss.Color("#faf9f6"),
		Foreground:    lipgloss.Color("#22333b"),
		Success:       lipgloss.Color("#4caf50"),
		Warning:       lipgloss.Color("#FF9800"),
		Error:         lipgloss.Color("#f44336"),
		Muted:         lipgloss.Color("#566270"),
		Border:        lipgloss.Color("#e0d9cf"),
		Selection:     lipgloss.Color("#22333b"),
		SelectionText: lipgloss.Color("#faf9f6"),
		BadgeText:     lipgloss.Color("#ffffff"),
	}

	// NightTheme swaps paper and ink for dark terminals
	NightTheme = Theme{
		Name:          "noturno",
		Description:   "Dark variant",
		Primary:       lipgloss.Color("#c6ad8f"),
		Secondary:     lipgloss.Color("#8fb3c6"),
		Background:    lipgloss.Color("#1a282e"),
		Foreground:    lipgloss.Color("#faf9f6"),
		Success:       lipgloss.Color("#4caf50"),
		Warning:       lipgloss.Color("#FF9800"),
		Error:         lipgloss.Color("#f44336"),
		Muted:         lipgloss.Color("#8a96a3"),
		Border:        lipgloss.Color("#22333b"),
		Selection:     lipgloss.Color("#c6ad8f"),
		SelectionText: lipgloss.Color("#1a282e"),
		BadgeText:     lipgloss.Color("#ffffff"),
	}

	// BuiltinThemes is a list of all available built-in themes
	BuiltinThemes = []Theme{
		PalavrariaTheme,
		NightTheme,
	}

	// currentTheme holds the active theme
	currentTheme = PalavrariaTheme
)

// GetTheme returns a theme by name, or the default theme if not found
func GetTheme(name string) Theme {
	for _, t := range BuiltinThemes {
		if t.Name == name {
			return t
		}
	}
	return PalavrariaTheme
}

// CurrentTheme returns the currently active theme
func CurrentTheme() Theme {
	return currentTheme
}

// SetCurrentTheme sets the active theme by name
func SetCurrentTheme(name string) {
	currentTheme = GetTheme(name)
	ApplyTheme(currentTheme)
}

// NextTheme cycles to the next theme and returns its name
func NextTheme() string {
	for i, t := range BuiltinThemes {
		if t.Name == currentTheme.Name {
			next := BuiltinThemes[(i+1)%len(BuiltinThemes)]
			SetCurrentTheme(next.Name)
			return next.Name
		}
	}
	return currentTheme.Name
}

// ApplyTheme updates all global styles to use the given theme's colors
func ApplyTheme(theme Theme) {
	Primary = theme.Primary
	Secondary = theme.Secondary
	Success = theme.Success
	Warning = theme.Warning
	Error = theme.Error
	Muted = theme.Muted
	Background = theme.Background
	Foreground = theme.Foreground
	Border = theme.Border
	BadgeText = theme.BadgeText

	TitleBar = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Primary).
		Padding(0, 1).
		Bold(true)

	Logo = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	Help = lipgloss.NewStyle().
		Foreground(theme.Muted)

	HelpKey = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	MutedText = lipgloss.NewStyle().
		Foreground(theme.Muted)

	SecondaryText = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(theme.Success).
		Bold(true).
		Padding(0, 1)

	InputLabel = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Bold(true)

	InputField = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	InputFieldFocused = InputField.
		BorderForeground(theme.Primary)

	ListItem = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Padding(0, 2)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Selection).
		Padding(0, 2).
		Bold(true)

	Section = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2).
		MarginBottom(1)

	SectionTitle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		MarginBottom(1)

	Button = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(theme.Border).
		Padding(0, 2).
		MarginRight(1)

	ButtonFocused = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Primary).
		Padding(0, 2).
		MarginRight(1).
		Bold(true)

	BookTitle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	BookAuthor = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	BookMeta = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Italic(true)
}

// init applies the default theme on package load
func init() {
	ApplyTheme(PalavrariaTheme)
}
