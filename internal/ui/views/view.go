package views

import (
	"context"
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palavraria/palavraria-t/pkg/models"
)

// requestTimeout bounds every network call started from a view
const requestTimeout = 20 * time.Second

// ViewType represents different screens in the application
type ViewType int

const (
	ViewLogin ViewType = iota
	ViewSearch
	ViewDetails
	ViewProfile
)

// String returns the name of the view
func (v ViewType) String() string {
	switch v {
	case ViewLogin:
		return "Login"
	case ViewSearch:
		return "Search"
	case ViewDetails:
		return "Details"
	case ViewProfile:
		return "Profile"
	default:
		return "Unknown"
	}
}

// View is the interface that all views must implement
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// InputCapturer is implemented by views that can have a focused text field.
// While Capturing is true, printable keys belong to the view.
type InputCapturer interface {
	Capturing() bool
}

// Reply is implemented by the answer to a request a view started. The app
// delivers it to Owner even when another screen is showing.
type Reply interface {
	Owner() ViewType
}

// Backend is the persistence API used by the views
type Backend interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error)
	CreateBook(ctx context.Context, book models.BookRecord) (*models.BookRecord, error)
	ListBooks(ctx context.Context) ([]models.BookRecord, error)
}

// Catalog is the third-party book search used by the views
type Catalog interface {
	Search(ctx context.Context, query string) ([]models.CatalogVolume, error)
	FetchCover(ctx context.Context, coverURL string) (image.Image, error)
}

// Message types for inter-view communication

// LoginSuccessMsg is sent when login succeeds
type LoginSuccessMsg struct {
	User  models.User
	Token string
}

// LogoutMsg is sent when user logs out
type LogoutMsg struct{}

// ShowDetailsMsg is sent when a search result is selected
type ShowDetailsMsg struct {
	Volume models.CatalogVolume
}

// BookAddedMsg is sent after the backend stored a record
type BookAddedMsg struct {
	Book models.BookRecord
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the current error
type ClearErrorMsg struct{}

// StatusMsg shows a notice in the status bar
type StatusMsg struct {
	Text string
}

// SwitchViewMsg requests a view switch
type SwitchViewMsg struct {
	View ViewType
}

// ThemeChangedMsg is sent after the theme was cycled
type ThemeChangedMsg struct {
	Name string
}

// Helper functions to create messages

// SendError creates an error message command
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// ClearError creates a command to clear errors
func ClearError() tea.Cmd {
	return func() tea.Msg {
		return ClearErrorMsg{}
	}
}

// SendStatus creates a status notice command
func SendStatus(text string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: text}
	}
}

// SwitchTo creates a command to switch views
func SwitchTo(view ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: view}
	}
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
