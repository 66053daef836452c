package library

import "github.com/palavraria/palavraria-t/pkg/models"

// Status badge colors
const (
	ColorWantToRead = "#666"
	ColorReading    = "#2196F3"
	ColorRead       = "#4CAF50"
	ColorRereading  = "#FF9800"
	ColorAbandoned  = "#F44336"

	// ColorDefault is used for statuses the client does not know
	ColorDefault = "#666"
)

// StatusColor returns the badge color for a status
func StatusColor(s models.ReadingStatus) string {
	switch s {
	case models.StatusWantToRead:
		return ColorWantToRead
	case models.StatusReading:
		return ColorReading
	case models.StatusRead:
		return ColorRead
	case models.StatusRereading:
		return ColorRereading
	case models.StatusAbandoned:
		return ColorAbandoned
	default:
		return ColorDefault
	}
}

// StatusLabel returns the display label for a status. Unknown values are
// shown as they came from the backend.
func StatusLabel(s models.ReadingStatus) string {
	switch s {
	case models.StatusWantToRead:
		return "Quero Ler"
	case models.StatusReading:
		return "Lendo"
	case models.StatusRead:
		return "Lido"
	case models.StatusRereading:
		return "Relendo"
	case models.StatusAbandoned:
		return "Abandonado"
	default:
		return string(s)
	}
}
