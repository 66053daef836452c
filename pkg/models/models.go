package models

import (
	"time"

	"github.com/segmentio/encoding/json"
)

// User represents a palavraria account
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"nome,omitempty"`
	Email string `json:"email"`
}

// Reading status values accepted by the backend
const (
	StatusWantToRead ReadingStatus = "quero-ler"
	StatusReading    ReadingStatus = "lendo"
	StatusRead       ReadingStatus = "lido"
	StatusRereading  ReadingStatus = "relendo"
	StatusAbandoned  ReadingStatus = "abandonado"
)

// ReadingStatus describes a user's relationship to a book
type ReadingStatus string

// ReadingStatuses lists every known status in display order
var ReadingStatuses = []ReadingStatus{
	StatusWantToRead,
	StatusReading,
	StatusRead,
	StatusRereading,
	StatusAbandoned,
}

// Known returns true if the status is one of the enumerated values
func (s ReadingStatus) Known() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusRead, StatusRereading, StatusAbandoned:
		return true
	default:
		return false
	}
}

// BookRecord is a book in the user's library as stored by the backend
type BookRecord struct {
	ID              string        `json:"id,omitempty"`
	Title           string        `json:"titulo"`
	Author          string        `json:"autor"`
	ISBN            string        `json:"isbn"`
	Publisher       string        `json:"editora"`
	PublicationYear int           `json:"anoPublicacao"`
	Genre           string        `json:"genero"`
	Synopsis        string        `json:"sinopse"`
	PageCount       int           `json:"paginas"`
	Notes           string        `json:"observacoes"`
	Language        string        `json:"idioma"`
	Status          ReadingStatus `json:"status,omitempty"`
	CreatedAt       *time.Time    `json:"createdAt,omitempty"`
}

// UnmarshalJSON accepts the short "ano" year key that the list endpoint uses
func (b *BookRecord) UnmarshalJSON(data []byte) error {
	type plain BookRecord
	aux := struct {
		*plain
		Year *int `json:"ano"`
	}{plain: (*plain)(b)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if b.PublicationYear == 0 && aux.Year != nil {
		b.PublicationYear = *aux.Year
	}
	return nil
}

// IndustryIdentifier is an ISBN-like identifier attached to a catalog volume
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// Identifier types used by the catalog
const (
	IdentifierISBN10 = "ISBN_10"
	IdentifierISBN13 = "ISBN_13"
)

// ImageLinks holds cover image URLs for a catalog volume
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

// CatalogVolumeInfo is the descriptive part of a catalog search result
type CatalogVolumeInfo struct {
	Title               string               `json:"title,omitempty"`
	Authors             []string             `json:"authors,omitempty"`
	Publisher           string               `json:"publisher,omitempty"`
	PublishedDate       string               `json:"publishedDate,omitempty"`
	Description         string               `json:"description,omitempty"`
	Categories          []string             `json:"categories,omitempty"`
	PageCount           *int                 `json:"pageCount,omitempty"`
	Language            string               `json:"language,omitempty"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers,omitempty"`
	ImageLinks          *ImageLinks          `json:"imageLinks,omitempty"`
}

// CatalogVolume is one book returned by the catalog search API
type CatalogVolume struct {
	ID         string            `json:"id"`
	VolumeInfo CatalogVolumeInfo `json:"volumeInfo"`
}

// CatalogSearchResponse represents the catalog volumes listing
type CatalogSearchResponse struct {
	TotalItems int             `json:"totalItems"`
	Items      []CatalogVolume `json:"items"`
}

// AuthResponse represents login/register response
type AuthResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// ErrorResponse represents an API error. The backend is not consistent
// about which key carries the text.
type ErrorResponse struct {
	Mensagem string `json:"mensagem,omitempty"`
	Erro     string `json:"erro,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Text returns the first non-empty message in the payload
func (e ErrorResponse) Text() string {
	for _, s := range []string{e.Mensagem, e.Erro, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}
