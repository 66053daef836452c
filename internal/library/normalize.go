// Package library turns catalog search results into library records and
// summarizes a user's reading list.
package library

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/palavraria/palavraria-t/pkg/models"
)

// Placeholders written when the catalog has no value for a field
const (
	PlaceholderTitle     = "Sem título"
	PlaceholderAuthor    = "Autor desconhecido"
	PlaceholderPublisher = "Editora desconhecida"
	PlaceholderLanguage  = "desconhecido"

	// PlaceholderISBNPrefix starts every generated ISBN
	PlaceholderISBNPrefix = "SEMISBN-"
)

const listSeparator = ", "

// Overrides are the values the user types in the "add to library" dialog
type Overrides struct {
	PageCount string
	Notes     string
}

// FieldPolicy describes how one text field of a BookRecord is derived from
// the catalog and what is written when the catalog has nothing.
type FieldPolicy struct {
	// Field is the wire name of the record field
	Field string
	// Fallback is used when Value returns "". Empty means "leave empty".
	Fallback string

	Value func(info *models.CatalogVolumeInfo) string
	Set   func(rec *models.BookRecord, v string)
}

// Resolve returns the catalog value or the fallback
func (p FieldPolicy) Resolve(info *models.CatalogVolumeInfo) string {
	if v := p.Value(info); v != "" {
		return v
	}
	return p.Fallback
}

// FieldPolicies is the mapping table for every text field copied from the
// catalog. Numeric fields, the ISBN and the user's notes are derived in
// Normalize.
var FieldPolicies = []FieldPolicy{
	{
		Field:    "titulo",
		Fallback: PlaceholderTitle,
		Value:    func(i *models.CatalogVolumeInfo) string { return i.Title },
		Set:      func(r *models.BookRecord, v string) { r.Title = v },
	},
	{
		Field:    "autor",
		Fallback: PlaceholderAuthor,
		Value:    func(i *models.CatalogVolumeInfo) string { return strings.Join(i.Authors, listSeparator) },
		Set:      func(r *models.BookRecord, v string) { r.Author = v },
	},
	{
		Field:    "editora",
		Fallback: PlaceholderPublisher,
		Value:    func(i *models.CatalogVolumeInfo) string { return i.Publisher },
		Set:      func(r *models.BookRecord, v string) { r.Publisher = v },
	},
	{
		Field: "genero",
		Value: func(i *models.CatalogVolumeInfo) string { return strings.Join(i.Categories, listSeparator) },
		Set:   func(r *models.BookRecord, v string) { r.Genre = v },
	},
	{
		Field: "sinopse",
		Value: func(i *models.CatalogVolumeInfo) string { return i.Description },
		Set:   func(r *models.BookRecord, v string) { r.Synopsis = v },
	},
	{
		Field:    "idioma",
		Fallback: PlaceholderLanguage,
		Value:    func(i *models.CatalogVolumeInfo) string { return i.Language },
		Set:      func(r *models.BookRecord, v string) { r.Language = v },
	},
}

// Normalizer builds BookRecords from catalog volumes
type Normalizer struct {
	// NewPlaceholderISBN generates the ISBN for volumes without identifiers.
	// Nil uses PlaceholderISBN.
	NewPlaceholderISBN func() string
}

var defaultNormalizer = Normalizer{NewPlaceholderISBN: PlaceholderISBN}

// Normalize builds a BookRecord with the default placeholder generator
func Normalize(vol models.CatalogVolume, o Overrides) models.BookRecord {
	return defaultNormalizer.Normalize(vol, o)
}

// Normalize maps a catalog volume plus the user's overrides to the record
// sent to the backend. It never fails: every field has a fallback.
func (n Normalizer) Normalize(vol models.CatalogVolume, o Overrides) models.BookRecord {
	info := &vol.VolumeInfo
	rec := models.BookRecord{}

	for _, p := range FieldPolicies {
		p.Set(&rec, p.Resolve(info))
	}

	rec.ISBN = ResolveISBN(info.IndustryIdentifiers)
	if rec.ISBN == "" {
		rec.ISBN = n.placeholderISBN()
	}
	rec.PublicationYear = PublicationYear(info.PublishedDate)
	rec.PageCount = resolvePageCount(o.PageCount, info.PageCount)
	rec.Notes = o.Notes

	return rec
}

func (n Normalizer) placeholderISBN() string {
	if n.NewPlaceholderISBN != nil {
		if id := n.NewPlaceholderISBN(); id != "" {
			return id
		}
	}
	return PlaceholderISBN()
}

// ResolveISBN picks the ISBN-13 identifier, then the first identifier of any
// type. It returns "" when neither has a value.
func ResolveISBN(ids []models.IndustryIdentifier) string {
	for _, id := range ids {
		if id.Type == models.IdentifierISBN13 {
			if id.Identifier != "" {
				return id.Identifier
			}
			break
		}
	}
	if len(ids) > 0 {
		return ids[0].Identifier
	}
	return ""
}

// PlaceholderISBN returns a random identifier for books the catalog did not
// give an ISBN to.
func PlaceholderISBN() string {
	id, err := gonanoid.New()
	if err != nil {
		return PlaceholderISBNPrefix + strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return PlaceholderISBNPrefix + id
}

// PublicationYear reads the year from the first four characters of a catalog
// date ("1965", "1965-08", "1965-08-01"). Anything unreadable is 0.
func PublicationYear(date string) int {
	runes := []rune(date)
	if len(runes) > 4 {
		runes = runes[:4]
	}
	year, ok := ParsePageCount(string(runes))
	if !ok {
		return 0
	}
	return year
}

// ParsePageCount parses the leading integer of s. Leading whitespace and a
// sign are accepted, trailing characters are ignored ("250 pgs" is 250).
func ParsePageCount(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// resolvePageCount prefers the user's value, then the catalog's
func resolvePageCount(override string, catalog *int) int {
	if override != "" {
		if n, ok := ParsePageCount(override); ok {
			return n
		}
	}
	if catalog != nil {
		return *catalog
	}
	return 0
}
