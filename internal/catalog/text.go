package catalog

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/palavraria/palavraria-t/internal/library"
	"github.com/palavraria/palavraria-t/pkg/models"
)

// NoDescription is shown when a volume has no description
const NoDescription = "Nenhuma descrição disponível."

// htmlTagPattern detects the markup the catalog puts in descriptions
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

var languageNames = display.Languages(language.BrazilianPortuguese)

// DescriptionText converts an HTML description to Markdown for the terminal.
// Plain text is returned unchanged.
func DescriptionText(s string) string {
	if s == "" {
		return NoDescription
	}
	if !htmlTagPattern.MatchString(strings.ToLower(s)) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(markdown)
}

// LanguageName returns the Portuguese name of a language code ("en" is
// "inglês"). Unrecognized codes are returned as given.
func LanguageName(code string) string {
	if code == "" {
		return "desconhecido"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := languageNames.Name(tag); name != "" {
		return name
	}
	return code
}

// Headline returns the title and the "authors • published date" line of a
// search result, with placeholders for missing values
func Headline(vol models.CatalogVolume) (title, byline string) {
	info := vol.VolumeInfo
	title = info.Title
	if title == "" {
		title = library.PlaceholderTitle
	}
	byline = strings.Join(info.Authors, ", ")
	if byline == "" {
		byline = library.PlaceholderAuthor
	}
	if info.PublishedDate != "" {
		byline += " • " + info.PublishedDate
	}
	return title, byline
}
