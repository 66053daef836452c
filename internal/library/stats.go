package library

import (
	"fmt"
	"strings"

	"github.com/palavraria/palavraria-t/pkg/models"
)

// RecentLimit is how many records the profile lists as recently added
const RecentLimit = 5

// Stats summarizes a reading list
type Stats struct {
	Read       int `json:"lidos"`
	InProgress int `json:"emProgresso"`
}

// Summary renders the stats line shown under the user name
func (s Stats) Summary() string {
	return fmt.Sprintf("%d livros lidos • %d em progresso", s.Read, s.InProgress)
}

// Aggregate counts read and in-progress books. Other statuses, including
// unknown ones, count toward neither.
func Aggregate(records []models.BookRecord) Stats {
	var s Stats
	for _, r := range records {
		switch r.Status {
		case models.StatusRead:
			s.Read++
		case models.StatusReading, models.StatusRereading:
			s.InProgress++
		}
	}
	return s
}

// Recent returns the first n records in backend order
func Recent(records []models.BookRecord, n int) []models.BookRecord {
	if n < 0 {
		n = 0
	}
	if len(records) <= n {
		return records
	}
	return records[:n]
}

// RecordDetails renders "publisher • year • N páginas", skipping empty parts
func RecordDetails(b models.BookRecord) string {
	var parts []string
	if b.Publisher != "" {
		parts = append(parts, b.Publisher)
	}
	if b.PublicationYear != 0 {
		parts = append(parts, fmt.Sprintf("%d", b.PublicationYear))
	}
	if b.PageCount != 0 {
		parts = append(parts, fmt.Sprintf("%d páginas", b.PageCount))
	}
	return strings.Join(parts, " • ")
}
