package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/repository"
)

// Sort keys understood by search_guides.
const (
	SortUpdated   = "updated"
	SortDownloads = "downloads"
)

// Page size bounds for guide listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
	MinPageSize     = 1
)

// SearchPage is one page of guides. Cursor is nil on the last page.
type SearchPage struct {
	Items   []models.Guide `json:"items"`
	Cursor  *string        `json:"cursor"`
	HasMore bool           `json:"hasMore"`
}

// Searcher adapts a FilterSet to the search_guides procedure.
//
// It normalizes sort and page size and reads has_more / cursor off the last
// row. It never inspects or builds a cursor and never reorders rows.
type Searcher struct {
	proc repository.GuideSearcher
}

func NewSearcher(proc repository.GuideSearcher) *Searcher {
	return &Searcher{proc: proc}
}

// Search runs one page of the guide search.
func (s *Searcher) Search(ctx context.Context, fs FilterSet) (SearchPage, error) {
	args := models.GuideSearchArgs{
		Query:     fs.Query,
		Domains:   nonNil(fs.Values(FacetDomain)),
		Types:     nonNil(fs.Values(FacetGuideType)),
		Functions: nonNil(fs.Values(FacetFunctionArea)),
		Status:    firstOr(fs.Values(FacetStatus), ""),
		Sort:      NormalizeSort(fs.Sort),
		Limit:     ClampPageSize(fs.PageSize),
		After:     fs.Cursor,
	}

	rows, err := s.proc.SearchGuides(ctx, args)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search guides: %w", err)
	}

	page := SearchPage{Items: make([]models.Guide, 0, len(rows))}
	for _, r := range rows {
		page.Items = append(page.Items, r.Guide)
	}

	// Empty page: HasMore stays false, Cursor stays nil.
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		if last.HasMore != nil {
			page.HasMore = *last.HasMore
		}
		if last.Cursor != nil && *last.Cursor != "" {
			page.Cursor = last.Cursor
		}
	}

	return page, nil
}

// NormalizeSort maps a requested sort onto the procedure's enum.
// "relevance" is served as downloads; anything unrecognised as updated.
func NormalizeSort(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "relevance", SortDownloads:
		return SortDownloads
	default:
		return SortUpdated
	}
}

// ClampPageSize bounds a requested page size to [MinPageSize, MaxPageSize].
// A nil size means the caller did not ask and gets DefaultPageSize.
func ClampPageSize(size *int) int {
	if size == nil {
		return DefaultPageSize
	}
	switch n := *size; {
	case n < MinPageSize:
		return MinPageSize
	case n > MaxPageSize:
		return MaxPageSize
	default:
		return n
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func firstOr(v []string, def string) string {
	if len(v) == 0 {
		return def
	}
	return v[0]
}
