package postgres

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

// SearchStore calls the search_guides function installed by the
// migrations. Arguments are positional; the cursor is passed through as
// text and never looked at here.
type SearchStore struct {
	db DB
}

func NewSearchStore(db DB) *SearchStore {
	return &SearchStore{db: db}
}

const searchGuidesSQL = `
	SELECT id, slug, title, summary, domain, guide_type, function_area,
	       status, download_count, created_at, updated_at, has_more, cursor
	FROM search_guides($1, $2, $3, $4, $5, $6, $7, $8)`

func (s *SearchStore) SearchGuides(ctx context.Context, args models.GuideSearchArgs) ([]models.GuideSearchRow, error) {
	rows := make([]models.GuideSearchRow, 0, args.Limit)
	err := pgxscan.Select(ctx, QuerierFromCtx(ctx, s.db), &rows, searchGuidesSQL,
		args.Query,
		args.Domains,
		args.Types,
		args.Functions,
		args.Status,
		args.Sort,
		args.Limit,
		args.After,
	)
	if err != nil {
		return nil, classify(err, "search guides")
	}
	return rows, nil
}
