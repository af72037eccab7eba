package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/apperr"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

// psql builds Postgres ($1, $2, ...) statements. Every user-supplied value
// goes through squirrel as a bound argument.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var guideColumns = []string{
	"id", "slug", "title", "summary", "domain", "guide_type", "function_area",
	"status", "download_count", "created_at", "updated_at",
}

type GuideStore struct {
	db DB
}

func NewGuideStore(db DB) *GuideStore {
	return &GuideStore{db: db}
}

func (s *GuideStore) Get(ctx context.Context, idOrSlug string, withBody bool) (*models.Guide, error) {
	cols := guideColumns
	if withBody {
		cols = append(append([]string(nil), guideColumns...), "body")
	}

	// An id match wins over a slug match if one guide's slug equals
	// another's id.
	query, args, err := psql.
		Select(cols...).
		From("guides").
		Where(sq.Or{sq.Eq{"id": idOrSlug}, sq.Eq{"slug": idOrSlug}}).
		OrderByClause("(id = ?) DESC", idOrSlug).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get guide: %w", err)
	}

	var g models.Guide
	if err := pgxscan.Get(ctx, QuerierFromCtx(ctx, s.db), &g, query, args...); err != nil {
		return nil, classify(err, "get guide "+idOrSlug)
	}
	return &g, nil
}

// FacetRows returns the narrow projection facets are counted over. It
// applies only the free-text term and status: the domain, type and
// function-area selections are applied in process, one dimension left out
// at a time, which a single SQL filter could not express.
func (s *GuideStore) FacetRows(ctx context.Context, query string, status string) ([]models.GuideFacetRow, error) {
	b := psql.
		Select("id", "domain", "guide_type", "function_area").
		From("guides")

	if pattern := likePattern(query); pattern != "" {
		b = b.Where(sq.Or{sq.ILike{"title": pattern}, sq.ILike{"summary": pattern}})
	}
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build facet rows: %w", err)
	}

	rows := make([]models.GuideFacetRow, 0)
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, s.db), &rows, sqlStr, args...); err != nil {
		return nil, classify(err, "select facet rows")
	}
	return rows, nil
}

func (s *GuideStore) Taxonomies(ctx context.Context) (*models.Taxonomies, error) {
	var (
		t   models.Taxonomies
		err error
	)
	if t.Domains, err = s.distinct(ctx, "domain"); err != nil {
		return nil, err
	}
	if t.GuideTypes, err = s.distinct(ctx, "guide_type"); err != nil {
		return nil, err
	}
	if t.FunctionAreas, err = s.distinct(ctx, "function_area"); err != nil {
		return nil, err
	}
	if t.Statuses, err = s.distinct(ctx, "status"); err != nil {
		return nil, err
	}
	return &t, nil
}

// distinct lists the non-blank values of one trusted column name.
func (s *GuideStore) distinct(ctx context.Context, column string) ([]string, error) {
	query, args, err := psql.
		Select(column).
		Distinct().
		From("guides").
		Where(sq.And{sq.NotEq{column: nil}, sq.NotEq{column: ""}}).
		OrderBy(column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distinct %s: %w", column, err)
	}

	values := make([]string, 0)
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, s.db), &values, query, args...); err != nil {
		return nil, classify(err, "distinct "+column)
	}
	return values, nil
}

func (s *GuideStore) Create(ctx context.Context, in models.GuideInput) (string, error) {
	query, args, err := psql.
		Insert("guides").
		Columns("slug", "title", "summary", "body", "domain", "guide_type", "function_area", "status").
		Values(in.Slug, in.Title, in.Summary, in.Body, in.Domain, in.GuideType, in.FunctionArea, in.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert guide: %w", err)
	}

	var id string
	if err := QuerierFromCtx(ctx, s.db).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", classify(err, "insert guide")
	}
	return id, nil
}

func (s *GuideStore) Update(ctx context.Context, id string, in models.GuideInput) error {
	query, args, err := psql.
		Update("guides").
		Set("slug", in.Slug).
		Set("title", in.Title).
		Set("summary", in.Summary).
		Set("body", in.Body).
		Set("domain", in.Domain).
		Set("guide_type", in.GuideType).
		Set("function_area", in.FunctionArea).
		Set("status", in.Status).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update guide: %w", err)
	}

	tag, err := QuerierFromCtx(ctx, s.db).Exec(ctx, query, args...)
	if err != nil {
		return classify(err, "update guide "+id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update guide %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (s *GuideStore) Delete(ctx context.Context, id string) error {
	query, args, err := psql.
		Delete("guides").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete guide: %w", err)
	}

	tag, err := QuerierFromCtx(ctx, s.db).Exec(ctx, query, args...)
	if err != nil {
		return classify(err, "delete guide "+id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete guide %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns free text into a contains-pattern with LIKE wildcards
// escaped, so "50%" matches the literal text. Blank input yields "".
func likePattern(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(q) + "%"
}
