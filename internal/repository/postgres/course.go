package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

var courseColumns = []string{
	"id", "slug", "title", "category", "delivery", "duration", "level_label",
	"locations", "audience", "department", "owner", "status", "updated_at",
}

type CourseStore struct {
	db DB
}

func NewCourseStore(db DB) *CourseStore {
	return &CourseStore{db: db}
}

func (s *CourseStore) List(ctx context.Context, query string) ([]models.Course, error) {
	b := psql.
		Select(courseColumns...).
		From("lms_courses").
		OrderBy("title", "id")

	if pattern := likePattern(query); pattern != "" {
		b = b.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"category": pattern},
			sq.ILike{"owner": pattern},
		})
	}

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list courses: %w", err)
	}

	courses := make([]models.Course, 0)
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, s.db), &courses, sqlStr, args...); err != nil {
		return nil, classify(err, "list courses")
	}
	return courses, nil
}

func (s *CourseStore) Get(ctx context.Context, idOrSlug string) (*models.Course, error) {
	sqlStr, args, err := psql.
		Select(courseColumns...).
		From("lms_courses").
		Where(sq.Or{sq.Eq{"id": idOrSlug}, sq.Eq{"slug": idOrSlug}}).
		OrderByClause("(id = ?) DESC", idOrSlug).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get course: %w", err)
	}

	var c models.Course
	if err := pgxscan.Get(ctx, QuerierFromCtx(ctx, s.db), &c, sqlStr, args...); err != nil {
		return nil, classify(err, "get course "+idOrSlug)
	}
	return &c, nil
}
