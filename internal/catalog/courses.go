package catalog

import (
	"context"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/apperr"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/repository"
)

// CourseListing is the filtered LMS catalog with facet counts.
type CourseListing struct {
	Items  []models.Course            `json:"items"`
	Total  int                        `json:"total"`
	Facets map[string][]models.Facet `json:"facets"`
}

// CourseService serves the LMS course catalog. The free-text term is applied
// by the store; facet selections are applied in-process.
type CourseService struct {
	courses repository.CourseRepository
}

func NewCourseService(courses repository.CourseRepository) *CourseService {
	return &CourseService{courses: courses}
}

func (s *CourseService) List(ctx context.Context, fs FilterSet) (*CourseListing, error) {
	all, err := s.courses.List(ctx, fs.Query)
	if err != nil {
		return nil, apperr.New(apperr.KindUpstream, "failed to list courses", err)
	}
	for i := range all {
		all[i].Level = string(CourseLevel(all[i]))
	}

	items := ApplyFilters(all, fs)
	return &CourseListing{
		Items:  items,
		Total:  len(items),
		Facets: CourseFacets(all, fs),
	}, nil
}

func (s *CourseService) Get(ctx context.Context, idOrSlug string) (*models.Course, error) {
	course, err := s.courses.Get(ctx, idOrSlug)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.New(apperr.KindNotFound, "Not Found", err)
		}
		return nil, apperr.New(apperr.KindUpstream, "failed to get course", err)
	}
	course.Level = string(CourseLevel(*course))
	return course, nil
}
