package catalog

import (
	"strings"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/taxonomy"
)

// Course facet dimensions, also the query parameter names.
const (
	FacetCategory   = "category"
	FacetDelivery   = "delivery"
	FacetDuration   = "duration"
	FacetLevel      = "level"
	FacetLocation   = "location"
	FacetAudience   = "audience"
	FacetDepartment = "department"
	FacetOwner      = "owner"
	FacetStatus     = "status"
)

// CourseFacetKeys lists every course dimension in display order.
var CourseFacetKeys = []string{
	FacetCategory,
	FacetDelivery,
	FacetDuration,
	FacetLevel,
	FacetLocation,
	FacetAudience,
	FacetDepartment,
	FacetOwner,
	FacetStatus,
}

// GlobalLocation matches every location selection.
const GlobalLocation = "Global"

// ApplyFilters returns the courses matching fs, in input order.
//
// Dimensions are ANDed; values within a dimension are ORed. A course whose
// locations include Global (or that has no locations at all) matches any
// location selection. Level selections go through the level normalizer, so
// "foundation" selects L1 and L2.
func ApplyFilters(courses []models.Course, fs FilterSet) []models.Course {
	p := newCoursePredicate(fs)

	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if p.match(c) {
			out = append(out, c)
		}
	}
	return out
}

type coursePredicate struct {
	single     map[string][]string
	levels     []taxonomy.LevelCode
	levelSet   bool
	locations  []string
	audience   []string
	department []string
}

func newCoursePredicate(fs FilterSet) coursePredicate {
	p := coursePredicate{
		single: map[string][]string{
			FacetCategory: fs.Values(FacetCategory),
			FacetDelivery: fs.Values(FacetDelivery),
			FacetDuration: fs.Values(FacetDuration),
			FacetOwner:    fs.Values(FacetOwner),
			FacetStatus:   fs.Values(FacetStatus),
		},
		locations:  fs.Values(FacetLocation),
		audience:   fs.Values(FacetAudience),
		department: fs.Values(FacetDepartment),
	}

	// A level selection that normalizes to nothing still restricts: it
	// matches no course rather than every course.
	if raw := fs.Values(FacetLevel); len(raw) > 0 {
		p.levelSet = true
		p.levels = taxonomy.NormalizeLevels(raw)
	}

	return p
}

func (p coursePredicate) match(c models.Course) bool {
	fields := map[string]string{
		FacetCategory: c.Category,
		FacetDelivery: c.Delivery,
		FacetDuration: c.Duration,
		FacetOwner:    c.Owner,
		FacetStatus:   c.Status,
	}
	for key, selected := range p.single {
		if len(selected) > 0 && !containsFold(selected, fields[key]) {
			return false
		}
	}

	if p.levelSet && !containsLevel(p.levels, CourseLevel(c)) {
		return false
	}

	if len(p.locations) > 0 && !matchLocation(CourseLocations(c), p.locations) {
		return false
	}

	if len(p.audience) > 0 && !intersectsFold(c.Audience, p.audience) {
		return false
	}

	if len(p.department) > 0 && !intersectsFold(c.Department, p.department) {
		return false
	}

	return true
}

// CourseLevel returns the course's canonical level, normalizing the stored
// label when Level has not been filled in yet.
func CourseLevel(c models.Course) taxonomy.LevelCode {
	if c.Level != "" {
		return taxonomy.LevelCode(c.Level)
	}
	code, _ := taxonomy.NormalizeLevel(c.LevelLabel)
	return code
}

// CourseLocations returns the course's locations, with an empty set read as
// Global.
func CourseLocations(c models.Course) []string {
	if len(c.Locations) == 0 {
		return []string{GlobalLocation}
	}
	return c.Locations
}

func matchLocation(have, selected []string) bool {
	if containsFold(have, GlobalLocation) {
		return true
	}
	return intersectsFold(have, selected)
}

func containsLevel(codes []taxonomy.LevelCode, code taxonomy.LevelCode) bool {
	if code == "" {
		return false
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func containsFold(set []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func intersectsFold(a, b []string) bool {
	for _, v := range a {
		if containsFold(b, v) {
			return true
		}
	}
	return false
}
