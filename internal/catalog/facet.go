package catalog

import (
	"sort"
	"strings"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/taxonomy"
)

// CountBy groups items by the values returned from values and counts each
// bucket. Blank values are skipped rather than bucketed as "unknown"; an
// item that repeats a value counts once for it. name maps a bucket id to
// its display name (nil keeps the id).
//
// Output is sorted by name ascending, then id, so every count is >= 1 and
// the order is stable across calls.
func CountBy[T any](items []T, values func(T) []string, name func(string) string) []models.Facet {
	counts := make(map[string]int)
	for _, item := range items {
		seen := make(map[string]struct{})
		for _, v := range values(item) {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			counts[v]++
		}
	}

	facets := make([]models.Facet, 0, len(counts))
	for id, n := range counts {
		display := id
		if name != nil {
			display = name(id)
		}
		facets = append(facets, models.Facet{ID: id, Name: display, Count: n})
	}

	sort.Slice(facets, func(i, j int) bool {
		if facets[i].Name != facets[j].Name {
			return facets[i].Name < facets[j].Name
		}
		return facets[i].ID < facets[j].ID
	})

	return facets
}

// one adapts a nullable column to CountBy's values func.
func one(s *string) []string {
	if s == nil {
		return nil
	}
	return []string{*s}
}

var courseFacetValues = map[string]func(models.Course) []string{
	FacetCategory:   func(c models.Course) []string { return []string{c.Category} },
	FacetDelivery:   func(c models.Course) []string { return []string{c.Delivery} },
	FacetDuration:   func(c models.Course) []string { return []string{c.Duration} },
	FacetLevel:      func(c models.Course) []string { return []string{string(CourseLevel(c))} },
	FacetLocation:   CourseLocations,
	FacetAudience:   func(c models.Course) []string { return c.Audience },
	FacetDepartment: func(c models.Course) []string { return c.Department },
	FacetOwner:      func(c models.Course) []string { return []string{c.Owner} },
	FacetStatus:     func(c models.Course) []string { return []string{c.Status} },
}

// CourseFacets counts every course dimension. Each dimension is counted over
// the courses matching all the *other* selections, so choosing a value never
// hides its siblings.
func CourseFacets(courses []models.Course, fs FilterSet) map[string][]models.Facet {
	out := make(map[string][]models.Facet, len(CourseFacetKeys))
	for _, key := range CourseFacetKeys {
		var name func(string) string
		if key == FacetLevel {
			name = func(id string) string { return taxonomy.Label(taxonomy.LevelCode(id)) }
		}
		base := ApplyFilters(courses, fs.Without(key))
		out[key] = CountBy(base, courseFacetValues[key], name)
	}
	sortByLevel(out[FacetLevel])
	return out
}

// sortByLevel orders level buckets by their rank in the level scheme, so
// L2 precedes L10. Codes outside the scheme go last, in name order.
func sortByLevel(facets []models.Facet) {
	levels := taxonomy.Levels()
	rank := make(map[string]int, len(levels))
	for i, l := range levels {
		rank[string(l.Code)] = i
	}
	pos := func(id string) int {
		if r, ok := rank[id]; ok {
			return r
		}
		return len(levels)
	}
	sort.SliceStable(facets, func(i, j int) bool {
		return pos(facets[i].ID) < pos(facets[j].ID)
	})
}

// Guide facet dimensions, also the query parameter names.
const (
	FacetDomain       = "domain"
	FacetGuideType    = "type"
	FacetFunctionArea = "functionArea"
)

// GuideFacetKeys lists the guide dimensions counted on listings. Status is
// applied by the base query and is not counted.
var GuideFacetKeys = []string{FacetDomain, FacetGuideType, FacetFunctionArea}

var guideFacetValues = map[string]func(models.GuideFacetRow) []string{
	FacetDomain:       func(r models.GuideFacetRow) []string { return one(r.Domain) },
	FacetGuideType:    func(r models.GuideFacetRow) []string { return one(r.GuideType) },
	FacetFunctionArea: func(r models.GuideFacetRow) []string { return one(r.FunctionArea) },
}

// GuideFacets counts guide dimensions over rows already narrowed by the
// free-text term and status. As with courses, a dimension's own selection is
// left out when counting it.
func GuideFacets(rows []models.GuideFacetRow, fs FilterSet) map[string][]models.Facet {
	out := make(map[string][]models.Facet, len(GuideFacetKeys))
	for _, key := range GuideFacetKeys {
		base := make([]models.GuideFacetRow, 0, len(rows))
		for _, r := range rows {
			if matchGuideRow(r, fs, key) {
				base = append(base, r)
			}
		}
		out[key] = CountBy(base, guideFacetValues[key], nil)
	}
	return out
}

func matchGuideRow(r models.GuideFacetRow, fs FilterSet, skip string) bool {
	for _, key := range GuideFacetKeys {
		if key == skip {
			continue
		}
		selected := fs.Values(key)
		if len(selected) == 0 {
			continue
		}
		vals := guideFacetValues[key](r)
		if len(vals) == 0 || !containsFold(selected, vals[0]) {
			return false
		}
	}
	return true
}
