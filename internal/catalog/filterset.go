package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/apperr"
)

// FilterSet is the user's current refinement of a catalog listing.
//
// Facets maps a dimension key to its selected values. An absent or empty
// selection places no restriction on that dimension. PageSize and Cursor are
// nil when the request did not carry them.
type FilterSet struct {
	Facets   map[string][]string
	Query    string
	Sort     string
	PageSize *int
	Cursor   *string
}

// Values returns the selection for key. Nil means unrestricted.
func (f FilterSet) Values(key string) []string {
	return f.Facets[key]
}

// With returns a copy of f with key's selection replaced by values.
// Passing no values clears the selection.
func (f FilterSet) With(key string, values ...string) FilterSet {
	out := f.clone()
	if len(values) == 0 {
		delete(out.Facets, key)
		return out
	}
	out.Facets[key] = append([]string(nil), values...)
	return out
}

// Without returns a copy of f with no selection on key.
func (f FilterSet) Without(key string) FilterSet {
	return f.With(key)
}

func (f FilterSet) clone() FilterSet {
	out := f
	out.Facets = make(map[string][]string, len(f.Facets))
	for k, v := range f.Facets {
		out.Facets[k] = v
	}
	return out
}

// ParseFilterSet reads a FilterSet from URL query parameters. Only the
// listed facet keys are read as selections; each accepts repeated keys and
// comma-separated values.
func ParseFilterSet(q url.Values, facetKeys ...string) (FilterSet, error) {
	fs := FilterSet{
		Facets: make(map[string][]string, len(facetKeys)),
		Query:  strings.TrimSpace(q.Get("q")),
		Sort:   strings.TrimSpace(q.Get("sort")),
	}

	if raw := strings.TrimSpace(q.Get("pageSize")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return FilterSet{}, apperr.New(apperr.KindParse, "invalid 'pageSize' parameter", err)
		}
		fs.PageSize = &n
	}

	if raw := strings.TrimSpace(q.Get("cursor")); raw != "" {
		fs.Cursor = &raw
	}

	for _, key := range facetKeys {
		if values := splitValues(q[key]); len(values) > 0 {
			fs.Facets[key] = values
		}
	}

	return fs, nil
}

// splitValues flattens ?k=a,b&k=c into [a b c], dropping blanks.
func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
