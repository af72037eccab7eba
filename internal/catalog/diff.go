package catalog

import (
	"sort"
	"strings"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

// Change is the before/after pair recorded for one edited field.
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// DiffGuide compares the stored guide with the incoming edit and returns the
// changed fields keyed by their JSON name, plus a one-line summary for the
// version history. A nil before is a create: every non-empty field counts.
func DiffGuide(before *models.Guide, after models.GuideInput) (map[string]any, string) {
	var prev models.GuideInput
	if before != nil {
		prev = models.GuideInput{
			Slug:         before.Slug,
			Title:        before.Title,
			Summary:      before.Summary,
			Body:         before.Body,
			Domain:       before.Domain,
			GuideType:    before.GuideType,
			FunctionArea: before.FunctionArea,
			Status:       before.Status,
		}
	}

	fields := []struct {
		name     string
		from, to any
	}{
		{"slug", deref(prev.Slug), deref(after.Slug)},
		{"title", prev.Title, after.Title},
		{"summary", prev.Summary, after.Summary},
		{"body", deref(prev.Body), deref(after.Body)},
		{"domain", deref(prev.Domain), deref(after.Domain)},
		{"guideType", deref(prev.GuideType), deref(after.GuideType)},
		{"functionArea", deref(prev.FunctionArea), deref(after.FunctionArea)},
		{"status", prev.Status, after.Status},
	}

	changes := make(map[string]any)
	for _, f := range fields {
		if f.from == f.to {
			continue
		}
		// The body can be large; record that it changed, not its text.
		if f.name == "body" {
			changes[f.name] = Change{From: len(f.from.(string)), To: len(f.to.(string))}
			continue
		}
		changes[f.name] = Change{From: f.from, To: f.to}
	}

	return changes, summarize(before == nil, changes)
}

func summarize(created bool, changes map[string]any) string {
	if created {
		return "created"
	}
	if len(changes) == 0 {
		return "no changes"
	}
	names := make([]string, 0, len(changes))
	for k := range changes {
		names = append(names, k)
	}
	sort.Strings(names)
	return "updated " + strings.Join(names, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
