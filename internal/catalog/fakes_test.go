package catalog

import (
	"context"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

// ---------------------------------------------------------------------------
// Func-field fakes for the repository interfaces.
// ---------------------------------------------------------------------------

type guideSearcherMock struct {
	SearchGuidesFunc func(ctx context.Context, args models.GuideSearchArgs) ([]models.GuideSearchRow, error)
}

func (m *guideSearcherMock) SearchGuides(ctx context.Context, args models.GuideSearchArgs) ([]models.GuideSearchRow, error) {
	return m.SearchGuidesFunc(ctx, args)
}

type guideRepoMock struct {
	GetFunc        func(ctx context.Context, idOrSlug string, withBody bool) (*models.Guide, error)
	FacetRowsFunc  func(ctx context.Context, query, status string) ([]models.GuideFacetRow, error)
	TaxonomiesFunc func(ctx context.Context) (*models.Taxonomies, error)
	CreateFunc     func(ctx context.Context, in models.GuideInput) (string, error)
	UpdateFunc     func(ctx context.Context, id string, in models.GuideInput) error
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *guideRepoMock) Get(ctx context.Context, idOrSlug string, withBody bool) (*models.Guide, error) {
	return m.GetFunc(ctx, idOrSlug, withBody)
}

func (m *guideRepoMock) FacetRows(ctx context.Context, query, status string) ([]models.GuideFacetRow, error) {
	return m.FacetRowsFunc(ctx, query, status)
}

func (m *guideRepoMock) Taxonomies(ctx context.Context) (*models.Taxonomies, error) {
	return m.TaxonomiesFunc(ctx)
}

func (m *guideRepoMock) Create(ctx context.Context, in models.GuideInput) (string, error) {
	return m.CreateFunc(ctx, in)
}

func (m *guideRepoMock) Update(ctx context.Context, id string, in models.GuideInput) error {
	return m.UpdateFunc(ctx, id, in)
}

func (m *guideRepoMock) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type auditRepoMock struct {
	AppendFunc     func(ctx context.Context, rec models.AuditRecord) (*models.AuditRecord, error)
	ListByItemFunc func(ctx context.Context, itemID string, before int64, limit int) ([]models.AuditRecord, error)
}

func (m *auditRepoMock) Append(ctx context.Context, rec models.AuditRecord) (*models.AuditRecord, error) {
	return m.AppendFunc(ctx, rec)
}

func (m *auditRepoMock) ListByItem(ctx context.Context, itemID string, before int64, limit int) ([]models.AuditRecord, error) {
	return m.ListByItemFunc(ctx, itemID, before, limit)
}

type courseRepoMock struct {
	ListFunc func(ctx context.Context, query string) ([]models.Course, error)
	GetFunc  func(ctx context.Context, idOrSlug string) (*models.Course, error)
}

func (m *courseRepoMock) List(ctx context.Context, query string) ([]models.Course, error) {
	return m.ListFunc(ctx, query)
}

func (m *courseRepoMock) Get(ctx context.Context, idOrSlug string) (*models.Course, error) {
	return m.GetFunc(ctx, idOrSlug)
}

// txRunnerMock runs fn inline, counting calls.
type txRunnerMock struct {
	calls int
}

func (m *txRunnerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}
