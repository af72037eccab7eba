package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/apperr"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/repository"
)

// Versions pagination bounds.
const (
	DefaultVersionsLimit = 50
	MaxVersionsLimit     = 100
)

// GuideListing is a search page plus the facet counts for the same filters.
type GuideListing struct {
	SearchPage
	Facets map[string][]models.Facet `json:"facets"`
}

// GuideService is the guides catalog: listing, detail, taxonomies and the
// audited admin write path.
type GuideService struct {
	guides   repository.GuideRepository
	audit    repository.AuditRepository
	tx       repository.TxRunner
	searcher *Searcher
	logger   *zap.Logger
}

func NewGuideService(
	guides repository.GuideRepository,
	search repository.GuideSearcher,
	audit repository.AuditRepository,
	tx repository.TxRunner,
	logger *zap.Logger,
) *GuideService {
	return &GuideService{
		guides:   guides,
		audit:    audit,
		tx:       tx,
		searcher: NewSearcher(search),
		logger:   logger,
	}
}

// List runs the page query and the facet base query concurrently. The two
// reads are not in one snapshot; a write landing between them can make the
// counts briefly disagree with the page.
//
// Unless includeUnpublished is set, the status selection is forced to
// Approved.
func (s *GuideService) List(ctx context.Context, fs FilterSet, includeUnpublished bool) (*GuideListing, error) {
	if !includeUnpublished {
		fs = fs.With(FacetStatus, models.GuideStatusApproved)
	}
	status := firstOr(fs.Values(FacetStatus), "")

	var (
		page SearchPage
		rows []models.GuideFacetRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.searcher.Search(gctx, fs)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.guides.FacetRows(gctx, fs.Query, status)
		if err != nil {
			return fmt.Errorf("facet rows: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apperr.New(apperr.KindUpstream, "failed to list guides", err)
	}

	return &GuideListing{
		SearchPage: page,
		Facets:     GuideFacets(rows, fs),
	}, nil
}

// Get returns a guide by id or slug. Drafts and archived guides are only
// visible when includeUnpublished is set.
func (s *GuideService) Get(ctx context.Context, idOrSlug string, withBody, includeUnpublished bool) (*models.Guide, error) {
	guide, err := s.guides.Get(ctx, idOrSlug, withBody)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.New(apperr.KindNotFound, "Not Found", err)
		}
		return nil, apperr.New(apperr.KindUpstream, "failed to get guide", err)
	}

	if !includeUnpublished && guide.Status != models.GuideStatusApproved {
		return nil, apperr.New(apperr.KindNotFound, "Not Found", apperr.ErrNotFound)
	}

	return guide, nil
}

func (s *GuideService) Taxonomies(ctx context.Context) (*models.Taxonomies, error) {
	t, err := s.guides.Taxonomies(ctx)
	if err != nil {
		return nil, apperr.New(apperr.KindUpstream, "failed to load taxonomies", err)
	}
	return t, nil
}

// Create inserts a guide and its first audit record in one transaction.
func (s *GuideService) Create(ctx context.Context, actorID string, in models.GuideInput) (string, error) {
	in, err := validateGuide(in)
	if err != nil {
		return "", err
	}

	var id string
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		id, err = s.guides.Create(ctx, in)
		if err != nil {
			return err
		}
		changes, summary := DiffGuide(nil, in)
		return s.appendAudit(ctx, id, models.AuditActionCreate, summary, changes, actorID)
	})
	if err != nil {
		return "", s.writeError(err, "failed to create guide")
	}

	s.logger.Info("guide created", zap.String("id", id), zap.String("actor", actorID))
	return id, nil
}

// Update applies in to the guide and records the diff against the stored
// row in the same transaction.
func (s *GuideService) Update(ctx context.Context, actorID, id string, in models.GuideInput) error {
	in, err := validateGuide(in)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.guides.Get(ctx, id, true)
		if err != nil {
			return err
		}
		if err := s.guides.Update(ctx, before.ID, in); err != nil {
			return err
		}
		changes, summary := DiffGuide(before, in)
		return s.appendAudit(ctx, before.ID, models.AuditActionUpdate, summary, changes, actorID)
	})
	if err != nil {
		return s.writeError(err, "failed to update guide")
	}

	s.logger.Info("guide updated", zap.String("id", id), zap.String("actor", actorID))
	return nil
}

// Delete removes the guide. Its audit trail is kept.
func (s *GuideService) Delete(ctx context.Context, actorID, id string) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.guides.Get(ctx, id, false)
		if err != nil {
			return err
		}
		if err := s.guides.Delete(ctx, before.ID); err != nil {
			return err
		}
		changes := map[string]any{"title": Change{From: before.Title, To: nil}}
		return s.appendAudit(ctx, before.ID, models.AuditActionDelete, "deleted", changes, actorID)
	})
	if err != nil {
		return s.writeError(err, "failed to delete guide")
	}

	s.logger.Info("guide deleted", zap.String("id", id), zap.String("actor", actorID))
	return nil
}

// Versions returns the audit trail of an item, newest first.
func (s *GuideService) Versions(ctx context.Context, itemID string, before int64, limit int) ([]models.AuditRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultVersionsLimit
	case limit > MaxVersionsLimit:
		limit = MaxVersionsLimit
	}

	records, err := s.audit.ListByItem(ctx, itemID, before, limit)
	if err != nil {
		return nil, apperr.New(apperr.KindUpstream, "failed to list versions", err)
	}
	return records, nil
}

func (s *GuideService) appendAudit(ctx context.Context, itemID, action, summary string, changes map[string]any, actorID string) error {
	_, err := s.audit.Append(ctx, models.AuditRecord{
		ItemID:  itemID,
		Action:  action,
		Summary: summary,
		Changes: changes,
		ActorID: actorID,
	})
	if err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

// writeError classifies a failed admin write.
func (s *GuideService) writeError(err error, fallback string) error {
	switch kind := apperr.KindOf(err); kind {
	case apperr.KindNotFound:
		return apperr.New(kind, "Not Found", err)
	case apperr.KindDuplicate:
		return apperr.New(kind, "slug already in use", err)
	case apperr.KindValidation:
		return apperr.New(kind, "invalid guide", err)
	default:
		s.logger.Error(fallback, zap.Error(err))
		return apperr.New(apperr.KindUpstream, fallback, err)
	}
}

var guideStatuses = []string{
	models.GuideStatusDraft,
	models.GuideStatusApproved,
	models.GuideStatusArchived,
}

// validateGuide trims and defaults the input. Blank optional text becomes
// NULL so an empty slug never collides with another empty slug.
func validateGuide(in models.GuideInput) (models.GuideInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, apperr.New(apperr.KindValidation, "title is required", apperr.ErrValidation)
	}

	in.Summary = strings.TrimSpace(in.Summary)
	in.Slug = blankToNil(in.Slug)
	in.Domain = blankToNil(in.Domain)
	in.GuideType = blankToNil(in.GuideType)
	in.FunctionArea = blankToNil(in.FunctionArea)

	if in.Status == "" {
		in.Status = models.GuideStatusDraft
	}
	for _, s := range guideStatuses {
		if strings.EqualFold(s, in.Status) {
			in.Status = s
			return in, nil
		}
	}
	return in, apperr.New(apperr.KindValidation, "status must be Draft, Approved or Archived", apperr.ErrValidation)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
