package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

// Every method takes ctx first: a cancelled request cancels its query, and
// the tracing span started by otelgin travels with it.
//
// Lookups that find nothing return an error wrapping apperr.ErrNotFound.
// Write failures wrap apperr.ErrDuplicate / apperr.ErrForeignKey /
// apperr.ErrValidation when the datastore reports a constraint violation.
// Nothing above this package ever looks at a SQLSTATE.

// TxRunner runs fn inside one datastore transaction. Stores called with the
// ctx passed to fn join that transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// GuideRepository is table-scoped CRUD over the guides catalog.
type GuideRepository interface {
	// Get looks a guide up by id or slug. Body is only selected when
	// withBody is set.
	Get(ctx context.Context, idOrSlug string, withBody bool) (*models.Guide, error)

	// FacetRows returns the facet projection of every guide matching the
	// free-text term and status. An empty status means any status.
	FacetRows(ctx context.Context, query string, status string) ([]models.GuideFacetRow, error)

	// Taxonomies returns the distinct, sorted values of each facet column.
	Taxonomies(ctx context.Context) (*models.Taxonomies, error)

	Create(ctx context.Context, in models.GuideInput) (string, error)
	Update(ctx context.Context, id string, in models.GuideInput) error
	Delete(ctx context.Context, id string) error
}

// GuideSearcher calls the external search_guides procedure. Ranking,
// tie-breaking and cursor encoding all belong to the procedure.
type GuideSearcher interface {
	SearchGuides(ctx context.Context, args models.GuideSearchArgs) ([]models.GuideSearchRow, error)
}

// CourseRepository reads the LMS course table.
type CourseRepository interface {
	// List returns every course whose title, category or owner
	// matches query (case-insensitive). Empty query returns all courses.
	List(ctx context.Context, query string) ([]models.Course, error)

	Get(ctx context.Context, idOrSlug string) (*models.Course, error)
}

// AuditRepository is the append-only version trail of catalog items.
type AuditRepository interface {
	Append(ctx context.Context, rec models.AuditRecord) (*models.AuditRecord, error)

	// ListByItem returns records newest first. before=0 starts from the
	// latest record; otherwise only records with id < before are returned.
	ListByItem(ctx context.Context, itemID string, before int64, limit int) ([]models.AuditRecord, error)
}

// CommunityRepository defines the contract for community data operations.
type CommunityRepository interface {
	Create(ctx context.Context, name, description string) (*models.Community, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error)

	// List returns all communities, newest first.
	// Returns empty slice (not nil) so JSON serializes to [] not null.
	List(ctx context.Context) ([]models.Community, error)

	// ListByMember returns the communities userID belongs to.
	ListByMember(ctx context.Context, userID string) ([]models.Community, error)

	// RefreshMemberCount recomputes the materialized member_count from the
	// membership rows and returns the new value.
	RefreshMemberCount(ctx context.Context, id uuid.UUID) (int, error)
}

// MembershipRepository handles who belongs to which community.
type MembershipRepository interface {
	// IsMember reports whether the (community, user) row exists.
	IsMember(ctx context.Context, communityID uuid.UUID, userID string) (bool, error)

	// AddMember inserts the row. A concurrent duplicate surfaces as
	// apperr.ErrDuplicate; an unknown community as apperr.ErrForeignKey.
	AddMember(ctx context.Context, communityID uuid.UUID, userID string) error

	// RemoveMember deletes the row matched by the exact pair. No-op if absent.
	RemoveMember(ctx context.Context, communityID uuid.UUID, userID string) error

	ListMembers(ctx context.Context, communityID uuid.UUID) ([]models.Membership, error)
}
