package models

import (
	"time"

	"github.com/google/uuid"
)

// Guide statuses. Only Approved guides are visible on public listings.
const (
	GuideStatusDraft    = "Draft"
	GuideStatusApproved = "Approved"
	GuideStatusArchived = "Archived"
)

// Guide is a knowledge-centre item (the CatalogItem of the guides catalog).
//
// ID is opaque text so it can be compared against a slug in the same
// lookup. Slug is optional but unique when present.
//
// Body is only loaded when the caller asks for it (?include=body); list
// queries never select it, which keeps page payloads small.
type Guide struct {
	ID            string    `json:"id" db:"id"`
	Slug          *string   `json:"slug" db:"slug"`
	Title         string    `json:"title" db:"title"`
	Summary       string    `json:"summary" db:"summary"`
	Body          *string   `json:"body,omitempty" db:"body"`
	Domain        *string   `json:"domain" db:"domain"`
	GuideType     *string   `json:"guideType" db:"guide_type"`
	FunctionArea  *string   `json:"functionArea" db:"function_area"`
	Status        string    `json:"status" db:"status"`
	DownloadCount int64     `json:"downloadCount" db:"download_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// GuideInput is the writable subset of a Guide used by the admin write path.
type GuideInput struct {
	Slug         *string `json:"slug"`
	Title        string  `json:"title"`
	Summary      string  `json:"summary"`
	Body         *string `json:"body"`
	Domain       *string `json:"domain"`
	GuideType    *string `json:"guideType"`
	FunctionArea *string `json:"functionArea"`
	Status       string  `json:"status"`
}

// GuideFacetRow is the narrow projection the facet base query returns.
type GuideFacetRow struct {
	ID           string  `db:"id"`
	Domain       *string `db:"domain"`
	GuideType    *string `db:"guide_type"`
	FunctionArea *string `db:"function_area"`
}

// GuideSearchRow is one row of the search_guides procedure. HasMore and
// Cursor are only populated on the last row of a page.
type GuideSearchRow struct {
	Guide
	HasMore *bool   `db:"has_more"`
	Cursor  *string `db:"cursor"`
}

// GuideSearchArgs are the bound parameters of the search_guides procedure.
type GuideSearchArgs struct {
	Query     string
	Domains   []string
	Types     []string
	Functions []string
	Status    string
	Sort      string
	Limit     int
	After     *string
}

// Taxonomies lists the distinct values of every guide facet dimension.
type Taxonomies struct {
	Domains       []string `json:"domains"`
	GuideTypes    []string `json:"guideTypes"`
	FunctionAreas []string `json:"functionAreas"`
	Statuses      []string `json:"statuses"`
}

// Course is an LMS catalog entry.
//
// Level holds the canonical code (L1..L8) after normalization; LevelLabel
// keeps whatever free text the row was authored with. Locations, Audience
// and Department are sets; an empty Locations means the course is offered
// everywhere (Global).
type Course struct {
	ID         string    `json:"id" db:"id"`
	Slug       *string   `json:"slug" db:"slug"`
	Title      string    `json:"title" db:"title"`
	Category   string    `json:"category" db:"category"`
	Delivery   string    `json:"delivery" db:"delivery"`
	Duration   string    `json:"duration" db:"duration"`
	Level      string    `json:"level" db:"-"`
	LevelLabel string    `json:"levelLabel" db:"level_label"`
	Locations  []string  `json:"locations" db:"locations"`
	Audience   []string  `json:"audience" db:"audience"`
	Department []string  `json:"department" db:"department"`
	Owner      string    `json:"owner" db:"owner"`
	Status     string    `json:"status" db:"status"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Facet is one selectable refinement value and the number of items it
// would yield. Count is always >= 1.
type Facet struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Audit actions.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditRecord is one entry in a catalog item's version history.
//
// There is no foreign key to the item: the trail outlives the item when it
// is deleted. ID is a bigserial so it doubles as a pagination cursor.
type AuditRecord struct {
	ID        int64          `json:"id"`
	ItemID    string         `json:"itemId"`
	Action    string         `json:"action"`
	Summary   string         `json:"summary"`
	Changes   map[string]any `json:"changes"`
	ActorID   string         `json:"actorId"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Community is a social space users can join.
//
// MemberCount is materialized for display only. The community_members
// rows are authoritative.
type Community struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Membership is the join row between a user and a community. At most one
// row exists per (community_id, user_id); presence of the row is the
// membership state.
//
// UserID is the identity provider's opaque subject, not a local key.
type Membership struct {
	CommunityID uuid.UUID `json:"communityId"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}
