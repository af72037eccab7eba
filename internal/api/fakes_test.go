package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/catalog"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/events"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

type guideCatalogMock struct {
	ListFunc       func(ctx context.Context, fs catalog.FilterSet, includeUnpublished bool) (*catalog.GuideListing, error)
	GetFunc        func(ctx context.Context, idOrSlug string, withBody, includeUnpublished bool) (*models.Guide, error)
	TaxonomiesFunc func(ctx context.Context) (*models.Taxonomies, error)
	CreateFunc     func(ctx context.Context, actorID string, in models.GuideInput) (string, error)
	UpdateFunc     func(ctx context.Context, actorID, id string, in models.GuideInput) error
	DeleteFunc     func(ctx context.Context, actorID, id string) error
	VersionsFunc   func(ctx context.Context, itemID string, before int64, limit int) ([]models.AuditRecord, error)
}

func (m *guideCatalogMock) List(ctx context.Context, fs catalog.FilterSet, includeUnpublished bool) (*catalog.GuideListing, error) {
	return m.ListFunc(ctx, fs, includeUnpublished)
}

func (m *guideCatalogMock) Get(ctx context.Context, idOrSlug string, withBody, includeUnpublished bool) (*models.Guide, error) {
	return m.GetFunc(ctx, idOrSlug, withBody, includeUnpublished)
}

func (m *guideCatalogMock) Taxonomies(ctx context.Context) (*models.Taxonomies, error) {
	return m.TaxonomiesFunc(ctx)
}

func (m *guideCatalogMock) Create(ctx context.Context, actorID string, in models.GuideInput) (string, error) {
	return m.CreateFunc(ctx, actorID, in)
}

func (m *guideCatalogMock) Update(ctx context.Context, actorID, id string, in models.GuideInput) error {
	return m.UpdateFunc(ctx, actorID, id, in)
}

func (m *guideCatalogMock) Delete(ctx context.Context, actorID, id string) error {
	return m.DeleteFunc(ctx, actorID, id)
}

func (m *guideCatalogMock) Versions(ctx context.Context, itemID string, before int64, limit int) ([]models.AuditRecord, error) {
	return m.VersionsFunc(ctx, itemID, before, limit)
}

type courseCatalogMock struct {
	ListFunc func(ctx context.Context, fs catalog.FilterSet) (*catalog.CourseListing, error)
	GetFunc  func(ctx context.Context, idOrSlug string) (*models.Course, error)
}

func (m *courseCatalogMock) List(ctx context.Context, fs catalog.FilterSet) (*catalog.CourseListing, error) {
	return m.ListFunc(ctx, fs)
}

func (m *courseCatalogMock) Get(ctx context.Context, idOrSlug string) (*models.Course, error) {
	return m.GetFunc(ctx, idOrSlug)
}

type communityRepoMock struct {
	CreateFunc             func(ctx context.Context, name, description string) (*models.Community, error)
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*models.Community, error)
	ListFunc               func(ctx context.Context) ([]models.Community, error)
	ListByMemberFunc       func(ctx context.Context, userID string) ([]models.Community, error)
	RefreshMemberCountFunc func(ctx context.Context, id uuid.UUID) (int, error)
}

func (m *communityRepoMock) Create(ctx context.Context, name, description string) (*models.Community, error) {
	return m.CreateFunc(ctx, name, description)
}

func (m *communityRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *communityRepoMock) List(ctx context.Context) ([]models.Community, error) {
	return m.ListFunc(ctx)
}

func (m *communityRepoMock) ListByMember(ctx context.Context, userID string) ([]models.Community, error) {
	return m.ListByMemberFunc(ctx, userID)
}

func (m *communityRepoMock) RefreshMemberCount(ctx context.Context, id uuid.UUID) (int, error) {
	return m.RefreshMemberCountFunc(ctx, id)
}

type membershipRepoMock struct {
	IsMemberFunc     func(ctx context.Context, communityID uuid.UUID, userID string) (bool, error)
	AddMemberFunc    func(ctx context.Context, communityID uuid.UUID, userID string) error
	RemoveMemberFunc func(ctx context.Context, communityID uuid.UUID, userID string) error
	ListMembersFunc  func(ctx context.Context, communityID uuid.UUID) ([]models.Membership, error)
}

func (m *membershipRepoMock) IsMember(ctx context.Context, communityID uuid.UUID, userID string) (bool, error) {
	return m.IsMemberFunc(ctx, communityID, userID)
}

func (m *membershipRepoMock) AddMember(ctx context.Context, communityID uuid.UUID, userID string) error {
	return m.AddMemberFunc(ctx, communityID, userID)
}

func (m *membershipRepoMock) RemoveMember(ctx context.Context, communityID uuid.UUID, userID string) error {
	return m.RemoveMemberFunc(ctx, communityID, userID)
}

func (m *membershipRepoMock) ListMembers(ctx context.Context, communityID uuid.UUID) ([]models.Membership, error) {
	return m.ListMembersFunc(ctx, communityID)
}

type pingerMock struct {
	err error
}

func (m *pingerMock) Health(context.Context) error { return m.err }

// publisherMock records published events.
type publisherMock struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (m *publisherMock) Publish(_ context.Context, ev events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return m.err
}

func (m *publisherMock) Close() error { return nil }

func (m *publisherMock) published() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Event(nil), m.events...)
}

// memCache is an in-process ResponseCache with the same generation keys
// as the Redis one.
type memCache struct {
	mu          sync.Mutex
	gen         int
	entries     map[string][]byte
	invalidated int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (m *memCache) Get(_ context.Context, name string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%d:%s", m.gen, name)
	b, ok := m.entries[key]
	return b, key, ok
}

func (m *memCache) Set(_ context.Context, key string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = body
}

func (m *memCache) put(name string, body []byte) {
	_, key, _ := m.Get(context.Background(), name)
	m.Set(context.Background(), key, body)
}

func (m *memCache) has(name string) bool {
	_, _, ok := m.Get(context.Background(), name)
	return ok
}

func (m *memCache) Invalidate(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.invalidated++
}
