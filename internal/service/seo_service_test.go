package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/domain/seo"
	"github.com/seolytics/seo-api/internal/ierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSEORepo struct {
	domains map[int64]*seo.Domain

	createdKeywords []*seo.Keyword
	nextID          int64
}

func newFakeSEORepo() *fakeSEORepo {
	return &fakeSEORepo{domains: make(map[int64]*seo.Domain), nextID: 100}
}

func (f *fakeSEORepo) CreateDomain(ctx context.Context, d *seo.Domain) (int64, error) {
	f.nextID++
	d.ID = f.nextID
	f.domains[d.ID] = d
	return d.ID, nil
}

func (f *fakeSEORepo) FindDomain(ctx context.Context, id int64) (*seo.Domain, error) {
	d, ok := f.domains[id]
	if !ok {
		return nil, ierr.ErrDomainNotFound
	}
	return d, nil
}

func (f *fakeSEORepo) ListDomains(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*seo.Domain, error) {
	var out []*seo.Domain
	for _, d := range f.domains {
		if d.ClientID == clientID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeSEORepo) UpdateDomain(ctx context.Context, d *seo.Domain) error {
	if _, ok := f.domains[d.ID]; !ok {
		return ierr.ErrDomainNotFound
	}
	f.domains[d.ID] = d
	return nil
}

func (f *fakeSEORepo) DeleteDomain(ctx context.Context, id int64) error {
	delete(f.domains, id)
	return nil
}

func (f *fakeSEORepo) CreateKeyword(ctx context.Context, k *seo.Keyword) (int64, error) {
	f.nextID++
	k.ID = f.nextID
	f.createdKeywords = append(f.createdKeywords, k)
	return k.ID, nil
}

func (f *fakeSEORepo) ListKeywords(ctx context.Context, domainID int64, limit, offset int) ([]*seo.Keyword, error) {
	return nil, nil
}

func (f *fakeSEORepo) CreateRanking(ctx context.Context, r *seo.Ranking) (int64, error) {
	f.nextID++
	return f.nextID, nil
}

func (f *fakeSEORepo) ListRankings(ctx context.Context, domainID int64, limit, offset int) ([]*seo.Ranking, error) {
	return nil, nil
}

func (f *fakeSEORepo) CreateBacklink(ctx context.Context, b *seo.Backlink) (int64, error) {
	f.nextID++
	return f.nextID, nil
}

func (f *fakeSEORepo) ListBacklinks(ctx context.Context, domainID int64, limit, offset int) ([]*seo.Backlink, error) {
	return nil, nil
}

func seoFixture(t *testing.T) (*SEOService, *fakeSEORepo, *apikey.APIKey) {
	t.Helper()
	repo := newFakeSEORepo()
	svc := NewSEOService(repo, zap.NewNop())
	key := &apikey.APIKey{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Status:   apikey.StatusActive,
		Scopes:   []apikey.Scope{apikey.ScopeKeywordsWrite},
	}
	return svc, repo, key
}

func addDomain(repo *fakeSEORepo, id int64, clientID uuid.UUID) *seo.Domain {
	d := &seo.Domain{ID: id, ClientID: clientID, URL: "https://example.com", Name: "example", IsActive: true}
	repo.domains[id] = d
	return d
}

func TestSEOService_DomainRestrictionList(t *testing.T) {
	svc, repo, key := seoFixture(t)
	key.AllowedDomainIDs = []int64{5}
	addDomain(repo, 5, key.ClientID)
	addDomain(repo, 7, key.ClientID)

	_, err := svc.GetDomain(context.Background(), key, 5)
	require.NoError(t, err)

	_, err = svc.GetDomain(context.Background(), key, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrDomainAccessDenied))
}

func TestSEOService_EmptyRestrictionListAllowsAll(t *testing.T) {
	svc, repo, key := seoFixture(t)
	addDomain(repo, 5, key.ClientID)
	addDomain(repo, 7, key.ClientID)

	_, err := svc.GetDomain(context.Background(), key, 5)
	require.NoError(t, err)
	_, err = svc.GetDomain(context.Background(), key, 7)
	require.NoError(t, err)
}

func TestSEOService_CrossTenantLooksLikeNotFound(t *testing.T) {
	svc, repo, key := seoFixture(t)
	addDomain(repo, 9, uuid.New())

	_, err := svc.GetDomain(context.Background(), key, 9)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrDomainNotFound))
	assert.False(t, errors.Is(err, ierr.ErrDomainAccessDenied))
}

func TestSEOService_MissingDomain(t *testing.T) {
	svc, _, key := seoFixture(t)

	_, err := svc.GetDomain(context.Background(), key, 404)

	assert.True(t, errors.Is(err, ierr.ErrDomainNotFound))
}

func TestSEOService_UpdateDomainPartial(t *testing.T) {
	svc, repo, key := seoFixture(t)
	d := addDomain(repo, 5, key.ClientID)
	d.IsActive = false

	name := "renamed"
	updated, err := svc.UpdateDomain(context.Background(), key, 5, seo.DomainUpdate{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "https://example.com", updated.URL)
	assert.False(t, updated.IsActive, "omitted fields stay untouched")
}

func TestSEOService_CreateKeywordDefaultsSource(t *testing.T) {
	svc, repo, key := seoFixture(t)
	addDomain(repo, 5, key.ClientID)

	id, err := svc.CreateKeyword(context.Background(), key, &seo.Keyword{
		DomainID: 5,
		Keyword:  "best seo tools",
	})

	require.NoError(t, err)
	assert.NotZero(t, id)
	require.Len(t, repo.createdKeywords, 1)
	assert.Equal(t, "manual", repo.createdKeywords[0].Source)
}

func TestSEOService_CreateKeywordDeniedDomain(t *testing.T) {
	svc, repo, key := seoFixture(t)
	key.AllowedDomainIDs = []int64{5}
	addDomain(repo, 7, key.ClientID)

	_, err := svc.CreateKeyword(context.Background(), key, &seo.Keyword{
		DomainID: 7,
		Keyword:  "best seo tools",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrDomainAccessDenied))
	assert.Empty(t, repo.createdKeywords)
}

func TestSEOService_CreateDomainStampsOwner(t *testing.T) {
	svc, repo, _ := seoFixture(t)
	clientID := uuid.New()

	created, err := svc.CreateDomain(context.Background(), clientID, &seo.Domain{
		URL:  "https://newsite.example",
		Name: "newsite",
	})

	require.NoError(t, err)
	assert.Equal(t, clientID, created.ClientID)
	assert.True(t, created.IsActive)
	assert.NotZero(t, created.ID)
	assert.Len(t, repo.domains, 1)
}
