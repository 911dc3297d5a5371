package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/queue"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks and fakes ---

type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	if post, ok := args.Get(0).(*models.Post); ok {
		return post, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepo) GetByTenantID(ctx context.Context, tenantID, id int64) (*models.Post, error) {
	args := m.Called(ctx, tenantID, id)
	if post, ok := args.Get(0).(*models.Post); ok {
		return post, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	args := m.Called(ctx, tx, post)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepo) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	args := m.Called(ctx, now)
	if posts, ok := args.Get(0).([]*models.Post); ok {
		return posts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepo) UpdateStatus(ctx context.Context, status string, postID int64) error {
	args := m.Called(ctx, status, postID)
	return args.Error(0)
}

func (m *MockPostRepo) UpdateStatusIf(ctx context.Context, status string, postID int64) (bool, error) {
	args := m.Called(ctx, status, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepo) SetSchedule(ctx context.Context, postID int64, scheduledAt time.Time) error {
	args := m.Called(ctx, postID, scheduledAt)
	return args.Error(0)
}

func (m *MockPostRepo) ClearSchedule(ctx context.Context, postID int64) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

type MockPostDestinationRepo struct {
	mock.Mock
}

func (m *MockPostDestinationRepo) Create(ctx context.Context, tx *sql.Tx, pd *models.PostDestination) error {
	args := m.Called(ctx, tx, pd)
	return args.Error(0)
}

func (m *MockPostDestinationRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostDestination, error) {
	args := m.Called(ctx, postID)
	if destinations, ok := args.Get(0).([]*models.PostDestination); ok {
		return destinations, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostDestinationRepo) ListStatuses(ctx context.Context, postID int64) ([]string, error) {
	args := m.Called(ctx, postID)
	if statuses, ok := args.Get(0).([]string); ok {
		return statuses, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostDestinationRepo) MarkPublishing(ctx context.Context, postID, destinationID int64) error {
	args := m.Called(ctx, postID, destinationID)
	return args.Error(0)
}

func (m *MockPostDestinationRepo) MarkPublished(ctx context.Context, postID, destinationID int64, externalPostID, postURL string) error {
	args := m.Called(ctx, postID, destinationID, externalPostID, postURL)
	return args.Error(0)
}

func (m *MockPostDestinationRepo) MarkFailed(ctx context.Context, postID, destinationID int64, errMsg string) error {
	args := m.Called(ctx, postID, destinationID, errMsg)
	return args.Error(0)
}

type MockCaptionRepo struct {
	mock.Mock
}

func (m *MockCaptionRepo) Create(ctx context.Context, tx *sql.Tx, caption *models.Caption) error {
	args := m.Called(ctx, tx, caption)
	return args.Error(0)
}

func (m *MockCaptionRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.Caption, error) {
	args := m.Called(ctx, postID)
	if captions, ok := args.Get(0).([]*models.Caption); ok {
		return captions, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPostMediaRepo struct {
	mock.Mock
}

func (m *MockPostMediaRepo) Create(ctx context.Context, tx *sql.Tx, pm *models.PostMedia) error {
	args := m.Called(ctx, tx, pm)
	return args.Error(0)
}

func (m *MockPostMediaRepo) ListAssetsByPostID(ctx context.Context, postID int64) ([]*models.MediaAsset, error) {
	args := m.Called(ctx, postID)
	if assets, ok := args.Get(0).([]*models.MediaAsset); ok {
		return assets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostMediaRepo) ListAssetsByIDs(ctx context.Context, ids []int64) ([]*models.MediaAsset, error) {
	args := m.Called(ctx, ids)
	if assets, ok := args.Get(0).([]*models.MediaAsset); ok {
		return assets, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetPrimaryByPostID(ctx context.Context, postID int64) (*models.Product, error) {
	args := m.Called(ctx, postID)
	if product, ok := args.Get(0).(*models.Product); ok {
		return product, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDestinationRepo struct {
	mock.Mock
}

func (m *MockDestinationRepo) GetByID(ctx context.Context, id int64) (*models.Destination, error) {
	args := m.Called(ctx, id)
	if destination, ok := args.Get(0).(*models.Destination); ok {
		return destination, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockIntegrationRepo struct {
	mock.Mock
}

func (m *MockIntegrationRepo) GetByID(ctx context.Context, id int64) (*models.Integration, error) {
	args := m.Called(ctx, id)
	if integration, ok := args.Get(0).(*models.Integration); ok {
		return integration, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIntegrationRepo) ListByExpiryInterval(ctx context.Context, from, to time.Time) ([]*models.Integration, error) {
	args := m.Called(ctx, from, to)
	if integrations, ok := args.Get(0).([]*models.Integration); ok {
		return integrations, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIntegrationRepo) SetTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	args := m.Called(ctx, id, accessToken, refreshToken, expiresAt)
	return args.Error(0)
}

type fakeAuditRepo struct {
	actions []string
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	f.actions = append(f.actions, entry.Action)
	return nil
}

type fakeMediaService struct{}

func (fakeMediaService) ResolveURL(_ context.Context, asset *models.MediaAsset) (string, string, error) {
	return "https://cdn.test/" + asset.FileName, asset.FileType, nil
}

type fakeLinksService struct{}

func (fakeLinksService) NewRef() string {
	return "ref123"
}

func (fakeLinksService) BuildLink(slug, ref string, _ models.Platform) string {
	return fmt.Sprintf("https://shop.test/p/%s?ref=%s", slug, ref)
}

func (fakeLinksService) AppendToCaption(caption, link string, _ models.Platform, include bool) string {
	if !include {
		return caption
	}
	return caption + "\n\n" + link
}

type fakeEnqueuer struct {
	jobs []queue.PublishJobPayload
	err  error
}

func (f *fakeEnqueuer) EnqueuePublishJob(_ context.Context, payload queue.PublishJobPayload) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, payload)
	return nil
}

type publishFixture struct {
	pr    *MockPostRepo
	pd    *MockPostDestinationRepo
	cr    *MockCaptionRepo
	pm    *MockPostMediaRepo
	prod  *MockProductRepo
	dr    *MockDestinationRepo
	ir    *MockIntegrationRepo
	audit *fakeAuditRepo
	jobs  *fakeEnqueuer
	svc   PublishService
}

func newPublishFixture() *publishFixture {
	f := &publishFixture{
		pr:    new(MockPostRepo),
		pd:    new(MockPostDestinationRepo),
		cr:    new(MockCaptionRepo),
		pm:    new(MockPostMediaRepo),
		prod:  new(MockProductRepo),
		dr:    new(MockDestinationRepo),
		ir:    new(MockIntegrationRepo),
		audit: &fakeAuditRepo{},
		jobs:  &fakeEnqueuer{},
	}
	f.svc = NewPublishService(nil, f.pr, f.pd, f.cr, f.pm, f.prod, f.dr, f.ir, f.audit, fakeMediaService{}, fakeLinksService{}, f.jobs)
	return f
}

// --- Tests ---

func TestPublishPostNotFound(t *testing.T) {
	f := newPublishFixture()
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(nil, nil)

	_, err := f.svc.Publish(context.Background(), 1, 42, 5)

	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestPublishRejectsPublishedPost(t *testing.T) {
	f := newPublishFixture()
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(&models.Post{
		ID:       42,
		TenantID: 1,
		Status:   models.PostStatusPublished,
	}, nil)

	_, err := f.svc.Publish(context.Background(), 1, 42, 5)

	var conflict *StateConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "publish", conflict.Op)
	assert.Equal(t, models.PostStatusPublished, conflict.Status)
	f.pr.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishEnqueuesOneJobPerDestination(t *testing.T) {
	f := newPublishFixture()
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(&models.Post{
		ID:       42,
		TenantID: 1,
		Status:   models.PostStatusDraft,
	}, nil)
	f.pr.On("UpdateStatus", mock.Anything, models.PostStatusPublishing, int64(42)).Return(nil)
	f.pd.On("ListByPostID", mock.Anything, int64(42)).Return([]*models.PostDestination{
		{PostID: 42, DestinationID: 7},
		{PostID: 42, DestinationID: 8},
	}, nil)
	f.cr.On("ListByPostID", mock.Anything, int64(42)).Return([]*models.Caption{
		{PostID: 42, Platform: models.PlatformFacebook, Caption: "Summer sale", Hashtags: "#sale", IncludeLink: true},
		{PostID: 42, Platform: models.PlatformTwitter, Caption: "Sale!", IncludeLink: false},
	}, nil)
	f.pm.On("ListAssetsByPostID", mock.Anything, int64(42)).Return([]*models.MediaAsset{
		{ID: 1, FileName: "a.jpg", FileType: "image/jpeg"},
	}, nil)
	f.prod.On("GetPrimaryByPostID", mock.Anything, int64(42)).Return(&models.Product{ID: 3, Slug: "summer-bag"}, nil)
	f.dr.On("GetByID", mock.Anything, int64(7)).Return(&models.Destination{
		ID:            7,
		TenantID:      1,
		IntegrationID: 3,
		Platform:      models.PlatformFacebook,
		ExternalID:    "page1",
		AccessToken:   "page-token",
	}, nil)
	f.dr.On("GetByID", mock.Anything, int64(8)).Return(&models.Destination{
		ID:            8,
		TenantID:      1,
		IntegrationID: 4,
		Platform:      models.PlatformTwitter,
		ExternalID:    "handle",
	}, nil)
	// Destination 8 carries no page token, so the integration token applies.
	f.ir.On("GetByID", mock.Anything, int64(4)).Return(&models.Integration{
		ID:          4,
		AccessToken: "enc:v1:ciphertext",
	}, nil)
	f.pd.On("MarkPublishing", mock.Anything, int64(42), int64(7)).Return(nil)
	f.pd.On("MarkPublishing", mock.Anything, int64(42), int64(8)).Return(nil)

	post, err := f.svc.Publish(context.Background(), 1, 42, 5)

	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublishing, post.Status)
	require.Len(t, f.jobs.jobs, 2)

	facebook := f.jobs.jobs[0]
	assert.Equal(t, int64(42), facebook.PostID)
	assert.Equal(t, int64(7), facebook.DestinationID)
	assert.Equal(t, models.PlatformFacebook, facebook.Platform)
	assert.Equal(t, "Summer sale\n\n#sale\n\nhttps://shop.test/p/summer-bag?ref=ref123", facebook.Caption)
	assert.Equal(t, "page-token", facebook.AccessToken)
	assert.Equal(t, "page1", facebook.PlatformAddress)
	assert.Equal(t, []string{"https://cdn.test/a.jpg"}, facebook.MediaURLs)
	assert.Equal(t, []string{"image/jpeg"}, facebook.MediaMimeTypes)

	twitter := f.jobs.jobs[1]
	assert.Equal(t, int64(8), twitter.DestinationID)
	assert.Equal(t, "Sale!", twitter.Caption) // include_link off, no hashtags
	assert.Equal(t, "enc:v1:ciphertext", twitter.AccessToken)

	assert.Contains(t, f.audit.actions, "post.publish")
	f.pd.AssertExpectations(t)
}

func TestPublishSkipsDestinationWithoutCaption(t *testing.T) {
	f := newPublishFixture()
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(&models.Post{
		ID:       42,
		TenantID: 1,
		Status:   models.PostStatusDraft,
	}, nil)
	f.pr.On("UpdateStatus", mock.Anything, models.PostStatusPublishing, int64(42)).Return(nil)
	f.pd.On("ListByPostID", mock.Anything, int64(42)).Return([]*models.PostDestination{
		{PostID: 42, DestinationID: 7},
	}, nil)
	f.cr.On("ListByPostID", mock.Anything, int64(42)).Return([]*models.Caption{
		{PostID: 42, Platform: models.PlatformTwitter, Caption: "Sale!"},
	}, nil)
	f.pm.On("ListAssetsByPostID", mock.Anything, int64(42)).Return([]*models.MediaAsset{}, nil)
	f.prod.On("GetPrimaryByPostID", mock.Anything, int64(42)).Return(nil, nil)
	f.dr.On("GetByID", mock.Anything, int64(7)).Return(&models.Destination{
		ID:       7,
		Platform: models.PlatformTiktok,
	}, nil)
	// Skipped rows stay draft, which decides no aggregate.
	f.pd.On("ListStatuses", mock.Anything, int64(42)).Return([]string{models.DestinationStatusDraft}, nil)

	post, err := f.svc.Publish(context.Background(), 1, 42, 5)

	require.NoError(t, err)
	assert.Empty(t, f.jobs.jobs)
	assert.Equal(t, models.PostStatusPublishing, post.Status)
	f.pd.AssertNotCalled(t, "MarkPublishing", mock.Anything, mock.Anything, mock.Anything)
	f.pr.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishUsesPerDestinationMediaOverride(t *testing.T) {
	f := newPublishFixture()
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(&models.Post{
		ID:       42,
		TenantID: 1,
		Status:   models.PostStatusScheduled,
	}, nil)
	f.pr.On("UpdateStatus", mock.Anything, models.PostStatusPublishing, int64(42)).Return(nil)
	f.pd.On("ListByPostID", mock.Anything, int64(42)).Return([]*models.PostDestination{
		{PostID: 42, DestinationID: 7, MediaIDs: []int64{2}},
	}, nil)
	f.cr.On("ListByPostID", mock.Anything, int64(42)).Return([]*models.Caption{
		{PostID: 42, Platform: models.PlatformInstagram, Caption: "New drop"},
	}, nil)
	f.pm.On("ListAssetsByPostID", mock.Anything, int64(42)).Return([]*models.MediaAsset{
		{ID: 1, FileName: "a.jpg", FileType: "image/jpeg"},
		{ID: 2, FileName: "b.jpg", FileType: "image/jpeg"},
	}, nil)
	f.pm.On("ListAssetsByIDs", mock.Anything, []int64{2}).Return([]*models.MediaAsset{
		{ID: 2, FileName: "b.jpg", FileType: "image/jpeg"},
	}, nil)
	f.prod.On("GetPrimaryByPostID", mock.Anything, int64(42)).Return(nil, nil)
	f.dr.On("GetByID", mock.Anything, int64(7)).Return(&models.Destination{
		ID:          7,
		Platform:    models.PlatformInstagram,
		ExternalID:  "ig1",
		AccessToken: "ig-token",
	}, nil)
	f.pd.On("MarkPublishing", mock.Anything, int64(42), int64(7)).Return(nil)

	_, err := f.svc.Publish(context.Background(), 1, 42, 5)

	require.NoError(t, err)
	require.Len(t, f.jobs.jobs, 1)
	assert.Equal(t, []string{"https://cdn.test/b.jpg"}, f.jobs.jobs[0].MediaURLs)
	f.pm.AssertCalled(t, "ListAssetsByIDs", mock.Anything, []int64{2})
}

func TestPublishEnqueueFailureMarksDestinationFailed(t *testing.T) {
	f := newPublishFixture()
	f.jobs.err = errors.New("redis connection refused")
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(&models.Post{
		ID:       42,
		TenantID: 1,
		Status:   models.PostStatusFailed,
	}, nil)
	f.pr.On("UpdateStatus", mock.Anything, models.PostStatusPublishing, int64(42)).Return(nil)
	f.pd.On("ListByPostID", mock.Anything, int64(42)).Return([]*models.PostDestination{
		{PostID: 42, DestinationID: 7},
	}, nil)
	f.cr.On("ListByPostID", mock.Anything, int64(42)).Return([]*models.Caption{
		{PostID: 42, Platform: models.PlatformFacebook, Caption: "retry me"},
	}, nil)
	f.pm.On("ListAssetsByPostID", mock.Anything, int64(42)).Return([]*models.MediaAsset{}, nil)
	f.prod.On("GetPrimaryByPostID", mock.Anything, int64(42)).Return(nil, nil)
	f.dr.On("GetByID", mock.Anything, int64(7)).Return(&models.Destination{
		ID:          7,
		Platform:    models.PlatformFacebook,
		ExternalID:  "page1",
		AccessToken: "page-token",
	}, nil)
	f.pd.On("MarkPublishing", mock.Anything, int64(42), int64(7)).Return(nil)
	f.pd.On("MarkFailed", mock.Anything, int64(42), int64(7), mock.MatchedBy(func(msg string) bool {
		return msg == "enqueue failed: redis connection refused"
	})).Return(nil)
	// No job made it out, so no worker will recompute the aggregate; the
	// orchestrator must resolve the post itself.
	f.pd.On("ListStatuses", mock.Anything, int64(42)).Return([]string{models.DestinationStatusFailed}, nil)
	f.pr.On("UpdateStatusIf", mock.Anything, models.PostStatusFailed, int64(42)).Return(true, nil)

	post, err := f.svc.Publish(context.Background(), 1, 42, 5)

	require.NoError(t, err)
	assert.Equal(t, models.PostStatusFailed, post.Status)
	f.pd.AssertExpectations(t)
	f.pr.AssertExpectations(t)
}

func TestPublishTokenFailureForAllDestinationsFailsPost(t *testing.T) {
	f := newPublishFixture()
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(&models.Post{
		ID:       42,
		TenantID: 1,
		Status:   models.PostStatusDraft,
	}, nil)
	f.pr.On("UpdateStatus", mock.Anything, models.PostStatusPublishing, int64(42)).Return(nil)
	f.pd.On("ListByPostID", mock.Anything, int64(42)).Return([]*models.PostDestination{
		{PostID: 42, DestinationID: 7},
	}, nil)
	f.cr.On("ListByPostID", mock.Anything, int64(42)).Return([]*models.Caption{
		{PostID: 42, Platform: models.PlatformFacebook, Caption: "hello"},
	}, nil)
	f.pm.On("ListAssetsByPostID", mock.Anything, int64(42)).Return([]*models.MediaAsset{}, nil)
	f.prod.On("GetPrimaryByPostID", mock.Anything, int64(42)).Return(nil, nil)
	// No page token and the parent integration row is gone.
	f.dr.On("GetByID", mock.Anything, int64(7)).Return(&models.Destination{
		ID:            7,
		IntegrationID: 3,
		Platform:      models.PlatformFacebook,
		ExternalID:    "page1",
	}, nil)
	f.ir.On("GetByID", mock.Anything, int64(3)).Return(nil, nil)
	f.pd.On("MarkFailed", mock.Anything, int64(42), int64(7), mock.MatchedBy(func(msg string) bool {
		return msg == "integration 3 not found for destination 7"
	})).Return(nil)
	f.pd.On("ListStatuses", mock.Anything, int64(42)).Return([]string{models.DestinationStatusFailed}, nil)
	f.pr.On("UpdateStatusIf", mock.Anything, models.PostStatusFailed, int64(42)).Return(true, nil)

	post, err := f.svc.Publish(context.Background(), 1, 42, 5)

	require.NoError(t, err)
	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Empty(t, f.jobs.jobs)
	f.pd.AssertExpectations(t)
}

func TestSchedulePastTime(t *testing.T) {
	f := newPublishFixture()
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(&models.Post{
		ID:       42,
		TenantID: 1,
		Status:   models.PostStatusDraft,
	}, nil)

	_, err := f.svc.Schedule(context.Background(), 1, 42, time.Now().Add(-time.Hour), 5)

	require.ErrorIs(t, err, ErrPastSchedule)
	f.pr.AssertNotCalled(t, "SetSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleSetsStatusAndTime(t *testing.T) {
	f := newPublishFixture()
	at := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(&models.Post{
		ID:       42,
		TenantID: 1,
		Status:   models.PostStatusDraft,
	}, nil)
	f.pr.On("SetSchedule", mock.Anything, int64(42), at).Return(nil)

	post, err := f.svc.Schedule(context.Background(), 1, 42, at, 5)

	require.NoError(t, err)
	assert.Equal(t, models.PostStatusScheduled, post.Status)
	require.NotNil(t, post.ScheduledAt)
	assert.True(t, post.ScheduledAt.Equal(at))
	assert.Contains(t, f.audit.actions, "post.schedule")
}

func TestCancelRequiresScheduledStatus(t *testing.T) {
	f := newPublishFixture()
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(&models.Post{
		ID:       42,
		TenantID: 1,
		Status:   models.PostStatusPublishing,
	}, nil)

	_, err := f.svc.Cancel(context.Background(), 1, 42, 5)

	var conflict *StateConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "cancel", conflict.Op)
}

func TestCancelReturnsPostToDraft(t *testing.T) {
	f := newPublishFixture()
	at := time.Now().Add(time.Hour)
	f.pr.On("GetByTenantID", mock.Anything, int64(1), int64(42)).Return(&models.Post{
		ID:          42,
		TenantID:    1,
		Status:      models.PostStatusScheduled,
		ScheduledAt: &at,
	}, nil)
	f.pr.On("ClearSchedule", mock.Anything, int64(42)).Return(nil)

	post, err := f.svc.Cancel(context.Background(), 1, 42, 5)

	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Nil(t, post.ScheduledAt)
}

func TestCreateRejectsDestinationWithoutMatchingCaption(t *testing.T) {
	f := newPublishFixture()
	f.dr.On("GetByID", mock.Anything, int64(7)).Return(&models.Destination{
		ID:       7,
		TenantID: 1,
		Platform: models.PlatformTiktok,
	}, nil)

	_, err := f.svc.Create(context.Background(), 1, 5, &transfer.PostCreation{
		ClientID: 9,
		Captions: []transfer.CaptionInput{
			{Platform: models.PlatformFacebook, Caption: "hello"},
		},
		Destinations: []transfer.DestinationPick{
			{DestinationID: 7},
		},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tiktok caption")
}

func TestCreateRejectsUnknownCaptionPlatform(t *testing.T) {
	f := newPublishFixture()

	_, err := f.svc.Create(context.Background(), 1, 5, &transfer.PostCreation{
		ClientID: 9,
		Captions: []transfer.CaptionInput{
			{Platform: models.Platform("myspace"), Caption: "hello"},
		},
		Destinations: []transfer.DestinationPick{
			{DestinationID: 7},
		},
	})

	require.Error(t, err)
}

func TestCreateRejectsPastSchedule(t *testing.T) {
	f := newPublishFixture()
	f.dr.On("GetByID", mock.Anything, int64(7)).Return(&models.Destination{
		ID:       7,
		TenantID: 1,
		Platform: models.PlatformFacebook,
	}, nil)

	_, err := f.svc.Create(context.Background(), 1, 5, &transfer.PostCreation{
		ClientID:    9,
		ScheduledAt: time.Now().Add(-time.Hour).Format(time.RFC3339),
		Captions: []transfer.CaptionInput{
			{Platform: models.PlatformFacebook, Caption: "hello"},
		},
		Destinations: []transfer.DestinationPick{
			{DestinationID: 7},
		},
	})

	require.ErrorIs(t, err, ErrPastSchedule)
}

func TestCreateRejectsForeignTenantDestination(t *testing.T) {
	f := newPublishFixture()
	f.dr.On("GetByID", mock.Anything, int64(7)).Return(&models.Destination{
		ID:       7,
		TenantID: 2,
		Platform: models.PlatformFacebook,
	}, nil)

	_, err := f.svc.Create(context.Background(), 1, 5, &transfer.PostCreation{
		ClientID: 9,
		Captions: []transfer.CaptionInput{
			{Platform: models.PlatformFacebook, Caption: "hello"},
		},
		Destinations: []transfer.DestinationPick{
			{DestinationID: 7},
		},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
