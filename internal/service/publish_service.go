package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/queue"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/repository"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/transfer"
	"github.com/google/uuid"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrPastSchedule = errors.New("scheduled time must be in the future")
)

// StateConflictError names the status that blocked an operation so the
// caller sees exactly which transition was rejected.
type StateConflictError struct {
	Op     string
	Status string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s post in status %q", e.Op, e.Status)
}

type PublishService interface {
	Create(ctx context.Context, tenantID, actorID int64, pc *transfer.PostCreation) (int64, error)
	Publish(ctx context.Context, tenantID, postID, actorID int64) (*models.Post, error)
	Schedule(ctx context.Context, tenantID, postID int64, scheduledAt time.Time, actorID int64) (*models.Post, error)
	Cancel(ctx context.Context, tenantID, postID, actorID int64) (*models.Post, error)
}

type publishService struct {
	db    *sql.DB
	pr    repository.PostRepository
	pd    repository.PostDestinationRepository
	cr    repository.CaptionRepository
	pm    repository.PostMediaRepository
	prod  repository.ProductRepository
	dr    repository.DestinationRepository
	ir    repository.IntegrationRepository
	al    repository.AuditLogRepository
	media MediaService
	links LinksService
	jobs  queue.Enqueuer
}

func NewPublishService(
	db *sql.DB,
	pr repository.PostRepository,
	pd repository.PostDestinationRepository,
	cr repository.CaptionRepository,
	pm repository.PostMediaRepository,
	prod repository.ProductRepository,
	dr repository.DestinationRepository,
	ir repository.IntegrationRepository,
	al repository.AuditLogRepository,
	media MediaService,
	links LinksService,
	jobs queue.Enqueuer) PublishService {
	return &publishService{
		db:    db,
		pr:    pr,
		pd:    pd,
		cr:    cr,
		pm:    pm,
		prod:  prod,
		dr:    dr,
		ir:    ir,
		al:    al,
		media: media,
		links: links,
		jobs:  jobs,
	}
}

// resolvedMedia is one publishable media reference after URL resolution.
type resolvedMedia struct {
	url      string
	mimeType string
}

func (s *publishService) Create(ctx context.Context, tenantID, actorID int64, pc *transfer.PostCreation) (int64, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return 0, err
	}
	if len(pc.Destinations) == 0 {
		err := errors.New("no destinations selected")
		slog.Info(err.Error())
		return 0, err
	}
	if len(pc.Captions) == 0 {
		err := errors.New("at least one caption is required")
		slog.Info(err.Error())
		return 0, err
	}

	captionPlatforms := make(map[models.Platform]struct{}, len(pc.Captions))
	for _, caption := range pc.Captions {
		if _, err := models.ParsePlatform(string(caption.Platform)); err != nil {
			slog.Info(err.Error())
			return 0, err
		}
		captionPlatforms[caption.Platform] = struct{}{}
	}

	// A destination whose platform has no caption would be silently skipped
	// at publish time; reject it here instead.
	for _, dest := range pc.Destinations {
		destination, err := s.dr.GetByID(ctx, dest.DestinationID)
		if err != nil {
			return 0, err
		}
		if destination == nil || destination.TenantID != tenantID {
			return 0, fmt.Errorf("destination %d does not exist", dest.DestinationID)
		}
		if _, ok := captionPlatforms[destination.Platform]; !ok {
			return 0, fmt.Errorf("destination %d targets %s but the post has no %s caption", dest.DestinationID, destination.Platform, destination.Platform)
		}
	}

	status := models.PostStatusDraft
	var scheduledAt *time.Time
	if pc.ScheduledAt != "" {
		parsed, err := time.Parse(time.RFC3339, pc.ScheduledAt)
		if err != nil {
			err = fmt.Errorf("invalid scheduled time format: %w", err)
			slog.Error(err.Error())
			return 0, err
		}
		if !parsed.After(time.Now()) {
			return 0, ErrPastSchedule
		}
		status = models.PostStatusScheduled
		scheduledAt = &parsed
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	post := models.Post{
		TenantID:    tenantID,
		ClientID:    pc.ClientID,
		Status:      status,
		ScheduledAt: scheduledAt,
	}

	postID, err := s.pr.Create(ctx, tx, &post)
	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	for _, caption := range pc.Captions {
		c := models.Caption{
			PostID:      postID,
			Platform:    caption.Platform,
			Caption:     caption.Caption,
			Hashtags:    caption.Hashtags,
			IncludeLink: caption.IncludeLink,
		}
		if err = s.cr.Create(ctx, tx, &c); err != nil {
			return 0, fmt.Errorf("error saving caption: %w", err)
		}
	}

	for i, assetID := range pc.MediaAssetIDs {
		pm := models.PostMedia{
			PostID:       postID,
			AssetID:      assetID,
			DisplayOrder: i,
		}
		if err = s.pm.Create(ctx, tx, &pm); err != nil {
			return 0, fmt.Errorf("error saving media reference: %w", err)
		}
	}

	for _, dest := range pc.Destinations {
		pd := models.PostDestination{
			PostID:        postID,
			DestinationID: dest.DestinationID,
			MediaIDs:      dest.MediaIDs,
		}
		if err = s.pd.Create(ctx, tx, &pd); err != nil {
			return 0, fmt.Errorf("error saving destination %d: %w", dest.DestinationID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.audit(ctx, tenantID, actorID, "post.create", map[string]any{"post_id": postID})

	return postID, nil
}

// Publish validates the post, moves it to publishing and enqueues one job
// per destination. It returns as soon as the jobs are queued; delivery
// outcome lands on the destination rows asynchronously.
func (s *publishService) Publish(ctx context.Context, tenantID, postID, actorID int64) (*models.Post, error) {
	post, err := s.pr.GetByTenantID(ctx, tenantID, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	switch post.Status {
	case models.PostStatusDraft, models.PostStatusScheduled, models.PostStatusFailed, models.PostStatusPublishing:
	default:
		return nil, &StateConflictError{Op: "publish", Status: post.Status}
	}

	// Optimistic: concurrent publish calls and the scheduled sweep converge
	// on the same in-flight state before any external work starts.
	if err := s.pr.UpdateStatus(ctx, models.PostStatusPublishing, postID); err != nil {
		return nil, err
	}
	post.Status = models.PostStatusPublishing

	destinations, err := s.pd.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	captions, err := s.cr.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	captionsByPlatform := make(map[models.Platform]*models.Caption, len(captions))
	for _, caption := range captions {
		captionsByPlatform[caption.Platform] = caption
	}

	sharedMedia, err := s.resolvePostMedia(ctx, postID)
	if err != nil {
		return nil, err
	}

	// One primary product and one tracking ref per post, shared by every
	// destination.
	primary, err := s.prod.GetPrimaryByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	linkRef := ""
	if primary != nil {
		linkRef = s.links.NewRef()
	}

	enqueued := 0
	for _, dest := range destinations {
		destination, err := s.dr.GetByID(ctx, dest.DestinationID)
		if err != nil || destination == nil {
			if err != nil {
				slog.Info(err.Error())
			}
			slog.Info(fmt.Sprintf("destination %d missing for post %d, skipping", dest.DestinationID, postID))
			continue
		}

		caption, ok := captionsByPlatform[destination.Platform]
		if !ok {
			// Guarded against at creation time; tolerate here rather than
			// failing the whole post.
			slog.Info(fmt.Sprintf("post %d has no %s caption, skipping destination %d", postID, destination.Platform, dest.DestinationID))
			continue
		}

		media := sharedMedia
		if len(dest.MediaIDs) > 0 {
			media, err = s.resolveMediaByIDs(ctx, dest.MediaIDs)
			if err != nil {
				if uerr := s.pd.MarkFailed(ctx, postID, dest.DestinationID, err.Error()); uerr != nil {
					slog.Info(uerr.Error())
				}
				continue
			}
		}

		accessToken, err := s.resolveAccessToken(ctx, destination)
		if err != nil {
			if uerr := s.pd.MarkFailed(ctx, postID, dest.DestinationID, err.Error()); uerr != nil {
				slog.Info(uerr.Error())
			}
			continue
		}

		finalCaption := caption.Caption
		if caption.Hashtags != "" {
			finalCaption = finalCaption + "\n\n" + caption.Hashtags
		}
		if primary != nil {
			link := s.links.BuildLink(primary.Slug, linkRef, destination.Platform)
			finalCaption = s.links.AppendToCaption(finalCaption, link, destination.Platform, caption.IncludeLink)
		}

		mediaURLs := make([]string, 0, len(media))
		mimeTypes := make([]string, 0, len(media))
		for _, m := range media {
			mediaURLs = append(mediaURLs, m.url)
			mimeTypes = append(mimeTypes, m.mimeType)
		}

		if err := s.pd.MarkPublishing(ctx, postID, dest.DestinationID); err != nil {
			slog.Info(err.Error())
			continue
		}

		job := queue.PublishJobPayload{
			PostID:          postID,
			DestinationID:   dest.DestinationID,
			Platform:        destination.Platform,
			Caption:         finalCaption,
			MediaURLs:       mediaURLs,
			MediaMimeTypes:  mimeTypes,
			AccessToken:     accessToken,
			IntegrationID:   destination.IntegrationID,
			PlatformAddress: destination.ExternalID,
		}

		if err := s.jobs.EnqueuePublishJob(ctx, job); err != nil {
			slog.Info(err.Error())
			if uerr := s.pd.MarkFailed(ctx, postID, dest.DestinationID, fmt.Sprintf("enqueue failed: %v", err)); uerr != nil {
				slog.Info(uerr.Error())
			}
			continue
		}
		enqueued++
	}

	// When every destination failed before a job could be enqueued there is
	// no worker coming to recompute the aggregate; derive it here so the post
	// doesn't sit in publishing over all-failed rows.
	if enqueued == 0 {
		if status := s.recomputePostStatus(ctx, postID); status != "" {
			post.Status = status
		}
	}

	s.audit(ctx, tenantID, actorID, "post.publish", map[string]any{
		"post_id":      postID,
		"destinations": enqueued,
	})

	return post, nil
}

func (s *publishService) Schedule(ctx context.Context, tenantID, postID int64, scheduledAt time.Time, actorID int64) (*models.Post, error) {
	post, err := s.pr.GetByTenantID(ctx, tenantID, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if !scheduledAt.After(time.Now()) {
		return nil, ErrPastSchedule
	}

	switch post.Status {
	case models.PostStatusDraft, models.PostStatusScheduled:
	default:
		return nil, &StateConflictError{Op: "schedule", Status: post.Status}
	}

	if err := s.pr.SetSchedule(ctx, postID, scheduledAt); err != nil {
		return nil, err
	}

	post.Status = models.PostStatusScheduled
	post.ScheduledAt = &scheduledAt

	s.audit(ctx, tenantID, actorID, "post.schedule", map[string]any{
		"post_id":      postID,
		"scheduled_at": scheduledAt.Format(time.RFC3339),
	})

	return post, nil
}

func (s *publishService) Cancel(ctx context.Context, tenantID, postID, actorID int64) (*models.Post, error) {
	post, err := s.pr.GetByTenantID(ctx, tenantID, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if post.Status != models.PostStatusScheduled {
		return nil, &StateConflictError{Op: "cancel", Status: post.Status}
	}

	if err := s.pr.ClearSchedule(ctx, postID); err != nil {
		return nil, err
	}

	post.Status = models.PostStatusDraft
	post.ScheduledAt = nil

	s.audit(ctx, tenantID, actorID, "post.cancel", map[string]any{"post_id": postID})

	return post, nil
}

// recomputePostStatus reduces the destination rows to an aggregate status
// and applies it. It returns the status written, or "" when the rows decide
// nothing or the update fails.
func (s *publishService) recomputePostStatus(ctx context.Context, postID int64) string {
	statuses, err := s.pd.ListStatuses(ctx, postID)
	if err != nil {
		slog.Info(err.Error())
		return ""
	}

	status, decided := models.ReduceDestinationStatuses(statuses)
	if !decided {
		return ""
	}

	if _, err := s.pr.UpdateStatusIf(ctx, status, postID); err != nil {
		slog.Info(err.Error())
		return ""
	}
	return status
}

func (s *publishService) resolvePostMedia(ctx context.Context, postID int64) ([]resolvedMedia, error) {
	assets, err := s.pm.ListAssetsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.resolveAssets(ctx, assets)
}

func (s *publishService) resolveMediaByIDs(ctx context.Context, ids []int64) ([]resolvedMedia, error) {
	assets, err := s.pm.ListAssetsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.resolveAssets(ctx, assets)
}

func (s *publishService) resolveAssets(ctx context.Context, assets []*models.MediaAsset) ([]resolvedMedia, error) {
	var media []resolvedMedia
	for _, asset := range assets {
		url, mimeType, err := s.media.ResolveURL(ctx, asset)
		if err != nil {
			return nil, fmt.Errorf("error resolving media %d: %w", asset.ID, err)
		}
		media = append(media, resolvedMedia{url: url, mimeType: mimeType})
	}
	return media, nil
}

// resolveAccessToken prefers the destination's own page-scoped token; the
// parent integration's encrypted token is the fallback. Decryption happens
// in the worker, just in time.
func (s *publishService) resolveAccessToken(ctx context.Context, destination *models.Destination) (string, error) {
	if destination.AccessToken != "" {
		return destination.AccessToken, nil
	}

	integration, err := s.ir.GetByID(ctx, destination.IntegrationID)
	if err != nil {
		return "", err
	}
	if integration == nil {
		return "", fmt.Errorf("integration %d not found for destination %d", destination.IntegrationID, destination.ID)
	}

	return integration.AccessToken, nil
}

func (s *publishService) audit(ctx context.Context, tenantID, actorID int64, action string, metadata map[string]any) {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		slog.Info(err.Error())
		metadataJSON = []byte("{}")
	}

	entry := models.AuditLog{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		ActorID:  actorID,
		Action:   action,
		Metadata: string(metadataJSON),
	}

	if err := s.al.Create(ctx, &entry); err != nil {
		slog.Info(err.Error())
	}
}
