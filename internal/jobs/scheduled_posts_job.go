package job

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/repository"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/service"
)

// ScheduledPostsJob sweeps for posts whose scheduled time has arrived and
// hands each to the orchestrator. One post failing must not starve the rest
// of the sweep.
type ScheduledPostsJob struct {
	pr repository.PostRepository
	ps service.PublishService
}

func NewScheduledPostsJob(pr repository.PostRepository, ps service.PublishService) *ScheduledPostsJob {
	return &ScheduledPostsJob{pr: pr, ps: ps}
}

func (j *ScheduledPostsJob) PublishDuePosts() {
	ctx := context.Background()

	posts, err := j.pr.ListDue(ctx, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, post := range posts {
		if _, err := j.ps.Publish(ctx, post.TenantID, post.ID, 0); err != nil {
			log.Printf("Error publishing scheduled post %d: %v", post.ID, err)
			continue
		}
	}
}
