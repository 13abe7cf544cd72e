package cron

import (
	"context"
	"time"

	"github.com/nftmarket-lab/backend/internal/domain"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"github.com/nftmarket-lab/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

// TrendingCollectionCronJob republishes the most active collections into a
// redis sorted set once a day, scored by accumulated activity count.
type TrendingCollectionCronJob struct {
	collectionRepo repository.CollectionRepository
	redisClient    xredis.Client
}

func NewTrendingCollectionCronJob(
	collectionRepo repository.CollectionRepository,
	redisClient xredis.Client,
) *TrendingCollectionCronJob {
	return &TrendingCollectionCronJob{
		collectionRepo: collectionRepo,
		redisClient:    redisClient,
	}
}

func (job *TrendingCollectionCronJob) Do(ctx context.Context) {
	collections, err := job.collectionRepo.GetMostActive(ctx, 100)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get most active collections: %v", err)
		return
	}

	if err := job.redisClient.Del(ctx, domain.TrendingCollectionsKey); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset trending collections: %v", err)
		return
	}

	for _, c := range collections {
		err := job.redisClient.ZAdd(ctx, domain.TrendingCollectionsKey, redis.Z{
			Score:  float64(c.ActivityCount),
			Member: c.ID,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish trending score of %s: %v", c.ID, err)
			continue
		}
	}
}

func (job *TrendingCollectionCronJob) RunNow() bool {
	return true
}

func (job *TrendingCollectionCronJob) Next() time.Time {
	return time.Now().Add(24 * time.Hour)
}
