package domain

import (
	"context"
	"testing"

	"github.com/nftmarket-lab/backend/internal/model"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/nftmarket-lab/backend/pkg/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func Test_collectionDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Seller1.ID)
	testutil.CreateFixtureDb(ctx)

	collectionRepo := repository.NewCollectionRepository()
	collectionDomain := NewCollectionDomain(collectionRepo, &testutil.MockRedisClient{})

	resp, err := collectionDomain.Create(ctx, &model.CreateCollectionRequest{
		Name:    "New Collection",
		Address: "0x00000000000000000000000000000000000000C2",
	})
	require.NoError(t, err)

	// The address is stored lowercase.
	collection, err := collectionRepo.GetByAddress(
		ctx, "0x00000000000000000000000000000000000000c2")
	require.NoError(t, err)
	require.Equal(t, resp.ID, collection.ID)
	require.Equal(t, testutil.Seller1.ID, collection.CreatedBy)

	// A duplicate address is rejected regardless of case.
	_, err = collectionDomain.Create(ctx, &model.CreateCollectionRequest{
		Name:    "Duplicate",
		Address: "0x00000000000000000000000000000000000000c2",
	})
	require.Equal(t,
		errorx.New(errorx.AlreadyExists, "Collection address is already registered"), err)
}

func Test_collectionDomain_GetTrending(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	collectionRepo := repository.NewCollectionRepository()

	// With scores in redis, the sorted set drives the order.
	redisClient := &testutil.MockRedisClient{
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			return []redis.Z{{Score: 5, Member: testutil.Collection1.ID}}, nil
		},
	}
	collectionDomain := NewCollectionDomain(collectionRepo, redisClient)

	resp, err := collectionDomain.GetTrending(ctx, &model.GetTrendingCollectionsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Collections, 1)
	require.Equal(t, testutil.Collection1.ID, resp.Collections[0].ID)

	// An empty sorted set falls back to the database ordering.
	collectionDomain = NewCollectionDomain(collectionRepo, &testutil.MockRedisClient{})
	resp, err = collectionDomain.GetTrending(ctx, &model.GetTrendingCollectionsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Collections, 1)
}
