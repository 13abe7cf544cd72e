package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/model"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"github.com/nftmarket-lab/backend/pkg/xredis"
	"gorm.io/gorm"
)

// TrendingCollectionsKey is the redis sorted set the trending cron publishes
// to and GetTrending reads from.
const TrendingCollectionsKey = "trending:collections"

const defaultTrendingLimit = 10

type CollectionDomain interface {
	Create(context.Context, *model.CreateCollectionRequest) (*model.CreateCollectionResponse, error)
	GetTrending(context.Context, *model.GetTrendingCollectionsRequest) (*model.GetTrendingCollectionsResponse, error)
}

type collectionDomain struct {
	collectionRepo repository.CollectionRepository
	redisClient    xredis.Client
}

func NewCollectionDomain(
	collectionRepo repository.CollectionRepository,
	redisClient xredis.Client,
) *collectionDomain {
	return &collectionDomain{collectionRepo: collectionRepo, redisClient: redisClient}
}

func (d *collectionDomain) Create(
	ctx context.Context, req *model.CreateCollectionRequest,
) (*model.CreateCollectionResponse, error) {
	if req.Name == "" || req.Address == "" {
		return nil, errorx.New(errorx.BadRequest, "Collection needs a name and an address")
	}

	address := strings.ToLower(req.Address)
	_, err := d.collectionRepo.GetByAddress(ctx, address)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Collection address is already registered")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check collection address: %v", err)
		return nil, errorx.Unknown
	}

	collection := &entity.Collection{
		Base:      entity.Base{ID: uuid.NewString()},
		Name:      req.Name,
		Address:   address,
		CreatedBy: xcontext.RequestUserID(ctx),
	}
	if err := d.collectionRepo.Create(ctx, collection); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create collection: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCollectionResponse{ID: collection.ID}, nil
}

// GetTrending serves the sorted set the cron maintains; when redis has no
// scores yet it falls back to the database ordering.
func (d *collectionDomain) GetTrending(
	ctx context.Context, req *model.GetTrendingCollectionsRequest,
) (*model.GetTrendingCollectionsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultTrendingLimit
	}

	if d.redisClient != nil {
		members, err := d.redisClient.ZRevRangeWithScores(ctx, TrendingCollectionsKey, 0, limit)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot read trending scores: %v", err)
		} else if len(members) > 0 {
			collections := []model.Collection{}
			for _, member := range members {
				id, ok := member.Member.(string)
				if !ok {
					continue
				}

				collection, err := d.collectionRepo.GetByID(ctx, id)
				if err != nil {
					xcontext.Logger(ctx).Warnf("Cannot get trending collection %s: %v", id, err)
					continue
				}

				collections = append(collections, convertCollection(collection))
			}

			return &model.GetTrendingCollectionsResponse{Collections: collections}, nil
		}
	}

	mostActive, err := d.collectionRepo.GetMostActive(ctx, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get most active collections: %v", err)
		return nil, errorx.Unknown
	}

	collections := []model.Collection{}
	for i := range mostActive {
		collections = append(collections, convertCollection(&mostActive[i]))
	}

	return &model.GetTrendingCollectionsResponse{Collections: collections}, nil
}

func convertCollection(collection *entity.Collection) model.Collection {
	return model.Collection{
		ID:            collection.ID,
		Name:          collection.Name,
		Address:       collection.Address,
		CreatedBy:     collection.CreatedBy,
		ActivityCount: collection.ActivityCount,
	}
}
