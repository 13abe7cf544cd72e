package domain

import (
	"context"
	"errors"

	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/model"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ItemDomain interface {
	Create(context.Context, *model.CreateItemRequest) (*model.CreateItemResponse, error)
	ConfirmMint(context.Context, *model.ConfirmMintRequest) (*model.ConfirmMintResponse, error)
}

type itemDomain struct {
	itemRepo       repository.ItemRepository
	collectionRepo repository.CollectionRepository
}

func NewItemDomain(
	itemRepo repository.ItemRepository,
	collectionRepo repository.CollectionRepository,
) *itemDomain {
	return &itemDomain{itemRepo: itemRepo, collectionRepo: collectionRepo}
}

func (d *itemDomain) Create(
	ctx context.Context, req *model.CreateItemRequest,
) (*model.CreateItemResponse, error) {
	if req.Supply <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Supply must be positive")
	}

	_, err := d.collectionRepo.GetByID(ctx, req.CollectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found collection")
		}

		xcontext.Logger(ctx).Errorf("Cannot get collection: %v", err)
		return nil, errorx.Unknown
	}

	item := &entity.Item{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		CollectionID:  req.CollectionID,
		CreatedBy:     req.CreatedBy,
		Name:          req.Name,
		Supply:        req.Supply,
		Status:        entity.ItemStatusTypePending,
	}
	if err := d.itemRepo.Create(ctx, item); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create item: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateItemResponse{ID: item.ID}, nil
}

// ConfirmMint attaches the mint transaction hash to a pending item. The sweep
// watches items with a hash and activates them once the receipt succeeds.
func (d *itemDomain) ConfirmMint(
	ctx context.Context, req *model.ConfirmMintRequest,
) (*model.ConfirmMintResponse, error) {
	item, err := d.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found item")
		}

		xcontext.Logger(ctx).Errorf("Cannot get item: %v", err)
		return nil, errorx.Unknown
	}

	if item.Status != entity.ItemStatusTypePending {
		return nil, errorx.New(errorx.BadRequest, "Item mint is already settled")
	}

	if err := d.itemRepo.SetTransactionByID(ctx, item.ID, req.TransactionID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set mint transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ConfirmMintResponse{}, nil
}
