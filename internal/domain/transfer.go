package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/model"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TransferDomain interface {
	Request(context.Context, *model.RequestTransferRequest) (*model.RequestTransferResponse, error)
	Confirm(context.Context, *model.ConfirmTransferRequest) (*model.ConfirmTransferResponse, error)
}

type transferDomain struct {
	holdingRepo    repository.TokenHoldingRepository
	listingRepo    repository.ItemListingRepository
	activityRepo   repository.ItemActivityRepository
	itemRepo       repository.ItemRepository
	collectionRepo repository.CollectionRepository
	rewardRepo     repository.RewardRepository
}

func NewTransferDomain(
	holdingRepo repository.TokenHoldingRepository,
	listingRepo repository.ItemListingRepository,
	activityRepo repository.ItemActivityRepository,
	itemRepo repository.ItemRepository,
	collectionRepo repository.CollectionRepository,
	rewardRepo repository.RewardRepository,
) *transferDomain {
	return &transferDomain{
		holdingRepo:    holdingRepo,
		listingRepo:    listingRepo,
		activityRepo:   activityRepo,
		itemRepo:       itemRepo,
		collectionRepo: collectionRepo,
		rewardRepo:     rewardRepo,
	}
}

// Request records a sale in flight. The active listing flips to saled so it
// cannot be bought twice, and a pending transfer activity carries everything
// Confirm needs later. The transaction reference is the replay guard.
func (d *transferDomain) Request(
	ctx context.Context, req *model.RequestTransferRequest,
) (*model.RequestTransferResponse, error) {
	if req.FromUserID == req.ToUserID {
		return nil, errorx.New(errorx.AlreadyExists, "Cannot transfer item to yourself")
	}

	exists, err := d.activityRepo.ExistsByTransactionID(ctx, req.TransactionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check transaction reference: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "Transaction is processing")
	}

	listing, err := d.listingRepo.GetLatestByFilter(ctx, repository.ItemListingFilter{
		ItemID:  req.ItemID,
		TokenID: req.TokenID,
		OwnerID: req.FromUserID,
		Price:   req.Price,
		Status:  entity.ListingStatusTypeActive,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found item listing")
		}

		xcontext.Logger(ctx).Errorf("Cannot get item listing: %v", err)
		return nil, errorx.Unknown
	}

	if listing.ExpiredAt.Valid && !listing.ExpiredAt.Time.After(time.Now()) {
		return nil, errorx.New(errorx.NotFound, "Item listing is expired")
	}

	// The collection id is denormalized onto the activity so Confirm can bump
	// the collection counter without another item lookup.
	collectionID := sql.NullString{}
	item, err := d.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get item: %v", err)
			return nil, errorx.Unknown
		}
	} else {
		collectionID = sql.NullString{String: item.CollectionID, Valid: true}
	}

	err = xcontext.Atomically(ctx, func(ctx context.Context) error {
		if err := d.listingRepo.UpdateStatusByID(ctx, listing.ID, entity.ListingStatusTypeSaled); err != nil {
			return err
		}

		err := d.activityRepo.Create(ctx, &entity.ItemActivity{
			Base:              entity.Base{ID: uuid.NewString()},
			Kind:              entity.ActivityKindTypeTransfer,
			TokenID:           req.TokenID,
			ItemID:            req.ItemID,
			CollectionID:      collectionID,
			CollectionAddress: req.CollectionAddress,
			FromUserID:        req.FromUserID,
			ToUserID:          req.ToUserID,
			Price:             req.Price,
			Total:             req.Total,
			TransactionID:     req.TransactionID,
			Status:            entity.ActivityStatusTypePending,
		})
		if errors.Is(err, repository.ErrDuplicatedTransaction) {
			// A concurrent request won the race after the fast-path check.
			return errorx.New(errorx.AlreadyExists, "Transaction is processing")
		}

		return err
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot request transfer: %v", err)
		return nil, err
	}

	return &model.RequestTransferResponse{}, nil
}

// Confirm settles a previously requested transfer after the chain confirmed
// it: one token instance moves from seller to buyer, any remaining active
// listing of the seller for this item is superseded, the collection counter
// is bumped, rewards accrue to both parties, and the activity flips to
// confirmed. All of it commits or none of it does.
func (d *transferDomain) Confirm(
	ctx context.Context, req *model.ConfirmTransferRequest,
) (*model.ConfirmTransferResponse, error) {
	activity, err := d.activityRepo.GetByTransactionID(
		ctx, entity.ActivityKindTypeTransfer, req.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found transfer request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get transfer activity: %v", err)
		return nil, errorx.Unknown
	}

	if activity.Status != entity.ActivityStatusTypePending {
		return nil, errorx.New(errorx.AlreadyExists, "Transaction already processed")
	}

	err = xcontext.Atomically(ctx, func(ctx context.Context) error {
		holding, err := d.holdingRepo.GetWithSupply(
			ctx, activity.FromUserID, activity.ItemID, activity.Total)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The ledger disagrees with the pending sale. Leave the
				// activity pending for manual review.
				return errorx.New(errorx.Internal, "Seller no longer holds enough instances")
			}

			return err
		}

		tokenID := holding.TokenIDs[0]
		err = d.holdingRepo.Transfer(
			ctx, activity.FromUserID, activity.ToUserID, activity.ItemID, tokenID, activity.Total)
		if err != nil {
			return err
		}

		// Any other active listing the seller still has for this item is now
		// unsellable; park it instead of leaving it purchasable.
		stale, err := d.listingRepo.GetLatestByFilter(ctx, repository.ItemListingFilter{
			ItemID:  activity.ItemID,
			OwnerID: activity.FromUserID,
			Price:   activity.Price,
			Status:  entity.ListingStatusTypeActive,
		})
		if err == nil {
			err = d.listingRepo.UpdateStatusByID(ctx, stale.ID, entity.ListingStatusTypeOther)
			if err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if activity.CollectionID.Valid {
			err = d.collectionRepo.IncreaseActivityCount(ctx, activity.CollectionID.String, 1)
			if err != nil {
				return err
			}
		}

		if err := d.accrueReward(ctx, activity.FromUserID, activity); err != nil {
			return err
		}

		if err := d.accrueReward(ctx, activity.ToUserID, activity); err != nil {
			return err
		}

		return d.activityRepo.Advance(ctx, activity.ID, entity.ActivityStatusTypeConfirmed)
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot confirm transfer %s: %v", req.TransactionID, err)
		return nil, err
	}

	return &model.ConfirmTransferResponse{}, nil
}

func (d *transferDomain) accrueReward(
	ctx context.Context, userID string, activity *entity.ItemActivity,
) error {
	amount := activity.Price * rewardRate
	accrual := entity.RewardAccrual{
		ActivityID: activity.ID,
		Amount:     amount,
		CreatedAt:  time.Now(),
	}

	reward, err := d.rewardRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return d.rewardRepo.Create(ctx, &entity.Reward{
			Base:           entity.Base{ID: uuid.NewString()},
			UserID:         userID,
			ClaimableToken: amount,
			Accruals:       entity.Array[entity.RewardAccrual]{accrual},
		})
	}

	reward.ClaimableToken += amount
	reward.Accruals = append(reward.Accruals, accrual)
	return d.rewardRepo.Save(ctx, reward)
}

// rewardRate is the fraction of the sale price minted to each party as a
// marketplace reward.
const rewardRate = 0.01
