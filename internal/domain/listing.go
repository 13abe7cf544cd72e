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
	"github.com/nftmarket-lab/backend/pkg/enum"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ListingDomain interface {
	Create(context.Context, *model.CreateItemListingRequest) (*model.CreateItemListingResponse, error)
	CancelRequest(context.Context, *model.CancelItemListingRequest) (*model.CancelItemListingResponse, error)
	AdvanceStatus(context.Context, *model.AdvanceListingStatusRequest) (*model.AdvanceListingStatusResponse, error)
	GetByOwner(context.Context, *model.GetOwnerListingsRequest) (*model.GetOwnerListingsResponse, error)
}

type listingDomain struct {
	listingRepo  repository.ItemListingRepository
	activityRepo repository.ItemActivityRepository
	holdingRepo  repository.TokenHoldingRepository
}

func NewListingDomain(
	listingRepo repository.ItemListingRepository,
	activityRepo repository.ItemActivityRepository,
	holdingRepo repository.TokenHoldingRepository,
) *listingDomain {
	return &listingDomain{
		listingRepo:  listingRepo,
		activityRepo: activityRepo,
		holdingRepo:  holdingRepo,
	}
}

// Create persists a new listing awaiting its on-chain confirmation, together
// with the pending activity record the sweep later promotes.
func (d *listingDomain) Create(
	ctx context.Context, req *model.CreateItemListingRequest,
) (*model.CreateItemListingResponse, error) {
	if req.ExpiredAt != nil && !req.ExpiredAt.After(time.Now()) {
		return nil, errorx.New(errorx.BadRequest, "Expire time cannot be in the past")
	}

	_, err := d.holdingRepo.GetWithToken(ctx, req.OwnerID, req.ItemID, req.TokenID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Only the owner can list this token")
		}

		xcontext.Logger(ctx).Errorf("Cannot check token ownership: %v", err)
		return nil, errorx.Unknown
	}

	listing := &entity.ItemListing{
		Base:              entity.Base{ID: uuid.NewString()},
		ItemID:            req.ItemID,
		TokenID:           req.TokenID,
		CollectionAddress: req.CollectionAddress,
		OwnerID:           req.OwnerID,
		Price:             req.Price,
		Status:            entity.ListingStatusTypeDeactive,
	}
	if req.ExpiredAt != nil {
		listing.ExpiredAt = sql.NullTime{Time: *req.ExpiredAt, Valid: true}
	}

	err = xcontext.Atomically(ctx, func(ctx context.Context) error {
		if err := d.listingRepo.Create(ctx, listing); err != nil {
			return err
		}

		return d.activityRepo.Create(ctx, &entity.ItemActivity{
			Base:              entity.Base{ID: uuid.NewString()},
			Kind:              entity.ActivityKindTypeListing,
			TokenID:           req.TokenID,
			ItemID:            req.ItemID,
			CollectionAddress: req.CollectionAddress,
			FromUserID:        req.OwnerID,
			ToUserID:          req.OwnerID,
			Price:             req.Price,
			Total:             1,
			TransactionID:     req.TransactionID,
			Status:            entity.ActivityStatusTypePending,
		})
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create item listing: %v", err)
		return nil, err
	}

	return &model.CreateItemListingResponse{Listing: model.ConvertItemListing(listing)}, nil
}

// CancelRequest withdraws an active listing. The listing flips to cancel
// immediately; the paired pending activity keeps the sweep re-checking until
// the chain confirms the cancellation.
func (d *listingDomain) CancelRequest(
	ctx context.Context, req *model.CancelItemListingRequest,
) (*model.CancelItemListingResponse, error) {
	_, err := d.holdingRepo.GetWithToken(ctx, req.OwnerID, req.ItemID, req.TokenID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Only the owner can cancel this listing")
		}

		xcontext.Logger(ctx).Errorf("Cannot check token ownership: %v", err)
		return nil, errorx.Unknown
	}

	listing, err := d.listingRepo.GetLatestByFilter(ctx, repository.ItemListingFilter{
		ItemID:  req.ItemID,
		TokenID: req.TokenID,
		OwnerID: req.OwnerID,
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

	err = xcontext.Atomically(ctx, func(ctx context.Context) error {
		if err := d.listingRepo.UpdateStatusByID(ctx, listing.ID, entity.ListingStatusTypeCancel); err != nil {
			return err
		}

		return d.activityRepo.Create(ctx, &entity.ItemActivity{
			Base:              entity.Base{ID: uuid.NewString()},
			Kind:              entity.ActivityKindTypeCancel,
			TokenID:           req.TokenID,
			ItemID:            req.ItemID,
			CollectionAddress: req.CollectionAddress,
			FromUserID:        req.OwnerID,
			ToUserID:          req.OwnerID,
			Price:             req.Price,
			Total:             1,
			TransactionID:     req.TransactionID,
			Status:            entity.ActivityStatusTypePending,
		})
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel item listing: %v", err)
		return nil, err
	}

	return &model.CancelItemListingResponse{}, nil
}

// AdvanceStatus promotes a listing (and its paired pending activity) once the
// chain confirmed the intent. Target "active" confirms a listing creation,
// target "cancel" confirms a cancellation. A missing pending activity is
// reported as Advanced=false, not as an error.
func (d *listingDomain) AdvanceStatus(
	ctx context.Context, req *model.AdvanceListingStatusRequest,
) (*model.AdvanceListingStatusResponse, error) {
	target, err := enum.ToEnum[entity.ListingStatusType](req.Target)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid target status %s", req.Target)
	}

	var preStatus entity.ListingStatusType
	var kind entity.ActivityKindType
	switch target {
	case entity.ListingStatusTypeActive:
		preStatus = entity.ListingStatusTypeDeactive
		kind = entity.ActivityKindTypeListing
	case entity.ListingStatusTypeCancel:
		// A cancel request already flipped the listing; this pass only
		// confirms the paired activity.
		preStatus = entity.ListingStatusTypeCancel
		kind = entity.ActivityKindTypeCancel
	default:
		return nil, errorx.New(errorx.BadRequest, "Cannot advance listing to %s", req.Target)
	}

	listing, err := d.listingRepo.GetLatestByFilter(ctx, repository.ItemListingFilter{
		ItemID:  req.ItemID,
		TokenID: req.TokenID,
		OwnerID: req.OwnerID,
		Price:   req.Price,
		Status:  preStatus,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found item listing")
		}

		xcontext.Logger(ctx).Errorf("Cannot get item listing: %v", err)
		return nil, errorx.Unknown
	}

	activity, err := d.activityRepo.GetLatestPending(
		ctx, kind, req.ItemID, req.TokenID, req.OwnerID, req.Price)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.AdvanceListingStatusResponse{Advanced: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get pending activity: %v", err)
		return nil, errorx.Unknown
	}

	err = xcontext.Atomically(ctx, func(ctx context.Context) error {
		if err := d.activityRepo.Advance(ctx, activity.ID, entity.ActivityStatusTypeConfirmed); err != nil {
			return err
		}

		return d.listingRepo.UpdateStatusByID(ctx, listing.ID, target)
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot advance listing status: %v", err)
		return nil, err
	}

	return &model.AdvanceListingStatusResponse{Advanced: true}, nil
}

func (d *listingDomain) GetByOwner(
	ctx context.Context, req *model.GetOwnerListingsRequest,
) (*model.GetOwnerListingsResponse, error) {
	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = xcontext.RequestUserID(ctx)
	}

	listings, err := d.listingRepo.GetListByOwner(ctx, ownerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get listings: %v", err)
		return nil, errorx.Unknown
	}

	clientListings := []model.ItemListing{}
	for i := range listings {
		clientListings = append(clientListings, model.ConvertItemListing(&listings[i]))
	}

	return &model.GetOwnerListingsResponse{Listings: clientListings}, nil
}
