package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nftmarket-lab/backend/internal/client"
	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/model"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type OwnershipDomain interface {
	UpdateOwner(context.Context, *model.UpdateItemOwnerRequest) (*model.UpdateItemOwnerResponse, error)
	GetOwnerItems(context.Context, *model.GetOwnerItemsRequest) (*model.GetOwnerItemsResponse, error)
}

type ownershipDomain struct {
	holdingRepo repository.TokenHoldingRepository
	listingRepo repository.ItemListingRepository
	userRepo    repository.UserRepository
	chainCaller client.ChainCaller
}

func NewOwnershipDomain(
	holdingRepo repository.TokenHoldingRepository,
	listingRepo repository.ItemListingRepository,
	userRepo repository.UserRepository,
	chainCaller client.ChainCaller,
) *ownershipDomain {
	return &ownershipDomain{
		holdingRepo: holdingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		chainCaller: chainCaller,
	}
}

// UpdateOwner is the admin path for reassigning a token after an external
// transfer the market never saw. The chain is the source of truth: the new
// owner must actually hold the token before the ledger moves it.
func (d *ownershipDomain) UpdateOwner(
	ctx context.Context, req *model.UpdateItemOwnerRequest,
) (*model.UpdateItemOwnerResponse, error) {
	isOwner, err := d.chainCaller.IsTokenOwner(
		ctx, req.CollectionAddress, req.TokenID, req.NewOwnerAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check on-chain owner: %v", err)
		return nil, errorx.Unknown
	}

	if !isOwner {
		return nil, errorx.New(errorx.BadRequest, "New owner does not hold this token on chain")
	}

	oldOwner, err := d.getUserOrCreate(ctx, req.OldOwnerAddress)
	if err != nil {
		return nil, err
	}

	newOwner, err := d.getUserOrCreate(ctx, req.NewOwnerAddress)
	if err != nil {
		return nil, err
	}

	_, err = d.holdingRepo.GetWithToken(ctx, oldOwner.ID, req.ItemID, req.TokenID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Old owner does not hold this token")
		}

		xcontext.Logger(ctx).Errorf("Cannot get token holding: %v", err)
		return nil, errorx.Unknown
	}

	err = xcontext.Atomically(ctx, func(ctx context.Context) error {
		err := d.holdingRepo.Transfer(ctx, oldOwner.ID, newOwner.ID, req.ItemID, req.TokenID, 1)
		if err != nil {
			return err
		}

		if req.Price <= 0 {
			return nil
		}

		listing, err := d.listingRepo.GetLatestByFilter(ctx, repository.ItemListingFilter{
			ItemID:  req.ItemID,
			TokenID: req.TokenID,
			OwnerID: oldOwner.ID,
			Price:   req.Price,
			Status:  entity.ListingStatusTypeActive,
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}

			return err
		}

		return d.listingRepo.UpdateStatusByID(ctx, listing.ID, entity.ListingStatusTypeCancel)
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update item owner: %v", err)
		return nil, err
	}

	return &model.UpdateItemOwnerResponse{}, nil
}

func (d *ownershipDomain) GetOwnerItems(
	ctx context.Context, req *model.GetOwnerItemsRequest,
) (*model.GetOwnerItemsResponse, error) {
	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = xcontext.RequestUserID(ctx)
	}

	holdings, err := d.holdingRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get holdings: %v", err)
		return nil, errorx.Unknown
	}

	clientHoldings := []model.TokenHolding{}
	for i := range holdings {
		clientHoldings = append(clientHoldings, model.ConvertTokenHolding(&holdings[i]))
	}

	return &model.GetOwnerItemsResponse{Holdings: clientHoldings}, nil
}

func (d *ownershipDomain) getUserOrCreate(ctx context.Context, address string) (*entity.User, error) {
	address = strings.ToLower(address)
	user, err := d.userRepo.GetByWalletAddress(ctx, address)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by wallet: %v", err)
		return nil, errorx.Unknown
	}

	user = &entity.User{
		Base:          entity.Base{ID: uuid.NewString()},
		WalletAddress: address,
		Username:      address,
	}
	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}
