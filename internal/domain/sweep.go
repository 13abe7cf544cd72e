package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nftmarket-lab/backend/internal/client"
	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/model"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/dateutil"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/nftmarket-lab/backend/pkg/ethutil"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	SweepSourceListings  = "listings"
	SweepSourceMints     = "mints"
	SweepSourceTransfers = "transfers"
	SweepSourceRewards   = "rewards"

	defaultStaleAfter = 6 * time.Hour

	// sweepConcurrency bounds how many records of one category are verified
	// against the chain at once.
	sweepConcurrency = 8
)

type SweepDomain interface {
	Verify(context.Context, *model.VerifyPendingRequest) (*model.VerifyPendingResponse, error)
}

type sweepDomain struct {
	activityRepo repository.ItemActivityRepository
	listingRepo  repository.ItemListingRepository
	itemRepo     repository.ItemRepository
	holdingRepo  repository.TokenHoldingRepository
	rewardRepo   repository.RewardRepository
	userRepo     repository.UserRepository
	chainCaller  client.ChainCaller

	listingDomain  ListingDomain
	transferDomain TransferDomain
	rewardDomain   RewardDomain
}

func NewSweepDomain(
	activityRepo repository.ItemActivityRepository,
	listingRepo repository.ItemListingRepository,
	itemRepo repository.ItemRepository,
	holdingRepo repository.TokenHoldingRepository,
	rewardRepo repository.RewardRepository,
	userRepo repository.UserRepository,
	chainCaller client.ChainCaller,
	listingDomain ListingDomain,
	transferDomain TransferDomain,
	rewardDomain RewardDomain,
) *sweepDomain {
	return &sweepDomain{
		activityRepo:   activityRepo,
		listingRepo:    listingRepo,
		itemRepo:       itemRepo,
		holdingRepo:    holdingRepo,
		rewardRepo:     rewardRepo,
		userRepo:       userRepo,
		chainCaller:    chainCaller,
		listingDomain:  listingDomain,
		transferDomain: transferDomain,
		rewardDomain:   rewardDomain,
	}
}

// Verify reconciles every pending record of the selected categories against
// the chain. A record is promoted when the chain confirms it, marked for
// manual review when it stayed pending past the staleness threshold, and left
// untouched when the chain is inconclusive. One bad record never stops the
// rest of the sweep.
func (d *sweepDomain) Verify(
	ctx context.Context, req *model.VerifyPendingRequest,
) (*model.VerifyPendingResponse, error) {
	sources := req.Sources
	if len(sources) == 0 {
		sources = xcontext.Configs(ctx).Sweep.Sources
	}

	if len(sources) == 0 {
		sources = []string{
			SweepSourceListings, SweepSourceMints, SweepSourceTransfers, SweepSourceRewards,
		}
	}

	for _, source := range sources {
		var err error
		switch strings.ToLower(source) {
		case SweepSourceListings:
			err = d.verifyListings(ctx)
		case SweepSourceMints:
			err = d.verifyMints(ctx)
		case SweepSourceTransfers:
			err = d.verifyTransfers(ctx)
		case SweepSourceRewards:
			err = d.verifyRewards(ctx)
		default:
			return nil, errorx.New(errorx.BadRequest, "Unknown sweep source %s", source)
		}

		if err != nil {
			xcontext.Logger(ctx).Errorf("Sweep of %s finished with error: %v", source, err)
		}
	}

	return &model.VerifyPendingResponse{}, nil
}

func (d *sweepDomain) verifyListings(ctx context.Context) error {
	activities, err := d.activityRepo.GetAllPending(
		ctx, entity.ActivityKindTypeListing, entity.ActivityKindTypeCancel)
	if err != nil {
		return err
	}

	eg := errgroup.Group{}
	eg.SetLimit(sweepConcurrency)
	for i := range activities {
		activity := activities[i]
		eg.Go(func() error {
			advanced, err := d.verifyListingActivity(ctx, &activity)
			if err != nil {
				return err
			}

			if advanced || !d.isStale(ctx, activity.UpdatedAt) {
				return nil
			}

			return d.failListingActivity(ctx, &activity)
		})
	}

	return eg.Wait()
}

func (d *sweepDomain) verifyListingActivity(
	ctx context.Context, activity *entity.ItemActivity,
) (bool, error) {
	listing, err := d.listingRepo.GetLatestByTuple(
		ctx, activity.ItemID, activity.TokenID, activity.FromUserID, activity.Price)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	switch listing.Status {
	case entity.ListingStatusTypeCancel:
		// The user already asked to cancel; the activity just needs settling.
		return d.advanceListing(ctx, activity, entity.ListingStatusTypeCancel)

	case entity.ListingStatusTypeDeactive:
		owner, err := d.userRepo.GetByID(ctx, activity.FromUserID)
		if err != nil {
			return false, err
		}

		order, err := d.chainCaller.OrderByAsset(
			ctx, activity.CollectionAddress, activity.TokenID, owner.WalletAddress)
		if err != nil {
			// Inconclusive; try again next run.
			xcontext.Logger(ctx).Warnf("Cannot read order for token %s: %v", activity.TokenID, err)
			return false, nil
		}

		if !orderMatches(order, owner.WalletAddress, activity.Price) {
			return false, nil
		}

		return d.advanceListing(ctx, activity, entity.ListingStatusTypeActive)
	}

	return false, nil
}

func (d *sweepDomain) advanceListing(
	ctx context.Context, activity *entity.ItemActivity, target entity.ListingStatusType,
) (bool, error) {
	resp, err := d.listingDomain.AdvanceStatus(ctx, &model.AdvanceListingStatusRequest{
		ItemID:  activity.ItemID,
		TokenID: activity.TokenID,
		OwnerID: activity.FromUserID,
		Price:   activity.Price,
		Target:  string(target),
	})
	if err != nil {
		return false, err
	}

	return resp.Advanced, nil
}

func (d *sweepDomain) failListingActivity(ctx context.Context, activity *entity.ItemActivity) error {
	return xcontext.Atomically(ctx, func(ctx context.Context) error {
		listing, err := d.listingRepo.GetLatestByTuple(
			ctx, activity.ItemID, activity.TokenID, activity.FromUserID, activity.Price)
		if err == nil {
			err = d.listingRepo.UpdateStatusByID(ctx, listing.ID, entity.ListingStatusTypeOther)
			if err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return d.activityRepo.Advance(ctx, activity.ID, entity.ActivityStatusTypeFailed)
	})
}

func (d *sweepDomain) verifyMints(ctx context.Context) error {
	items, err := d.itemRepo.GetAllPendingMints(ctx)
	if err != nil {
		return err
	}

	eg := errgroup.Group{}
	eg.SetLimit(sweepConcurrency)
	for i := range items {
		item := items[i]
		eg.Go(func() error {
			receipt, err := d.chainCaller.TransactionReceipt(ctx, item.TransactionID)
			if err == nil && receipt.Success && receipt.TokenID != "" {
				return xcontext.Atomically(ctx, func(ctx context.Context) error {
					err := d.holdingRepo.AddToken(ctx, item.CreatedBy, item.ID, receipt.TokenID)
					if err != nil {
						return err
					}

					return d.itemRepo.UpdateStatusByID(ctx, item.ID, entity.ItemStatusTypeActive)
				})
			}

			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot read mint receipt of item %d: %v", item.ID, err)
			}

			if !d.isStale(ctx, item.UpdatedAt) {
				return nil
			}

			return d.itemRepo.UpdateStatusByID(ctx, item.ID, entity.ItemStatusTypeFailed)
		})
	}

	return eg.Wait()
}

func (d *sweepDomain) verifyTransfers(ctx context.Context) error {
	activities, err := d.activityRepo.GetAllPending(ctx, entity.ActivityKindTypeTransfer)
	if err != nil {
		return err
	}

	eg := errgroup.Group{}
	eg.SetLimit(sweepConcurrency)
	for i := range activities {
		activity := activities[i]
		eg.Go(func() error {
			receipt, err := d.chainCaller.TransactionReceipt(ctx, activity.TransactionID)
			if err == nil && receipt.Success {
				_, err := d.transferDomain.Confirm(ctx, &model.ConfirmTransferRequest{
					TransactionID: activity.TransactionID,
				})
				return err
			}

			if err != nil {
				xcontext.Logger(ctx).Warnf(
					"Cannot read transfer receipt %s: %v", activity.TransactionID, err)
			}

			if !d.isStale(ctx, activity.UpdatedAt) {
				return nil
			}

			return d.activityRepo.Advance(ctx, activity.ID, entity.ActivityStatusTypeFailed)
		})
	}

	return eg.Wait()
}

func (d *sweepDomain) verifyRewards(ctx context.Context) error {
	requests, err := d.rewardRepo.GetPendingRequests(ctx)
	if err != nil {
		return err
	}

	eg := errgroup.Group{}
	eg.SetLimit(sweepConcurrency)
	for i := range requests {
		request := requests[i]
		eg.Go(func() error {
			receipt, err := d.chainCaller.ProcessedReward(ctx, request.TransactionID)
			if err == nil && receipt.Claimed && claimAmountMatches(receipt, request.Amount) {
				_, err := d.rewardDomain.ConfirmClaim(ctx, &model.ConfirmClaimRequest{
					UserID:        request.UserID,
					TransactionID: request.TransactionID,
				})
				return err
			}

			if err != nil {
				xcontext.Logger(ctx).Warnf(
					"Cannot read reward receipt %s: %v", request.TransactionID, err)
			}

			if !d.isStale(ctx, request.UpdatedAt) {
				return nil
			}

			return d.rewardRepo.AdvanceRequest(ctx, request.ID, entity.ActivityStatusTypeFailed)
		})
	}

	return eg.Wait()
}

func (d *sweepDomain) isStale(ctx context.Context, updatedAt time.Time) bool {
	staleAfter := xcontext.Configs(ctx).Sweep.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}

	return dateutil.IsStale(updatedAt, staleAfter)
}

func orderMatches(order *client.MarketOrder, seller string, price float64) bool {
	if order == nil || order.OrderID == nil || order.OrderID.Sign() <= 0 {
		return false
	}

	if !strings.EqualFold(order.Seller, seller) {
		return false
	}

	return order.PriceWei != nil && order.PriceWei.Cmp(ethutil.ConvertToWei(price)) == 0
}

func claimAmountMatches(receipt *client.RewardReceipt, amount float64) bool {
	return receipt.Amount == nil || receipt.Amount.Cmp(ethutil.ConvertToWei(amount)) == 0
}
