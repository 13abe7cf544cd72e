package domain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/nftmarket-lab/backend/internal/client"
	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/model"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/ethutil"
	"github.com/nftmarket-lab/backend/pkg/testutil"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sweepTestEnv struct {
	userRepo     repository.UserRepository
	itemRepo     repository.ItemRepository
	holdingRepo  repository.TokenHoldingRepository
	listingRepo  repository.ItemListingRepository
	activityRepo repository.ItemActivityRepository
	rewardRepo   repository.RewardRepository

	chainCaller *testutil.MockChainCaller

	listingDomain  ListingDomain
	transferDomain TransferDomain
	rewardDomain   RewardDomain
	sweepDomain    SweepDomain
}

func newSweepTestEnv() *sweepTestEnv {
	env := &sweepTestEnv{
		userRepo:     repository.NewUserRepository(),
		itemRepo:     repository.NewItemRepository(),
		holdingRepo:  repository.NewTokenHoldingRepository(),
		listingRepo:  repository.NewItemListingRepository(),
		activityRepo: repository.NewItemActivityRepository(),
		rewardRepo:   repository.NewRewardRepository(),
		chainCaller:  &testutil.MockChainCaller{},
	}

	collectionRepo := repository.NewCollectionRepository()
	env.listingDomain = NewListingDomain(env.listingRepo, env.activityRepo, env.holdingRepo)
	env.transferDomain = NewTransferDomain(
		env.holdingRepo, env.listingRepo, env.activityRepo,
		env.itemRepo, collectionRepo, env.rewardRepo)
	env.rewardDomain = NewRewardDomain(env.rewardRepo, env.userRepo, env.chainCaller)
	env.sweepDomain = NewSweepDomain(
		env.activityRepo, env.listingRepo, env.itemRepo, env.holdingRepo, env.rewardRepo,
		env.userRepo, env.chainCaller,
		env.listingDomain, env.transferDomain, env.rewardDomain)

	return env
}

func (env *sweepTestEnv) createListing(t *testing.T, ctx context.Context, price float64) {
	_, err := env.listingDomain.Create(ctx, &model.CreateItemListingRequest{
		ItemID:            testutil.Item1.ID,
		TokenID:           "token1",
		OwnerID:           testutil.Seller1.ID,
		Price:             price,
		CollectionAddress: testutil.Collection1.Address,
		TransactionID:     "0xlist1",
	})
	require.NoError(t, err)
}

func backdate(t *testing.T, ctx context.Context, target any, id any) {
	err := xcontext.DB(ctx).Model(target).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now().Add(-7*time.Hour)).Error
	require.NoError(t, err)
}

func Test_sweepDomain_Verify_listingConfirmed(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	env := newSweepTestEnv()

	env.createListing(t, ctx, 1.5)

	env.chainCaller.OrderByAssetFunc = func(
		ctx context.Context, collectionAddress, tokenID, ownerAddress string,
	) (*client.MarketOrder, error) {
		return &client.MarketOrder{
			OrderID:  big.NewInt(7),
			Seller:   testutil.Seller1.WalletAddress,
			PriceWei: ethutil.ConvertToWei(1.5),
		}, nil
	}

	_, err := env.sweepDomain.Verify(ctx, &model.VerifyPendingRequest{
		Sources: []string{SweepSourceListings},
	})
	require.NoError(t, err)

	listing, err := env.listingRepo.GetLatestByTuple(
		ctx, testutil.Item1.ID, "token1", testutil.Seller1.ID, 1.5)
	require.NoError(t, err)
	require.Equal(t, entity.ListingStatusTypeActive, listing.Status)

	pending, err := env.activityRepo.GetAllPending(ctx, entity.ActivityKindTypeListing)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func Test_sweepDomain_Verify_listingInconclusive(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	env := newSweepTestEnv()

	env.createListing(t, ctx, 1.5)

	// An order that does not match the recorded price must not confirm.
	env.chainCaller.OrderByAssetFunc = func(
		ctx context.Context, collectionAddress, tokenID, ownerAddress string,
	) (*client.MarketOrder, error) {
		return &client.MarketOrder{
			OrderID:  big.NewInt(7),
			Seller:   testutil.Seller1.WalletAddress,
			PriceWei: ethutil.ConvertToWei(9),
		}, nil
	}

	_, err := env.sweepDomain.Verify(ctx, &model.VerifyPendingRequest{
		Sources: []string{SweepSourceListings},
	})
	require.NoError(t, err)

	listing, err := env.listingRepo.GetLatestByTuple(
		ctx, testutil.Item1.ID, "token1", testutil.Seller1.ID, 1.5)
	require.NoError(t, err)
	require.Equal(t, entity.ListingStatusTypeDeactive, listing.Status)

	pending, err := env.activityRepo.GetAllPending(ctx, entity.ActivityKindTypeListing)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func Test_sweepDomain_Verify_listingStale(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	env := newSweepTestEnv()

	env.createListing(t, ctx, 1.5)

	env.chainCaller.OrderByAssetFunc = func(
		ctx context.Context, collectionAddress, tokenID, ownerAddress string,
	) (*client.MarketOrder, error) {
		return &client.MarketOrder{OrderID: big.NewInt(0)}, nil
	}

	pending, err := env.activityRepo.GetAllPending(ctx, entity.ActivityKindTypeListing)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	backdate(t, ctx, &entity.ItemActivity{}, pending[0].ID)

	_, err = env.sweepDomain.Verify(ctx, &model.VerifyPendingRequest{
		Sources: []string{SweepSourceListings},
	})
	require.NoError(t, err)

	// Both records are parked for manual review.
	listing, err := env.listingRepo.GetLatestByTuple(
		ctx, testutil.Item1.ID, "token1", testutil.Seller1.ID, 1.5)
	require.NoError(t, err)
	require.Equal(t, entity.ListingStatusTypeOther, listing.Status)

	activity, err := env.activityRepo.GetByID(ctx, pending[0].ID)
	require.NoError(t, err)
	require.Equal(t, entity.ActivityStatusTypeFailed, activity.Status)
}

func Test_sweepDomain_Verify_cancelSettled(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	env := newSweepTestEnv()

	env.createListing(t, ctx, 1.5)
	_, err := env.listingDomain.AdvanceStatus(ctx, &model.AdvanceListingStatusRequest{
		ItemID:  testutil.Item1.ID,
		TokenID: "token1",
		OwnerID: testutil.Seller1.ID,
		Price:   1.5,
		Target:  "active",
	})
	require.NoError(t, err)

	_, err = env.listingDomain.CancelRequest(ctx, &model.CancelItemListingRequest{
		ItemID:        testutil.Item1.ID,
		TokenID:       "token1",
		OwnerID:       testutil.Seller1.ID,
		Price:         1.5,
		TransactionID: "0xcancel1",
	})
	require.NoError(t, err)

	// A cancelled listing settles without consulting the chain.
	_, err = env.sweepDomain.Verify(ctx, &model.VerifyPendingRequest{
		Sources: []string{SweepSourceListings},
	})
	require.NoError(t, err)

	pending, err := env.activityRepo.GetAllPending(ctx, entity.ActivityKindTypeCancel)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func Test_sweepDomain_Verify_transfers(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	env := newSweepTestEnv()

	env.createListing(t, ctx, 2)
	_, err := env.listingDomain.AdvanceStatus(ctx, &model.AdvanceListingStatusRequest{
		ItemID:  testutil.Item1.ID,
		TokenID: "token1",
		OwnerID: testutil.Seller1.ID,
		Price:   2,
		Target:  "active",
	})
	require.NoError(t, err)

	_, err = env.transferDomain.Request(ctx, &model.RequestTransferRequest{
		ItemID:        testutil.Item1.ID,
		TokenID:       "token1",
		FromUserID:    testutil.Seller1.ID,
		ToUserID:      testutil.Buyer1.ID,
		Price:         2,
		Total:         1,
		TransactionID: "0xsale1",
	})
	require.NoError(t, err)

	env.chainCaller.TransactionReceiptFunc = func(
		ctx context.Context, txID string,
	) (*client.TransactionReceipt, error) {
		return &client.TransactionReceipt{Success: true}, nil
	}

	_, err = env.sweepDomain.Verify(ctx, &model.VerifyPendingRequest{
		Sources: []string{SweepSourceTransfers},
	})
	require.NoError(t, err)

	activity, err := env.activityRepo.GetByTransactionID(
		ctx, entity.ActivityKindTypeTransfer, "0xsale1")
	require.NoError(t, err)
	require.Equal(t, entity.ActivityStatusTypeConfirmed, activity.Status)

	buyer, err := env.holdingRepo.GetByOwnerAndItem(ctx, testutil.Buyer1.ID, testutil.Item1.ID)
	require.NoError(t, err)
	require.Len(t, buyer.TokenIDs, 1)
}

func Test_sweepDomain_Verify_transferStale(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	env := newSweepTestEnv()

	// Two sales in flight on different tokens of the same item.
	for i, tokenID := range []string{"token1", "token2"} {
		_, err := env.listingDomain.Create(ctx, &model.CreateItemListingRequest{
			ItemID:            testutil.Item1.ID,
			TokenID:           tokenID,
			OwnerID:           testutil.Seller1.ID,
			Price:             2,
			CollectionAddress: testutil.Collection1.Address,
			TransactionID:     fmt.Sprintf("0xlist%d", i+1),
		})
		require.NoError(t, err)

		_, err = env.listingDomain.AdvanceStatus(ctx, &model.AdvanceListingStatusRequest{
			ItemID:  testutil.Item1.ID,
			TokenID: tokenID,
			OwnerID: testutil.Seller1.ID,
			Price:   2,
			Target:  "active",
		})
		require.NoError(t, err)

		_, err = env.transferDomain.Request(ctx, &model.RequestTransferRequest{
			ItemID:        testutil.Item1.ID,
			TokenID:       tokenID,
			FromUserID:    testutil.Seller1.ID,
			ToUserID:      testutil.Buyer1.ID,
			Price:         2,
			Total:         1,
			TransactionID: fmt.Sprintf("0xsale%d", i+1),
		})
		require.NoError(t, err)
	}

	stale, err := env.activityRepo.GetByTransactionID(
		ctx, entity.ActivityKindTypeTransfer, "0xsale1")
	require.NoError(t, err)
	backdate(t, ctx, &entity.ItemActivity{}, stale.ID)

	// The chain stays unreachable for the whole sweep.
	env.chainCaller.TransactionReceiptFunc = func(
		ctx context.Context, txID string,
	) (*client.TransactionReceipt, error) {
		return nil, errors.New("rpc unavailable")
	}

	_, err = env.sweepDomain.Verify(ctx, &model.VerifyPendingRequest{
		Sources: []string{SweepSourceTransfers},
	})
	require.NoError(t, err)

	// The record past the staleness threshold is parked for manual review.
	activity, err := env.activityRepo.GetByTransactionID(
		ctx, entity.ActivityKindTypeTransfer, "0xsale1")
	require.NoError(t, err)
	require.Equal(t, entity.ActivityStatusTypeFailed, activity.Status)

	// A fresh record with an unreachable chain is inconclusive and kept.
	activity, err = env.activityRepo.GetByTransactionID(
		ctx, entity.ActivityKindTypeTransfer, "0xsale2")
	require.NoError(t, err)
	require.Equal(t, entity.ActivityStatusTypePending, activity.Status)

	// Neither sale settled; no token moved.
	_, err = env.holdingRepo.GetByOwnerAndItem(ctx, testutil.Buyer1.ID, testutil.Item1.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_sweepDomain_Verify_mints(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	env := newSweepTestEnv()

	itemDomain := NewItemDomain(env.itemRepo, repository.NewCollectionRepository())
	createResp, err := itemDomain.Create(ctx, &model.CreateItemRequest{
		CollectionID: testutil.Collection1.ID,
		CreatedBy:    testutil.Seller1.ID,
		Name:         "Fresh Item",
		Supply:       1,
	})
	require.NoError(t, err)

	_, err = itemDomain.ConfirmMint(ctx, &model.ConfirmMintRequest{
		ItemID:        createResp.ID,
		TransactionID: "0xmint1",
	})
	require.NoError(t, err)

	env.chainCaller.TransactionReceiptFunc = func(
		ctx context.Context, txID string,
	) (*client.TransactionReceipt, error) {
		return &client.TransactionReceipt{Success: true, TokenID: "42"}, nil
	}

	_, err = env.sweepDomain.Verify(ctx, &model.VerifyPendingRequest{
		Sources: []string{SweepSourceMints},
	})
	require.NoError(t, err)

	item, err := env.itemRepo.GetByID(ctx, createResp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ItemStatusTypeActive, item.Status)

	holding, err := env.holdingRepo.GetWithToken(ctx, testutil.Seller1.ID, createResp.ID, "42", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"42"}, []string(holding.TokenIDs))
}

func Test_sweepDomain_Verify_mintStale(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	env := newSweepTestEnv()

	itemDomain := NewItemDomain(env.itemRepo, repository.NewCollectionRepository())
	createResp, err := itemDomain.Create(ctx, &model.CreateItemRequest{
		CollectionID: testutil.Collection1.ID,
		CreatedBy:    testutil.Seller1.ID,
		Name:         "Fresh Item",
		Supply:       1,
	})
	require.NoError(t, err)

	_, err = itemDomain.ConfirmMint(ctx, &model.ConfirmMintRequest{
		ItemID:        createResp.ID,
		TransactionID: "0xmint1",
	})
	require.NoError(t, err)
	backdate(t, ctx, &entity.Item{}, createResp.ID)

	env.chainCaller.TransactionReceiptFunc = func(
		ctx context.Context, txID string,
	) (*client.TransactionReceipt, error) {
		return &client.TransactionReceipt{Success: false}, nil
	}

	_, err = env.sweepDomain.Verify(ctx, &model.VerifyPendingRequest{
		Sources: []string{SweepSourceMints},
	})
	require.NoError(t, err)

	item, err := env.itemRepo.GetByID(ctx, createResp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ItemStatusTypeFailed, item.Status)
}

func Test_sweepDomain_Verify_rewards(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	env := newSweepTestEnv()

	require.NoError(t, env.rewardRepo.Create(ctx, &entity.Reward{
		Base:           entity.Base{ID: "reward1"},
		UserID:         testutil.Seller1.ID,
		ClaimableToken: 5,
	}))

	claimResp, err := env.rewardDomain.GenerateClaimSignature(ctx, &model.GenerateClaimSignatureRequest{
		UserID: testutil.Seller1.ID,
	})
	require.NoError(t, err)

	env.chainCaller.ProcessedRewardFunc = func(
		ctx context.Context, txRef string,
	) (*client.RewardReceipt, error) {
		return &client.RewardReceipt{Claimed: true, Amount: ethutil.ConvertToWei(5)}, nil
	}

	_, err = env.sweepDomain.Verify(ctx, &model.VerifyPendingRequest{
		Sources: []string{SweepSourceRewards},
	})
	require.NoError(t, err)

	reward, err := env.rewardRepo.GetByUserID(ctx, testutil.Seller1.ID)
	require.NoError(t, err)
	require.Equal(t, float64(0), reward.ClaimableToken)
	require.Equal(t, float64(5), reward.TotalClaim)

	request, err := env.rewardRepo.GetLatestRequest(ctx, testutil.Seller1.ID)
	require.NoError(t, err)
	require.Equal(t, claimResp.TransactionID, request.TransactionID)
	require.Equal(t, entity.ActivityStatusTypeConfirmed, request.Status)
}
