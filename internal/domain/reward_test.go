package domain

import (
	"testing"

	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/model"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/nftmarket-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_rewardDomain_GenerateClaimSignature(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	rewardRepo := repository.NewRewardRepository()
	rewardDomain := NewRewardDomain(
		rewardRepo, repository.NewUserRepository(), &testutil.MockChainCaller{})

	// Nothing accrued yet.
	_, err := rewardDomain.GenerateClaimSignature(ctx, &model.GenerateClaimSignatureRequest{
		UserID: testutil.Seller1.ID,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "No reward to claim"), err)

	require.NoError(t, rewardRepo.Create(ctx, &entity.Reward{
		Base:           entity.Base{ID: "reward1"},
		UserID:         testutil.Seller1.ID,
		ClaimableToken: 3,
	}))

	resp, err := rewardDomain.GenerateClaimSignature(ctx, &model.GenerateClaimSignatureRequest{
		UserID: testutil.Seller1.ID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.TransactionID)
	require.NotEmpty(t, resp.Signature)
	require.Equal(t, float64(3), resp.Amount)

	// Only one claim per day.
	_, err = rewardDomain.GenerateClaimSignature(ctx, &model.GenerateClaimSignatureRequest{
		UserID: testutil.Seller1.ID,
	})
	require.Equal(t, errorx.New(errorx.TooManyRequests, "Only one claim per day is allowed"), err)
}

func Test_rewardDomain_Get(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	rewardRepo := repository.NewRewardRepository()
	rewardDomain := NewRewardDomain(
		rewardRepo, repository.NewUserRepository(), &testutil.MockChainCaller{})

	// A user without accruals sees zeros, not an error.
	resp, err := rewardDomain.Get(ctx, &model.GetRewardRequest{UserID: testutil.Buyer1.ID})
	require.NoError(t, err)
	require.Equal(t, float64(0), resp.ClaimableToken)

	require.NoError(t, rewardRepo.Create(ctx, &entity.Reward{
		Base:           entity.Base{ID: "reward1"},
		UserID:         testutil.Seller1.ID,
		ClaimableToken: 2.5,
		TotalClaim:     1,
	}))

	resp, err = rewardDomain.Get(ctx, &model.GetRewardRequest{UserID: testutil.Seller1.ID})
	require.NoError(t, err)
	require.Equal(t, 2.5, resp.ClaimableToken)
	require.Equal(t, float64(1), resp.TotalClaim)
}
