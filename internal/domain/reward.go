package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nftmarket-lab/backend/internal/client"
	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/model"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/crypto"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/nftmarket-lab/backend/pkg/ethutil"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardDomain interface {
	Get(context.Context, *model.GetRewardRequest) (*model.GetRewardResponse, error)
	GenerateClaimSignature(context.Context, *model.GenerateClaimSignatureRequest) (*model.GenerateClaimSignatureResponse, error)
	ConfirmClaim(context.Context, *model.ConfirmClaimRequest) (*model.ConfirmClaimResponse, error)
}

type rewardDomain struct {
	rewardRepo  repository.RewardRepository
	userRepo    repository.UserRepository
	chainCaller client.ChainCaller
}

func NewRewardDomain(
	rewardRepo repository.RewardRepository,
	userRepo repository.UserRepository,
	chainCaller client.ChainCaller,
) *rewardDomain {
	return &rewardDomain{
		rewardRepo:  rewardRepo,
		userRepo:    userRepo,
		chainCaller: chainCaller,
	}
}

func (d *rewardDomain) Get(
	ctx context.Context, req *model.GetRewardRequest,
) (*model.GetRewardResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	reward, err := d.rewardRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.GetRewardResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRewardResponse{
		ClaimableToken: reward.ClaimableToken,
		TotalClaim:     reward.TotalClaim,
	}, nil
}

// GenerateClaimSignature issues a signed voucher the user submits to the
// reward contract. One claim per day; the pending request is settled later by
// the sweep once the contract reports it processed.
func (d *rewardDomain) GenerateClaimSignature(
	ctx context.Context, req *model.GenerateClaimSignatureRequest,
) (*model.GenerateClaimSignatureResponse, error) {
	reward, err := d.rewardRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "No reward to claim")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	if reward.ClaimableToken <= 0 {
		return nil, errorx.New(errorx.BadRequest, "No reward to claim")
	}

	latest, err := d.rewardRepo.GetLatestRequest(ctx, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get latest claim request: %v", err)
		return nil, errorx.Unknown
	}

	if err == nil && latest.CreatedAt.After(time.Now().Add(-24*time.Hour)) {
		return nil, errorx.New(errorx.TooManyRequests, "Only one claim per day is allowed")
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	txRef, err := crypto.GenerateRandomHex(32)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate claim reference: %v", err)
		return nil, errorx.Unknown
	}

	signature, err := d.chainCaller.SignMessage(ctx,
		[]byte(txRef),
		[]byte(user.WalletAddress),
		ethutil.ConvertToWei(reward.ClaimableToken).Bytes(),
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sign claim message: %v", err)
		return nil, errorx.Unknown
	}

	err = d.rewardRepo.CreateRequest(ctx, &entity.RewardRequest{
		Base:          entity.Base{ID: uuid.NewString()},
		UserID:        req.UserID,
		TransactionID: txRef,
		Amount:        reward.ClaimableToken,
		Signature:     signature,
		Status:        entity.ActivityStatusTypePending,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create claim request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GenerateClaimSignatureResponse{
		TransactionID: txRef,
		Signature:     signature,
		Amount:        reward.ClaimableToken,
	}, nil
}

// ConfirmClaim settles a pending claim after the reward contract reports it
// processed: the claimed amount moves from claimable to total, and the
// request flips to confirmed.
func (d *rewardDomain) ConfirmClaim(
	ctx context.Context, req *model.ConfirmClaimRequest,
) (*model.ConfirmClaimResponse, error) {
	request, err := d.rewardRepo.GetPendingRequest(ctx, req.UserID, req.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pending claim")
		}

		xcontext.Logger(ctx).Errorf("Cannot get claim request: %v", err)
		return nil, errorx.Unknown
	}

	reward, err := d.rewardRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	err = xcontext.Atomically(ctx, func(ctx context.Context) error {
		if err := d.rewardRepo.AdvanceRequest(ctx, request.ID, entity.ActivityStatusTypeConfirmed); err != nil {
			return err
		}

		reward.TotalClaim += request.Amount
		reward.ClaimableToken -= request.Amount
		if reward.ClaimableToken < 0 {
			reward.ClaimableToken = 0
		}

		return d.rewardRepo.Save(ctx, reward)
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot confirm claim %s: %v", req.TransactionID, err)
		return nil, err
	}

	return &model.ConfirmClaimResponse{}, nil
}
