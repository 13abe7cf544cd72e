package repository

import (
	"context"

	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardRepository interface {
	Create(context.Context, *entity.Reward) error
	GetByUserID(context.Context, string) (*entity.Reward, error)
	Save(context.Context, *entity.Reward) error

	CreateRequest(context.Context, *entity.RewardRequest) error
	GetPendingRequests(ctx context.Context) ([]entity.RewardRequest, error)
	GetPendingRequest(ctx context.Context, userID, txID string) (*entity.RewardRequest, error)
	GetLatestRequest(ctx context.Context, userID string) (*entity.RewardRequest, error)
	AdvanceRequest(ctx context.Context, id string, status entity.ActivityStatusType) error
}

type rewardRepository struct{}

func NewRewardRepository() *rewardRepository {
	return &rewardRepository{}
}

func (r *rewardRepository) Create(ctx context.Context, reward *entity.Reward) error {
	return xcontext.DB(ctx).Create(reward).Error
}

func (r *rewardRepository) GetByUserID(ctx context.Context, userID string) (*entity.Reward, error) {
	var result entity.Reward
	if err := xcontext.DB(ctx).Take(&result, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *rewardRepository) Save(ctx context.Context, reward *entity.Reward) error {
	return xcontext.DB(ctx).Save(reward).Error
}

func (r *rewardRepository) CreateRequest(ctx context.Context, request *entity.RewardRequest) error {
	return xcontext.DB(ctx).Create(request).Error
}

func (r *rewardRepository) GetPendingRequests(ctx context.Context) ([]entity.RewardRequest, error) {
	var result []entity.RewardRequest
	err := xcontext.DB(ctx).
		Where("status = ?", entity.ActivityStatusTypePending).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) GetPendingRequest(
	ctx context.Context, userID, txID string,
) (*entity.RewardRequest, error) {
	var result entity.RewardRequest
	err := xcontext.DB(ctx).
		Where("user_id = ? AND transaction_id = ?", userID, txID).
		Where("status = ?", entity.ActivityStatusTypePending).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *rewardRepository) GetLatestRequest(ctx context.Context, userID string) (*entity.RewardRequest, error) {
	var result entity.RewardRequest
	err := xcontext.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *rewardRepository) AdvanceRequest(
	ctx context.Context, id string, status entity.ActivityStatusType,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.RewardRequest{}).
		Where("id = ? AND status = ?", id, entity.ActivityStatusTypePending).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
