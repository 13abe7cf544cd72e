package repository

import (
	"context"
	"errors"

	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// ErrDuplicatedTransaction reports a second transfer record reusing an
// already registered transaction reference.
var ErrDuplicatedTransaction = errors.New("transaction reference already registered")

// ItemActivityRepository is append-only: the single permitted mutation is the
// pending -> confirmed/failed status transition through Advance.
type ItemActivityRepository interface {
	// Create fails with ErrDuplicatedTransaction when a transfer record with
	// the same transaction reference already exists.
	Create(context.Context, *entity.ItemActivity) error
	GetByID(context.Context, string) (*entity.ItemActivity, error)
	GetByTransactionID(ctx context.Context, kind entity.ActivityKindType, txID string) (*entity.ItemActivity, error)
	ExistsByTransactionID(ctx context.Context, txID string) (bool, error)
	// GetLatestPending returns the most recently created pending record
	// matching the listing tuple; most-recent-wins, same as listings.
	GetLatestPending(ctx context.Context, kind entity.ActivityKindType, itemID int64, tokenID, fromUserID string, price float64) (*entity.ItemActivity, error)
	GetAllPending(ctx context.Context, kinds ...entity.ActivityKindType) ([]entity.ItemActivity, error)
	// Advance moves a pending record to the given terminal status. It fails
	// with gorm.ErrRecordNotFound when the record is absent or already
	// terminal.
	Advance(ctx context.Context, id string, status entity.ActivityStatusType) error
}

type itemActivityRepository struct{}

func NewItemActivityRepository() *itemActivityRepository {
	return &itemActivityRepository{}
}

func (r *itemActivityRepository) Create(ctx context.Context, activity *entity.ItemActivity) error {
	// Each transfer reference settles exactly once. The check runs on the
	// caller's database handle, so inside a transaction it sees concurrent
	// inserts of the same reference.
	if activity.Kind == entity.ActivityKindTypeTransfer {
		var count int64
		err := xcontext.DB(ctx).
			Model(&entity.ItemActivity{}).
			Where("kind = ? AND transaction_id = ?",
				entity.ActivityKindTypeTransfer, activity.TransactionID).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count > 0 {
			return ErrDuplicatedTransaction
		}
	}

	return xcontext.DB(ctx).Create(activity).Error
}

func (r *itemActivityRepository) GetByID(ctx context.Context, id string) (*entity.ItemActivity, error) {
	var result entity.ItemActivity
	if err := xcontext.DB(ctx).Take(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *itemActivityRepository) GetByTransactionID(
	ctx context.Context, kind entity.ActivityKindType, txID string,
) (*entity.ItemActivity, error) {
	var result entity.ItemActivity
	err := xcontext.DB(ctx).
		Where("kind = ? AND transaction_id = ?", kind, txID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *itemActivityRepository) ExistsByTransactionID(ctx context.Context, txID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.ItemActivity{}).
		Where("transaction_id = ?", txID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *itemActivityRepository) GetLatestPending(
	ctx context.Context,
	kind entity.ActivityKindType,
	itemID int64,
	tokenID, fromUserID string,
	price float64,
) (*entity.ItemActivity, error) {
	var result entity.ItemActivity
	err := xcontext.DB(ctx).
		Where("kind = ?", kind).
		Where("item_id = ?", itemID).
		Where("token_id = ?", tokenID).
		Where("from_user_id = ?", fromUserID).
		Where("price = ?", price).
		Where("status = ?", entity.ActivityStatusTypePending).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *itemActivityRepository) GetAllPending(
	ctx context.Context, kinds ...entity.ActivityKindType,
) ([]entity.ItemActivity, error) {
	var result []entity.ItemActivity
	err := xcontext.DB(ctx).
		Where("status = ?", entity.ActivityStatusTypePending).
		Where("kind IN (?)", kinds).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *itemActivityRepository) Advance(
	ctx context.Context, id string, status entity.ActivityStatusType,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ItemActivity{}).
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
