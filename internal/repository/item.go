package repository

import (
	"context"

	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
)

type ItemRepository interface {
	Create(context.Context, *entity.Item) error
	GetByID(context.Context, int64) (*entity.Item, error)
	UpdateStatusByID(ctx context.Context, id int64, status entity.ItemStatusType) error
	SetTransactionByID(ctx context.Context, id int64, txID string) error
	// GetAllPendingMints returns pending items whose mint transaction was
	// already submitted (empty transaction id means the creator has not
	// confirmed yet).
	GetAllPendingMints(ctx context.Context) ([]entity.Item, error)
}

type itemRepository struct{}

func NewItemRepository() *itemRepository {
	return &itemRepository{}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	return xcontext.DB(ctx).Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	var result entity.Item
	if err := xcontext.DB(ctx).Take(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *itemRepository) UpdateStatusByID(ctx context.Context, id int64, status entity.ItemStatusType) error {
	return xcontext.DB(ctx).
		Model(&entity.Item{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *itemRepository) SetTransactionByID(ctx context.Context, id int64, txID string) error {
	return xcontext.DB(ctx).
		Model(&entity.Item{}).
		Where("id = ?", id).
		Update("transaction_id", txID).Error
}

func (r *itemRepository) GetAllPendingMints(ctx context.Context) ([]entity.Item, error) {
	var result []entity.Item
	err := xcontext.DB(ctx).
		Where("status = ?", entity.ItemStatusTypePending).
		Where("transaction_id <> ''").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
