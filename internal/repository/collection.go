package repository

import (
	"context"

	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CollectionRepository interface {
	Create(context.Context, *entity.Collection) error
	GetByID(context.Context, string) (*entity.Collection, error)
	GetByAddress(context.Context, string) (*entity.Collection, error)
	IncreaseActivityCount(ctx context.Context, id string, delta int64) error
	GetMostActive(ctx context.Context, limit int) ([]entity.Collection, error)
}

type collectionRepository struct{}

func NewCollectionRepository() *collectionRepository {
	return &collectionRepository{}
}

func (r *collectionRepository) Create(ctx context.Context, collection *entity.Collection) error {
	return xcontext.DB(ctx).Create(collection).Error
}

func (r *collectionRepository) GetByID(ctx context.Context, id string) (*entity.Collection, error) {
	var result entity.Collection
	if err := xcontext.DB(ctx).Take(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *collectionRepository) GetByAddress(ctx context.Context, address string) (*entity.Collection, error) {
	var result entity.Collection
	if err := xcontext.DB(ctx).Take(&result, "address = ?", address).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *collectionRepository) IncreaseActivityCount(ctx context.Context, id string, delta int64) error {
	return xcontext.DB(ctx).
		Model(&entity.Collection{}).
		Where("id = ?", id).
		Update("activity_count", gorm.Expr("activity_count + ?", delta)).Error
}

func (r *collectionRepository) GetMostActive(ctx context.Context, limit int) ([]entity.Collection, error) {
	var result []entity.Collection
	err := xcontext.DB(ctx).
		Order("activity_count DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
