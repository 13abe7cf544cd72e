package repository

import (
	"context"

	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
)

type ItemListingFilter struct {
	ItemID  int64
	TokenID string
	OwnerID string
	Price   float64
	Status  entity.ListingStatusType
}

type ItemListingRepository interface {
	Create(context.Context, *entity.ItemListing) error
	GetByID(context.Context, string) (*entity.ItemListing, error)
	// GetLatestByFilter returns the most recently created listing matching
	// the filter. Repeated list/cancel/list cycles leave several rows behind
	// the same tuple; most-recent-wins is the tie-break policy.
	GetLatestByFilter(context.Context, ItemListingFilter) (*entity.ItemListing, error)
	// GetLatestByTuple is GetLatestByFilter without the status predicate; the
	// reconciliation sweep branches on whatever status the listing ended up in.
	GetLatestByTuple(ctx context.Context, itemID int64, tokenID, ownerID string, price float64) (*entity.ItemListing, error)
	UpdateStatusByID(ctx context.Context, id string, status entity.ListingStatusType) error
	GetListByOwner(ctx context.Context, ownerID string) ([]entity.ItemListing, error)
}

type itemListingRepository struct{}

func NewItemListingRepository() *itemListingRepository {
	return &itemListingRepository{}
}

func (r *itemListingRepository) Create(ctx context.Context, listing *entity.ItemListing) error {
	return xcontext.DB(ctx).Create(listing).Error
}

func (r *itemListingRepository) GetByID(ctx context.Context, id string) (*entity.ItemListing, error) {
	var result entity.ItemListing
	if err := xcontext.DB(ctx).Take(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *itemListingRepository) GetLatestByFilter(
	ctx context.Context, filter ItemListingFilter,
) (*entity.ItemListing, error) {
	tx := xcontext.DB(ctx).
		Where("item_id = ?", filter.ItemID).
		Where("owner_id = ?", filter.OwnerID).
		Where("price = ?", filter.Price).
		Where("status = ?", filter.Status)

	// The supersede lookup in transfer confirmation has no token id.
	if filter.TokenID != "" {
		tx = tx.Where("token_id = ?", filter.TokenID)
	}

	var result entity.ItemListing
	if err := tx.Order("created_at DESC").First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *itemListingRepository) GetLatestByTuple(
	ctx context.Context, itemID int64, tokenID, ownerID string, price float64,
) (*entity.ItemListing, error) {
	var result entity.ItemListing
	err := xcontext.DB(ctx).
		Where("item_id = ?", itemID).
		Where("token_id = ?", tokenID).
		Where("owner_id = ?", ownerID).
		Where("price = ?", price).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *itemListingRepository) UpdateStatusByID(
	ctx context.Context, id string, status entity.ListingStatusType,
) error {
	return xcontext.DB(ctx).
		Model(&entity.ItemListing{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *itemListingRepository) GetListByOwner(
	ctx context.Context, ownerID string,
) ([]entity.ItemListing, error) {
	var result []entity.ItemListing
	err := xcontext.DB(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
