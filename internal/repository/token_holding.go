package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// TokenHoldingRepository is the ownership ledger. Token ids live in a JSON
// array column, so membership checks load the (owner, item) row and inspect
// it in Go; there is exactly one row per pair by construction. All mutations
// are expected to run inside the caller's transaction.
type TokenHoldingRepository interface {
	Create(context.Context, *entity.TokenHolding) error
	GetByOwnerAndItem(ctx context.Context, ownerID string, itemID int64) (*entity.TokenHolding, error)
	// GetWithToken returns the holding only if it currently contains tokenID
	// and its supply is at least minSupply.
	GetWithToken(ctx context.Context, ownerID string, itemID int64, tokenID string, minSupply int) (*entity.TokenHolding, error)
	// GetWithSupply returns the holding only if it holds at least total token
	// instances.
	GetWithSupply(ctx context.Context, ownerID string, itemID int64, total int) (*entity.TokenHolding, error)
	// AddToken adds tokenID to the holding, creating the holding when absent.
	// Adding an already-held token is a no-op.
	AddToken(ctx context.Context, ownerID string, itemID int64, tokenID string) error
	// RemoveToken removes one matching token instance. It fails with
	// gorm.ErrRecordNotFound when the holding or the token is absent.
	RemoveToken(ctx context.Context, ownerID string, itemID int64, tokenID string) error
	// Transfer moves tokenID from one holder to another, creating the
	// destination holding (with the given supply) when absent. It fails with
	// gorm.ErrRecordNotFound when the source does not hold the token.
	Transfer(ctx context.Context, fromID, toID string, itemID int64, tokenID string, supply int) error
	Save(context.Context, *entity.TokenHolding) error
	GetByOwner(ctx context.Context, ownerID string) ([]entity.TokenHolding, error)
}

type tokenHoldingRepository struct{}

func NewTokenHoldingRepository() *tokenHoldingRepository {
	return &tokenHoldingRepository{}
}

func (r *tokenHoldingRepository) Create(ctx context.Context, holding *entity.TokenHolding) error {
	return xcontext.DB(ctx).Create(holding).Error
}

func (r *tokenHoldingRepository) GetByOwnerAndItem(
	ctx context.Context, ownerID string, itemID int64,
) (*entity.TokenHolding, error) {
	var result entity.TokenHolding
	err := xcontext.DB(ctx).
		Where("owner_id = ? AND item_id = ?", ownerID, itemID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *tokenHoldingRepository) GetWithToken(
	ctx context.Context, ownerID string, itemID int64, tokenID string, minSupply int,
) (*entity.TokenHolding, error) {
	holding, err := r.GetByOwnerAndItem(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	if holding.Supply < minSupply || indexOfToken(holding.TokenIDs, tokenID) < 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return holding, nil
}

func (r *tokenHoldingRepository) GetWithSupply(
	ctx context.Context, ownerID string, itemID int64, total int,
) (*entity.TokenHolding, error) {
	holding, err := r.GetByOwnerAndItem(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	if len(holding.TokenIDs) < total {
		return nil, gorm.ErrRecordNotFound
	}

	return holding, nil
}

func (r *tokenHoldingRepository) AddToken(
	ctx context.Context, ownerID string, itemID int64, tokenID string,
) error {
	holding, err := r.GetByOwnerAndItem(ctx, ownerID, itemID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}

		return r.Create(ctx, &entity.TokenHolding{
			Base:     entity.Base{ID: uuid.NewString()},
			ItemID:   itemID,
			OwnerID:  ownerID,
			TokenIDs: entity.Array[string]{tokenID},
			Supply:   1,
		})
	}

	if indexOfToken(holding.TokenIDs, tokenID) >= 0 {
		return nil
	}

	holding.TokenIDs = append(holding.TokenIDs, tokenID)
	return r.Save(ctx, holding)
}

func (r *tokenHoldingRepository) RemoveToken(
	ctx context.Context, ownerID string, itemID int64, tokenID string,
) error {
	holding, err := r.GetByOwnerAndItem(ctx, ownerID, itemID)
	if err != nil {
		return err
	}

	i := indexOfToken(holding.TokenIDs, tokenID)
	if i < 0 {
		return gorm.ErrRecordNotFound
	}

	holding.TokenIDs = append(holding.TokenIDs[:i], holding.TokenIDs[i+1:]...)
	return r.Save(ctx, holding)
}

func (r *tokenHoldingRepository) Transfer(
	ctx context.Context, fromID, toID string, itemID int64, tokenID string, supply int,
) error {
	if err := r.RemoveToken(ctx, fromID, itemID, tokenID); err != nil {
		return err
	}

	receiver, err := r.GetByOwnerAndItem(ctx, toID, itemID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}

		return r.Create(ctx, &entity.TokenHolding{
			Base:     entity.Base{ID: uuid.NewString()},
			ItemID:   itemID,
			OwnerID:  toID,
			TokenIDs: entity.Array[string]{tokenID},
			Supply:   supply,
		})
	}

	if indexOfToken(receiver.TokenIDs, tokenID) >= 0 {
		return nil
	}

	receiver.TokenIDs = append(receiver.TokenIDs, tokenID)
	return r.Save(ctx, receiver)
}

func (r *tokenHoldingRepository) Save(ctx context.Context, holding *entity.TokenHolding) error {
	return xcontext.DB(ctx).Save(holding).Error
}

func (r *tokenHoldingRepository) GetByOwner(ctx context.Context, ownerID string) ([]entity.TokenHolding, error) {
	var result []entity.TokenHolding
	err := xcontext.DB(ctx).
		Where("owner_id = ?", ownerID).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func indexOfToken(tokenIDs []string, tokenID string) int {
	for i := range tokenIDs {
		if tokenIDs[i] == tokenID {
			return i
		}
	}

	return -1
}
