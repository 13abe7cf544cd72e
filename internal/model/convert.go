package model

import (
	"time"

	"github.com/nftmarket-lab/backend/internal/entity"
)

func ConvertItemListing(listing *entity.ItemListing) ItemListing {
	if listing == nil {
		return ItemListing{}
	}

	var expiredAt *time.Time
	if listing.ExpiredAt.Valid {
		t := listing.ExpiredAt.Time
		expiredAt = &t
	}

	return ItemListing{
		ID:                listing.ID,
		ItemID:            listing.ItemID,
		TokenID:           listing.TokenID,
		CollectionAddress: listing.CollectionAddress,
		OwnerID:           listing.OwnerID,
		Price:             listing.Price,
		SalePrice:         listing.SalePrice.Float64,
		ExpiredAt:         expiredAt,
		Status:            string(listing.Status),
		CreatedAt:         listing.CreatedAt,
	}
}

func ConvertTokenHolding(holding *entity.TokenHolding) TokenHolding {
	if holding == nil {
		return TokenHolding{}
	}

	return TokenHolding{
		ID:       holding.ID,
		ItemID:   holding.ItemID,
		OwnerID:  holding.OwnerID,
		TokenIDs: holding.TokenIDs,
		Supply:   holding.Supply,
	}
}
