package model

import "time"

type ItemListing struct {
	ID                string     `json:"id"`
	ItemID            int64      `json:"item_id"`
	TokenID           string     `json:"token_id"`
	CollectionAddress string     `json:"collection_address"`
	OwnerID           string     `json:"owner_id"`
	Price             float64    `json:"price"`
	SalePrice         float64    `json:"sale_price,omitempty"`
	ExpiredAt         *time.Time `json:"expired_at,omitempty"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
}

type CreateItemListingRequest struct {
	ItemID            int64      `json:"item_id"`
	TokenID           string     `json:"token_id"`
	OwnerID           string     `json:"owner_id"`
	Price             float64    `json:"price"`
	CollectionAddress string     `json:"collection_address"`
	TransactionID     string     `json:"transaction_id"`
	ExpiredAt         *time.Time `json:"expired_at"`
}

type CreateItemListingResponse struct {
	Listing ItemListing `json:"listing"`
}

type CancelItemListingRequest struct {
	ItemID            int64   `json:"item_id"`
	TokenID           string  `json:"token_id"`
	OwnerID           string  `json:"owner_id"`
	Price             float64 `json:"price"`
	CollectionAddress string  `json:"collection_address"`
	TransactionID     string  `json:"transaction_id"`
}

type CancelItemListingResponse struct{}

type AdvanceListingStatusRequest struct {
	ItemID  int64   `json:"item_id"`
	TokenID string  `json:"token_id"`
	OwnerID string  `json:"owner_id"`
	Price   float64 `json:"price"`

	// Target is the on-chain-confirmed status: "active" confirms a listing,
	// "cancel" confirms a cancellation.
	Target string `json:"target"`
}

type AdvanceListingStatusResponse struct {
	// Advanced is false when no matching pending activity was found; that is
	// "nothing to do", not a failure.
	Advanced bool `json:"advanced"`
}

type GetOwnerListingsRequest struct {
	OwnerID string `json:"owner_id" form:"owner_id"`
}

type GetOwnerListingsResponse struct {
	Listings []ItemListing `json:"listings"`
}
