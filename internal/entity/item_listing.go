package entity

import (
	"database/sql"

	"github.com/nftmarket-lab/backend/pkg/enum"
)

type ListingStatusType string

var (
	// ListingStatusTypeDeactive is the state of a freshly created listing
	// awaiting its on-chain confirmation.
	ListingStatusTypeDeactive = enum.New(ListingStatusType("deactive"))
	ListingStatusTypeActive   = enum.New(ListingStatusType("active"))
	ListingStatusTypeSaled    = enum.New(ListingStatusType("saled"))
	ListingStatusTypeCancel   = enum.New(ListingStatusType("cancel"))

	// ListingStatusTypeOther marks a listing the sweep or a confirm flow gave
	// up on; it needs manual review.
	ListingStatusTypeOther = enum.New(ListingStatusType("other"))
)

type ItemListing struct {
	Base

	ItemID int64 `gorm:"index:idx_item_listings_lookup"`
	Item   Item  `gorm:"foreignKey:ItemID"`

	TokenID string `gorm:"index:idx_item_listings_lookup"`

	CollectionAddress string

	OwnerID string `gorm:"index:idx_item_listings_lookup"`
	Owner   User   `gorm:"foreignKey:OwnerID"`

	Price     float64 `gorm:"index:idx_item_listings_lookup"`
	SalePrice sql.NullFloat64

	ExpiredAt sql.NullTime

	Status ListingStatusType `gorm:"index"`
}
