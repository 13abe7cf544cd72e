package entity

import (
	"github.com/nftmarket-lab/backend/pkg/enum"
)

type ItemStatusType string

var (
	// ItemStatusTypePending means the item was created off chain but its mint
	// transaction has not been confirmed yet.
	ItemStatusTypePending = enum.New(ItemStatusType("pending"))
	ItemStatusTypeActive  = enum.New(ItemStatusType("active"))

	// ItemStatusTypeFailed marks a mint that stayed unconfirmed past the
	// staleness threshold and needs manual review.
	ItemStatusTypeFailed = enum.New(ItemStatusType("failed"))
)

type Item struct {
	SnowFlakeBase

	CollectionID string
	Collection   Collection `gorm:"foreignKey:CollectionID"`

	CreatedBy     string
	CreatedByUser User `gorm:"foreignKey:CreatedBy"`

	Name   string
	Supply int

	// TransactionID is the mint transaction hash, set when the creator
	// confirms the mint was submitted on chain. Empty until then.
	TransactionID string `gorm:"index"`

	Status ItemStatusType `gorm:"index"`
}
