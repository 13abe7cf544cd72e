package entity

import (
	"database/sql"

	"github.com/nftmarket-lab/backend/pkg/enum"
)

type ActivityKindType string

var (
	ActivityKindTypeListing  = enum.New(ActivityKindType("listing"))
	ActivityKindTypeCancel   = enum.New(ActivityKindType("cancel"))
	ActivityKindTypeTransfer = enum.New(ActivityKindType("transfer"))
	ActivityKindTypeMint     = enum.New(ActivityKindType("mint"))
	ActivityKindTypeBurn     = enum.New(ActivityKindType("burn"))
	ActivityKindTypeOffer    = enum.New(ActivityKindType("offer"))
)

type ActivityStatusType string

var (
	ActivityStatusTypePending   = enum.New(ActivityStatusType("pending"))
	ActivityStatusTypeConfirmed = enum.New(ActivityStatusType("confirmed"))

	// ActivityStatusTypeFailed means the record exceeded the staleness
	// threshold without confirmation and needs manual review.
	ActivityStatusTypeFailed = enum.New(ActivityStatusType("failed"))
)

// ItemActivity is an append-only intent record bridging off-chain state and
// on-chain confirmation. The only mutation allowed after creation is the
// pending -> confirmed/failed status transition.
type ItemActivity struct {
	Base

	Kind ActivityKindType `gorm:"index"`

	TokenID string

	ItemID int64 `gorm:"index"`
	Item   Item  `gorm:"foreignKey:ItemID"`

	CollectionID      sql.NullString
	CollectionAddress string

	FromUserID string `gorm:"index"`
	FromUser   User   `gorm:"foreignKey:FromUserID"`

	ToUserID string
	ToUser   User `gorm:"foreignKey:ToUserID"`

	Price float64
	Total int

	// TransactionID is the external transaction reference. For transfer
	// records it acts as a dedupe key; the repository rejects a second
	// transfer with the same reference.
	TransactionID string `gorm:"index"`

	Status ActivityStatusType `gorm:"index"`
}
