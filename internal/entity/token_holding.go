package entity

// TokenHolding is one holder's claim on token instances of one item. A token
// id appears in at most one holding per item at any time. Holdings are never
// deleted; a depleted holding keeps its row for audit.
type TokenHolding struct {
	Base

	ItemID int64 `gorm:"index:idx_token_holdings_owner_item"`
	Item   Item  `gorm:"foreignKey:ItemID"`

	OwnerID string `gorm:"index:idx_token_holdings_owner_item"`
	Owner   User   `gorm:"foreignKey:OwnerID"`

	TokenIDs Array[string]

	Supply int
}
