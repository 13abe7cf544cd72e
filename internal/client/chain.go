package client

import (
	"context"
	"math/big"
)

// TransactionReceipt is the distilled result of an on-chain receipt lookup.
type TransactionReceipt struct {
	Success bool

	// TokenID is the minted token id recovered from the receipt logs, empty
	// when the receipt carries none.
	TokenID string
}

// MarketOrder is a sell order as the market contract reports it.
type MarketOrder struct {
	OrderID  *big.Int
	Seller   string
	PriceWei *big.Int
}

// RewardReceipt is the reward contract's view of one claim reference.
type RewardReceipt struct {
	Claimed bool
	Amount  *big.Int
}

// ChainCaller is the injected chain capability used by the transfer,
// ownership and sweep flows. Every call is fallible; a returned error means
// "inconclusive", never a negative confirmation.
type ChainCaller interface {
	TransactionReceipt(ctx context.Context, txID string) (*TransactionReceipt, error)
	OrderByAsset(ctx context.Context, collectionAddress, tokenID, ownerAddress string) (*MarketOrder, error)
	ProcessedReward(ctx context.Context, txRef string) (*RewardReceipt, error)
	IsTokenOwner(ctx context.Context, collectionAddress, tokenID, walletAddress string) (bool, error)
	SignMessage(ctx context.Context, fields ...[]byte) (string, error)
}
