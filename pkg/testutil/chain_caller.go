package testutil

import (
	"context"
	"errors"

	"github.com/nftmarket-lab/backend/internal/client"
)

type MockChainCaller struct {
	TransactionReceiptFunc func(ctx context.Context, txID string) (*client.TransactionReceipt, error)
	OrderByAssetFunc       func(ctx context.Context, collectionAddress, tokenID, ownerAddress string) (*client.MarketOrder, error)
	ProcessedRewardFunc    func(ctx context.Context, txRef string) (*client.RewardReceipt, error)
	IsTokenOwnerFunc       func(ctx context.Context, collectionAddress, tokenID, walletAddress string) (bool, error)
	SignMessageFunc        func(ctx context.Context, fields ...[]byte) (string, error)
}

func (c *MockChainCaller) TransactionReceipt(
	ctx context.Context, txID string,
) (*client.TransactionReceipt, error) {
	if c.TransactionReceiptFunc != nil {
		return c.TransactionReceiptFunc(ctx, txID)
	}

	return nil, errors.New("not implemented")
}

func (c *MockChainCaller) OrderByAsset(
	ctx context.Context, collectionAddress, tokenID, ownerAddress string,
) (*client.MarketOrder, error) {
	if c.OrderByAssetFunc != nil {
		return c.OrderByAssetFunc(ctx, collectionAddress, tokenID, ownerAddress)
	}

	return nil, errors.New("not implemented")
}

func (c *MockChainCaller) ProcessedReward(
	ctx context.Context, txRef string,
) (*client.RewardReceipt, error) {
	if c.ProcessedRewardFunc != nil {
		return c.ProcessedRewardFunc(ctx, txRef)
	}

	return nil, errors.New("not implemented")
}

func (c *MockChainCaller) IsTokenOwner(
	ctx context.Context, collectionAddress, tokenID, walletAddress string,
) (bool, error) {
	if c.IsTokenOwnerFunc != nil {
		return c.IsTokenOwnerFunc(ctx, collectionAddress, tokenID, walletAddress)
	}

	return false, errors.New("not implemented")
}

func (c *MockChainCaller) SignMessage(ctx context.Context, fields ...[]byte) (string, error) {
	if c.SignMessageFunc != nil {
		return c.SignMessageFunc(ctx, fields...)
	}

	return "0xsignature", nil
}
