package client

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/nftmarket-lab/backend/pkg/ethutil"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
)

const defaultCallTimeout = 5 * time.Second

const marketContractABI = `[
  {
    "inputs": [
      {"name": "collection", "type": "address"},
      {"name": "tokenId", "type": "uint256"},
      {"name": "seller", "type": "address"}
    ],
    "name": "orderByAssetId",
    "outputs": [
      {"name": "id", "type": "uint256"},
      {"name": "seller", "type": "address"},
      {"name": "priceAsset", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const rewardContractABI = `[
  {
    "inputs": [{"name": "requestId", "type": "bytes32"}],
    "name": "processReward",
    "outputs": [
      {"name": "status", "type": "bool"},
      {"name": "receipt", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const erc721ABI = `[
  {
    "inputs": [{"name": "tokenId", "type": "uint256"}],
    "name": "ownerOf",
    "outputs": [{"name": "", "type": "address"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

// ethChainCaller implements ChainCaller against an EVM RPC endpoint. It is
// constructed once and injected; nothing here is process-global.
type ethChainCaller struct {
	client *ethclient.Client

	marketABI  abi.ABI
	rewardABI  abi.ABI
	erc721ABI  abi.ABI
	marketAddr common.Address
	rewardAddr common.Address

	signerKey   *ecdsa.PrivateKey
	callTimeout time.Duration
}

func NewEthChainCaller(ctx context.Context) (*ethChainCaller, error) {
	cfg := xcontext.Configs(ctx).Blockchain

	client, err := ethclient.DialContext(ctx, cfg.RPCEndpoint)
	if err != nil {
		return nil, err
	}

	marketABI, err := abi.JSON(strings.NewReader(marketContractABI))
	if err != nil {
		return nil, err
	}

	rewardABI, err := abi.JSON(strings.NewReader(rewardContractABI))
	if err != nil {
		return nil, err
	}

	erc721, err := abi.JSON(strings.NewReader(erc721ABI))
	if err != nil {
		return nil, err
	}

	var signerKey *ecdsa.PrivateKey
	if cfg.SignerSecretKey != "" {
		signerKey, err = ethcrypto.HexToECDSA(strings.TrimPrefix(cfg.SignerSecretKey, "0x"))
		if err != nil {
			return nil, err
		}
	}

	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}

	return &ethChainCaller{
		client:      client,
		marketABI:   marketABI,
		rewardABI:   rewardABI,
		erc721ABI:   erc721,
		marketAddr:  common.HexToAddress(cfg.MarketContractAddress),
		rewardAddr:  common.HexToAddress(cfg.RewardContractAddress),
		signerKey:   signerKey,
		callTimeout: callTimeout,
	}, nil
}

func (c *ethChainCaller) TransactionReceipt(ctx context.Context, txID string) (*TransactionReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	receipt, err := c.client.TransactionReceipt(ctx, common.HexToHash(txID))
	if err != nil {
		return nil, err
	}

	result := &TransactionReceipt{
		Success: receipt.Status == ethtypes.ReceiptStatusSuccessful,
	}

	// Mint receipts carry the token id as the fourth topic of the transfer
	// event log.
	if len(receipt.Logs) > 0 && len(receipt.Logs[0].Topics) > 3 {
		result.TokenID = receipt.Logs[0].Topics[3].Big().String()
	}

	return result, nil
}

func (c *ethChainCaller) OrderByAsset(
	ctx context.Context, collectionAddress, tokenID, ownerAddress string,
) (*MarketOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	token, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return nil, fmt.Errorf("invalid token id %s", tokenID)
	}

	contract := bind.NewBoundContract(c.marketAddr, c.marketABI, c.client, nil, nil)

	var out []any
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "orderByAssetId",
		common.HexToAddress(collectionAddress), token, common.HexToAddress(ownerAddress))
	if err != nil {
		return nil, err
	}

	return &MarketOrder{
		OrderID:  abi.ConvertType(out[0], new(big.Int)).(*big.Int),
		Seller:   abi.ConvertType(out[1], new(common.Address)).(*common.Address).Hex(),
		PriceWei: abi.ConvertType(out[2], new(big.Int)).(*big.Int),
	}, nil
}

func (c *ethChainCaller) ProcessedReward(ctx context.Context, txRef string) (*RewardReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	contract := bind.NewBoundContract(c.rewardAddr, c.rewardABI, c.client, nil, nil)

	var out []any
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "processReward",
		common.HexToHash(txRef))
	if err != nil {
		return nil, err
	}

	return &RewardReceipt{
		Claimed: *abi.ConvertType(out[0], new(bool)).(*bool),
		Amount:  abi.ConvertType(out[1], new(big.Int)).(*big.Int),
	}, nil
}

func (c *ethChainCaller) IsTokenOwner(
	ctx context.Context, collectionAddress, tokenID, walletAddress string,
) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	token, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return false, fmt.Errorf("invalid token id %s", tokenID)
	}

	contract := bind.NewBoundContract(
		common.HexToAddress(collectionAddress), c.erc721ABI, c.client, nil, nil)

	var out []any
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "ownerOf", token)
	if err != nil {
		return false, err
	}

	owner := abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return strings.EqualFold(owner.Hex(), walletAddress), nil
}

func (c *ethChainCaller) SignMessage(ctx context.Context, fields ...[]byte) (string, error) {
	if c.signerKey == nil {
		return "", fmt.Errorf("no signer key configured")
	}

	signature, err := ethcrypto.Sign(ethutil.HashMessage(fields...).Bytes(), c.signerKey)
	if err != nil {
		return "", err
	}

	return hexutil.Encode(signature), nil
}
