package testutil

import (
	"context"

	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/repository"
)

// Fixture records shared across tests. Seller1 holds two instances of Item1
// (token1 and token2); Buyer1 holds nothing.
var (
	Seller1 = entity.User{
		Base:          entity.Base{ID: "seller1"},
		WalletAddress: "0x00000000000000000000000000000000000000a1",
		Username:      "seller1",
	}

	Buyer1 = entity.User{
		Base:          entity.Base{ID: "buyer1"},
		WalletAddress: "0x00000000000000000000000000000000000000b1",
		Username:      "buyer1",
	}

	Collection1 = entity.Collection{
		Base:      entity.Base{ID: "collection1"},
		Name:      "Collection 1",
		Address:   "0x00000000000000000000000000000000000000c1",
		CreatedBy: Seller1.ID,
	}

	Item1 = entity.Item{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1},
		CollectionID:  Collection1.ID,
		CreatedBy:     Seller1.ID,
		Name:          "Item 1",
		Supply:        2,
		Status:        entity.ItemStatusTypeActive,
	}

	Holding1 = entity.TokenHolding{
		Base:     entity.Base{ID: "holding1"},
		ItemID:   Item1.ID,
		OwnerID:  Seller1.ID,
		TokenIDs: entity.Array[string]{"token1", "token2"},
		Supply:   2,
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertCollections(ctx)
	InsertItems(ctx)
	InsertHoldings(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{Seller1, Buyer1} {
		u := user
		if err := userRepo.Create(ctx, &u); err != nil {
			panic(err)
		}
	}
}

func InsertCollections(ctx context.Context) {
	collectionRepo := repository.NewCollectionRepository()

	c := Collection1
	if err := collectionRepo.Create(ctx, &c); err != nil {
		panic(err)
	}
}

func InsertItems(ctx context.Context) {
	itemRepo := repository.NewItemRepository()

	i := Item1
	if err := itemRepo.Create(ctx, &i); err != nil {
		panic(err)
	}
}

func InsertHoldings(ctx context.Context) {
	holdingRepo := repository.NewTokenHoldingRepository()

	h := Holding1
	h.TokenIDs = append(entity.Array[string]{}, Holding1.TokenIDs...)
	if err := holdingRepo.Create(ctx, &h); err != nil {
		panic(err)
	}
}
