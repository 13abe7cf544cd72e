package entity

import (
	"context"

	"github.com/nftmarket-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Collection{},
		&Item{},
		&TokenHolding{},
		&ItemListing{},
		&ItemActivity{},
		&Reward{},
		&RewardRequest{},
	)
}
