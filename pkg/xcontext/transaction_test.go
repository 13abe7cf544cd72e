package xcontext_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/nftmarket-lab/backend/pkg/testutil"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestAtomically_commit(t *testing.T) {
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()

	err := xcontext.Atomically(ctx, func(ctx context.Context) error {
		return userRepo.Create(ctx, &entity.User{
			Base:          entity.Base{ID: "user1"},
			WalletAddress: "0xabc",
		})
	})
	require.NoError(t, err)

	_, err = userRepo.GetByID(ctx, "user1")
	require.NoError(t, err)
}

func TestAtomically_rollbackOnBusinessError(t *testing.T) {
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()

	attempts := 0
	err := xcontext.Atomically(ctx, func(ctx context.Context) error {
		attempts++
		if err := userRepo.Create(ctx, &entity.User{
			Base:          entity.Base{ID: "user1"},
			WalletAddress: "0xabc",
		}); err != nil {
			return err
		}

		return errorx.New(errorx.BadRequest, "Give up")
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Give up"), err)

	// Business errors are not retried and the write is rolled back.
	require.Equal(t, 1, attempts)
	_, err = userRepo.GetByID(ctx, "user1")
	require.Error(t, err)
}

func TestAtomically_retriesTransientErrors(t *testing.T) {
	ctx := testutil.MockContext()

	attempts := 0
	err := xcontext.Atomically(ctx, func(ctx context.Context) error {
		attempts++
		return errors.New("deadlock")
	})

	// MockContext configures three attempts; after the budget the unit is
	// reported as a conflict.
	require.Equal(t, 3, attempts)
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Cannot commit after 3 attempts"), err)
}
