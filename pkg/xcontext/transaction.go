package xcontext

import (
	"context"
	"errors"

	"github.com/nftmarket-lab/backend/pkg/errorx"
	"gorm.io/gorm"
)

const defaultTxRetries = 5

// Atomically runs fn inside a database transaction and retries the whole unit
// from scratch when the commit fails for a transient reason (write conflict,
// deadlock). A business error (errorx.Error) returned by fn rolls the unit
// back and is surfaced without retrying, because re-running cannot change it.
// When the retry budget is exhausted, the unit is reported as a conflict.
func Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := Configs(ctx).Database.TxRetries
	if attempts <= 0 {
		attempts = defaultTxRetries
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = DB(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(WithDB(ctx, tx))
		})
		if err == nil {
			return nil
		}

		var errx errorx.Error
		if errors.As(err, &errx) {
			return err
		}

		Logger(ctx).Warnf("Retrying transaction after failed attempt %d: %v", i+1, err)
	}

	Logger(ctx).Errorf("Transaction gave up after %d attempts: %v", attempts, err)
	return errorx.New(errorx.AlreadyExists, "Cannot commit after %d attempts", attempts)
}
