package cron

import (
	"context"
	"time"

	"github.com/nftmarket-lab/backend/internal/domain"
	"github.com/nftmarket-lab/backend/internal/model"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
)

const defaultSweepInterval = 10 * time.Minute

// SweepPendingCronJob periodically reconciles pending listings, mints,
// transfers and reward claims against the chain.
type SweepPendingCronJob struct {
	sweepDomain domain.SweepDomain
	interval    time.Duration
}

func NewSweepPendingCronJob(sweepDomain domain.SweepDomain, interval time.Duration) *SweepPendingCronJob {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &SweepPendingCronJob{sweepDomain: sweepDomain, interval: interval}
}

func (job *SweepPendingCronJob) Do(ctx context.Context) {
	_, err := job.sweepDomain.Verify(ctx, &model.VerifyPendingRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot verify pending records: %v", err)
	}
}

func (job *SweepPendingCronJob) RunNow() bool {
	return true
}

func (job *SweepPendingCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
