package main

import (
	"github.com/nftmarket-lab/backend/internal/domain/cron"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadSnowFlake()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadChainCaller()
	s.loadRedisClient()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewSweepPendingCronJob(
		s.sweepDomain, xcontext.Configs(s.ctx).Sweep.Interval))
	cronJobManager.Register(cron.NewTrendingCollectionCronJob(s.collectionRepo, s.redisClient))
	cronJobManager.Start(s.ctx)

	return nil
}
