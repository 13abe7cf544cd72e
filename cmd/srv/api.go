package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nftmarket-lab/backend/pkg/router"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadSnowFlake()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadChainCaller()
	s.loadRedisClient()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port %s", cfg.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New()
	s.router.Before(func(ctx context.Context) context.Context {
		// Each request inherits the fully loaded server context, including the
		// shared database handle.
		return s.ctx
	})

	// Listing API
	router.POST(s.router, "/createItemListing", s.listingDomain.Create)
	router.POST(s.router, "/cancelItemListing", s.listingDomain.CancelRequest)
	router.POST(s.router, "/updateItemListingStatus", s.listingDomain.AdvanceStatus)
	router.GET(s.router, "/getOwnerListings", s.listingDomain.GetByOwner)

	// Transfer API
	router.POST(s.router, "/requestTransferItem", s.transferDomain.Request)
	router.POST(s.router, "/confirmTransferItem", s.transferDomain.Confirm)

	// Ownership API
	router.POST(s.router, "/updateItemOwner", s.ownershipDomain.UpdateOwner)
	router.GET(s.router, "/getOwnerItems", s.ownershipDomain.GetOwnerItems)

	// Item API
	router.POST(s.router, "/createItem", s.itemDomain.Create)
	router.POST(s.router, "/confirmMintItem", s.itemDomain.ConfirmMint)

	// Collection API
	router.POST(s.router, "/createCollection", s.collectionDomain.Create)
	router.GET(s.router, "/getTrendingCollections", s.collectionDomain.GetTrending)

	// Reward API
	router.GET(s.router, "/getReward", s.rewardDomain.Get)
	router.POST(s.router, "/claimReward", s.rewardDomain.GenerateClaimSignature)

	// Sweep API
	router.POST(s.router, "/syncData", s.sweepDomain.Verify)
}
