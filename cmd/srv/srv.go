package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nftmarket-lab/backend/config"
	"github.com/nftmarket-lab/backend/internal/client"
	"github.com/nftmarket-lab/backend/internal/domain"
	"github.com/nftmarket-lab/backend/internal/entity"
	"github.com/nftmarket-lab/backend/internal/repository"
	"github.com/nftmarket-lab/backend/pkg/logger"
	"github.com/nftmarket-lab/backend/pkg/router"
	"github.com/nftmarket-lab/backend/pkg/xcontext"
	"github.com/nftmarket-lab/backend/pkg/xredis"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context

	userRepo       repository.UserRepository
	collectionRepo repository.CollectionRepository
	itemRepo       repository.ItemRepository
	holdingRepo    repository.TokenHoldingRepository
	listingRepo    repository.ItemListingRepository
	activityRepo   repository.ItemActivityRepository
	rewardRepo     repository.RewardRepository

	listingDomain    domain.ListingDomain
	transferDomain   domain.TransferDomain
	ownershipDomain  domain.OwnershipDomain
	itemDomain       domain.ItemDomain
	rewardDomain     domain.RewardDomain
	sweepDomain      domain.SweepDomain
	collectionDomain domain.CollectionDomain

	chainCaller client.ChainCaller
	redisClient xredis.Client

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	cfg := config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:      getEnv("MYSQL_HOST", "localhost"),
			Port:      getEnv("MYSQL_PORT", "3306"),
			Database:  getEnv("MYSQL_DATABASE", "nftmarket"),
			User:      getEnv("MYSQL_USER", "root"),
			Password:  getEnv("MYSQL_PASSWORD", "mysql"),
			TxRetries: getEnvAsInt("DATABASE_TX_RETRIES", 5),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("HOST", "localhost"),
			Port: getEnv("PORT", "8080"),
			Cert: getEnv("SERVER_CERT", ""),
			Key:  getEnv("SERVER_KEY", ""),
		},
		Blockchain: config.BlockchainConfigs{
			RPCEndpoint:           getEnv("CHAIN_RPC_ENDPOINT", "http://localhost:8545"),
			MarketContractAddress: getEnv("MARKET_CONTRACT_ADDRESS", ""),
			RewardContractAddress: getEnv("REWARD_CONTRACT_ADDRESS", ""),
			SignerSecretKey:       getEnv("SIGNER_SECRET_KEY", ""),
			CallTimeout:           getEnvAsDuration("CHAIN_CALL_TIMEOUT", 5*time.Second),
		},
		Sweep: config.SweepConfigs{
			StaleAfter: getEnvAsDuration("SWEEP_STALE_AFTER", 6*time.Hour),
			Interval:   getEnvAsDuration("SWEEP_INTERVAL", 10*time.Minute),
			Sources:    getEnvAsList("SWEEP_SOURCES"),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadSnowFlake() {
	node, err := snowflake.NewNode(int64(getEnvAsInt("SNOWFLAKE_NODE", 0)))
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) newDatabase() *gorm.DB {
	db, err := gorm.Open(mysql.Open(
		xcontext.Configs(s.ctx).Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.collectionRepo = repository.NewCollectionRepository()
	s.itemRepo = repository.NewItemRepository()
	s.holdingRepo = repository.NewTokenHoldingRepository()
	s.listingRepo = repository.NewItemListingRepository()
	s.activityRepo = repository.NewItemActivityRepository()
	s.rewardRepo = repository.NewRewardRepository()
}

func (s *srv) loadChainCaller() {
	caller, err := client.NewEthChainCaller(s.ctx)
	if err != nil {
		panic(err)
	}

	s.chainCaller = caller
}

func (s *srv) loadRedisClient() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadDomains() {
	s.listingDomain = domain.NewListingDomain(s.listingRepo, s.activityRepo, s.holdingRepo)
	s.transferDomain = domain.NewTransferDomain(
		s.holdingRepo, s.listingRepo, s.activityRepo, s.itemRepo, s.collectionRepo, s.rewardRepo)
	s.ownershipDomain = domain.NewOwnershipDomain(
		s.holdingRepo, s.listingRepo, s.userRepo, s.chainCaller)
	s.itemDomain = domain.NewItemDomain(s.itemRepo, s.collectionRepo)
	s.rewardDomain = domain.NewRewardDomain(s.rewardRepo, s.userRepo, s.chainCaller)
	s.sweepDomain = domain.NewSweepDomain(
		s.activityRepo, s.listingRepo, s.itemRepo, s.holdingRepo, s.rewardRepo, s.userRepo,
		s.chainCaller, s.listingDomain, s.transferDomain, s.rewardDomain)
	s.collectionDomain = domain.NewCollectionDomain(s.collectionRepo, s.redisClient)
}

func getEnv(key, def string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return def
}

func getEnvAsInt(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}

	return n
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}

	return d
}

func getEnvAsList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}
