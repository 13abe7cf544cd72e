package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database   DatabaseConfigs
	ApiServer  ServerConfigs
	Blockchain BlockchainConfigs
	Sweep      SweepConfigs
	Redis      RedisConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string

	// TxRetries is the budget of attempts for one atomic unit before it is
	// reported as a conflict.
	TxRetries int
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type BlockchainConfigs struct {
	RPCEndpoint           string
	MarketContractAddress string
	RewardContractAddress string

	// SignerSecretKey is the hex-encoded private key used to issue reward
	// claim signatures. It never signs state-changing transactions.
	SignerSecretKey string

	CallTimeout time.Duration
}

type SweepConfigs struct {
	// StaleAfter is how long a pending record may stay unconfirmed before the
	// sweep gives up and marks it for manual review.
	StaleAfter time.Duration

	// Interval between two sweep runs.
	Interval time.Duration

	// Sources selects which categories the sweep verifies.
	Sources []string
}

type RedisConfigs struct {
	Addr string
}
