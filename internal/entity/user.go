package entity

type User struct {
	Base

	// WalletAddress is stored lowercase so lookups by address are
	// case-insensitive.
	WalletAddress string `gorm:"index:idx_users_wallet_address,unique"`
	Username      string
}
