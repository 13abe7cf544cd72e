package entity

import "time"

type RewardAccrual struct {
	ActivityID string    `json:"activity_id"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// Reward is one user's running reward balance, accrued on confirmed sales.
type Reward struct {
	Base

	UserID string `gorm:"index:idx_rewards_user_id,unique"`
	User   User   `gorm:"foreignKey:UserID"`

	ClaimableToken float64
	TotalClaim     float64

	Accruals Array[RewardAccrual]
}

// RewardRequest is a pending claim: a signature was issued for the user to
// submit on chain, and the sweep confirms it against the reward contract.
type RewardRequest struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	TransactionID string `gorm:"index"`
	Amount        float64
	Signature     string

	Status ActivityStatusType `gorm:"index"`
}
