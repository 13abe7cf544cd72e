package model

type GetRewardRequest struct {
	UserID string `json:"user_id" form:"user_id"`
}

type GetRewardResponse struct {
	ClaimableToken float64 `json:"claimable_token"`
	TotalClaim     float64 `json:"total_claim"`
}

type GenerateClaimSignatureRequest struct {
	UserID string `json:"user_id"`
}

type GenerateClaimSignatureResponse struct {
	TransactionID string  `json:"transaction_id"`
	Signature     string  `json:"signature"`
	Amount        float64 `json:"amount"`
}

type ConfirmClaimRequest struct {
	UserID        string `json:"user_id"`
	TransactionID string `json:"transaction_id"`
}

type ConfirmClaimResponse struct{}
