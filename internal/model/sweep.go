package model

type VerifyPendingRequest struct {
	// Sources selects which categories to verify: listings, mints,
	// transfers, rewards. Empty means all.
	Sources []string `json:"sources"`
}

type VerifyPendingResponse struct{}
