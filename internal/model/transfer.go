package model

type RequestTransferRequest struct {
	ItemID            int64   `json:"item_id"`
	TokenID           string  `json:"token_id"`
	FromUserID        string  `json:"from_user_id"`
	ToUserID          string  `json:"to_user_id"`
	Price             float64 `json:"price"`
	Total             int     `json:"total"`
	TransactionID     string  `json:"transaction_id"`
	CollectionAddress string  `json:"collection_address"`
}

type RequestTransferResponse struct{}

type ConfirmTransferRequest struct {
	TransactionID string `json:"transaction_id"`
}

type ConfirmTransferResponse struct{}
