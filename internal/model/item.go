package model

type CreateItemRequest struct {
	CollectionID string `json:"collection_id"`
	CreatedBy    string `json:"created_by"`
	Name         string `json:"name"`
	Supply       int    `json:"supply"`
}

type CreateItemResponse struct {
	ID int64 `json:"id"`
}

type ConfirmMintRequest struct {
	ItemID        int64  `json:"item_id"`
	TransactionID string `json:"transaction_id"`
}

type ConfirmMintResponse struct{}
