package model

type TokenHolding struct {
	ID       string   `json:"id"`
	ItemID   int64    `json:"item_id"`
	OwnerID  string   `json:"owner_id"`
	TokenIDs []string `json:"token_ids"`
	Supply   int      `json:"supply"`
}

type UpdateItemOwnerRequest struct {
	ItemID            int64   `json:"item_id"`
	TokenID           string  `json:"token_id"`
	CollectionAddress string  `json:"collection_address"`
	OldOwnerAddress   string  `json:"old_owner_address"`
	NewOwnerAddress   string  `json:"new_owner_address"`
	Price             float64 `json:"price"`
}

type UpdateItemOwnerResponse struct{}

type GetOwnerItemsRequest struct {
	OwnerID string `json:"owner_id" form:"owner_id"`
}

type GetOwnerItemsResponse struct {
	Holdings []TokenHolding `json:"holdings"`
}
