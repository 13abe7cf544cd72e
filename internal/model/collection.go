package model

type Collection struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	CreatedBy     string `json:"created_by"`
	ActivityCount int64  `json:"activity_count"`
}

type CreateCollectionRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type CreateCollectionResponse struct {
	ID string `json:"id"`
}

type GetTrendingCollectionsRequest struct {
	Limit int `json:"limit" form:"limit"`
}

type GetTrendingCollectionsResponse struct {
	Collections []Collection `json:"collections"`
}
