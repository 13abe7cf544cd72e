package entity

type Collection struct {
	Base

	Name string

	// Address is the on-chain contract address backing this collection.
	Address string `gorm:"index"`

	CreatedBy     string
	CreatedByUser User `gorm:"foreignKey:CreatedBy"`

	// ActivityCount feeds the trending score; incremented on every confirmed
	// sale of an item in this collection.
	ActivityCount int64
}
