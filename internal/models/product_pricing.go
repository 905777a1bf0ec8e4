package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProductPricing is one costed line item in the pricing workbook.
type ProductPricing struct {
	BaseModel

	ItemCode     string `gorm:"not null;index" json:"itemCode"`
	ItemCodeBase string `json:"itemCodeBase"`
	Category     string `json:"category,omitempty"`
	SubCategory  string `json:"subCategory,omitempty"`
	Location     string `json:"location,omitempty"`

	Brand               string `json:"brand,omitempty"`
	ProductName         string `json:"productName,omitempty"`
	MaterialDescription string `json:"materialDescription,omitempty"`
	ReferenceImageURL   string `json:"referenceImageUrl,omitempty"`
	MaterialImageURL    string `json:"materialImageUrl,omitempty"`

	Quantity     int    `gorm:"default:1" json:"quantity"`
	Comments     string `json:"comments,omitempty"`
	InternalNote string `json:"internalNote,omitempty"`

	ListPriceEUR      float64 `gorm:"column:list_price_eur" json:"listPriceEur"`
	ListPriceUSD      float64 `gorm:"column:list_price_usd" json:"listPriceUsd"`
	ListPriceRMB      float64 `gorm:"column:list_price_rmb" json:"listPriceRmb"`
	ListPriceGBP      float64 `gorm:"column:list_price_gbp" json:"listPriceGbp"`
	SupplierDiscount  float64 `json:"supplierDiscount"`
	CostLocalCurrency float64 `json:"costLocalCurrency"`
	ExchangeRate      float64 `json:"exchangeRate"`
	TargetGP          float64 `gorm:"column:target_gp" json:"targetGp"`
	UnitBudget        float64 `json:"unitBudget"`
	TotalBudget       float64 `json:"totalBudget"`

	// No FK constraint: history rows outlive the line they describe, the
	// final entry being the DELETE snapshot.
	Histories []ProductPricingHistory `gorm:"foreignKey:ProductPricingID;constraint:-" json:"-"`
}

func (ProductPricing) TableName() string {
	return "product_pricings"
}

// Pricing history change types.
const (
	PricingChangeCreate = "CREATE"
	PricingChangeUpdate = "UPDATE"
	PricingChangeDelete = "DELETE"
)

// ProductPricingHistory records one mutation of a pricing row. Snapshot holds
// the full row as JSON at the time of the change so per-column history can be
// reconstructed without mirroring every pricing column.
type ProductPricingHistory struct {
	ID               uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductPricingID uint           `gorm:"not null;index" json:"productPricingId"`
	ChangeType       string         `gorm:"not null" json:"changeType"`
	ChangedBy        string         `json:"changedBy"`
	ChangedAt        time.Time      `gorm:"index" json:"changedAt"`
	Snapshot         datatypes.JSON `json:"snapshot"`
}

func (ProductPricingHistory) TableName() string {
	return "product_pricing_histories"
}
