package models

// VolumeRecord is one row of the unit-volume input table. It is the source of
// truth for physical movement: how many units of a product a customer moved
// through a channel in a fiscal period.
type VolumeRecord struct {
	Period     int     `json:"period"`
	Channel    string  `json:"channel"`
	Category   string  `json:"category"`
	Customer   string  `json:"customer"`
	ProductKey string  `json:"product_key"`
	Units      float64 `json:"units"`
}

// PriceRecord is one row of the list-price / standard-cost input table.
// GtgPct is the goods-to-gross (off-invoice) discount stored as a fraction,
// already divided by 100 at load time.
type PriceRecord struct {
	Period     int     `json:"period"`
	Channel    string  `json:"channel"`
	ProductKey string  `json:"product_key"`
	ListPrice  float64 `json:"list_price"`
	StdCost    float64 `json:"std_cost"`
	GtgPct     float64 `json:"gtg_pct"`
}

// TradeSpendRule is one negotiated deduction line. Multiple rules may share
// (Period, Channel, Category); each applies independently against the same
// gross-sales base.
type TradeSpendRule struct {
	Period      int     `json:"period"`
	Channel     string  `json:"channel"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Percentage  float64 `json:"percentage"`
}

// Inputs bundles the three input tables for a single engine run.
type Inputs struct {
	Volume     []VolumeRecord
	Pricing    []PriceRecord
	TradeSpend []TradeSpendRule
}
