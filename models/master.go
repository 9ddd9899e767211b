package models

// MasterRow is one fully joined and waterfalled dimensional slice, keyed on
// (Period, Channel, Category, Customer, ProductKey). Rows are created once per
// engine run and never mutated afterwards.
type MasterRow struct {
	Period     int    `json:"period"`
	Channel    string `json:"channel"`
	Category   string `json:"category"`
	Customer   string `json:"customer"`
	ProductKey string `json:"product_key"`

	Units float64 `json:"units"`

	// Joined pricing fields, zero-filled when the price table has no match.
	ListPrice float64 `json:"list_price"`
	StdCost   float64 `json:"std_cost"`
	GtgPct    float64 `json:"gtg_pct"`

	// Pivoted trade-spend percentage per type, zero-filled per type.
	SpendPct map[string]float64 `json:"spend_pct"`

	// Derived waterfall fields.
	GrossSales      float64            `json:"gross_sales"`
	OffInvoice      float64            `json:"off_invoice"`
	NetTradeSales   float64            `json:"net_trade_sales"`
	SpendValue      map[string]float64 `json:"spend_value"`
	TradeSpendValue float64            `json:"trade_spend_value"`
	NetTotalSales   float64            `json:"net_total_sales"`
	COGS            float64            `json:"cogs"`
	GrossProfit     float64            `json:"gross_profit"`
	GPMarginPct     float64            `json:"gp_margin_pct"`
}

// PVMResult decomposes the period-over-period change in net total sales for
// one category into price, volume and mix effects. The effects always sum to
// TotalDelta.
type PVMResult struct {
	Category     string  `json:"category"`
	PriceEffect  float64 `json:"price_effect"`
	VolumeEffect float64 `json:"volume_effect"`
	MixEffect    float64 `json:"mix_effect"`
	TotalDelta   float64 `json:"total_delta"`
}

// LedgerLine is one exploded accounting row. Value carries the absolute
// magnitude of the underlying contribution; direction is implied by the
// account and not retained here.
type LedgerLine struct {
	Period      int     `json:"period"`
	Channel     string  `json:"channel"`
	Customer    string  `json:"customer"`
	Category    string  `json:"category"`
	ProductKey  string  `json:"product_key"`
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Value       float64 `json:"value"`
}

// JoinStats counts rows whose join keys had no counterpart and were
// zero-filled. The counts are diagnostic only; unmatched keys are not errors.
type JoinStats struct {
	UnmatchedPrice int `json:"unmatched_price"`
	UnmatchedSpend int `json:"unmatched_spend"`
}

// Result is the complete output of one engine run.
type Result struct {
	RunID     string `json:"run_id"`
	InputHash string `json:"input_hash"`

	Master []MasterRow  `json:"master"`
	PVM    []PVMResult  `json:"pvm"`
	Ledger []LedgerLine `json:"ledger"`

	// PVMSkipped is set when no previous-period data exists; the bridge is
	// then reported as insufficient data rather than an error.
	PVMSkipped     bool `json:"pvm_skipped"`
	CurrentPeriod  int  `json:"current_period"`
	PreviousPeriod int  `json:"previous_period"`

	JoinStats JoinStats `json:"join_stats"`
}
