package models

// SummaryRecord keeps monthly per-platform business metrics entered by the team.
type SummaryRecord struct {
	BaseModel
	MonthKey string `gorm:"index:idx_summary_month_platform,unique" json:"month_key"` // YYYY-MM
	Platform string `gorm:"index:idx_summary_month_platform,unique" json:"platform"`

	TotalRevenue    float64 `json:"total_revenue"`
	TotalOrders     int     `json:"total_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
	ReturnedOrders  int     `json:"returned_orders"`
	CancelledAmount float64 `json:"cancelled_amount"`
	ReturnedAmount  float64 `json:"returned_amount"`
	AdSpend         float64 `json:"ad_spend"`
}

// RealRevenue is revenue minus cancelled and returned amounts.
func (r *SummaryRecord) RealRevenue() float64 {
	return r.TotalRevenue - r.CancelledAmount - r.ReturnedAmount
}

// NetProfit is real revenue minus ad spend.
func (r *SummaryRecord) NetProfit() float64 {
	return r.RealRevenue() - r.AdSpend
}

// Commission applies the team's commission policy: a 5% base rate plus half of
// the headroom under a 20% ad-spend ratio. Domain policy carried over as-is.
func (r *SummaryRecord) Commission() float64 {
	netProfit := r.NetProfit()
	if netProfit <= 0 {
		return 0
	}

	adRate := 0.0
	if r.TotalRevenue > 0 {
		adRate = r.AdSpend / r.TotalRevenue * 100
	}

	const fixedRate = 5.0
	commissionRate := fixedRate
	if adRate < 20 {
		commissionRate = (20-adRate)/2 + fixedRate
	}

	return netProfit * commissionRate / 100
}
