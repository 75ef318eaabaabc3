package report

import (
	"github.com/shopspring/decimal"

	"sales_ledger/internal/sales"
)

// Summary holds the aggregate figures of the whole ledger.
// It is derived on demand and never stored.
type Summary struct {
	TotalRevenue     decimal.Decimal      `json:"total_revenue"`
	PendingRevenue   decimal.Decimal      `json:"pending_revenue"`
	DeliveredRevenue decimal.Decimal      `json:"delivered_revenue"`
	CancelledRevenue decimal.Decimal      `json:"cancelled_revenue"`
	NetProfit        decimal.Decimal      `json:"net_profit"`
	CountsByStatus   map[sales.Status]int `json:"counts_by_status"`

	Pending   []sales.Sale `json:"-"`
	Delivered []sales.Sale `json:"-"`
	Cancelled []sales.Sale `json:"-"`
}

// Summarize partitions sales by status and totals them.
// Net profit only counts delivered sales, each minus its catalog unit cost.
func Summarize(all []sales.Sale, catalog Catalog) Summary {
	sum := Summary{
		TotalRevenue:     decimal.Zero,
		PendingRevenue:   decimal.Zero,
		DeliveredRevenue: decimal.Zero,
		CancelledRevenue: decimal.Zero,
		NetProfit:        decimal.Zero,
		CountsByStatus:   make(map[sales.Status]int, len(sales.Statuses)),
		Pending:          []sales.Sale{},
		Delivered:        []sales.Sale{},
		Cancelled:        []sales.Sale{},
	}
	for _, st := range sales.Statuses {
		sum.CountsByStatus[st] = 0
	}

	for _, s := range all {
		sum.TotalRevenue = sum.TotalRevenue.Add(s.Value)
		sum.CountsByStatus[s.Status]++

		switch s.Status {
		case sales.StatusPending:
			sum.Pending = append(sum.Pending, s)
			sum.PendingRevenue = sum.PendingRevenue.Add(s.Value)
		case sales.StatusDelivered:
			sum.Delivered = append(sum.Delivered, s)
			sum.DeliveredRevenue = sum.DeliveredRevenue.Add(s.Value)
			sum.NetProfit = sum.NetProfit.Add(s.Value.Sub(catalog.UnitCost(s.Name)))
		case sales.StatusCancelled:
			sum.Cancelled = append(sum.Cancelled, s)
			sum.CancelledRevenue = sum.CancelledRevenue.Add(s.Value)
		}
	}

	return sum
}

// RecentDelivered returns up to n delivered sales, newest first.
func (s Summary) RecentDelivered(n int) []sales.Sale {
	start := len(s.Delivered) - n
	if start < 0 {
		start = 0
	}
	out := make([]sales.Sale, 0, len(s.Delivered)-start)
	for i := len(s.Delivered) - 1; i >= start; i-- {
		out = append(out, s.Delivered[i])
	}
	return out
}
