// Package history serves finalized orders: listing, receipts, status changes
// and the sales summaries.
package history

import (
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/shopspring/decimal"
)

// Summary is an order count and the revenue of those orders
type Summary struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Report pairs today's summary with the all-time one
type Report struct {
	Today Summary `json:"today"`
	All   Summary `json:"all"`
}

// All sums every order in the history. Cancelled orders are counted too.
func All(orders []models.Order) Summary {
	return summarize(orders, func(models.Order) bool { return true })
}

// Today sums the orders created on the same calendar date as now, in now's
// location.
func Today(orders []models.Order, now time.Time) Summary {
	y, m, d := now.Date()
	return summarize(orders, func(o models.Order) bool {
		oy, om, od := o.CreatedAt.In(now.Location()).Date()
		return oy == y && om == m && od == d
	})
}

// Build computes both summaries
func Build(orders []models.Order, now time.Time) Report {
	return Report{
		Today: Today(orders, now),
		All:   All(orders),
	}
}

func summarize(orders []models.Order, include func(models.Order) bool) Summary {
	s := Summary{Revenue: decimal.Zero}
	for _, o := range orders {
		if !include(o) {
			continue
		}
		s.Count++
		s.Revenue = s.Revenue.Add(o.Total)
	}
	return s
}
