// Package customers derives a customer directory from bills. Nothing here is
// persisted; results are recomputed from whatever bill list the caller holds.
package customers

import (
	"strings"

	"github.com/shopspring/decimal"

	"provision-store/internal/models"
)

// StatusAll disables the payment status filter.
const StatusAll = "all"

type key struct {
	name  string
	phone string
}

// Group buckets bills by (customerName, customerPhone) in first-seen order.
// PaidTotal sums bills marked paid; PendingTotal sums every other status.
func Group(bills []models.Bill) []models.Customer {
	index := make(map[key]int)
	out := make([]models.Customer, 0)
	paid := make([]decimal.Decimal, 0)
	pending := make([]decimal.Decimal, 0)

	for _, bill := range bills {
		k := key{name: bill.CustomerName, phone: bill.CustomerPhone}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, models.Customer{
				Name:  bill.CustomerName,
				Phone: bill.CustomerPhone,
				Bills: make([]models.Bill, 0, 1),
			})
			paid = append(paid, decimal.Zero)
			pending = append(pending, decimal.Zero)
		}

		out[i].Bills = append(out[i].Bills, bill)
		amount := decimal.NewFromFloat(bill.TotalAmount)
		if bill.PaymentStatus == models.PaymentStatusPaid {
			paid[i] = paid[i].Add(amount)
		} else {
			pending[i] = pending[i].Add(amount)
		}
	}

	for i := range out {
		out[i].PaidTotal = paid[i].Round(2).InexactFloat64()
		out[i].PendingTotal = pending[i].Round(2).InexactFloat64()
	}
	return out
}

// Filter keeps customers whose name contains search (case-insensitive) or
// whose phone contains it, and, unless status is empty or "all", who have at
// least one bill with that payment status.
func Filter(list []models.Customer, search, status string) []models.Customer {
	search = strings.TrimSpace(search)
	needle := strings.ToLower(search)
	status = strings.TrimSpace(status)

	out := make([]models.Customer, 0, len(list))
	for _, c := range list {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(c.Phone, search) {
			continue
		}
		if status != "" && status != StatusAll && !hasStatus(c, status) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func Summarize(list []models.Customer) models.CustomerSummary {
	paid := decimal.Zero
	pending := decimal.Zero
	for _, c := range list {
		paid = paid.Add(decimal.NewFromFloat(c.PaidTotal))
		pending = pending.Add(decimal.NewFromFloat(c.PendingTotal))
	}
	return models.CustomerSummary{
		Customers:    len(list),
		PaidTotal:    paid.Round(2).InexactFloat64(),
		PendingTotal: pending.Round(2).InexactFloat64(),
	}
}

func hasStatus(c models.Customer, status string) bool {
	for _, bill := range c.Bills {
		if bill.PaymentStatus == status {
			return true
		}
	}
	return false
}
