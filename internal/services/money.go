package services

import "github.com/shopspring/decimal"

// Amounts are stored as float64 but all arithmetic goes through decimal and is
// rounded to paise.
const moneyPlaces = 2

func lineTotal(quantity int, unitPrice float64) float64 {
	total := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	return total.Round(moneyPlaces).InexactFloat64()
}

func roundMoney(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(moneyPlaces).InexactFloat64()
}

func sumMoney(amounts ...float64) float64 {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(decimal.NewFromFloat(amount))
	}
	return total.Round(moneyPlaces).InexactFloat64()
}
