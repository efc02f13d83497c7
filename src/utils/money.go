package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// RoundMoney rounds to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FormatMoney renders an amount the way list views display it, e.g. "$1,755.00".
func FormatMoney(d decimal.Decimal) string {
	cents := d.Shift(MoneyPlaces).Round(0).IntPart()
	return money.New(cents, BaseCurrency).Display()
}
