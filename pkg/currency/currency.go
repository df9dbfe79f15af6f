// Package currency provides standardized currency handling across the
// application. All monetary amounts are decimal.Decimal to avoid
// floating-point errors; formatting here is presentation-only.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	INR Currency = "INR" // Indian Rupee
	JPY Currency = "JPY" // Japanese Yen
	CAD Currency = "CAD" // Canadian Dollar
	AUD Currency = "AUD" // Australian Dollar
	CHF Currency = "CHF" // Swiss Franc
)

// DefaultCurrency is the home currency when none is configured.
const DefaultCurrency = INR

// Info contains display metadata about a currency.
type Info struct {
	Code          Currency
	Name          string
	Symbol        string
	DecimalPlaces int
}

var currencies = map[Currency]Info{
	USD: {Code: USD, Name: "US Dollar", Symbol: "$", DecimalPlaces: 2},
	EUR: {Code: EUR, Name: "Euro", Symbol: "€", DecimalPlaces: 2},
	GBP: {Code: GBP, Name: "British Pound", Symbol: "£", DecimalPlaces: 2},
	INR: {Code: INR, Name: "Indian Rupee", Symbol: "₹", DecimalPlaces: 0},
	JPY: {Code: JPY, Name: "Japanese Yen", Symbol: "¥", DecimalPlaces: 0},
	CAD: {Code: CAD, Name: "Canadian Dollar", Symbol: "C$", DecimalPlaces: 2},
	AUD: {Code: AUD, Name: "Australian Dollar", Symbol: "A$", DecimalPlaces: 2},
	CHF: {Code: CHF, Name: "Swiss Franc", Symbol: "CHF", DecimalPlaces: 2},
}

// Supported returns all supported currency codes.
func Supported() []Currency {
	return []Currency{USD, EUR, GBP, INR, JPY, CAD, AUD, CHF}
}

// IsValid checks if a currency code is supported.
func IsValid(code string) bool {
	_, ok := currencies[Currency(code)]
	return ok
}

// GetInfo returns metadata for a currency code.
func GetInfo(code Currency) (Info, bool) {
	info, ok := currencies[code]
	return info, ok
}

// Format renders an amount with the currency's symbol and decimal places.
// Unknown codes fall back to the home currency symbol, matching how a
// single-user install treats stray codes.
func Format(amount decimal.Decimal, code string) string {
	info, ok := currencies[Currency(code)]
	if !ok {
		info = currencies[DefaultCurrency]
	}
	return fmt.Sprintf("%s%s", info.Symbol, amount.StringFixed(int32(info.DecimalPlaces)))
}
