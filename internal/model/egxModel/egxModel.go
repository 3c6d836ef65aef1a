package egxModel

import "github.com/shopspring/decimal"

// RawQuotesResponse mirrors the quote feed payload as served.
type RawQuotesResponse struct {
	Quotes []RawQuote `json:"quotes"`
}

type RawQuote struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Sector    string   `json:"sector"`
	LastPrice *float64 `json:"last_price"`
	Currency  string   `json:"currency"`
	Status    string   `json:"status"`
}

// StockQuote is the parsed, validated form handed to the rest of the app.
type StockQuote struct {
	Symbol string
	Name   string
	Sector string
	Price  decimal.Decimal
	Active bool
}
