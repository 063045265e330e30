package models

import "time"

// Market identifies the exchange segment a ticker trades on.
type Market string

const (
	MarketPrimary   Market = "PRIMARY"
	MarketSecondary Market = "SECONDARY"
)

// PriceBar is a single OHLCV record, ascending by date within a series.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Mover is a ranked market-mover entry returned by candidate selection.
type Mover struct {
	Ticker string
	Name   string
	Market Market
}

// Candidate is a read-only per-run snapshot of one ticker under analysis.
type Candidate struct {
	Ticker      string
	Name        string
	Market      Market
	Bars        []PriceBar // ascending by date
	LatestPrice float64
	High52      float64 // 52-period high
}

// FlowRecord holds one day of foreign/institutional net buying for a ticker.
type FlowRecord struct {
	Date             time.Time
	ForeignNet       int64
	InstitutionalNet int64
}

// NewsItem is one headline plus summary fed into sentiment analysis.
type NewsItem struct {
	Title   string
	Summary string
}
