package eodhd

import (
	"context"
	"fmt"
	"time"
)

// RealTimeQuote is a delayed real-time quote for a single ticker.
type RealTimeQuote struct {
	// Code is the ticker the quote belongs to.
	Code string `json:"code"`
	// Timestamp is the quote time in seconds since the Unix epoch.
	Timestamp int64   `json:"timestamp"`
	GMTOffset int     `json:"gmtoffset"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	// PreviousClose is the closing price of the previous trading day.
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	// ChangePercent is the change relative to the previous close in percent.
	ChangePercent float64 `json:"change_p"`
}

// Time returns the quote timestamp as a time.Time in UTC.
func (q *RealTimeQuote) Time() time.Time {
	return time.Unix(q.Timestamp, 0).UTC()
}

// GetLatestQuote retrieves the latest delayed quote for the given ticker.
// Tickers follow the {SYMBOL}.{EXCHANGE_ID} convention, e.g. "AAPL.US".
func (c *Client) GetLatestQuote(ctx context.Context, ticker string) (*RealTimeQuote, error) {
	url := fmt.Sprintf("%s/real-time/%s?%s", c.baseURL, ticker, c.queryString(nil))

	var quote RealTimeQuote
	if err := c.get(ctx, url, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}
