package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// HistoricQuote is a single end-of-day bar.
//
// Open, High, Low, Close and Volume are nil for days the API reports without
// trading data; Date and AdjustedClose are always present.
type HistoricQuote struct {
	// Date is the quote date in the format 2006-01-02.
	Date          string   `json:"date"`
	Open          *float64 `json:"open"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	Close         *float64 `json:"close"`
	AdjustedClose float64  `json:"adjusted_close"`
	Volume        *int64   `json:"volume"`
}

// GetQuoteHistory retrieves the daily end-of-day history for the given ticker
// between start and end, both inclusive.
func (c *Client) GetQuoteHistory(ctx context.Context, ticker string, start, end time.Time) ([]HistoricQuote, error) {
	params := url.Values{}
	params.Add("from", start.Format(dateLayout))
	params.Add("to", end.Format(dateLayout))
	// The endpoint also serves weekly and monthly bars, this client always
	// requests daily ones.
	params.Add("period", "d")

	requestURL := fmt.Sprintf("%s/eod/%s?%s", c.baseURL, ticker, c.queryString(params))

	var quotes = []HistoricQuote{}
	if err := c.get(ctx, requestURL, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}
