package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Dividend is a single dividend payment.
type Dividend struct {
	Currency string `json:"currency"`
	// Date is the ex-dividend date in the format 2006-01-02.
	Date string `json:"date"`
	// DeclarationDate is nil when the API does not report one.
	DeclarationDate *string `json:"declarationDate"`
	PaymentDate     string  `json:"paymentDate"`
	Period          string  `json:"period"`
	RecordDate      string  `json:"recordDate"`
	// UnadjustedValue is the paid amount, Value the amount adjusted for splits.
	UnadjustedValue float64 `json:"unadjustedValue"`
	Value           float64 `json:"value"`
}

// GetDividendHistory retrieves the dividend history for the given ticker
// starting at from.
func (c *Client) GetDividendHistory(ctx context.Context, ticker string, from time.Time) ([]Dividend, error) {
	params := url.Values{}
	params.Add("from", from.Format(dateLayout))

	requestURL := fmt.Sprintf("%s/div/%s?%s", c.baseURL, ticker, c.queryString(params))

	var dividends = []Dividend{}
	if err := c.get(ctx, requestURL, &dividends); err != nil {
		return nil, err
	}
	return dividends, nil
}
