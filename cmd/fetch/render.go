package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"eodhistdata/eodhd"
)

// printJSON writes v as indented JSON for inspection.
func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling output: %v", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func renderQuote(w io.Writer, format string, quote *eodhd.RealTimeQuote) error {
	if format == "json" {
		return printJSON(w, quote)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Ticker", "Time", "Open", "High", "Low", "Close", "Volume", "Change"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")
	table.Append([]string{
		quote.Code,
		quote.Time().Format("2006-01-02 15:04"),
		fmt.Sprintf("%.2f", quote.Open),
		fmt.Sprintf("%.2f", quote.High),
		fmt.Sprintf("%.2f", quote.Low),
		fmt.Sprintf("%.2f", quote.Close),
		fmt.Sprintf("%d", quote.Volume),
		fmt.Sprintf("%+.2f (%+.2f%%)", quote.Change, quote.ChangePercent),
	})
	table.Render()
	return nil
}

func renderHistory(w io.Writer, format string, quotes []eodhd.HistoricQuote) error {
	if format == "json" {
		return printJSON(w, quotes)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")
	for _, q := range quotes {
		table.Append([]string{
			q.Date,
			fmtPrice(q.Open),
			fmtPrice(q.High),
			fmtPrice(q.Low),
			fmtPrice(q.Close),
			fmt.Sprintf("%.2f", q.AdjustedClose),
			fmtVolume(q.Volume),
		})
	}
	table.Render()

	if len(quotes) == 0 {
		return nil
	}
	summary, err := summarizeHistory(quotes)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d bars, adjusted close mean %.2f, stddev %.2f, range %.2f to %.2f\n",
		summary.Bars, summary.Mean, summary.StdDev, summary.Min, summary.Max)
	return nil
}

func renderDividends(w io.Writer, format string, dividends []eodhd.Dividend) error {
	if format == "json" {
		return printJSON(w, dividends)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Ex-Date", "Declared", "Record", "Payment", "Period", "Amount", "Currency"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")
	for _, d := range dividends {
		table.Append([]string{
			d.Date,
			fmtDate(d.DeclarationDate),
			d.RecordDate,
			d.PaymentDate,
			d.Period,
			fmt.Sprintf("%.4f", d.Value),
			d.Currency,
		})
	}
	table.Render()

	for _, line := range yearlyTotals(dividends) {
		fmt.Fprintln(w, line)
	}
	return nil
}

// yearlyTotals sums the adjusted dividend amounts per ex-date year.
func yearlyTotals(dividends []eodhd.Dividend) []string {
	totals := map[string]float64{}
	for _, d := range dividends {
		year := d.Date
		if len(year) > 4 {
			year = year[:4]
		}
		totals[year] += d.Value
	}

	years := make([]string, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Strings(years)

	lines := make([]string, 0, len(years))
	for _, year := range years {
		lines = append(lines, fmt.Sprintf("%s: %.4f total", year, totals[year]))
	}
	return lines
}

// summaryOutput is the JSON shape of the summary command.
type summaryOutput struct {
	Quote     *eodhd.RealTimeQuote `json:"quote"`
	History   historySummary       `json:"history"`
	Dividends []eodhd.Dividend     `json:"dividends"`
}

func renderSummary(w io.Writer, format string, quote *eodhd.RealTimeQuote, quotes []eodhd.HistoricQuote, dividends []eodhd.Dividend) error {
	// An empty history is a valid answer, e.g. for freshly listed tickers.
	summary := &historySummary{}
	if len(quotes) > 0 {
		s, err := summarizeHistory(quotes)
		if err != nil {
			return err
		}
		summary = s
	}

	if format == "json" {
		return printJSON(w, summaryOutput{Quote: quote, History: *summary, Dividends: dividends})
	}

	if err := renderQuote(w, format, quote); err != nil {
		return err
	}
	if summary.Bars == 0 {
		fmt.Fprintln(w, "Trailing year: no bars")
	} else {
		fmt.Fprintf(w, "Trailing year: %d bars, adjusted close mean %.2f, stddev %.2f, range %.2f to %.2f\n",
			summary.Bars, summary.Mean, summary.StdDev, summary.Min, summary.Max)
	}

	var paid float64
	for _, d := range dividends {
		paid += d.Value
	}
	fmt.Fprintf(w, "Dividends: %d payments, %.4f total\n", len(dividends), paid)
	return nil
}

// historySummary aggregates the adjusted closes of a set of bars.
type historySummary struct {
	Bars   int     `json:"bars"`
	First  string  `json:"first"`
	Last   string  `json:"last"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func summarizeHistory(quotes []eodhd.HistoricQuote) (*historySummary, error) {
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no bars to summarize")
	}

	closes := make([]float64, 0, len(quotes))
	for _, q := range quotes {
		closes = append(closes, q.AdjustedClose)
	}

	mean, err := stats.Mean(closes)
	if err != nil {
		return nil, fmt.Errorf("computing mean: %w", err)
	}
	sd, err := stats.StandardDeviation(closes)
	if err != nil {
		return nil, fmt.Errorf("computing stddev: %w", err)
	}
	lo, err := stats.Min(closes)
	if err != nil {
		return nil, fmt.Errorf("computing min: %w", err)
	}
	hi, err := stats.Max(closes)
	if err != nil {
		return nil, fmt.Errorf("computing max: %w", err)
	}

	return &historySummary{
		Bars:   len(quotes),
		First:  quotes[0].Date,
		Last:   quotes[len(quotes)-1].Date,
		Mean:   mean,
		StdDev: sd,
		Min:    lo,
		Max:    hi,
	}, nil
}

// csvQuote is the CSV row format of the history export.
type csvQuote struct {
	Date          string   `csv:"date"`
	Open          *float64 `csv:"open"`
	High          *float64 `csv:"high"`
	Low           *float64 `csv:"low"`
	Close         *float64 `csv:"close"`
	AdjustedClose float64  `csv:"adjusted_close"`
	Volume        *int64   `csv:"volume"`
}

func writeHistoryCSV(path string, quotes []eodhd.HistoricQuote) error {
	rows := make([]csvQuote, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, csvQuote{
			Date:          q.Date,
			Open:          q.Open,
			High:          q.High,
			Low:           q.Low,
			Close:         q.Close,
			AdjustedClose: q.AdjustedClose,
			Volume:        q.Volume,
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("error marshalling file: %v", err)
	}
	return nil
}

func fmtPrice(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func fmtVolume(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func fmtDate(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}
