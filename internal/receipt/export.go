package receipt

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/zombor/receipt-splitter/internal/splitting"
)

// totalRow is one line of the results CSV
type totalRow struct {
	Name   string `csv:"name"`
	Amount string `csv:"amount"`
	Items  string `csv:"items"`
}

// totalsCSV writes one row per participant with the amount owed rounded to
// two decimals and the items it is made of.
func totalsCSV(totals []splitting.PersonTotal) ([]byte, error) {
	rows := make([]*totalRow, 0, len(totals))
	for _, total := range totals {
		names := make([]string, 0, len(total.Shares))
		for _, share := range total.Shares {
			names = append(names, share.ItemName)
		}
		rows = append(rows, &totalRow{
			Name:   total.Name,
			Amount: total.Amount.StringFixed(2),
			Items:  strings.Join(names, "; "),
		})
	}

	var buf bytes.Buffer
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))); err != nil {
		return nil, fmt.Errorf("writing CSV data: %w", err)
	}
	return buf.Bytes(), nil
}
