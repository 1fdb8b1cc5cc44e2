package store

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

// chainRow is one CSV row of an option chain export. Optional columns may
// be empty; gocsv leaves the pointers nil.
type chainRow struct {
	Strike       decimal.Decimal  `csv:"strike"`
	OptionType   string           `csv:"option_type"`
	Bid          *decimal.Decimal `csv:"bid"`
	Ask          *decimal.Decimal `csv:"ask"`
	Mark         *decimal.Decimal `csv:"mark"`
	Delta        *decimal.Decimal `csv:"delta"`
	ImpliedVol   *decimal.Decimal `csv:"implied_vol"`
	Volume       *int64           `csv:"volume"`
	OpenInterest *int64           `csv:"open_interest"`
}

// ReadChainCSV parses an option chain CSV into contract data. Rows with an
// unknown option type fail the whole import; a partial chain would skew
// every downstream calculation.
func ReadChainCSV(r io.Reader) ([]models.OptionContractData, error) {
	var rows []chainRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse chain csv: %w", err)
	}

	contracts := make([]models.OptionContractData, 0, len(rows))
	for i, row := range rows {
		optType, err := models.ParseOptionType(strings.TrimSpace(row.OptionType))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		contracts = append(contracts, models.OptionContractData{
			Strike:       row.Strike,
			OptionType:   optType,
			Bid:          row.Bid,
			Ask:          row.Ask,
			Mark:         row.Mark,
			Delta:        row.Delta,
			ImpliedVol:   row.ImpliedVol,
			Volume:       row.Volume,
			OpenInterest: row.OpenInterest,
		})
	}
	return contracts, nil
}
