package mockdata

import (
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/tefas"
)

// historyRecord is one entry of a fund history file. Files exported by the scraper use
// snake_case keys and string prices; files saved from the API use the camel-case keys.
type historyRecord struct {
	Date      string       `json:"Date"`
	Price     tefas.Number `json:"Price"`
	Shares    tefas.Number `json:"NumberOfShares"`
	Investors tefas.Number `json:"NumberOfInvestors"`
	Size      tefas.Number `json:"PortfolioSize"`

	SharesLegacy    tefas.Number `json:"Number_of_Shares"`
	InvestorsLegacy tefas.Number `json:"Number_of_Investors"`
	SizeLegacy      tefas.Number `json:"Portfolio_Size"`
}

func (r historyRecord) point() (model.HistoricalDataPoint, error) {
	date, err := model.ParseDate(r.Date)
	if err != nil {
		return model.HistoricalDataPoint{}, err
	}
	return model.HistoricalDataPoint{
		Date:              date,
		Price:             r.Price.InexactFloat64(),
		SharesOutstanding: firstSet(r.Shares, r.SharesLegacy),
		InvestorCount:     firstSet(r.Investors, r.InvestorsLegacy),
		PortfolioSize:     firstSet(r.Size, r.SizeLegacy),
	}, nil
}

func firstSet(values ...tefas.Number) float64 {
	for _, v := range values {
		if v.IsSet() {
			return v.InexactFloat64()
		}
	}
	return 0
}
