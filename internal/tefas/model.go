package tefas

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Response is the raw body returned by the history endpoint.
type Response struct {
	Data *[]Record `json:"data"`
}

// Record is one fund-day as published by TEFAS. Numeric fields arrive either as JSON
// numbers or as strings depending on the field and the endpoint version.
type Record struct {
	Date          Number `json:"TARIH"`
	Symbol        string `json:"FONKODU"`
	Name          string `json:"FONUNVAN"`
	Price         Number `json:"FIYAT"`
	Shares        Number `json:"TEDPAYSAYISI"`
	Investors     Number `json:"KISISAYISI"`
	PortfolioSize Number `json:"PORTFOYBUYUKLUK"`
	ExchangePrice Number `json:"BORSABULTENFIYAT"`
}

// Number is a decimal that decodes from a JSON number, a numeric string or null.
// Empty strings, "-" and null decode to zero and leave the number unset.
type Number struct {
	decimal.Decimal
	set bool
}

// IsSet reports whether the number was decoded from an actual value.
func (n Number) IsSet() bool {
	return n.set
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	n.Decimal, n.set = decimal.Zero, false
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" || raw == "-" {
			return nil
		}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", string(data), err)
	}
	n.Decimal, n.set = d, true
	return nil
}
