package tefas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// DefaultFundListURL is the Takasbank page listing every fund traded on TEFAS.
const DefaultFundListURL = "https://www.takasbank.com.tr/tr/kaynaklar/tefas-yatirim-fonlari"

// maxFundListPages stops a listing whose pagination never ends.
const maxFundListPages = 500

// FundLister discovers the funds published on TEFAS.
type FundLister interface {
	FundList(ctx context.Context) (model.FundDirectory, error)
}

// FundListClient pages through the Takasbank fund table.
type FundListClient struct {
	httpClient *http.Client
	baseURL    string
	extraFunds string
}

// NewFundListClient creates a client for baseURL. An empty baseURL selects DefaultFundListURL.
func NewFundListClient(baseURL string) *FundListClient {
	if baseURL == "" {
		baseURL = DefaultFundListURL
	}
	return &FundListClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// WithExtraFunds merges the funds listed in the JSON file at path into every listing.
// A missing file is ignored.
func (c *FundListClient) WithExtraFunds(path string) *FundListClient {
	c.extraFunds = path
	return c
}

// FundList returns every fund on the Takasbank listing plus the extra funds.
// A page that cannot be fetched ends the listing early; an empty result is an error.
func (c *FundListClient) FundList(ctx context.Context) (model.FundDirectory, error) {
	funds := model.FundDirectory{}

	var pageErr error
	for page := 1; page <= maxFundListPages; page++ {
		rows, hasNext, err := c.page(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("fund list stopped at page %d: %v", page, err)
			pageErr = err
			break
		}
		if len(rows) == 0 {
			break
		}
		for symbol, name := range rows {
			funds[symbol] = name
		}
		if !hasNext {
			break
		}
	}

	if c.extraFunds != "" {
		extra, err := readExtraFundsFile(c.extraFunds)
		if err != nil {
			log.Printf("failed to read extra funds: %v", err)
		}
		for symbol, name := range extra {
			funds[symbol] = name
		}
	}

	if len(funds) == 0 {
		if pageErr != nil {
			return nil, fmt.Errorf("failed to list funds: %w", pageErr)
		}
		return nil, errors.New("failed to list funds: listing is empty")
	}
	return funds, nil
}

func (c *FundListClient) page(ctx context.Context, page int) (model.FundDirectory, bool, error) {
	url := c.baseURL + "?page=" + strconv.Itoa(page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return ParseFundListPage(resp.Body)
}

// ParseFundListPage reads one page of the fund table. Rows of exactly two cells are
// (name, symbol) pairs; anything else is skipped. hasNext reports whether the page
// links to a following one.
func ParseFundListPage(r io.Reader) (funds model.FundDirectory, hasNext bool, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse fund list: %w", err)
	}

	table := doc.Find("tbody").First()
	if table.Length() == 0 {
		return nil, false, errors.New("fund list table not found")
	}

	funds = model.FundDirectory{}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != 2 {
			return
		}
		name := strings.TrimSpace(cells.Eq(0).Text())
		symbol := strings.ToUpper(strings.TrimSpace(cells.Eq(1).Text()))
		if symbol != "" {
			funds[symbol] = name
		}
	})

	hasNext = doc.Find("ul.pagination a.next").Length() > 0
	return funds, hasNext, nil
}

// extraFund is one entry of the extra funds file.
type extraFund struct {
	Name   string `json:"fund_name"`
	Symbol string `json:"fund_symbol"`
}

// ReadExtraFunds decodes a JSON list of {"fund_name", "fund_symbol"} objects. Entries
// missing either field are skipped.
func ReadExtraFunds(r io.Reader) (model.FundDirectory, error) {
	var entries []extraFund
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode extra funds: %w", err)
	}

	funds := model.FundDirectory{}
	for _, e := range entries {
		symbol := strings.ToUpper(strings.TrimSpace(e.Symbol))
		name := strings.TrimSpace(e.Name)
		if symbol == "" || name == "" {
			continue
		}
		funds[symbol] = name
	}
	return funds, nil
}

func readExtraFundsFile(path string) (model.FundDirectory, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadExtraFunds(f)
}
