package marketprice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client calls the MOLIT apartment-trade API (getRTMSDataSvcAptTrade).
type Client struct {
	BaseURL    string
	ServiceKey string
	NumOfRows  int

	HTTPClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rows := cfg.NumOfRows
	if rows <= 0 {
		rows = 1000
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		BaseURL:    base,
		ServiceKey: strings.TrimSpace(cfg.ServiceKey),
		NumOfRows:  rows,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetRecentTrades fetches the first page of trades for a 5-digit region code and a
// YYYYMM contract month.
func (c *Client) GetRecentTrades(ctx context.Context, regionCode, yearMonth string) ([]TradeRecord, error) {
	if c.ServiceKey == "" {
		return nil, errors.New("PUBLIC_DATA_DECODING_KEY is not configured")
	}
	if len(regionCode) != 5 {
		return nil, fmt.Errorf("invalid region code %q", regionCode)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid TRADE_API_BASE_URL: %w", err)
	}
	q := u.Query()
	q.Set("serviceKey", c.ServiceKey)
	q.Set("LAWD_CD", regionCode)
	q.Set("DEAL_YMD", yearMonth)
	q.Set("pageNo", "1")
	q.Set("numOfRows", strconv.Itoa(c.NumOfRows))
	q.Set("_type", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trade api request failed: status=%d body=%s", resp.StatusCode, truncate(body, 256))
	}
	return decodeTrades(body)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
