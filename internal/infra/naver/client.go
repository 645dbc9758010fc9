// Package naver is a price-only fallback source over the Naver Finance
// polling API. It backs up the KIS latest-price lookup in real mode and
// is never used for order placement.
package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client handles Naver Finance API requests
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Naver client
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    "https://polling.finance.naver.com/api/realtime/domestic/stock",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// realtimeResponse represents Naver realtime API response
type realtimeResponse struct {
	Datas []struct {
		ClosePrice string `json:"closePrice"` // 현재가 (comma-formatted)
	} `json:"datas"`
}

// LatestPrice fetches the current price from Naver Finance.
func (c *Client) LatestPrice(ctx context.Context, symbol string) (int64, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("naver API error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var realtimeResp realtimeResponse
	if err := json.Unmarshal(respBody, &realtimeResp); err != nil {
		return 0, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(realtimeResp.Datas) == 0 {
		return 0, fmt.Errorf("no data for symbol %s", symbol)
	}

	price, err := strconv.ParseInt(strings.ReplaceAll(realtimeResp.Datas[0].ClosePrice, ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price: %w", err)
	}
	return price, nil
}
