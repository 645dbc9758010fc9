package kis

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/wonny/kisfolio/internal/domain/broker"
	"github.com/wonny/kisfolio/internal/domain/order"
	"github.com/wonny/kisfolio/internal/domain/quote"
)

// Client is the real brokerage backend over the KIS open API. It
// implements broker.Broker; order placement is never retried here.
type Client struct {
	auth               *TokenManager
	baseURL            string
	accountNo          string
	accountProductCode string
	custType           string
	isPaper            bool
	httpClient         *http.Client
}

// Options configures the KIS client.
type Options struct {
	AppKey    string
	AppSecret string
	Account   string // CANO-ACNT_PRDT_CD (e.g. "12345678-01")
	CustType  string
	BaseURL   string
	IsPaper   bool
	Timeout   time.Duration
}

// NewClient creates a KIS client with its own token manager.
func NewClient(opts Options) (*Client, error) {
	accountNo, productCode, err := splitAccount(opts.Account)
	if err != nil {
		return nil, err
	}
	if opts.CustType == "" {
		opts.CustType = "P"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Client{
		auth:               NewTokenManager(opts.AppKey, opts.AppSecret, opts.BaseURL, opts.Timeout),
		baseURL:            opts.BaseURL,
		accountNo:          accountNo,
		accountProductCode: productCode,
		custType:           opts.CustType,
		isPaper:            opts.IsPaper,
		httpClient:         &http.Client{Timeout: opts.Timeout},
	}, nil
}

// Auth exposes the token manager for invalidation on credential change.
func (c *Client) Auth() *TokenManager { return c.auth }

// Token satisfies broker.Broker.
func (c *Client) Token(ctx context.Context) (broker.Token, error) {
	return c.auth.Token(ctx)
}

// splitAccount parses "XXXXXXXX-XX" into account number and product code.
func splitAccount(account string) (string, string, error) {
	parts := strings.Split(account, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid account format: %q (expected: XXXXXXXX-XX)", account)
	}
	return parts[0], parts[1], nil
}

// dailyPriceResponse represents the KIS daily price API response
type dailyPriceResponse struct {
	RetCode string `json:"rt_cd"` // "0" = success
	MsgCode string `json:"msg_cd"`
	Msg1    string `json:"msg1"`
	Output2 []struct {
		Date   string `json:"stck_bsop_date"`
		Open   string `json:"stck_oprc"`
		High   string `json:"stck_hgpr"`
		Low    string `json:"stck_lwpr"`
		Close  string `json:"stck_clpr"`
		Volume string `json:"acml_vol"`
	} `json:"output2"`
}

// DailyQuotes fetches daily OHLCV rows for a symbol.
// 국내주식시세 > 주식현재가 일자별
func (c *Client) DailyQuotes(ctx context.Context, symbol, from, to string) ([]quote.Quote, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/uapi/domestic-stock/v1/quotations/inquire-daily-price", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &broker.UpstreamError{Err: err}
	}

	q := req.URL.Query()
	q.Add("FID_COND_MRKT_DIV_CODE", "J") // 주식 (코스피/코스닥)
	q.Add("FID_INPUT_ISCD", symbol)
	q.Add("FID_PERIOD_DIV_CODE", "D")
	q.Add("FID_ORG_ADJ_PRC", "0")
	req.URL.RawQuery = q.Encode()

	c.setHeaders(req, token.Value, "FHKST01010400", "")

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var priceResp dailyPriceResponse
	if err := json.Unmarshal(respBody, &priceResp); err != nil {
		return nil, &broker.UpstreamError{Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if priceResp.RetCode != "0" {
		return nil, &broker.UpstreamError{
			StatusCode: http.StatusOK,
			Body:       fmt.Sprintf("code=%s msg=%s", priceResp.MsgCode, priceResp.Msg1),
		}
	}

	quotes := make([]quote.Quote, 0, len(priceResp.Output2))
	for _, row := range priceResp.Output2 {
		qt := quote.Quote{
			Symbol: symbol,
			Date:   row.Date,
			Open:   parsePrice(row.Open),
			High:   parsePrice(row.High),
			Low:    parsePrice(row.Low),
			Close:  parsePrice(row.Close),
			Volume: parsePrice(row.Volume),
		}
		if qt.InRange(from, to) {
			quotes = append(quotes, qt)
		}
	}
	return quotes, nil
}

// currentPriceResponse represents the KIS current price API response
type currentPriceResponse struct {
	RetCode string `json:"rt_cd"`
	MsgCode string `json:"msg_cd"`
	Msg1    string `json:"msg1"`
	Output  struct {
		StockPrice string `json:"stck_prpr"` // 현재가
	} `json:"output"`
}

// LatestPrice fetches the current price for a symbol.
// 국내주식시세 > 주식현재가 시세
func (c *Client) LatestPrice(ctx context.Context, symbol string) (int64, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return 0, err
	}

	url := fmt.Sprintf("%s/uapi/domestic-stock/v1/quotations/inquire-price", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &broker.UpstreamError{Err: err}
	}

	q := req.URL.Query()
	q.Add("FID_COND_MRKT_DIV_CODE", "J")
	q.Add("FID_INPUT_ISCD", symbol)
	req.URL.RawQuery = q.Encode()

	c.setHeaders(req, token.Value, "FHKST01010100", "")

	respBody, err := c.do(req)
	if err != nil {
		return 0, err
	}

	var priceResp currentPriceResponse
	if err := json.Unmarshal(respBody, &priceResp); err != nil {
		return 0, &broker.UpstreamError{Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if priceResp.RetCode != "0" {
		return 0, &broker.UpstreamError{
			StatusCode: http.StatusOK,
			Body:       fmt.Sprintf("code=%s msg=%s", priceResp.MsgCode, priceResp.Msg1),
		}
	}

	price, err := strconv.ParseInt(priceResp.Output.StockPrice, 10, 64)
	if err != nil {
		return 0, &broker.UpstreamError{Err: fmt.Errorf("parse current price: %w", err)}
	}
	return price, nil
}

// orderCashResponse represents the KIS order API response
type orderCashResponse struct {
	RetCode string `json:"rt_cd"`
	MsgCode string `json:"msg_cd"`
	Msg1    string `json:"msg1"`
	Output  struct {
		OrderNo   string `json:"ODNO"`
		OrderTime string `json:"ORD_TMD"`
	} `json:"output"`
}

// PlaceOrder submits each line as a cash order. HTTP-level failures
// abort the whole batch; a KIS business rejection marks only that line
// rejected and continues. Nothing here retries.
func (c *Client) PlaceOrder(ctx context.Context, lines []order.Line) (*order.Result, error) {
	executed := make([]order.ExecutedLine, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}

		resp, err := c.orderCash(ctx, line)
		if err != nil {
			return nil, err
		}

		el := order.ExecutedLine{Line: line, Message: resp.Msg1}
		if resp.RetCode == "0" {
			el.Status = order.StatusFilled
			el.OrderNo = resp.Output.OrderNo
			total = total.Add(line.Amount)
		} else {
			el.Status = order.StatusRejected
			log.Warn().
				Str("symbol", line.Symbol).
				Str("code", resp.MsgCode).
				Str("msg", resp.Msg1).
				Msg("KIS rejected order line")
		}
		executed = append(executed, el)
	}

	return &order.Result{
		Lines:         executed,
		TotalExecuted: total,
		ExecutedAt:    time.Now(),
	}, nil
}

// orderCash places one cash order.
// 국내주식주문 > 주식주문(현금)
func (c *Client) orderCash(ctx context.Context, line order.Line) (*orderCashResponse, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	// TR prefix: 실전 TTTC, 모의 VTTC; buy=0802U, sell=0801U
	trBase := "TTTC"
	if c.isPaper {
		trBase = "VTTC"
	}
	trID := trBase + "0802U"
	if line.Side == order.SideSell {
		trID = trBase + "0801U"
	}

	ordDvsn := "00" // 지정가
	ordUnpr := itoa(line.Price.IntPart())
	if line.Type == order.TypeMarket {
		ordDvsn = "01" // 시장가
		ordUnpr = "0"
	}

	body := map[string]string{
		"CANO":         c.accountNo,
		"ACNT_PRDT_CD": c.accountProductCode,
		"PDNO":         line.Symbol,
		"ORD_DVSN":     ordDvsn,
		"ORD_QTY":      itoa(line.Qty),
		"ORD_UNPR":     ordUnpr,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, &broker.UpstreamError{Err: err}
	}

	url := fmt.Sprintf("%s/uapi/domestic-stock/v1/trading/order-cash", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &broker.UpstreamError{Err: err}
	}

	c.setHeaders(req, token.Value, trID, hashkey(bodyBytes))

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var orderResp orderCashResponse
	if err := json.Unmarshal(respBody, &orderResp); err != nil {
		return nil, &broker.UpstreamError{Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return &orderResp, nil
}

// setHeaders applies the KIS header scheme. hashKey is only set on
// POST requests carrying a body.
func (c *Client) setHeaders(req *http.Request, token, trID, hashKey string) {
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", bearer(token))
	req.Header.Set("appkey", c.auth.appKey)
	req.Header.Set("appsecret", c.auth.appSecret)
	req.Header.Set("tr_id", trID)
	req.Header.Set("custtype", c.custType)
	if hashKey != "" {
		req.Header.Set("hashkey", hashKey)
	}
}

// do executes the request and maps transport and non-2xx failures to
// UpstreamError.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &broker.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &broker.UpstreamError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &broker.UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

// hashkey computes the SHA-256 body hash KIS requires on POST requests.
func hashkey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// parsePrice parses KIS string-typed numerics, tolerating blanks.
func parsePrice(s string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v
}
