package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the order direction
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Type is the order pricing type
type Type string

const (
	TypeMarket Type = "market" // executed at current price, ORD_DVSN 01
	TypeLimit  Type = "limit"  // executed at Line.Price, ORD_DVSN 00
)

// Status is the terminal per-line execution state
type Status string

const (
	StatusFilled     Status = "filled"
	StatusRejected   Status = "rejected"
	StatusMockFilled Status = "mock-filled"
)

// Line is one previewable order. Quantity is a non-negative share count;
// Amount is always Qty × Price.
type Line struct {
	Symbol string          `json:"symbol"`
	Side   Side            `json:"side"`
	Type   Type            `json:"type"`
	Qty    int64           `json:"qty"`
	Price  decimal.Decimal `json:"price"`  // estimated price per share (KRW)
	Amount decimal.Decimal `json:"amount"` // Qty × Price
}

// NewLine builds a line with its amount derived from qty and price.
func NewLine(symbol string, side Side, typ Type, qty int64, price decimal.Decimal) Line {
	return Line{
		Symbol: symbol,
		Side:   side,
		Type:   typ,
		Qty:    qty,
		Price:  price,
		Amount: price.Mul(decimal.NewFromInt(qty)),
	}
}

// Preview is the ordered line list a user approves before execution.
type Preview struct {
	ID          uuid.UUID       `json:"id"`
	Lines       []Line          `json:"lines"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewPreview assembles a preview and totals its lines.
func NewPreview(lines []Line) *Preview {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return &Preview{
		ID:          uuid.New(),
		Lines:       lines,
		TotalAmount: total,
		CreatedAt:   time.Now(),
	}
}

// ExecutedLine is a line plus its terminal execution state.
type ExecutedLine struct {
	Line
	Status  Status `json:"status"`
	OrderNo string `json:"order_no,omitempty"`
	Message string `json:"message,omitempty"`
}

// Result is the terminal outcome of executing a preview. No partial
// async completion is tracked past this point.
type Result struct {
	PreviewID     uuid.UUID       `json:"preview_id,omitempty"`
	Lines         []ExecutedLine  `json:"lines"`
	TotalExecuted decimal.Decimal `json:"total_executed"`
	ExecutedAt    time.Time       `json:"executed_at"`
}

// Executed reports whether the line counts toward the executed total.
func (s Status) Executed() bool {
	return s == StatusFilled || s == StatusMockFilled
}
