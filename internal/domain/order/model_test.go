package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewLineAmount(t *testing.T) {
	line := NewLine("005930", SideBuy, TypeLimit, 10, decimal.NewFromInt(70000))
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(700000)), "amount %s", line.Amount)

	zero := NewLine("005930", SideBuy, TypeLimit, 0, decimal.NewFromInt(70000))
	assert.True(t, zero.Amount.IsZero())
}

func TestNewPreview(t *testing.T) {
	lines := []Line{
		NewLine("005930", SideBuy, TypeLimit, 10, decimal.NewFromInt(70000)),
		NewLine("000660", SideSell, TypeLimit, 2, decimal.NewFromInt(190000)),
	}

	p := NewPreview(lines)
	assert.NotEqual(t, p.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.False(t, p.CreatedAt.IsZero())
	assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(1080000)), "total %s", p.TotalAmount)

	// Each preview gets its own identity.
	assert.NotEqual(t, p.ID, NewPreview(lines).ID)
}

func TestStatusExecuted(t *testing.T) {
	assert.True(t, StatusFilled.Executed())
	assert.True(t, StatusMockFilled.Executed())
	assert.False(t, StatusRejected.Executed())
}
