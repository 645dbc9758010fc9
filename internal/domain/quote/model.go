package quote

// Quote is one daily OHLCV row. Immutable once produced.
type Quote struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"` // YYYYMMDD
	Open   int64  `json:"open"`
	High   int64  `json:"high"`
	Low    int64  `json:"low"`
	Close  int64  `json:"close"`
	Volume int64  `json:"volume"`
}

// InRange reports whether the row's date falls within [from, to].
// Empty bounds are open-ended. YYYYMMDD strings compare lexically.
func (q Quote) InRange(from, to string) bool {
	if from != "" && q.Date < from {
		return false
	}
	if to != "" && q.Date > to {
		return false
	}
	return true
}
