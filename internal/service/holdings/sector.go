package holdings

import "strings"

// sectorMap covers common Korean large caps plus a few US examples.
// Unknown codes map to 기타.
var sectorMap = map[string]string{
	"005930": "반도체",
	"005935": "반도체",
	"000660": "반도체",
	"005380": "자동차",
	"035420": "인터넷",
	"035720": "인터넷",
	"051910": "배터리",
	"AAPL":   "기술",
	"GOOGL":  "기술",
	"TSLA":   "자동차",
	"AMZN":   "소비재",
	"KO":     "음료",
}

// Sector returns the sector for a symbol, 기타 when unknown.
func Sector(symbol string) string {
	if sector, ok := sectorMap[strings.ToUpper(symbol)]; ok {
		return sector
	}
	return "기타"
}
