package models

// Trade is the canonical normalized representation of one vendor file row.
// The parser for each vendor handle is responsible for populating every
// field from the source workbook; missing cells are defaulted there, never
// here, so a Trade is always complete.
type Trade struct {
	// ID is assigned by the staging store on insert; zero means not yet
	// persisted.
	ID       int64  `json:"id,omitempty"`
	Handle   string `json:"handle"`
	Filename string `json:"filename"`
	Filehash string `json:"filehash"`
	// Row is the 1-based data row index within the source sheet.
	Row                 int32   `json:"row"`
	AccountName         string  `json:"account_name"`
	AccountNumber       string  `json:"account_number"`
	SecurityDescription string  `json:"security_description"`
	SecurityTicker      string  `json:"security_ticker"`
	AssetClass          string  `json:"asset_class"`
	SecurityType        string  `json:"security_type"`
	TxType              string  `json:"tx_type"`
	Cusip               string  `json:"cusip"`
	Price               float64 `json:"price"`
	Quantity            float64 `json:"quantity"`
	Commission          float64 `json:"commission"`
	Fee                 float64 `json:"fee"`
	Principal           float64 `json:"principal"`
	NetAmount           float64 `json:"net_amount"`
	// Trade and settlement dates are seconds since the Unix epoch.
	TradeDate      int64  `json:"trade_date"`
	SettlementDate int64  `json:"settlement_date"`
	Broker         string `json:"broker"`
	Trader         string `json:"trader"`
}

// IsChained reports whether other settles inside t's open window on the same
// instrument: same ticker, other opened no earlier than t, and other opened
// strictly before t settled. The relation is reflexive and not symmetric; it
// does not look at tx_type.
func (t *Trade) IsChained(other *Trade) bool {
	return t.SecurityTicker == other.SecurityTicker &&
		t.TradeDate <= other.TradeDate &&
		t.SettlementDate > other.TradeDate
}
