package models

// FileSummary counts the trades ingested from one (filename, filehash) pair.
type FileSummary struct {
	Handle   string  `json:"handle"`
	Filename string  `json:"filename"`
	Filehash string  `json:"filehash"`
	Calc     float64 `json:"calc"`
}

// AccountSummary is the sum of |net_amount| per uppercased activity type and
// account name.
type AccountSummary struct {
	Handle      string  `json:"handle"`
	TxType      string  `json:"tx_type"`
	AccountName string  `json:"account_name"`
	Calc        float64 `json:"calc"`
}

// SecuritySummary is the sum of |net_amount| per uppercased activity type
// and ticker.
type SecuritySummary struct {
	Handle         string  `json:"handle"`
	TxType         string  `json:"tx_type"`
	SecurityTicker string  `json:"security_ticker"`
	Calc           float64 `json:"calc"`
}

// TradeChain groups related trades detected by the chain builder. Chain
// holds every member in detection order; Head is always Chain[0]. Members
// share a chain id allocated at publication time.
type TradeChain struct {
	Head  Trade   `json:"head"`
	Chain []Trade `json:"chain"`
}
