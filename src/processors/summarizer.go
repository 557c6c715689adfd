package processors

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/username/altpipe/src/logger"
	"github.com/username/altpipe/src/models"
)

const (
	// Staged trades for a handle are cached briefly so the rollup families
	// and the chain builder share one staging fetch per run.
	ckTradesForHandle      = "staged_trades_%s"
	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

// cachedTradeSource wraps a TradeSource with a short-lived per-handle cache.
type cachedTradeSource struct {
	source TradeSource
	cache  *cache.Cache
}

// NewCachedTradeSource caches GetAllTrades per handle for the duration of a
// pipeline run.
func NewCachedTradeSource(source TradeSource, c *cache.Cache) TradeSource {
	return &cachedTradeSource{source: source, cache: c}
}

func (s *cachedTradeSource) GetAllTrades(ctx context.Context, handle string) ([]models.Trade, error) {
	key := fmt.Sprintf(ckTradesForHandle, handle)
	if cached, found := s.cache.Get(key); found {
		return cached.([]models.Trade), nil
	}
	trades, err := s.source.GetAllTrades(ctx, handle)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, trades, DefaultCacheExpiration)
	return trades, nil
}

// FileSummaries counts trades per (filename, filehash), in first-seen order.
func FileSummaries(handle string, trades []models.Trade) []models.FileSummary {
	type key struct{ filename, filehash string }
	counts := make(map[key]int)
	var order []key
	for _, t := range trades {
		k := key{t.Filename, t.Filehash}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	summaries := make([]models.FileSummary, 0, len(order))
	for _, k := range order {
		summaries = append(summaries, models.FileSummary{
			Handle:   handle,
			Filename: k.filename,
			Filehash: k.filehash,
			Calc:     float64(counts[k]),
		})
	}
	return summaries
}

// AccountSummaries sums |net_amount| per (upper tx_type, upper account
// name). Accumulation runs in decimal so the total doesn't drift with the
// number of rows; the result converts to float64 once at the edge.
func AccountSummaries(handle string, trades []models.Trade) []models.AccountSummary {
	type key struct{ txType, accountName string }
	sums := make(map[key]decimal.Decimal)
	var order []key
	for _, t := range trades {
		k := key{strings.ToUpper(t.TxType), strings.ToUpper(t.AccountName)}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(decimal.NewFromFloat(math.Abs(t.NetAmount)))
	}

	summaries := make([]models.AccountSummary, 0, len(order))
	for _, k := range order {
		summaries = append(summaries, models.AccountSummary{
			Handle:      handle,
			TxType:      k.txType,
			AccountName: k.accountName,
			Calc:        sums[k].InexactFloat64(),
		})
	}
	return summaries
}

// SecuritySummaries sums |net_amount| per (upper tx_type, upper ticker).
func SecuritySummaries(handle string, trades []models.Trade) []models.SecuritySummary {
	type key struct{ txType, ticker string }
	sums := make(map[key]decimal.Decimal)
	var order []key
	for _, t := range trades {
		k := key{strings.ToUpper(t.TxType), strings.ToUpper(t.SecurityTicker)}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(decimal.NewFromFloat(math.Abs(t.NetAmount)))
	}

	summaries := make([]models.SecuritySummary, 0, len(order))
	for _, k := range order {
		summaries = append(summaries, models.SecuritySummary{
			Handle:         handle,
			TxType:         k.txType,
			SecurityTicker: k.ticker,
			Calc:           sums[k].InexactFloat64(),
		})
	}
	return summaries
}

// Summarizer derives the three rollup families for a handle and writes them
// downstream one row at a time.
type Summarizer struct {
	source TradeSource
	sink   SummarySink
}

func NewSummarizer(source TradeSource, sink SummarySink) *Summarizer {
	return &Summarizer{source: source, sink: sink}
}

// Summarize clears the handle's prior summary rows, then recomputes and
// inserts all three families from staging.
func (s *Summarizer) Summarize(ctx context.Context, handle string) error {
	if err := s.sink.CleanSummaries(ctx, handle); err != nil {
		return err
	}

	trades, err := s.source.GetAllTrades(ctx, handle)
	if err != nil {
		return err
	}
	logger.L.Info("Summarizing staged trades", "handle", handle, "trades", len(trades))

	for _, fs := range FileSummaries(handle, trades) {
		if err := s.sink.InsertFileSummary(ctx, &fs); err != nil {
			return err
		}
		logger.L.Debug("inserted file summary", "filename", fs.Filename, "calc", fs.Calc)
	}

	for _, as := range AccountSummaries(handle, trades) {
		if err := s.sink.InsertAccountSummary(ctx, &as); err != nil {
			return err
		}
		logger.L.Debug("inserted account summary", "txType", as.TxType, "account", as.AccountName, "calc", as.Calc)
	}

	for _, ss := range SecuritySummaries(handle, trades) {
		if err := s.sink.InsertSecuritySummary(ctx, &ss); err != nil {
			return err
		}
		logger.L.Debug("inserted security summary", "txType", ss.TxType, "ticker", ss.SecurityTicker, "calc", ss.Calc)
	}

	return nil
}
