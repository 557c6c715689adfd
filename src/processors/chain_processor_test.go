package processors

import (
	"context"
	"reflect"
	"testing"

	"github.com/username/altpipe/src/logger"
	"github.com/username/altpipe/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

// day converts a day offset to epoch seconds, enough resolution for the
// overlap relation.
func day(n int64) int64 { return n * 86400 }

func mkTrade(id int64, txType, ticker string, tradeDay, settleDay int64, netAmount float64) models.Trade {
	return models.Trade{
		ID:             id,
		Handle:         "rivernorth",
		Filename:       "/tmp/2019-09.xlsx",
		Filehash:       "HASH",
		Row:            int32(id),
		AccountName:    "ACCT-001",
		SecurityTicker: ticker,
		TxType:         txType,
		NetAmount:      netAmount,
		TradeDate:      day(tradeDay),
		SettlementDate: day(settleDay),
	}
}

func TestIsChained(t *testing.T) {
	buy := mkTrade(1, "BUY", "ABC", 10, 13, 1000)
	sellInside := mkTrade(2, "SELL", "ABC", 11, 14, -400)
	sellAtSettle := mkTrade(3, "SELL", "ABC", 13, 15, -400)
	otherTicker := mkTrade(4, "SELL", "XYZ", 11, 14, -400)
	earlier := mkTrade(5, "SELL", "ABC", 9, 14, -400)

	if !buy.IsChained(&buy) {
		t.Error("relation must be reflexive")
	}
	if !buy.IsChained(&sellInside) {
		t.Error("sell inside the window must chain")
	}
	if buy.IsChained(&sellAtSettle) {
		t.Error("sell at the settlement boundary must not chain")
	}
	if buy.IsChained(&otherTicker) {
		t.Error("different ticker must not chain")
	}
	if buy.IsChained(&earlier) {
		t.Error("earlier trade must not chain forward")
	}
	if sellInside.IsChained(&buy) {
		t.Error("relation is not symmetric")
	}
}

func TestBuildChains_BuyThenSellInsideWindow(t *testing.T) {
	trades := []models.Trade{
		mkTrade(1, "BUY", "ABC", 10, 13, 1000),
		mkTrade(2, "SELL", "ABC", 11, 14, -400),
	}

	chains := BuildChains(trades)
	if len(chains) != 1 {
		t.Fatalf("got %d chains, want 1", len(chains))
	}
	c := chains[0]
	if c.Head.ID != 1 || c.Head.TxType != "BUY" {
		t.Errorf("head = trade %d (%s), want the BUY", c.Head.ID, c.Head.TxType)
	}
	if len(c.Chain) != 2 {
		t.Fatalf("got %d members, want 2", len(c.Chain))
	}
	if c.Chain[0].ID != 1 || c.Chain[1].ID != 2 {
		t.Errorf("member order = %d, %d; want 1, 2", c.Chain[0].ID, c.Chain[1].ID)
	}
}

func TestBuildChains_SellOutsideWindow(t *testing.T) {
	trades := []models.Trade{
		mkTrade(1, "BUY", "ABC", 10, 13, 1000),
		mkTrade(2, "SELL", "ABC", 13, 15, -400), // opens at the settlement boundary
	}
	if chains := BuildChains(trades); len(chains) != 0 {
		t.Errorf("got %d chains, want 0", len(chains))
	}
}

func TestBuildChains_SingleTxTypeNotEmitted(t *testing.T) {
	trades := []models.Trade{
		mkTrade(1, "BUY", "ABC", 10, 13, 1000),
		mkTrade(2, "BUY", "ABC", 11, 14, 500),
	}
	if chains := BuildChains(trades); len(chains) != 0 {
		t.Errorf("overlapping same-type trades produced %d chains, want 0", len(chains))
	}
}

func TestBuildChains_SingleTrade(t *testing.T) {
	trades := []models.Trade{mkTrade(1, "BUY", "ABC", 10, 13, 1000)}
	if chains := BuildChains(trades); len(chains) != 0 {
		t.Errorf("a lone trade produced %d chains, want 0", len(chains))
	}
}

func TestBuildChains_MembershipUnique(t *testing.T) {
	// A busy ticker: the first chain should claim everything inside the
	// first window; nothing may appear twice across chains.
	trades := []models.Trade{
		mkTrade(1, "BUY", "ABC", 10, 20, 1000),
		mkTrade(2, "SELL", "ABC", 11, 13, -300),
		mkTrade(3, "SELL", "ABC", 12, 30, -200),
		mkTrade(4, "BUY", "XYZ", 12, 16, 800),
		mkTrade(5, "SELL", "XYZ", 13, 18, -800),
		mkTrade(6, "SELL", "ABC", 25, 28, -100),
	}

	chains := BuildChains(trades)
	seen := make(map[int64]string)
	for _, c := range chains {
		heads := 0
		for _, m := range c.Chain {
			if prior, dup := seen[m.ID]; dup {
				t.Errorf("trade %d appears in two chains (first head %s)", m.ID, prior)
			}
			seen[m.ID] = c.Head.SecurityTicker
			if m.ID == c.Head.ID {
				heads++
			}
		}
		if heads != 1 {
			t.Errorf("chain headed by %d has %d head members, want 1", c.Head.ID, heads)
		}
	}
}

func TestBuildChains_Idempotent(t *testing.T) {
	trades := []models.Trade{
		mkTrade(1, "BUY", "ABC", 10, 20, 1000),
		mkTrade(2, "SELL", "ABC", 11, 13, -300),
		mkTrade(3, "BUY", "XYZ", 12, 16, 800),
		mkTrade(4, "SELL", "XYZ", 13, 18, -800),
	}
	first := BuildChains(trades)
	second := BuildChains(trades)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical input must produce identical chains")
	}
}

// spySource serves a fixed trade list.
type spySource struct {
	trades []models.Trade
	calls  int
}

func (s *spySource) GetAllTrades(ctx context.Context, handle string) ([]models.Trade, error) {
	s.calls++
	return s.trades, nil
}

// spyChainSink records the published set.
type spyChainSink struct {
	handle string
	chains []models.TradeChain
}

func (s *spyChainSink) PublishChains(ctx context.Context, handle string, chains []models.TradeChain) error {
	s.handle = handle
	s.chains = chains
	return nil
}

func TestChainProcessor_PublishesBuiltChains(t *testing.T) {
	source := &spySource{trades: []models.Trade{
		mkTrade(1, "BUY", "ABC", 10, 13, 1000),
		mkTrade(2, "SELL", "ABC", 11, 14, -400),
	}}
	sink := &spyChainSink{}

	if err := NewChainProcessor(source, sink).Chain(context.Background(), "rivernorth"); err != nil {
		t.Fatalf("Chain returned error: %v", err)
	}
	if sink.handle != "rivernorth" {
		t.Errorf("published handle = %q", sink.handle)
	}
	if len(sink.chains) != 1 {
		t.Fatalf("published %d chains, want 1", len(sink.chains))
	}
}
