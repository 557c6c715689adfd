package processors

import (
	"context"

	"github.com/username/altpipe/src/logger"
	"github.com/username/altpipe/src/models"
)

// BuildChains groups trades into chains by the temporal-overlap relation
// Trade.IsChained, walking trades in insertion order. A trade is claimed by
// the first chain that absorbs it and never joins another. A group only
// becomes a chain when its members span more than one activity type; the
// head is the group's first member.
func BuildChains(trades []models.Trade) []models.TradeChain {
	claimed := make(map[int64]struct{}, len(trades))
	var chains []models.TradeChain

	for i := range trades {
		t := &trades[i]

		var members []models.Trade
		for j := range trades {
			candidate := &trades[j]
			if _, taken := claimed[candidate.ID]; taken {
				continue
			}
			if t.IsChained(candidate) {
				members = append(members, *candidate)
				claimed[candidate.ID] = struct{}{}
			}
		}

		if len(members) == 0 {
			continue
		}
		txTypes := make(map[string]struct{}, len(members))
		for _, m := range members {
			txTypes[m.TxType] = struct{}{}
		}
		if len(txTypes) < 2 {
			// All one activity type; not an interesting chain. The members
			// stay claimed so they don't resurface under a later head.
			continue
		}

		chains = append(chains, models.TradeChain{
			Head:  members[0],
			Chain: members,
		})
	}
	return chains
}

// ChainProcessor derives and publishes the chain set for a handle.
type ChainProcessor struct {
	source TradeSource
	sink   ChainSink
}

func NewChainProcessor(source TradeSource, sink ChainSink) *ChainProcessor {
	return &ChainProcessor{source: source, sink: sink}
}

// Chain rebuilds the handle's chains from staging and replaces the
// downstream set atomically.
func (p *ChainProcessor) Chain(ctx context.Context, handle string) error {
	trades, err := p.source.GetAllTrades(ctx, handle)
	if err != nil {
		return err
	}

	chains := BuildChains(trades)
	logger.L.Info("Built trade chains", "handle", handle, "trades", len(trades), "chains", len(chains))

	return p.sink.PublishChains(ctx, handle, chains)
}
